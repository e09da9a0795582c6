package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/merchant"
)

type stubSuggester struct {
	suggestions []merchant.Suggestion
	err         error
	calls       [][]string
}

func (s *stubSuggester) Suggest(_ context.Context, rawNames []string) ([]merchant.Suggestion, error) {
	s.calls = append(s.calls, rawNames)
	return s.suggestions, s.err
}

func TestProcessSuggestionsPersistsModelOutput(t *testing.T) {
	repo := newTestRepo(t)
	sg := &stubSuggester{suggestions: []merchant.Suggestion{
		{RawName: "SQ *CORNER CAFE", DisplayName: "Corner Cafe", Category: "Dining Out"},
	}}
	svc := NewMerchants(repo, sg)
	ctx := context.Background()

	created, err := svc.ProcessSuggestions(ctx, []string{"SQ *CORNER CAFE"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d mappings, want 1", len(created))
	}
	if created[0].DisplayName != "Corner Cafe" || created[0].Category != "Dining Out" {
		t.Errorf("mapping = %+v", created[0])
	}

	stored, err := repo.Queries().GetMerchantMapping(ctx, "SQ *CORNER CAFE")
	if err != nil {
		t.Fatalf("mapping not persisted: %v", err)
	}
	if stored.DisplayName != "Corner Cafe" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestProcessSuggestionsFallsBackOnSuggesterFailure(t *testing.T) {
	repo := newTestRepo(t)
	sg := &stubSuggester{err: errors.New("model unavailable")}
	svc := NewMerchants(repo, sg)
	ctx := context.Background()

	created, err := svc.ProcessSuggestions(ctx, []string{"SQ *CORNER CAFE #12"})
	if err != nil {
		t.Fatalf("process should survive a suggester failure: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d mappings, want 1", len(created))
	}
	if created[0].DisplayName != "Corner Cafe" {
		t.Errorf("fallback display = %q, want heuristic cleanup result", created[0].DisplayName)
	}
	if created[0].Category != core.CategoryFallback {
		t.Errorf("fallback category = %q, want %q", created[0].Category, core.CategoryFallback)
	}

	// The fallback is persisted so the name is never resubmitted.
	if _, err := repo.Queries().GetMerchantMapping(ctx, "SQ *CORNER CAFE #12"); err != nil {
		t.Errorf("fallback mapping not persisted: %v", err)
	}
}

func TestProcessSuggestionsSkipsMappedNames(t *testing.T) {
	repo := newTestRepo(t)
	sg := &stubSuggester{}
	svc := NewMerchants(repo, sg)
	ctx := context.Background()

	if err := svc.Put(ctx, core.MerchantMapping{RawName: "CORNER CAFE", DisplayName: "Corner Cafe", Category: "Dining Out"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	created, err := svc.ProcessSuggestions(ctx, []string{"SQ *CORNER CAFE", ""})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("created %v for already-matched names", created)
	}
	if len(sg.calls) != 0 {
		t.Errorf("suggester called for already-matched names: %v", sg.calls)
	}
}

func TestProcessSuggestionsNilSuggesterUsesCleanup(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewMerchants(repo, nil)

	created, err := svc.ProcessSuggestions(context.Background(), []string{"IC*INSTACART"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(created) != 1 || created[0].DisplayName != "Instacart" || created[0].Category != core.CategoryFallback {
		t.Errorf("created = %+v", created)
	}
}

func TestPutInvalidatesMappingCache(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewMerchants(repo, nil)
	ctx := context.Background()

	if err := svc.Put(ctx, core.MerchantMapping{RawName: "A", DisplayName: "A Store", Category: "Shopping"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Prime the cache.
	if _, err := svc.All(ctx); err != nil {
		t.Fatalf("all: %v", err)
	}

	if err := svc.Put(ctx, core.MerchantMapping{RawName: "B", DisplayName: "B Store", Category: "Shopping"}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all after put: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d mappings, want 2 (stale cache?)", len(all))
	}
}

func TestMerchantMatchService(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewMerchants(repo, nil)
	ctx := context.Background()

	if err := svc.Put(ctx, core.MerchantMapping{RawName: "AMZN", DisplayName: "Amazon", Category: "Shopping"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	display, category, matched, err := svc.Match(ctx, "AMZN MKTP US")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !matched || display != "Amazon" || category != "Shopping" {
		t.Errorf("match = (%q, %q, %v)", display, category, matched)
	}

	_, category, matched, err = svc.Match(ctx, "UNKNOWN SHOP")
	if err != nil {
		t.Fatalf("match unknown: %v", err)
	}
	if matched || category != core.CategoryFallback {
		t.Errorf("unknown match = (%q, %v)", category, matched)
	}
}

func TestResolveTransactionFillsBlanks(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewMerchants(repo, nil)
	ctx := context.Background()

	if err := svc.Put(ctx, core.MerchantMapping{RawName: "AMZN", DisplayName: "Amazon", Category: "Shopping"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	tx := core.Transaction{RawMerchant: "AMZN MKTP US", Category: "Gifts"}
	if err := svc.ResolveTransaction(ctx, &tx); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tx.Description != "Amazon" {
		t.Errorf("description = %q, want Amazon", tx.Description)
	}
	// Caller-set fields are never overwritten.
	if tx.Category != "Gifts" {
		t.Errorf("category = %q, want Gifts", tx.Category)
	}
}
