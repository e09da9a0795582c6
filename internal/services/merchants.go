package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/merchant"
	"fintrack/internal/storage"
)

const mappingsCacheKey = "merchant_mappings"

// MappingSuggester proposes display names and categories for raw
// merchant strings, typically backed by a language model.
type MappingSuggester interface {
	Suggest(ctx context.Context, rawNames []string) ([]merchant.Suggestion, error)
}

// Merchants manages the raw-name to display-name mapping table. Reads
// go through a short-lived cache since every transaction lookup wants
// the full mapping set.
type Merchants struct {
	repo      *storage.Repository
	cache     *cache.LRUCache[map[string]core.MerchantMapping]
	suggester MappingSuggester
}

// NewMerchants creates the merchant mapping service. suggester may be
// nil, in which case ProcessSuggestions uses heuristic cleanup only.
func NewMerchants(repo *storage.Repository, suggester MappingSuggester) *Merchants {
	return &Merchants{
		repo:      repo,
		cache:     cache.NewLRUCache[map[string]core.MerchantMapping](1, 5*time.Minute),
		suggester: suggester,
	}
}

// MappingCache exposes the cache for registration with a cache.Manager.
func (s *Merchants) MappingCache() cache.Cleaner {
	return s.cache
}

// All returns every stored mapping keyed by raw name.
func (s *Merchants) All(ctx context.Context) (map[string]core.MerchantMapping, error) {
	if cached, ok := s.cache.Get(mappingsCacheKey); ok {
		return cached, nil
	}

	list, err := s.repo.Queries().ListMerchantMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list merchant mappings: %w", err)
	}

	mappings := make(map[string]core.MerchantMapping, len(list))
	for _, m := range list {
		mappings[m.RawName] = m
	}

	s.cache.Set(mappingsCacheKey, mappings)
	return mappings, nil
}

func (s *Merchants) Get(ctx context.Context, rawName string) (core.MerchantMapping, error) {
	return s.repo.Queries().GetMerchantMapping(ctx, rawName)
}

// Put stores or replaces a mapping.
func (s *Merchants) Put(ctx context.Context, m core.MerchantMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := s.repo.Queries().UpsertMerchantMapping(ctx, m); err != nil {
		return fmt.Errorf("upsert merchant mapping: %w", err)
	}
	s.cache.Delete(mappingsCacheKey)
	return nil
}

// PutBatch stores several mappings in one transaction.
func (s *Merchants) PutBatch(ctx context.Context, mappings []core.MerchantMapping) error {
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		for _, m := range mappings {
			if err := q.UpsertMerchantMapping(ctx, m); err != nil {
				return fmt.Errorf("upsert merchant mapping %q: %w", m.RawName, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Delete(mappingsCacheKey)
	return nil
}

func (s *Merchants) Delete(ctx context.Context, rawName string) error {
	if err := s.repo.Queries().DeleteMerchantMapping(ctx, rawName); err != nil {
		return err
	}
	s.cache.Delete(mappingsCacheKey)
	return nil
}

// Match resolves a raw merchant name against the stored mappings.
func (s *Merchants) Match(ctx context.Context, rawName string) (display, category string, matched bool, err error) {
	mappings, err := s.All(ctx)
	if err != nil {
		return "", "", false, err
	}
	display, category, matched = merchant.Match(rawName, mappings)
	return display, category, matched, nil
}

// ProcessSuggestions resolves the given raw names to new mappings and
// persists them. Names that already match a stored mapping are
// skipped. When the suggester fails or skips a name, the heuristic
// cleanup result with the fallback category is stored instead, so a
// name is never submitted twice.
func (s *Merchants) ProcessSuggestions(ctx context.Context, rawNames []string) ([]core.MerchantMapping, error) {
	logger := slog.With(log.FieldComponent, log.ComponentMerchant)

	mappings, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, name := range rawNames {
		if name == "" {
			continue
		}
		if _, _, matched := merchant.Match(name, mappings); !matched {
			pending = append(pending, name)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	suggested := make(map[string]merchant.Suggestion)
	if s.suggester != nil {
		suggestions, err := s.suggester.Suggest(ctx, pending)
		if err != nil {
			logger.Warn("Suggester failed, falling back to heuristic cleanup", log.FieldError, err)
		}
		for _, sg := range suggestions {
			suggested[sg.RawName] = sg
		}
	}

	created := make([]core.MerchantMapping, 0, len(pending))
	for _, name := range pending {
		m := core.MerchantMapping{
			RawName:     name,
			DisplayName: merchant.Cleanup(name),
			Category:    core.CategoryFallback,
		}
		if sg, ok := suggested[name]; ok {
			m.DisplayName = sg.DisplayName
			m.Category = sg.Category
		}
		created = append(created, m)
	}

	if err := s.PutBatch(ctx, created); err != nil {
		return nil, err
	}

	logger.Info("Stored merchant mappings", "count", len(created))
	return created, nil
}

// ResolveTransaction fills in description and category for a
// transaction from its raw merchant string when the caller left them
// blank.
func (s *Merchants) ResolveTransaction(ctx context.Context, t *core.Transaction) error {
	if t.RawMerchant == "" {
		return nil
	}

	display, category, matched, err := s.Match(ctx, t.RawMerchant)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Resolution is best effort; the transaction stands on its own.
		slog.Warn("Merchant resolution failed", log.FieldRawMerchant, t.RawMerchant, log.FieldError, err)
		return nil
	}
	if !matched {
		return nil
	}

	if t.Description == "" {
		t.Description = display
	}
	if t.Category == "" {
		t.Category = category
	}
	return nil
}
