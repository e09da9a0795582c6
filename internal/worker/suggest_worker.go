// Package worker runs the asynchronous merchant suggestion consumer.
// It sits behind the AMQP queue so model latency and failures never
// block transaction writes.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/merchant"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// SuggestWorker resolves queued raw merchant names to stored mappings.
type SuggestWorker struct {
	merchants *services.Merchants
	storage   *storage.Repository
	batchSize int
}

func NewSuggestWorker(merchants *services.Merchants, storage *storage.Repository, batchSize int) *SuggestWorker {
	return &SuggestWorker{
		merchants: merchants,
		storage:   storage,
		batchSize: batchSize,
	}
}

// HandleSuggestMessage processes a single suggestion request from AMQP.
func (w *SuggestWorker) HandleSuggestMessage(ctx context.Context, msg *amqp.MerchantSuggestMessage) error {
	slog.InfoContext(ctx, "Processing merchant suggest message",
		"raw_names", msg.RawNames)

	for _, batch := range batches(msg.RawNames, w.batchSize) {
		created, err := w.merchants.ProcessSuggestions(ctx, batch)
		if err != nil {
			return fmt.Errorf("process suggestions: %w", err)
		}
		slog.InfoContext(ctx, "Processed suggestion batch",
			"batch_size", len(batch), "mappings_created", len(created))
	}

	return nil
}

// ProcessUnmappedMerchants scans stored transactions for raw merchant
// names with no mapping and resolves them. This is a backup mechanism
// in case AMQP messages are lost.
func (w *SuggestWorker) ProcessUnmappedMerchants(ctx context.Context) error {
	transactions, err := w.storage.Queries().ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	mappings, err := w.merchants.All(ctx)
	if err != nil {
		return fmt.Errorf("load merchant mappings: %w", err)
	}

	pending := merchant.IdentifyUnmapped(transactions, mappings)
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No unmapped merchants found")
		return nil
	}

	slog.InfoContext(ctx, "Found unmapped merchants, processing...",
		"count", len(pending))

	for _, batch := range batches(pending, w.batchSize) {
		if _, err := w.merchants.ProcessSuggestions(ctx, batch); err != nil {
			slog.ErrorContext(ctx, "Failed to process suggestion batch",
				"error", err, "batch_size", len(batch))
		}
	}

	return nil
}

func batches(names []string, size int) [][]string {
	if size <= 0 {
		size = len(names)
	}
	var out [][]string
	for len(names) > 0 {
		n := size
		if n > len(names) {
			n = len(names)
		}
		out = append(out, names[:n])
		names = names[n:]
	}
	return out
}
