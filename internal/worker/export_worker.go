package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/export"
)

// Consumer delivers ledger events until its context ends.
type Consumer interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, core.LedgerEvent) error) error
}

// Stats counts handled events since the worker started.
type Stats struct {
	Upserted int64
	Removed  int64
	Failed   int64
}

// ExportWorker mirrors committed ledger events into an external sheet.
type ExportWorker struct {
	mirror export.TransactionMirror

	upserted atomic.Int64
	removed  atomic.Int64
	failed   atomic.Int64
}

func NewExportWorker(mirror export.TransactionMirror) *ExportWorker {
	return &ExportWorker{mirror: mirror}
}

// HandleLedgerEvent applies one event to the mirror. Created and updated
// transactions are upserted; deleted ones are removed.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, ev core.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", ev.Kind,
		"transaction_id", ev.Transaction.ID,
		"user_id", ev.UserID)

	var err error
	switch ev.Kind {
	case core.EventTransactionCreated, core.EventTransactionUpdated:
		if err = w.mirror.UpsertTransaction(ctx, ev.Transaction); err == nil {
			w.upserted.Add(1)
		}
	case core.EventTransactionDeleted:
		if err = w.mirror.RemoveTransaction(ctx, ev.Transaction.ID); err == nil {
			w.removed.Add(1)
		}
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", "kind", ev.Kind)
		return nil
	}

	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("mirror %s %s: %w", ev.Kind, ev.Transaction.ID, err)
	}
	return nil
}

func (w *ExportWorker) Stats() Stats {
	return Stats{Upserted: w.upserted.Load(), Removed: w.removed.Load(), Failed: w.failed.Load()}
}

// Run consumes events until ctx is cancelled, logging stats every
// statsInterval. A cancelled context is a clean shutdown and returns nil.
func (w *ExportWorker) Run(ctx context.Context, consumer Consumer, statsInterval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
	})

	if statsInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(statsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					s := w.Stats()
					slog.InfoContext(ctx, "Export worker stats",
						"upserted", s.Upserted, "removed", s.Removed, "failed", s.Failed)
				}
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
