// Package worker drains the expense event stream into the spreadsheet
// mirror. It is deliberately dumb: resolve the record, export it, flag it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vytraty/internal/core"
	"vytraty/internal/events"
	"vytraty/internal/export"
	"vytraty/internal/ledger"
)

// Resolver is the slice of the repository the worker needs.
type Resolver interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	ListUnexported(ctx context.Context, limit int) ([]core.Expense, error)
	MarkExported(ctx context.Context, id int64) error
}

type SyncWorker struct {
	store     Resolver
	exporter  export.Appender
	batchSize int
}

func NewSyncWorker(store Resolver, exporter export.Appender, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{store: store, exporter: exporter, batchSize: batchSize}
}

// HandleEvent processes one event from the queue.
func (w *SyncWorker) HandleEvent(event *events.ExpenseEvent) error {
	ctx := context.Background()

	switch event.Kind {
	case events.KindCreated:
		return w.exportExpense(ctx, event.ID)
	case events.KindDeleted:
		// Deletions are not mirrored; the spreadsheet keeps history.
		slog.InfoContext(ctx, "Expense deleted, keeping exported row",
			"id", event.ID, "owner_id", event.OwnerID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring event of unknown kind", "kind", event.Kind)
		return nil
	}
}

func (w *SyncWorker) exportExpense(ctx context.Context, id int64) error {
	expense, err := w.store.GetExpense(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Deleted before the event was consumed. Nothing to export.
		slog.WarnContext(ctx, "Expense vanished before export", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}

	if err := w.exporter.Append(ctx, expense); err != nil {
		return fmt.Errorf("export expense %d: %w", id, err)
	}
	if err := w.store.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark expense %d exported: %w", id, err)
	}
	return nil
}

// StartupSyncCheck exports any rows missed while the worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.ListUnexported(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses to export")
		return nil
	}

	slog.InfoContext(ctx, "Exporting pending expenses", "count", len(pending))
	for _, e := range pending {
		if err := w.exportExpense(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}
