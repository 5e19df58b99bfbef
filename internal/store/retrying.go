package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/slot-reserve/internal/domain"
)

// Retrying decorates a SlotStore with bounded retries on transient store
// failures. Only domain.ErrStoreUnavailable is retried; lookup failures,
// malformed rows and occupancy conflicts pass straight through.
type Retrying struct {
	next     SlotStore
	attempts int
	backoff  time.Duration
	log      *slog.Logger
}

func NewRetrying(next SlotStore, attempts int, backoff time.Duration, log *slog.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{next: next, attempts: attempts, backoff: backoff, log: log}
}

func (r *Retrying) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	var out []domain.Slot
	err := r.retry(ctx, "list slots", func() error {
		var err error
		out, err = r.next.ListSlots(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) LocateSlot(ctx context.Context, day domain.Day, label string) (RowHandle, error) {
	var h RowHandle
	err := r.retry(ctx, "locate slot", func() error {
		var err error
		h, err = r.next.LocateSlot(ctx, day, label)
		return err
	})
	return h, err
}

func (r *Retrying) ReadOccupancy(ctx context.Context, h RowHandle) (int, error) {
	var n int
	err := r.retry(ctx, "read occupancy", func() error {
		var err error
		n, err = r.next.ReadOccupancy(ctx, h)
		return err
	})
	return n, err
}

func (r *Retrying) ReadCapacity(ctx context.Context, h RowHandle) (int, error) {
	var n int
	err := r.retry(ctx, "read capacity", func() error {
		var err error
		n, err = r.next.ReadCapacity(ctx, h)
		return err
	})
	return n, err
}

func (r *Retrying) WriteOccupancy(ctx context.Context, h RowHandle, expected, next int) error {
	return r.retry(ctx, "write occupancy", func() error {
		return r.next.WriteOccupancy(ctx, h, expected, next)
	})
}

func (r *Retrying) AppendRecord(ctx context.Context, table Table, fields []string) error {
	return r.retry(ctx, "append record", func() error {
		return r.next.AppendRecord(ctx, table, fields)
	})
}

func (r *Retrying) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	backoff := r.backoff
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		if attempt == r.attempts {
			break
		}
		if r.log != nil {
			r.log.Warn("store operation failed, retrying",
				"op", op, "attempt", attempt, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
