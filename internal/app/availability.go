package app

import (
	"context"

	"github.com/example/slot-reserve/internal/domain"
)

// AvailableSlots returns the slots with spare capacity, optionally filtered
// by day. Order matches the store's row order; callers display it as-is.
func (e *Engine) AvailableSlots(ctx context.Context, day *domain.Day) ([]domain.Slot, error) {
	slots, err := e.store.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if day != nil && s.Day != *day {
			continue
		}
		if s.Occupancy < s.Capacity {
			out = append(out, s)
		}
	}
	return out, nil
}
