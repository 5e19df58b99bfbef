package app

import (
	"context"
	"testing"

	"github.com/example/slot-reserve/internal/domain"
)

func TestEngine_AvailableSlots(t *testing.T) {
	t.Parallel()

	seed := []domain.Slot{
		{Day: domain.DaySaturday, Label: "15u-16u30", Occupancy: 10, Capacity: 10},
		{Day: domain.DaySaturday, Label: "17u-18u30", Occupancy: 8, Capacity: 10},
		{Day: domain.DaySunday, Label: "11u-12u30", Occupancy: 0, Capacity: 10},
		{Day: domain.DaySunday, Label: "14u-15u30", Occupancy: 3, Capacity: 10},
		{Day: domain.DayPickup, Label: "12u00-13u00", Occupancy: 0, Capacity: 60},
	}

	t.Run("keeps store order and drops full slots", func(t *testing.T) {
		engine, _ := newTestEngine(seed)

		slots, err := engine.AvailableSlots(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"17u-18u30", "11u-12u30", "14u-15u30", "12u00-13u00"}
		if len(slots) != len(want) {
			t.Fatalf("expected %d slots, got %d", len(want), len(slots))
		}
		for i, label := range want {
			if slots[i].Label != label {
				t.Fatalf("slot %d: expected %q, got %q", i, label, slots[i].Label)
			}
		}
	})

	t.Run("filters by day", func(t *testing.T) {
		engine, _ := newTestEngine(seed)

		day := domain.DaySunday
		slots, err := engine.AvailableSlots(context.Background(), &day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(slots))
		}
		for _, s := range slots {
			if s.Day != domain.DaySunday {
				t.Fatalf("unexpected day %s", s.Day)
			}
		}
	})

	t.Run("empty store yields an empty list", func(t *testing.T) {
		engine, _ := newTestEngine(nil)

		slots, err := engine.AvailableSlots(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(slots) != 0 {
			t.Fatalf("expected no slots, got %d", len(slots))
		}
	})
}
