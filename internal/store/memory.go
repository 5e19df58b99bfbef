package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/slot-reserve/internal/domain"
)

// Memory is an in-process SlotStore with the same conditional-write semantics
// as the remote backends. Used by tests and local smoke runs.
type Memory struct {
	mu      sync.Mutex
	slots   []domain.Slot
	ledgers map[Table][][]string
}

func NewMemory(slots []domain.Slot) *Memory {
	m := &Memory{
		slots:   make([]domain.Slot, len(slots)),
		ledgers: make(map[Table][][]string),
	}
	copy(m.slots, slots)
	return m
}

func (m *Memory) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Slot, len(m.slots))
	copy(out, m.slots)
	return out, nil
}

func (m *Memory) LocateSlot(ctx context.Context, day domain.Day, label string) (RowHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := -1
	for i, s := range m.slots {
		if s.Day != day || s.Label != label {
			continue
		}
		if found >= 0 {
			return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrAmbiguousSlot, day, label)
		}
		found = i
	}
	if found < 0 {
		return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, day, label)
	}
	return RowHandle{Day: day, Label: label, Ref: int64(found)}, nil
}

func (m *Memory) ReadOccupancy(ctx context.Context, h RowHandle) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.rowLocked(h)
	if err != nil {
		return 0, err
	}
	return s.Occupancy, nil
}

func (m *Memory) ReadCapacity(ctx context.Context, h RowHandle) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.rowLocked(h)
	if err != nil {
		return 0, err
	}
	return s.Capacity, nil
}

func (m *Memory) WriteOccupancy(ctx context.Context, h RowHandle, expected, next int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.rowLocked(h)
	if err != nil {
		return err
	}
	if s.Occupancy != expected {
		return fmt.Errorf("%w: %s %q", domain.ErrOccupancyConflict, h.Day, h.Label)
	}
	s.Occupancy = next
	return nil
}

func (m *Memory) AppendRecord(ctx context.Context, table Table, fields []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := make([]string, len(fields))
	copy(row, fields)
	m.ledgers[table] = append(m.ledgers[table], row)
	return nil
}

// Records returns the appended rows of a ledger, for test assertions.
func (m *Memory) Records(table Table) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.ledgers[table]))
	copy(out, m.ledgers[table])
	return out
}

func (m *Memory) rowLocked(h RowHandle) (*domain.Slot, error) {
	if h.Ref < 0 || h.Ref >= int64(len(m.slots)) {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, h.Day, h.Label)
	}
	s := &m.slots[h.Ref]
	if s.Day != h.Day || s.Label != h.Label {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, h.Day, h.Label)
	}
	return s, nil
}
