// Package store owns the mapping between typed slot records and the backing
// tabular store's rows and columns. Nothing outside this package addresses
// rows or cells directly.
package store

import (
	"context"

	"github.com/example/slot-reserve/internal/domain"
)

// Table names one of the append-only ledgers.
type Table string

const (
	TableReservations Table = "reservations"
	TablePickupOrders Table = "pickup_orders"
	TableSubscribers  Table = "subscribers"
)

// RowHandle references a located slot row. Handles are not stable across
// structural changes to the store, so callers re-resolve one per attempt and
// never cache them.
type RowHandle struct {
	Day   domain.Day
	Label string

	// Ref is backend-specific: a sheet row number or a database row id.
	Ref int64
}

// SlotStore is the read/locate/write contract every backend satisfies.
//
// WriteOccupancy is conditional: it commits next only while the cell still
// holds expected, and returns domain.ErrOccupancyConflict otherwise. That is
// the serialization point multi-instance deployments rely on.
type SlotStore interface {
	ListSlots(ctx context.Context) ([]domain.Slot, error)
	LocateSlot(ctx context.Context, day domain.Day, label string) (RowHandle, error)
	ReadOccupancy(ctx context.Context, h RowHandle) (int, error)
	ReadCapacity(ctx context.Context, h RowHandle) (int, error)
	WriteOccupancy(ctx context.Context, h RowHandle, expected, next int) error
	AppendRecord(ctx context.Context, table Table, fields []string) error
}
