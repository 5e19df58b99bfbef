package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/slot-reserve/internal/domain"
	"github.com/example/slot-reserve/internal/store"
)

type OrderInput struct {
	Day     domain.Day
	Label   string
	Contact domain.Contact
	Items   map[string]int
	Note    string
}

func (in OrderInput) validate() error {
	if !in.Day.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDay, string(in.Day))
	}
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: %q", domain.ErrSlotNotFound, in.Label)
	}
	if strings.TrimSpace(in.Contact.Name) == "" {
		return domain.ErrMissingContact
	}
	if strings.TrimSpace(in.Contact.Phone) == "" && strings.TrimSpace(in.Contact.Email) == "" {
		return domain.ErrMissingContact
	}
	for _, qty := range in.Items {
		if qty < 0 {
			return fmt.Errorf("%w: negative quantity", domain.ErrNoItemsSelected)
		}
		if qty > 0 {
			return nil
		}
	}
	return domain.ErrNoItemsSelected
}

// Order records a pickup order against a slot. Orders do not draw on the
// slot's seat capacity; the only gate is that something was actually ordered.
func (e *Engine) Order(ctx context.Context, in OrderInput) (domain.PickupOrder, error) {
	if err := in.validate(); err != nil {
		return domain.PickupOrder{}, err
	}

	// The slot still has to exist; a typo'd label should not land rows in
	// the ledger under a slot nobody provisioned.
	if _, err := e.store.LocateSlot(ctx, in.Day, in.Label); err != nil {
		return domain.PickupOrder{}, err
	}

	order := domain.PickupOrder{
		ID:        uuid.NewString(),
		Day:       in.Day,
		Label:     in.Label,
		Contact:   in.Contact,
		Items:     in.Items,
		Note:      in.Note,
		CreatedAt: e.clock.Now(),
	}
	if err := e.store.AppendRecord(ctx, store.TablePickupOrders, orderFields(order)); err != nil {
		return domain.PickupOrder{}, err
	}
	return order, nil
}
