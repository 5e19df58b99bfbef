package app

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/slot-reserve/internal/domain"
)

// Ledger row layouts. Column order matters to the operators reading the
// tables, so it is fixed here and nowhere else.

func reservationFields(r domain.Reservation) []string {
	return []string{
		string(r.Day),
		r.Label,
		r.Contact.Name,
		r.Contact.Address,
		r.Contact.Email,
		r.Contact.Phone,
		strconv.Itoa(r.PartySize),
		r.Note,
		r.ID,
		r.CreatedAt.Format(time.RFC3339),
	}
}

func orderFields(o domain.PickupOrder) []string {
	return []string{
		string(o.Day),
		o.Label,
		o.Contact.Name,
		o.Contact.Phone,
		o.Contact.Email,
		itemsCell(o.Items),
		o.Note,
		o.ID,
		o.CreatedAt.Format(time.RFC3339),
	}
}

// itemsCell flattens item quantities into one deterministic cell, e.g.
// "bolognaise=2; veggie=1". Zero quantities are omitted.
func itemsCell(items map[string]int) string {
	names := make([]string, 0, len(items))
	for name, qty := range items {
		if qty > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+strconv.Itoa(items[name]))
	}
	return strings.Join(parts, "; ")
}
