// Package app holds the reservation, pickup-order and notification services.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/example/slot-reserve/internal/clock"
	"github.com/example/slot-reserve/internal/domain"
	"github.com/example/slot-reserve/internal/store"
)

// How many times a reservation re-reads and retries after losing a
// conditional occupancy write to another instance.
const defaultConflictRetries = 3

// Engine enforces the slot capacity invariant. All capacity-affecting writes
// for one slot are serialized through a keyed mutex, and the occupancy write
// itself is conditional, so the check-then-write sequence cannot overbook a
// slot even across racing processes.
type Engine struct {
	store store.SlotStore
	clock clock.Clock
	log   *slog.Logger

	conflictRetries int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(st store.SlotStore, clk clock.Clock, log *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		store:           st,
		clock:           clk,
		log:             log,
		conflictRetries: defaultConflictRetries,
		locks:           make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type EngineOption func(*Engine)

// WithConflictRetries overrides how often a lost conditional write is
// re-attempted before giving up.
func WithConflictRetries(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.conflictRetries = n
		}
	}
}

type ReserveInput struct {
	Day       domain.Day
	Label     string
	PartySize int
	Contact   domain.Contact
	Note      string
}

func (in ReserveInput) validate() error {
	if !in.Day.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDay, string(in.Day))
	}
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: %q", domain.ErrSlotNotFound, in.Label)
	}
	if in.PartySize < 1 {
		return domain.ErrInvalidPartySize
	}
	for _, f := range []string{in.Contact.Name, in.Contact.Address, in.Contact.Email} {
		if strings.TrimSpace(f) == "" {
			return domain.ErrMissingContact
		}
	}
	return nil
}

// Reserve re-reads the slot's occupancy and capacity fresh, decides whether
// the party fits, and commits the occupancy increment followed by the ledger
// append. Validation failures happen before any store interaction.
//
// The two writes are not transactional against a spreadsheet backend. When
// the ledger append fails after the occupancy write committed, the slot's
// counter and ledger disagree; that is escalated as domain.ErrPartialCommit
// and logged for reconciliation, never reported as a confirmation.
func (e *Engine) Reserve(ctx context.Context, in ReserveInput) (domain.ReserveResult, error) {
	if err := in.validate(); err != nil {
		return domain.ReserveResult{}, err
	}

	lock := e.slotLock(in.Day, in.Label)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; ; attempt++ {
		// Handles go stale when rows move, so each attempt re-resolves.
		h, err := e.store.LocateSlot(ctx, in.Day, in.Label)
		if err != nil {
			return domain.ReserveResult{}, err
		}
		occupancy, err := e.store.ReadOccupancy(ctx, h)
		if err != nil {
			return domain.ReserveResult{}, err
		}
		capacity, err := e.store.ReadCapacity(ctx, h)
		if err != nil {
			return domain.ReserveResult{}, err
		}

		if occupancy+in.PartySize > capacity {
			available := capacity - occupancy
			if available < 0 {
				available = 0
			}
			return domain.ReserveResult{Available: available}, nil
		}

		err = e.store.WriteOccupancy(ctx, h, occupancy, occupancy+in.PartySize)
		if err == nil {
			return e.appendReservation(ctx, in, capacity-occupancy-in.PartySize)
		}
		if !errors.Is(err, domain.ErrOccupancyConflict) || attempt >= e.conflictRetries {
			return domain.ReserveResult{}, err
		}
		e.log.Debug("occupancy write conflict, re-reading",
			"day", in.Day, "slot", in.Label, "attempt", attempt+1)
	}
}

func (e *Engine) appendReservation(ctx context.Context, in ReserveInput, remaining int) (domain.ReserveResult, error) {
	res := domain.Reservation{
		ID:        uuid.NewString(),
		Day:       in.Day,
		Label:     in.Label,
		PartySize: in.PartySize,
		Contact:   in.Contact,
		Note:      in.Note,
		CreatedAt: e.clock.Now(),
	}

	if err := e.store.AppendRecord(ctx, store.TableReservations, reservationFields(res)); err != nil {
		e.log.Error("occupancy committed but reservation ledger append failed, store needs reconciliation",
			"day", res.Day, "slot", res.Label, "party_size", res.PartySize,
			"reservation_id", res.ID, "error", err)
		return domain.ReserveResult{}, fmt.Errorf("%w: %s %q reservation %s: %v",
			domain.ErrPartialCommit, res.Day, res.Label, res.ID, err)
	}

	return domain.ReserveResult{Confirmed: true, Remaining: remaining, Reservation: res}, nil
}

// slotLock returns the mutex serializing capacity writes for one (day, label).
func (e *Engine) slotLock(day domain.Day, label string) *sync.Mutex {
	key := string(day) + "\x00" + label
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	return l
}
