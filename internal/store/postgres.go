package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/slot-reserve/internal/domain"
)

// Postgres keeps the same tabular layout as the spreadsheet backend in SQL:
// one slots table plus three ledger tables of appended rows. Its occupancy
// write is a true conditional update, which makes it safe for multi-instance
// deployments where an in-process lock is not enough.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Pool exposes the underlying pool for migrations.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	rows, err := p.pool.Query(ctx, `
SELECT day, label, occupancy, capacity
FROM slots
ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list slots: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.Slot
	for rows.Next() {
		var day string
		var s domain.Slot
		if err := rows.Scan(&day, &s.Label, &s.Occupancy, &s.Capacity); err != nil {
			return nil, fmt.Errorf("%w: scan slot: %v", domain.ErrStoreUnavailable, err)
		}
		s.Day, err = domain.ParseDay(day)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q: %v", domain.ErrMalformedRow, s.Label, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list slots: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (p *Postgres) LocateSlot(ctx context.Context, day domain.Day, label string) (RowHandle, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM slots WHERE day=$1 AND label=$2`, string(day), label)
	if err != nil {
		return RowHandle{}, fmt.Errorf("%w: locate slot: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return RowHandle{}, fmt.Errorf("%w: locate slot: %v", domain.ErrStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return RowHandle{}, fmt.Errorf("%w: locate slot: %v", domain.ErrStoreUnavailable, err)
	}

	switch len(ids) {
	case 0:
		return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, day, label)
	case 1:
		return RowHandle{Day: day, Label: label, Ref: ids[0]}, nil
	default:
		return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrAmbiguousSlot, day, label)
	}
}

func (p *Postgres) ReadOccupancy(ctx context.Context, h RowHandle) (int, error) {
	return p.readInt(ctx, h, `SELECT occupancy FROM slots WHERE id=$1`)
}

func (p *Postgres) ReadCapacity(ctx context.Context, h RowHandle) (int, error) {
	return p.readInt(ctx, h, `SELECT capacity FROM slots WHERE id=$1`)
}

func (p *Postgres) WriteOccupancy(ctx context.Context, h RowHandle, expected, next int) error {
	tag, err := p.pool.Exec(ctx, `UPDATE slots SET occupancy=$1 WHERE id=$2 AND occupancy=$3`, next, h.Ref, expected)
	if err != nil {
		return fmt.Errorf("%w: write occupancy: %v", domain.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Either the expected value went stale or the row vanished.
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM slots WHERE id=$1)`, h.Ref).Scan(&exists); err != nil {
		return fmt.Errorf("%w: write occupancy: %v", domain.ErrStoreUnavailable, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, h.Day, h.Label)
	}
	return fmt.Errorf("%w: %s %q", domain.ErrOccupancyConflict, h.Day, h.Label)
}

func (p *Postgres) AppendRecord(ctx context.Context, table Table, fields []string) error {
	name, err := ledgerTable(table)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `INSERT INTO `+name+`(fields) VALUES($1)`, fields); err != nil {
		return fmt.Errorf("%w: append %s: %v", domain.ErrStoreUnavailable, name, err)
	}
	return nil
}

func (p *Postgres) readInt(ctx context.Context, h RowHandle, query string) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, query, h.Ref).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, h.Day, h.Label)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: read slot cell: %v", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// ledgerTable maps a Table to a SQL identifier. The allowlist keeps table
// names out of caller control.
func ledgerTable(table Table) (string, error) {
	switch table {
	case TableReservations:
		return "reservations", nil
	case TablePickupOrders:
		return "pickup_orders", nil
	case TableSubscribers:
		return "subscribers", nil
	}
	return "", fmt.Errorf("unknown ledger table %q", table)
}
