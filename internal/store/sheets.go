package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/slot-reserve/internal/domain"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Tab names inside the backing document.
const (
	slotsTab       = "Slots"
	reservationTab = "Reservations"
	pickupTab      = "PickupOrders"
	subscriberTab  = "Subscribers"
)

// Sheets is a SlotStore backed by a remote spreadsheet document, spoken to
// over the values REST API. The slots tab has a header row and the columns
// Day | Timeslot | Current Reservations | Max Capacity; each ledger tab takes
// raw appended rows.
//
// The API has no server-side conditional update, so WriteOccupancy re-reads
// the cell and compares before writing. In-process serialization is the
// caller's job; this check only narrows the cross-process race window.
type Sheets struct {
	hc       *http.Client
	baseURL  string
	document string
	identity string
	key      string

	defaultCapacity int
}

type SheetsConfig struct {
	// BaseURL overrides the spreadsheet API endpoint (tests point it at a
	// local server).
	BaseURL string

	Document string
	Identity string
	Key      string

	// DefaultCapacity applies to slot rows with an empty capacity cell.
	DefaultCapacity int
}

func NewSheets(cfg SheetsConfig) *Sheets {
	base := cfg.BaseURL
	if base == "" {
		base = defaultSheetsBaseURL
	}
	return &Sheets{
		hc:              &http.Client{Timeout: 10 * time.Second},
		baseURL:         strings.TrimRight(base, "/"),
		document:        cfg.Document,
		identity:        cfg.Identity,
		key:             cfg.Key,
		defaultCapacity: cfg.DefaultCapacity,
	}
}

func (s *Sheets) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	rows, err := s.getValues(ctx, slotsTab+"!A2:D")
	if err != nil {
		return nil, err
	}

	var out []domain.Slot
	for i, row := range rows {
		sheetRow := i + 2
		if isEmptyRow(row) {
			continue
		}
		slot, err := parseSlotRow(row, sheetRow, s.defaultCapacity)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *Sheets) LocateSlot(ctx context.Context, day domain.Day, label string) (RowHandle, error) {
	rows, err := s.getValues(ctx, slotsTab+"!A2:B")
	if err != nil {
		return RowHandle{}, err
	}

	found := int64(-1)
	for i, row := range rows {
		if cell(row, 0) != string(day) || cell(row, 1) != label {
			continue
		}
		if found >= 0 {
			return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrAmbiguousSlot, day, label)
		}
		found = int64(i + 2)
	}
	if found < 0 {
		return RowHandle{}, fmt.Errorf("%w: %s %q", domain.ErrSlotNotFound, day, label)
	}
	return RowHandle{Day: day, Label: label, Ref: found}, nil
}

func (s *Sheets) ReadOccupancy(ctx context.Context, h RowHandle) (int, error) {
	return s.readIntCell(ctx, h, "C", -1)
}

func (s *Sheets) ReadCapacity(ctx context.Context, h RowHandle) (int, error) {
	return s.readIntCell(ctx, h, "D", s.defaultCapacity)
}

func (s *Sheets) WriteOccupancy(ctx context.Context, h RowHandle, expected, next int) error {
	current, err := s.ReadOccupancy(ctx, h)
	if err != nil {
		return err
	}
	if current != expected {
		return fmt.Errorf("%w: %s %q", domain.ErrOccupancyConflict, h.Day, h.Label)
	}

	rng := fmt.Sprintf("%s!C%d", slotsTab, h.Ref)
	body := valueRange{Values: [][]any{{strconv.Itoa(next)}}}
	return s.send(ctx, http.MethodPut, s.rangeURL(rng), url.Values{"valueInputOption": {"RAW"}}, body)
}

func (s *Sheets) AppendRecord(ctx context.Context, table Table, fields []string) error {
	tab, err := tabFor(table)
	if err != nil {
		return err
	}
	row := make([]any, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	body := valueRange{Values: [][]any{row}}
	return s.send(ctx, http.MethodPost, s.rangeURL(tab+"!A1")+":append", url.Values{"valueInputOption": {"RAW"}}, body)
}

// --- wire helpers ---

type valueRange struct {
	Values [][]any `json:"values"`
}

func (s *Sheets) rangeURL(rng string) string {
	return s.baseURL + "/" + url.PathEscape(s.document) + "/values/" + url.PathEscape(rng)
}

func (s *Sheets) getValues(ctx context.Context, rng string) ([][]any, error) {
	status, body, err := s.do(ctx, http.MethodGet, s.rangeURL(rng), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: get %s (status=%d)", domain.ErrStoreUnavailable, rng, status)
	}
	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStoreUnavailable, rng, err)
	}
	return vr.Values, nil
}

func (s *Sheets) send(ctx context.Context, method, rawURL string, query url.Values, body valueRange) error {
	jb, err := json.Marshal(body)
	if err != nil {
		return err
	}
	status, _, err := s.do(ctx, method, rawURL, query, jb)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if status >= 400 {
		return fmt.Errorf("%w: %s %s (status=%d)", domain.ErrStoreUnavailable, method, rawURL, status)
	}
	return nil
}

func (s *Sheets) do(ctx context.Context, method, rawURL string, query url.Values, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("X-Account-Identity", s.identity)
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}

func (s *Sheets) readIntCell(ctx context.Context, h RowHandle, col string, emptyDefault int) (int, error) {
	rng := fmt.Sprintf("%s!%s%d", slotsTab, col, h.Ref)
	rows, err := s.getValues(ctx, rng)
	if err != nil {
		return 0, err
	}
	raw := ""
	if len(rows) > 0 {
		raw = cell(rows[0], 0)
	}
	if raw == "" {
		if emptyDefault >= 0 {
			return emptyDefault, nil
		}
		return 0, fmt.Errorf("%w: empty cell %s", domain.ErrMalformedRow, rng)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: cell %s=%q", domain.ErrMalformedRow, rng, raw)
	}
	return n, nil
}

// --- row parsing ---

func parseSlotRow(row []any, sheetRow, defaultCapacity int) (domain.Slot, error) {
	day, err := domain.ParseDay(cell(row, 0))
	if err != nil {
		return domain.Slot{}, fmt.Errorf("%w: row %d: %v", domain.ErrMalformedRow, sheetRow, err)
	}
	label := strings.TrimSpace(cell(row, 1))
	if label == "" {
		return domain.Slot{}, fmt.Errorf("%w: row %d: missing timeslot label", domain.ErrMalformedRow, sheetRow)
	}

	occRaw := strings.TrimSpace(cell(row, 2))
	occ, err := strconv.Atoi(occRaw)
	if err != nil || occ < 0 {
		return domain.Slot{}, fmt.Errorf("%w: row %d: occupancy %q", domain.ErrMalformedRow, sheetRow, occRaw)
	}

	capRaw := strings.TrimSpace(cell(row, 3))
	capacity := defaultCapacity
	if capRaw != "" {
		capacity, err = strconv.Atoi(capRaw)
		if err != nil || capacity < 1 {
			return domain.Slot{}, fmt.Errorf("%w: row %d: capacity %q", domain.ErrMalformedRow, sheetRow, capRaw)
		}
	}

	return domain.Slot{Day: day, Label: label, Occupancy: occ, Capacity: capacity}, nil
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isEmptyRow(row []any) bool {
	for i := range row {
		if strings.TrimSpace(cell(row, i)) != "" {
			return false
		}
	}
	return true
}

func tabFor(table Table) (string, error) {
	switch table {
	case TableReservations:
		return reservationTab, nil
	case TablePickupOrders:
		return pickupTab, nil
	case TableSubscribers:
		return subscriberTab, nil
	}
	return "", fmt.Errorf("unknown ledger table %q", table)
}
