package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/slot-reserve/internal/app"
	"github.com/example/slot-reserve/internal/domain"
)

type stubService struct {
	slots    []domain.Slot
	slotsErr error
	slotsDay *domain.Day

	reserveResult domain.ReserveResult
	reserveErr    error
	reserveIn     app.ReserveInput

	orderResult domain.PickupOrder
	orderErr    error

	subscribeErr error
	gotEmail     string
}

func (s *stubService) AvailableSlots(ctx context.Context, day *domain.Day) ([]domain.Slot, error) {
	s.slotsDay = day
	return s.slots, s.slotsErr
}

func (s *stubService) Reserve(ctx context.Context, in app.ReserveInput) (domain.ReserveResult, error) {
	s.reserveIn = in
	return s.reserveResult, s.reserveErr
}

func (s *stubService) Order(ctx context.Context, in app.OrderInput) (domain.PickupOrder, error) {
	return s.orderResult, s.orderErr
}

func (s *stubService) Subscribe(ctx context.Context, email string) error {
	s.gotEmail = email
	return s.subscribeErr
}

func newTestServer(svc *stubService) http.Handler {
	s := &Server{Svc: svc, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	return s.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHandleSlots(t *testing.T) {
	t.Parallel()

	t.Run("lists available slots in order", func(t *testing.T) {
		svc := &stubService{slots: []domain.Slot{
			{Day: domain.DaySaturday, Label: "17u-18u30", Occupancy: 8, Capacity: 10},
			{Day: domain.DaySunday, Label: "14u-15u30", Occupancy: 0, Capacity: 10},
		}}
		rec := doJSON(t, newTestServer(svc), http.MethodGet, "/api/slots", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Slots []struct {
				Day       string `json:"day"`
				Timeslot  string `json:"timeslot"`
				Remaining int    `json:"remaining"`
			} `json:"slots"`
		}
		decodeBody(t, rec, &resp)
		if len(resp.Slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(resp.Slots))
		}
		if resp.Slots[0].Timeslot != "17u-18u30" || resp.Slots[0].Remaining != 2 {
			t.Fatalf("unexpected first slot: %+v", resp.Slots[0])
		}
	})

	t.Run("passes the day filter through", func(t *testing.T) {
		svc := &stubService{}
		rec := doJSON(t, newTestServer(svc), http.MethodGet, "/api/slots?day=Sunday", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.slotsDay == nil || *svc.slotsDay != domain.DaySunday {
			t.Fatalf("day filter not forwarded: %v", svc.slotsDay)
		}
	})

	t.Run("rejects unknown days", func(t *testing.T) {
		rec := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/api/slots?day=Monday", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("store failure maps to 503", func(t *testing.T) {
		svc := &stubService{slotsErr: fmt.Errorf("%w: boom", domain.ErrStoreUnavailable)}
		rec := doJSON(t, newTestServer(svc), http.MethodGet, "/api/slots", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestHandleReserve(t *testing.T) {
	t.Parallel()

	body := `{"day":"Saturday","timeslot":"17u-18u30","party_size":2,"name":"Jan","address":"Dorpstraat 1","email":"jan@example.com"}`

	t.Run("confirmed reservation returns 201", func(t *testing.T) {
		svc := &stubService{reserveResult: domain.ReserveResult{
			Confirmed: true,
			Remaining: 0,
			Reservation: domain.Reservation{
				ID: "res-1", Day: domain.DaySaturday, Label: "17u-18u30", PartySize: 2,
			},
		}}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status            string `json:"status"`
			ReservationID     string `json:"reservation_id"`
			RemainingCapacity *int   `json:"remaining_capacity"`
		}
		decodeBody(t, rec, &resp)
		if resp.Status != "confirmed" || resp.ReservationID != "res-1" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.RemainingCapacity == nil || *resp.RemainingCapacity != 0 {
			t.Fatalf("expected remaining_capacity 0, got %v", resp.RemainingCapacity)
		}
		if svc.reserveIn.PartySize != 2 || svc.reserveIn.Day != domain.DaySaturday {
			t.Fatalf("input not forwarded: %+v", svc.reserveIn)
		}
	})

	t.Run("party size defaults to 1", func(t *testing.T) {
		svc := &stubService{reserveResult: domain.ReserveResult{Confirmed: true}}
		b := `{"day":"Saturday","timeslot":"17u-18u30","name":"Jan","address":"a","email":"e@x"}`
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", b)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if svc.reserveIn.PartySize != 1 {
			t.Fatalf("expected default party size 1, got %d", svc.reserveIn.PartySize)
		}
	})

	t.Run("full slot returns 409 with available spots", func(t *testing.T) {
		svc := &stubService{reserveResult: domain.ReserveResult{Available: 0}}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", body)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var resp struct {
			Status         string `json:"status"`
			AvailableSpots *int   `json:"available_spots"`
		}
		decodeBody(t, rec, &resp)
		if resp.Status != "rejected" {
			t.Fatalf("expected rejected status, got %q", resp.Status)
		}
		if resp.AvailableSpots == nil || *resp.AvailableSpots != 0 {
			t.Fatalf("expected available_spots 0, got %v", resp.AvailableSpots)
		}
	})

	t.Run("validation errors map to 400", func(t *testing.T) {
		svc := &stubService{reserveErr: domain.ErrMissingContact}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("lookup failures stay generic", func(t *testing.T) {
		svc := &stubService{reserveErr: fmt.Errorf("%w: Saturday \"19u\"", domain.ErrSlotNotFound)}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", body)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "19u") {
			t.Fatalf("lookup detail leaked to the user: %s", rec.Body.String())
		}
	})

	t.Run("partial commit is never shown as confirmed", func(t *testing.T) {
		svc := &stubService{reserveErr: fmt.Errorf("%w: ledger append refused", domain.ErrPartialCommit)}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/reservations", body)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var resp struct {
			Code string `json:"code"`
		}
		decodeBody(t, rec, &resp)
		if resp.Code != "partial_commit" {
			t.Fatalf("expected partial_commit code, got %q", resp.Code)
		}
	})

	t.Run("bad json is a 400", func(t *testing.T) {
		rec := doJSON(t, newTestServer(&stubService{}), http.MethodPost, "/api/reservations", `{"day":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("only POST is accepted", func(t *testing.T) {
		rec := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/api/reservations", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleOrder(t *testing.T) {
	t.Parallel()

	body := `{"day":"Pickup","timeslot":"12u00-13u00","name":"Mie","phone":"0470","items":{"bolognaise":2}}`

	t.Run("confirmed order returns 201", func(t *testing.T) {
		svc := &stubService{orderResult: domain.PickupOrder{ID: "ord-1"}}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/orders", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		var resp struct {
			Status  string `json:"status"`
			OrderID string `json:"order_id"`
		}
		decodeBody(t, rec, &resp)
		if resp.Status != "confirmed" || resp.OrderID != "ord-1" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("empty order maps to 400", func(t *testing.T) {
		svc := &stubService{orderErr: domain.ErrNoItemsSelected}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/orders", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("records the address", func(t *testing.T) {
		svc := &stubService{}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/subscribers", `{"email":"jan@example.com"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if svc.gotEmail != "jan@example.com" {
			t.Fatalf("email not forwarded: %q", svc.gotEmail)
		}
	})

	t.Run("empty email maps to 400", func(t *testing.T) {
		svc := &stubService{subscribeErr: domain.ErrEmptyEmail}
		rec := doJSON(t, newTestServer(svc), http.MethodPost, "/api/subscribers", `{"email":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
