package web

import (
	"encoding/json"
	"net/http"

	"github.com/example/slot-reserve/internal/app"
	"github.com/example/slot-reserve/internal/domain"
)

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var day *domain.Day
	if raw := r.URL.Query().Get("day"); raw != "" {
		d, err := domain.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDay, "unknown day")
			return
		}
		day = &d
	}

	slots, err := s.Svc.AvailableSlots(r.Context(), day)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, sl := range slots {
		out = append(out, slotResponse{
			Day:       string(sl.Day),
			Timeslot:  sl.Label,
			Remaining: sl.Remaining(),
		})
	}
	writeJSON(w, http.StatusOK, slotsResponse{Slots: out})
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req reserveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.PartySize == 0 {
		req.PartySize = 1
	}

	result, err := s.Svc.Reserve(r.Context(), app.ReserveInput{
		Day:       domain.Day(req.Day),
		Label:     req.Timeslot,
		PartySize: req.PartySize,
		Contact: domain.Contact{
			Name:    req.Name,
			Address: req.Address,
			Email:   req.Email,
			Phone:   req.Phone,
		},
		Note: req.Note,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if !result.Confirmed {
		writeJSON(w, http.StatusConflict, reserveResponse{
			Status:         "rejected",
			AvailableSpots: &result.Available,
		})
		return
	}
	writeJSON(w, http.StatusCreated, reserveResponse{
		Status:            "confirmed",
		ReservationID:     result.Reservation.ID,
		RemainingCapacity: &result.Remaining,
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req orderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	order, err := s.Svc.Order(r.Context(), app.OrderInput{
		Day:   domain.Day(req.Day),
		Label: req.Timeslot,
		Contact: domain.Contact{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: req.Items,
		Note:  req.Note,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Status: "confirmed", OrderID: order.ID})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req subscribeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	if err := s.Svc.Subscribe(r.Context(), req.Email); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subscribeResponse{Status: "confirmed"})
}

type slotsResponse struct {
	Slots []slotResponse `json:"slots"`
}

type slotResponse struct {
	Day       string `json:"day"`
	Timeslot  string `json:"timeslot"`
	Remaining int    `json:"remaining"`
}

type reserveRequest struct {
	Day       string `json:"day"`
	Timeslot  string `json:"timeslot"`
	PartySize int    `json:"party_size"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Note      string `json:"note"`
}

type reserveResponse struct {
	Status            string `json:"status"`
	ReservationID     string `json:"reservation_id,omitempty"`
	RemainingCapacity *int   `json:"remaining_capacity,omitempty"`
	AvailableSpots    *int   `json:"available_spots,omitempty"`
}

type orderRequest struct {
	Day      string         `json:"day"`
	Timeslot string         `json:"timeslot"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Items    map[string]int `json:"items"`
	Note     string         `json:"note"`
}

type orderResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResponse struct {
	Status string `json:"status"`
}
