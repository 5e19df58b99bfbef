package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/slot-reserve/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidDay         = "invalid_day"
	codeInvalidPartySize   = "invalid_party_size"
	codeMissingContact     = "missing_contact_field"
	codeNoItemsSelected    = "no_items_selected"
	codeEmailRequired      = "email_required"
	codeSlotUnprocessable  = "slot_unprocessable"
	codePartialCommit      = "partial_commit"
	codeStoreUnavailable   = "store_unavailable"
	codeConfigurationError = "configuration_error"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps engine errors to the user-facing taxonomy. Lookup
// failures stay generic to the visitor; the detail is logged for operators.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDay):
		writeError(w, http.StatusBadRequest, codeInvalidDay, "unknown day")
	case errors.Is(err, domain.ErrInvalidPartySize):
		writeError(w, http.StatusBadRequest, codeInvalidPartySize, "party size must be at least 1")
	case errors.Is(err, domain.ErrMissingContact):
		writeError(w, http.StatusBadRequest, codeMissingContact, "name, address and email are required")
	case errors.Is(err, domain.ErrNoItemsSelected):
		writeError(w, http.StatusBadRequest, codeNoItemsSelected, "select at least one item")
	case errors.Is(err, domain.ErrEmptyEmail):
		writeError(w, http.StatusBadRequest, codeEmailRequired, "email is required")
	case errors.Is(err, domain.ErrSlotNotFound), errors.Is(err, domain.ErrAmbiguousSlot):
		s.Log.Warn("slot lookup failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusNotFound, codeSlotUnprocessable, "cannot process this slot")
	case errors.Is(err, domain.ErrPartialCommit):
		writeError(w, http.StatusInternalServerError, codePartialCommit,
			"your submission may not have been recorded; please contact the organizer")
	case errors.Is(err, domain.ErrMalformedRow):
		s.Log.Error("slot table is malformed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeConfigurationError, "internal error")
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrOccupancyConflict),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		s.Log.Warn("store interaction failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "temporary failure, please retry")
	default:
		s.Log.Error("unhandled error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
