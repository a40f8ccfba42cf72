// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"guest_portal/internal/adapters/observability"
	"guest_portal/internal/app"
	"guest_portal/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	U *app.UpsellService
	C *app.CheckoutService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Post("/v1/properties/{id}/upsell-holds", h.createHold)
	s.mux.Post("/v1/properties/{id}/upsell-requests", h.recordRequest)
	s.mux.Post("/v1/properties/{id}/checkout-acks", h.acknowledgeCheckout)
	s.mux.Post("/v1/upsell-requests/{id}/approve", h.approveRequest)
	s.mux.Post("/v1/upsell-requests/{id}/decline", h.declineRequest)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainErr maps each tagged condition to its own response shape;
// anything unrecognized is a 500 with no internals leaked.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "no such property or request")
	case errors.Is(err, domain.ErrUpsellUnavailable):
		writeProblem(w, http.StatusBadRequest, "Upsell Unavailable", "this upsell is not available")
	case errors.Is(err, domain.ErrMissingHold):
		writeProblem(w, http.StatusBadRequest, "Missing Hold", "no payment hold on this request")
	case errors.Is(err, domain.ErrAlreadyHandled):
		writeProblem(w, http.StatusConflict, "Already Handled", "request already approved or declined")
	case errors.Is(err, domain.ErrCaptureFailed):
		writeProblem(w, http.StatusPaymentRequired, "Capture Failed", "the payment could not be captured")
	case errors.Is(err, domain.ErrProcessor):
		writeProblem(w, http.StatusBadGateway, "Payment Processor Error", "payment processor call failed")
	case errors.Is(err, domain.ErrPersistence):
		log.Error().Err(err).Msg("store write failed")
		writeProblem(w, http.StatusInternalServerError, "Persistence Error", "could not save changes")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getProperty body")
	}
}

func (h *Handlers) createHold(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	typ, err := domain.ParseUpsellType(body.Type)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Type", "type must be late_checkout or early_checkin")
		return
	}

	secret, err := h.U.CreateHold(r.Context(), chi.URLParam(r, "id"), typ)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (h *Handlers) recordRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type       string  `json:"type"`
		GuestName  string  `json:"guestName"`
		GuestEmail string  `json:"guestEmail"`
		Note       *string `json:"note"`
		HoldID     string  `json:"holdId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	typ, err := domain.ParseUpsellType(body.Type)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Type", "type must be late_checkout or early_checkin")
		return
	}
	name := strings.TrimSpace(body.GuestName)
	email := strings.TrimSpace(body.GuestEmail)
	if name == "" || email == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "guestName and guestEmail are required")
		return
	}
	if body.HoldID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "holdId is required")
		return
	}
	var note *string
	if body.Note != nil {
		if n := strings.TrimSpace(*body.Note); n != "" {
			note = &n
		}
	}

	id, err := h.U.RecordRequest(r.Context(), domain.NewRequest{
		PropertyID: chi.URLParam(r, "id"),
		Type:       typ,
		GuestName:  name,
		GuestEmail: email,
		Note:       note,
		HoldID:     body.HoldID,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"requestId": id})
}

func (h *Handlers) approveRequest(w http.ResponseWriter, r *http.Request) {
	captured, err := h.U.Approve(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveResolution("approve", err)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"earned":  float64(captured) / 100,
	})
}

func (h *Handlers) declineRequest(w http.ResponseWriter, r *http.Request) {
	err := h.U.Decline(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveResolution("decline", err)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) acknowledgeCheckout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GuestName string `json:"guestName"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	name := strings.TrimSpace(body.GuestName)
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "guestName is required")
		return
	}

	id, err := h.C.Acknowledge(r.Context(), chi.URLParam(r, "id"), name)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ackId": id})
}
