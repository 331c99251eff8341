package handler

import (
	"net/http"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// RegistrationHandler holds the HTTP handlers for the registration workflow.
type RegistrationHandler struct {
	svc *service.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// Create handles POST /api/registrations
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	summary, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, summary)
}

// Verify handles GET /api/registrations/verify/{token}
func (h *RegistrationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	reg, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, reg)
}

// Resend handles POST /api/registrations/resend-verification
func (h *RegistrationHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		FormationID string `json:"formation_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email, req.FormationID); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "verification email sent"})
}

// Cancel handles POST /api/registrations/{id}/cancel
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.Cancel(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, reg)
}

// List handles GET /api/registrations (admin)
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.RegistrationFilter{
		FormationID: r.URL.Query().Get("formation_id"),
		Status:      r.URL.Query().Get("status"),
		Verified:    queryBoolPtr(r, "verified"),
		Search:      r.URL.Query().Get("search"),
		Limit:       queryInt(r, "limit", 20),
		Offset:      queryInt(r, "offset", 0),
	}

	regs, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	respondList(w, regs, total)
}

// Get handles GET /api/registrations/{id} (admin)
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, reg)
}

// Stats handles GET /api/registrations/stats (admin)
func (h *RegistrationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

// Export handles GET /api/registrations/export (admin). No payment columns.
func (h *RegistrationHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter := model.RegistrationFilter{
		FormationID: r.URL.Query().Get("formation_id"),
		Status:      r.URL.Query().Get("status"),
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	if err := h.svc.ExportCSV(r.Context(), w, filter); err != nil {
		// Headers may already be written; nothing useful left to send.
		return
	}
}

// UpdatePayment handles PATCH /api/registrations/{id}/payment (admin)
func (h *RegistrationHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.PaymentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.UpdatePayment(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, reg)
}

// Notice handles POST /api/registrations/{id}/notice (admin): a custom email
// to one registrant.
func (h *RegistrationHandler) Notice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SendNotice(r.Context(), id, req.Subject, req.Body); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "notice sent"})
}

// BulkAction handles POST /api/registrations/bulk-action (admin)
func (h *RegistrationHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	var req model.BulkActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	affected, err := h.svc.BulkAction(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int64{"affected": affected})
}
