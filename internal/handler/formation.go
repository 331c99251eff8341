package handler

import (
	"net/http"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// FormationHandler holds the HTTP handlers for formation CRUD.
type FormationHandler struct {
	svc *service.FormationService
}

// NewFormationHandler constructs a FormationHandler.
func NewFormationHandler(svc *service.FormationService) *FormationHandler {
	return &FormationHandler{svc: svc}
}

// List handles GET /api/formations
func (h *FormationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.FormationFilter{
		Category: r.URL.Query().Get("category"),
		Level:    r.URL.Query().Get("level"),
		Status:   r.URL.Query().Get("status"),
		Featured: queryBoolPtr(r, "featured"),
		Sort:     r.URL.Query().Get("sort"),
		Limit:    queryInt(r, "limit", 20),
		Offset:   queryInt(r, "offset", 0),
	}

	formations, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if formations == nil {
		formations = []model.Formation{}
	}
	respondList(w, formations, total)
}

// Get handles GET /api/formations/{id}. Fetching increments the view counter.
func (h *FormationHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

// Create handles POST /api/formations (admin)
func (h *FormationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFormationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	f, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, f)
}

// Update handles PUT /api/formations/{id} (admin). Only fields present in
// the payload are written.
func (h *FormationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.FormationPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	f, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

// Delete handles DELETE /api/formations/{id} (admin)
func (h *FormationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id})
}
