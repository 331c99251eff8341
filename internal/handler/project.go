package handler

import (
	"net/http"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler holds the HTTP handlers for portfolio projects.
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List handles GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.ProjectFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Featured: queryBoolPtr(r, "featured"),
		Tag:      r.URL.Query().Get("tag"),
		Sort:     r.URL.Query().Get("sort"),
		Limit:    queryInt(r, "limit", 20),
		Offset:   queryInt(r, "offset", 0),
	}

	projects, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	respondList(w, projects, total)
}

// Get handles GET /api/projects/{id}. The id may be a UUID or a slug;
// fetching increments the view counter.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

// Stats handles GET /api/projects/stats (admin)
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

// Search handles GET /api/projects/search?q=...
func (h *ProjectHandler) Search(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 20))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	respond(w, http.StatusOK, projects)
}

// Related handles GET /api/projects/{id}/related
func (h *ProjectHandler) Related(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Related(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit", 4))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	respond(w, http.StatusOK, projects)
}

// Create handles POST /api/projects (admin)
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

// Update handles PUT /api/projects/{id} (admin)
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

// Delete handles DELETE /api/projects/{id} (admin)
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id})
}
