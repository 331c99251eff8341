package handler

import (
	"net/http"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// BookHandler holds the HTTP handlers for the reading list.
type BookHandler struct {
	svc *service.BookService
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.BookFilter{
		Category: r.URL.Query().Get("category"),
		Featured: queryBoolPtr(r, "featured"),
		Limit:    queryInt(r, "limit", 20),
		Offset:   queryInt(r, "offset", 0),
	}

	books, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	respondList(w, books, total)
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

// Create handles POST /api/books (admin)
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, b)
}

// Update handles PUT /api/books/{id} (admin)
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.BookPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

// Delete handles DELETE /api/books/{id} (admin)
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id})
}
