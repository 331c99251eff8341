package handler

import (
	"net/http"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// MessageHandler holds the HTTP handlers for the contact inbox.
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Create handles POST /api/messages. RemoteAddr is already unwrapped by the
// RealIP middleware.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Create(r.Context(), req, r.RemoteAddr, r.UserAgent())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, m)
}

// List handles GET /api/messages (admin)
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.MessageFilter{
		Status:      r.URL.Query().Get("status"),
		MessageType: r.URL.Query().Get("type"),
		Search:      r.URL.Query().Get("search"),
		From:        queryTime(r, "from"),
		To:          queryTime(r, "to"),
		Limit:       queryInt(r, "limit", 20),
		Offset:      queryInt(r, "offset", 0),
	}

	messages, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	respondList(w, messages, total)
}

func queryTime(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// Get handles GET /api/messages/{id} (admin). Viewing marks unread messages
// read.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

// UpdateStatus handles PATCH /api/messages/{id}/status (admin)
func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

// Reply handles POST /api/messages/{id}/reply (admin)
func (h *MessageHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Reply string `json:"reply"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Reply(r.Context(), id, req.Reply)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

// Delete handles DELETE /api/messages/{id} (admin)
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id})
}
