package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/services"
)

type chatService interface {
	CreateSession(ctx context.Context) *models.ChatSessionView
	GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSessionView, error)
	Send(ctx context.Context, id uuid.UUID, text string) (*models.ChatMessage, error)
	SetLanguage(ctx context.Context, id uuid.UUID, code string) (*models.ChatSessionView, error)
}

type ChatHandler struct {
	svc chatService
}

func NewChatHandler(svc chatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.CreateSession(r.Context()))
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SendMessage accepts the user's text. The assistant reply is appended
// after the reply delay, so a successful send answers 202. Blank text is
// dropped without touching the session.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	msg, err := h.svc.Send(r.Context(), id, req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if msg == nil {
		// The blank check runs before the session lookup, so confirm the
		// session exists before reporting the send as ignored.
		view, err := h.svc.GetSession(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.ChatResponse{Ignored: true, State: view.State})
		return
	}

	writeJSON(w, http.StatusAccepted, models.ChatResponse{Message: msg, State: models.ChatAwaitingResponse})
}

func (h *ChatHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req models.LanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.svc.SetLanguage(r.Context(), id, req.Code)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ChatHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": services.SupportedLanguages,
	})
}
