package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

type analyzerService interface {
	Create(ctx context.Context) *models.AnalyzerView
	Get(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error)
	UpdateForm(ctx context.Context, id uuid.UUID, patch models.ProfileFormPatch) (*models.AnalyzerView, error)
	Next(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error)
	Prev(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error)
	SetTab(ctx context.Context, id uuid.UUID, tab string) (*models.AnalyzerView, error)
}

type AnalyzerHandler struct {
	svc analyzerService
}

func NewAnalyzerHandler(svc analyzerService) *AnalyzerHandler {
	return &AnalyzerHandler{svc: svc}
}

func (h *AnalyzerHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.Create(r.Context()))
}

func (h *AnalyzerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AnalyzerHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var patch models.ProfileFormPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.svc.UpdateForm(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AnalyzerHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Next)
}

func (h *AnalyzerHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Prev)
}

func (h *AnalyzerHandler) move(w http.ResponseWriter, r *http.Request, step func(context.Context, uuid.UUID) (*models.AnalyzerView, error)) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	view, err := step(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AnalyzerHandler) SetTab(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Tab string `json:"tab"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.svc.SetTab(r.Context(), id, req.Tab)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
