package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/internal/service"
	"github.com/ruvim24/task-tracker-api/pkg/respond"
)

type AttachmentHandler struct {
	service *service.AttachmentService
	logger  *zap.Logger
}

func NewAttachmentHandler(srv *service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: srv,
		logger:  logger,
	}
}

// Create выдает подписанный URL загрузки и создает pending-вложение
func (h *AttachmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req struct {
		FileName string `json:"file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	attachment, err := h.service.IssueUploadURL(r.Context(), taskID, req.FileName)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, attachment)
}

func (h *AttachmentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	attachments, err := h.service.ListByTask(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, attachments)
}

// Webhook - callback хранилища о завершенной загрузке объекта
func (h *AttachmentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ObjectKey string `json:"object_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	attachment, err := h.service.ConfirmUpload(r.Context(), req.ObjectKey)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, attachment)
}

func (h *AttachmentHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
