package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/internal/service"
	"github.com/ruvim24/task-tracker-api/pkg/respond"
)

type CommentHandler struct {
	service *service.CommentService
	logger  *zap.Logger
}

func NewCommentHandler(srv *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	comment, err := h.service.Add(r.Context(), taskID, req.Comment)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, map[string]string{
		"comment_id": fmt.Sprintf("%d", comment.ID),
	})
}

func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	comments, err := h.service.ListByTask(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, comments)
}

func (h *CommentHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
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
