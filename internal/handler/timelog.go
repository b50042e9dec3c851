package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/internal/service"
	"github.com/ruvim24/task-tracker-api/pkg/respond"
)

// Заголовок с id аутентифицированного пользователя, его ставит шлюз
const userIDHeader = "X-User-ID"

type TimeLogHandler struct {
	service *service.TimeLogService
	logger  *zap.Logger
}

func NewTimeLogHandler(srv *service.TimeLogService, logger *zap.Logger) *TimeLogHandler {
	return &TimeLogHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TimeLogHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	log, err := h.service.StartTimer(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, log)
}

func (h *TimeLogHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	log, err := h.service.StopTimer(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, log)
}

func (h *TimeLogHandler) TimeLogs(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	logs, err := h.service.TimeLogs(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, logs)
}

type logTimeRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int64     `json:"duration"`
}

func (h *TimeLogHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req logTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	log, err := h.service.LogTime(r.Context(), taskID, req.StartTime, req.EndTime, req.Duration)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, log)
}

func (h *TimeLogHandler) LoggedTimeDuration(w http.ResponseWriter, r *http.Request) {
	taskID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	hours, err := h.service.TotalDuration(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]float64{"Total logged time in hours": hours})
}

func (h *TimeLogHandler) LastMonthDuration(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "missing user context")
		return
	}

	hours, err := h.service.TotalDurationForUserThisMonth(r.Context(), userID)
	if errors.Is(err, service.ErrNoTimeLogs) {
		respond.Message(w, r, http.StatusOK, "No time logs found")
		return
	}
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]float64{"Total logged time in hours for last month": hours})
}

func (h *TimeLogHandler) TasksListDuration(w http.ResponseWriter, r *http.Request) {
	durations, err := h.service.ListDurations(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, durations)
}

func (h *TimeLogHandler) TopTasks(w http.ResponseWriter, r *http.Request) {
	durations, err := h.service.TasksRankedByDuration(r.Context(), service.ScopeCurrentMonth, 20)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, durations)
}

func (h *TimeLogHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Контракт таймера: конфликт и отсутствие таймера - это 400
	case errors.Is(err, service.ErrTimerRunning):
		respond.Error(w, r, http.StatusBadRequest, "timer already started")
	case errors.Is(err, service.ErrTimerNotFound):
		respond.Error(w, r, http.StatusBadRequest, "timer not started")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
