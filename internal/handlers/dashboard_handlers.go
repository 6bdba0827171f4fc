package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/client"
	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	Dashboard Dashboard
}

func NewDashboardHandler(dashboard Dashboard) DashboardHandler {
	return DashboardHandler{
		Dashboard: dashboard,
	}
}

func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	_, signedIn := h.Dashboard.Me()
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("signed_in", signedIn))
}

func (h *DashboardHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	me, ok := h.Dashboard.Me()
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("user", me),
		toPayload("canCreateTasks", me.Role.CanCreateTasks()),
		toPayload("minDue", h.Dashboard.MinDue()),
		toPayload("unreadNotifications", h.Dashboard.UnreadCount()))
}

func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("summary", h.Dashboard.Summary()))
}

func (h *DashboardHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	rows := h.Dashboard.Rows(filter)
	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(rows)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", rows),
		toPayload("count", len(rows)),
		toPayload("filter", filter))
}

func (h *DashboardHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	cursor := h.Dashboard.CalendarCursor()
	year, month := cursor.Year(), cursor.Month()
	query := r.URL.Query()
	if raw := query.Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			logger.Warn("HTTP: invalid parameter", zap.String("query", "year"), zap.String("value", raw))
			responseWithError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if raw := query.Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			logger.Warn("HTTP: invalid parameter", zap.String("query", "month"), zap.String("value", raw))
			responseWithError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}
		month = time.Month(m)
	}

	view := h.Dashboard.CalendarFor(year, month, h.Dashboard.TasksMatching(filter))
	responseWithJSON(w, http.StatusOK, toPayload("calendar", view))
}

func (h *DashboardHandler) SaveTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := request.ToSaveRequest()
	if err != nil {
		handleError(w, err, "invalid task form")
		return
	}

	result, err := h.Dashboard.Save(r.Context(), req)
	if err != nil {
		handleError(w, err, "saving task failed")
		return
	}

	status := http.StatusCreated
	if result.Partial() {
		status = http.StatusMultiStatus
	} else if req.EditTaskID != nil && len(result.Created) == 0 {
		status = http.StatusOK
	}

	logger.Info("HTTP_OUT: task form saved",
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failures)),
		zap.Int("http_status", status),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, status, toPayload("result", dto.FromSaveResult(result, func(err error) string {
		return client.Message(err, "request failed")
	})))
}

func (h *DashboardHandler) TaskAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	action, ok := service.ParseAction(chi.URLParam(r, "action"))
	if !ok || action == service.ActionEdit {
		responseWithError(w, http.StatusBadRequest, "unknown action")
		return
	}

	if err := h.Dashboard.Perform(r.Context(), id, action); err != nil {
		handleError(w, err, string(action)+" failed")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("id", id),
		toPayload("action", action))
}

func (h *DashboardHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	if err := h.Dashboard.Perform(r.Context(), id, service.ActionDelete); err != nil {
		handleError(w, err, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	rows, err := h.Dashboard.OpenComments(r.Context(), id)
	if err != nil {
		handleError(w, err, "loading comments failed")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("comments", rows))
}

func (h *DashboardHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mode, err := request.ToMode()
	if err != nil {
		handleError(w, err, "invalid comment")
		return
	}

	used, err := h.Dashboard.PostComment(r.Context(), id, mode, request.Text)
	if err != nil {
		handleError(w, err, "posting comment failed")
		return
	}

	rows, err := h.Dashboard.OpenComments(r.Context(), id)
	if err != nil {
		handleError(w, err, "loading comments failed")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("mode", used),
		toPayload("comments", rows))
}

func (h *DashboardHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := h.Dashboard.DeleteComment(r.Context(), id); err != nil {
		handleError(w, err, "deleting comment failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK,
		toPayload("notifications", h.Dashboard.Notifications()),
		toPayload("unread", h.Dashboard.UnreadCount()))
}

func (h *DashboardHandler) ReadNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		responseWithError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.Dashboard.MarkNotificationRead(r.Context(), id); err != nil {
		handleError(w, err, "marking notification failed")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("unread", h.Dashboard.UnreadCount()))
}

func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Dashboard.Refresh(r.Context()); err != nil {
		handleError(w, err, "refresh failed")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("summary", h.Dashboard.Summary()))
}

func parseFilter(w http.ResponseWriter, r *http.Request) (summary.Filter, bool) {
	query := r.URL.Query()
	filter, err := summary.ParseFilter(query.Get("status"), query.Get("category"), query.Get("priority"), query.Get("mine"))
	if err != nil {
		logger.Warn("HTTP: invalid filter", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return summary.Filter{}, false
	}
	return filter, true
}
