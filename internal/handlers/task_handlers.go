package handlers

import (
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "task-manager"

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unhealthy"),
			toPayload("service", serviceName),
		)
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "healthy"),
		toPayload("service", serviceName),
	)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: list tasks")

	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	list, err := h.TaskService.ListTasks(r.Context(), owner.ID, query.Get("status"), query.Get("search"))
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks fetched",
		zap.Int("count", len(list.Tasks)),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusOK, "Tasks fetched successfully", dto.FromTaskList(list))
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: create task")

	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), owner.ID, request.Title, request.Deadline.Value)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusCreated, "Task created successfully", dto.TaskEnvelope{Task: dto.FromTask(created)})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: update task")

	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), owner.ID, id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusOK, "Task updated successfully", dto.TaskEnvelope{Task: dto.FromTask(updated)})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: delete task")

	owner, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), owner.ID, id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Warn("HTTP: invalid task id",
			zap.String("id", r.PathValue("id")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, service.CodeValidation, "Invalid task id")
		return uuid.Nil, false
	}
	return id, true
}

// requireUser reads the user set by middleware.Auth.
func requireUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, service.CodeUnauthorized, "You must be logged in to access this resource")
		return nil, false
	}
	return u, true
}
