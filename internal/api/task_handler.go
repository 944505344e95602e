package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
)

// TaskHandler handles task lifecycle endpoints. All policy decisions
// live in the service; the handler only translates HTTP.
type TaskHandler struct {
	taskService *service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), caller, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		TeamID:      req.TeamID,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, taskToAPI(task))
}

// List handles GET /api/tasks with filtering and pagination.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	input, ok := h.parseListQuery(w, r)
	if !ok {
		return
	}

	page, err := h.taskService.List(r.Context(), caller, input)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithPage(w, r, tasksToAPI(page.Tasks), shared.Meta{
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), caller, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToAPI(task))
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), caller, taskID, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		TeamID:      req.TeamID,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToAPI(task))
}

// UpdateStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), caller, taskID, req.Status)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToAPI(task))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), caller, taskID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/tasks/{id}/history.
func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.taskService.History(r.Context(), caller, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, historyToAPI(entries))
}

// parseListQuery reads the list filter query parameters. UUID and
// integer parameters that fail to parse are rejected rather than
// silently dropped; status/priority labels are resolved by the service.
func (h *TaskHandler) parseListQuery(w http.ResponseWriter, r *http.Request) (service.ListTasksInput, bool) {
	query := r.URL.Query()
	input := service.ListTasksInput{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Search:   query.Get("search"),
	}

	if raw := query.Get("teamId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondInvalidQueryParam(w, r, "teamId")
			return service.ListTasksInput{}, false
		}
		input.TeamID = &id
	}

	if raw := query.Get("assignedTo"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondInvalidQueryParam(w, r, "assignedTo")
			return service.ListTasksInput{}, false
		}
		input.AssigneeID = &id
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			h.respondInvalidQueryParam(w, r, "page")
			return service.ListTasksInput{}, false
		}
		input.Page = page
	}

	if raw := query.Get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			h.respondInvalidQueryParam(w, r, "pageSize")
			return service.ListTasksInput{}, false
		}
		input.PageSize = pageSize
	}

	return input, true
}

func (h *TaskHandler) respondInvalidQueryParam(w http.ResponseWriter, r *http.Request, name string) {
	shared.RespondWithError(w, r,
		http.StatusUnprocessableEntity,
		string(service.CodeValidation),
		"Invalid "+name+" parameter.",
		nil)
}
