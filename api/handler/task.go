package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	taskUC "github.com/taskforge/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created, "task created successfully")
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	input := taskUC.ListInput{
		Status:    string(ctx.QueryArgs().Peek("status")),
		DueDate:   string(ctx.QueryArgs().Peek("dueDate")),
		StartDate: string(ctx.QueryArgs().Peek("startDate")),
		EndDate:   string(ctx.QueryArgs().Peek("endDate")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, userID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.TaskList{Count: len(tasks), Data: tasks}, "")
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, userID, taskUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated, "task updated successfully")
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Delete(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result, "task deleted successfully")
}

// @Summary Count tasks by status
// @Tags tasks
// @Router /api/v1/tasks/getCount/{id} [get]
func (h *TaskHandler) GetCount(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}

	targetID, _ := ctx.UserValue("id").(string)

	input := taskUC.CountInput{
		UserID: targetID,
		Start:  string(ctx.QueryArgs().Peek("start")),
		End:    string(ctx.QueryArgs().Peek("end")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Count(stdCtx, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result, "task count retrieved successfully")
}
