package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/api/transport"
	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/pkg/csvutil"
	"github.com/morning-sprint/backend/pkg/httpcontext"
	"github.com/morning-sprint/backend/repository"
	taskUC "github.com/morning-sprint/backend/usecase/task"
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
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, userID, req.UserName, req.Content, domain.TaskCategory(req.Category))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Patch task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) PatchTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)

	var req transport.TaskPatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	patch := repository.TaskPatch{
		Content:   req.Content,
		Completed: req.Completed,
	}
	if req.Category != nil {
		category := domain.TaskCategory(*req.Category)
		patch.Category = &category
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.PatchTask(stdCtx, userID, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
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

	if err := h.uc.DeleteTask(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"ok": true})
}

// @Summary List tasks in a date range
// @Tags tasks
// @Router /api/v1/tasks/range [get]
func (h *TaskHandler) GetRange(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	start, end, ok := h.parseRangeArgs(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListRange(stdCtx, userID, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Export tasks in a date range as CSV
// @Tags tasks
// @Router /api/v1/tasks/export [get]
func (h *TaskHandler) ExportRange(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	start, end, ok := h.parseRangeArgs(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListRange(stdCtx, userID, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	csv, err := csvutil.MarshalTasks(tasks)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("text/csv; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", "attachment; filename=\"morning-tasks.csv\"")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBodyString(csv)
}

// @Summary Share tasks created in a range
// @Tags tasks
// @Router /api/v1/tasks/share-today [post]
func (h *TaskHandler) ShareToday(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	start, end, ok := h.parseRangeBody(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ShareRange(stdCtx, userID, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"updated": updated})
}

// @Summary Toggle a like on a shared task
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle-like [post]
func (h *TaskHandler) ToggleLike(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	liked, count, err := h.uc.ToggleLike(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"liked":      liked,
		"likesCount": count,
	})
}

// @Summary Shared tasks dashboard
// @Tags dashboard
// @Router /api/v1/dashboard/shared [get]
func (h *TaskHandler) SharedDashboard(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	start, end, ok := h.parseRangeArgs(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.SharedDashboard(stdCtx, userID, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
