package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/api/transport"
	"github.com/morning-sprint/backend/pkg/httpcontext"
	feedbackUC "github.com/morning-sprint/backend/usecase/feedback"
)

type FeedbackHandler struct {
	baseHandler
	uc *feedbackUC.UseCase
}

func NewFeedbackHandler(uc *feedbackUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List feedbacks for users
// @Tags feedbacks
// @Router /api/v1/feedbacks [get]
func (h *FeedbackHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var toUserIDs []string
	for _, part := range strings.Split(string(ctx.QueryArgs().Peek("toUserIds")), ",") {
		if part = strings.TrimSpace(part); part != "" {
			toUserIDs = append(toUserIDs, part)
		}
	}

	start, end, ok := h.parseRangeArgs(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	feedbacks, err := h.uc.ListForUsers(stdCtx, toUserIDs, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, feedbacks)
}

// @Summary Create feedback
// @Tags feedbacks
// @Router /api/v1/feedbacks [post]
func (h *FeedbackHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.FeedbackCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, req.ToUserID, req.FromUserName, req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Add comment to a feedback
// @Tags feedbacks
// @Router /api/v1/feedbacks/{id}/comments [post]
func (h *FeedbackHandler) AddComment(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)

	var req transport.CommentCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comment, err := h.uc.AddComment(stdCtx, userID, id, req.FromUserName, req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, comment)
}
