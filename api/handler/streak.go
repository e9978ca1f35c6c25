package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/pkg/httpcontext"
	streakUC "github.com/morning-sprint/backend/usecase/streak"
)

type StreakHandler struct {
	baseHandler
	uc *streakUC.UseCase
}

func NewStreakHandler(uc *streakUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StreakHandler {
	return &StreakHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Caller's streak history
// @Tags streaks
// @Router /api/v1/streak [get]
func (h *StreakHandler) GetHistory(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	days := parseInt(string(ctx.QueryArgs().Peek("days")), streakUC.DefaultDays)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	history, err := h.uc.History(stdCtx, userID, days, time.Now())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, history)
}

// @Summary Admin streak leaderboard
// @Tags streaks
// @Router /api/v1/admin/streaks [get]
func (h *StreakHandler) GetLeaderboard(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	days := parseInt(string(ctx.QueryArgs().Peek("days")), streakUC.DefaultDays)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	board, err := h.uc.Leaderboard(stdCtx, userID, days, time.Now())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}
