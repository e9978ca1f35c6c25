package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/api/transport"
	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) respondInvalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

// userID returns the verified identity stamped by the auth middleware, or
// responds 401 and returns "".
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
	}
	return userID
}

// parseRangeArgs reads start/end ISO8601 query parameters.
func (h baseHandler) parseRangeArgs(ctx *fasthttp.RequestCtx) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, string(ctx.QueryArgs().Peek("start")))
	if err != nil {
		h.respondInvalid(ctx, "invalid start")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, string(ctx.QueryArgs().Peek("end")))
	if err != nil {
		h.respondInvalid(ctx, "invalid end")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// parseRangeBody reads a {start, end} JSON body.
func (h baseHandler) parseRangeBody(ctx *fasthttp.RequestCtx) (time.Time, time.Time, bool) {
	var req transport.RangeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return time.Time{}, time.Time{}, false
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		h.respondInvalid(ctx, "invalid start")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		h.respondInvalid(ctx, "invalid end")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
