package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/pkg/httpcontext"
	importerUC "github.com/morning-sprint/backend/usecase/importer"
)

type ImportHandler struct {
	baseHandler
	uc *importerUC.UseCase
}

func NewImportHandler(uc *importerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Import legacy local-storage data
// @Tags import
// @Router /api/v1/import/localstorage [post]
func (h *ImportHandler) Run(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	// The body schema is checked atomically; a request that does not decode
	// writes nothing. Per-item problems are handled inside the reconciler.
	var batch importerUC.Batch
	dec := json.NewDecoder(bytes.NewReader(ctx.PostBody()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&batch); err != nil {
		h.respondInvalid(ctx, "invalid body")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Run(stdCtx, userID, batch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary List past import receipts
// @Tags import
// @Router /api/v1/import/history [get]
func (h *ImportHandler) History(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	receipts, err := h.uc.History(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, receipts)
}
