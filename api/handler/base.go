package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/pkg/httpcontext"
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

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}, message string) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, message))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code, message := mapError(err)
	if status == http.StatusInternalServerError {
		// Internal detail is logged, never returned.
		h.logger.Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message, nil))
}

// userID reads the identity attached by the auth middleware. An empty value
// means the route was wired without the middleware, which is a server bug,
// but it is still answered with a 401 rather than a panic.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek(middleware.HeaderUserID))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing authenticated identity", nil))
	}
	return userID
}

func mapError(err error) (status int, code, message string) {
	var vErrs *domain.ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, string(domain.ErrCodeValidation), vErrs.Error()
	}

	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), "internal server error"
	}

	switch dErr.Code {
	case domain.ErrCodeValidation,
		domain.ErrCodeMissingField,
		domain.ErrCodeInvalidID,
		domain.ErrCodeInvalidDate,
		domain.ErrCodeInvalidStatus,
		domain.ErrCodePastDueDate,
		domain.ErrCodeInvalidRange,
		domain.ErrCodeDuplicateEmail:
		return http.StatusBadRequest, string(dErr.Code), dErr.Message
	case domain.ErrCodeInvalidCredentials,
		domain.ErrCodeInvalidToken,
		domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized, string(dErr.Code), dErr.Message
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, string(dErr.Code), dErr.Message
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), "internal server error"
	}
}
