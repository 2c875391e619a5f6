package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/taskforge/backend/pkg/logger"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with a deadline
// and request metadata, so usecases and repositories see context.Context.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs an Adapter using the provided per-request timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach creates a deadline-bound context for the request and echoes the
// request ID back in the response headers.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	return stdCtx, cancel
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
