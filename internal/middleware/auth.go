package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/token"
)

const bearerPrefix = "Bearer "

// Headers used to hand the verified identity to downstream handlers.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// BearerAuth verifies the Authorization header against the access token
// service and attaches the identity to the request. Downstream handlers are
// never invoked on rejection, so every task operation behind this middleware
// can trust the attached identity.
func BearerAuth(tokens *token.Service, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString, ok := extractBearer(ctx)
			if !ok {
				reject(ctx, "missing bearer token")
				return
			}

			id, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				logger.Warn("access token rejected", zap.Error(err))
				reject(ctx, "invalid or expired token")
				return
			}

			// Clear any client-supplied values before trusting these headers.
			ctx.Request.Header.Set(HeaderUserID, id.UserID)
			ctx.Request.Header.Set(HeaderUserEmail, id.Email)

			next(ctx)
		}
	}
}

func extractBearer(ctx *fasthttp.RequestCtx) (string, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return tokenString, tokenString != ""
}

func reject(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.SetBody(body)
}
