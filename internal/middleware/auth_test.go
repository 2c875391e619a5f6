package middleware

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskforge/backend/pkg/token"
)

func newGateway(t *testing.T) (*token.Service, func(fasthttp.RequestHandler) fasthttp.RequestHandler) {
	t.Helper()
	tokens := token.NewService(token.Config{
		AccessSecret:  "gateway-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
	})
	return tokens, BearerAuth(tokens, nil)
}

func runRequest(mw func(fasthttp.RequestHandler) fasthttp.RequestHandler, authorization string) (*fasthttp.RequestCtx, bool) {
	var called bool
	next := func(ctx *fasthttp.RequestCtx) { called = true }

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/api/v1/tasks")
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}

	mw(next)(ctx)
	return ctx, called
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	_, mw := newGateway(t)

	ctx, called := runRequest(mw, "")
	if called {
		t.Fatal("downstream handler invoked without a token")
	}
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}
}

func TestBearerAuthRejectsNonBearerScheme(t *testing.T) {
	_, mw := newGateway(t)

	ctx, called := runRequest(mw, "Basic dXNlcjpwYXNz")
	if called {
		t.Fatal("downstream handler invoked with a non-bearer scheme")
	}
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}
}

func TestBearerAuthRejectsInvalidToken(t *testing.T) {
	_, mw := newGateway(t)

	ctx, called := runRequest(mw, "Bearer not-a-real-token")
	if called {
		t.Fatal("downstream handler invoked with an invalid token")
	}
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}
}

func TestBearerAuthDistinguishesMissingFromInvalid(t *testing.T) {
	_, mw := newGateway(t)

	missing, _ := runRequest(mw, "")
	invalid, _ := runRequest(mw, "Bearer not-a-real-token")

	if !strings.Contains(string(missing.Response.Body()), "missing bearer token") {
		t.Fatalf("missing-token body = %s", missing.Response.Body())
	}
	if !strings.Contains(string(invalid.Response.Body()), "invalid or expired token") {
		t.Fatalf("invalid-token body = %s", invalid.Response.Body())
	}
}

func TestBearerAuthRejectsRefreshTokenOnAccessRoute(t *testing.T) {
	tokens, mw := newGateway(t)

	refresh, err := tokens.IssueRefresh(token.Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	_, called := runRequest(mw, "Bearer "+refresh)
	if called {
		t.Fatal("refresh token accepted on the access path")
	}
}

func TestBearerAuthAttachesIdentity(t *testing.T) {
	tokens, mw := newGateway(t)

	access, err := tokens.IssueAccess(token.Identity{UserID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	ctx, called := runRequest(mw, "Bearer "+access)
	if !called {
		t.Fatal("downstream handler not invoked for a valid token")
	}
	if got := string(ctx.Request.Header.Peek(HeaderUserID)); got != "user-1" {
		t.Fatalf("expected user id header user-1, got %q", got)
	}
	if got := string(ctx.Request.Header.Peek(HeaderUserEmail)); got != "a@example.com" {
		t.Fatalf("expected email header, got %q", got)
	}
}

func TestBearerAuthOverwritesSpoofedIdentityHeaders(t *testing.T) {
	tokens, mw := newGateway(t)

	access, err := tokens.IssueAccess(token.Identity{UserID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	var got string
	next := func(ctx *fasthttp.RequestCtx) {
		got = string(ctx.Request.Header.Peek(HeaderUserID))
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/api/v1/tasks")
	ctx.Request.Header.Set("Authorization", "Bearer "+access)
	ctx.Request.Header.Set(HeaderUserID, "attacker")

	mw(next)(ctx)
	if got != "user-1" {
		t.Fatalf("spoofed identity header survived: %q", got)
	}
}
