package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	authUC "github.com/taskforge/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new user
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Register(stdCtx, authUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, nil, "user registered successfully, please login to get access token")
}

// @Summary Log in and obtain an access token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accessToken, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, transport.LoginResponse{AccessToken: accessToken}, "")
}
