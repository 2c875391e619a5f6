package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/pkg/httpcontext"
	authUC "github.com/taskforge/backend/usecase/auth"
)

type ProfileHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewProfileHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get the caller's profile
// @Tags profile
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Profile(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user, "")
}
