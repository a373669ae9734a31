package screens

import (
	"fmt"

	"account_portal/internal/authstate"
	"account_portal/internal/common"
	"account_portal/internal/domain"
	"account_portal/internal/middleware"
	"account_portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StateResponse is the JSON view of a visitor's auth state.
type StateResponse struct {
	authstate.State
	Version uint64 `json:"version"`
}

// RegisterAPIRoutes sets up the JSON endpoints under rg.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.GET("/state", h.authState)
		auth.GET("/user-info", middleware.RequireSignedIn(h.logger), h.userInfo)
	}
}

func (h *Handler) authState(c *gin.Context) {
	v := middleware.VisitorFromContext(c)
	common.RespondOK(c, "", StateResponse{State: v.Auth, Version: v.Version})
}

// userInfo reads the current user straight from the provider. The status
// store is not involved.
func (h *Handler) userInfo(c *gin.Context) {
	v := middleware.VisitorFromContext(c)
	log := middleware.RequestLogger(c, h.logger)
	client := session.NewClient(h.provider, &v.Credentials, log)

	user, err := client.FetchSession(c.Request.Context(), true)
	if saveErr := h.visitors.Save(c.Request.Context(), v); saveErr != nil {
		_ = c.Error(fmt.Errorf("persist visitor %s: %w", v.ID, saveErr))
	}
	if err != nil {
		pe, ok := domain.AsProviderError(err)
		if ok && (pe.Code == domain.CodeNoSession || pe.Code == domain.CodeNotAuthorized) {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails(pe.Message))
			return
		}
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails(domain.ErrorMessage(err)))
		return
	}
	log.Info("User info", zap.String("sub", user.SubjectID), zap.String("email", user.Email))
	common.RespondOK(c, "User info retrieved.", user)
}
