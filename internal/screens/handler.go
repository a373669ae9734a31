// Package screens serves the portal's HTML forms. Every submission is
// validated, dispatched as exactly one operation through the visitor's auth
// status store, and answered with a redirect or a re-rendered form.
package screens

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"account_portal/internal/authstate"
	"account_portal/internal/common"
	"account_portal/internal/middleware"
	"account_portal/internal/platform/metrics"
	"account_portal/internal/session"
	"account_portal/internal/visitor"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Paths of the portal's screens.
const (
	PathSignIn         = "/"
	PathSignUp         = "/sign-up"
	PathConfirm        = "/confirm"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathNewPassword    = "/new-password"
	PathSignOut        = "/sign-out"
	PathPrivate        = "/private"
)

// Visitors persists a visitor after the handler changes it, and replaces it
// when the browser signs out.
type Visitors interface {
	Save(ctx context.Context, v *visitor.Visitor) error
	Rotate(c *gin.Context) (*visitor.Visitor, error)
}

// Handler holds the screens' dependencies.
type Handler struct {
	provider session.IdentityProvider
	visitors Visitors
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

var registerValidators sync.Once

// NewHandler creates a new screens handler and installs the form validators on
// gin's binding engine.
func NewHandler(provider session.IdentityProvider, visitors Visitors, m *metrics.Metrics, logger *zap.Logger) (*Handler, error) {
	var regErr error
	registerValidators.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			regErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		regErr = common.RegisterValidators(v)
	})
	if regErr != nil {
		return nil, regErr
	}

	return &Handler{
		provider: provider,
		visitors: visitors,
		metrics:  m,
		logger:   logger.Named("screens"),
	}, nil
}

// RegisterRoutes sets up the screen routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET(PathSignIn, h.signInPage)
	r.POST(PathSignIn, h.signIn)

	r.GET(PathSignUp, h.signUpPage)
	r.POST(PathSignUp, h.signUp)

	r.GET(PathConfirm, h.confirmPage)
	r.POST(PathConfirm, h.confirm)
	r.POST(PathConfirm+"/resend", h.resendConfirmation)

	r.GET(PathForgotPassword, h.forgotPasswordPage)
	r.POST(PathForgotPassword, h.forgotPassword)

	r.GET(PathResetPassword, h.resetPasswordPage)
	r.POST(PathResetPassword, h.resetPassword)
	r.POST(PathResetPassword+"/resend", h.resendResetCode)

	r.GET(PathNewPassword, h.newPasswordPage)
	r.POST(PathNewPassword, h.newPassword)

	r.GET(PathSignOut, h.signOutPage)
	r.POST(PathSignOut, h.signOut)

	r.GET(PathPrivate, h.private)
}

// flow is one request's view of a visitor: its store, session client and actions.
type flow struct {
	visitor *visitor.Visitor
	store   *authstate.Store
	client  *session.Client
	actions *authstate.Actions
	logger  *zap.Logger
}

// begin rebuilds the visitor's store and persists every transition, so a
// concurrent request can observe Loading.
func (h *Handler) begin(c *gin.Context) *flow {
	v := middleware.VisitorFromContext(c)
	log := middleware.RequestLogger(c, h.logger)
	ctx := context.WithoutCancel(c.Request.Context())

	store := authstate.NewStore(v.Auth, v.Version)
	store.Subscribe(func(s authstate.State, version uint64) {
		v.Auth = s
		v.Version = version
		if err := h.visitors.Save(ctx, v); err != nil {
			_ = c.Error(fmt.Errorf("persist visitor %s: %w", v.ID, err))
		}
	})

	client := session.NewClient(h.provider, &v.Credentials, log)
	return &flow{
		visitor: v,
		store:   store,
		client:  client,
		actions: authstate.NewActions(store, client, h.metrics, log),
		logger:  log,
	}
}

// setNavEmail carries email to the next screen.
func (h *Handler) setNavEmail(c *gin.Context, f *flow, email string) {
	f.visitor.Nav.Email = email
	if err := h.visitors.Save(c.Request.Context(), f.visitor); err != nil {
		_ = c.Error(fmt.Errorf("persist navigation state: %w", err))
	}
}

// bindForm binds the POSTed form into dst; nil means it passed validation.
func (h *Handler) bindForm(c *gin.Context, screen string, dst interface{}) map[string]string {
	if err := c.ShouldBindWith(dst, binding.FormPost); err != nil {
		if h.metrics != nil {
			h.metrics.ValidationErrors.WithLabelValues(screen).Inc()
		}
		return common.FormatValidationErrors(err)
	}
	return nil
}

// overridePostField replaces a submitted value before binding.
func overridePostField(c *gin.Context, key, value string) {
	_ = c.Request.ParseForm()
	c.Request.PostForm.Set(key, value)
}

func seeOther(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}
