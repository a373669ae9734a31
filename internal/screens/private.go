package screens

import (
	"fmt"
	"net/http"

	"account_portal/internal/authstate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	tmplPrivate = "private.html"
	tmplSignOut = "signout.html"
)

// private fetches the session on every view. A failed fetch means "not signed
// in": the state is reset and the visitor is sent to the sign-in screen without
// a message.
func (h *Handler) private(c *gin.Context) {
	f := h.begin(c)

	res := f.actions.FetchSession(c.Request.Context(), true)
	if !res.Succeeded() {
		f.logger.Debug("No session for private screen", zap.Error(res.Err))
		f.store.Dispatch(authstate.ResetState())
		c.Redirect(http.StatusFound, PathSignIn)
		return
	}
	h.render(c, f, http.StatusOK, tmplPrivate, page{Title: "User profile", User: res.User})
}

func (h *Handler) signOutPage(c *gin.Context) {
	f := h.begin(c)
	h.render(c, f, http.StatusOK, tmplSignOut, page{Title: "Sign out"})
}

// signOut leaves for the sign-in screen whatever the provider answered. The
// visitor record is dropped and the browser starts over as a new visitor.
func (h *Handler) signOut(c *gin.Context) {
	f := h.begin(c)
	f.actions.SignOut(c.Request.Context())
	if _, err := h.visitors.Rotate(c); err != nil {
		_ = c.Error(fmt.Errorf("rotate visitor: %w", err))
		h.setNavEmail(c, f, "")
	}
	seeOther(c, PathSignIn)
}
