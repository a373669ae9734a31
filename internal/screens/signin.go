package screens

import (
	"net/http"

	"account_portal/internal/session"

	"github.com/gin-gonic/gin"
)

const tmplSignIn = "signin.html"

func (h *Handler) signInPage(c *gin.Context) {
	f := h.begin(c)
	if f.store.State().IsAuthenticated {
		c.Redirect(http.StatusFound, PathPrivate)
		return
	}
	h.render(c, f, http.StatusOK, tmplSignIn, page{Title: "Sign in", Form: session.SignInForm{}})
}

func (h *Handler) signIn(c *gin.Context) {
	f := h.begin(c)

	var form session.SignInForm
	if errs := h.bindForm(c, "sign-in", &form); errs != nil {
		form.Password = ""
		h.renderInvalid(c, f, tmplSignIn, page{Title: "Sign in", Form: form, Errors: errs})
		return
	}

	res := f.actions.SignIn(c.Request.Context(), form)
	switch {
	case res.Succeeded():
		seeOther(c, PathPrivate)
	case session.RequiresConfirmation(res.Err):
		h.setNavEmail(c, f, form.Email)
		seeOther(c, PathConfirm)
	case session.RequiresNewPassword(res.Err):
		h.setNavEmail(c, f, form.Email)
		seeOther(c, PathNewPassword)
	default:
		form.Password = ""
		h.render(c, f, http.StatusOK, tmplSignIn, page{Title: "Sign in", Form: form})
	}
}
