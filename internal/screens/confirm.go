package screens

import (
	"net/http"

	"account_portal/internal/session"

	"github.com/gin-gonic/gin"
)

const tmplConfirm = "confirm.html"

// The confirm screen only makes sense for an email carried from sign-up or sign-in.
func (h *Handler) confirmPage(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		c.Redirect(http.StatusFound, PathSignIn)
		return
	}
	h.render(c, f, http.StatusOK, tmplConfirm, page{Title: "Confirm sign up", Email: email, Form: session.ConfirmSignUpForm{Email: email}})
}

func (h *Handler) confirm(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		seeOther(c, PathSignIn)
		return
	}

	overridePostField(c, "email", email)
	overridePostField(c, "code", session.NormalizeCode(c.Request.PostForm.Get("code")))

	var form session.ConfirmSignUpForm
	if errs := h.bindForm(c, "confirm", &form); errs != nil {
		h.renderInvalid(c, f, tmplConfirm, page{Title: "Confirm sign up", Email: email, Form: form, Errors: errs})
		return
	}

	res := f.actions.ConfirmSignUp(c.Request.Context(), form)
	if res.Succeeded() {
		h.setNavEmail(c, f, "")
		seeOther(c, PathSignIn)
		return
	}
	h.render(c, f, http.StatusOK, tmplConfirm, page{Title: "Confirm sign up", Email: email, Form: form})
}

func (h *Handler) resendConfirmation(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		seeOther(c, PathSignIn)
		return
	}

	p := page{Title: "Confirm sign up", Email: email, Form: session.ConfirmSignUpForm{Email: email}}
	if res := f.actions.ResendSignUp(c.Request.Context(), email); res.Succeeded() {
		p.Notice = "A new confirmation code has been sent to " + email + "."
	}
	h.render(c, f, http.StatusOK, tmplConfirm, p)
}
