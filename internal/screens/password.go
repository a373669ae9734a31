package screens

import (
	"net/http"

	"account_portal/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	tmplForgotPassword = "forgot_password.html"
	tmplResetPassword  = "reset_password.html"
	tmplNewPassword    = "new_password.html"
)

func (h *Handler) forgotPasswordPage(c *gin.Context) {
	f := h.begin(c)
	h.render(c, f, http.StatusOK, tmplForgotPassword, page{Title: "Forgot password", Form: session.ForgotPasswordForm{}})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	f := h.begin(c)

	var form session.ForgotPasswordForm
	if errs := h.bindForm(c, "forgot-password", &form); errs != nil {
		h.renderInvalid(c, f, tmplForgotPassword, page{Title: "Forgot password", Form: form, Errors: errs})
		return
	}

	res := f.actions.ForgotPassword(c.Request.Context(), form)
	if res.Succeeded() {
		h.setNavEmail(c, f, form.Email)
		seeOther(c, PathResetPassword)
		return
	}
	h.render(c, f, http.StatusOK, tmplForgotPassword, page{Title: "Forgot password", Form: form})
}

func (h *Handler) resetPasswordPage(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		c.Redirect(http.StatusFound, PathSignIn)
		return
	}
	h.render(c, f, http.StatusOK, tmplResetPassword, page{Title: "Reset password", Email: email, Form: session.ResetPasswordForm{Email: email}})
}

func (h *Handler) resetPassword(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		seeOther(c, PathSignIn)
		return
	}

	overridePostField(c, "email", email)
	overridePostField(c, "code", session.NormalizeCode(c.Request.PostForm.Get("code")))

	var form session.ResetPasswordForm
	if errs := h.bindForm(c, "reset-password", &form); errs != nil {
		form.Password, form.ConfirmPassword = "", ""
		h.renderInvalid(c, f, tmplResetPassword, page{Title: "Reset password", Email: email, Form: form, Errors: errs})
		return
	}

	res := f.actions.ResetPassword(c.Request.Context(), form)
	if res.Succeeded() {
		h.setNavEmail(c, f, "")
		seeOther(c, PathSignIn)
		return
	}
	form.Password, form.ConfirmPassword = "", ""
	h.render(c, f, http.StatusOK, tmplResetPassword, page{Title: "Reset password", Email: email, Form: form})
}

func (h *Handler) resendResetCode(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		seeOther(c, PathSignIn)
		return
	}

	p := page{Title: "Reset password", Email: email, Form: session.ResetPasswordForm{Email: email}}
	if res := f.actions.ResendForgotPassword(c.Request.Context(), email); res.Succeeded() {
		p.Notice = "A new verification code has been sent to " + email + "."
	}
	h.render(c, f, http.StatusOK, tmplResetPassword, p)
}

// The new-password screen follows a sign-in answered with NEW_PASSWORD_REQUIRED.
func (h *Handler) newPasswordPage(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" || f.visitor.Credentials.Challenge == nil {
		c.Redirect(http.StatusFound, PathSignIn)
		return
	}
	h.render(c, f, http.StatusOK, tmplNewPassword, page{Title: "Set a new password", Email: email, Form: session.NewPasswordForm{Email: email}})
}

func (h *Handler) newPassword(c *gin.Context) {
	f := h.begin(c)
	email := f.visitor.Nav.Email
	if email == "" {
		seeOther(c, PathSignIn)
		return
	}

	overridePostField(c, "email", email)

	var form session.NewPasswordForm
	if errs := h.bindForm(c, "new-password", &form); errs != nil {
		form.Password, form.ConfirmPassword = "", ""
		h.renderInvalid(c, f, tmplNewPassword, page{Title: "Set a new password", Email: email, Form: form, Errors: errs})
		return
	}

	res := f.actions.CompleteNewPassword(c.Request.Context(), form)
	if res.Succeeded() {
		h.setNavEmail(c, f, "")
		seeOther(c, PathPrivate)
		return
	}
	form.Password, form.ConfirmPassword = "", ""
	h.render(c, f, http.StatusOK, tmplNewPassword, page{Title: "Set a new password", Email: email, Form: form})
}
