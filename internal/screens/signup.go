package screens

import (
	"net/http"

	"account_portal/internal/session"

	"github.com/gin-gonic/gin"
)

const tmplSignUp = "signup.html"

func (h *Handler) signUpPage(c *gin.Context) {
	f := h.begin(c)
	h.render(c, f, http.StatusOK, tmplSignUp, page{Title: "Sign up", Form: session.SignUpForm{}})
}

func (h *Handler) signUp(c *gin.Context) {
	f := h.begin(c)

	var form session.SignUpForm
	if errs := h.bindForm(c, "sign-up", &form); errs != nil {
		form.Password, form.ConfirmPassword = "", ""
		h.renderInvalid(c, f, tmplSignUp, page{Title: "Sign up", Form: form, Errors: errs})
		return
	}

	res := f.actions.SignUp(c.Request.Context(), form)
	if res.Succeeded() {
		h.setNavEmail(c, f, form.Email)
		seeOther(c, PathConfirm)
		return
	}
	form.Password, form.ConfirmPassword = "", ""
	h.render(c, f, http.StatusOK, tmplSignUp, page{Title: "Sign up", Form: form})
}
