package session

import (
	"regexp"
	"strings"
)

// Form payloads. The binding tags are checked by gin's validator before any
// provider call; "account_email" is registered in the common package.

type SignUpForm struct {
	FirstName       string `form:"firstName" json:"firstName" binding:"required"`
	LastName        string `form:"lastName" json:"lastName" binding:"required"`
	Email           string `form:"email" json:"email" binding:"required,account_email"`
	Password        string `form:"password" json:"-" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"-" binding:"required,eqfield=Password"`
}

type SignInForm struct {
	Email    string `form:"email" json:"email" binding:"required,account_email"`
	Password string `form:"password" json:"-" binding:"required"`
}

type ConfirmSignUpForm struct {
	Email string `form:"email" json:"email" binding:"required,account_email"`
	Code  string `form:"code" json:"code" binding:"required"`
}

type ForgotPasswordForm struct {
	Email string `form:"email" json:"email" binding:"required,account_email"`
}

type ResetPasswordForm struct {
	Email           string `form:"email" json:"email" binding:"required,account_email"`
	Code            string `form:"code" json:"code" binding:"required"`
	Password        string `form:"password" json:"-" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"-" binding:"required,eqfield=Password"`
}

type NewPasswordForm struct {
	Email           string `form:"email" json:"email" binding:"required,account_email"`
	Password        string `form:"password" json:"-" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"-" binding:"required,eqfield=Password"`
}

var digits = regexp.MustCompile(`\d+`)

// NormalizeCode keeps only the digits of a typed confirmation code.
func NormalizeCode(raw string) string {
	return strings.Join(digits.FindAllString(raw, -1), "")
}
