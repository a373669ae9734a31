package screens

import (
	"embed"
	"html/template"
	"net/http"

	"account_portal/internal/authstate"
	"account_portal/internal/common"
	"account_portal/internal/domain"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded screen templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Severity classes for the shared message box.
const (
	SeverityError   = "error"
	SeveritySuccess = "success"
	SeverityInfo    = "info"
)

// Message is the shared status line every screen renders.
type Message struct {
	Text     string
	Severity string
}

// Visible is false when there is nothing to say.
func (m Message) Visible() bool {
	return m.Text != ""
}

// MessageFor derives the shared message from the auth state.
func MessageFor(s authstate.State) Message {
	m := Message{Text: s.Message, Severity: SeverityInfo}
	switch s.Status {
	case domain.StatusFailed:
		m.Severity = SeverityError
	case domain.StatusSucceeded:
		m.Severity = SeveritySuccess
	}
	return m
}

// page is the data every template receives.
type page struct {
	Title     string
	CSRFField string
	CSRFToken string
	Auth      authstate.State
	Message   Message
	Notice    string
	Errors    map[string]string
	Form      interface{}
	Email     string
	User      *domain.UserProfile
}

// render writes the screen, then acknowledges a settled status so the same
// outcome is not reported twice.
func (h *Handler) render(c *gin.Context, f *flow, status int, name string, p page) {
	st := f.store.State()
	p.CSRFField = common.CSRFFormField
	p.CSRFToken = f.visitor.CSRFToken
	p.Auth = st
	p.Message = MessageFor(st)
	if p.Errors == nil {
		p.Errors = map[string]string{}
	}
	c.HTML(status, name, p)

	if st.Status.Settled() {
		f.store.Dispatch(authstate.ResetErrors())
	}
}

func (h *Handler) renderInvalid(c *gin.Context, f *flow, name string, p page) {
	h.render(c, f, http.StatusUnprocessableEntity, name, p)
}
