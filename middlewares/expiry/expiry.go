// Package expiry forces accounts with expired passwords through the
// password change flow before any other page is served.
package expiry

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/render"
)

type changePasswordParams struct {
	Expired   bool
	Errors    []string
	CSRFField template.HTML
}

type Middleware struct {
	handler http.Handler
}

func NewMiddleware(next http.Handler) *Middleware {
	return &Middleware{handler: next}
}

func exempt(path string) bool {
	return strings.HasPrefix(path, "/change-password") ||
		strings.HasPrefix(path, "/static") ||
		path == "/health"
}

func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if exempt(r.URL.Path) {
		m.handler.ServeHTTP(w, r)
		return
	}

	id := authn.GetIdentityFromRequest(r)
	if !id.PasswordExpired {
		m.handler.ServeHTTP(w, r)
		return
	}

	log.Info().Str("username", id.Username).Str("path", r.URL.Path).Msg("redirecting expired password to change form")
	render.Render(w, "change_password.gohtml", &changePasswordParams{
		Expired:   true,
		CSRFField: csrf.TemplateField(r),
	})
}
