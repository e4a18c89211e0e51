package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/failures"
	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/middlewares/expiry"
	"github.com/offgate/offgate/middlewares/securityheaders"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/reports"
	"github.com/offgate/offgate/salt"
	"github.com/offgate/offgate/vault"
)

type Env struct {
	Vault   vault.Vault
	Reports reports.Store
	Counter failures.Counter
}

// RequireAdmin rejects non-admin identities before any admin handler
// runs.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := authn.GetIdentityFromRequest(r)
		if !id.IsAdmin() {
			log.Warn().Str("username", id.Username).Str("path", r.URL.Path).Msg("non-admin request to admin page")
			http.Error(w, "you cannot access this page", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (e *Env) BuildRouter() http.Handler {
	log.Info().Msg("setting up listeners")

	muxer := mux.NewRouter()

	muxer.HandleFunc("/", e.HandleIndex).Methods(http.MethodGet)
	muxer.HandleFunc("/health", e.HandleHealth).Methods(http.MethodGet)

	muxer.HandleFunc("/download", e.HandleDownloadToday).Methods(http.MethodGet)
	muxer.HandleFunc("/download/{name}", e.HandleDownloadNamed).Methods(http.MethodGet)

	muxer.HandleFunc("/change-password", e.HandleChangePasswordPage).Methods(http.MethodGet)
	muxer.HandleFunc("/change-password", e.HandleChangePasswordPost).Methods(http.MethodPost)
	muxer.HandleFunc("/change-password/confirmation", e.HandleChangePasswordConfirmation).Methods(http.MethodGet)

	admin := muxer.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("", e.HandleAdminPage).Methods(http.MethodGet)
	admin.HandleFunc("/add-user", e.HandleAddUserPage).Methods(http.MethodGet)
	admin.HandleFunc("/add-user", e.HandleAddUserPost).Methods(http.MethodPost)
	admin.HandleFunc("/users/{username}/delete", e.HandleUserDelete).Methods(http.MethodPost)
	admin.HandleFunc("/users/{username}/disable", e.HandleUserDisable).Methods(http.MethodPost)
	admin.HandleFunc("/users/{username}/enable", e.HandleUserEnable).Methods(http.MethodPost)
	admin.HandleFunc("/users/{username}/reset", e.HandleUserReset).Methods(http.MethodPost)

	muxer.PathPrefix("/static/").Handler(render.StaticFSHandler())

	expiryMiddleware := expiry.NewMiddleware(muxer)

	csrfMiddleware := csrf.Protect(salt.GenerateCSRFKey(),
		csrf.FieldName("csrf_token"),
		csrf.CookieName("offgate_csrf"))

	authnMiddleware := authn.NewMiddleware(csrfMiddleware(expiryMiddleware), e.Vault, e.Counter)

	return securityheaders.NewMiddleware(authnMiddleware)
}
