// Package authn implements the per-request authentication state
// machine. Every request presents HTTP Basic credentials which are
// checked against the credential vault; repeated failures for a
// username, real or not, lead to a temporary account lock.
package authn

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/offgate/offgate/config"
	"github.com/offgate/offgate/durations"
	"github.com/offgate/offgate/failures"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/util"
	"github.com/offgate/offgate/vault"
)

const (
	// TimestampDisplayFormat is how lock and expiry times are shown to
	// users (MM/DD/YYYY HH:mm:ss).
	TimestampDisplayFormat = "01/02/2006 15:04:05"

	challengeHeader = `Basic realm="Password Required"`
)

type Middleware struct {
	vault   vault.Vault
	counter failures.Counter
	handler http.Handler
}

func NewMiddleware(next http.Handler, v vault.Vault, c failures.Counter) *Middleware {
	return &Middleware{
		vault:   v,
		counter: c,
		handler: next,
	}
}

func failureLimit() int {
	limit := viper.GetInt(config.KeyFailureLimit)
	if limit == 0 {
		limit = config.DefaultFailureLimit
	}
	return limit
}

type lockedPageParams struct {
	UnlockTime string
	Remaining  string
}

func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/static") || r.URL.Path == "/health" {
		m.handler.ServeHTTP(w, r)
		return
	}

	username, password, ok := r.BasicAuth()
	if !ok || username == "" || password == "" {
		log.Info().Str("ip", util.FindTrueIP(r)).Msg("no auth details included")
		challenge(w)
		return
	}

	rec, err := m.vault.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			log.Warn().Str("ip", util.FindTrueIP(r)).Str("username", username).Msg("login attempt for unknown user")
		} else {
			log.Error().Err(err).Str("username", username).Msg("could not fetch user from vault")
		}
		// a fetch failure still counts against the submitted username so
		// guesses at nonexistent accounts get rate limited too
		m.recordFailure(w, r, username)
		return
	}

	// the lock check runs before password verification so a locked
	// account never reveals whether the password was correct
	if until, locked := rec.LockedUntil(); locked {
		log.Warn().Str("ip", util.FindTrueIP(r)).Str("username", username).Time("unlock_time", until).Msg("login attempt on locked account")
		renderLocked(w, until)
		return
	}

	if err := rec.CheckPassword(password); err != nil {
		log.Warn().Str("ip", util.FindTrueIP(r)).Str("username", username).Msg("invalid login")
		m.recordFailure(w, r, username)
		return
	}

	m.counter.Clear(username)

	if rec.Disabled {
		log.Warn().Str("ip", util.FindTrueIP(r)).Str("username", username).Msg("login of disabled account")
		render.RenderWithCode(w, http.StatusForbidden, "disabled.gohtml", nil)
		return
	}

	id := &Identity{
		Username:        rec.Username,
		AccountType:     rec.AccountType,
		PasswordExpired: rec.Expired(),
	}

	log.Debug().Str("username", id.Username).Str("account_type", string(id.AccountType)).Bool("password_expired", id.PasswordExpired).Msg("authenticated")

	m.handler.ServeHTTP(w, attachIdentity(r, id))
}

func (m *Middleware) recordFailure(w http.ResponseWriter, r *http.Request, username string) {
	count := m.counter.Increment(username)
	if count < failureLimit() {
		challenge(w)
		return
	}

	unlockTime, err := m.vault.TemporarilyLockUser(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Int("failure_count", count).Msg("could not record temporary lock")
		render.RenderWithCode(w, http.StatusForbidden, "auth_problem.gohtml", nil)
		return
	}

	log.Warn().Str("ip", util.FindTrueIP(r)).Str("username", username).Int("failure_count", count).Time("unlock_time", unlockTime).Msg("account locked after repeated failures")
	renderLocked(w, unlockTime)
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", challengeHeader)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func renderLocked(w http.ResponseWriter, until time.Time) {
	render.RenderWithCode(w, http.StatusForbidden, "locked.gohtml", &lockedPageParams{
		UnlockTime: until.Format(TimestampDisplayFormat),
		Remaining:  durations.NiceDuration(time.Until(until).Round(time.Second)),
	})
}
