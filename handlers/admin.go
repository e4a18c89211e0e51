package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html/template"
	"math/big"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/passwordrules"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/user"
	"github.com/offgate/offgate/vault"
)

type adminUserRow struct {
	Username    string
	AccountType user.AccountType
	Status      string
	Expires     string
	Disabled    bool
}

type adminParams struct {
	Users        []adminUserRow
	TotalCount   int
	AdminCount   int
	ExpiredCount int
	CSRFField    template.HTML
}

func (e *Env) HandleAdminPage(w http.ResponseWriter, r *http.Request) {
	records, err := e.Vault.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("could not list users")
		render.RenderFullPageError(w, "Error", "Something went wrong", "Could not list user accounts. Please try again later.")
		return
	}

	params := &adminParams{
		CSRFField: csrf.TemplateField(r),
	}
	for _, rec := range records {
		row := adminUserRow{
			Username:    rec.Username,
			AccountType: rec.AccountType,
			Expires:     rec.Expires.Format(authn.TimestampDisplayFormat),
			Disabled:    rec.Disabled,
		}

		until, locked := rec.LockedUntil()
		switch {
		case rec.Disabled:
			row.Status = "Disabled"
		case locked:
			row.Status = "Locked until " + until.Format(authn.TimestampDisplayFormat)
		default:
			row.Status = "Active"
		}

		params.TotalCount++
		if rec.IsAdmin() {
			params.AdminCount++
		}
		if rec.Expired() {
			params.ExpiredCount++
		}

		params.Users = append(params.Users, row)
	}

	render.Render(w, "admin.gohtml", params)
}

type addUserParams struct {
	Errors            []string
	GeneratedPassword string
	CSRFField         template.HTML
}

const (
	tempPasswordLength = 16

	// ambiguous characters left out on purpose; these get read over the
	// phone
	tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

// GenerateTemporaryPassword produces a random password that satisfies
// the composition policy.
func GenerateTemporaryPassword() (string, error) {
	for {
		buf := make([]byte, tempPasswordLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
			if err != nil {
				return "", fmt.Errorf("could not generate password: %w", err)
			}
			buf[i] = tempPasswordAlphabet[n.Int64()]
		}

		candidate := string(buf)
		if passwordrules.Validate(candidate, candidate).OK {
			return candidate, nil
		}
	}
}

func (e *Env) HandleAddUserPage(w http.ResponseWriter, r *http.Request) {
	password, err := GenerateTemporaryPassword()
	if err != nil {
		log.Error().Err(err).Msg("could not generate temporary password")
		render.RenderFullPageError(w, "Error", "Something went wrong", "Could not generate a temporary password. Please try again later.")
		return
	}

	render.Render(w, "add_user.gohtml", &addUserParams{
		GeneratedPassword: password,
		CSRFField:         csrf.TemplateField(r),
	})
}

func (e *Env) HandleAddUserPost(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	accountType := user.AccountType(r.FormValue("account-type"))

	var errs []string
	if username == "" {
		errs = append(errs, "Username can not be blank")
	}
	if accountType != user.AccountTypeUser && accountType != user.AccountTypeAdmin {
		errs = append(errs, "Unknown account type")
	}
	if result := passwordrules.Validate(password, password); !result.OK {
		for _, v := range result.Errors {
			errs = append(errs, v.Message)
		}
	}

	renderForm := func(code int, errs []string) {
		render.RenderWithCode(w, code, "add_user.gohtml", &addUserParams{
			Errors:            errs,
			GeneratedPassword: password,
			CSRFField:         csrf.TemplateField(r),
		})
	}

	if len(errs) > 0 {
		renderForm(http.StatusBadRequest, errs)
		return
	}

	err := e.Vault.CreateUser(r.Context(), username, password, accountType)
	if errors.Is(err, vault.ErrDuplicateUser) {
		renderForm(http.StatusBadRequest, []string{"That username is already taken"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("new_username", username).Msg("could not create user")
		renderForm(http.StatusInternalServerError, []string{"Something went wrong creating the account. Please try again later"})
		return
	}

	log.Info().Str("admin", authn.GetIdentityFromRequest(r).Username).Str("new_username", username).Str("account_type", string(accountType)).Msg("user created")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (e *Env) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	e.handleUserAction(w, r, "delete", e.Vault.DeleteUser)
}

func (e *Env) HandleUserDisable(w http.ResponseWriter, r *http.Request) {
	e.handleUserAction(w, r, "disable", e.Vault.DisableUser)
}

func (e *Env) HandleUserEnable(w http.ResponseWriter, r *http.Request) {
	e.handleUserAction(w, r, "enable", e.Vault.EnableUser)
}

func (e *Env) handleUserAction(w http.ResponseWriter, r *http.Request, action string, f func(ctx context.Context, username string) error) {
	username := mux.Vars(r)["username"]

	err := f(r.Context(), username)
	if errors.Is(err, vault.ErrNotFound) {
		http.Error(w, "no such user", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", username).Str("action", action).Msg("admin user action failed")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	log.Info().Str("admin", authn.GetIdentityFromRequest(r).Username).Str("username", username).Str("action", action).Msg("admin user action")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

type tempPasswordParams struct {
	Username string
	Password string
}

func (e *Env) HandleUserReset(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	password, err := GenerateTemporaryPassword()
	if err != nil {
		log.Error().Err(err).Msg("could not generate temporary password")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	err = e.Vault.ResetPassword(r.Context(), username, password)
	if errors.Is(err, vault.ErrNotFound) {
		http.Error(w, "no such user", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("could not reset password")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	log.Warn().Str("admin", authn.GetIdentityFromRequest(r).Username).Str("username", username).Msg("password reset")
	render.Render(w, "temp_password.gohtml", &tempPasswordParams{
		Username: username,
		Password: password,
	})
}
