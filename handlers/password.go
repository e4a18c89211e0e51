package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/passwordrules"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/vault"
)

type changePasswordParams struct {
	Expired   bool
	Errors    []string
	CSRFField template.HTML
}

func (e *Env) HandleChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	id := authn.GetIdentityFromRequest(r)

	render.Render(w, "change_password.gohtml", &changePasswordParams{
		Expired:   id.PasswordExpired,
		CSRFField: csrf.TemplateField(r),
	})
}

func (e *Env) HandleChangePasswordPost(w http.ResponseWriter, r *http.Request) {
	id := authn.GetIdentityFromRequest(r)

	currentPassword := r.FormValue("current-password")
	newPassword := r.FormValue("new-password")
	confirmPassword := r.FormValue("confirm-password")

	renderForm := func(code int, errs []string) {
		render.RenderWithCode(w, code, "change_password.gohtml", &changePasswordParams{
			Expired:   id.PasswordExpired,
			Errors:    errs,
			CSRFField: csrf.TemplateField(r),
		})
	}

	if result := passwordrules.Validate(newPassword, confirmPassword); !result.OK {
		var errs []string
		for _, v := range result.Errors {
			errs = append(errs, v.Message)
		}
		renderForm(http.StatusBadRequest, errs)
		return
	}

	err := e.Vault.UpdatePassword(r.Context(), id.Username, currentPassword, newPassword)
	if errors.Is(err, vault.ErrBadCredentials) {
		renderForm(http.StatusUnauthorized, []string{"Your current password was incorrect"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", id.Username).Msg("could not update password")
		renderForm(http.StatusInternalServerError, []string{"Something went wrong changing your password. Please try again later"})
		return
	}

	log.Info().Str("username", id.Username).Msg("password changed")
	http.Redirect(w, r, "/change-password/confirmation", http.StatusFound)
}

func (e *Env) HandleChangePasswordConfirmation(w http.ResponseWriter, r *http.Request) {
	render.Render(w, "change_password_confirm.gohtml", nil)
}
