package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/vault"
)

func changePasswordForm(current, newPassword, confirm string) *strings.Reader {
	form := url.Values{}
	form.Set("current-password", current)
	form.Set("new-password", newPassword)
	form.Set("confirm-password", confirm)
	return strings.NewReader(form.Encode())
}

func TestEnv_HandleChangePassword(t *testing.T) {
	setupSalts(t)
	render.Init()

	t.Run("renders the form", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/change-password", nil, asUser(sampleRegularUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), `action="/change-password"`)
		assert.NotContains(t, w.Body.String(), "Your password has expired")
	})

	t.Run("policy violations come back as a 400 with every message", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		body := changePasswordForm("test1", "short", "different")
		r := makeTestRequest(t, http.MethodPost, "/change-password", body, asUser(sampleRegularUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "minimum length of 16 characters")
		assert.Contains(t, w.Body.String(), "do not match")
		assert.Contains(t, w.Body.String(), "must contain an uppercase letter")
	})

	t.Run("wrong current password", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("UpdatePassword", mock.Anything, "regularuser", "wrongpassword", "ShinyNewPassword12345").Return(vault.ErrBadCredentials)

		body := changePasswordForm("wrongpassword", "ShinyNewPassword12345", "ShinyNewPassword12345")
		r := makeTestRequest(t, http.MethodPost, "/change-password", body, asUser(sampleRegularUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "Your current password was incorrect")
	})

	t.Run("successful change redirects to the confirmation", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("UpdatePassword", mock.Anything, "regularuser", "test1", "ShinyNewPassword12345").Return(nil)

		body := changePasswordForm("test1", "ShinyNewPassword12345", "ShinyNewPassword12345")
		r := makeTestRequest(t, http.MethodPost, "/change-password", body, asUser(sampleRegularUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Result().StatusCode)
		assert.Equal(t, "/change-password/confirmation", w.Result().Header.Get("Location"))
	})

	t.Run("expired user can still reach the form", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/change-password", nil, asUser(sampleExpiredUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "Your password has expired")
	})

	t.Run("confirmation page", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/change-password/confirmation", nil, asUser(sampleRegularUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "Your password has been changed.")
	})
}
