package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/offgate/offgate/passwordrules"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/user"
	"github.com/offgate/offgate/vault"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		password, err := GenerateTemporaryPassword()
		assert.NoError(t, err)
		assert.Len(t, password, tempPasswordLength)
		assert.True(t, passwordrules.Validate(password, password).OK)
	}
}

func TestEnv_HandleAdminPage(t *testing.T) {
	setupSalts(t)
	render.Init()

	t.Run("fail if not admin", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/admin", nil, asUser(sampleRegularUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
		assert.Equal(t, "you cannot access this page", strings.TrimSpace(w.Body.String()))
	})

	t.Run("render if admin", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("ListUsers", mock.Anything).Return([]*user.Record{
			{
				Username:    "adminuser",
				AccountType: user.AccountTypeAdmin,
				Expires:     time.Now().Add(24 * time.Hour),
				ValidFrom:   time.Now().Add(-time.Hour),
			},
			{
				Username:    "lazybones",
				AccountType: user.AccountTypeUser,
				Expires:     time.Now().Add(-24 * time.Hour),
				ValidFrom:   time.Now().Add(-time.Hour),
			},
			{
				Username:    "troublemaker",
				AccountType: user.AccountTypeUser,
				Disabled:    true,
				Expires:     time.Now().Add(24 * time.Hour),
				ValidFrom:   time.Now().Add(10 * time.Minute),
			},
		}, nil)

		r := makeTestRequest(t, http.MethodGet, "/admin", nil, asUser(sampleAdminUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "3 accounts (1 admins), 1 with expired passwords.")
		assert.Contains(t, w.Body.String(), "<td>adminuser</td>")
		assert.Contains(t, w.Body.String(), "<td>lazybones</td>")
		assert.Contains(t, w.Body.String(), "<td>Disabled</td>")
		assert.Contains(t, w.Body.String(), `action="/admin/users/troublemaker/enable"`)
		assert.Contains(t, w.Body.String(), `action="/admin/users/adminuser/disable"`)
	})
}

func TestEnv_HandleAddUser(t *testing.T) {
	setupSalts(t)
	render.Init()

	addUserForm := func(username, password, accountType string) *strings.Reader {
		form := url.Values{}
		form.Set("username", username)
		form.Set("password", password)
		form.Set("account-type", accountType)
		return strings.NewReader(form.Encode())
	}

	t.Run("form carries a generated password", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/admin/add-user", nil, asUser(sampleAdminUser, v))
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), `name="password"`)
		assert.Contains(t, w.Body.String(), "readonly")
	})

	t.Run("successful creation redirects to admin", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("CreateUser", mock.Anything, "newhire", "GeneratedPass1234567", user.AccountTypeUser).Return(nil)

		body := addUserForm("newhire", "GeneratedPass1234567", "USER")
		r := makeTestRequest(t, http.MethodPost, "/admin/add-user", body, asUser(sampleAdminUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Result().StatusCode)
		assert.Equal(t, "/admin", w.Result().Header.Get("Location"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("CreateUser", mock.Anything, "newhire", "GeneratedPass1234567", user.AccountTypeUser).Return(vault.ErrDuplicateUser)

		body := addUserForm("newhire", "GeneratedPass1234567", "USER")
		r := makeTestRequest(t, http.MethodPost, "/admin/add-user", body, asUser(sampleAdminUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "That username is already taken")
	})

	t.Run("blank username and bad account type", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		body := addUserForm("   ", "GeneratedPass1234567", "SUPERADMIN")
		r := makeTestRequest(t, http.MethodPost, "/admin/add-user", body, asUser(sampleAdminUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "Username can not be blank")
		assert.Contains(t, w.Body.String(), "Unknown account type")
	})

	t.Run("non-admin cannot create users", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		body := addUserForm("newhire", "GeneratedPass1234567", "USER")
		r := makeTestRequest(t, http.MethodPost, "/admin/add-user", body, asUser(sampleRegularUser, v), asFormPost(), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	})
}

func TestEnv_HandleUserActions(t *testing.T) {
	setupSalts(t)
	render.Init()

	t.Run("delete", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("DeleteUser", mock.Anything, "oldtimer").Return(nil)

		r := makeTestRequest(t, http.MethodPost, "/admin/users/oldtimer/delete", nil, asUser(sampleAdminUser, v), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Result().StatusCode)
		assert.Equal(t, "/admin", w.Result().Header.Get("Location"))
	})

	t.Run("disable missing user", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("DisableUser", mock.Anything, "ghost").Return(vault.ErrNotFound)

		r := makeTestRequest(t, http.MethodPost, "/admin/users/ghost/disable", nil, asUser(sampleAdminUser, v), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("enable", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		v.On("EnableUser", mock.Anything, "troublemaker").Return(nil)

		r := makeTestRequest(t, http.MethodPost, "/admin/users/troublemaker/enable", nil, asUser(sampleAdminUser, v), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusFound, w.Result().StatusCode)
	})

	t.Run("reset shows the new temporary password once", func(t *testing.T) {
		v, _, e := makeTestEnv(t)

		var issued string
		v.On("ResetPassword", mock.Anything, "rustyuser", mock.MatchedBy(func(password string) bool {
			issued = password
			return passwordrules.Validate(password, password).OK
		})).Return(nil)

		r := makeTestRequest(t, http.MethodPost, "/admin/users/rustyuser/reset", nil, asUser(sampleAdminUser, v), passesCSRF())
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Contains(t, w.Body.String(), "rustyuser")
		assert.Contains(t, w.Body.String(), issued)
	})
}
