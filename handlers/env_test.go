package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/offgate/offgate/failures"
	"github.com/offgate/offgate/mocks"
	"github.com/offgate/offgate/salt"
	"github.com/offgate/offgate/user"
)

// hash of "test1"
const samplePasswordHash = "$argon2id$v=19$m=32768,t=4,p=2$8bI7QCiqbhywTY82FHeMVKI1QgcRwAWYNqoI/95EhNI$u6q8XTUlKRXYZUZrGGXDu2KZHgJnGA8fI9aJSDIJRfA"

var (
	sampleAdminUser = &user.Record{
		Username:     "adminuser",
		PasswordHash: samplePasswordHash,
		AccountType:  user.AccountTypeAdmin,
		Expires:      time.Now().Add(30 * 24 * time.Hour),
		ValidFrom:    time.Now().Add(-10 * time.Hour),
		Version:      uuid.New().String(),
	}

	sampleRegularUser = &user.Record{
		Username:     "regularuser",
		PasswordHash: samplePasswordHash,
		AccountType:  user.AccountTypeUser,
		Expires:      time.Now().Add(30 * 24 * time.Hour),
		ValidFrom:    time.Now().Add(-10 * time.Hour),
		Version:      uuid.New().String(),
	}

	sampleExpiredUser = &user.Record{
		Username:     "rustyuser",
		PasswordHash: samplePasswordHash,
		AccountType:  user.AccountTypeUser,
		Expires:      time.Now().Add(-10 * time.Hour),
		ValidFrom:    time.Now().Add(-100 * 24 * time.Hour),
		Version:      uuid.New().String(),
	}
)

type connectionOption func(r *http.Request) *http.Request

var (
	passesCSRF = func() connectionOption {
		return func(r *http.Request) *http.Request {
			return csrf.UnsafeSkipCheck(r)
		}
	}
	asUser = func(u *user.Record, v *mocks.Vault) connectionOption {
		return func(r *http.Request) *http.Request {
			copied := *u
			v.On("GetUser", mock.Anything, u.Username).Return(&copied, nil)
			r.SetBasicAuth(u.Username, "test1")
			return r
		}
	}
	asFormPost = func() connectionOption {
		return func(r *http.Request) *http.Request {
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return r
		}
	}
)

func setupSalts(t *testing.T) {
	saltDir, err := os.MkdirTemp("", "offgatesalt")
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(saltDir)
	})

	t.Setenv("SALT_FILE", filepath.Join(saltDir, "offgatesalt"))

	salt.CheckOrMakeSalt()
}

func makeTestEnv(t *testing.T) (*mocks.Vault, *mocks.Store, *Env) {
	v := mocks.NewVault(t)
	s := mocks.NewStore(t)

	counter := failures.NewMemoryCounterWithLookback(time.Minute)
	t.Cleanup(counter.Stop)

	return v, s, &Env{
		Vault:   v,
		Reports: s,
		Counter: counter,
	}
}

func makeTestRequest(t *testing.T, method string, path string, body io.Reader, opts ...connectionOption) *http.Request {
	r := httptest.NewRequest(method, path, body)
	for i := range opts {
		r = opts[i](r)
	}
	return r
}
