package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRecord_CheckPassword(t *testing.T) {
	t.Run("argon2 hash", func(t *testing.T) {
		r := &Record{
			Username:     "test",
			PasswordHash: "$argon2id$v=19$m=32768,t=4,p=2$8bI7QCiqbhywTY82FHeMVKI1QgcRwAWYNqoI/95EhNI$u6q8XTUlKRXYZUZrGGXDu2KZHgJnGA8fI9aJSDIJRfA", // test1
		}

		assert.NoError(t, r.CheckPassword("test1"))
		assert.ErrorIs(t, r.CheckPassword("test2"), ErrIncorrectPassword)
	})

	t.Run("legacy bcrypt hash", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("test1"), bcrypt.MinCost)
		require.NoError(t, err)

		r := &Record{
			Username:     "test",
			PasswordHash: string(hash),
		}

		assert.NoError(t, r.CheckPassword("test1"))
		assert.ErrorIs(t, r.CheckPassword("test2"), ErrIncorrectPassword)
	})

	t.Run("no password set", func(t *testing.T) {
		r := &Record{Username: "test"}
		assert.ErrorIs(t, r.CheckPassword("whatever"), ErrNoPasswordSet)
	})

	t.Run("garbage hash", func(t *testing.T) {
		r := &Record{Username: "test", PasswordHash: "kjdskfjdskfjk"}
		assert.ErrorIs(t, r.CheckPassword("whatever"), ErrInvalidHash)
	})
}

func TestRecord_SetPassword(t *testing.T) {
	r := &Record{Username: "test"}
	err := r.SetPassword("brand new password")
	require.NoError(t, err)

	assert.NoError(t, r.CheckPassword("brand new password"))
	assert.ErrorIs(t, r.CheckPassword("some other password"), ErrIncorrectPassword)
}

func TestRecord_Expired(t *testing.T) {
	assert.True(t, (&Record{Expires: time.Now().Add(-time.Hour)}).Expired())
	assert.False(t, (&Record{Expires: time.Now().Add(time.Hour)}).Expired())
}

func TestRecord_LockedUntil(t *testing.T) {
	t.Run("locked", func(t *testing.T) {
		unlock := time.Now().Add(10 * time.Minute)
		until, locked := (&Record{ValidFrom: unlock}).LockedUntil()
		assert.True(t, locked)
		assert.Equal(t, unlock, until)
	})

	t.Run("not locked", func(t *testing.T) {
		_, locked := (&Record{ValidFrom: time.Now().Add(-time.Minute)}).LockedUntil()
		assert.False(t, locked)
	})
}

func TestRecord_IsAdmin(t *testing.T) {
	assert.True(t, (&Record{AccountType: AccountTypeAdmin}).IsAdmin())
	assert.False(t, (&Record{AccountType: AccountTypeUser}).IsAdmin())
}
