package user

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/offgate/offgate/argon"
)

var (
	ErrNoPasswordSet     = errors.New("user: no password set")
	ErrIncorrectPassword = errors.New("user: wrong password")
	ErrInvalidHash       = errors.New("user: invalid password hash")
)

type AccountType string

const (
	AccountTypeUser  AccountType = "USER"
	AccountTypeAdmin AccountType = "ADMIN"
)

// Record is a single account as held by the credential vault. Expires is
// the password expiry time; ValidFrom gates the whole account (a value
// in the future means the account is temporarily locked). Version is an
// opaque token refreshed by the vault on every write.
type Record struct {
	Username     string
	PasswordHash string
	AccountType  AccountType
	Disabled     bool
	Expires      time.Time
	ValidFrom    time.Time
	Version      string
}

func (r *Record) CheckPassword(candidate string) error {
	if len(r.PasswordHash) == 0 {
		return ErrNoPasswordSet
	}

	if strings.HasPrefix(r.PasswordHash, "$2") {
		// password is bcrypt
		err := bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(candidate))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrIncorrectPassword
		}

		if err != nil {
			return ErrInvalidHash
		}

		return nil
	}

	err := argon.ValidatePassword(candidate, r.PasswordHash)
	if errors.Is(err, argon.ErrWrongPassword) {
		return ErrIncorrectPassword
	}

	if err != nil {
		return ErrInvalidHash
	}

	return nil
}

func (r *Record) SetPassword(password string) error {
	hash, err := argon.GenerateFromPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("could not hash password")
		return err
	}
	r.PasswordHash = hash
	return nil
}

func (r *Record) Expired() bool {
	return !r.Expires.After(time.Now())
}

// LockedUntil reports whether the record is temporarily locked and, if
// so, when the lock lifts.
func (r *Record) LockedUntil() (time.Time, bool) {
	if r.ValidFrom.After(time.Now()) {
		return r.ValidFrom, true
	}
	return time.Time{}, false
}

func (r *Record) IsAdmin() bool {
	return r.AccountType == AccountTypeAdmin
}
