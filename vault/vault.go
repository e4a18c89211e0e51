package vault

import (
	"context"
	"errors"
	"time"

	"github.com/offgate/offgate/user"
)

var (
	// ErrNotFound is returned when no record exists for a username.
	ErrNotFound = errors.New("vault: user not found")

	// ErrBadCredentials is returned by UpdatePassword when the current
	// password does not verify.
	ErrBadCredentials = errors.New("vault: invalid credentials")

	// ErrLockFailed is returned when a temporary lock could not be
	// recorded (missing user or failed write).
	ErrLockFailed = errors.New("vault: could not lock user")

	// ErrDuplicateUser is returned by CreateUser when the username is
	// already taken.
	ErrDuplicateUser = errors.New("vault: user already exists")
)

// Vault is the per-user credential store the authentication core runs
// against. Implementations own all persistence; callers hold no state
// about a user beyond what a Record carries.
type Vault interface {
	// GetUser fetches a record; ErrNotFound when absent.
	GetUser(ctx context.Context, username string) (*user.Record, error)

	// CreateUser stores a new record with a hashed password. The record
	// is created already expired so the first login forces a change.
	CreateUser(ctx context.Context, username string, password string, accountType user.AccountType) error

	// UpdatePassword reverifies currentPassword before writing the new
	// hash and pushing the expiry forward.
	UpdatePassword(ctx context.Context, username string, currentPassword string, newPassword string) error

	// ResetPassword overwrites the password without verifying the old
	// one (admin operation). The record is expired immediately so the
	// next login forces a change.
	ResetPassword(ctx context.Context, username string, newPassword string) error

	// TemporarilyLockUser moves the record's valid-from into the future
	// and returns the resulting unlock time.
	TemporarilyLockUser(ctx context.Context, username string) (time.Time, error)

	ListUsers(ctx context.Context) ([]*user.Record, error)
	DeleteUser(ctx context.Context, username string) error
	DisableUser(ctx context.Context, username string) error
	EnableUser(ctx context.Context, username string) error

	Close() error
}
