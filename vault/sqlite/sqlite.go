package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/offgate/offgate/config"
	"github.com/offgate/offgate/user"
	"github.com/offgate/offgate/vault"
)

// SQLite keeps one row per account. It is the concrete backing for the
// vault contract; all timestamps are stored as unix seconds and the
// version column is refreshed with a fresh uuid on every write.
type SQLite struct {
	db *sql.DB
}

var _ vault.Vault = (*SQLite)(nil)

func NewFromConfig() (*SQLite, error) {
	config.Lock.RLock()
	defer config.Lock.RUnlock()
	file := viper.GetString(config.KeyVaultFile)
	if file == "" {
		return nil, errors.New("vault: NewFromConfig: vault file not set")
	}

	return New(file)
}

func New(file string) (*SQLite, error) {
	absFile, err := filepath.Abs(file)
	if err != nil {
		log.Warn().Str("raw_vault_file", file).Err(err).Msg("could not get vault file absolute path")
	}

	log.Info().Str("raw_vault_file", file).Str("abs_vault_file", absFile).Msg("starting vault initialization")

	database, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("vault: New: could not open db: %w", err)
	}

	err = migrateDatabase(database)
	if err != nil {
		return nil, fmt.Errorf("vault: New: could not migrate db: %w", err)
	}

	// reopen database now that migration is complete
	database, err = sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("vault: New: could not open db: %w", err)
	}

	log.Info().Str("raw_vault_file", file).Str("abs_vault_file", absFile).Msg("finished vault initialization")

	return &SQLite{db: database}, nil
}

func passwordExpiryDuration() time.Duration {
	expiry := viper.GetDuration(config.KeyPasswordExpiry)
	if expiry == 0 {
		expiry = config.DefaultPasswordExpiry
	}
	return expiry
}

func lockDuration() time.Duration {
	dur := viper.GetDuration(config.KeyLockDuration)
	if dur == 0 {
		dur = config.DefaultLockDuration
	}
	return dur
}

const recordColumns = "username, password_hash, account_type, disabled, expires, valid_from, version"

func scanRecord(row interface{ Scan(...any) error }) (*user.Record, error) {
	var r user.Record
	var disabled int
	var expires, validFrom int64
	err := row.Scan(&r.Username, &r.PasswordHash, &r.AccountType, &disabled, &expires, &validFrom, &r.Version)
	if err != nil {
		return nil, err
	}

	r.Disabled = disabled != 0
	r.Expires = time.Unix(expires, 0)
	r.ValidFrom = time.Unix(validFrom, 0)

	return &r, nil
}

func (s *SQLite) GetUser(ctx context.Context, username string) (*user.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM users WHERE username = $1", username)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vault.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vault: GetUser: could not query user: %w", err)
	}

	return r, nil
}

func (s *SQLite) CreateUser(ctx context.Context, username string, password string, accountType user.AccountType) error {
	r := &user.Record{
		Username:    username,
		AccountType: accountType,
	}
	if err := r.SetPassword(password); err != nil {
		return fmt.Errorf("vault: CreateUser: could not hash password: %w", err)
	}

	// fresh accounts are already expired so the first login forces a
	// password change
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, account_type, disabled, expires, valid_from, version) VALUES ($1, $2, $3, 0, $4, $5, $6)",
		username, r.PasswordHash, string(accountType), now.Unix(), now.Unix(), uuid.New().String())

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return vault.ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("vault: CreateUser: could not insert user: %w", err)
	}

	log.Info().Str("username", username).Str("account_type", string(accountType)).Msg("created user")
	return nil
}

func (s *SQLite) UpdatePassword(ctx context.Context, username string, currentPassword string, newPassword string) error {
	r, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}

	if err := r.CheckPassword(currentPassword); err != nil {
		log.Warn().Str("username", username).Msg("password change with bad current password")
		return vault.ErrBadCredentials
	}

	if err := r.SetPassword(newPassword); err != nil {
		return fmt.Errorf("vault: UpdatePassword: could not hash password: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, expires = $2, valid_from = $3, version = $4 WHERE username = $5",
		r.PasswordHash, now.Add(passwordExpiryDuration()).Unix(), now.Unix(), uuid.New().String(), username)
	if err != nil {
		return fmt.Errorf("vault: UpdatePassword: could not update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vault: UpdatePassword: could not get rows affected: %w", err)
	}
	if affected == 0 {
		return vault.ErrNotFound
	}

	log.Info().Str("username", username).Msg("password updated")
	return nil
}

func (s *SQLite) ResetPassword(ctx context.Context, username string, newPassword string) error {
	var r user.Record
	if err := r.SetPassword(newPassword); err != nil {
		return fmt.Errorf("vault: ResetPassword: could not hash password: %w", err)
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, expires = $2, valid_from = $3, version = $4 WHERE username = $5",
		r.PasswordHash, now.Unix(), now.Unix(), uuid.New().String(), username)
	if err != nil {
		return fmt.Errorf("vault: ResetPassword: could not update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vault: ResetPassword: could not get rows affected: %w", err)
	}
	if affected == 0 {
		return vault.ErrNotFound
	}

	log.Warn().Str("username", username).Msg("password reset by admin")
	return nil
}

func (s *SQLite) TemporarilyLockUser(ctx context.Context, username string) (time.Time, error) {
	unlockTime := time.Now().Add(lockDuration())

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET valid_from = $1, version = $2 WHERE username = $3",
		unlockTime.Unix(), uuid.New().String(), username)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", vault.ErrLockFailed, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", vault.ErrLockFailed, err)
	}
	if affected == 0 {
		return time.Time{}, fmt.Errorf("%w: %w", vault.ErrLockFailed, vault.ErrNotFound)
	}

	log.Warn().Str("username", username).Time("unlock_time", unlockTime).Msg("temporarily locked user")
	return unlockTime.Truncate(time.Second), nil
}

func (s *SQLite) ListUsers(ctx context.Context) ([]*user.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recordColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("vault: ListUsers: could not query users: %w", err)
	}
	defer rows.Close()

	var records []*user.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("vault: ListUsers: could not scan user: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vault: ListUsers: %w", err)
	}

	return records, nil
}

func (s *SQLite) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return fmt.Errorf("vault: DeleteUser: could not delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vault: DeleteUser: could not get rows affected: %w", err)
	}
	if affected == 0 {
		return vault.ErrNotFound
	}

	log.Info().Str("username", username).Msg("deleted user")
	return nil
}

func (s *SQLite) DisableUser(ctx context.Context, username string) error {
	return s.setDisabled(ctx, username, true)
}

func (s *SQLite) EnableUser(ctx context.Context, username string) error {
	return s.setDisabled(ctx, username, false)
}

func (s *SQLite) setDisabled(ctx context.Context, username string, disabled bool) error {
	flag := 0
	if disabled {
		flag = 1
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET disabled = $1, version = $2 WHERE username = $3",
		flag, uuid.New().String(), username)
	if err != nil {
		return fmt.Errorf("vault: setDisabled: could not update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vault: setDisabled: could not get rows affected: %w", err)
	}
	if affected == 0 {
		return vault.ErrNotFound
	}

	log.Info().Str("username", username).Bool("disabled", disabled).Msg("updated user disabled flag")
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
