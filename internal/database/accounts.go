package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrAccountNotFound is returned when an account lookup fails.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when the email is already registered.
var ErrAccountExists = errors.New("account already exists")

// ErrInvalidCredentials is returned when login credentials are incorrect.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidEmail is returned for an empty or malformed email address.
var ErrInvalidEmail = errors.New("invalid email address")

// Account is a registered user.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
	LastIP       string
}

// NormalizeEmail trims and lower-cases an address. It returns "" when the
// address has no local part or no domain.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.ContainsAny(email, " \t\r\n") {
		return ""
	}
	return email
}

// CreateAccount registers email with a bcrypt hash of password. Password
// policy is checked by the caller.
func (d *Database) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := d.insertID(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?, ?)",
		email, string(hash),
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &Account{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// ValidateLogin checks email and password. It returns ErrInvalidCredentials
// for an unknown email as well as a wrong password.
func (d *Database) ValidateLogin(ctx context.Context, email, password, ipAddress string) (*Account, error) {
	account, err := d.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := d.UpdateLastLogin(ctx, account.ID, ipAddress); err != nil {
		return nil, err
	}
	return account, nil
}

const accountColumns = "id, email, password_hash, created_at, last_login, last_ip"

// GetAccountByEmail looks an account up by email, ignoring case.
func (d *Database) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrAccountNotFound
	}
	row := d.db.QueryRowContext(ctx,
		d.qb.Build("SELECT "+accountColumns+" FROM users WHERE email = ?"),
		email,
	)
	return scanAccount(row)
}

// GetAccountByID looks an account up by id.
func (d *Database) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	row := d.db.QueryRowContext(ctx,
		d.qb.Build("SELECT "+accountColumns+" FROM users WHERE id = ?"),
		id,
	)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*Account, error) {
	var account Account
	var lastLogin sql.NullTime
	var lastIP sql.NullString

	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &lastLogin, &lastIP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if lastLogin.Valid {
		account.LastLogin = &lastLogin.Time
	}
	account.LastIP = lastIP.String
	return &account, nil
}

// UpdateLastLogin records a successful login.
func (d *Database) UpdateLastLogin(ctx context.Context, id int64, ipAddress string) error {
	_, err := d.db.ExecContext(ctx,
		d.qb.Build("UPDATE users SET last_login = CURRENT_TIMESTAMP, last_ip = ? WHERE id = ?"),
		ipAddress, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ChangePassword replaces the password hash of an account.
func (d *Database) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if newPassword == "" {
		return errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), d.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := d.db.ExecContext(ctx,
		d.qb.Build("UPDATE users SET password_hash = ? WHERE id = ?"),
		string(hash), id,
	)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// AccountExists reports whether email is registered.
func (d *Database) AccountExists(ctx context.Context, email string) (bool, error) {
	_, err := d.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CountAccounts returns the number of registered accounts.
func (d *Database) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}
