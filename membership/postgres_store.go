package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// ErrNilDatabaseConnection is returned by the store constructor when the
// supplied database handle is nil.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

const (
	selectUserByEmailSQL = `SELECT id, email, name, password_hash, password_salt, role FROM users WHERE email = $1`
	selectUserByIDSQL    = `SELECT id, email, name, password_hash, password_salt, role FROM users WHERE id = $1`
	selectRoleByIDSQL    = `SELECT role FROM users WHERE id = $1`
	insertUserSQL        = `INSERT INTO users (id, email, name, password_hash, password_salt, role)
		VALUES (:id, :email, :name, :password_hash, :password_salt, :role)`
)

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	PasswordSalt string    `db:"password_salt"`
	Role         string    `db:"role"`
}

// PostgresStore keeps user accounts in the users table via sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return &PostgresStore{db: db}, nil
}

// GetByEmail looks an account up by email.
// Returns ErrUserNotFound if no account matches.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (User, error) {
	var row userRow

	if err := s.db.GetContext(ctx, &row, selectUserByEmailSQL, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}

		return User{}, err
	}

	return User(row), nil
}

// GetByID looks an account up by identifier.
// Returns ErrUserNotFound if no account matches.
func (s *PostgresStore) GetByID(ctx context.Context, userID uuid.UUID) (User, error) {
	var row userRow

	if err := s.db.GetContext(ctx, &row, selectUserByIDSQL, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}

		return User{}, err
	}

	return User(row), nil
}

// RoleOf returns the role of an account.
// Returns ErrUserNotFound if no account matches.
func (s *PostgresStore) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	var role string

	if err := s.db.GetContext(ctx, &role, selectRoleByIDSQL, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	return role, nil
}

// Create inserts a new account.
// Returns ErrEmailAlreadyRegistered when the email is taken.
func (s *PostgresStore) Create(ctx context.Context, user User) error {
	_, err := s.db.NamedExecContext(ctx, insertUserSQL, userRow(user))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return ErrEmailAlreadyRegistered
		}

		return err
	}

	return nil
}
