// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mapayl/internal/domain"
	"mapayl/internal/repository"
	"mapayl/internal/util"
)

// userColumns lists the users table columns in select order.
var userColumns = []string{
	"id", "email", "password", "is_staff", "is_superuser", "is_active", "last_login",
	"name", "first_name", "last_name", "current_address", "permanent_address", "contact_number",
	"date_of_birth", "kyc_complete", "kyc_complete_date", "kyc_status", "kyc_submitted",
	"on_boarding_complete", "on_boarding_complete_date", "aadhar_number", "place_of_birth",
	"verification_date", "registered_ip_address", "country_of_residence", "job_title",
	"default_currency", "salutation", "time_zone", "highest_qualification", "passout_year",
	"escrow_account_number", "tax_id", "investment_limit", "fund_committed", "pending_cash_balance",
	"date_joined", "updated_at",
}

// immutableColumns are never rewritten by UpdateUser.
var immutableColumns = map[string]bool{"id": true, "email": true, "date_joined": true}

var (
	selectUserQuery = "SELECT " + strings.Join(userColumns, ", ") + " FROM users"
	insertUserQuery = buildInsertUserQuery()
	updateUserQuery = buildUpdateUserQuery()
)

func buildInsertUserQuery() string {
	params := make([]string, len(userColumns))
	for i, c := range userColumns {
		params[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO users (%s) VALUES (%s)",
		strings.Join(userColumns, ", "), strings.Join(params, ", "))
}

func buildUpdateUserQuery() string {
	sets := make([]string, 0, len(userColumns))
	for _, c := range userColumns {
		if immutableColumns[c] {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	return "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = :id"
}

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
// Methods receive a DBExecutor, so the same repository serves plain connections and transactions.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query, args, err := sqlx.BindNamed(sqlx.DOLLAR, insertUserQuery, user)
	if err != nil {
		return fmt.Errorf("failed to bind user insert: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		if util.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create user %q: %w: %w", user.Email, util.ErrDuplicateEntry, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.User, error) {
	user, err := r.getOne(ctx, q, selectUserQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, wrapLookupError(err, "failed to get user by ID %s", id)
	}
	return user, nil
}

// GetUserByIDForUpdate retrieves a user by ID and locks the row until the transaction ends.
func (r *UserRepository) GetUserByIDForUpdate(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.User, error) {
	user, err := r.getOne(ctx, q, selectUserQuery+" WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, wrapLookupError(err, "failed to lock user %s", id)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
func (r *UserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	user, err := r.getOne(ctx, q, selectUserQuery+" WHERE email = $1", email)
	if err != nil {
		return nil, wrapLookupError(err, "failed to get user by email '%s'", email)
	}
	return user, nil
}

// UpdateUser rewrites the mutable columns of an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query, args, err := sqlx.BindNamed(sqlx.DOLLAR, updateUserQuery, user)
	if err != nil {
		return fmt.Errorf("failed to bind user update: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating user %s: %w", user.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ListUsers retrieves a paginated list of users.
// It performs two queries: one for the data and one for the total count.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.User, int64, error) {
	users := []domain.User{}

	query := selectUserQuery + " ORDER BY date_joined DESC LIMIT $1 OFFSET $2"
	if err := q.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, totalCount, nil
}

func (r *UserRepository) getOne(ctx context.Context, q repository.DBExecutor, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	if err := q.GetContext(ctx, &user, query, arg); err != nil {
		return nil, err
	}
	return &user, nil
}

func wrapLookupError(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return util.ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
