// internal/repository/postgres/user_pg_test.go
package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapayl/internal/domain"
	"mapayl/internal/util"
)

func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

// userRow renders u as a result row in userColumns order.
func userRow(u *domain.User) []driver.Value {
	return []driver.Value{
		u.ID.String(), u.Email, u.PasswordHash, u.IsStaff, u.IsSuperuser, u.IsActive, nil,
		u.Name, "Jane", nil, nil, nil, "+919812345678",
		nil, u.KYCComplete, nil, string(u.KYCStatus), u.KYCSubmitted,
		u.OnBoardingComplete, nil, nil, nil,
		u.VerificationDate.Time, "10.0.0.1", "India", nil,
		u.DefaultCurrency.String, nil, nil, nil, int64(2015),
		nil, nil, nil, "0", "12.50",
		u.DateJoined, u.UpdatedAt,
	}
}

func TestUserColumnsMatchRow(t *testing.T) {
	assert.Len(t, userRow(domain.NewUser("a@b.c")), len(userColumns))
}

func TestQueries(t *testing.T) {
	assert.True(t, strings.HasPrefix(insertUserQuery, "INSERT INTO users (id, email, password"))
	assert.Contains(t, insertUserQuery, ":kyc_status")

	assert.NotContains(t, updateUserQuery, "email =")
	assert.NotContains(t, updateUserQuery, "date_joined =")
	assert.Contains(t, updateUserQuery, "kyc_status = :kyc_status")
	assert.True(t, strings.HasSuffix(updateUserQuery, "WHERE id = :id"))
}

func TestCreateUser(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		database, mock := newTestDB(t)
		user := domain.NewUser("jane@example.com")
		user.PasswordHash = "$2a$04$hash"

		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.CreateUser(ctx, database, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		database, mock := newTestDB(t)
		user := domain.NewUser("jane@example.com")

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err := repo.CreateUser(ctx, database, user)
		assert.ErrorIs(t, err, util.ErrDuplicateEntry)

		var pqErr *pq.Error
		require.True(t, errors.As(err, &pqErr), "the driver error stays reachable")
		assert.Equal(t, "users_email_key", pqErr.Constraint)
	})

	t.Run("OtherError", func(t *testing.T) {
		database, mock := newTestDB(t)
		mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

		err := repo.CreateUser(ctx, database, domain.NewUser("jane@example.com"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, util.ErrDuplicateEntry)
	})
}

func TestGetUserByID(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		database, mock := newTestDB(t)
		user := domain.NewUser("jane@example.com")

		mock.ExpectQuery(regexp.QuoteMeta(selectUserQuery + " WHERE id = $1")).
			WithArgs(user.ID.String()).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))

		got, err := repo.GetUserByID(ctx, database, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "jane@example.com", got.Email)
		assert.Equal(t, domain.KYCStatusUnverified, got.KYCStatus)
		assert.Equal(t, "Jane", got.FirstName.String)
		assert.False(t, got.LastName.Valid)
		assert.Equal(t, "INR", got.DefaultCurrency.String)
		assert.Equal(t, 2015, got.PassoutYear.Int)
		assert.False(t, got.InvestmentLimit.Valid)
		assert.Equal(t, "12.5", got.PendingCashBalance.String())
		assert.True(t, got.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		database, mock := newTestDB(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WillReturnRows(sqlmock.NewRows(userColumns))

		got, err := repo.GetUserByID(ctx, database, uuid.New())
		assert.ErrorIs(t, err, util.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("InvalidStoredStatus", func(t *testing.T) {
		database, mock := newTestDB(t)
		user := domain.NewUser("jane@example.com")
		row := userRow(user)
		row[16] = "approved"

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(row...))

		_, err := repo.GetUserByID(ctx, database, user.ID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, util.ErrNotFound)
	})
}

func TestGetUserByIDForUpdate(t *testing.T) {
	database, mock := newTestDB(t)
	repo := NewUserRepository()
	user := domain.NewUser("jane@example.com")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WithArgs(user.ID.String()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))

	got, err := repo.GetUserByIDForUpdate(context.Background(), database, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	database, mock := newTestDB(t)
	repo := NewUserRepository()
	user := domain.NewUser("jane@example.com")

	mock.ExpectQuery(regexp.QuoteMeta(selectUserQuery + " WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))

	got, err := repo.GetUserByEmail(context.Background(), database, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		database, mock := newTestDB(t)
		user := domain.NewUser("jane@example.com")
		user.KYCStatus = domain.KYCStatusVerified

		mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateUser(ctx, database, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		database, mock := newTestDB(t)
		mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateUser(ctx, database, domain.NewUser("jane@example.com"))
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestListUsers(t *testing.T) {
	database, mock := newTestDB(t)
	repo := NewUserRepository()
	first := domain.NewUser("a@example.com")
	second := domain.NewUser("b@example.com")
	second.DateJoined = first.DateJoined.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date_joined DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(first)...).AddRow(userRow(second)...))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	users, total, err := repo.ListUsers(context.Background(), database, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
