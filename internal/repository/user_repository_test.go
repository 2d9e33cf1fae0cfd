package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(id, schoolID string, role models.UserRole) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "school_id", "full_name", "password_hash", "role", "class_id", "grade", "subject", "active", "last_login", "created_at", "updated_at"}).
		AddRow(id, schoolID, "Test User", "hash", string(role), nil, nil, nil, true, nil, now, now)
}

func TestUserFindBySchoolID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE LOWER(school_id) = LOWER($1) LIMIT 1")).
		WithArgs("stu-001").
		WillReturnRows(userRows("u1", "STU-001", models.RoleStudent))

	user, err := repo.FindBySchoolID(context.Background(), "stu-001")
	require.NoError(t, err)
	assert.Equal(t, "STU-001", user.SchoolID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindBySchoolIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM users WHERE LOWER").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySchoolID(context.Background(), "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserCreateDuplicateSchoolID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{
		SchoolID:     "STU-001",
		FullName:     "Dup User",
		PasswordHash: "hash",
		Role:         models.RoleStudent,
		Active:       true,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		SchoolID:     "TCH-004",
		FullName:     "New Teacher",
		PasswordHash: "hash",
		Role:         models.RoleTeacher,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	role := models.RoleStudent
	mock.ExpectQuery("SELECT .* FROM users WHERE 1=1 AND role = .* ORDER BY full_name ASC LIMIT 20 OFFSET 0").
		WithArgs(role).
		WillReturnRows(userRows("u1", "STU-001", role))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1 AND role = $1")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.User{ID: "missing", FullName: "Nobody"})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestUserDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
