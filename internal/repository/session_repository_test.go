package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-api/internal/models"
)

func TestSessionCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.Session{
		UserID:    "u1",
		Role:      models.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "role", "expires_at", "created_at", "revoked", "revoked_at", "ip_address", "user_agent"}).
		AddRow("s1", "u1", string(models.RoleStudent), now.Add(time.Hour), now, false, nil, "127.0.0.1", "agent")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+sessionColumns+" FROM sessions WHERE id = $1 LIMIT 1")).
		WithArgs("s1").
		WillReturnRows(rows)

	session, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.False(t, session.Revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery("SELECT .* FROM sessions WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSessionRevoke(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET revoked = TRUE, revoked_at = $2 WHERE id = $1 AND revoked = FALSE")).
		WithArgs("s1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "s1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionHasActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sessions WHERE user_id = $1 AND revoked = FALSE AND expires_at > $2")).
		WithArgs("u1", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active, err := repo.HasActive(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionDeleteExpired(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
}
