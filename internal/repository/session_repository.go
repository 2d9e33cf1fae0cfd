package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-api/internal/models"
)

const sessionColumns = `id, user_id, role, expires_at, created_at, revoked, revoked_at, ip_address, user_agent`

// SessionRepository provides database access for login sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO sessions (id, user_id, role, expires_at, created_at, revoked, ip_address, user_agent)
		VALUES (:id, :user_id, :role, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByID returns a session by identifier.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 LIMIT 1`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session by id: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked.
func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE sessions SET revoked = TRUE, revoked_at = $2 WHERE id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeByUser revokes every live session for an account, e.g. after a
// password reset.
func (r *SessionRepository) RevokeByUser(ctx context.Context, userID string, at time.Time) error {
	const query = `UPDATE sessions SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("revoke sessions by user: %w", err)
	}
	return nil
}

// HasActive reports whether the account holds an unrevoked, unexpired session.
func (r *SessionRepository) HasActive(ctx context.Context, userID string, now time.Time) (bool, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE user_id = $1 AND revoked = FALSE AND expires_at > $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, now); err != nil {
		return false, fmt.Errorf("count active sessions: %w", err)
	}
	return count > 0, nil
}

// DeleteExpired removes sessions whose expiry is past the cutoff. Called
// opportunistically; the auth path never depends on it.
func (r *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
