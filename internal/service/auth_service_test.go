package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type mockUserStore struct {
	users map[string]*models.User
}

func (m *mockUserStore) FindBySchoolID(ctx context.Context, schoolID string) (*models.User, error) {
	for _, u := range m.users {
		if u.SchoolID == schoolID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	}
	return nil
}

type mockSessionStore struct {
	sessions map[string]*models.Session
}

func (m *mockSessionStore) Create(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]*models.Session)
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionStore) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionStore) Revoke(ctx context.Context, id string, at time.Time) error {
	if s, ok := m.sessions[id]; ok {
		s.Revoked = true
		s.RevokedAt = &at
	}
	return nil
}

func (m *mockSessionStore) RevokeByUser(ctx context.Context, userID string, at time.Time) error {
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Revoked = true
			s.RevokedAt = &at
		}
	}
	return nil
}

func (m *mockSessionStore) HasActive(ctx context.Context, userID string, now time.Time) (bool, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && !s.Revoked && now.Before(s.ExpiresAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(cutoff) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

type mockAuditStore struct {
	entries []*models.AuditLog
}

func (m *mockAuditStore) Create(ctx context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserStore, *mockSessionStore, *mockAuditStore) {
	t.Helper()
	users := &mockUserStore{users: map[string]*models.User{
		"u-student": {
			ID:           "u-student",
			SchoolID:     "STU-001",
			FullName:     "Amina Yusuf",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         models.RoleStudent,
			Active:       true,
		},
		"u-teacher": {
			ID:           "u-teacher",
			SchoolID:     "TCH-001",
			FullName:     "Daniel Okoye",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         models.RoleTeacher,
			Active:       true,
		},
	}}
	sessions := &mockSessionStore{sessions: map[string]*models.Session{}}
	audit := &mockAuditStore{}

	svc := NewAuthService(users, sessions, audit, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		SessionTTL:  time.Hour,
		Issuer:      "school-api-test",
	})
	return svc, users, sessions, audit
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, _, sessions, audit := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "u-student", res.User.ID)
	assert.Len(t, sessions.sessions, 1)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)

	_, err = svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "NOBODY",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", appErrors.FromError(err).Code)
}

func TestAuthServiceLoginWrongRolePartition(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleTeacher, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestAuthServiceLoginRefusedWhileSessionActive(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "SESSION_ACTIVE", appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.users["u-student"].Active = false

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", appErrors.FromError(err).Code)
}

func TestAuthServiceResolve(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	identity, err := svc.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-student", identity.User.ID)
	assert.Equal(t, models.RoleStudent, identity.Session.Role)
}

func TestAuthServiceResolveGarbageToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Resolve(context.Background(), "not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "UNAUTHENTICATED", appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestAuthServiceResolveExpiredSessionIsRevoked(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	_, err = svc.Resolve(context.Background(), res.Token)
	require.Error(t, err)
	assert.Equal(t, "SESSION_EXPIRED", appErrors.FromError(err).Code)

	for _, s := range sessions.sessions {
		assert.True(t, s.Revoked, "expired session must be revoked on resolve")
	}
}

func TestAuthServiceResolveRevokedSession(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	for id := range sessions.sessions {
		require.NoError(t, sessions.Revoke(context.Background(), id, time.Now().UTC()))
	}

	_, err = svc.Resolve(context.Background(), res.Token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", appErrors.FromError(err).Code)
}

func TestAuthServiceAuthenticateWrongRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), res.Token, models.RoleAdmin)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	identity, err := svc.Authenticate(context.Background(), res.Token, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "u-student", identity.User.ID)
}

func TestAuthServiceLogoutRevokesSession(t *testing.T) {
	svc, _, _, audit := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	identity, err := svc.Resolve(context.Background(), res.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), identity, "127.0.0.1", "test-agent"))

	_, err = svc.Resolve(context.Background(), res.Token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", appErrors.FromError(err).Code)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, models.AuditActionLogout, audit.entries[1].Action)
}

func TestAuthServiceLoginSweepsExpiredSessions(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture(t)
	sessions.sessions["stale"] = &models.Session{
		ID:        "stale",
		UserID:    "u-teacher",
		Role:      models.RoleTeacher,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, ok := sessions.sessions["stale"]
	assert.False(t, ok, "login must sweep sessions past expiry")
	assert.Len(t, sessions.sessions, 1)
}

func TestAuthServiceLoginAfterLogout(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	identity, err := svc.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), identity, "", ""))

	_, err = svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)
}

func TestAuthServiceChangePasswordRevokesSessions(t *testing.T) {
	svc, users, sessions, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		SchoolID: "STU-001",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), "u-student", "secret123", "brandnew1"))

	for _, s := range sessions.sessions {
		assert.True(t, s.Revoked)
	}
	_, err = svc.Resolve(context.Background(), res.Token)
	require.Error(t, err)

	err = bcrypt.CompareHashAndPassword([]byte(users.users["u-student"].PasswordHash), []byte("brandnew1"))
	assert.NoError(t, err)
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), "u-student", "wrong", "brandnew1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", appErrors.FromError(err).Code)
}
