package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type authUserRepository interface {
	FindBySchoolID(ctx context.Context, schoolID string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

type authSessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeByUser(ctx context.Context, userID string, at time.Time) error
	HasActive(ctx context.Context, userID string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditWriter interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	SessionTTL  time.Duration
	Issuer      string
}

// AuthService implements the authentication chain: credential verification,
// session issue/revocation, and bearer token resolution for the middleware.
type AuthService struct {
	users     authUserRepository
	sessions  authSessionRepository
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions authSessionRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates an account against the given role partition and issues
// a bearer token. An account that still holds a live session is refused; the
// caller must logout first.
func (s *AuthService) Login(ctx context.Context, role models.UserRole, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindBySchoolID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	if user.Role != role {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account does not belong to this role")
	}

	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is inactive")
	}

	now := s.now()
	active, err := s.sessions.HasActive(ctx, user.ID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to check sessions")
	}
	if active {
		return nil, appErrors.Clone(appErrors.ErrSessionActive, "already logged in, logout first")
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: now.Add(s.config.SessionTTL),
		CreatedAt: now,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to persist session")
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to sign token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	// Opportunistic sweep: logins are rare enough to piggyback cleanup on.
	if deleted, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("failed to sweep expired sessions", zap.Error(err))
	} else if deleted > 0 {
		s.logger.Debug("swept expired sessions", zap.Int64("count", deleted))
	}

	s.recordAudit(ctx, models.AuditActionLogin, user, session, "login succeeded", req.IP, req.UserAgent)

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User: models.UserInfo{
			ID:       user.ID,
			SchoolID: user.SchoolID,
			FullName: user.FullName,
			Role:     user.Role,
			ClassID:  user.ClassID,
			Grade:    user.Grade,
		},
	}, nil
}

// Logout revokes the caller's session. A token already revoked no longer
// authenticates, so a second logout fails upstream in the middleware.
func (s *AuthService) Logout(ctx context.Context, identity *models.Identity, ip, userAgent string) error {
	if identity == nil || identity.Session == nil {
		return appErrors.Clone(appErrors.ErrUnauthenticated, "")
	}

	if err := s.sessions.Revoke(ctx, identity.Session.ID, s.now()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to revoke session")
	}

	s.recordAudit(ctx, models.AuditActionLogout, identity.User, identity.Session, "logout", ip, userAgent)
	return nil
}

// Resolve turns a bearer token into an authenticated identity: verify the
// signature, load the session row, check revocation and freshness. An
// expired session is revoked as a side effect, forcing re-login.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token")
	}

	session, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "unknown session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load session")
	}

	if session.Revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "session revoked")
	}

	now := s.now()
	if !now.Before(session.ExpiresAt) {
		if err := s.sessions.Revoke(ctx, session.ID, now); err != nil {
			s.logger.Warn("failed to revoke expired session", zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load account")
	}

	return &models.Identity{User: user, Session: session}, nil
}

// Authenticate resolves the token and additionally requires the identity to
// belong to the expected role partition.
func (s *AuthService) Authenticate(ctx context.Context, token string, role models.UserRole) (*models.Identity, error) {
	identity, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity.User.Role != role {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role not permitted for this route")
	}
	return identity, nil
}

// ChangePassword verifies the old password, stores a new hash, and revokes
// every session for the account.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return appErrors.Clone(appErrors.ErrValidation, "new password must be at least 6 characters")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to hash password")
	}

	now := s.now()
	if err := s.users.UpdatePassword(ctx, userID, string(hash), now); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update password")
	}

	if err := s.sessions.RevokeByUser(ctx, userID, now); err != nil {
		s.logger.Warn("failed to revoke sessions after password change", zap.Error(err))
	}

	return nil
}

func (s *AuthService) signToken(session *models.Session) (string, error) {
	claims := &models.AuthClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		Role:      session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
}

func (s *AuthService) parseToken(token string) (*models.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &models.AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*models.AuthClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) recordAudit(ctx context.Context, action models.AuditAction, user *models.User, session *models.Session, description, ip, userAgent string) {
	if s.audit == nil || user == nil {
		return
	}

	detail, _ := json.Marshal(map[string]string{"session_id": session.ID})
	entry := &models.AuditLog{
		Action:      action,
		EntityType:  "session",
		EntityID:    &session.ID,
		ActorID:     &user.ID,
		ActorRole:   &user.Role,
		Detail:      detail,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.Error(err))
	}
}
