package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

type stubAuthenticator struct {
	identity   *models.Identity
	resolveErr error
	authErr    error
}

func (s *stubAuthenticator) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.identity, nil
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string, role models.UserRole) (*models.Identity, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.identity, nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func protectedRouter(auth Authenticator, role models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRole(auth, role), func(c *gin.Context) {
		identity := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.User.ID})
	})
	return r
}

func TestRequireRoleMissingToken(t *testing.T) {
	r := protectedRouter(&stubAuthenticator{}, models.RoleStudent)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHENTICATED", envelope.Error.Code)
}

func TestRequireRoleWrongRole(t *testing.T) {
	auth := &stubAuthenticator{authErr: appErrors.Clone(appErrors.ErrForbidden, "role not permitted for this route")}
	r := protectedRouter(auth, models.RoleAdmin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

func TestRequireRoleExpiredSession(t *testing.T) {
	auth := &stubAuthenticator{authErr: appErrors.Clone(appErrors.ErrSessionExpired, "")}
	r := protectedRouter(auth, models.RoleStudent)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SESSION_EXPIRED", envelope.Error.Code)
}

func TestRequireRoleAttachesIdentity(t *testing.T) {
	auth := &stubAuthenticator{identity: &models.Identity{
		User:    &models.User{ID: "u1", Role: models.RoleStudent},
		Session: &models.Session{ID: "s1"},
	}}
	r := protectedRouter(auth, models.RoleStudent)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
}

func guestRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", GuestOnly(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "welcome"})
	})
	return r
}

func TestGuestOnlyWithoutToken(t *testing.T) {
	r := guestRouter(&stubAuthenticator{resolveErr: appErrors.Clone(appErrors.ErrUnauthenticated, "")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuestOnlyRejectsLiveSession(t *testing.T) {
	auth := &stubAuthenticator{identity: &models.Identity{
		User:    &models.User{ID: "u1"},
		Session: &models.Session{ID: "s1"},
	}}
	r := guestRouter(auth)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Bearer live-token")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SESSION_ACTIVE", envelope.Error.Code)
}

func TestGuestOnlyPassesDeadToken(t *testing.T) {
	auth := &stubAuthenticator{resolveErr: appErrors.Clone(appErrors.ErrSessionExpired, "")}
	r := guestRouter(auth)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerTokenParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}
		assert.Equal(t, tc.want, bearerToken(c), "header %q", tc.header)
	}
}
