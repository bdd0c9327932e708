package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/config"
)

type fakeAccountStore struct {
	users map[string]*models.User
}

func (f *fakeAccountStore) Create(_ context.Context, user *models.User) error {
	if f.users == nil {
		f.users = map[string]*models.User{}
	}
	f.users[user.UserID] = user
	return nil
}

func (f *fakeAccountStore) FindByUserID(_ context.Context, userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeAccountStore) ExistsByUserIDOrEmail(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *fakeAccountStore) UpdateLastLogin(context.Context, string, time.Time) error {
	return nil
}

func newAuthRouter(t *testing.T, store *fakeAccountStore, secret string) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authService := service.NewAuthService(store, config.JWTConfig{Secret: secret, Expiration: time.Hour}, nil, nil)

	r := gin.New()
	r.GET("/protected", Auth(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, authService
}

func decodeMessage(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Message
}

func seedUser(t *testing.T, store *fakeAccountStore, authService *service.AuthService) string {
	t.Helper()
	_, err := authService.Register(context.Background(), service.RegisterRequest{
		UserID:   "teacher1",
		Email:    "t@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	result, err := authService.Login(context.Background(), models.LoginRequest{UserID: "teacher1", Password: "secret1"})
	require.NoError(t, err)
	return result.AccessToken
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeAccountStore{}, "test-secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User is not authorized", decodeMessage(t, rec.Body.Bytes()))
}

func TestAuthRejectsNonBearerHeader(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeAccountStore{}, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User is not authorized", decodeMessage(t, rec.Body.Bytes()))
}

func TestAuthFailsWithoutConfiguredSecret(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeAccountStore{}, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some.token.here")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r, _ := newAuthRouter(t, &fakeAccountStore{}, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, rec.Body.Bytes()))
}

func TestAuthRejectsTokenForDeletedUser(t *testing.T) {
	store := &fakeAccountStore{}
	r, authService := newAuthRouter(t, store, "test-secret")
	token := seedUser(t, store, authService)

	delete(store.users, "teacher1")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User is not authorized", decodeMessage(t, rec.Body.Bytes()))
}

func TestAuthAllowsValidToken(t *testing.T) {
	store := &fakeAccountStore{}
	r, authService := newAuthRouter(t, store, "test-secret")
	token := seedUser(t, store, authService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
