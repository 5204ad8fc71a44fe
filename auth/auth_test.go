package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/stevemurr/simple-shop-server/auth"
	"github.com/stevemurr/simple-shop-server/store"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, auth.CheckPassword("hunter2", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	service := auth.NewService(testSecret, time.Hour)
	token, err := service.GenerateToken("alice", "admin")
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service := auth.NewService(testSecret, time.Hour)
	_, err := service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	other := auth.NewService("other-secret", time.Hour)
	token, err := other.GenerateToken("alice", "user")
	require.NoError(t, err)

	service := auth.NewService(testSecret, time.Hour)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	// Sign an already-expired token directly; the service refuses to issue
	// one itself.
	claims := &auth.Claims{
		Username: "alice",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	service := auth.NewService(testSecret, time.Hour)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func newAuthedStore(t *testing.T) *store.DocumentStore {
	t.Helper()
	s := store.NewDocumentStore(store.NewMemoryBackend())
	require.NoError(t, s.ReplaceCollection(store.Users, []store.Record{
		{"id": "1", "username": "alice", "role": "admin"},
		{"id": "2", "username": "bob", "role": "user"},
	}))
	return s
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	s := newAuthedStore(t)
	service := auth.NewService(testSecret, time.Hour)
	m := auth.NewMiddleware(service, s)

	var gotUser store.Record
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		token, err := service.GenerateToken("ghost", "user")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := service.GenerateToken("bob", "user")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, "bob", gotUser["username"])
	})
}

func TestRequireAdmin(t *testing.T) {
	s := newAuthedStore(t)
	service := auth.NewService(testSecret, time.Hour)
	m := auth.NewMiddleware(service, s)
	handler := m.Authenticate(auth.RequireAdmin(okHandler()))

	t.Run("admin allowed", func(t *testing.T) {
		token, err := service.GenerateToken("alice", "admin")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		token, err := service.GenerateToken("bob", "user")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCanAccess(t *testing.T) {
	admin := store.Record{"username": "alice", "role": "admin"}
	user := store.Record{"username": "bob", "role": "user"}

	assert.True(t, auth.CanAccess(admin, "bob"))
	assert.True(t, auth.CanAccess(user, "bob"))
	assert.False(t, auth.CanAccess(user, "alice"))
	assert.False(t, auth.CanAccess(nil, "bob"))
}

func TestThrottle(t *testing.T) {
	handler := auth.Throttle(rate.NewLimiter(rate.Limit(0), 2))(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
