package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/api"
	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, *storage.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cookies, err := storage.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	client := api.New(srv.URL, 5*time.Second, zap.NewNop())
	return New(client, cookies, notify.NewWriter(io.Discard, zap.NewNop()), zap.NewNop()), cookies
}

func authBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(api.Credentials{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			User:         models.User{ID: 1, Email: req.Email, Role: models.RoleAdmin},
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestLoginEstablishesSession(t *testing.T) {
	s, cookies := newTestStore(t, authBackend(t))
	s.Restore()
	require.Equal(t, StateAnonymous, s.State())

	require.NoError(t, s.Login(context.Background(), "me@example.com", "secret"))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "me@example.com", s.User().Email)

	var access string
	require.True(t, cookies.Get("accessToken", &access))
	assert.Equal(t, "access-1", access)
	var user models.User
	require.True(t, cookies.Get("user", &user))
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	s, cookies := newTestStore(t, authBackend(t))
	s.Restore()

	err := s.Login(context.Background(), "me@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid credentials")
	assert.Equal(t, StateAnonymous, s.State())

	var access string
	assert.False(t, cookies.Get("accessToken", &access))
}

func TestRestoreFromCookies(t *testing.T) {
	s, cookies := newTestStore(t, authBackend(t))
	require.NoError(t, cookies.Put("accessToken", "stored-access"))
	require.NoError(t, cookies.Put("refreshToken", "stored-refresh"))
	require.NoError(t, cookies.Put("user", models.User{ID: 2, Email: "back@example.com", Role: models.RoleViewer}))

	assert.Equal(t, StateUnknown, s.State(), "state is unknown before restore")
	s.Restore()
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "back@example.com", s.User().Email)
}

func TestRestoreWithCorruptCookieMeansNoSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("###"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accessToken.json"), []byte(`"ok"`), 0o600))
	cookies, err := storage.New(dir, zap.NewNop())
	require.NoError(t, err)

	s := New(api.New("http://unused", time.Second, zap.NewNop()), cookies,
		notify.NewWriter(io.Discard, zap.NewNop()), zap.NewNop())
	s.Restore()
	assert.Equal(t, StateAnonymous, s.State())
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", authBackend(t).ServeHTTP)
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	s, cookies := newTestStore(t, mux)
	s.Restore()
	require.NoError(t, s.Login(context.Background(), "me@example.com", "secret"))

	s.Logout(context.Background())
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())

	var access string
	assert.False(t, cookies.Get("accessToken", &access), "tokens must be cleared regardless")
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", authBackend(t).ServeHTTP)
	mux.HandleFunc("/auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "refresh token revoked"})
	})
	s, _ := newTestStore(t, mux)
	s.Restore()
	require.NoError(t, s.Login(context.Background(), "me@example.com", "secret"))

	require.Error(t, s.Refresh(context.Background()))
	assert.Equal(t, StateAnonymous, s.State(), "unrefreshable session is unauthenticated")
}

func TestAccessTokenRefreshesExpiringJWT(t *testing.T) {
	expiring, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Second)),
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	refreshed := false
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshed = true
		assert.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
	})
	s, cookies := newTestStore(t, mux)
	require.NoError(t, cookies.Put("accessToken", expiring))
	require.NoError(t, cookies.Put("refreshToken", "refresh-1"))
	require.NoError(t, cookies.Put("user", models.User{ID: 1, Email: "me@example.com"}))
	s.Restore()

	token, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.True(t, refreshed, "near-expiry token must be refreshed proactively")
	assert.Equal(t, "access-2", token)

	var persisted string
	require.True(t, cookies.Get("accessToken", &persisted))
	assert.Equal(t, "access-2", persisted)
}

func TestSignUpAutoLogsIn(t *testing.T) {
	logins := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Credentials{
			AccessToken:  "signup-access",
			RefreshToken: "signup-refresh",
			User:         models.User{ID: 3, Email: "new@example.com", Role: models.RoleViewer},
		})
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
		json.NewEncoder(w).Encode(api.Credentials{
			AccessToken:  "login-access",
			RefreshToken: "login-refresh",
			User:         models.User{ID: 3, Email: "new@example.com", Role: models.RoleViewer},
		})
	})
	s, _ := newTestStore(t, mux)
	s.Restore()

	require.NoError(t, s.SignUp(context.Background(), "New User", "new@example.com", "secret", models.RoleViewer))
	assert.Equal(t, 1, logins, "signup chains into a regular login")
	assert.Equal(t, StateAuthenticated, s.State())
}

func TestAccessTokenWithoutSession(t *testing.T) {
	s, _ := newTestStore(t, http.NewServeMux())
	s.Restore()
	_, err := s.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
