// Package session manages the authentication lifecycle: login, signup,
// logout and token refresh against the backend, with the token pair and user
// identity persisted across runs in the cookie store.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/api"
	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

// Cookie keys, named after the browser client's cookies.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// refreshLeeway is how close to expiry an access token may get before an
// authenticated call triggers a proactive refresh.
const refreshLeeway = 30 * time.Second

// ErrNotAuthenticated is returned when an operation needs a session and none
// is established.
var ErrNotAuthenticated = errors.New("not authenticated")

// State describes what the store knows about the current session. Consumers
// making authorization decisions must not treat Unknown as unauthenticated:
// restoration has to complete first.
type State int

const (
	// StateUnknown means Restore has not run yet.
	StateUnknown State = iota
	// StateAnonymous means no valid session exists.
	StateAnonymous
	// StateAuthenticated means a user and token pair are loaded.
	StateAuthenticated
)

// Store holds the authenticated user's identity and token pair.
type Store struct {
	api     *api.Client
	cookies *storage.Store
	notify  *notify.Notifier
	logger  *zap.Logger

	mu           sync.Mutex
	state        State
	user         *models.User
	accessToken  string
	refreshToken string
}

// New creates a session store. Call Restore before consulting State.
func New(client *api.Client, cookies *storage.Store, n *notify.Notifier, logger *zap.Logger) *Store {
	return &Store{api: client, cookies: cookies, notify: n, logger: logger}
}

// Restore reconstructs the session from stored cookies. Missing or
// unparseable cookies mean no session, never an error.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	var access, refresh string
	if s.cookies.Get(keyUser, &user) && s.cookies.Get(keyAccessToken, &access) && access != "" {
		s.cookies.Get(keyRefreshToken, &refresh)
		s.user = &user
		s.accessToken = access
		s.refreshToken = refresh
		s.state = StateAuthenticated
		s.logger.Debug("session restored", zap.String("email", user.Email))
		return
	}
	s.state = StateAnonymous
}

// State reports the session state. Unknown until Restore has run.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated user, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login authenticates with the backend and establishes the session. On
// failure the current session state is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notify.Errorf("login failed: %v", err)
		return err
	}
	s.establish(creds)
	s.notify.Successf("logged in as %s", creds.User.Email)
	return nil
}

// SignUp registers a new account, stores the returned tokens, then performs a
// regular login with the same credentials to settle the session.
func (s *Store) SignUp(ctx context.Context, name, email, password string, role models.Role) error {
	creds, err := s.api.SignUp(ctx, name, email, password, role)
	if err != nil {
		s.notify.Errorf("signup failed: %v", err)
		return err
	}
	s.establish(creds)
	s.notify.Successf("signup successful")
	return s.Login(ctx, email, password)
}

// Logout notifies the backend on a best-effort basis, then unconditionally
// clears local session state and stored cookies. The local clear must happen
// even when the backend call fails or times out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Warn("backend logout failed", zap.Error(err))
		}
	}
	s.clear()
	s.notify.Successf("logged out")
}

// Refresh exchanges the refresh token for a new access token. An
// unrefreshable session is treated as unauthenticated: failure forces logout.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()

	if refresh == "" {
		s.clear()
		return ErrNotAuthenticated
	}

	access, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		s.logger.Warn("token refresh failed, forcing logout", zap.Error(err))
		s.clear()
		return err
	}

	s.mu.Lock()
	s.accessToken = access
	s.mu.Unlock()
	if err := s.cookies.Put(keyAccessToken, access); err != nil {
		s.logger.Warn("persist access token", zap.Error(err))
	}
	return nil
}

// AccessToken returns a token usable for an authenticated call, refreshing
// first when the current one is expired or about to expire. Returns
// ErrNotAuthenticated when no session exists.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	state, token := s.state, s.accessToken
	s.mu.Unlock()

	if state != StateAuthenticated || token == "" {
		return "", ErrNotAuthenticated
	}
	if tokenExpiring(token) {
		if err := s.Refresh(ctx); err != nil {
			return "", err
		}
		s.mu.Lock()
		token = s.accessToken
		s.mu.Unlock()
	}
	return token, nil
}

func (s *Store) establish(creds *api.Credentials) {
	s.mu.Lock()
	user := creds.User
	s.user = &user
	s.accessToken = creds.AccessToken
	s.refreshToken = creds.RefreshToken
	s.state = StateAuthenticated
	s.mu.Unlock()

	for key, v := range map[string]any{
		keyAccessToken:  creds.AccessToken,
		keyRefreshToken: creds.RefreshToken,
		keyUser:         creds.User,
	} {
		if err := s.cookies.Put(key, v); err != nil {
			s.logger.Warn("persist cookie", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.state = StateAnonymous
	s.mu.Unlock()

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser} {
		if err := s.cookies.Delete(key); err != nil {
			s.logger.Warn("clear cookie", zap.String("key", key), zap.Error(err))
		}
	}
}

// tokenExpiring inspects the access token's registered claims without
// verifying the signature; the client does not hold the signing secret. A
// token that cannot be parsed or carries no expiry is left for the backend to
// judge.
func tokenExpiring(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < refreshLeeway
}
