package api

import (
	"context"
	"net/http"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

// Credentials is the token pair plus user identity issued by login and signup.
type Credentials struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "",
		loginRequest{Email: email, Password: password}, &creds)
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// SignUp registers a new account and returns its token pair.
func (c *Client) SignUp(ctx context.Context, name, email, password string, role models.Role) (*Credentials, error) {
	var creds Credentials
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", "",
		signupRequest{Name: name, Email: email, Password: password, Role: role}, &creds)
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// Logout tells the backend to invalidate the session.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil)
}

// Refresh exchanges the refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/auth/token/refresh", refreshToken, nil, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
