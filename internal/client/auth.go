package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/session"
)

// GoogleIdentity is what the candidate sign-in endpoint needs from a Google ID token.
type GoogleIdentity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type RecruiterCredentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLogin signs a candidate in and persists the candidate session. Only a
// 200 answer counts as a login.
func (c *Client) GoogleLogin(ctx context.Context, id GoogleIdentity) (*models.AuthResponse, error) {
	return c.login(ctx, "auth/", id, models.Candidate, http.StatusOK)
}

// RecruiterSignup creates a recruiter account; the backend logs it in directly.
func (c *Client) RecruiterSignup(ctx context.Context, creds RecruiterCredentials) (*models.AuthResponse, error) {
	return c.login(ctx, "auth/recruiter/", creds, models.Recruiter, 0)
}

func (c *Client) RecruiterLogin(ctx context.Context, creds RecruiterCredentials) (*models.AuthResponse, error) {
	creds.Name = ""
	return c.login(ctx, "auth/recruiter/login/", creds, models.Recruiter, 0)
}

func (c *Client) login(ctx context.Context, path string, in any, userType models.UserType, wantStatus int) (*models.AuthResponse, error) {
	r, err := jsonRequest(http.MethodPost, path, in)
	if err != nil {
		return nil, err
	}
	r.anonymous = true
	r.wantStatus = wantStatus

	var out models.AuthResponse
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, errors.New("login succeeded without an access token")
	}

	tokens := session.Tokens{Access: out.Access, Refresh: out.Refresh}
	if err := c.session.SaveLogin(ctx, userType, tokens, out.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	log.Printf("✅ Logged in as %s", userType)
	return &out, nil
}

// Logout forgets the active user's credentials. The backend keeps no server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}
