package auth

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/justsurfingit/talentbridge/internal/client"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// VerifyFunc checks an ID token's signature and audience.
type VerifyFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleAuth runs the candidate sign-in flow and turns Google's ID token into
// the identity the backend's auth/ endpoint expects.
type GoogleAuth struct {
	config *oauth2.Config
	verify VerifyFunc
}

func NewGoogleAuth(clientID, clientSecret, redirectURL string) *GoogleAuth {
	if clientID == "" {
		log.Println("⚠️  GOOGLE_CLIENT_ID not set, Google sign-in disabled")
		return &GoogleAuth{}
	}
	return &GoogleAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		verify: idtoken.Validate,
	}
}

// WithVerifier swaps the ID token verifier. Tests use it to avoid fetching Google's certs.
func (g *GoogleAuth) WithVerifier(v VerifyFunc) *GoogleAuth {
	g.verify = v
	return g
}

// WithEndpoint points the code exchange at another token server.
func (g *GoogleAuth) WithEndpoint(e oauth2.Endpoint) *GoogleAuth {
	if g.config != nil {
		g.config.Endpoint = e
	}
	return g
}

func (g *GoogleAuth) Enabled() bool { return g.config != nil }

// AuthURL is where the browser goes to pick a Google account.
func (g *GoogleAuth) AuthURL(state string) (string, error) {
	if !g.Enabled() {
		return "", ErrGoogleDisabled
	}
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Exchange trades an authorization code for the signed-in user's identity.
// The ID token arrives directly from Google's token endpoint over TLS, so its
// payload is read without a second signature check.
func (g *GoogleAuth) Exchange(ctx context.Context, code string) (client.GoogleIdentity, error) {
	if !g.Enabled() {
		return client.GoogleIdentity{}, ErrGoogleDisabled
	}
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return client.GoogleIdentity{}, fmt.Errorf("exchange code: %w", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return client.GoogleIdentity{}, errors.New("token response carried no id_token")
	}
	payload, err := idtoken.ParsePayload(raw)
	if err != nil {
		return client.GoogleIdentity{}, fmt.Errorf("parse id_token: %w", err)
	}
	if payload.Audience != g.config.ClientID {
		return client.GoogleIdentity{}, fmt.Errorf("id_token issued for %q", payload.Audience)
	}
	return identityFromPayload(payload)
}

// Verify accepts an ID token posted by a browser-side Google button.
func (g *GoogleAuth) Verify(ctx context.Context, credential string) (client.GoogleIdentity, error) {
	if !g.Enabled() {
		return client.GoogleIdentity{}, ErrGoogleDisabled
	}
	payload, err := g.verify(ctx, credential, g.config.ClientID)
	if err != nil {
		return client.GoogleIdentity{}, fmt.Errorf("verify credential: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (client.GoogleIdentity, error) {
	claim := func(k string) string {
		s, _ := p.Claims[k].(string)
		return s
	}
	id := client.GoogleIdentity{
		Name:    claim("name"),
		Email:   claim("email"),
		Picture: claim("picture"),
	}
	if id.Email == "" {
		return client.GoogleIdentity{}, errors.New("id_token has no email claim")
	}
	return id, nil
}
