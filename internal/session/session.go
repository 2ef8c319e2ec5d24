package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/justsurfingit/talentbridge/internal/models"
)

const KeyUserType = "current_user_type"

var ErrUnknownUserType = errors.New("unknown user type")

func AccessKey(t models.UserType) string  { return string(t) + "_access_token" }
func RefreshKey(t models.UserType) string { return string(t) + "_refresh_token" }
func UserKey(t models.UserType) string    { return string(t) + "_user" }

// AllKeys lists every value a session may hold.
func AllKeys() []string {
	keys := []string{KeyUserType}
	for _, t := range []models.UserType{models.Candidate, models.Recruiter} {
		keys = append(keys, AccessKey(t), RefreshKey(t), UserKey(t))
	}
	return keys
}

type Tokens struct {
	Access  string
	Refresh string
}

// Session applies the type-scoped bookkeeping rules on top of a Store.
type Session struct {
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

// SaveLogin persists a successful login or signup and makes t the active type.
func (s *Session) SaveLogin(ctx context.Context, t models.UserType, tok Tokens, user json.RawMessage) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownUserType, t)
	}
	if tok.Access == "" {
		return errors.New("login response carried no access token")
	}
	if err := s.store.Set(ctx, AccessKey(t), tok.Access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	// values this login did not carry must not survive from an older one
	if tok.Refresh != "" {
		if err := s.store.Set(ctx, RefreshKey(t), tok.Refresh); err != nil {
			return fmt.Errorf("save refresh token: %w", err)
		}
	} else if err := s.store.Delete(ctx, RefreshKey(t)); err != nil {
		return fmt.Errorf("drop refresh token: %w", err)
	}
	if len(user) > 0 && string(user) != "null" {
		if err := s.store.Set(ctx, UserKey(t), string(user)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	} else if err := s.store.Delete(ctx, UserKey(t)); err != nil {
		return fmt.Errorf("drop user: %w", err)
	}
	return s.store.Set(ctx, KeyUserType, string(t))
}

// ActiveUserType returns the current tag, or "" when none (or an unknown one) is stored.
func (s *Session) ActiveUserType(ctx context.Context) (models.UserType, error) {
	v, ok, err := s.store.Get(ctx, KeyUserType)
	if err != nil || !ok {
		return "", err
	}
	t := models.UserType(v)
	if !t.Valid() {
		return "", nil
	}
	return t, nil
}

// AccessToken returns the active type and its access token. Either may be empty.
func (s *Session) AccessToken(ctx context.Context) (models.UserType, string, error) {
	return s.scoped(ctx, AccessKey)
}

func (s *Session) RefreshToken(ctx context.Context) (models.UserType, string, error) {
	return s.scoped(ctx, RefreshKey)
}

func (s *Session) scoped(ctx context.Context, key func(models.UserType) string) (models.UserType, string, error) {
	t, err := s.ActiveUserType(ctx)
	if err != nil || t == "" {
		return "", "", err
	}
	v, _, err := s.store.Get(ctx, key(t))
	if err != nil {
		return "", "", err
	}
	return t, v, nil
}

func (s *Session) SetAccessToken(ctx context.Context, t models.UserType, token string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownUserType, t)
	}
	return s.store.Set(ctx, AccessKey(t), token)
}

// User returns the stored user object for t, or nil.
func (s *Session) User(ctx context.Context, t models.UserType) (json.RawMessage, error) {
	v, ok, err := s.store.Get(ctx, UserKey(t))
	if err != nil || !ok || v == "" {
		return nil, err
	}
	return json.RawMessage(v), nil
}

// Authenticated reports whether a user-type tag and its matching token are both present.
func (s *Session) Authenticated(ctx context.Context) (models.UserType, bool, error) {
	t, token, err := s.AccessToken(ctx)
	if err != nil {
		return "", false, err
	}
	if t == "" || token == "" {
		return t, false, nil
	}
	return t, true, nil
}

// Logout forgets the active type's credentials and the tag itself.
func (s *Session) Logout(ctx context.Context) error {
	t, err := s.ActiveUserType(ctx)
	if err != nil {
		return err
	}
	keys := []string{KeyUserType}
	if t != "" {
		keys = append(keys, AccessKey(t), RefreshKey(t), UserKey(t))
	}
	return s.store.Delete(ctx, keys...)
}

// Clear wipes every session key for both user types.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, AllKeys()...)
}
