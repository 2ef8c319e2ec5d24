package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/justsurfingit/talentbridge/internal/session"
)

var (
	// ErrSessionExpired means the refresh exchange failed and the session was wiped.
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrNoSession      = errors.New("no active session")
)

// APIError is any non-2xx answer from the backend other than a recovered 401.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("talentbridge api: %d %s", e.StatusCode, e.Detail)
}

// StatusCode extracts the backend status from err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL       *url.URL
	http          *http.Client
	session       *session.Session
	timeout       time.Duration
	uploadTimeout time.Duration
	refreshGroup  singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) { c.uploadTimeout = d }
}

// New builds a client for the API rooted at baseURL (e.g. https://host/api/).
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL:       u,
		http:          &http.Client{},
		session:       sess,
		timeout:       10 * time.Second,
		uploadTimeout: 200 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Session() *session.Session { return c.session }

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	timeout     time.Duration
	anonymous   bool
	// wantStatus, when set, is the only success status accepted.
	wantStatus int
}

type response struct {
	status int
	body   []byte
}

func jsonRequest(method, path string, in any) (*request, error) {
	r := &request{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r.body = b
		r.contentType = "application/json"
	}
	return r, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	r, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// do sends r through the session interceptor. A 401 is answered by one
// refresh exchange and one replay of the same request.
func (c *Client) do(ctx context.Context, r *request, out any) error {
	resp, err := c.send(ctx, r, "")
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !r.anonymous {
		log.Printf("🔑 %s %s returned 401, refreshing access token", r.method, r.path)
		access, err := c.refresh(ctx)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, r, access)
		if err != nil {
			return err
		}
	}

	if r.wantStatus != 0 && resp.status >= 200 && resp.status <= 299 && resp.status != r.wantStatus {
		return fmt.Errorf("%s %s: unexpected status %d, want %d", r.method, r.path, resp.status, r.wantStatus)
	}
	return decode(resp, out)
}

// send performs one HTTP round trip. token overrides the session token when set.
func (c *Client) send(ctx context.Context, r *request, token string) (*response, error) {
	timeout := r.timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL.ResolveReference(&url.URL{Path: r.path})
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if !r.anonymous {
		userType, stored, err := c.session.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		if userType != "" {
			req.Header.Set("User-Type", string(userType))
		}
		if token == "" {
			token = stored
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", r.method, r.path, err)
	}
	return &response{status: res.StatusCode, body: b}, nil
}

// refresh exchanges the active refresh token for a new access token. Concurrent
// callers share one exchange. Any failure wipes the session.
func (c *Client) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// the exchange is shared, so one caller's cancellation must not fail the others
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		access, err := c.exchangeRefresh(rctx)
		if err != nil {
			log.Printf("❌ Token refresh failed: %v", err)
			if cerr := c.session.Clear(rctx); cerr != nil {
				log.Printf("⚠️  Failed to clear session: %v", cerr)
			}
			return "", err
		}
		log.Println("✅ Access token refreshed")
		return access, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return v.(string), nil
}

func (c *Client) exchangeRefresh(ctx context.Context) (string, error) {
	userType, refreshToken, err := c.session.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if userType == "" {
		return "", ErrNoSession
	}
	if refreshToken == "" {
		return "", errors.New("no refresh token found")
	}

	r, err := jsonRequest(http.MethodPost, "token/refresh/", map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}
	r.anonymous = true

	resp, err := c.send(ctx, r, "")
	if err != nil {
		return "", err
	}
	var out struct {
		Access string `json:"access"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}
	if err := c.session.SetAccessToken(ctx, userType, out.Access); err != nil {
		return "", fmt.Errorf("save refreshed token: %w", err)
	}
	return out.Access, nil
}

func decode(resp *response, out any) error {
	if resp.status < 200 || resp.status > 299 {
		return &APIError{StatusCode: resp.status, Detail: errorDetail(resp.body)}
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorDetail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, k := range []string{"detail", "error", "message"} {
			if s, ok := payload[k].(string); ok && s != "" {
				return s
			}
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 500 {
		s = s[:500] + "..."
	}
	return s
}
