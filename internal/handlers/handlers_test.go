package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/talentbridge/internal/auth"
	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/queue"
	"github.com/justsurfingit/talentbridge/internal/services"
	"github.com/justsurfingit/talentbridge/internal/session"
)

type testEnv struct {
	h      *Handler
	router *gin.Engine
	sess   *session.Session
}

// backendRouter fakes the slice of the TalentBridge API these tests touch.
func backendRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/recruiter/login/", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		if body["password"] != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": "acc", "refresh": "ref", "user": gin.H{"id": 7, "name": "Grace"}})
	})
	api.POST("/token/refresh/", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
	})
	api.GET("/recruiter/jobs/", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "Bearer stale" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "expired"})
			return
		}
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "title": "Go Developer"}})
	})
	api.POST("/recruiter/applications/", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You already applied for this job."})
	})
	return r
}

func newTestEnv(t *testing.T, google *auth.GoogleAuth) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(backendRouter())
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore())
	api, err := client.New(srv.URL+"/api/", sess)
	require.NoError(t, err)

	insights, err := services.NewInsightService(&services.LLMService{}, 0)
	require.NoError(t, err)
	if google == nil {
		google = auth.NewGoogleAuth("", "", "")
	}

	h := NewHandler(api, google,
		services.NewJobService(api, insights),
		services.NewDashboardService(api),
		services.NewProfileService(api),
		services.NewResumeService(api, queue.NewMemoryQueue(4)),
		services.NewCareerService(api, insights),
	)
	r := gin.New()
	h.Register(r)
	return &testEnv{h: h, router: r, sess: sess}
}

func (e *testEnv) login(t *testing.T, ut models.UserType, access string) {
	t.Helper()
	require.NoError(t, e.sess.SaveLogin(context.Background(), ut,
		session.Tokens{Access: access, Refresh: "ref"}, json.RawMessage(`{"name":"Ada"}`)))
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func resumeUpload(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/application", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPrivateRouteRedirectsWithoutSession(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.serve(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=login_required", w.Header().Get("Location"))
	assert.Equal(t, "login_required", jsonBody(t, w)["notice"])
}

func TestPublicRoutesNeedNoSession(t *testing.T) {
	e := newTestEnv(t, nil)

	for _, path := range []string{"/", "/service", "/health"} {
		w := e.serve(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestLandingShowsNotice(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.serve(httptest.NewRequest(http.MethodGet, "/?notice=login_required", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := jsonBody(t, w)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, false, body["google_login"])
	notice := body["notice"].(map[string]any)
	assert.Equal(t, "Login required!", notice["message"])
}

func TestWrongUserTypeForbidden(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Recruiter, "acc")

	w := e.serve(httptest.NewRequest(http.MethodPost, "/jobs/1/apply", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.serve(resumeUpload(t, "cv.pdf", []byte("%PDF-1.4\n")))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBackendErrorDetailPassedThrough(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(httptest.NewRequest(http.MethodPost, "/jobs/1/apply", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You already applied for this job.", jsonBody(t, w)["error"])
}

func TestFailedRefreshRedirectsAndClearsSession(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "stale")

	w := e.serve(httptest.NewRequest(http.MethodGet, "/jobs", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=session_expired", w.Header().Get("Location"))
	_, ok, err := e.sess.Authenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecruiterLoginStartsSession(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/recruiter/login",
		strings.NewReader(`{"email":"grace@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := e.serve(req)

	require.Equal(t, http.StatusOK, w.Code)
	body := jsonBody(t, w)
	assert.Equal(t, "recruiter", body["user_type"])
	assert.Equal(t, "/home", body["redirect"])

	ut, ok, err := e.sess.Authenticated(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Recruiter, ut)

	w = e.serve(httptest.NewRequest(http.MethodGet, "/dashboard/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecruiterLoginBadPassword(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/recruiter/login",
		strings.NewReader(`{"email":"grace@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := e.serve(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", jsonBody(t, w)["error"])
}

func TestRecruiterSignupValidation(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/recruiter/signup",
		strings.NewReader(`{"name":"Grace","email":"not-an-email","password":"123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := e.serve(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = e.serve(httptest.NewRequest(http.MethodGet, "/hero", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestHeroReturnsStoredUser(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(httptest.NewRequest(http.MethodGet, "/hero", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := jsonBody(t, w)
	assert.Equal(t, "candidate", body["user_type"])
	assert.Equal(t, "Ada", body["user"].(map[string]any)["name"])
}

func TestResumeUploadQueued(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(resumeUpload(t, "cv.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")))

	require.Equal(t, http.StatusAccepted, w.Code)
	body := jsonBody(t, w)
	assert.Equal(t, "queued", body["state"])
	id := body["id"].(string)
	assert.Equal(t, "/dashboard/application/uploads/"+id, w.Header().Get("Location"))

	w = e.serve(httptest.NewRequest(http.MethodGet, "/dashboard/application/uploads/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cv.pdf", jsonBody(t, w)["file_name"])
}

func TestResumeUploadRejectsNonPDF(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(resumeUpload(t, "cv.pdf", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/application", nil)
	w = e.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownUploadNotFound(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Candidate, "acc")

	w := e.serve(httptest.NewRequest(http.MethodGet, "/dashboard/application/uploads/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidPathID(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Recruiter, "acc")

	w := e.serve(httptest.NewRequest(http.MethodDelete, "/dashboard/jobs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleCredentialDisabled(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(`{"credential":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := e.serve(req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGoogleLoginSetsState(t *testing.T) {
	e := newTestEnv(t, auth.NewGoogleAuth("client-id", "secret", "http://localhost:8080/auth/google/callback"))

	w := e.serve(httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	var state string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == oauthStateCookie {
			state = ck.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Equal(t, state, loc.Query().Get("state"))
}

func TestGoogleCallbackRejectsBadState(t *testing.T) {
	e := newTestEnv(t, auth.NewGoogleAuth("client-id", "secret", "http://localhost:8080/auth/google/callback"))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=c", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "real"})
	w := e.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=c", nil)
	w = e.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleCallbackDeclined(t *testing.T) {
	e := newTestEnv(t, auth.NewGoogleAuth("client-id", "secret", "http://localhost:8080/auth/google/callback"))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s1&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s1"})
	w := e.serve(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=google_declined", w.Header().Get("Location"))
}

func preflight(origin, method, path string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	return req
}

func TestRouterSendsNoCORSByDefault(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t, models.Recruiter, "acc")
	r := e.h.NewRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight("https://evil.example", http.MethodDelete, "/dashboard/jobs/1"))
	assert.NotEqual(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/hero", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterAllowsOnlyConfiguredOrigins(t *testing.T) {
	e := newTestEnv(t, nil)
	r := e.h.NewRouter([]string{"http://localhost:5173"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight("http://localhost:5173", http.MethodDelete, "/dashboard/jobs/1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, preflight("https://evil.example", http.MethodDelete, "/dashboard/jobs/1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
