package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/justsurfingit/talentbridge/internal/auth"
	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/queue"
	"github.com/justsurfingit/talentbridge/internal/services"
	"github.com/justsurfingit/talentbridge/internal/session"
)

const (
	NoticeLoginRequired  = "login_required"
	NoticeSessionExpired = "session_expired"

	userTypeKey = "userType"
)

// Handler carries the gateway's dependencies into every route.
type Handler struct {
	API        *client.Client
	Session    *session.Session
	Google     *auth.GoogleAuth
	Jobs       *services.JobService
	Dashboards *services.DashboardService
	Profiles   *services.ProfileService
	Resumes    *services.ResumeService
	Careers    *services.CareerService
}

func NewHandler(api *client.Client, google *auth.GoogleAuth, jobs *services.JobService,
	dashboards *services.DashboardService, profiles *services.ProfileService,
	resumes *services.ResumeService, careers *services.CareerService) *Handler {
	return &Handler{
		API:        api,
		Session:    api.Session(),
		Google:     google,
		Jobs:       jobs,
		Dashboards: dashboards,
		Profiles:   profiles,
		Resumes:    resumes,
		Careers:    careers,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequireSession lets a request through only when the session has a user-type
// tag and that type's access token.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, ok, err := h.Session.Authenticated(c.Request.Context())
		if err != nil {
			log.Printf("❌ Failed to read session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read session"})
			return
		}
		if !ok {
			log.Warnf("Login required for %s %s", c.Request.Method, c.Request.URL.Path)
			redirectRoot(c, NoticeLoginRequired)
			return
		}
		c.Set(userTypeKey, userType)
		c.Next()
	}
}

// Only rejects users of the other type with 403.
func Only(t models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUserType(c) != t {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only " + string(t) + "s can do this"})
			return
		}
		c.Next()
	}
}

func currentUserType(c *gin.Context) models.UserType {
	t, _ := c.Get(userTypeKey)
	ut, _ := t.(models.UserType)
	return ut
}

// byUserType dispatches one route to the candidate or recruiter variant.
func byUserType(candidate, recruiter gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUserType(c) == models.Recruiter {
			recruiter(c)
			return
		}
		candidate(c)
	}
}

// redirectRoot answers with a 303 to the landing page. The JSON body lets API
// clients that do not follow redirects show the notice.
func redirectRoot(c *gin.Context, notice string) {
	location := "/?notice=" + notice
	c.Header("Location", location)
	c.AbortWithStatusJSON(http.StatusSeeOther, gin.H{"notice": notice, "location": location})
}

// respondError maps service and backend errors onto gateway responses.
func respondError(c *gin.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrSessionExpired), errors.Is(err, client.ErrNoSession):
		log.Warnf("Session expired during %s %s", c.Request.Method, c.Request.URL.Path)
		redirectRoot(c, NoticeSessionExpired)
	case errors.As(err, &apiErr):
		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Detail})
	case errors.Is(err, services.ErrNotPDF), errors.Is(err, services.ErrEmptyFile):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrFileTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUploadNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrQueueClosed),
		errors.Is(err, auth.ErrGoogleDisabled):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Something went wrong: " + err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

func pathID(c *gin.Context) (int, bool) {
	id, ok := services.ParseID(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
	}
	return id, ok
}

// formFile reads an optional upload field. A missing field is not an error.
func formFile(c *gin.Context, field string, limit int64) (*client.FilePart, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > limit {
		return nil, services.ErrFileTooLarge
	}
	data, err := readAll(fh, limit)
	if err != nil {
		return nil, err
	}
	return &client.FilePart{FieldName: field, FileName: fh.Filename, Data: data}, nil
}

func readAll(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, services.ErrFileTooLarge
	}
	return data, nil
}
