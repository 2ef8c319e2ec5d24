package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/dtos"
	"github.com/justsurfingit/talentbridge/internal/models"
)

const oauthStateCookie = "tb_oauth_state"

func (h *Handler) RecruiterSignup(c *gin.Context) {
	var req dtos.RecruiterSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.API.RecruiterSignup(c.Request.Context(), client.RecruiterCredentials{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	loggedIn(c, http.StatusCreated, models.Recruiter, res)
}

func (h *Handler) RecruiterLogin(c *gin.Context) {
	var req dtos.RecruiterLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.API.RecruiterLogin(c.Request.Context(), client.RecruiterCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	loggedIn(c, http.StatusOK, models.Recruiter, res)
}

// GoogleCredential signs a candidate in from an ID token obtained in the browser.
func (h *Handler) GoogleCredential(c *gin.Context) {
	var req dtos.GoogleCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.Google.Verify(c.Request.Context(), req.Credential)
	if err != nil {
		h.googleFailed(c, err)
		return
	}
	res, err := h.API.GoogleLogin(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	loggedIn(c, http.StatusOK, models.Candidate, res)
}

// GoogleLogin starts the authorization-code flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.Google.AuthURL(state)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", false, true)
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", false, true)

	if e := c.Query("error"); e != "" {
		log.Warnf("Google sign-in declined: %s", e)
		redirectRoot(c, "google_declined")
		return
	}

	id, err := h.Google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.googleFailed(c, err)
		return
	}
	if _, err := h.API.GoogleLogin(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/home")
}

func (h *Handler) googleFailed(c *gin.Context, err error) {
	if !h.Google.Enabled() {
		respondError(c, err)
		return
	}
	log.Printf("❌ Google Sign In failed: %v", err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Google Sign In failed"})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.API.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func loggedIn(c *gin.Context, status int, t models.UserType, res *models.AuthResponse) {
	c.JSON(status, gin.H{
		"user_type": t,
		"user":      res.User,
		"redirect":  "/home",
	})
}
