package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var notices = map[string]string{
	NoticeLoginRequired:  "Login required!",
	NoticeSessionExpired: "Your session expired, please log in again.",
	"google_declined":    "Google Sign In was cancelled.",
}

// Landing reports the session state and turns a notice code into its message.
func (h *Handler) Landing(c *gin.Context) {
	userType, ok, err := h.Session.Authenticated(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to read session: %v", err)
	}
	body := gin.H{
		"authenticated": ok,
		"user_type":     userType,
		"google_login":  h.Google.Enabled(),
	}
	if code := c.Query("notice"); code != "" {
		msg, known := notices[code]
		if !known {
			msg = code
		}
		body["notice"] = gin.H{"code": code, "message": msg}
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) Service(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"candidates": []string{
			"Browse and filter open jobs",
			"Apply in one click and track every application",
			"AI resume analysis with ATS score and tips",
			"Profile builder with education, experience, projects and skills",
			"Career guide with trending skills and skill gaps",
		},
		"recruiters": []string{
			"Post and manage job openings",
			"Review applicants and move them through the pipeline",
			"Company profile with logo",
			"Hiring dashboard with goals and insights",
		},
	})
}

func (h *Handler) ProfileInfo(c *gin.Context) {
	info, err := h.API.ProfileInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_type": currentUserType(c), "profile": info})
}

func (h *Handler) Home(c *gin.Context) {
	feed, err := h.Jobs.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Hero greets the signed-in user with the stored login profile.
func (h *Handler) Hero(c *gin.Context) {
	t := currentUserType(c)
	user, err := h.Session.User(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_type": t, "user": user})
}

func (h *Handler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "TalentBridge",
		"tagline": "Connecting candidates and recruiters",
		"mission": "Make hiring faster and fairer for both sides of the table.",
	})
}

func (h *Handler) CandidateDashboard(c *gin.Context) {
	d, err := h.Dashboards.Candidate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) RecruiterDashboard(c *gin.Context) {
	d, err := h.Dashboards.Recruiter(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) Career(c *gin.Context) {
	g, err := h.Careers.Guide(c.Request.Context(), currentUserType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
