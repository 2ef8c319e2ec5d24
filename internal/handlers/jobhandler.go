package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentbridge/internal/dtos"
	"github.com/justsurfingit/talentbridge/internal/services"
)

// BrowseJobs is GET /jobs with the backend's filters.
func (h *Handler) BrowseJobs(c *gin.Context) {
	var q dtos.JobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	jobs, err := h.Jobs.Browse(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) Apply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.Jobs.Apply(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// MyApplications lists the candidate's own applications.
func (h *Handler) MyApplications(c *gin.Context) {
	apps, err := h.Jobs.MyApplications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// MyJobPostings lists the recruiter's postings.
func (h *Handler) MyJobPostings(c *gin.Context) {
	jobs, err := h.Jobs.Browse(c.Request.Context(), dtos.JobQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.Jobs.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *Handler) UpdateJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.Jobs.UpdateJob(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Jobs.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReviewApplications is the recruiter's applicant view, optionally for ?job=<id>.
func (h *Handler) ReviewApplications(c *gin.Context) {
	jobID := 0
	if raw := c.Query("job"); raw != "" {
		id, ok := services.ParseID(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
			return
		}
		jobID = id
	}
	review, err := h.Jobs.ReviewApplications(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Jobs.SetApplicationStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
