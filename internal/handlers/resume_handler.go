package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentbridge/internal/services"
)

func (h *Handler) ResumePage(c *gin.Context) {
	page, err := h.Resumes.Page(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UploadResume queues the "file" field for analysis and answers 202 with the
// upload's status URL.
func (h *Handler) UploadResume(c *gin.Context) {
	part, err := formFile(c, "file", services.MaxResumeSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if part == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Please select a PDF file"})
		return
	}
	st, err := h.Resumes.Submit(c.Request.Context(), part.FileName, part.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	location := "/dashboard/application/uploads/" + st.ID
	c.Header("Location", location)
	c.JSON(http.StatusAccepted, st)
}

func (h *Handler) UploadStatus(c *gin.Context) {
	st, err := h.Resumes.Status(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
