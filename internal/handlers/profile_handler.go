package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/dtos"
	"github.com/justsurfingit/talentbridge/internal/models"
)

const maxImageSize = 5 << 20

func (h *Handler) CandidateProfile(c *gin.Context) {
	p, err := h.Profiles.Candidate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CompanyProfile(c *gin.Context) {
	p, err := h.Profiles.Company(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile takes the profile header form: user_name, job_role and an
// optional user_picture file.
func (h *Handler) UpdateProfile(c *gin.Context) {
	pic, err := formFile(c, "user_picture", maxImageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.API.UpdateProfile(c.Request.Context(), client.ProfileUpdate{
		UserName: c.PostForm("user_name"),
		JobRole:  c.PostForm("job_role"),
		Picture:  pic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SaveCompany takes the company form with an optional logo file.
func (h *Handler) SaveCompany(c *gin.Context) {
	logo, err := formFile(c, "logo", maxImageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	in := models.CompanyProfile{
		Name:              c.PostForm("name"),
		Email:             c.PostForm("email"),
		Phone:             c.PostForm("phone"),
		Location:          c.PostForm("location"),
		FoundedYear:       models.FlexString(c.PostForm("founded_year")),
		NumberOfEmployees: models.FlexString(c.PostForm("number_of_employees")),
		About:             c.PostForm("about"),
	}
	company, err := h.Profiles.SaveCompany(c.Request.Context(), in, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) UpdateAbout(c *gin.Context) {
	var req dtos.AboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.API.UpdateAbout(c.Request.Context(), req.Description); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.About{Description: req.Description})
}

func (h *Handler) ListEducation(c *gin.Context) {
	out, err := h.API.ListEducation(c.Request.Context())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) CreateEducation(c *gin.Context) {
	var req dtos.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.CreateEducation(c.Request.Context(), req.ToModel())
	respond(c, http.StatusCreated, out, err)
}

func (h *Handler) UpdateEducation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.UpdateEducation(c.Request.Context(), id, req.ToModel())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) DeleteEducation(c *gin.Context) {
	if id, ok := pathID(c); ok {
		respondDeleted(c, h.API.DeleteEducation(c.Request.Context(), id))
	}
}

func (h *Handler) ListExperience(c *gin.Context) {
	out, err := h.API.ListExperience(c.Request.Context())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) CreateExperience(c *gin.Context) {
	var req dtos.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.CreateExperience(c.Request.Context(), req.ToModel())
	respond(c, http.StatusCreated, out, err)
}

func (h *Handler) UpdateExperience(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.UpdateExperience(c.Request.Context(), id, req.ToModel())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) DeleteExperience(c *gin.Context) {
	if id, ok := pathID(c); ok {
		respondDeleted(c, h.API.DeleteExperience(c.Request.Context(), id))
	}
}

func (h *Handler) ListProjects(c *gin.Context) {
	out, err := h.API.ListProjects(c.Request.Context())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) CreateProjects(c *gin.Context) {
	var req dtos.ProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.CreateProjects(c.Request.Context(), req.ToModels())
	respond(c, http.StatusCreated, out, err)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.UpdateProject(c.Request.Context(), id, models.Project{
		ProjectName: req.ProjectName,
		Description: req.Description,
	})
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if id, ok := pathID(c); ok {
		respondDeleted(c, h.API.DeleteProject(c.Request.Context(), id))
	}
}

func (h *Handler) ListSkills(c *gin.Context) {
	out, err := h.API.ListSkills(c.Request.Context())
	respond(c, http.StatusOK, out, err)
}

func (h *Handler) AddSkills(c *gin.Context) {
	var req dtos.SkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.API.AddSkills(c.Request.Context(), req.Skills)
	respond(c, http.StatusCreated, out, err)
}

func (h *Handler) DeleteSkill(c *gin.Context) {
	if id, ok := pathID(c); ok {
		respondDeleted(c, h.API.DeleteSkill(c.Request.Context(), id))
	}
}

func respond[T any](c *gin.Context, status int, out T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}

func respondDeleted(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
