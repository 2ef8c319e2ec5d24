package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/services"
)

// NewRouter builds the gateway engine. Every request runs with the stored
// session, so cross-origin access is granted only to corsOrigins. With none
// configured no CORS headers are sent and browsers keep other sites out.
func (h *Handler) NewRouter(corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = services.MaxResumeSize + 1<<20

	if len(corsOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = corsOrigins
		config.AllowCredentials = true
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		config.ExposeHeaders = []string{"Location"}
		r.Use(cors.New(config))
	}

	h.Register(r)
	return r
}

// Register mounts the public pages, the auth endpoints and the gated section.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Landing)
	r.GET("/service", h.Service)
	r.GET("/health", HealthCheck)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/recruiter/signup", h.RecruiterSignup)
		authGroup.POST("/recruiter/login", h.RecruiterLogin)
		authGroup.POST("/google", h.GoogleCredential)
		authGroup.GET("/google/login", h.GoogleLogin)
		authGroup.GET("/google/callback", h.GoogleCallback)
		authGroup.POST("/logout", h.Logout)
	}

	private := r.Group("", h.RequireSession())
	{
		private.GET("/profile-info", h.ProfileInfo)
		private.GET("/home", h.Home)
		private.GET("/hero", h.Hero)
		private.GET("/about", h.About)
		private.GET("/jobs", h.BrowseJobs)
		private.POST("/jobs/:id/apply", Only(models.Candidate), h.Apply)
		private.GET("/career", h.Career)
	}

	candidate := Only(models.Candidate)
	recruiter := Only(models.Recruiter)

	dash := private.Group("/dashboard")
	{
		dash.GET("", byUserType(h.CandidateDashboard, h.RecruiterDashboard))

		dash.GET("/profile", byUserType(h.CandidateProfile, h.CompanyProfile))
		dash.PUT("/profile", byUserType(h.UpdateProfile, h.SaveCompany))
		dash.PUT("/profile/about", candidate, h.UpdateAbout)

		sections := dash.Group("/profile", candidate)
		{
			sections.GET("/education", h.ListEducation)
			sections.POST("/education", h.CreateEducation)
			sections.PUT("/education/:id", h.UpdateEducation)
			sections.DELETE("/education/:id", h.DeleteEducation)

			sections.GET("/experience", h.ListExperience)
			sections.POST("/experience", h.CreateExperience)
			sections.PUT("/experience/:id", h.UpdateExperience)
			sections.DELETE("/experience/:id", h.DeleteExperience)

			sections.GET("/projects", h.ListProjects)
			sections.POST("/projects", h.CreateProjects)
			sections.PUT("/projects/:id", h.UpdateProject)
			sections.DELETE("/projects/:id", h.DeleteProject)

			sections.GET("/skills", h.ListSkills)
			sections.POST("/skills", h.AddSkills)
			sections.DELETE("/skills/:id", h.DeleteSkill)
		}

		dash.GET("/jobs", byUserType(h.MyApplications, h.MyJobPostings))
		dash.POST("/jobs", recruiter, h.CreateJob)
		dash.PUT("/jobs/:id", recruiter, h.UpdateJob)
		dash.DELETE("/jobs/:id", recruiter, h.DeleteJob)

		dash.GET("/application", byUserType(h.ResumePage, h.ReviewApplications))
		dash.POST("/application", candidate, h.UploadResume)
		dash.GET("/application/uploads/:id", candidate, h.UploadStatus)
		dash.PATCH("/application/:id", recruiter, h.UpdateApplicationStatus)
	}
}
