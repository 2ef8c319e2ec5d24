package dtos

import (
	"strings"

	"github.com/justsurfingit/talentbridge/internal/models"
)

// JobRequest is the job posting form. Skills may arrive as a list or as the
// backend's comma separated string.
type JobRequest struct {
	Title               string   `json:"title" binding:"required"`
	Location            string   `json:"location" binding:"required"`
	EmploymentType      string   `json:"employment_type"`
	SalaryMin           string   `json:"salary_min"`
	SalaryMax           string   `json:"salary_max"`
	ExperienceRequired  string   `json:"experience_required"`
	EducationRequired   string   `json:"education_required"`
	Skills              []string `json:"skills"`
	SkillsRequired      string   `json:"skills_required"`
	JobType             string   `json:"job_type"`
	RemoteOption        bool     `json:"remote_option"`
	ApplicationDeadline string   `json:"application_deadline"`
	AboutJob            string   `json:"about_job" binding:"required"`
	KeyResponsibilities string   `json:"key_responsibilities"`
	Qualifications      string   `json:"qualifications"`
}

func (r *JobRequest) ToInput() models.JobInput {
	skills := r.SkillsRequired
	if len(r.Skills) > 0 {
		trimmed := make([]string, 0, len(r.Skills))
		for _, s := range r.Skills {
			if s = strings.TrimSpace(s); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		skills = strings.Join(trimmed, ",")
	}
	return models.JobInput{
		Title:               r.Title,
		Location:            r.Location,
		EmploymentType:      r.EmploymentType,
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		ExperienceRequired:  r.ExperienceRequired,
		EducationRequired:   r.EducationRequired,
		SkillsRequired:      skills,
		JobType:             r.JobType,
		RemoteOption:        r.RemoteOption,
		ApplicationDeadline: r.ApplicationDeadline,
		AboutJob:            r.AboutJob,
		KeyResponsibilities: r.KeyResponsibilities,
		Qualifications:      r.Qualifications,
	}
}

// JobQuery are the browse filters accepted on GET /jobs.
type JobQuery struct {
	Location       string `form:"location"`
	EmploymentType string `form:"employment_type"`
	RemoteOption   string `form:"remote_option" binding:"omitempty,oneof=true false"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Ordering       string `form:"ordering"`
}

type StatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=applied shortlisted interviewed offered hired rejected"`
}
