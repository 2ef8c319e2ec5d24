package dtos

import "github.com/justsurfingit/talentbridge/internal/models"

type AboutRequest struct {
	Description string `json:"description" binding:"required"`
}

type EducationRequest struct {
	SchoolName string `json:"school_name" binding:"required"`
	FieldName  string `json:"field_name" binding:"required"`
	StartYear  string `json:"start_year"`
	EndYear    string `json:"end_year"`
}

func (r EducationRequest) ToModel() models.Education {
	return models.Education{
		SchoolName: r.SchoolName,
		FieldName:  r.FieldName,
		StartYear:  models.FlexString(r.StartYear),
		EndYear:    models.FlexString(r.EndYear),
	}
}

type ExperienceRequest struct {
	CompanyName  string `json:"company_name" binding:"required"`
	PositionName string `json:"position_name" binding:"required"`
	StartYear    string `json:"start_year"`
	EndYear      string `json:"end_year"`
	Description  string `json:"description"`
}

func (r ExperienceRequest) ToModel() models.Experience {
	return models.Experience{
		CompanyName:  r.CompanyName,
		PositionName: r.PositionName,
		StartYear:    models.FlexString(r.StartYear),
		EndYear:      models.FlexString(r.EndYear),
		Description:  r.Description,
	}
}

type ProjectRequest struct {
	ProjectName string `json:"project_name" binding:"required"`
	Description string `json:"description"`
}

// ProjectsRequest adds several projects at once.
type ProjectsRequest struct {
	Projects []ProjectRequest `json:"projects" binding:"required,min=1,dive"`
}

func (r ProjectsRequest) ToModels() []models.Project {
	out := make([]models.Project, len(r.Projects))
	for i, p := range r.Projects {
		out[i] = models.Project{ProjectName: p.ProjectName, Description: p.Description}
	}
	return out
}

type SkillsRequest struct {
	Skills []string `json:"skills" binding:"required,min=1,dive,required"`
}
