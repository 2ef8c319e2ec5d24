package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// UserType is the tag that scopes every persisted session value.
type UserType string

const (
	Candidate UserType = "candidate"
	Recruiter UserType = "recruiter"
)

func (t UserType) Valid() bool {
	return t == Candidate || t == Recruiter
}

// FlexString accepts a JSON string, number or null. The backend serialises
// decimals and years inconsistently.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

type User struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Picture     string `json:"picture,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	JobRole     string `json:"job_role,omitempty"`
	UserPicture string `json:"user_picture,omitempty"`
	Image       string `json:"image,omitempty"`
}

// AuthResponse is returned by every login/signup endpoint.
type AuthResponse struct {
	Access   string          `json:"access"`
	Refresh  string          `json:"refresh"`
	User     json.RawMessage `json:"user"`
	UserType string          `json:"user_type,omitempty"`
}

type ProfileInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type Job struct {
	ID                  int        `json:"id,omitempty"`
	Title               string     `json:"title"`
	CompanyName         string     `json:"company_name,omitempty"`
	CompanyLogo         string     `json:"company_logo,omitempty"`
	Location            string     `json:"location"`
	EmploymentType      string     `json:"employment_type,omitempty"`
	SalaryMin           FlexString `json:"salary_min,omitempty"`
	SalaryMax           FlexString `json:"salary_max,omitempty"`
	ExperienceRequired  string     `json:"experience_required,omitempty"`
	EducationRequired   string     `json:"education_required,omitempty"`
	SkillsRequired      string     `json:"skills_required,omitempty"`
	JobType             string     `json:"job_type,omitempty"`
	RemoteOption        bool       `json:"remote_option"`
	ApplicationDeadline string     `json:"application_deadline,omitempty"`
	AboutJob            string     `json:"about_job"`
	KeyResponsibilities string     `json:"key_responsibilities"`
	Qualifications      string     `json:"qualifications"`
	IsActive            bool       `json:"is_active"`
	ApplicationsCount   int        `json:"applications_count,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
}

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusInterviewed ApplicationStatus = "interviewed"
	StatusOffered     ApplicationStatus = "offered"
	StatusHired       ApplicationStatus = "hired"
	StatusRejected    ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusInterviewed, StatusOffered, StatusHired, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID             int               `json:"id"`
	Job            json.RawMessage   `json:"job,omitempty"`
	JobTitle       string            `json:"job_title,omitempty"`
	CompanyName    string            `json:"company_name,omitempty"`
	CompanyLogo    string            `json:"company_logo,omitempty"`
	Location       string            `json:"location,omitempty"`
	EmploymentType string            `json:"employment_type,omitempty"`
	CandidateName  string            `json:"candidate_name,omitempty"`
	Resume         string            `json:"resume,omitempty"`
	Status         ApplicationStatus `json:"status"`
	AppliedAt      *time.Time        `json:"applied_at,omitempty"`
	JobDetails     *Job              `json:"job_details,omitempty"`
}

type CompanyProfile struct {
	ID                int        `json:"id,omitempty"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Location          string     `json:"location,omitempty"`
	FoundedYear       FlexString `json:"founded_year,omitempty"`
	NumberOfEmployees FlexString `json:"number_of_employees,omitempty"`
	About             string     `json:"about,omitempty"`
	Logo              string     `json:"logo,omitempty"`
}

type Education struct {
	ID         int        `json:"id,omitempty"`
	SchoolName string     `json:"school_name"`
	FieldName  string     `json:"field_name"`
	StartYear  FlexString `json:"start_year"`
	EndYear    FlexString `json:"end_year"`
}

type Experience struct {
	ID           int        `json:"id,omitempty"`
	CompanyName  string     `json:"company_name"`
	PositionName string     `json:"position_name"`
	StartYear    FlexString `json:"start_year"`
	EndYear      FlexString `json:"end_year"`
	Description  string     `json:"description"`
}

type Project struct {
	ID          int    `json:"id,omitempty"`
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
}

type Skill struct {
	ID        int    `json:"id,omitempty"`
	SkillName string `json:"skill_name"`
}

type About struct {
	Description string `json:"description"`
}

type ResumeAnalysis struct {
	ID            int        `json:"id"`
	Role          string     `json:"role"`
	ATSScore      FlexString `json:"ats_score"`
	HireChance    FlexString `json:"hire_chance"`
	Demand        string     `json:"demand"`
	Strengths     string     `json:"strengths"`
	Weaknesses    string     `json:"weaknesses"`
	TipsToImprove string     `json:"tips_to_improve"`
	Processed     bool       `json:"processed"`
}

type ApplyCount struct {
	TotalApplied      int     `json:"total_applied"`
	Interviewed       int     `json:"interviewed"`
	ProfileViews      int     `json:"profile_views"`
	ProfileCompletion float64 `json:"profile_completion"`
}

type Badge struct {
	Value       float64 `json:"value"`
	Level       string  `json:"level"`
	TasksToNext float64 `json:"tasks_to_next"`
}

type JobCount struct {
	JobsPosted      int `json:"jobs_posted"`
	TotalApplicants int `json:"total_applicants"`
	Interviewed     int `json:"interviewed"`
	Offered         int `json:"offered"`
}

type RecruiterInsights struct {
	AvgApplicationsPerJob float64 `json:"avg_applications_per_job"`
	ResponseRate          float64 `json:"response_rate"`
	JobViews              int     `json:"job_views"`
}

// MarketInsights are decorative numbers produced by a generative model.
type MarketInsights struct {
	ActiveJobs            float64       `json:"active_jobs"`
	ApplicationsToday     float64       `json:"applications_today"`
	CompaniesHiring       float64       `json:"companies_hiring"`
	AverageSalary         float64       `json:"average_salary"`
	SalaryGrowthPercent   float64       `json:"salary_growth_percent"`
	TrendingChangePercent float64       `json:"trending_change_percent"`
	SkillsInDemand        []SkillDemand `json:"skills_in_demand"`
	GeneratedAt           time.Time     `json:"generated_at"`
}

type SkillDemand struct {
	Skill  string `json:"skill"`
	Growth string `json:"growth"`
	Demand string `json:"demand"`
}

// SessionEntry backs the SQL session store.
type SessionEntry struct {
	Key       string `gorm:"column:session_key;primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// JobInput is the body of a job create or update.
type JobInput struct {
	Title               string `json:"title"`
	Location            string `json:"location"`
	EmploymentType      string `json:"employment_type,omitempty"`
	SalaryMin           string `json:"salary_min,omitempty"`
	SalaryMax           string `json:"salary_max,omitempty"`
	ExperienceRequired  string `json:"experience_required,omitempty"`
	EducationRequired   string `json:"education_required,omitempty"`
	SkillsRequired      string `json:"skills_required,omitempty"`
	JobType             string `json:"job_type,omitempty"`
	RemoteOption        bool   `json:"remote_option"`
	ApplicationDeadline string `json:"application_deadline,omitempty"`
	AboutJob            string `json:"about_job"`
	KeyResponsibilities string `json:"key_responsibilities"`
	Qualifications      string `json:"qualifications"`
}
