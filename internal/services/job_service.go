package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/dtos"
	"github.com/justsurfingit/talentbridge/internal/models"
)

type JobService struct {
	API      *client.Client
	Insights *InsightService
}

func NewJobService(api *client.Client, insights *InsightService) *JobService {
	return &JobService{
		API:      api,
		Insights: insights,
	}
}

// HomeFeed is the landing page after login.
type HomeFeed struct {
	LatestJobs []models.Job           `json:"latest_jobs"`
	Insights   *models.MarketInsights `json:"insights"`
}

func (s *JobService) Home(ctx context.Context) (*HomeFeed, error) {
	jobs, err := s.API.ListJobs(ctx, client.JobFilter{Limit: 4, Ordering: "-created_at"})
	if err != nil {
		return nil, err
	}
	return &HomeFeed{LatestJobs: nonNil(jobs), Insights: s.Insights.Get(ctx)}, nil
}

func (s *JobService) Browse(ctx context.Context, q dtos.JobQuery) ([]models.Job, error) {
	jobs, err := s.API.ListJobs(ctx, client.JobFilter{
		Location:       q.Location,
		EmploymentType: q.EmploymentType,
		RemoteOption:   q.RemoteOption,
		Limit:          q.Limit,
		Ordering:       q.Ordering,
	})
	if err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

func (s *JobService) Apply(ctx context.Context, jobID int) (*client.ApplyResult, error) {
	return s.API.Apply(ctx, jobID)
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobRequest) (json.RawMessage, error) {
	return s.API.CreateJob(ctx, req.ToInput())
}

func (s *JobService) UpdateJob(ctx context.Context, id int, req *dtos.JobRequest) (json.RawMessage, error) {
	return s.API.UpdateJob(ctx, id, req.ToInput())
}

func (s *JobService) DeleteJob(ctx context.Context, id int) error {
	return s.API.DeleteJob(ctx, id)
}

func (s *JobService) MyApplications(ctx context.Context) ([]models.Application, error) {
	apps, err := s.API.ListApplications(ctx, 0)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

// ApplicationReview is the recruiter's applications page: their postings and,
// when a job is selected, its applicants.
type ApplicationReview struct {
	Jobs         []models.Job         `json:"jobs"`
	SelectedJob  int                  `json:"selected_job,omitempty"`
	Applications []models.Application `json:"applications"`
}

func (s *JobService) ReviewApplications(ctx context.Context, jobID int) (*ApplicationReview, error) {
	jobs, err := s.API.ListJobs(ctx, client.JobFilter{})
	if err != nil {
		return nil, err
	}
	review := &ApplicationReview{Jobs: nonNil(jobs), Applications: []models.Application{}}
	if jobID == 0 {
		return review, nil
	}
	apps, err := s.API.ListApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	review.SelectedJob = jobID
	review.Applications = nonNil(apps)
	return review, nil
}

func (s *JobService) SetApplicationStatus(ctx context.Context, id int, status models.ApplicationStatus) error {
	return s.API.UpdateApplicationStatus(ctx, id, status)
}

// ParseID reads a positive path id.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
