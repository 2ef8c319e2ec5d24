package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
)

const (
	appliedGoal   = 25
	interviewGoal = 7

	jobPostedGoal          = 10
	recruiterInterviewGoal = 20
	offeredGoal            = 5

	recentApplications = 5
	recentJobs         = 4
)

var milestoneMessages = map[string]string{
	"total_applied":      "Keep applying! Each job is a new opportunity.",
	"profile_views":      "More profile views mean more recruiters noticing you!",
	"interviewed":        "Ace your interviews to level up!",
	"success_rate":       "Higher success rate increases your career chances!",
	"profile_completion": "Complete your profile to attract top jobs!",
}

type Goal struct {
	Current  float64 `json:"current"`
	Goal     float64 `json:"goal"`
	Progress float64 `json:"progress"`
}

type Milestone struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Level       string  `json:"level"`
	TasksToNext float64 `json:"tasks_to_next"`
	Progress    int     `json:"progress"`
	Message     string  `json:"message,omitempty"`
}

type CandidateDashboard struct {
	Stats              *models.ApplyCount   `json:"stats"`
	Applied            Goal                 `json:"applied"`
	Interviewed        Goal                 `json:"interviewed"`
	Milestones         []Milestone          `json:"milestones"`
	RecentApplications []models.Application `json:"recent_applications"`
}

type RecruiterDashboard struct {
	Counts      *models.JobCount          `json:"counts"`
	JobsPosted  Goal                      `json:"jobs_posted"`
	Interviewed Goal                      `json:"interviewed"`
	Offered     Goal                      `json:"offered"`
	RecentJobs  []models.Job              `json:"recent_jobs"`
	Insights    *models.RecruiterInsights `json:"insights"`
}

type DashboardService struct {
	API *client.Client
}

func NewDashboardService(api *client.Client) *DashboardService {
	return &DashboardService{API: api}
}

func (s *DashboardService) Candidate(ctx context.Context) (*CandidateDashboard, error) {
	stats, err := s.API.ApplyCount(ctx)
	if err != nil {
		return nil, err
	}
	badges, err := s.API.Badges(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.API.ListApplications(ctx, 0)
	if err != nil {
		return nil, err
	}

	return &CandidateDashboard{
		Stats:              stats,
		Applied:            candidateGoal(float64(stats.TotalApplied), appliedGoal),
		Interviewed:        candidateGoal(float64(stats.Interviewed), interviewGoal),
		Milestones:         Milestones(badges),
		RecentApplications: latestApplications(apps, recentApplications),
	}, nil
}

func (s *DashboardService) Recruiter(ctx context.Context) (*RecruiterDashboard, error) {
	counts, err := s.API.JobCount(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.API.ListJobs(ctx, client.JobFilter{})
	if err != nil {
		return nil, err
	}
	insights, err := s.API.RecruiterInsights(ctx)
	if err != nil {
		return nil, err
	}

	return &RecruiterDashboard{
		Counts:      counts,
		JobsPosted:  recruiterGoal(float64(counts.JobsPosted), jobPostedGoal),
		Interviewed: recruiterGoal(float64(counts.Interviewed), recruiterInterviewGoal),
		Offered:     recruiterGoal(float64(counts.Offered), offeredGoal),
		RecentJobs:  latestJobs(jobs, recentJobs),
		Insights:    insights,
	}, nil
}

// candidateGoal is min(current/goal*100, 100).
func candidateGoal(current, goal float64) Goal {
	return Goal{Current: current, Goal: goal, Progress: math.Min(current/goal*100, 100)}
}

// recruiterGoal is candidateGoal rounded to one decimal.
func recruiterGoal(current, goal float64) Goal {
	g := candidateGoal(current, goal)
	g.Progress = math.Round(g.Progress*10) / 10
	return g
}

// MilestoneProgress is round(value / (value + tasks_to_next) * 100); a zero
// total counts as 1.
func MilestoneProgress(b models.Badge) int {
	total := b.Value + b.TasksToNext
	if total == 0 {
		total = 1
	}
	return int(math.Round(b.Value / total * 100))
}

// Milestones orders badges by name so pagination over them is stable.
func Milestones(badges map[string]models.Badge) []Milestone {
	names := make([]string, 0, len(badges))
	for name := range badges {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Milestone, 0, len(names))
	for _, name := range names {
		b := badges[name]
		out = append(out, Milestone{
			Name:        name,
			Value:       b.Value,
			Level:       b.Level,
			TasksToNext: b.TasksToNext,
			Progress:    MilestoneProgress(b),
			Message:     milestoneMessages[name],
		})
	}
	return out
}

func latestApplications(apps []models.Application, n int) []models.Application {
	out := append([]models.Application(nil), apps...)
	sort.SliceStable(out, func(i, j int) bool { return after(out[i].AppliedAt, out[j].AppliedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return nonNil(out)
}

func latestJobs(jobs []models.Job, n int) []models.Job {
	out := append([]models.Job(nil), jobs...)
	sort.SliceStable(out, func(i, j int) bool { return after(out[i].CreatedAt, out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return nonNil(out)
}

// after orders newest first, with missing timestamps last.
func after(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.After(*b)
}
