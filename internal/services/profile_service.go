package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
)

// CandidateProfile is the profile builder: every section in one document.
type CandidateProfile struct {
	User       *models.User        `json:"user"`
	About      *models.About       `json:"about"`
	Education  []models.Education  `json:"education"`
	Experience []models.Experience `json:"experience"`
	Projects   []models.Project    `json:"projects"`
	Skills     []models.Skill      `json:"skills"`
}

type CompanyPage struct {
	Company *models.CompanyProfile `json:"company"`
	Counts  *models.JobCount       `json:"counts"`
}

type ProfileService struct {
	API *client.Client
}

func NewProfileService(api *client.Client) *ProfileService {
	return &ProfileService{API: api}
}

// Candidate loads the sections concurrently. The first failure cancels the rest.
func (s *ProfileService) Candidate(ctx context.Context) (*CandidateProfile, error) {
	p := &CandidateProfile{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { p.User, err = s.API.CurrentUser(gctx); return })
	g.Go(func() (err error) { p.About, err = s.API.About(gctx); return })
	g.Go(func() (err error) { p.Education, err = s.API.ListEducation(gctx); return })
	g.Go(func() (err error) { p.Experience, err = s.API.ListExperience(gctx); return })
	g.Go(func() (err error) { p.Projects, err = s.API.ListProjects(gctx); return })
	g.Go(func() (err error) { p.Skills, err = s.API.ListSkills(gctx); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.Education = nonNil(p.Education)
	p.Experience = nonNil(p.Experience)
	p.Projects = nonNil(p.Projects)
	p.Skills = nonNil(p.Skills)
	return p, nil
}

func (s *ProfileService) Company(ctx context.Context) (*CompanyPage, error) {
	company, err := s.API.Company(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.API.JobCount(ctx)
	if err != nil {
		return nil, err
	}
	return &CompanyPage{Company: company, Counts: counts}, nil
}

// SaveCompany creates the company on first save and updates it afterwards.
func (s *ProfileService) SaveCompany(ctx context.Context, in models.CompanyProfile, logo *client.FilePart) (*models.CompanyProfile, error) {
	if in.ID == 0 {
		existing, err := s.API.Company(ctx)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			in.ID = existing.ID
		}
	}
	return s.API.SaveCompany(ctx, in, logo)
}
