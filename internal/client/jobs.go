package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/justsurfingit/talentbridge/internal/models"
)

// JobFilter narrows a job listing. Zero fields are not sent.
type JobFilter struct {
	Location       string
	EmploymentType string
	RemoteOption   string
	Limit          int
	Ordering       string
}

func (f JobFilter) values() url.Values {
	v := url.Values{}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.EmploymentType != "" {
		v.Set("employment_type", f.EmploymentType)
	}
	if f.RemoteOption != "" {
		v.Set("remote_option", f.RemoteOption)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Ordering != "" {
		v.Set("ordering", f.Ordering)
	}
	return v
}

// ListJobs returns open jobs for candidates, or the recruiter's own postings.
func (c *Client) ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error) {
	r := &request{method: http.MethodGet, path: "recruiter/jobs/", query: f.values()}
	var jobs []models.Job
	if err := c.do(ctx, r, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) CreateJob(ctx context.Context, in models.JobInput) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, http.MethodPost, "recruiter/jobs/", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int, in models.JobInput) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("recruiter/jobs/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("recruiter/jobs/%d/", id), nil, nil)
}

func (c *Client) JobCount(ctx context.Context) (*models.JobCount, error) {
	var out models.JobCount
	if err := c.call(ctx, http.MethodGet, "recruiter/job_count/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecruiterInsights(ctx context.Context) (*models.RecruiterInsights, error) {
	var out models.RecruiterInsights
	if err := c.call(ctx, http.MethodGet, "recruiter/insights/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
