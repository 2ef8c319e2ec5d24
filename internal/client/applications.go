package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/justsurfingit/talentbridge/internal/models"
)

// ApplyResult carries the backend's confirmation text when it sends one.
type ApplyResult struct {
	Message string `json:"message"`
}

// ListApplications returns the candidate's applications, or a recruiter's
// applicants. jobID > 0 restricts the list to one job.
func (c *Client) ListApplications(ctx context.Context, jobID int) ([]models.Application, error) {
	r := &request{method: http.MethodGet, path: "recruiter/applications/"}
	if jobID > 0 {
		r.query = url.Values{"job": {strconv.Itoa(jobID)}}
	}
	var apps []models.Application
	if err := c.do(ctx, r, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) Apply(ctx context.Context, jobID int) (*ApplyResult, error) {
	var out ApplyResult
	if err := c.call(ctx, http.MethodPost, "recruiter/applications/", map[string]int{"job": jobID}, &out); err != nil {
		return nil, err
	}
	if out.Message == "" {
		out.Message = "Applied successfully!"
	}
	return &out, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id int, status models.ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid application status %q", status)
	}
	body := map[string]models.ApplicationStatus{"status": status}
	return c.call(ctx, http.MethodPatch, fmt.Sprintf("recruiter/applications/%d/", id), body, nil)
}
