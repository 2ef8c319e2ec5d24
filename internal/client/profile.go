package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/justsurfingit/talentbridge/internal/models"
)

func (c *Client) ProfileInfo(ctx context.Context) (*models.ProfileInfo, error) {
	var out models.ProfileInfo
	if err := c.call(ctx, http.MethodGet, "profile-info/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.call(ctx, http.MethodGet, "currentuser/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ProfileUpdate struct {
	UserName string
	JobRole  string
	Picture  *FilePart
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.User, error) {
	if in.Picture != nil {
		in.Picture.FieldName = "user_picture"
	}
	r, err := multipartRequest(http.MethodPut, "update-profile/",
		[][2]string{{"user_name", in.UserName}, {"job_role", in.JobRole}}, in.Picture)
	if err != nil {
		return nil, err
	}
	var out models.User
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) About(ctx context.Context) (*models.About, error) {
	var out models.About
	if err := c.call(ctx, http.MethodGet, "about/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAbout(ctx context.Context, description string) error {
	return c.call(ctx, http.MethodPatch, "about/", models.About{Description: description}, nil)
}

// Profile sections live under add/<section>/ and add/<section>/<id>/.

func (c *Client) ListEducation(ctx context.Context) ([]models.Education, error) {
	var out []models.Education
	if err := c.call(ctx, http.MethodGet, "add/education/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEducation(ctx context.Context, in models.Education) (*models.Education, error) {
	var out models.Education
	if err := c.call(ctx, http.MethodPost, "add/education/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEducation(ctx context.Context, id int, in models.Education) (*models.Education, error) {
	var out models.Education
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("add/education/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEducation(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("add/education/%d/", id), nil, nil)
}

func (c *Client) ListExperience(ctx context.Context) ([]models.Experience, error) {
	var out []models.Experience
	if err := c.call(ctx, http.MethodGet, "add/experience/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExperience(ctx context.Context, in models.Experience) (*models.Experience, error) {
	var out models.Experience
	if err := c.call(ctx, http.MethodPost, "add/experience/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExperience(ctx context.Context, id int, in models.Experience) (*models.Experience, error) {
	var out models.Experience
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("add/experience/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExperience(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("add/experience/%d/", id), nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.call(ctx, http.MethodGet, "add/project/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProjects posts a batch; the backend answers with whatever it created.
func (c *Client) CreateProjects(ctx context.Context, in []models.Project) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, http.MethodPost, "add/project/", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int, in models.Project) (*models.Project, error) {
	var out models.Project
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("add/project/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("add/project/%d/", id), nil, nil)
}

func (c *Client) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var out []models.Skill
	if err := c.call(ctx, http.MethodGet, "add/skill/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSkills posts a plain list of skill names.
func (c *Client) AddSkills(ctx context.Context, names []string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, http.MethodPost, "add/skill/", names, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteSkill(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("add/skill/%d/", id), nil, nil)
}
