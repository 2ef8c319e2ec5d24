package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/justsurfingit/talentbridge/internal/models"
)

// Company returns the recruiter's company profile, or nil when none exists yet.
// The backend answers with an object, or 404 / an empty body before creation.
func (c *Client) Company(ctx context.Context) (*models.CompanyProfile, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, "recruiter/company/", nil, &raw); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []models.CompanyProfile
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode company: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	}
	var out models.CompanyProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode company: %w", err)
	}
	if out.ID == 0 && out.Name == "" {
		return nil, nil
	}
	return &out, nil
}

// SaveCompany creates the profile when in.ID is zero and replaces it otherwise.
// logo is optional.
func (c *Client) SaveCompany(ctx context.Context, in models.CompanyProfile, logo *FilePart) (*models.CompanyProfile, error) {
	method, path := http.MethodPost, "recruiter/company/"
	if in.ID != 0 {
		method, path = http.MethodPut, fmt.Sprintf("recruiter/company/%d/", in.ID)
	}
	if logo != nil {
		logo.FieldName = "logo"
	}

	r, err := multipartRequest(method, path, [][2]string{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"location", in.Location},
		{"founded_year", string(in.FoundedYear)},
		{"number_of_employees", string(in.NumberOfEmployees)},
		{"about", in.About},
	}, logo)
	if err != nil {
		return nil, err
	}

	var out models.CompanyProfile
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
