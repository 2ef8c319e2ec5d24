package client

import (
	"context"
	"net/http"

	"github.com/justsurfingit/talentbridge/internal/models"
)

func (c *Client) ApplyCount(ctx context.Context) (*models.ApplyCount, error) {
	var out models.ApplyCount
	if err := c.call(ctx, http.MethodGet, "candidate/apply_count/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Badges maps milestone names (first_application, profile_complete, ...) to progress.
func (c *Client) Badges(ctx context.Context) (map[string]models.Badge, error) {
	out := map[string]models.Badge{}
	if err := c.call(ctx, http.MethodGet, "candidate/badges/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
