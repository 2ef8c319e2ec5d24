package client

import (
	"context"
	"net/http"

	"github.com/justsurfingit/talentbridge/internal/models"
)

func (c *Client) Resumes(ctx context.Context) ([]models.ResumeAnalysis, error) {
	var out []models.ResumeAnalysis
	if err := c.call(ctx, http.MethodGet, "resume/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadResume sends a PDF for analysis. The backend scores it synchronously,
// so the call runs under the longer upload timeout.
func (c *Client) UploadResume(ctx context.Context, fileName string, data []byte) (*models.ResumeAnalysis, error) {
	r, err := multipartRequest(http.MethodPost, "resume/", nil,
		&FilePart{FieldName: "file", FileName: fileName, Data: data})
	if err != nil {
		return nil, err
	}
	r.timeout = c.uploadTimeout

	var out models.ResumeAnalysis
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
