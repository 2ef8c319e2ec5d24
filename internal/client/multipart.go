package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// FilePart is one file field of a multipart upload.
type FilePart struct {
	FieldName string
	FileName  string
	Data      []byte
}

func multipartRequest(method, path string, fields [][2]string, files ...*FilePart) (*request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		part, err := w.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.FieldName, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.FieldName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &request{
		method:      method,
		path:        path,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, nil
}
