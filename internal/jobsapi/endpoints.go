package jobsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/kiranshivaraju/skillora/internal/normalize"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

const (
	ingestPrefix    = "api/jobs/ingest"
	analyticsPrefix = "api/jobs/analytics"
)

// Client is the typed interface to the backend. Every method returns the
// canonical model or the client/normalizer error unchanged.
type Client interface {
	Upload(ctx context.Context, filename string, r io.Reader) (models.UploadResult, error)
	MapColumns(ctx context.Context, fileID string, columns models.ColumnMap) (models.TaskHandle, error)
	TaskStatus(ctx context.Context, taskID string) (models.TaskStatus, error)
	SalarySummary(ctx context.Context) (models.SalarySummary, error)
	StackCompare(ctx context.Context) ([]models.StackCompareRow, error)
	Ready(ctx context.Context) error
}

// Upload sends the file as the multipart field "file".
func (c *HTTPClient) Upload(ctx context.Context, filename string, r io.Reader) (models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.UploadResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return models.UploadResult{}, fmt.Errorf("building upload form: %w", err)
	}

	resp, err := c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    []string{ingestPrefix, "upload"},
		Body:    &buf,
		Headers: map[string]string{"Content-Type": mw.FormDataContentType()},
	})
	if err != nil {
		return models.UploadResult{}, err
	}
	return normalize.Upload(resp.JSON)
}

// MapColumns submits the column mapping for an uploaded file and returns the
// handle of the processing task.
func (c *HTTPClient) MapColumns(ctx context.Context, fileID string, columns models.ColumnMap) (models.TaskHandle, error) {
	body, err := json.Marshal(struct {
		FileID    string           `json:"file_id"`
		ColumnMap models.ColumnMap `json:"column_map"`
	}{FileID: fileID, ColumnMap: columns})
	if err != nil {
		return models.TaskHandle{}, fmt.Errorf("encoding column map: %w", err)
	}

	resp, err := c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    []string{ingestPrefix, "map"},
		Body:    bytes.NewReader(body),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return models.TaskHandle{}, err
	}
	return normalize.Map(resp.JSON)
}

func (c *HTTPClient) TaskStatus(ctx context.Context, taskID string) (models.TaskStatus, error) {
	if strings.TrimSpace(taskID) == "" {
		return models.TaskStatus{}, ErrMissingTaskID
	}
	resp, err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    []string{ingestPrefix, "tasks", url.PathEscape(taskID)},
		Headers: map[string]string{"Cache-Control": "no-cache"},
	})
	if err != nil {
		return models.TaskStatus{}, err
	}
	return normalize.TaskStatus(resp.JSON)
}

func (c *HTTPClient) SalarySummary(ctx context.Context) (models.SalarySummary, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   []string{analyticsPrefix, "salary/summary"},
	})
	if err != nil {
		return models.SalarySummary{}, err
	}
	return normalize.SalarySummary(resp.JSON)
}

func (c *HTTPClient) StackCompare(ctx context.Context) ([]models.StackCompareRow, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   []string{analyticsPrefix, "stack/compare"},
	})
	if err != nil {
		return nil, err
	}
	return normalize.StackCompare(resp.JSON)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
