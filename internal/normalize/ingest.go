// Package normalize maps the ingest and analytics backend's loosely shaped
// JSON responses onto the canonical models. Every decoder is a pure function
// over a value produced by encoding/json (objects as map[string]any, arrays
// as []any, numbers as float64).
package normalize

import "github.com/kiranshivaraju/skillora/pkg/models"

// Upload extracts the stored file identifier from an upload response.
func Upload(raw any) (models.UploadResult, error) {
	id, ok := findID(raw, "file_id", "fileId", "id")
	if !ok {
		return models.UploadResult{}, &Error{Endpoint: "upload", Field: "file_id"}
	}
	return models.UploadResult{FileID: id}, nil
}

// Map extracts the task identifier from a column-mapping response.
func Map(raw any) (models.TaskHandle, error) {
	id, ok := findID(raw, "task_id", "id", "taskId")
	if !ok {
		return models.TaskHandle{}, &Error{Endpoint: "map", Field: "task_id"}
	}
	return models.TaskHandle{ID: id}, nil
}
