package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStepUploaded = "uploaded"
	SessionStepMapped   = "mapped"
	SessionStepFinished = "finished"
)

// Session tracks one pass through the upload wizard: a file is uploaded,
// its columns are mapped, and the resulting task is watched until it settles.
type Session struct {
	ID         uuid.UUID   `db:"id"          json:"id"`
	FileName   string      `db:"file_name"   json:"file_name"`
	FileID     string      `db:"file_id"     json:"file_id"`
	Step       string      `db:"step"        json:"step"`
	ColumnMap  *ColumnMap  `db:"column_map"  json:"column_map,omitempty"`
	TaskID     *string     `db:"task_id"     json:"task_id,omitempty"`
	LastStatus *TaskStatus `db:"last_status" json:"last_status,omitempty"`
	CreatedAt  time.Time   `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"  json:"updated_at"`
}
