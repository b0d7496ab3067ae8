// Package models contains shared data models used across the skillora codebase.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteColumnMap is wrapped by ColumnMap.Validate.
var ErrIncompleteColumnMap = errors.New("column map")

// UploadResult identifies a file stored by the ingest backend.
type UploadResult struct {
	FileID string `json:"file_id"`
}

// TaskHandle identifies an asynchronous ingest job on the backend.
type TaskHandle struct {
	ID string `json:"task_id"`
}

// ColumnMap maps the fixed semantic fields to source column names in the
// uploaded file.
type ColumnMap struct {
	Title     string `json:"title"`
	Salary    string `json:"salary"`
	Currency  string `json:"currency"`
	Country   string `json:"country"`
	Seniority string `json:"seniority"`
	Stack     string `json:"stack"`
}

// ColumnFields lists the semantic field names in display order.
var ColumnFields = []string{"title", "salary", "currency", "country", "seniority", "stack"}

// Get returns the source column mapped to field, or "" for unknown fields.
func (m ColumnMap) Get(field string) string {
	switch field {
	case "title":
		return m.Title
	case "salary":
		return m.Salary
	case "currency":
		return m.Currency
	case "country":
		return m.Country
	case "seniority":
		return m.Seniority
	case "stack":
		return m.Stack
	}
	return ""
}

// Set assigns a source column to field. Unknown fields are rejected.
func (m *ColumnMap) Set(field, column string) error {
	switch field {
	case "title":
		m.Title = column
	case "salary":
		m.Salary = column
	case "currency":
		m.Currency = column
	case "country":
		m.Country = column
	case "seniority":
		m.Seniority = column
	case "stack":
		m.Stack = column
	default:
		return fmt.Errorf("unknown column field %q", field)
	}
	return nil
}

// Validate reports the first field that has no source column.
func (m ColumnMap) Validate() error {
	for _, f := range ColumnFields {
		if strings.TrimSpace(m.Get(f)) == "" {
			return fmt.Errorf("%w: %s is required", ErrIncompleteColumnMap, f)
		}
	}
	return nil
}
