package jobsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kiranshivaraju/skillora/internal/normalize"
	"github.com/kiranshivaraju/skillora/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

func TestUpload(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/jobs/ingest/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "postings.csv", header.Filename)
		assert.Equal(t, "title,salary\nGo dev,9000\n", string(content))

		writeJSON(w, `{"data":{"file_id":"f-1"}}`)
	})

	got, err := newTestClient(t, ts.URL).Upload(context.Background(), "postings.csv",
		strings.NewReader("title,salary\nGo dev,9000\n"))
	require.NoError(t, err)
	assert.Equal(t, models.UploadResult{FileID: "f-1"}, got)
}

func TestUpload_MissingFileID(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"status":"stored"}`)
	})

	_, err := newTestClient(t, ts.URL).Upload(context.Background(), "a.csv", strings.NewReader("x"))
	var nerr *normalize.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "upload", nerr.Endpoint)
}

func TestUpload_Rejected(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Unsupported file type. Use CSV/XLSX/XLS."}`)
	})

	_, err := newTestClient(t, ts.URL).Upload(context.Background(), "a.txt", strings.NewReader("x"))
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestMapColumns(t *testing.T) {
	columns := models.ColumnMap{
		Title: "job_title", Salary: "compensation", Currency: "currency",
		Country: "country", Seniority: "seniority", Stack: "stack",
	}

	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/jobs/ingest/map", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "f-1", body["file_id"])
		assert.Equal(t, map[string]any{
			"title": "job_title", "salary": "compensation", "currency": "currency",
			"country": "country", "seniority": "seniority", "stack": "stack",
		}, body["column_map"])

		writeJSON(w, `{"task_id":"t-1","status":"queued"}`)
	})

	got, err := newTestClient(t, ts.URL).MapColumns(context.Background(), "f-1", columns)
	require.NoError(t, err)
	assert.Equal(t, models.TaskHandle{ID: "t-1"}, got)
}

func TestTaskStatus(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/ingest/tasks/t-9", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		writeJSON(w, `{"id":"t-9","state":"running","meta":{"percent":57.6}}`)
	})

	got, err := newTestClient(t, ts.URL).TaskStatus(context.Background(), "t-9")
	require.NoError(t, err)
	assert.Equal(t, "t-9", got.ID)
	assert.False(t, got.Ready)
	require.NotNil(t, got.Progress)
	assert.Equal(t, 58, *got.Progress.Percent)
}

func TestTaskStatus_EscapesID(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/ingest/tasks/a%20b", r.URL.EscapedPath())
		writeJSON(w, `{"id":"a b","state":"SUCCESS"}`)
	})

	got, err := newTestClient(t, ts.URL).TaskStatus(context.Background(), "a b")
	require.NoError(t, err)
	assert.True(t, got.Successful)
}

func TestTaskStatus_EmptyID(t *testing.T) {
	called := false
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, `{}`)
	})

	_, err := newTestClient(t, ts.URL).TaskStatus(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingTaskID)
	assert.False(t, called, "no request is sent")
}

func TestSalarySummary(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/analytics/salary/summary", r.URL.Path)
		writeJSON(w, `{"p50":5000,"p75":7000,"p90":9000,"n":42}`)
	})

	got, err := newTestClient(t, ts.URL).SalarySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SalarySummary{P50: 5000, P75: 7000, P90: 9000, N: 42}, got)
}

func TestStackCompare(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/analytics/stack/compare", r.URL.Path)
		writeJSON(w, `{"data":[{"tech":"go","median":9000,"count":12}]}`)
	})

	got, err := newTestClient(t, ts.URL).StackCompare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StackCompareRow{{Stack: "go", P50: 9000, N: 12}}, got)
}

func TestStackCompare_ErrorPropagates(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rows, err := newTestClient(t, ts.URL).StackCompare(context.Background())
	assert.Nil(t, rows)
	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusInternalServerError, herr.StatusCode)
}
