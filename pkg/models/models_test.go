package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMap_SetGet(t *testing.T) {
	var m ColumnMap
	for _, f := range ColumnFields {
		require.NoError(t, m.Set(f, "col_"+f))
	}
	for _, f := range ColumnFields {
		assert.Equal(t, "col_"+f, m.Get(f))
	}

	assert.Error(t, m.Set("bonus", "x"))
	assert.Empty(t, m.Get("bonus"))
}

func TestColumnMap_Validate(t *testing.T) {
	m := ColumnMap{
		Title: "job_title", Salary: "compensation", Currency: "currency",
		Country: "country", Seniority: "seniority", Stack: "stack",
	}
	require.NoError(t, m.Validate())

	m.Country = "  "
	err := m.Validate()
	require.ErrorIs(t, err, ErrIncompleteColumnMap)
	assert.Contains(t, err.Error(), "country")
}

func TestTaskPhase_Terminal(t *testing.T) {
	assert.False(t, TaskPhaseQueued.Terminal())
	assert.False(t, TaskPhaseRunning.Terminal())
	assert.True(t, TaskPhaseSucceeded.Terminal())
	assert.True(t, TaskPhaseFailed.Terminal())
}

func TestTaskStatus_Label(t *testing.T) {
	tests := map[string]string{
		"PENDING":  "Queued",
		"STARTED":  "Processing",
		"PROGRESS": "Processing",
		"SUCCESS":  "Finished",
		"FAILURE":  "Failed",
		"":         "Waiting...",
		"RETRY":    "RETRY",
	}
	for state, want := range tests {
		assert.Equal(t, want, TaskStatus{State: state}.Label(), state)
	}
}
