package models

// SalarySummary holds salary percentiles across all ingested postings.
type SalarySummary struct {
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	N   int64   `json:"n"`
}

// StackCompareRow is the median salary for one technology stack.
type StackCompareRow struct {
	Stack string  `json:"stack"`
	P50   float64 `json:"p50"`
	N     int64   `json:"n"`
}
