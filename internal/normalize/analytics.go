package normalize

import (
	"math"

	"github.com/kiranshivaraju/skillora/pkg/models"
)

// SalarySummary decodes the percentile summary, with or without a "data"
// envelope. Missing or unreadable numbers become 0.
func SalarySummary(raw any) (models.SalarySummary, error) {
	obj := asObject(raw)
	if data := asObject(obj["data"]); data != nil {
		obj = data
	}
	return models.SalarySummary{
		P50: coerce(firstValue(obj, "p50", "median")),
		P75: coerce(obj["p75"]),
		P90: coerce(obj["p90"]),
		N:   int64(math.Round(coerce(firstValue(obj, "n", "count")))),
	}, nil
}

// StackCompare decodes stack comparison rows from either a bare array or an
// object wrapping the array in "data". Anything else yields no rows.
func StackCompare(raw any) ([]models.StackCompareRow, error) {
	items, ok := raw.([]any)
	if !ok {
		items, _ = asObject(raw)["data"].([]any)
	}

	rows := make([]models.StackCompareRow, 0, len(items))
	for _, item := range items {
		obj := asObject(item)
		// Only an absent or null name falls back to "-"; "" is kept.
		stack := "-"
		if v := firstValue(obj, "stack", "tech"); v != nil {
			stack = text(v)
		}
		rows = append(rows, models.StackCompareRow{
			Stack: stack,
			P50:   coerce(firstValue(obj, "p50", "median")),
			N:     int64(math.Round(coerce(firstValue(obj, "n", "count")))),
		})
	}
	return rows, nil
}
