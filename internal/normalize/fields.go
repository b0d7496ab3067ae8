package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// asObject returns raw as a JSON object, or nil.
func asObject(raw any) map[string]any {
	obj, _ := raw.(map[string]any)
	return obj
}

// firstString returns the first non-empty string value among keys.
func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// findID searches keys at the top level, then under the "result" and "data"
// envelopes, in that order.
func findID(raw any, keys ...string) (string, bool) {
	obj := asObject(raw)
	if obj == nil {
		return "", false
	}
	if id, ok := firstString(obj, keys...); ok {
		return id, true
	}
	for _, envelope := range []string{"result", "data"} {
		if nested := asObject(obj[envelope]); nested != nil {
			if id, ok := firstString(nested, keys...); ok {
				return id, true
			}
		}
	}
	return "", false
}

// number reports v as a float64 when it is a JSON number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// coerce converts loosely typed JSON values to a number, yielding 0 for
// anything that cannot be read as one.
func coerce(v any) float64 {
	if f, ok := number(v); ok {
		return f
	}
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// firstValue returns the first present, non-null value among keys.
func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func optionalInt64(v any) *int64 {
	f, ok := number(v)
	if !ok {
		return nil
	}
	n := int64(math.Round(f))
	return &n
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
