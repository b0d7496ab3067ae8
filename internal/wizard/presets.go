package wizard

import (
	"sort"

	"github.com/kiranshivaraju/skillora/pkg/models"
)

// DefaultPreset is the column map offered when the caller supplies none.
const DefaultPreset = "scraped"

var presets = map[string]models.ColumnMap{
	"generic": {
		Title:     "title",
		Salary:    "salary",
		Currency:  "currency",
		Country:   "country",
		Seniority: "seniority",
		Stack:     "stack",
	},
	"scraped": {
		Title:     "job_title",
		Salary:    "compensation",
		Currency:  "currency",
		Country:   "country",
		Seniority: "seniority",
		Stack:     "stack",
	},
}

// Preset returns a named column map.
func Preset(name string) (models.ColumnMap, bool) {
	cm, ok := presets[name]
	return cm, ok
}

// Presets returns every named column map.
func Presets() map[string]models.ColumnMap {
	out := make(map[string]models.ColumnMap, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
