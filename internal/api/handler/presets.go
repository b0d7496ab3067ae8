package handler

import (
	"net/http"

	"github.com/kiranshivaraju/skillora/internal/api/response"
	"github.com/kiranshivaraju/skillora/internal/wizard"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

type presetsResponse struct {
	Default string                      `json:"default"`
	Presets map[string]models.ColumnMap `json:"presets"`
	Fields  []string                    `json:"fields"`
}

// NewPresetsHandler returns an http.HandlerFunc for GET /api/v1/presets.
func NewPresetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, presetsResponse{
			Default: wizard.DefaultPreset,
			Presets: wizard.Presets(),
			Fields:  models.ColumnFields,
		})
	}
}
