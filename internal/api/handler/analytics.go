package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kiranshivaraju/skillora/internal/api/response"
	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// Analytics is the slice of dashboard.Service the analytics handlers need.
type Analytics interface {
	Summary(ctx context.Context) (models.SalarySummary, error)
	Stacks(ctx context.Context) ([]models.StackCompareRow, error)
}

// NewSummaryHandler returns an http.HandlerFunc for GET /api/v1/analytics/summary.
func NewSummaryHandler(svc Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, summary)
	}
}

// NewStacksHandler returns an http.HandlerFunc for GET /api/v1/analytics/stacks.
func NewStacksHandler(svc Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := queryInt(w, r, "page", 1)
		if !ok {
			return
		}
		limit, ok := queryInt(w, r, "limit", dashboard.DefaultLimit)
		if !ok {
			return
		}

		rows, err := svc.Stacks(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		p := dashboard.Paginate(rows, page, limit)
		response.Collection(w, p.Items, response.PaginationMeta{
			Page:    p.Page,
			Limit:   p.Limit,
			Total:   p.Total,
			HasNext: p.HasNext,
		})
	}
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be an integer", nil)
		return 0, false
	}
	return n, true
}
