package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-admin-dashboard/internal/api"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
	"github.com/FACorreiaa/go-admin-dashboard/internal/view"
)

// reportSchema mirrors the records table columns; the reporting screen
// reuses the same filters and sort keys.
var reportSchema = view.Schema[types.Record]{
	Search: []func(types.Record) string{
		func(r types.Record) string { return r.Name },
		func(r types.Record) string { return r.Category },
		func(r types.Record) string { return r.Status },
		func(r types.Record) string { return r.Description },
	},
	Status:   func(r types.Record) string { return r.Status },
	Category: func(r types.Record) string { return r.Category },
	Sort: map[string]view.SortField[types.Record]{
		"id":        {Kind: view.SortNumeric, Number: func(r types.Record) float64 { return float64(r.ID) }},
		"name":      {Kind: view.SortString, String: func(r types.Record) string { return r.Name }},
		"category":  {Kind: view.SortString, String: func(r types.Record) string { return r.Category }},
		"status":    {Kind: view.SortString, String: func(r types.Record) string { return r.Status }},
		"value":     {Kind: view.SortNumeric, Number: func(r types.Record) float64 { return view.ParseNumber(r.Value) }},
		"createdAt": {Kind: view.SortDate, Time: func(r types.Record) time.Time { return r.CreatedAt }},
	},
}

// ListReportResponse is one page of the reporting table.
type ListReportResponse struct {
	Rows        []types.Record `json:"rows"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	RowsPerPage int            `json:"rowsPerPage"`
}

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service ReportService
	logger  *slog.Logger
}

// NewHandlerImpl creates a new reports HandlerImpl instance.
func NewHandlerImpl(service ReportService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// List godoc
// @Summary      List Report Rows
// @Description  Returns one filtered, sorted page of the reporting table.
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Router       /reports [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "List"))

	rows, err := h.service.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load report", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load report")
		return
	}

	q := api.ParseListQuery(r, "id")
	page, q := view.ApplyClamped(rows, q, reportSchema)

	api.WriteJSONResponse(w, r, http.StatusOK, ListReportResponse{
		Rows:        page.Rows,
		Total:       page.Total,
		Page:        q.Page,
		RowsPerPage: q.RowsPerPage,
	})
}

// Refresh godoc
// @Summary      Refresh Report
// @Description  Regenerates the reporting data set.
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Router       /reports/refresh [post]
func (h *HandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Refresh"))

	rows, err := h.service.Refresh(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to regenerate report", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to regenerate report")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ListReportResponse{
		Rows:  rows,
		Total: len(rows),
	})
}
