package records

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api"
	"github.com/FACorreiaa/go-admin-dashboard/internal/form"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
	"github.com/FACorreiaa/go-admin-dashboard/internal/view"
)

const defaultSampleCount = 20

// recordSchema drives the records table: searchable fields, the two
// dropdown filters, and the sortable columns.
var recordSchema = view.Schema[types.Record]{
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

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service RecordService
	cfg     config.DashboardConfig
	logger  *slog.Logger
}

// NewHandlerImpl creates a new records HandlerImpl instance.
func NewHandlerImpl(service RecordService, cfg config.DashboardConfig, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, cfg: cfg, logger: logger}
}

// List godoc
// @Summary      List Records
// @Description  Returns one filtered, sorted page of the records table.
// @Tags         Records
// @Produce      json
// @Security     BearerAuth
// @Router       /records [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "List"))

	recs, err := h.service.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load records", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load records")
		return
	}

	q := api.ParseListQuery(r, "id")
	page, q := view.ApplyClamped(recs, q, recordSchema)

	api.WriteJSONResponse(w, r, http.StatusOK, ListRecordsResponse{
		Rows:        page.Rows,
		Total:       page.Total,
		Page:        q.Page,
		RowsPerPage: q.RowsPerPage,
	})
}

// Create godoc
// @Summary      Create Record
// @Description  Validates the add-record form and appends the record.
// @Tags         Records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /records [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Create"))

	var req CreateRecordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	f := form.NewRecordForm()
	_ = f.SetField("name", req.Name)
	_ = f.SetField("category", req.Category)
	_ = f.SetField("status", req.Status)
	_ = f.SetField("value", req.Value)
	_ = f.SetField("description", req.Description)

	var created *types.Record
	err := f.Submit(ctx, func(ctx context.Context, fields map[string]string, editing bool) error {
		var saveErr error
		created, saveErr = h.service.Create(ctx, types.RecordDraft{
			Name:        fields["name"],
			Category:    fields["category"],
			Status:      fields["status"],
			Value:       fields["value"],
			Description: fields["description"],
		})
		return saveErr
	})
	if err != nil {
		h.writeSubmitError(w, r, l, err, "Failed to create record")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// Update godoc
// @Summary      Update Record
// @Description  Validates the edit-record form and merges the changes.
// @Tags         Records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /records/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Update"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid record ID")
		return
	}

	var req UpdateRecordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	existing, err := h.findRecord(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Record not found")
			return
		}
		l.ErrorContext(ctx, "Failed to load records", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load records")
		return
	}

	// The edit form starts from the stored values; only the fields sent
	// in the request overwrite them.
	f := form.NewRecordForm()
	_ = f.Load(map[string]string{
		"name":        existing.Name,
		"category":    existing.Category,
		"status":      existing.Status,
		"value":       existing.Value,
		"description": existing.Description,
	})
	setIfPresent(f, "name", req.Name)
	setIfPresent(f, "category", req.Category)
	setIfPresent(f, "status", req.Status)
	setIfPresent(f, "value", req.Value)
	setIfPresent(f, "description", req.Description)

	var updated *types.Record
	err = f.Submit(ctx, func(ctx context.Context, fields map[string]string, editing bool) error {
		var saveErr error
		updated, saveErr = h.service.Update(ctx, id, types.RecordPatch{
			Name:        ptr(fields["name"]),
			Category:    ptr(fields["category"]),
			Status:      ptr(fields["status"]),
			Value:       ptr(fields["value"]),
			Description: ptr(fields["description"]),
		})
		return saveErr
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Record not found")
			return
		}
		h.writeSubmitError(w, r, l, err, "Failed to update record")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// Delete godoc
// @Summary      Delete Record
// @Description  Removes a record. Deleting an absent ID succeeds.
// @Tags         Records
// @Produce      json
// @Security     BearerAuth
// @Router       /records/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Delete"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid record ID")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete record", slog.Int64("id", id), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete record")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Record deleted",
	})
}

// Generate godoc
// @Summary      Generate Sample Records
// @Description  Prepends synthetic records for demos and testing.
// @Tags         Records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /records/generate [post]
func (h *HandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Generate"))

	req := GenerateRecordsRequest{Count: defaultSampleCount}
	if r.Body != nil && r.ContentLength > 0 {
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	if req.Count <= 0 || req.Count > 1000 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Count must be between 1 and 1000")
		return
	}

	samples, err := h.service.GenerateSample(ctx, req.Count)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate sample records", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate sample records")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, samples)
}

// Refresh godoc
// @Summary      Refresh Records
// @Description  Reloads the collection from storage.
// @Tags         Records
// @Produce      json
// @Security     BearerAuth
// @Router       /records/refresh [post]
func (h *HandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Refresh"))

	recs, err := h.service.Refresh(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to refresh records", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refresh records")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, RefreshRecordsResponse{
		Rows:       recs,
		Total:      len(recs),
		ResetQuery: h.cfg.ResetQueryOnRefresh,
	})
}

func (h *HandlerImpl) findRecord(ctx context.Context, id int64) (*types.Record, error) {
	recs, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, types.ErrNotFound
}

func (h *HandlerImpl) writeSubmitError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error, msg string) {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		api.ValidationErrorResponse(w, r, verr.Fields)
		return
	}
	l.ErrorContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, msg)
}

func setIfPresent(f *form.Form, path string, value *string) {
	if value != nil {
		_ = f.SetField(path, *value)
	}
}

func ptr(s string) *string { return &s }
