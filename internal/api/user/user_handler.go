package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api"
	"github.com/FACorreiaa/go-admin-dashboard/internal/form"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
	"github.com/FACorreiaa/go-admin-dashboard/internal/view"
)

// userSchema drives the users table. Users carry no status or category,
// so only search and sort apply.
var userSchema = view.Schema[types.User]{
	Search: []func(types.User) string{
		func(u types.User) string { return u.Name },
		func(u types.User) string { return u.Email },
		func(u types.User) string { return u.Username },
		func(u types.User) string { return u.Company.Name },
	},
	Sort: map[string]view.SortField[types.User]{
		"id":       {Kind: view.SortNumeric, Number: func(u types.User) float64 { return float64(u.ID) }},
		"name":     {Kind: view.SortString, String: func(u types.User) string { return u.Name }},
		"username": {Kind: view.SortString, String: func(u types.User) string { return u.Username }},
		"email":    {Kind: view.SortString, String: func(u types.User) string { return u.Email }},
		"company":  {Kind: view.SortString, String: func(u types.User) string { return u.Company.Name }},
	},
}

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service UserService
	cfg     config.DashboardConfig
	logger  *slog.Logger
}

// NewHandlerImpl creates a new users HandlerImpl instance.
func NewHandlerImpl(service UserService, cfg config.DashboardConfig, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, cfg: cfg, logger: logger}
}

// List godoc
// @Summary      List Users
// @Description  Returns one filtered, sorted page of the users table.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "List"))

	users, err := h.service.List(ctx)
	if err != nil {
		if errors.Is(err, types.ErrFetch) {
			l.ErrorContext(ctx, "Feed unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "User feed is unavailable")
			return
		}
		l.ErrorContext(ctx, "Failed to load users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load users")
		return
	}

	q := api.ParseListQuery(r, "id")
	page, q := view.ApplyClamped(users, q, userSchema)

	api.WriteJSONResponse(w, r, http.StatusOK, ListUsersResponse{
		Rows:        page.Rows,
		Total:       page.Total,
		Page:        q.Page,
		RowsPerPage: q.RowsPerPage,
		Loading:     h.service.Loading(),
	})
}

// Create godoc
// @Summary      Create User
// @Description  Validates the add-user form and appends the user.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /users [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Create"))

	var req CreateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	f := form.NewUserForm()
	for path, value := range draftFields(types.UserDraft{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Website:  req.Website,
		Company:  req.Company,
		Address:  req.Address,
	}) {
		_ = f.SetField(path, value)
	}

	var created *types.User
	err := f.Submit(ctx, func(ctx context.Context, fields map[string]string, editing bool) error {
		var saveErr error
		created, saveErr = h.service.Create(ctx, draftFromFields(fields))
		return saveErr
	})
	if err != nil {
		h.writeSubmitError(w, r, l, err, "Failed to create user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// Update godoc
// @Summary      Update User
// @Description  Validates the edit-user form and merges the changes.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Update"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	existing, err := h.findUser(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to load users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load users")
		return
	}

	// The edit form starts from the stored values; only the fields sent
	// in the request overwrite them.
	f := form.NewUserForm()
	_ = f.Load(draftFields(types.UserDraft{
		Name:     existing.Name,
		Username: existing.Username,
		Email:    existing.Email,
		Phone:    existing.Phone,
		Website:  existing.Website,
		Company:  existing.Company,
		Address:  existing.Address,
	}))
	setIfPresent(f, "name", req.Name)
	setIfPresent(f, "username", req.Username)
	setIfPresent(f, "email", req.Email)
	setIfPresent(f, "phone", req.Phone)
	setIfPresent(f, "website", req.Website)
	if req.Company != nil {
		_ = f.SetField("company.name", req.Company.Name)
		_ = f.SetField("company.catchPhrase", req.Company.CatchPhrase)
		_ = f.SetField("company.bs", req.Company.Bs)
	}
	if req.Address != nil {
		_ = f.SetField("address.street", req.Address.Street)
		_ = f.SetField("address.suite", req.Address.Suite)
		_ = f.SetField("address.city", req.Address.City)
		_ = f.SetField("address.zipcode", req.Address.Zipcode)
		_ = f.SetField("address.geo.lat", req.Address.Geo.Lat)
		_ = f.SetField("address.geo.lng", req.Address.Geo.Lng)
	}

	var updated *types.User
	err = f.Submit(ctx, func(ctx context.Context, fields map[string]string, editing bool) error {
		draft := draftFromFields(fields)
		var saveErr error
		updated, saveErr = h.service.Update(ctx, id, types.UserPatch{
			Name:     &draft.Name,
			Username: &draft.Username,
			Email:    &draft.Email,
			Phone:    &draft.Phone,
			Website:  &draft.Website,
			Company:  &draft.Company,
			Address:  &draft.Address,
		})
		return saveErr
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.writeSubmitError(w, r, l, err, "Failed to update user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// Delete godoc
// @Summary      Delete User
// @Description  Removes a user. Deleting an absent ID succeeds.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Delete"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete user", slog.Int64("id", id), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User deleted",
	})
}

// Refresh godoc
// @Summary      Refresh Users
// @Description  Re-seeds the collection from the external feed.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users/refresh [post]
func (h *HandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Refresh"))

	users, err := h.service.Refresh(ctx)
	if err != nil {
		if errors.Is(err, types.ErrFetch) {
			l.ErrorContext(ctx, "Feed unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "User feed is unavailable")
			return
		}
		l.ErrorContext(ctx, "Failed to refresh users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refresh users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, RefreshUsersResponse{
		Rows:       users,
		Total:      len(users),
		ResetQuery: h.cfg.ResetQueryOnRefresh,
	})
}

func (h *HandlerImpl) findUser(ctx context.Context, id int64) (*types.User, error) {
	users, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
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

// draftFields flattens a draft onto the form's dotted paths.
func draftFields(d types.UserDraft) map[string]string {
	return map[string]string{
		"name":                d.Name,
		"username":            d.Username,
		"email":               d.Email,
		"phone":               d.Phone,
		"website":             d.Website,
		"company.name":        d.Company.Name,
		"company.catchPhrase": d.Company.CatchPhrase,
		"company.bs":          d.Company.Bs,
		"address.street":      d.Address.Street,
		"address.suite":       d.Address.Suite,
		"address.city":        d.Address.City,
		"address.zipcode":     d.Address.Zipcode,
		"address.geo.lat":     d.Address.Geo.Lat,
		"address.geo.lng":     d.Address.Geo.Lng,
	}
}

// draftFromFields rebuilds a draft from the flattened form fields.
func draftFromFields(fields map[string]string) types.UserDraft {
	return types.UserDraft{
		Name:     fields["name"],
		Username: fields["username"],
		Email:    fields["email"],
		Phone:    fields["phone"],
		Website:  fields["website"],
		Company: types.Company{
			Name:        fields["company.name"],
			CatchPhrase: fields["company.catchPhrase"],
			Bs:          fields["company.bs"],
		},
		Address: types.Address{
			Street:  fields["address.street"],
			Suite:   fields["address.suite"],
			City:    fields["address.city"],
			Zipcode: fields["address.zipcode"],
			Geo: types.Geo{
				Lat: fields["address.geo.lat"],
				Lng: fields["address.geo.lng"],
			},
		},
	}
}

func setIfPresent(f *form.Form, path string, value *string) {
	if value != nil {
		_ = f.SetField(path, *value)
	}
}
