package notifications

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/go-admin-dashboard/internal/api"
	"github.com/FACorreiaa/go-admin-dashboard/internal/notify"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

const defaultLimit = 20

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	hub    *notify.Hub
	logger *slog.Logger
}

// NewHandlerImpl creates a new notifications HandlerImpl instance.
func NewHandlerImpl(hub *notify.Hub, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{hub: hub, logger: logger}
}

// List godoc
// @Summary      List Notifications
// @Description  Returns the most recent store notifications, newest last.
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= defaultLimit {
		limit = v
	}

	notes := h.hub.Recent(limit)
	if notes == nil {
		notes = []types.Notification{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, notes)
}
