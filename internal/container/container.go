package container

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/auth"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/notifications"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/records"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/reports"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/user"
	"github.com/FACorreiaa/go-admin-dashboard/internal/notify"
	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Store  storage.Store
	Hub    *notify.Hub
	Gate   auth.SessionGate

	AuthHandler         *auth.HandlerImpl
	RecordHandler       *records.HandlerImpl
	UserHandler         *user.HandlerImpl
	ReportHandler       *reports.HandlerImpl
	NotificationHandler *notifications.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	store, err := storage.NewFileStore(cfg.Storage.Dir, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.Any("error", err))
		return nil, err
	}

	hub := notify.NewHub(logger)

	// A fixed seed makes sample and report data reproducible; seed 0
	// means a fresh sequence per start.
	seed := cfg.Dashboard.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gate := auth.NewSessionGate(store, cfg.JWT, logger)

	recordRepo := records.NewSlotRepo(store, storage.SlotRecords)
	recordService := records.NewRecordService(recordRepo, hub, rand.New(rand.NewSource(seed)), logger)

	feed := user.NewHTTPFeedClient(cfg.Feed, logger)
	userService := user.NewUserService(store, feed, hub, cfg.Feed.CacheTTL, logger)

	reportRepo := records.NewSlotRepo(store, storage.SlotReportingRecords)
	reportService := reports.NewReportService(reportRepo, rand.New(rand.NewSource(seed+1)), cfg.Dashboard.ReportRowCount, logger)

	return &Container{
		Config:              cfg,
		Logger:              logger,
		Store:               store,
		Hub:                 hub,
		Gate:                gate,
		AuthHandler:         auth.NewHandlerImpl(gate, logger),
		RecordHandler:       records.NewHandlerImpl(recordService, cfg.Dashboard, logger),
		UserHandler:         user.NewHandlerImpl(userService, cfg.Dashboard, logger),
		ReportHandler:       reports.NewHandlerImpl(reportService, logger),
		NotificationHandler: notifications.NewHandlerImpl(hub, logger),
	}, nil
}
