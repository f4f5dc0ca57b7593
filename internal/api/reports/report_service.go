package reports

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/FACorreiaa/go-admin-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-admin-dashboard/internal/api/records"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

// ReportService serves the reporting screen: a read-only record set
// kept in its own slot, generated on first access and regenerated on
// demand.
type ReportService interface {
	List(ctx context.Context) ([]types.Record, error)
	// Refresh discards the current report set and generates a new one.
	Refresh(ctx context.Context) ([]types.Record, error)
}

var _ ReportService = (*ReportServiceImpl)(nil)

type ReportServiceImpl struct {
	logger   *slog.Logger
	repo     records.RecordRepo
	rng      *rand.Rand
	rowCount int

	mu     sync.Mutex
	rows   []types.Record
	loaded bool
}

// NewReportService creates the reporting store. rowCount sets how many
// rows a generated report holds.
func NewReportService(repo records.RecordRepo, rng *rand.Rand, rowCount int, logger *slog.Logger) *ReportServiceImpl {
	return &ReportServiceImpl{
		logger:   logger,
		repo:     repo,
		rng:      rng,
		rowCount: rowCount,
	}
}

func (s *ReportServiceImpl) List(ctx context.Context) ([]types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		rows, found, err := s.repo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading report rows: %w", err)
		}
		if !found || len(rows) == 0 {
			rows, err = s.regenerate(ctx)
			if err != nil {
				return nil, err
			}
		}
		s.rows = rows
		s.loaded = true
	}

	out := make([]types.Record, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *ReportServiceImpl) Refresh(ctx context.Context) ([]types.Record, error) {
	l := s.logger.With(slog.String("method", "Refresh"))
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.regenerate(ctx)
	if err != nil {
		return nil, err
	}
	s.rows = rows
	s.loaded = true

	l.InfoContext(ctx, "Report regenerated", slog.Int("rows", len(rows)))
	metrics.Get().RecordStoreOp(ctx, "report", "refresh")

	out := make([]types.Record, len(rows))
	copy(out, rows)
	return out, nil
}

// regenerate builds a fresh report set and persists it. Callers must
// hold mu.
func (s *ReportServiceImpl) regenerate(ctx context.Context) ([]types.Record, error) {
	rows := make([]types.Record, 0, s.rowCount)
	for i := 1; i <= s.rowCount; i++ {
		category := types.RecordCategories[s.rng.Intn(len(types.RecordCategories))]
		status := types.RecordStatuses[s.rng.Intn(len(types.RecordStatuses))]
		daysAgo := s.rng.Intn(90)
		rows = append(rows, types.Record{
			ID:          int64(i),
			Name:        fmt.Sprintf("Report Entry %d", i),
			Category:    category,
			Status:      status,
			Value:       fmt.Sprintf("%.2f", s.rng.Float64()*10000),
			Description: fmt.Sprintf("Reporting row #%d in the %s category.", i, category),
			CreatedAt:   time.Now().UTC().AddDate(0, 0, -daysAgo),
		})
	}

	if err := s.repo.Save(ctx, rows); err != nil {
		metrics.Get().RecordStoreError(ctx, "report", "generate")
		return nil, fmt.Errorf("persisting report rows: %w", err)
	}
	metrics.Get().RecordStoreOp(ctx, "report", "generate")
	return rows, nil
}
