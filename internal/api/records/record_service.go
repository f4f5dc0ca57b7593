package records

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/FACorreiaa/go-admin-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

// RecordService is the entity store for dashboard records: it owns the
// authoritative in-memory collection, keeps the persisted slot equal to
// it after every successful mutation, and emits a notification per
// completed operation.
type RecordService interface {
	List(ctx context.Context) ([]types.Record, error)
	Create(ctx context.Context, draft types.RecordDraft) (*types.Record, error)
	// Update merges the patch over the record with the given id and
	// stamps UpdatedAt. Returns types.ErrNotFound when the id is absent.
	Update(ctx context.Context, id int64, patch types.RecordPatch) (*types.Record, error)
	// Delete is idempotent: removing an absent id is not an error.
	Delete(ctx context.Context, id int64) error
	// Refresh re-derives the collection from the persisted slot and
	// persists the result.
	Refresh(ctx context.Context) ([]types.Record, error)
	// GenerateSample prepends count synthetic records with fresh ids.
	GenerateSample(ctx context.Context, count int) ([]types.Record, error)
}

var _ RecordService = (*RecordServiceImpl)(nil)

type RecordServiceImpl struct {
	logger   *slog.Logger
	repo     RecordRepo
	notifier types.Notifier
	rng      *rand.Rand

	// mu serializes operations so each one is a single logical
	// read-modify-persist unit; callers never observe a half-applied
	// mutation.
	mu      sync.Mutex
	records []types.Record
	loaded  bool
}

// NewRecordService creates the records store. rng drives the sample
// data generator; inject a fixed seed for reproducible fixtures.
func NewRecordService(repo RecordRepo, notifier types.Notifier, rng *rand.Rand, logger *slog.Logger) *RecordServiceImpl {
	return &RecordServiceImpl{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		rng:      rng,
	}
}

// ensureLoaded reads the collection from the slot on first access.
// Callers must hold mu.
func (s *RecordServiceImpl) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	recs, found, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	if !found {
		recs = []types.Record{}
	}
	s.records = recs
	s.loaded = true
	return nil
}

func (s *RecordServiceImpl) List(ctx context.Context) ([]types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *RecordServiceImpl) Create(ctx context.Context, draft types.RecordDraft) (*types.Record, error) {
	l := s.logger.With(slog.String("method", "Create"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	rec := types.Record{
		ID:          s.nextID(),
		Name:        draft.Name,
		Category:    draft.Category,
		Status:      draft.Status,
		Value:       draft.Value,
		Description: draft.Description,
		CreatedAt:   time.Now().UTC(),
	}

	next := append(s.copyRecords(), rec)
	if err := s.persist(ctx, next, "create"); err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Record created", slog.Int64("id", rec.ID), slog.String("name", rec.Name))
	metrics.Get().RecordStoreOp(ctx, "record", "create")
	s.notify(ctx, types.NotifyAdded, fmt.Sprintf("Record %q added", rec.Name))
	return &rec, nil
}

func (s *RecordServiceImpl) Update(ctx context.Context, id int64, patch types.RecordPatch) (*types.Record, error) {
	l := s.logger.With(slog.String("method", "Update"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		l.WarnContext(ctx, "Update target not found", slog.Int64("id", id))
		return nil, fmt.Errorf("record %d: %w", id, types.ErrNotFound)
	}

	next := s.copyRecords()
	patch.Apply(&next[idx])
	now := time.Now().UTC()
	next[idx].UpdatedAt = &now

	if err := s.persist(ctx, next, "update"); err != nil {
		return nil, err
	}

	updated := next[idx]
	l.InfoContext(ctx, "Record updated", slog.Int64("id", id))
	metrics.Get().RecordStoreOp(ctx, "record", "update")
	s.notify(ctx, types.NotifyUpdated, fmt.Sprintf("Record %q updated", updated.Name))
	return &updated, nil
}

func (s *RecordServiceImpl) Delete(ctx context.Context, id int64) error {
	l := s.logger.With(slog.String("method", "Delete"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		// Already gone; deletion is idempotent.
		return nil
	}

	next := append(s.copyRecords()[:idx], s.records[idx+1:]...)
	if err := s.persist(ctx, next, "delete"); err != nil {
		return err
	}

	l.InfoContext(ctx, "Record deleted", slog.Int64("id", id))
	metrics.Get().RecordStoreOp(ctx, "record", "delete")
	s.notify(ctx, types.NotifyDeleted, "Record deleted")
	return nil
}

func (s *RecordServiceImpl) Refresh(ctx context.Context) ([]types.Record, error) {
	l := s.logger.With(slog.String("method", "Refresh"))
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, found, err := s.repo.Load(ctx)
	if err != nil {
		metrics.Get().RecordStoreError(ctx, "record", "refresh")
		s.notify(ctx, types.NotifyError, "Failed to refresh records. Please try again later.")
		return nil, fmt.Errorf("refreshing records: %w", err)
	}
	if !found {
		recs = []types.Record{}
	}

	if err := s.repo.Save(ctx, recs); err != nil {
		metrics.Get().RecordStoreError(ctx, "record", "refresh")
		s.notify(ctx, types.NotifyError, "Failed to refresh records. Please try again later.")
		return nil, fmt.Errorf("refreshing records: %w", err)
	}

	s.records = recs
	s.loaded = true

	l.InfoContext(ctx, "Records refreshed", slog.Int("count", len(recs)))
	metrics.Get().RecordStoreOp(ctx, "record", "refresh")
	s.notify(ctx, types.NotifyRefreshed, "Records refreshed")

	out := make([]types.Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *RecordServiceImpl) GenerateSample(ctx context.Context, count int) ([]types.Record, error) {
	l := s.logger.With(slog.String("method", "GenerateSample"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	nextID := s.nextID()
	samples := make([]types.Record, 0, count)
	for i := 1; i <= count; i++ {
		category := types.RecordCategories[s.rng.Intn(len(types.RecordCategories))]
		status := types.RecordStatuses[s.rng.Intn(len(types.RecordStatuses))]
		daysAgo := s.rng.Intn(30)
		samples = append(samples, types.Record{
			ID:          nextID,
			Name:        fmt.Sprintf("Sample Record %d", i),
			Category:    category,
			Status:      status,
			Value:       fmt.Sprintf("%.2f", s.rng.Float64()*1000),
			Description: fmt.Sprintf("This is a sample record #%d in the %s category.", i, category),
			CreatedAt:   time.Now().UTC().AddDate(0, 0, -daysAgo),
		})
		nextID++
	}

	// Samples go in front of the existing collection, matching the
	// dashboard's seed behavior.
	next := append(samples, s.copyRecords()...)
	if err := s.persist(ctx, next, "generate"); err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Sample records generated", slog.Int("count", count))
	metrics.Get().RecordStoreOp(ctx, "record", "generate")
	s.notify(ctx, types.NotifyAdded, fmt.Sprintf("Generated %d sample records", count))
	return samples, nil
}

// persist writes next to the slot and, only on success, swaps it in as
// the in-memory collection. On failure the last-known-good collection
// is retained.
func (s *RecordServiceImpl) persist(ctx context.Context, next []types.Record, op string) error {
	if err := s.repo.Save(ctx, next); err != nil {
		metrics.Get().RecordStoreError(ctx, "record", op)
		s.notify(ctx, types.NotifyError, "Failed to save records. Please try again.")
		return fmt.Errorf("persisting records: %w", err)
	}
	s.records = next
	return nil
}

func (s *RecordServiceImpl) notify(ctx context.Context, kind types.NotificationKind, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, types.Notification{Kind: kind, Message: msg, Time: time.Now().UTC()})
}

func (s *RecordServiceImpl) copyRecords() []types.Record {
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordServiceImpl) indexOf(id int64) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// nextID is one greater than the current maximum, so ids never collide
// even after deletions.
func (s *RecordServiceImpl) nextID() int64 {
	var max int64
	for _, rec := range s.records {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1
}
