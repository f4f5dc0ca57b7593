package records

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T) (*RecordServiceImpl, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo := NewSlotRepo(store, storage.SlotRecords)
	svc := NewRecordService(repo, nil, rand.New(rand.NewSource(1)), testLogger())
	return svc, store
}

func ptrTo(s string) *string { return &s }

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first record gets id 1", func(t *testing.T) {
		svc, _ := newTestService(t)
		rec, err := svc.Create(ctx, types.RecordDraft{Name: "First"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
		assert.Nil(t, rec.UpdatedAt)
	})

	t.Run("ids stay unique after deletions", func(t *testing.T) {
		svc, _ := newTestService(t)
		a, err := svc.Create(ctx, types.RecordDraft{Name: "a"})
		require.NoError(t, err)
		b, err := svc.Create(ctx, types.RecordDraft{Name: "b"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, a.ID))
		c, err := svc.Create(ctx, types.RecordDraft{Name: "c"})
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)
	})

	t.Run("created record is persisted", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Create(ctx, types.RecordDraft{Name: "persisted"})
		require.NoError(t, err)

		var saved []types.Record
		found, err := store.Read(ctx, storage.SlotRecords, &saved)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, saved, 1)
		assert.Equal(t, "persisted", saved[0].Name)
	})
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges only patched fields", func(t *testing.T) {
		svc, _ := newTestService(t)
		rec, err := svc.Create(ctx, types.RecordDraft{Name: "Original", Category: "Category A", Value: "10"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, rec.ID, types.RecordPatch{Value: ptrTo("99")})
		require.NoError(t, err)
		assert.Equal(t, "Original", updated.Name)
		assert.Equal(t, "Category A", updated.Category)
		assert.Equal(t, "99", updated.Value)
		require.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Update(ctx, 99, types.RecordPatch{Name: ptrTo("x")})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record", func(t *testing.T) {
		svc, _ := newTestService(t)
		rec, err := svc.Create(ctx, types.RecordDraft{Name: "gone"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, rec.ID))
		recs, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("deleting an absent id succeeds", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.NoError(t, svc.Delete(ctx, 42))
	})
}

func TestRecordService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("reloads the persisted collection", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo := NewSlotRepo(store, storage.SlotRecords)
		seeded := []types.Record{{ID: 7, Name: "external edit"}}
		require.NoError(t, repo.Save(ctx, seeded))

		svc := NewRecordService(repo, nil, rand.New(rand.NewSource(1)), testLogger())
		recs, err := svc.Refresh(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "external edit", recs[0].Name)
	})

	t.Run("empty slot refreshes to empty collection", func(t *testing.T) {
		svc, _ := newTestService(t)
		recs, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestRecordService_GenerateSample(t *testing.T) {
	ctx := context.Background()

	t.Run("generates the requested count with valid fields", func(t *testing.T) {
		svc, _ := newTestService(t)
		samples, err := svc.GenerateSample(ctx, 20)
		require.NoError(t, err)
		require.Len(t, samples, 20)

		for _, rec := range samples {
			assert.Contains(t, types.RecordStatuses, rec.Status)
			assert.Contains(t, types.RecordCategories, rec.Category)
			assert.NotEmpty(t, rec.Name)
		}
	})

	t.Run("samples go in front of existing records", func(t *testing.T) {
		svc, _ := newTestService(t)
		existing, err := svc.Create(ctx, types.RecordDraft{Name: "kept"})
		require.NoError(t, err)

		_, err = svc.GenerateSample(ctx, 3)
		require.NoError(t, err)

		recs, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 4)
		assert.Equal(t, existing.ID, recs[3].ID)
		for _, rec := range recs[:3] {
			assert.Greater(t, rec.ID, existing.ID)
		}
	})

	t.Run("fixed seed produces the same sequence", func(t *testing.T) {
		a, _ := newTestService(t)
		b, _ := newTestService(t)

		sa, err := a.GenerateSample(ctx, 5)
		require.NoError(t, err)
		sb, err := b.GenerateSample(ctx, 5)
		require.NoError(t, err)

		for i := range sa {
			assert.Equal(t, sa[i].Category, sb[i].Category)
			assert.Equal(t, sa[i].Status, sb[i].Status)
			assert.Equal(t, sa[i].Value, sb[i].Value)
		}
	})
}

// failingRepo fails every save while serving loads from the wrapped
// repo.
type failingRepo struct {
	inner RecordRepo
}

func (r *failingRepo) Load(ctx context.Context) ([]types.Record, bool, error) {
	return r.inner.Load(ctx)
}

func (r *failingRepo) Save(context.Context, []types.Record) error {
	return errors.New("disk full")
}

func TestRecordService_PersistFailure(t *testing.T) {
	ctx := context.Background()

	store := storage.NewMemoryStore()
	inner := NewSlotRepo(store, storage.SlotRecords)
	require.NoError(t, inner.Save(ctx, []types.Record{{ID: 1, Name: "stable"}}))

	svc := NewRecordService(&failingRepo{inner: inner}, nil, rand.New(rand.NewSource(1)), testLogger())

	_, err := svc.Create(ctx, types.RecordDraft{Name: "doomed"})
	require.Error(t, err)

	// The last-known-good collection is still served.
	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "stable", recs[0].Name)
}
