package reports

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-admin-dashboard/internal/api/records"
	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T, rowCount int) (*ReportServiceImpl, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo := records.NewSlotRepo(store, storage.SlotReportingRecords)
	return NewReportService(repo, rand.New(rand.NewSource(1)), rowCount, testLogger()), store
}

func TestReportService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty slot generates and persists the report", func(t *testing.T) {
		svc, store := newTestService(t, 50)
		rows, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 50)

		for _, row := range rows {
			assert.Contains(t, types.RecordStatuses, row.Status)
			assert.Contains(t, types.RecordCategories, row.Category)
		}

		var persisted []types.Record
		found, err := store.Read(ctx, storage.SlotReportingRecords, &persisted)
		require.NoError(t, err)
		require.True(t, found)
		assert.Len(t, persisted, 50)
	})

	t.Run("existing slot is served as is", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo := records.NewSlotRepo(store, storage.SlotReportingRecords)
		require.NoError(t, repo.Save(context.Background(), []types.Record{{ID: 1, Name: "kept"}}))

		svc := NewReportService(repo, rand.New(rand.NewSource(1)), 50, testLogger())
		rows, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "kept", rows[0].Name)
	})

	t.Run("repeat lists reuse the loaded report", func(t *testing.T) {
		svc, _ := newTestService(t, 10)
		first, err := svc.List(ctx)
		require.NoError(t, err)
		second, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestReportService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the report set", func(t *testing.T) {
		svc, _ := newTestService(t, 10)
		first, err := svc.List(ctx)
		require.NoError(t, err)

		second, err := svc.Refresh(ctx)
		require.NoError(t, err)
		require.Len(t, second, 10)

		// Same rng stream, so the regenerated values differ.
		assert.NotEqual(t, first[0].Value, second[0].Value)
	})
}
