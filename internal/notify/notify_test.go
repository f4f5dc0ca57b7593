package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
}

func note(msg string) types.Notification {
	return types.Notification{Kind: types.NotifyAdded, Message: msg, Time: time.Now()}
}

func TestHub(t *testing.T) {
	ctx := context.Background()

	t.Run("latest returns the newest entry", func(t *testing.T) {
		hub := testHub()
		assert.Nil(t, hub.Latest())

		hub.Notify(ctx, note("first"))
		hub.Notify(ctx, note("second"))

		latest := hub.Latest()
		require.NotNil(t, latest)
		assert.Equal(t, "second", latest.Message)
	})

	t.Run("recent caps at the requested limit", func(t *testing.T) {
		hub := testHub()
		for i := 0; i < 5; i++ {
			hub.Notify(ctx, note(fmt.Sprintf("n%d", i)))
		}

		recent := hub.Recent(3)
		require.Len(t, recent, 3)
		assert.Equal(t, "n2", recent[0].Message)
		assert.Equal(t, "n4", recent[2].Message)
	})

	t.Run("buffer drops the oldest entries", func(t *testing.T) {
		hub := testHub()
		for i := 0; i < 30; i++ {
			hub.Notify(ctx, note(fmt.Sprintf("n%d", i)))
		}

		recent := hub.Recent(0)
		require.Len(t, recent, defaultCapacity)
		assert.Equal(t, "n10", recent[0].Message)
		assert.Equal(t, "n29", recent[len(recent)-1].Message)
	})
}
