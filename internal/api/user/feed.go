package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-admin-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-admin-dashboard/config"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

var _ FeedClient = (*HTTPFeedClient)(nil)

// FeedClient pulls the seed user collection from the external feed.
type FeedClient interface {
	FetchUsers(ctx context.Context) ([]types.User, error)
}

// HTTPFeedClient fetches the JSONPlaceholder user feed. The feed only
// serves ten distinct users, so the target count is reached by fetching
// the batch repeatedly and offsetting the ids per batch.
type HTTPFeedClient struct {
	client *http.Client
	cfg    config.FeedConfig
	logger *slog.Logger
}

func NewHTTPFeedClient(cfg config.FeedConfig, logger *slog.Logger) *HTTPFeedClient {
	return &HTTPFeedClient{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

func (c *HTTPFeedClient) FetchUsers(ctx context.Context) ([]types.User, error) {
	l := c.logger.With(slog.String("FeedClient", "FetchUsers"))
	start := time.Now()

	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	target := c.cfg.TargetCount
	if target <= 0 {
		target = batchSize
	}
	batches := (target + batchSize - 1) / batchSize

	users := make([]types.User, 0, target)
	for batch := 0; batch < batches; batch++ {
		fetched, err := c.fetchBatch(ctx)
		if err != nil {
			metrics.Get().RecordFeedFetch(ctx, time.Since(start), err)
			l.ErrorContext(ctx, "Feed fetch failed", slog.Int("batch", batch), slog.Any("error", err))
			return nil, err
		}
		// Offset ids so the ten feed users stay unique across batches.
		for i := range fetched {
			fetched[i].ID += int64(batch * batchSize)
		}
		users = append(users, fetched...)
	}
	if len(users) > target {
		users = users[:target]
	}

	metrics.Get().RecordFeedFetch(ctx, time.Since(start), nil)
	l.InfoContext(ctx, "Feed fetch complete", slog.Int("count", len(users)), slog.Duration("took", time.Since(start)))
	return users, nil
}

func (c *HTTPFeedClient) fetchBatch(ctx context.Context) ([]types.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building feed request: %v", types.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting feed: %v", types.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", types.ErrFetch, resp.StatusCode)
	}

	var users []types.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: decoding feed response: %v", types.ErrFetch, err)
	}
	return users, nil
}
