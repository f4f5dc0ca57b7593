package user

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-admin-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

const feedCacheKey = "feed:users"

// UserService is the entity store for dashboard users. The collection
// is seeded from the external feed when the persisted slot is empty;
// after that every mutation is local and persisted like any other slot.
type UserService interface {
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, draft types.UserDraft) (*types.User, error)
	Update(ctx context.Context, id int64, patch types.UserPatch) (*types.User, error)
	// Delete is idempotent: removing an absent id is not an error.
	Delete(ctx context.Context, id int64) error
	// Refresh re-seeds the collection from the feed, discarding local
	// edits, and persists the result.
	Refresh(ctx context.Context) ([]types.User, error)
	// Loading reports whether an initial load or refresh is in flight.
	Loading() bool
}

var _ UserService = (*UserServiceImpl)(nil)

type UserServiceImpl struct {
	logger   *slog.Logger
	store    storage.Store
	feed     FeedClient
	notifier types.Notifier

	// feedCache holds the last feed result so back-to-back refreshes
	// within the TTL do not hammer the upstream; flight collapses
	// concurrent refreshes into one fetch.
	feedCache *cache.Cache
	flight    singleflight.Group

	mu      sync.Mutex
	users   []types.User
	loaded  bool
	loading bool
}

// NewUserService creates the users store. cacheTTL bounds how long a
// feed result may be reused by Refresh.
func NewUserService(store storage.Store, feed FeedClient, notifier types.Notifier, cacheTTL time.Duration, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger:    logger,
		store:     store,
		feed:      feed,
		notifier:  notifier,
		feedCache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *UserServiceImpl) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ensureLoaded populates the collection on first access: from the slot
// when present, otherwise from the feed. Callers must hold mu.
func (s *UserServiceImpl) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	s.loading = true
	defer func() { s.loading = false }()

	var users []types.User
	found, err := s.store.Read(ctx, storage.SlotUsers, &users)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if !found {
		users, err = s.fetchFeed(ctx)
		if err != nil {
			s.notify(ctx, types.NotifyError, "Failed to load users. Please try again later.")
			return err
		}
		if err := s.store.Write(ctx, storage.SlotUsers, users); err != nil {
			metrics.Get().RecordStoreError(ctx, "user", "seed")
			return fmt.Errorf("persisting seeded users: %w", err)
		}
	}

	s.users = users
	s.loaded = true
	return nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]types.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *UserServiceImpl) Create(ctx context.Context, draft types.UserDraft) (*types.User, error) {
	l := s.logger.With(slog.String("method", "Create"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := types.User{
		ID:        s.nextID(),
		Name:      draft.Name,
		Username:  draft.Username,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Website:   draft.Website,
		Company:   draft.Company,
		Address:   draft.Address,
		CreatedAt: &now,
	}

	next := append(s.copyUsers(), u)
	if err := s.persist(ctx, next, "create"); err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "User created", slog.Int64("id", u.ID), slog.String("name", u.Name))
	metrics.Get().RecordStoreOp(ctx, "user", "create")
	s.notify(ctx, types.NotifyAdded, fmt.Sprintf("User %q added", u.Name))
	return &u, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id int64, patch types.UserPatch) (*types.User, error) {
	l := s.logger.With(slog.String("method", "Update"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		l.WarnContext(ctx, "Update target not found", slog.Int64("id", id))
		return nil, fmt.Errorf("user %d: %w", id, types.ErrNotFound)
	}

	next := s.copyUsers()
	patch.Apply(&next[idx])
	now := time.Now().UTC()
	next[idx].UpdatedAt = &now

	if err := s.persist(ctx, next, "update"); err != nil {
		return nil, err
	}

	updated := next[idx]
	l.InfoContext(ctx, "User updated", slog.Int64("id", id))
	metrics.Get().RecordStoreOp(ctx, "user", "update")
	s.notify(ctx, types.NotifyUpdated, fmt.Sprintf("User %q updated", updated.Name))
	return &updated, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	l := s.logger.With(slog.String("method", "Delete"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := append(s.copyUsers()[:idx], s.users[idx+1:]...)
	if err := s.persist(ctx, next, "delete"); err != nil {
		return err
	}

	l.InfoContext(ctx, "User deleted", slog.Int64("id", id))
	metrics.Get().RecordStoreOp(ctx, "user", "delete")
	s.notify(ctx, types.NotifyDeleted, "User deleted")
	return nil
}

func (s *UserServiceImpl) Refresh(ctx context.Context) ([]types.User, error) {
	l := s.logger.With(slog.String("method", "Refresh"))

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	// Concurrent refreshes share one fetch.
	fetched, err, _ := s.flight.Do("refresh", func() (any, error) {
		return s.fetchFeed(ctx)
	})
	if err != nil {
		s.notify(ctx, types.NotifyError, "Failed to refresh users. Please try again later.")
		return nil, err
	}
	users := fetched.([]types.User)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, users, "refresh"); err != nil {
		return nil, err
	}
	s.loaded = true

	l.InfoContext(ctx, "Users refreshed", slog.Int("count", len(users)))
	metrics.Get().RecordStoreOp(ctx, "user", "refresh")
	s.notify(ctx, types.NotifyRefreshed, "Users refreshed")

	out := make([]types.User, len(users))
	copy(out, users)
	return out, nil
}

// fetchFeed returns the cached feed result when it is still fresh,
// otherwise fetches and caches a new one.
func (s *UserServiceImpl) fetchFeed(ctx context.Context) ([]types.User, error) {
	if cached, ok := s.feedCache.Get(feedCacheKey); ok {
		users := cached.([]types.User)
		out := make([]types.User, len(users))
		copy(out, users)
		return out, nil
	}

	users, err := s.feed.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.feedCache.Set(feedCacheKey, users, cache.DefaultExpiration)
	return users, nil
}

// persist writes next to the users slot and, only on success, swaps it
// in as the in-memory collection. Callers must hold mu.
func (s *UserServiceImpl) persist(ctx context.Context, next []types.User, op string) error {
	if err := s.store.Write(ctx, storage.SlotUsers, next); err != nil {
		metrics.Get().RecordStoreError(ctx, "user", op)
		s.notify(ctx, types.NotifyError, "Failed to save users. Please try again.")
		return fmt.Errorf("persisting users: %w", err)
	}
	s.users = next
	return nil
}

func (s *UserServiceImpl) notify(ctx context.Context, kind types.NotificationKind, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, types.Notification{Kind: kind, Message: msg, Time: time.Now().UTC()})
}

func (s *UserServiceImpl) copyUsers() []types.User {
	out := make([]types.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *UserServiceImpl) indexOf(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *UserServiceImpl) nextID() int64 {
	var max int64
	for _, u := range s.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
