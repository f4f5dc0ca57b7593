package records

import (
	"context"

	"github.com/FACorreiaa/go-admin-dashboard/internal/storage"
	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

var _ RecordRepo = (*SlotRepo)(nil)

// RecordRepo persists the record collection as a whole. The collection
// is owned exclusively by the record service; nothing else writes the
// slot.
type RecordRepo interface {
	// Load returns the persisted collection. found is false when the
	// slot is absent or unreadable, in which case the collection starts
	// empty.
	Load(ctx context.Context) (recs []types.Record, found bool, err error)
	Save(ctx context.Context, recs []types.Record) error
}

// SlotRepo stores the collection in one JSON slot. The reporting screen
// reuses it with its own slot name.
type SlotRepo struct {
	store storage.Store
	slot  string
}

func NewSlotRepo(store storage.Store, slot string) *SlotRepo {
	return &SlotRepo{store: store, slot: slot}
}

func (r *SlotRepo) Load(ctx context.Context) ([]types.Record, bool, error) {
	var recs []types.Record
	found, err := r.store.Read(ctx, r.slot, &recs)
	if err != nil {
		return nil, false, err
	}
	return recs, found, nil
}

func (r *SlotRepo) Save(ctx context.Context, recs []types.Record) error {
	return r.store.Write(ctx, r.slot, recs)
}
