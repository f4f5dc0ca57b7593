package types

import (
	"context"
	"time"
)

// NotificationKind classifies the outcome of a store operation.
type NotificationKind string

const (
	NotifyAdded     NotificationKind = "added"
	NotifyUpdated   NotificationKind = "updated"
	NotifyDeleted   NotificationKind = "deleted"
	NotifyRefreshed NotificationKind = "refreshed"
	NotifyError     NotificationKind = "error"
)

// Notification is the transient message a store emits after an operation,
// surfaced by the UI layer as a snackbar.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
}

// Notifier receives store notifications. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
