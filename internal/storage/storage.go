// Package storage provides the persisted-state collaborator: a small
// number of named slots, each holding one JSON-serialized value. It is
// the Go stand-in for the browser localStorage the dashboard originally
// persisted to.
package storage

import "context"

// Well-known slot names.
const (
	SlotRecords          = "records"
	SlotUsers            = "users"
	SlotToken            = "token"
	SlotUser             = "user"
	SlotReportingRecords = "reportingRecords"
)

// Store reads and writes named JSON slots.
//
// Read reports found=false both for an absent slot and for a slot whose
// contents are not valid JSON for v: readers must tolerate malformed
// persisted state and treat it as uninitialized rather than fail.
type Store interface {
	Read(ctx context.Context, slot string, v any) (found bool, err error)
	Write(ctx context.Context, slot string, v any) error
	Delete(ctx context.Context, slot string) error
}
