package domain

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied by the registry when a heartbeat omits the optional
// client fields. Centralized here so the rule lives in exactly one place.
const (
	DefaultClientTag     = "FlowClient"
	DefaultClientVersion = "1.8.9"
)

// PresenceRecord is the stored state for one tracked client.
// The registry owns all records; reads hand out copies only.
type PresenceRecord struct {
	ID            uuid.UUID
	DisplayName   string
	ClientTag     string
	ClientVersion string
	LastSeen      time.Time
}

// Registry is the presence store as seen by transport and the reaper.
type Registry interface {
	// Upsert inserts or refreshes the record for id, stamping LastSeen with
	// the current time. Empty clientTag/clientVersion get the defaults.
	// Returns whether the id was previously absent and the resulting total.
	Upsert(id uuid.UUID, displayName, clientTag, clientVersion string) (wasNew bool, total int)

	// Snapshot returns a copy of every current record at one instant.
	Snapshot() []PresenceRecord

	// Count returns the number of current records.
	Count() int

	// Sweep removes every record whose heartbeat is older than timeout
	// relative to now, returning how many were removed.
	Sweep(now time.Time, timeout time.Duration) int

	// Clear drops all records. Used on shutdown.
	Clear()
}

// CountPublisher receives online-count changes for the live feed.
// A nil-safe no-op implementation is acceptable anywhere one is optional.
type CountPublisher interface {
	Publish(count int)
}
