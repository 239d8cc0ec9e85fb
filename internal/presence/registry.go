package presence

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Solid7731/flowclient-api/internal/domain"
	"github.com/Solid7731/flowclient-api/internal/metrics"
)

// Registry is the concurrency-safe store of presence records.
// It owns every record exclusively; Snapshot returns copies.
type Registry struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.PresenceRecord
	clock   clockwork.Clock
}

// NewRegistry creates an empty registry using the given clock for
// heartbeat timestamps.
func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		records: make(map[uuid.UUID]domain.PresenceRecord),
		clock:   clock,
	}
}

// Upsert inserts or refreshes the record for id, setting LastSeen to now.
// Empty clientTag/clientVersion fall back to the domain defaults here so
// the defaulting rule is centralized and testable.
// Returns whether the id was previously absent and the resulting total.
func (r *Registry) Upsert(id uuid.UUID, displayName, clientTag, clientVersion string) (bool, int) {
	if clientTag == "" {
		clientTag = domain.DefaultClientTag
	}
	if clientVersion == "" {
		clientVersion = domain.DefaultClientVersion
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.records[id]
	r.records[id] = domain.PresenceRecord{
		ID:            id,
		DisplayName:   displayName,
		ClientTag:     clientTag,
		ClientVersion: clientVersion,
		LastSeen:      r.clock.Now(),
	}

	total := len(r.records)
	metrics.OnlinePlayers.Set(float64(total))
	return !exists, total
}

// Snapshot returns a copy of every current record at one consistent instant.
// Order is unspecified; callers that need stable output sort at the edge.
func (r *Registry) Snapshot() []domain.PresenceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PresenceRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// Count returns the current number of records.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Sweep removes every record whose LastSeen is older than timeout relative
// to now, returning how many were removed. The whole pass observes the one
// "now" it was handed, so eviction is deterministic against a concurrent
// heartbeat: refreshed before we look, it stays; after, it goes next pass.
func (r *Registry) Sweep(now time.Time, timeout time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, rec := range r.records {
		if now.Sub(rec.LastSeen) > timeout {
			delete(r.records, id)
			removed++
		}
	}

	metrics.OnlinePlayers.Set(float64(len(r.records)))
	return removed
}

// Clear drops all records. Called on shutdown; no state survives restarts.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[uuid.UUID]domain.PresenceRecord)
	metrics.OnlinePlayers.Set(0)
}
