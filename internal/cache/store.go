package cache

import (
	"time"

	"github.com/yourusername/runtara-monitor/internal/datasource"
	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
)

// DataStore holds the last complete snapshot and the outcome of the latest fetch.
// It is owned by the UI loop and is not safe for concurrent use.
type DataStore struct {
	snapshot    *model.Snapshot
	fetchedAt   time.Time
	lastAttempt time.Time
	lastError   error
	connected   bool
	staleAfter  time.Duration
	logger      *zap.Logger
}

// NewDataStore creates an empty store. A snapshot older than staleAfter is reported as stale.
func NewDataStore(staleAfter time.Duration, logger *zap.Logger) *DataStore {
	return &DataStore{
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Apply replaces the snapshot as a whole and clears the last error
func (s *DataStore) Apply(snapshot *model.Snapshot, now time.Time) {
	if snapshot == nil {
		return
	}

	s.snapshot = snapshot
	s.fetchedAt = snapshot.FetchedAt
	if s.fetchedAt.IsZero() {
		s.fetchedAt = now
	}
	s.lastAttempt = now
	s.lastError = nil
	s.connected = true

	s.logger.Debug("Snapshot applied",
		zap.Time("fetched_at", s.fetchedAt),
		zap.Int("instances", len(snapshot.Instances)),
		zap.Int("images", len(snapshot.Images)),
	)
}

// Fail records a failed fetch. The previous snapshot is kept.
func (s *DataStore) Fail(err error, now time.Time) {
	s.lastError = err
	s.lastAttempt = now
	if datasource.IsKind(err, datasource.KindConnection) {
		s.connected = false
	}

	s.logger.Debug("Fetch failure recorded",
		zap.Error(err),
		zap.Bool("connected", s.connected),
		zap.Bool("has_snapshot", s.snapshot != nil),
	)
}

// Snapshot returns the last complete snapshot, nil before the first success
func (s *DataStore) Snapshot() *model.Snapshot {
	return s.snapshot
}

// FetchedAt returns when the current snapshot was fetched
func (s *DataStore) FetchedAt() time.Time {
	return s.fetchedAt
}

// LastAttempt returns when the latest fetch finished, successful or not
func (s *DataStore) LastAttempt() time.Time {
	return s.lastAttempt
}

// LastError returns the error of the latest fetch, nil if it succeeded
func (s *DataStore) LastError() error {
	return s.lastError
}

// Connected reports whether the remote is reachable
func (s *DataStore) Connected() bool {
	return s.connected
}

// SetConnected seeds the connection state, e.g. after a startup probe
func (s *DataStore) SetConnected(connected bool) {
	s.connected = connected
}

// IsStale checks if the snapshot is missing or older than the stale window
func (s *DataStore) IsStale(now time.Time) bool {
	if s.snapshot == nil {
		return true
	}
	if s.staleAfter <= 0 {
		return false
	}
	return now.Sub(s.fetchedAt) > s.staleAfter
}

// StaleAfter returns the configured stale window
func (s *DataStore) StaleAfter() time.Duration {
	return s.staleAfter
}
