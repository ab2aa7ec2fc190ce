// Package sql provides query statistics and slow query detection for the
// database connections used by schema inspection.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ExecQuerier wraps the standard Exec and Query methods. It matches the
// querier accepted by the atlas inspection drivers.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of exec statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing queries.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of queries exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of query errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average query duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// LogValue implements slog.LogValuer.
func (s StatsSnapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("queries", s.TotalQueries),
		slog.Int64("execs", s.TotalExecs),
		slog.Duration("duration", s.TotalDuration),
		slog.Int64("slow", s.SlowQueries),
		slog.Int64("errors", s.Errors),
	)
}

// SlowQueryHook is a function called when a slow query is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsQuerier wraps an ExecQuerier with query statistics collection.
type StatsQuerier struct {
	ExecQuerier
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	logger        *slog.Logger
	mu            sync.RWMutex
}

// StatsOption configures the StatsQuerier.
type StatsOption func(*StatsQuerier)

// WithSlowThreshold sets the threshold for slow query detection.
// Queries taking longer than this duration will be counted as slow queries.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsQuerier) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow queries.
// The hook is called whenever a query exceeds the slow threshold.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsQuerier) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow queries to the given logger.
// This is a convenience wrapper around WithSlowQueryHook.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// WithQueryLog logs every statement to the given logger at debug level.
func WithQueryLog(logger *slog.Logger) StatsOption {
	return func(s *StatsQuerier) {
		s.logger = logger
	}
}

// NewStatsQuerier wraps an ExecQuerier with statistics collection.
//
// Example:
//
//	db, _ := sql.Open("postgres", dsn)
//	q := dsql.NewStatsQuerier(db,
//	    dsql.WithSlowThreshold(200*time.Millisecond),
//	    dsql.WithSlowQueryLog(logger),
//	)
//	schemas, err := load.InspectDB(ctx, q, "postgres")
//
//	// Later, check statistics:
//	fmt.Println(q.QueryStats().Stats())
func NewStatsQuerier(q ExecQuerier, opts ...StatsOption) *StatsQuerier {
	s := &StatsQuerier{
		ExecQuerier:   q,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (s *StatsQuerier) QueryStats() *QueryStats {
	return s.stats
}

// SlowThreshold returns the current slow query threshold.
func (s *StatsQuerier) SlowThreshold() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (s *StatsQuerier) SetSlowThreshold(threshold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slowThreshold = threshold
}

// QueryContext executes a query and records statistics.
func (s *StatsQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.ExecQuerier.QueryContext(ctx, query, args...)
	s.record(ctx, query, args, start, err, true)
	return rows, err
}

// ExecContext executes a statement and records statistics.
func (s *StatsQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.ExecQuerier.ExecContext(ctx, query, args...)
	s.record(ctx, query, args, start, err, false)
	return res, err
}

func (s *StatsQuerier) record(ctx context.Context, query string, args []any, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		s.stats.TotalQueries.Add(1)
	} else {
		s.stats.TotalExecs.Add(1)
	}
	s.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		s.stats.Errors.Add(1)
	}

	s.mu.RLock()
	threshold := s.slowThreshold
	hook := s.slowHook
	s.mu.RUnlock()

	if s.logger != nil {
		s.logger.DebugContext(ctx, "query", "query", query, "args", args, "duration", duration, "error", err)
	}
	if duration > threshold {
		s.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, args, duration)
		}
	}
}

// DB is a database connection with statistics collection enabled.
type DB struct {
	*StatsQuerier
	db *sql.DB
}

// OpenWithStats opens a database connection with statistics collection
// enabled. The connection is not verified.
//
// Example:
//
//	db, err := dsql.OpenWithStats("sqlite", "file:app.db", dsql.WithSlowQueryLog(logger))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func OpenWithStats(driverName, source string, opts ...StatsOption) (*DB, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return &DB{StatsQuerier: NewStatsQuerier(db, opts...), db: db}, nil
}

// DB returns the underlying *sql.DB.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

var (
	_ ExecQuerier = (*StatsQuerier)(nil)
	_ ExecQuerier = (*sql.DB)(nil)
)
