package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/metrics"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// AsyncLoggerConfig holds configuration for the async logger.
type AsyncLoggerConfig struct {
	// BufferSize is the size of the log entry channel buffer.
	BufferSize int
	// NumWorkers is the number of worker goroutines writing entries.
	NumWorkers int
	// WriteTimeout bounds a single write to the logging service.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the defaults used by the service.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:   1000,
		NumWorkers:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// AsyncLoggerStats is a snapshot of the logger counters.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger writes request logs and the shipment audit trail through a
// bounded worker pool. Entries are dropped, never blocked on, when the
// buffer is full.
type AsyncLogger struct {
	sink         service.LoggingService
	entries      chan *model.LogEntry
	writeTimeout time.Duration
	wg           sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts the worker pool. It returns nil for a nil sink, and
// every method of a nil *AsyncLogger is a no-op.
func NewAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if sink == nil {
		return nil
	}
	defaults := DefaultAsyncLoggerConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = defaults.NumWorkers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}

	al := &AsyncLogger{
		sink:         sink,
		entries:      make(chan *model.LogEntry, cfg.BufferSize),
		writeTimeout: cfg.WriteTimeout,
	}
	for i := 0; i < cfg.NumWorkers; i++ {
		al.wg.Add(1)
		go al.worker()
	}
	return al
}

func (al *AsyncLogger) worker() {
	defer al.wg.Done()
	for entry := range al.entries {
		al.write(entry)
	}
}

func (al *AsyncLogger) write(entry *model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), al.writeTimeout)
	defer cancel()

	if err := al.sink.Record(ctx, entry); err != nil {
		al.failed.Add(1)
		metrics.RecordAuditEntry("failed")
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("action_type", entry.ActionType).
			Str("request_id", entry.RequestID).
			Msg("Failed to write log entry")
		return
	}
	al.written.Add(1)
	metrics.RecordAuditEntry("written")
}

// Log enqueues entry. It reports false when the entry was dropped because
// the buffer is full or the logger is closed.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	if al == nil || entry == nil {
		return false
	}

	al.mu.RLock()
	defer al.mu.RUnlock()
	if al.closed {
		al.drop()
		return false
	}

	select {
	case al.entries <- entry:
		al.enqueued.Add(1)
		metrics.RecordAuditEntry("enqueued")
		return true
	default:
		al.drop()
		return false
	}
}

func (al *AsyncLogger) drop() {
	al.dropped.Add(1)
	metrics.RecordAuditEntry("dropped")
}

// Close stops accepting entries and waits for the buffered ones to be
// written, or for ctx to end.
func (al *AsyncLogger) Close(ctx context.Context) error {
	if al == nil {
		return nil
	}

	al.mu.Lock()
	if !al.closed {
		al.closed = true
		close(al.entries)
	}
	al.mu.Unlock()

	done := make(chan struct{})
	go func() {
		al.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	if al == nil {
		return AsyncLoggerStats{}
	}
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}
