package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the ledger recorder.
type RecorderConfig struct {
	// Enabled enables ledger recording.
	Enabled bool

	// BufferSize is the size of the async write channel buffer.
	// Default: 1024
	BufferSize int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Enabled:      true,
		BufferSize:   1024,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder appends ledger records asynchronously so orchestration never
// blocks on ledger writes. Records are enqueued to a buffered channel
// drained by a background worker; when the queue is full the oldest
// pending record is dropped so recent history wins.
type Recorder struct {
	store      Store
	config     *RecorderConfig
	recordChan chan *Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a ledger recorder backed by the given store.
func NewRecorder(store Store, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:      store,
		config:     config,
		recordChan: make(chan *Record, config.BufferSize),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "ledger.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("ledger recorder initialized",
		"buffer_size", config.BufferSize,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record assigns the record an ID and timestamp if missing and enqueues
// it for async writing. It never blocks: when the queue is full the
// oldest pending record is dropped to make room.
func (r *Recorder) Record(record *Record) {
	if !r.config.Enabled || record == nil {
		return
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	select {
	case r.recordChan <- record:
		return
	default:
	}

	// Queue full: drop the oldest pending record to make room
	select {
	case dropped := <-r.recordChan:
		r.logger.Warn("ledger queue full, dropped oldest pending record",
			"dropped_id", dropped.ID,
			"queue_capacity", r.config.BufferSize,
		)
	default:
	}

	select {
	case r.recordChan <- record:
	default:
		r.logger.Warn("ledger queue full, record dropped",
			"record_id", record.ID,
		)
	}
}

// Close gracefully shuts down the recorder by draining the queue and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down ledger recorder")

		close(r.done)
		r.wg.Wait()

		r.logger.Info("ledger recorder shut down complete")
	})

	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records from channel before exit
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.store.Append(ctx, record); err != nil {
		r.logger.Error("failed to append ledger record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}

	r.logger.Debug("ledger record written",
		"record_id", record.ID,
		"outcome", record.Outcome,
		"space", record.SpaceKey,
	)
}
