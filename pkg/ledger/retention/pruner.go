package retention

import (
	"context"
	"log/slog"
	"time"

	"pagecraft/quill/pkg/ledger"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain ledger records.
	// 0 means keep records forever (no pruning).
	RetentionDays int

	// BatchSize caps how many records one delete pass removes, so a
	// large backlog cannot hold the write lock for the whole run.
	// Default: 1000
	BatchSize int
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		BatchSize:     1000,
	}
}

// Pruner deletes ledger records older than the retention period. It
// deletes in batches until no eligible records remain.
type Pruner struct {
	store  ledger.Store
	config *Config
	logger *slog.Logger
}

// NewPruner creates a retention pruner for the given store.
func NewPruner(store ledger.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1000
	}

	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "ledger.retention"),
	}
}

// Prune deletes records older than the retention period and returns the
// total number deleted. With RetentionDays zero it does nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing to prune")
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	var totalDeleted int64
	for {
		deleted, err := p.store.DeleteBefore(ctx, cutoff, p.config.BatchSize)
		if err != nil {
			return totalDeleted, ledger.NewRetentionError(p.config.RetentionDays, err)
		}
		totalDeleted += deleted

		if deleted < int64(p.config.BatchSize) {
			break
		}

		// More batches may remain; stop early if the caller gave up
		select {
		case <-ctx.Done():
			return totalDeleted, ledger.NewRetentionError(p.config.RetentionDays, ctx.Err())
		default:
		}
	}

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.RetentionDays,
		)
	} else {
		p.logger.Info("ledger pruning completed",
			"deleted_count", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff,
		)
	}

	return totalDeleted, nil
}

// Job wraps the pruner as a scheduler job.
func (p *Pruner) Job() Job {
	return Job{
		Name: "ledger_prune",
		Run:  p.Prune,
	}
}
