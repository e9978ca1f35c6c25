package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/internal/infrastructure/journal"
)

// SweeperConfig controls the retention sweep of the import journal.
type SweeperConfig struct {
	// Schedule is a cron expression with a seconds field.
	Schedule      string
	RetentionDays int
}

// JournalSweeper prunes old import receipts on a schedule so the local
// journal file stays small.
type JournalSweeper struct {
	store  *journal.Store
	cfg    SweeperConfig
	cron   *cron.Cron
	logger *zap.Logger
}

func NewJournalSweeper(store *journal.Store, cfg SweeperConfig, logger *zap.Logger) *JournalSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 4 * * *"
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}

	sweeper := &JournalSweeper{
		store:  store,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}

	_, _ = sweeper.cron.AddFunc(cfg.Schedule, sweeper.sweep)
	return sweeper
}

// Start launches the cron scheduler.
func (s *JournalSweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *JournalSweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (s *JournalSweeper) sweep() {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	pruned, err := s.store.PruneBefore(cutoff)
	if err != nil {
		s.logger.Error("journal sweep failed", zap.Error(err))
		return
	}
	if pruned > 0 {
		s.logger.Info("journal receipts pruned", zap.Int("count", pruned), zap.Time("cutoff", cutoff))
	}
}
