package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/config"
	"github.com/mamadbah2/partsdash/internal/domain/models"
	"github.com/mamadbah2/partsdash/internal/provider"
	"github.com/mamadbah2/partsdash/internal/service/dashboard"
)

// SnapshotWriter persists dashboard snapshots.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	provider  *provider.Provider
	dashboard *dashboard.Service
	archive   SnapshotWriter
	cfg       config.SnapshotConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SnapshotConfig, p *provider.Provider, svc *dashboard.Service, archive SnapshotWriter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		provider:  p,
		dashboard: svc,
		archive:   archive,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSnapshot); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.TakeSnapshot(ctx); err != nil {
		s.logger.Error("failed to archive dashboard snapshot", zap.Error(err))
	}
}

// TakeSnapshot builds the default sample dashboard and archives its KPIs.
func (s *Scheduler) TakeSnapshot(ctx context.Context) error {
	result := s.provider.Sample()
	sel := dashboard.DefaultSelection(result.Tables)
	view := s.dashboard.Build(result.Tables, sel)

	rate, _ := view.KPIs.StockoutRate.Float64()
	snapshot := models.Snapshot{
		TakenAt:        s.now().UTC(),
		Source:         result.InventorySource,
		ProductLines:   sel.Lines,
		Start:          sel.Start,
		End:            sel.End,
		TotalSKUs:      view.KPIs.TotalSKUs,
		TotalQtyOnHand: view.KPIs.TotalQtyOnHand,
		StockoutRate:   rate,
		ByLine:         view.ByLine,
	}

	if err := s.archive.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("dashboard snapshot archived",
		zap.Int("total_skus", snapshot.TotalSKUs),
		zap.Int("total_qty_on_hand", snapshot.TotalQtyOnHand),
		zap.Float64("stockout_rate", snapshot.StockoutRate))
	return nil
}
