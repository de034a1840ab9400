package rate

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 12 * time.Hour

// CurrencyRefresher is the part of the provider the scheduler drives.
type CurrencyRefresher interface {
	RefreshCurrencies(ctx context.Context) error
}

// Scheduler periodically re-fetches the currency whitelist so newly
// listed currencies become valid without a restart.
type Scheduler struct {
	refresher       CurrencyRefresher
	refreshInterval time.Duration
	// -----
	sched gocron.Scheduler
}

func NewScheduler(refresher CurrencyRefresher, refreshInterval time.Duration) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	return &Scheduler{refresher: refresher, refreshInterval: refreshInterval}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if refreshErr := s.refresher.RefreshCurrencies(jobCtx); refreshErr != nil {
			logrus.Errorf("Currency whitelist refresh %s failed: %v", execID, refreshErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}
