package accrualservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Accruer runs one accrual scan.
//
//go:generate mockgen -source scheduler.go -destination scheduler_mock.go -package accrualservice
type Accruer interface {
	Accrue(ctx context.Context, now time.Time) (domain.AccrualReport, error)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Scheduler runs accrual scans on a fixed interval. A scan that is still running when the
// next tick fires makes the scheduler skip that tick.
type Scheduler struct {
	accruer  Accruer
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

// NewScheduler returns Scheduler.
func NewScheduler(accruer Accruer, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Scheduler{
		accruer:  accruer,
		interval: interval,
		logger:   logger.With().Str("component", "accrual").Logger(),
		now:      time.Now,
	}
}

// Start schedules the scans. Scans stop when ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(s.logger.WithContext(ctx))

	cl := cronLogger{logger: s.logger}
	c := cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl))

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.tick(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule accrual: %w", err)
	}

	c.Start()

	s.cron = c
	s.cancel = cancel
	s.running = true

	s.logger.Info().Dur("interval", s.interval).Msg("accrual scheduler started")

	return nil
}

// Stop cancels a running scan and waits for it to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}

	c, cancel := s.cron, s.cancel
	s.running = false
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	cancel()

	select {
	case <-c.Stop().Done():
		s.logger.Info().Msg("accrual scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := s.accruer.Accrue(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Msg("accrual scan failed")
		return
	}

	if report.Accrued > 0 || report.Failed > 0 {
		s.logger.Info().
			Int("scanned", report.Scanned).
			Int("accrued", report.Accrued).
			Int("failed", report.Failed).
			Msg("accrual scan")
	}
}
