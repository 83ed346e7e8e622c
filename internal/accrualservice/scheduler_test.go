package accrualservice

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSchedulerTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	accruer := NewMockAccruer(ctrl)
	gomock.InOrder(
		accruer.EXPECT().Accrue(gomock.Any(), now).Return(domain.AccrualReport{Scanned: 2, Accrued: 1}, nil),
		accruer.EXPECT().Accrue(gomock.Any(), now).Return(domain.AccrualReport{}, errors.New("db down")),
	)

	s := NewScheduler(accruer, time.Second, zerolog.Nop())
	s.now = func() time.Time { return now }

	s.tick(context.Background())
	s.tick(context.Background())
}

func TestSchedulerTickSkipsCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accruer := NewMockAccruer(ctrl)
	accruer.EXPECT().Accrue(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewScheduler(accruer, time.Second, zerolog.Nop()).tick(ctx)
}

type countingAccruer struct {
	calls atomic.Int32
}

func (c *countingAccruer) Accrue(ctx context.Context, now time.Time) (domain.AccrualReport, error) {
	c.calls.Add(1)
	return domain.AccrualReport{}, nil
}

func TestSchedulerStartStop(t *testing.T) {
	accruer := &countingAccruer{}
	s := NewScheduler(accruer, time.Second, zerolog.Nop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return accruer.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))

	calls := accruer.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	require.Equal(t, calls, accruer.calls.Load())
}
