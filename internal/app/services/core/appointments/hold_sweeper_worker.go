package appointments

import (
	"context"
	"healnexus-service/internal/app/config"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const holdSweeperLeaderTTL = 2 * time.Minute

// HoldSweeper cancels holds that were never paid for. Only the instance
// holding the leader lock sweeps on a given tick.
type HoldSweeper struct {
	log     *zap.Logger
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	usecase contracts.AppointmentUsecase
	now     func() time.Time
	cron    *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
}

func NewHoldSweeper(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, usecase contracts.AppointmentUsecase) *HoldSweeper {
	return &HoldSweeper{log: log, cfg: cfg, locker: lockerSvc, usecase: usecase, now: time.Now}
}

func (w *HoldSweeper) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Booking.HoldSweepCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("appointments.holdSweeper: invalid cron spec, falling back to @every 1m",
			zap.String("cron_spec", spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
	w.log.Info("appointments.holdSweeper started",
		zap.String("cron_spec", spec),
		zap.Duration("hold_expiry", w.cfg.Booking.HoldExpiry()),
	)
}

// Stop cancels in-flight sweeps and waits for running jobs to return.
func (w *HoldSweeper) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *HoldSweeper) runOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.BookingHoldSweeperLockKey, holdSweeperLeaderTTL)
	if err != nil {
		w.log.Warn("appointments.holdSweeper: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("appointments.holdSweeper: leader lock held by another instance")
		return
	}
	defer func() {
		if err := w.locker.Unlock(context.WithoutCancel(ctx), constvars.BookingHoldSweeperLockKey, token); err != nil {
			w.log.Warn("appointments.holdSweeper: failed to release leader lock", zap.Error(err))
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(holdSweeperLeaderTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.BookingHoldSweeperLockKey, token, holdSweeperLeaderTTL); err != nil {
					w.log.Warn("appointments.holdSweeper: failed to refresh leader lock", zap.Error(err))
				}
			}
		}
	}()

	cutoff := w.now().Add(-w.cfg.Booking.HoldExpiry())
	expired, err := w.usecase.ExpireHolds(ctx, cutoff)
	if err != nil {
		w.log.Warn("appointments.holdSweeper: sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		w.log.Info("appointments.holdSweeper: released expired holds", zap.Int(constvars.LoggingCountKey, expired))
	}
}
