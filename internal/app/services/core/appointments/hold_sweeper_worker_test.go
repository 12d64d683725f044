package appointments

import (
	"context"
	"healnexus-service/internal/app/services/shared/locker"
	"healnexus-service/internal/app/services/shared/memory"
	"healnexus-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHoldSweeper_RunOnce(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	bookedAt := time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	f.usecase.now = func() time.Time { return bookedAt }
	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	kv := memory.NewKeyValueStore()
	lockSvc := locker.NewLockService(kv, zap.NewNop())
	sweeper := NewHoldSweeper(zap.NewNop(), f.usecase.InternalConfig, lockSvc, f.usecase)
	sweeper.now = func() time.Time { return bookedAt.Add(10 * time.Minute) }

	sweeper.runOnce(ctx)
	stored, err := f.appointments.FindByID(ctx, appointmentID)
	require.NoError(t, err)
	assert.False(t, stored.Cancelled, "hold is younger than the expiry")

	sweeper.now = func() time.Time { return bookedAt.Add(20 * time.Minute) }
	sweeper.runOnce(ctx)
	stored, err = f.appointments.FindByID(ctx, appointmentID)
	require.NoError(t, err)
	assert.True(t, stored.Cancelled)
	assert.Equal(t, constvars.SlotStatusFree, f.slotStatus(t))

	value, err := kv.Get(ctx, constvars.BookingHoldSweeperLockKey)
	require.NoError(t, err)
	assert.Empty(t, value, "leader lock is released after the sweep")
}

func TestHoldSweeper_SkipsWhenAnotherInstanceLeads(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	bookedAt := time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	f.usecase.now = func() time.Time { return bookedAt }
	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	kv := memory.NewKeyValueStore()
	lockSvc := locker.NewLockService(kv, zap.NewNop())
	acquired, _, err := lockSvc.TryLock(ctx, constvars.BookingHoldSweeperLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	sweeper := NewHoldSweeper(zap.NewNop(), f.usecase.InternalConfig, lockSvc, f.usecase)
	sweeper.now = func() time.Time { return bookedAt.Add(time.Hour) }
	sweeper.runOnce(ctx)

	stored, err := f.appointments.FindByID(ctx, appointmentID)
	require.NoError(t, err)
	assert.False(t, stored.Cancelled)
}

func TestHoldSweeper_StartStop(t *testing.T) {
	f := newBookingFixture(t)
	f.usecase.InternalConfig.Booking.HoldSweepCronSpec = "not a cron spec"

	sweeper := NewHoldSweeper(zap.NewNop(), f.usecase.InternalConfig, locker.NewLockService(memory.NewKeyValueStore(), zap.NewNop()), f.usecase)
	sweeper.Start(context.Background())
	require.NotNil(t, sweeper.cron)
	assert.Len(t, sweeper.cron.Entries(), 1)
	sweeper.Stop()
}
