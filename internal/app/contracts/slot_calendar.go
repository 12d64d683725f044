package contracts

import (
	"context"
	"healnexus-service/internal/app/models"
	"time"
)

// SlotCalendarRepository stores the occupied entries of doctors' calendars.
// Reserve is an atomic set-if-absent on (doctor, date, time).
type SlotCalendarRepository interface {
	Reserve(ctx context.Context, reservation *models.SlotReservation) (bool, error)
	FindSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.SlotReservation, error)
	FindByDoctorID(ctx context.Context, doctorID string) ([]models.SlotReservation, error)
	ConfirmSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string, now time.Time) (bool, error)
	ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string) (bool, error)
}
