package exceptions

import (
	"errors"
	"fmt"
	"healnexus-service/internal/pkg/constvars"
)

// Sentinel causes carried by booking errors. Match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSlotUnavailable  = errors.New("slot unavailable")
	ErrSlotHeld         = fmt.Errorf("%w: temporarily held", ErrSlotUnavailable)
	ErrSlotConflict     = errors.New("slot conflict")
	ErrAlreadyCancelled = errors.New("already cancelled")
	ErrNotHeld          = errors.New("appointment not held")
	ErrPaymentRejected  = errors.New("payment rejected")
	ErrUnavailable      = errors.New("storage unavailable")
)

var (
	ErrPatientProfileNotFound = func(statusCode int) *CustomError {
		return BuildNewCustomError(ErrNotFound, statusCode, constvars.ErrClientPatientNotFound, constvars.ErrDevPatientProfileNotFound)
	}
	ErrDoctorProfileNotFound = func(statusCode int) *CustomError {
		return BuildNewCustomError(ErrNotFound, statusCode, constvars.ErrClientDoctorNotFound, constvars.ErrDevDoctorProfileNotFound)
	}
	ErrAppointmentNotFound = func() *CustomError {
		return BuildNewCustomError(ErrNotFound, constvars.StatusNotFound, constvars.ErrClientAppointmentNotFound, constvars.ErrDevAppointmentNotFound)
	}
	ErrAppointmentNotOwned = func() *CustomError {
		return BuildNewCustomError(ErrUnauthorized, constvars.StatusBadRequest, constvars.ErrClientUnauthorizedAction, constvars.ErrDevAppointmentNotOwned)
	}
	ErrSlotAlreadyBooked = func() *CustomError {
		return BuildNewCustomError(ErrSlotUnavailable, constvars.StatusBadRequest, constvars.ErrClientSlotAlreadyBooked, constvars.ErrDevSlotAlreadyBooked)
	}
	ErrSlotTemporarilyHeld = func() *CustomError {
		return BuildNewCustomError(ErrSlotHeld, constvars.StatusBadRequest, constvars.ErrClientSlotTemporarilyHeld, constvars.ErrDevSlotTemporarilyHeld)
	}
	ErrSlotOccupied = func() *CustomError {
		return BuildNewCustomError(ErrSlotConflict, constvars.StatusBadRequest, constvars.ErrClientSlotConflict, constvars.ErrDevSlotConflict)
	}
	ErrAppointmentAlreadyCancelled = func() *CustomError {
		return BuildNewCustomError(ErrAlreadyCancelled, constvars.StatusBadRequest, constvars.ErrClientAppointmentAlreadyCancelled, constvars.ErrDevAppointmentCancelled)
	}
	ErrAppointmentNotHeld = func() *CustomError {
		return BuildNewCustomError(ErrNotHeld, constvars.StatusBadRequest, constvars.ErrClientAppointmentNotAwaitingPayment, constvars.ErrDevAppointmentNotHeld)
	}
	ErrPaymentNotVerified = func(err error) *CustomError {
		if err == nil {
			err = ErrPaymentRejected
		}
		return BuildNewCustomError(fmt.Errorf("%w: %v", ErrPaymentRejected, err), constvars.StatusPaymentRequired, constvars.ErrClientPaymentRejected, constvars.ErrDevPaymentRejected)
	}
	ErrBookingLockTimeout = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevBookingLockTimeout)
	}
	ErrBookingStorage = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevBookingStorage)
	}
)

func joinUnavailable(err error) error {
	if err == nil {
		return ErrUnavailable
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
