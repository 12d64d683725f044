package appointments

import (
	"context"
	"errors"
	"fmt"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockRetryInitialBackoff = 5 * time.Millisecond
	lockRetryMaxBackoff     = 50 * time.Millisecond
)

// lockDoctorCalendar serializes every calendar mutation of one doctor. It
// waits up to the configured lock wait before giving up with a busy error.
func (uc *appointmentUsecase) lockDoctorCalendar(ctx context.Context, doctorID string) (func(), error) {
	requestID := utils.GetRequestID(ctx)
	key := fmt.Sprintf(constvars.BookingDoctorLockKeyFormat, doctorID)
	start := time.Now()
	deadline := start.Add(uc.InternalConfig.Booking.LockWait())
	backoff := lockRetryInitialBackoff

	for {
		acquired, lockValue, err := uc.LockService.TryLock(ctx, key, uc.InternalConfig.Booking.LockTTL())
		if err != nil {
			uc.observeLockWait(start, false)
			uc.Log.Error("appointmentUsecase.lockDoctorCalendar error acquiring lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Error(err),
			)
			return nil, exceptions.ErrBookingStorage(err)
		}
		if acquired {
			uc.observeLockWait(start, true)
			return func() {
				unlockErr := uc.LockService.Unlock(context.WithoutCancel(ctx), key, lockValue)
				if unlockErr != nil {
					uc.Log.Warn("appointmentUsecase.lockDoctorCalendar failed to release lock",
						zap.String(constvars.LoggingRequestIDKey, requestID),
						zap.String(constvars.LoggingRedisKey, key),
						zap.Error(unlockErr),
					)
				}
			}, nil
		}

		if !time.Now().Add(backoff).Before(deadline) {
			uc.observeLockWait(start, false)
			uc.Log.Warn("appointmentUsecase.lockDoctorCalendar timed out waiting for lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
			)
			return nil, exceptions.ErrBookingLockTimeout(errors.New(key))
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			uc.observeLockWait(start, false)
			return nil, exceptions.ErrServerDeadlineExceeded(ctx.Err())
		case <-timer.C:
		}

		backoff *= 2
		if backoff > lockRetryMaxBackoff {
			backoff = lockRetryMaxBackoff
		}
	}
}

func (uc *appointmentUsecase) observeLockWait(start time.Time, acquired bool) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.ObserveLockWait(time.Since(start).Seconds(), acquired)
}

func (uc *appointmentUsecase) record(operation string, err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOperation(operation, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return constvars.BookingOutcomeSuccess
	case errors.Is(err, exceptions.ErrSlotHeld):
		return constvars.BookingOutcomeSlotHeld
	case errors.Is(err, exceptions.ErrSlotUnavailable):
		return constvars.BookingOutcomeSlotUnavailable
	case errors.Is(err, exceptions.ErrSlotConflict):
		return constvars.BookingOutcomeSlotConflict
	case errors.Is(err, exceptions.ErrNotFound):
		return constvars.BookingOutcomeNotFound
	case errors.Is(err, exceptions.ErrUnauthorized):
		return constvars.BookingOutcomeUnauthorized
	case errors.Is(err, exceptions.ErrAlreadyCancelled):
		return constvars.BookingOutcomeAlreadyCancelled
	case errors.Is(err, exceptions.ErrNotHeld):
		return constvars.BookingOutcomeNotHeld
	case errors.Is(err, exceptions.ErrPaymentRejected):
		return constvars.BookingOutcomePaymentRejected
	case errors.Is(err, exceptions.ErrUnavailable):
		return constvars.BookingOutcomeUnavailable
	default:
		return constvars.BookingOutcomeError
	}
}

// storageError turns a repository failure into the busy/unavailable error.
// Errors that already carry a status pass through untouched.
func (uc *appointmentUsecase) storageError(ctx context.Context, method string, err error) error {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	uc.Log.Error(fmt.Sprintf("appointmentUsecase.%s storage error", method),
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	return exceptions.ErrBookingStorage(err)
}

// findOwnedAppointment loads an appointment and checks it belongs to the
// patient profile of userID.
func (uc *appointmentUsecase) findOwnedAppointment(ctx context.Context, appointmentID, userID string) (*models.Appointment, error) {
	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, uc.storageError(ctx, "findOwnedAppointment", err)
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound()
	}

	patient, err := uc.PatientProfileRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, uc.storageError(ctx, "findOwnedAppointment", err)
	}
	if patient == nil || patient.ID != appointment.PatientID {
		uc.Log.Warn("appointmentUsecase.findOwnedAppointment caller does not own appointment",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.String(constvars.LoggingUserIDKey, userID),
		)
		return nil, exceptions.ErrAppointmentNotOwned()
	}
	return appointment, nil
}

// detach returns a context that survives the request but keeps its request id.
func (uc *appointmentUsecase) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	background := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, utils.GetRequestID(ctx))
	timeout := uc.InternalConfig.Booking.NotificationTimeout()
	if timeout <= 0 {
		return context.WithCancel(background)
	}
	return context.WithTimeout(background, timeout)
}

// notify emails the patient about a state change. Delivery runs after the
// response is sent and failures are only logged.
func (uc *appointmentUsecase) notify(ctx context.Context, appointment *models.Appointment, event string) {
	if uc.MailerService == nil {
		return
	}
	snapshot := *appointment

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		notifyCtx, cancel := uc.detach(ctx)
		defer cancel()

		start := time.Now()
		err := uc.sendNotification(notifyCtx, &snapshot, event)
		utils.LogDuration(uc.Log, "appointmentUsecase.notify finished", start, err,
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(notifyCtx)),
			zap.String(constvars.LoggingAppointmentIDKey, snapshot.ID),
			zap.String("event", event),
		)
	}()
}

func (uc *appointmentUsecase) sendNotification(ctx context.Context, appointment *models.Appointment, event string) error {
	patient, err := uc.PatientProfileRepository.FindByID(ctx, appointment.PatientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return exceptions.ErrPatientProfileNotFound(constvars.StatusNotFound)
	}
	patientUser, err := uc.UserRepository.FindByID(ctx, patient.UserID)
	if err != nil {
		return err
	}
	if patientUser == nil || patientUser.Email == "" {
		return exceptions.ErrPatientProfileNotFound(constvars.StatusNotFound)
	}

	doctorName := appointment.DoctorID
	doctor, err := uc.DoctorProfileRepository.FindByID(ctx, appointment.DoctorID)
	if err != nil {
		return err
	}
	if doctor != nil {
		doctorUser, err := uc.UserRepository.FindByID(ctx, doctor.UserID)
		if err != nil {
			return err
		}
		if doctorUser != nil {
			doctorName = doctorUser.UserName
		}
	}

	subject, state := emailSubjectFor(event)
	return uc.MailerService.SendEmail(ctx, &requests.EmailPayload{
		Subject:       subject,
		From:          uc.InternalConfig.Mailer.EmailSender,
		To:            []string{patientUser.Email},
		Body:          fmt.Sprintf(constvars.EmailBodyAppointmentFormat, patientUser.UserName, doctorName, appointment.SlotDate, appointment.SlotTime, state),
		AppointmentID: appointment.ID,
		Event:         event,
	})
}

func emailSubjectFor(event string) (subject, state string) {
	switch event {
	case constvars.BookingEventAppointmentPaid:
		return constvars.EmailSubjectAppointmentPaid, constvars.AppointmentStatusConfirmed
	case constvars.BookingEventAppointmentCancelled, constvars.BookingEventHoldExpired:
		return constvars.EmailSubjectAppointmentCancelled, constvars.AppointmentStatusCancelled
	default:
		return constvars.EmailSubjectAppointmentBooked, "awaiting payment"
	}
}

// archiveReceipt uploads the payment receipt in the background.
func (uc *appointmentUsecase) archiveReceipt(ctx context.Context, appointment *models.Appointment, paidAt time.Time) {
	if uc.ReceiptStorage == nil {
		return
	}
	receipt := &requests.PaymentReceipt{
		ReceiptID:     uuid.NewString(),
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		Amount:        appointment.Amount,
		PaidAt:        paidAt.UTC().Format(time.RFC3339),
	}

	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		archiveCtx, cancel := uc.detach(ctx)
		defer cancel()

		start := time.Now()
		objectName, err := uc.ReceiptStorage.ArchiveReceipt(archiveCtx, receipt)
		utils.LogDuration(uc.Log, "appointmentUsecase.archiveReceipt finished", start, err,
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(archiveCtx)),
			zap.String(constvars.LoggingAppointmentIDKey, receipt.AppointmentID),
			zap.String(constvars.LoggingObjectKey, objectName),
		)
	}()
}
