package appointments

import (
	"context"
	"errors"
	"healnexus-service/internal/app/config"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/dto/responses"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type appointmentUsecase struct {
	AppointmentRepository    contracts.AppointmentRepository
	SlotCalendarRepository   contracts.SlotCalendarRepository
	DoctorProfileRepository  contracts.DoctorProfileRepository
	PatientProfileRepository contracts.PatientProfileRepository
	UserRepository           contracts.UserRepository
	LockService              contracts.LockerService
	MailerService            contracts.MailerService
	ReceiptStorage           contracts.ReceiptStorage
	PaymentGateway           contracts.PaymentGatewayService
	Metrics                  contracts.BookingMetrics
	InternalConfig           *config.InternalConfig
	Log                      *zap.Logger

	now        func() time.Time
	background sync.WaitGroup
}

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	slotCalendarRepository contracts.SlotCalendarRepository,
	doctorProfileRepository contracts.DoctorProfileRepository,
	patientProfileRepository contracts.PatientProfileRepository,
	userRepository contracts.UserRepository,
	lockService contracts.LockerService,
	mailerService contracts.MailerService,
	receiptStorage contracts.ReceiptStorage,
	paymentGateway contracts.PaymentGatewayService,
	metrics contracts.BookingMetrics,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *appointmentUsecase {
	return &appointmentUsecase{
		AppointmentRepository:    appointmentRepository,
		SlotCalendarRepository:   slotCalendarRepository,
		DoctorProfileRepository:  doctorProfileRepository,
		PatientProfileRepository: patientProfileRepository,
		UserRepository:           userRepository,
		LockService:              lockService,
		MailerService:            mailerService,
		ReceiptStorage:           receiptStorage,
		PaymentGateway:           paymentGateway,
		Metrics:                  metrics,
		InternalConfig:           internalConfig,
		Log:                      logger,
		now:                      time.Now,
	}
}

var _ contracts.AppointmentUsecase = (*appointmentUsecase)(nil)

// Wait blocks until background notifications and receipt uploads finish.
func (uc *appointmentUsecase) Wait() {
	uc.background.Wait()
}

func (uc *appointmentUsecase) BookAppointment(ctx context.Context, input *requests.BookAppointmentInput) (result *responses.BookAppointment, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.BookAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, input.UserID),
		zap.String(constvars.LoggingDoctorIDKey, input.DoctorID),
		zap.String(constvars.LoggingSlotDateKey, input.SlotDate),
		zap.String(constvars.LoggingSlotTimeKey, input.SlotTime),
	)
	defer func() { uc.record(constvars.BookingOperationBook, err) }()

	patient, err := uc.PatientProfileRepository.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, uc.storageError(ctx, "BookAppointment", err)
	}
	if patient == nil {
		return nil, exceptions.ErrPatientProfileNotFound(constvars.StatusBadRequest)
	}

	doctor, err := uc.DoctorProfileRepository.FindByID(ctx, input.DoctorID)
	if err != nil {
		return nil, uc.storageError(ctx, "BookAppointment", err)
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorProfileNotFound(constvars.StatusBadRequest)
	}

	now := uc.now()
	appointment := &models.Appointment{
		ID:        primitive.NewObjectID().Hex(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		SlotDate:  input.SlotDate,
		SlotTime:  input.SlotTime,
		Amount:    doctor.ConsultationFee,
	}
	appointment.SetCreatedAtUpdatedAt(now)

	err = uc.claimSlot(ctx, appointment, now)
	if err != nil {
		return nil, err
	}

	err = uc.AppointmentRepository.CreateAppointment(ctx, appointment)
	if err != nil {
		if _, releaseErr := uc.SlotCalendarRepository.ReleaseSlot(ctx, doctor.ID, appointment.SlotDate, appointment.SlotTime, appointment.ID); releaseErr != nil {
			uc.Log.Error("appointmentUsecase.BookAppointment error releasing slot after failed insert",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.Error(releaseErr),
			)
		}
		return nil, uc.storageError(ctx, "BookAppointment", err)
	}

	uc.notify(ctx, appointment, constvars.BookingEventAppointmentBooked)

	uc.Log.Info("appointmentUsecase.BookAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.Float64(constvars.LoggingAmountKey, appointment.Amount),
	)
	return &responses.BookAppointment{
		AppointmentID: appointment.ID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		Amount:        appointment.Amount,
		Status:        constvars.AppointmentStatusHeld,
	}, nil
}

// claimSlot holds the slot for a new appointment. The unique reservation key
// decides free and plainly taken slots without the calendar lock; only
// reclaiming a stale reservation waits for it.
func (uc *appointmentUsecase) claimSlot(ctx context.Context, appointment *models.Appointment, now time.Time) error {
	reserved, err := uc.SlotCalendarRepository.Reserve(ctx, newSlotReservation(appointment, constvars.SlotStatusHeld, now))
	if err != nil {
		return uc.storageError(ctx, "claimSlot", err)
	}
	if reserved {
		return nil
	}

	existing, err := uc.SlotCalendarRepository.FindSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	if err != nil {
		return uc.storageError(ctx, "claimSlot", err)
	}
	if existing != nil {
		stale, err := uc.isStaleReservation(ctx, existing, now)
		if err != nil {
			return err
		}
		if !stale {
			return slotTakenError(existing)
		}
	}

	unlock, err := uc.lockDoctorCalendar(ctx, appointment.DoctorID)
	if err != nil {
		return err
	}
	defer unlock()

	return uc.reserveSlot(ctx, appointment, constvars.SlotStatusHeld, now)
}

func newSlotReservation(appointment *models.Appointment, status string, now time.Time) *models.SlotReservation {
	reservation := &models.SlotReservation{
		DoctorID:      appointment.DoctorID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		AppointmentID: appointment.ID,
		Status:        status,
	}
	reservation.SetCreatedAtUpdatedAt(now)
	return reservation
}

func slotTakenError(existing *models.SlotReservation) error {
	if existing.Status == constvars.SlotStatusHeld {
		return exceptions.ErrSlotTemporarilyHeld()
	}
	return exceptions.ErrSlotAlreadyBooked()
}

// reserveSlot moves the slot from FREE to status for appointment. A slot still
// pointing at a cancelled or never-created appointment is reclaimed first.
func (uc *appointmentUsecase) reserveSlot(ctx context.Context, appointment *models.Appointment, status string, now time.Time) error {
	reservation := newSlotReservation(appointment, status, now)

	reserved, err := uc.SlotCalendarRepository.Reserve(ctx, reservation)
	if err != nil {
		return uc.storageError(ctx, "reserveSlot", err)
	}
	if reserved {
		return nil
	}

	existing, err := uc.SlotCalendarRepository.FindSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	if err != nil {
		return uc.storageError(ctx, "reserveSlot", err)
	}
	if existing == nil {
		reserved, err = uc.SlotCalendarRepository.Reserve(ctx, reservation)
		if err != nil {
			return uc.storageError(ctx, "reserveSlot", err)
		}
		if reserved {
			return nil
		}
		return exceptions.ErrSlotAlreadyBooked()
	}

	stale, err := uc.isStaleReservation(ctx, existing, now)
	if err != nil {
		return err
	}
	if !stale {
		return slotTakenError(existing)
	}

	uc.Log.Warn("appointmentUsecase.reserveSlot reclaiming stale reservation",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingDoctorIDKey, existing.DoctorID),
		zap.String(constvars.LoggingSlotDateKey, existing.SlotDate),
		zap.String(constvars.LoggingSlotTimeKey, existing.SlotTime),
		zap.String(constvars.LoggingAppointmentIDKey, existing.AppointmentID),
	)
	_, err = uc.SlotCalendarRepository.ReleaseSlot(ctx, existing.DoctorID, existing.SlotDate, existing.SlotTime, existing.AppointmentID)
	if err != nil {
		return uc.storageError(ctx, "reserveSlot", err)
	}

	reserved, err = uc.SlotCalendarRepository.Reserve(ctx, reservation)
	if err != nil {
		return uc.storageError(ctx, "reserveSlot", err)
	}
	if !reserved {
		return exceptions.ErrSlotAlreadyBooked()
	}
	return nil
}

// isStaleReservation reports whether a reservation outlived its appointment:
// the appointment was cancelled, or it was never written within the lock TTL
// of the reservation, which Book writes right before the appointment.
func (uc *appointmentUsecase) isStaleReservation(ctx context.Context, reservation *models.SlotReservation, now time.Time) (bool, error) {
	owner, err := uc.AppointmentRepository.FindByID(ctx, reservation.AppointmentID)
	if err != nil {
		return false, uc.storageError(ctx, "isStaleReservation", err)
	}
	if owner != nil {
		return owner.Cancelled, nil
	}
	return now.Sub(reservation.CreatedAt) > uc.InternalConfig.Booking.LockTTL(), nil
}

func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID, userID string) (result *responses.AppointmentStatus, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	defer func() { uc.record(constvars.BookingOperationCancel, err) }()

	appointment, err := uc.findOwnedAppointment(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if appointment.Cancelled {
		return nil, exceptions.ErrAppointmentAlreadyCancelled()
	}

	unlock, err := uc.lockDoctorCalendar(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	appointment, err = uc.cancelLocked(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, appointment, constvars.BookingEventAppointmentCancelled)

	uc.Log.Info("appointmentUsecase.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return &responses.AppointmentStatus{
		AppointmentID: appointmentID,
		Status:        constvars.AppointmentStatusCancelled,
	}, nil
}

// cancelLocked re-reads the appointment, marks it cancelled and frees its
// slot. Callers must hold the doctor's calendar lock.
func (uc *appointmentUsecase) cancelLocked(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, uc.storageError(ctx, "cancelLocked", err)
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound()
	}
	if appointment.Cancelled {
		return nil, exceptions.ErrAppointmentAlreadyCancelled()
	}

	now := uc.now()
	cancelled, err := uc.AppointmentRepository.MarkCancelled(ctx, appointmentID, appointment.Paid, now)
	if err != nil {
		return nil, uc.storageError(ctx, "cancelLocked", err)
	}
	if !cancelled {
		return nil, exceptions.ErrAppointmentAlreadyCancelled()
	}

	released, err := uc.SlotCalendarRepository.ReleaseSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime, appointment.ID)
	if err != nil {
		return nil, uc.storageError(ctx, "cancelLocked", err)
	}
	if !released {
		uc.Log.Warn("appointmentUsecase.cancelLocked slot was not reserved by this appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		)
	}

	if appointment.Paid {
		uc.Log.Warn("appointmentUsecase.cancelLocked cancelled a paid appointment, refund must be reconciled",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Float64(constvars.LoggingAmountKey, appointment.Amount),
		)
		appointment.CancelledAfterPayment = true
	}
	appointment.Cancelled = true
	appointment.SetUpdatedAt(now)
	return appointment, nil
}

func (uc *appointmentUsecase) ConfirmPayment(ctx context.Context, appointmentID, userID string) (result *responses.AppointmentStatus, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ConfirmPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	defer func() { uc.record(constvars.BookingOperationConfirmPayment, err) }()

	appointment, err := uc.findOwnedAppointment(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsHeld() {
		return nil, exceptions.ErrAppointmentNotHeld()
	}

	err = uc.PaymentGateway.VerifyPayment(ctx, appointment.ID, appointment.Amount)
	if err != nil {
		return nil, exceptions.ErrPaymentNotVerified(err)
	}

	unlock, err := uc.lockDoctorCalendar(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	appointment, err = uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, uc.storageError(ctx, "ConfirmPayment", err)
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound()
	}
	if !appointment.IsHeld() {
		return nil, exceptions.ErrAppointmentNotHeld()
	}

	now := uc.now()
	err = uc.confirmSlot(ctx, appointment, now)
	if err != nil {
		return nil, err
	}

	paid, err := uc.AppointmentRepository.MarkPaid(ctx, appointment.ID, now)
	if err != nil {
		return nil, uc.storageError(ctx, "ConfirmPayment", err)
	}
	if !paid {
		return nil, exceptions.ErrAppointmentNotHeld()
	}
	appointment.Paid = true
	appointment.SetUpdatedAt(now)

	uc.archiveReceipt(ctx, appointment, now)
	uc.notify(ctx, appointment, constvars.BookingEventAppointmentPaid)

	uc.Log.Info("appointmentUsecase.ConfirmPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Float64(constvars.LoggingAmountKey, appointment.Amount),
	)
	return &responses.AppointmentStatus{
		AppointmentID: appointmentID,
		Status:        constvars.AppointmentStatusConfirmed,
	}, nil
}

// confirmSlot upgrades the appointment's hold to CONFIRMED. A slot already
// confirmed for the same appointment is accepted so a retried confirmation
// can finish after a partial failure.
func (uc *appointmentUsecase) confirmSlot(ctx context.Context, appointment *models.Appointment, now time.Time) error {
	confirmed, err := uc.SlotCalendarRepository.ConfirmSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime, appointment.ID, now)
	if err != nil {
		return uc.storageError(ctx, "confirmSlot", err)
	}
	if confirmed {
		return nil
	}

	existing, err := uc.SlotCalendarRepository.FindSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime)
	if err != nil {
		return uc.storageError(ctx, "confirmSlot", err)
	}
	if existing != nil {
		if existing.AppointmentID == appointment.ID {
			return nil
		}
		stale, err := uc.isStaleReservation(ctx, existing, now)
		if err != nil {
			return err
		}
		if !stale {
			return exceptions.ErrSlotOccupied()
		}
	}

	err = uc.reserveSlot(ctx, appointment, constvars.SlotStatusConfirmed, now)
	if err != nil {
		if errors.Is(err, exceptions.ErrSlotUnavailable) {
			return exceptions.ErrSlotOccupied()
		}
		return err
	}
	return nil
}

func (uc *appointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID, userID string) (result *responses.AppointmentStatus, err error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CompleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	defer func() { uc.record(constvars.BookingOperationComplete, err) }()

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, uc.storageError(ctx, "CompleteAppointment", err)
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound()
	}

	doctor, err := uc.DoctorProfileRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, uc.storageError(ctx, "CompleteAppointment", err)
	}
	if doctor == nil || doctor.ID != appointment.DoctorID {
		return nil, exceptions.ErrAppointmentNotOwned()
	}
	if appointment.Cancelled {
		return nil, exceptions.ErrAppointmentAlreadyCancelled()
	}

	response := &responses.AppointmentStatus{
		AppointmentID: appointmentID,
		Status:        constvars.AppointmentStatusCompleted,
	}
	if appointment.Completed {
		return response, nil
	}

	unlock, err := uc.lockDoctorCalendar(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	completed, err := uc.AppointmentRepository.MarkCompleted(ctx, appointmentID, uc.now())
	if err != nil {
		return nil, uc.storageError(ctx, "CompleteAppointment", err)
	}
	if !completed {
		return nil, exceptions.ErrAppointmentAlreadyCancelled()
	}

	uc.Log.Info("appointmentUsecase.CompleteAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return response, nil
}

// ExpireHolds cancels unpaid appointments created before heldBefore and frees
// their slots. It returns how many holds were released.
func (uc *appointmentUsecase) ExpireHolds(ctx context.Context, heldBefore time.Time) (int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ExpireHolds called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Time("held_before", heldBefore),
	)

	held, err := uc.AppointmentRepository.FindHeldBefore(ctx, heldBefore, uc.InternalConfig.Booking.HoldSweepBatchSize)
	if err != nil {
		return 0, uc.storageError(ctx, "ExpireHolds", err)
	}

	expired := 0
	for _, candidate := range held {
		if ctx.Err() != nil {
			return expired, exceptions.ErrServerDeadlineExceeded(ctx.Err())
		}

		released, err := uc.expireHold(ctx, candidate, heldBefore)
		uc.record(constvars.BookingOperationExpireHold, err)
		if err != nil {
			uc.Log.Warn("appointmentUsecase.ExpireHolds failed to expire hold",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, candidate.ID),
				zap.Error(err),
			)
			continue
		}
		if released {
			expired++
		}
	}

	uc.Log.Info("appointmentUsecase.ExpireHolds succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, expired),
	)
	return expired, nil
}

func (uc *appointmentUsecase) expireHold(ctx context.Context, candidate models.Appointment, heldBefore time.Time) (bool, error) {
	unlock, err := uc.lockDoctorCalendar(ctx, candidate.DoctorID)
	if err != nil {
		return false, err
	}
	defer unlock()

	current, err := uc.AppointmentRepository.FindByID(ctx, candidate.ID)
	if err != nil {
		return false, uc.storageError(ctx, "expireHold", err)
	}
	if current == nil || !current.IsHeld() || !current.CreatedAt.Before(heldBefore) {
		return false, nil
	}

	appointment, err := uc.cancelLocked(ctx, candidate.ID)
	if err != nil {
		return false, err
	}
	uc.notify(ctx, appointment, constvars.BookingEventHoldExpired)
	return true, nil
}
