package appointments

import (
	"context"
	"errors"
	"fmt"
	"healnexus-service/internal/app/config"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/app/services/shared/locker"
	"healnexus-service/internal/app/services/shared/memory"
	"healnexus-service/internal/app/services/shared/payment_gateway"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	usecase      *appointmentUsecase
	appointments *memory.AppointmentStore
	slots        *memory.SlotCalendarStore
	profiles     *memory.ProfileStore
	outbox       *memory.Outbox
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	logger := zap.NewNop()

	profiles := memory.NewProfileStore()
	profiles.PutUser(models.User{ID: "u-d1", UserName: "Richard James", Email: "richard@healnexus.test"})
	profiles.PutUser(models.User{ID: "u-p1", UserName: "Patient One", Email: "p1@healnexus.test"})
	profiles.PutUser(models.User{ID: "u-p2", UserName: "Patient Two", Email: "p2@healnexus.test"})
	profiles.PutDoctor(models.DoctorProfile{
		ID:              "D1",
		UserID:          "u-d1",
		Specialty:       "General physician",
		ConsultationFee: 50,
		ClinicAddress:   models.Address{Street: "17th Cross", City: "Richmond", State: "Circle"},
	})
	profiles.PutPatient(models.PatientProfile{ID: "P1", UserID: "u-p1"})
	profiles.PutPatient(models.PatientProfile{ID: "P2", UserID: "u-p2"})

	for i := 0; i < 20; i++ {
		userID := fmt.Sprintf("u-load-%d", i)
		profiles.PutUser(models.User{ID: userID, UserName: userID, Email: userID + "@healnexus.test"})
		profiles.PutPatient(models.PatientProfile{ID: fmt.Sprintf("load-%d", i), UserID: userID})
	}

	cfg := &config.InternalConfig{
		Booking: config.AppBooking{
			LockTTLInSeconds:             10,
			LockWaitInMilliseconds:       5000,
			HoldExpiryInMinutes:          15,
			HoldSweepBatchSize:           100,
			NotificationTimeoutInSeconds: 1,
		},
		Mailer: config.AppMailer{EmailSender: "no-reply@healnexus.test"},
	}

	appointments := memory.NewAppointmentStore()
	slots := memory.NewSlotCalendarStore()
	outbox := memory.NewOutbox(logger)
	uc := NewAppointmentUsecase(
		appointments,
		slots,
		profiles.Doctors(),
		profiles.Patients(),
		profiles.Users(),
		locker.NewLockService(memory.NewKeyValueStore(), logger),
		outbox,
		outbox,
		payment_gateway.NewStubPaymentGateway(logger),
		nil,
		cfg,
		logger,
	)

	return &bookingFixture{usecase: uc, appointments: appointments, slots: slots, profiles: profiles, outbox: outbox}
}

func (f *bookingFixture) book(userID string) (string, error) {
	result, err := f.usecase.BookAppointment(context.Background(), &requests.BookAppointmentInput{
		UserID:   userID,
		DoctorID: "D1",
		SlotDate: "2024-11-21",
		SlotTime: "10:00 AM",
	})
	if err != nil {
		return "", err
	}
	return result.AppointmentID, nil
}

func (f *bookingFixture) slotStatus(t *testing.T) string {
	t.Helper()
	reservation, err := f.slots.FindSlot(context.Background(), "D1", "2024-11-21", "10:00 AM")
	require.NoError(t, err)
	if reservation == nil {
		return constvars.SlotStatusFree
	}
	return reservation.Status
}

func TestBookAppointment_ConcurrentRequestsNeverDoubleBook(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.book(fmt.Sprintf("u-load-%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes++
		}(i)
	}
	wg.Wait()
	f.usecase.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		assert.True(t, errors.Is(err, exceptions.ErrSlotUnavailable), "unexpected error: %v", err)
	}
	assert.Equal(t, constvars.SlotStatusHeld, f.slotStatus(t))
}

func TestBookingLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{
		UserID:   "u-p1",
		DoctorID: "D1",
		SlotDate: "2024-11-21",
		SlotTime: "10:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, constvars.AppointmentStatusHeld, first.Status)
	assert.Equal(t, 50.0, first.Amount)
	assert.Equal(t, constvars.SlotStatusHeld, f.slotStatus(t))

	_, err = f.book("u-p2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrSlotHeld))

	confirmed, err := f.usecase.ConfirmPayment(ctx, first.AppointmentID, "u-p1")
	require.NoError(t, err)
	assert.Equal(t, constvars.AppointmentStatusConfirmed, confirmed.Status)
	assert.Equal(t, constvars.SlotStatusConfirmed, f.slotStatus(t))

	_, err = f.book("u-p2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrSlotUnavailable))
	assert.False(t, errors.Is(err, exceptions.ErrSlotHeld))

	cancelled, err := f.usecase.CancelAppointment(ctx, first.AppointmentID, "u-p1")
	require.NoError(t, err)
	assert.Equal(t, constvars.AppointmentStatusCancelled, cancelled.Status)
	assert.Equal(t, constvars.SlotStatusFree, f.slotStatus(t))

	stored, err := f.appointments.FindByID(ctx, first.AppointmentID)
	require.NoError(t, err)
	assert.True(t, stored.Cancelled)
	assert.True(t, stored.CancelledAfterPayment)

	second, err := f.book("u-p2")
	require.NoError(t, err)
	assert.NotEqual(t, first.AppointmentID, second)
	assert.Equal(t, constvars.SlotStatusHeld, f.slotStatus(t))

	f.usecase.Wait()
	receipt, ok := f.outbox.Receipt(fmt.Sprintf(constvars.ReceiptObjectKeyFormat, first.AppointmentID))
	require.True(t, ok)
	assert.Equal(t, 50.0, receipt.Amount)
	assert.Equal(t, "P1", receipt.PatientID)
}

func TestCancelAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	_, err = f.usecase.CancelAppointment(ctx, appointmentID, "u-p2")
	assert.True(t, errors.Is(err, exceptions.ErrUnauthorized))

	_, err = f.usecase.CancelAppointment(ctx, "missing", "u-p1")
	assert.True(t, errors.Is(err, exceptions.ErrNotFound))

	_, err = f.usecase.CancelAppointment(ctx, appointmentID, "u-p1")
	require.NoError(t, err)

	_, err = f.usecase.CancelAppointment(ctx, appointmentID, "u-p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrAlreadyCancelled))
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)

	_, err = f.book("u-p2")
	assert.NoError(t, err, "slot is free again after cancelling a hold")
}

func TestConfirmPayment_RequiresHeldAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	_, err = f.usecase.ConfirmPayment(ctx, appointmentID, "u-p2")
	assert.True(t, errors.Is(err, exceptions.ErrUnauthorized))

	_, err = f.usecase.ConfirmPayment(ctx, appointmentID, "u-p1")
	require.NoError(t, err)

	_, err = f.usecase.ConfirmPayment(ctx, appointmentID, "u-p1")
	assert.True(t, errors.Is(err, exceptions.ErrNotHeld), "already paid")

	other, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{
		UserID:   "u-p2",
		DoctorID: "D1",
		SlotDate: "2024-11-22",
		SlotTime: "11:30 AM",
	})
	require.NoError(t, err)
	_, err = f.usecase.CancelAppointment(ctx, other.AppointmentID, "u-p2")
	require.NoError(t, err)

	_, err = f.usecase.ConfirmPayment(ctx, other.AppointmentID, "u-p2")
	assert.True(t, errors.Is(err, exceptions.ErrNotHeld), "cancelled")
}

func TestConfirmPayment_SlotTakenByAnotherAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	_, err = f.slots.ReleaseSlot(ctx, "D1", "2024-11-21", "10:00 AM", appointmentID)
	require.NoError(t, err)
	other := &models.Appointment{ID: "intruder", PatientID: "P2", DoctorID: "D1", SlotDate: "2024-11-21", SlotTime: "10:00 AM"}
	other.SetCreatedAtUpdatedAt(time.Now())
	require.NoError(t, f.appointments.CreateAppointment(ctx, other))
	reserved, err := f.slots.Reserve(ctx, &models.SlotReservation{
		DoctorID:      "D1",
		SlotDate:      "2024-11-21",
		SlotTime:      "10:00 AM",
		AppointmentID: "intruder",
		Status:        constvars.SlotStatusHeld,
	})
	require.NoError(t, err)
	require.True(t, reserved)

	_, err = f.usecase.ConfirmPayment(ctx, appointmentID, "u-p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrSlotConflict))

	stored, err := f.appointments.FindByID(ctx, appointmentID)
	require.NoError(t, err)
	assert.False(t, stored.Paid)
}

func TestBookAppointment_ReclaimsSlotOfCancelledAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	cancelled, err := f.appointments.MarkCancelled(ctx, appointmentID, false, time.Now())
	require.NoError(t, err)
	require.True(t, cancelled)
	assert.Equal(t, constvars.SlotStatusHeld, f.slotStatus(t), "reservation left behind")

	_, err = f.book("u-p2")
	require.NoError(t, err)
}

func TestBookAppointment_UnknownParticipants(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.book("nobody")
	assert.True(t, errors.Is(err, exceptions.ErrNotFound))

	_, err = f.usecase.BookAppointment(context.Background(), &requests.BookAppointmentInput{
		UserID:   "u-p1",
		DoctorID: "D404",
		SlotDate: "2024-11-21",
		SlotTime: "10:00 AM",
	})
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Equal(t, constvars.SlotStatusFree, f.slotStatus(t))
}

func TestListBookedSlots(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	book := func(userID, date, slotTime string) string {
		result, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{UserID: userID, DoctorID: "D1", SlotDate: date, SlotTime: slotTime})
		require.NoError(t, err)
		return result.AppointmentID
	}
	paid := book("u-p1", "2024-11-22", "9:00 AM")
	book("u-p2", "2024-11-21", "2:30 PM")
	cancelled := book("u-p2", "2024-11-21", "10:00 AM")
	book("u-p1", "2024-11-21", "9:30 AM")

	_, err := f.usecase.ConfirmPayment(ctx, paid, "u-p1")
	require.NoError(t, err)
	_, err = f.usecase.CancelAppointment(ctx, cancelled, "u-p2")
	require.NoError(t, err)

	slots, err := f.usecase.ListBookedSlots(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "9:30 AM", slots[0].SlotTime)
	assert.Equal(t, "2:30 PM", slots[1].SlotTime)
	assert.Equal(t, "2024-11-22", slots[2].SlotDate)
	assert.Equal(t, constvars.SlotStatusConfirmed, slots[2].Status)
	for _, slot := range slots {
		assert.NotEqual(t, "10:00 AM", slot.SlotTime)
	}

	_, err = f.usecase.ListBookedSlots(ctx, "D404")
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
}

func TestListAppointments(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	kept, err := f.book("u-p1")
	require.NoError(t, err)
	dropped, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{UserID: "u-p1", DoctorID: "D1", SlotDate: "2024-11-23", SlotTime: "4:00 PM"})
	require.NoError(t, err)
	_, err = f.usecase.CancelAppointment(ctx, dropped.AppointmentID, "u-p1")
	require.NoError(t, err)

	patientView, err := f.usecase.ListPatientAppointments(ctx, "u-p1")
	require.NoError(t, err)
	require.Len(t, patientView, 1)
	assert.Equal(t, kept, patientView[0].AppointmentData.ID)
	assert.Equal(t, "Richard James", patientView[0].DoctorData.UserName)
	assert.Equal(t, "Richmond", patientView[0].DoctorData.Address.City)

	doctorView, err := f.usecase.ListDoctorAppointments(ctx, "u-d1")
	require.NoError(t, err)
	require.Len(t, doctorView, 1)
	assert.Equal(t, "Patient One", doctorView[0].PatientData.UserName)

	_, err = f.usecase.ListPatientAppointments(ctx, "nobody")
	assert.True(t, errors.Is(err, exceptions.ErrNotFound))

	_, err = f.usecase.ListDoctorAppointments(ctx, "u-p1")
	assert.True(t, errors.Is(err, exceptions.ErrNotFound))
}

func TestListPatientAppointments_SkipsMissingDoctor(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	orphan := &models.Appointment{ID: "orphan", PatientID: "P1", DoctorID: "gone", SlotDate: "2024-11-21", SlotTime: "1:00 PM"}
	require.NoError(t, f.appointments.CreateAppointment(ctx, orphan))
	_, err := f.book("u-p1")
	require.NoError(t, err)

	result, err := f.usecase.ListPatientAppointments(ctx, "u-p1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.NotEqual(t, "orphan", result[0].AppointmentData.ID)
}

func TestCompleteAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)

	_, err = f.usecase.CompleteAppointment(ctx, appointmentID, "u-p1")
	assert.True(t, errors.Is(err, exceptions.ErrUnauthorized))

	result, err := f.usecase.CompleteAppointment(ctx, appointmentID, "u-d1")
	require.NoError(t, err)
	assert.Equal(t, constvars.AppointmentStatusCompleted, result.Status)

	_, err = f.usecase.CompleteAppointment(ctx, appointmentID, "u-d1")
	assert.NoError(t, err, "completing twice is a no-op")

	stored, err := f.appointments.FindByID(ctx, appointmentID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	cancelledID, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{UserID: "u-p2", DoctorID: "D1", SlotDate: "2024-11-24", SlotTime: "8:00 AM"})
	require.NoError(t, err)
	_, err = f.usecase.CancelAppointment(ctx, cancelledID.AppointmentID, "u-p2")
	require.NoError(t, err)
	_, err = f.usecase.CompleteAppointment(ctx, cancelledID.AppointmentID, "u-d1")
	assert.True(t, errors.Is(err, exceptions.ErrAlreadyCancelled))
}

func TestExpireHolds(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	bookedAt := time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	f.usecase.now = func() time.Time { return bookedAt }

	stale, err := f.book("u-p1")
	require.NoError(t, err)
	paid, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{UserID: "u-p2", DoctorID: "D1", SlotDate: "2024-11-21", SlotTime: "11:00 AM"})
	require.NoError(t, err)
	_, err = f.usecase.ConfirmPayment(ctx, paid.AppointmentID, "u-p2")
	require.NoError(t, err)

	f.usecase.now = func() time.Time { return bookedAt.Add(time.Hour) }
	fresh, err := f.usecase.BookAppointment(ctx, &requests.BookAppointmentInput{UserID: "u-p2", DoctorID: "D1", SlotDate: "2024-11-21", SlotTime: "3:00 PM"})
	require.NoError(t, err)

	expired, err := f.usecase.ExpireHolds(ctx, bookedAt.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	staleAppointment, err := f.appointments.FindByID(ctx, stale)
	require.NoError(t, err)
	assert.True(t, staleAppointment.Cancelled)
	assert.Equal(t, constvars.SlotStatusFree, f.slotStatus(t))

	freshAppointment, err := f.appointments.FindByID(ctx, fresh.AppointmentID)
	require.NoError(t, err)
	assert.False(t, freshAppointment.Cancelled)

	paidAppointment, err := f.appointments.FindByID(ctx, paid.AppointmentID)
	require.NoError(t, err)
	assert.False(t, paidAppointment.Cancelled)
}

func TestNotificationsAreSentAfterStateChanges(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)
	_, err = f.usecase.ConfirmPayment(ctx, appointmentID, "u-p1")
	require.NoError(t, err)
	_, err = f.usecase.CancelAppointment(ctx, appointmentID, "u-p1")
	require.NoError(t, err)
	f.usecase.Wait()

	emails := f.outbox.Emails()
	require.Len(t, emails, 3)
	events := make(map[string]bool)
	for _, email := range emails {
		assert.Equal(t, []string{"p1@healnexus.test"}, email.To)
		assert.Equal(t, "no-reply@healnexus.test", email.From)
		assert.Contains(t, email.Body, "Richard James")
		events[email.Event] = true
	}
	assert.True(t, events[constvars.BookingEventAppointmentBooked])
	assert.True(t, events[constvars.BookingEventAppointmentPaid])
	assert.True(t, events[constvars.BookingEventAppointmentCancelled])
}

func TestLockDoctorCalendar_TimesOutWhenHeld(t *testing.T) {
	f := newBookingFixture(t)
	f.usecase.InternalConfig.Booking.LockWaitInMilliseconds = 30
	ctx := context.Background()

	release, err := f.usecase.lockDoctorCalendar(ctx, "D1")
	require.NoError(t, err)
	defer release()

	_, err = f.usecase.lockDoctorCalendar(ctx, "D1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrUnavailable))
	assert.False(t, errors.Is(err, exceptions.ErrSlotUnavailable))
}

func TestBookAppointment_FreeSlotDoesNotWaitForCalendarLock(t *testing.T) {
	f := newBookingFixture(t)
	f.usecase.InternalConfig.Booking.LockWaitInMilliseconds = 30

	release, err := f.usecase.lockDoctorCalendar(context.Background(), "D1")
	require.NoError(t, err)
	defer release()

	_, err = f.book("u-p1")
	require.NoError(t, err)

	_, err = f.book("u-p2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrSlotHeld))
	f.usecase.Wait()
}

type recordedOutcomes struct {
	mu       sync.Mutex
	outcomes map[string][]string
}

func (r *recordedOutcomes) RecordOperation(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string][]string)
	}
	r.outcomes[operation] = append(r.outcomes[operation], outcome)
}

func (r *recordedOutcomes) ObserveLockWait(seconds float64, acquired bool) {}

func (r *recordedOutcomes) last(operation string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	recorded := r.outcomes[operation]
	if len(recorded) == 0 {
		return ""
	}
	return recorded[len(recorded)-1]
}

type unreachableSlotCalendar struct {
	contracts.SlotCalendarRepository
}

func (r *unreachableSlotCalendar) Reserve(ctx context.Context, reservation *models.SlotReservation) (bool, error) {
	return false, exceptions.ErrMongoDBInsertDocument(errors.New("connection refused"))
}

type unreachableAppointmentUpdates struct {
	contracts.AppointmentRepository
}

func (r *unreachableAppointmentUpdates) MarkCancelled(ctx context.Context, appointmentID string, afterPayment bool, now time.Time) (bool, error) {
	return false, exceptions.ErrMongoDBUpdateDocument(errors.New("connection refused"))
}

func TestBookAppointment_StorageFailureIsUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	outcomes := &recordedOutcomes{}
	f.usecase.Metrics = outcomes
	f.usecase.SlotCalendarRepository = &unreachableSlotCalendar{SlotCalendarRepository: f.slots}

	_, err := f.book("u-p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrUnavailable))
	assert.False(t, errors.Is(err, exceptions.ErrSlotUnavailable))

	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusServiceUnavailable, customErr.StatusCode)
	assert.Equal(t, constvars.BookingOutcomeUnavailable, outcomes.last(constvars.BookingOperationBook))
}

func TestCancelAppointment_StorageFailureIsUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	outcomes := &recordedOutcomes{}
	f.usecase.Metrics = outcomes

	appointmentID, err := f.book("u-p1")
	require.NoError(t, err)
	f.usecase.Wait()

	f.usecase.AppointmentRepository = &unreachableAppointmentUpdates{AppointmentRepository: f.appointments}
	_, err = f.usecase.CancelAppointment(context.Background(), appointmentID, "u-p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrUnavailable))
	assert.False(t, errors.Is(err, exceptions.ErrAlreadyCancelled))
	assert.Equal(t, constvars.BookingOutcomeUnavailable, outcomes.last(constvars.BookingOperationCancel))
	assert.Equal(t, constvars.SlotStatusHeld, f.slotStatus(t))
}

type slowSlotCalendar struct {
	contracts.SlotCalendarRepository
	delay time.Duration
}

func (r *slowSlotCalendar) Reserve(ctx context.Context, reservation *models.SlotReservation) (bool, error) {
	time.Sleep(r.delay)
	return r.SlotCalendarRepository.Reserve(ctx, reservation)
}

func (r *slowSlotCalendar) FindSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.SlotReservation, error) {
	time.Sleep(r.delay)
	return r.SlotCalendarRepository.FindSlot(ctx, doctorID, slotDate, slotTime)
}

type slowAppointments struct {
	contracts.AppointmentRepository
	delay time.Duration
}

func (r *slowAppointments) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	time.Sleep(r.delay)
	return r.AppointmentRepository.CreateAppointment(ctx, appointment)
}

func (r *slowAppointments) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	time.Sleep(r.delay)
	return r.AppointmentRepository.FindByID(ctx, appointmentID)
}

func TestBookAppointment_ConcurrentRequestsWithSlowStorage(t *testing.T) {
	f := newBookingFixture(t)
	f.usecase.InternalConfig.Booking.LockWaitInMilliseconds = 2000
	f.usecase.SlotCalendarRepository = &slowSlotCalendar{SlotCalendarRepository: f.slots, delay: 20 * time.Millisecond}
	f.usecase.AppointmentRepository = &slowAppointments{AppointmentRepository: f.appointments, delay: 20 * time.Millisecond}

	const attempts = 60
	for i := 0; i < attempts; i++ {
		userID := fmt.Sprintf("u-burst-%d", i)
		f.profiles.PutUser(models.User{ID: userID, UserName: userID, Email: userID + "@healnexus.test"})
		f.profiles.PutPatient(models.PatientProfile{ID: fmt.Sprintf("burst-%d", i), UserID: userID})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.book(fmt.Sprintf("u-burst-%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes++
		}(i)
	}
	wg.Wait()
	f.usecase.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		assert.True(t, errors.Is(err, exceptions.ErrSlotUnavailable), "unexpected error: %v", err)
		assert.False(t, errors.Is(err, exceptions.ErrUnavailable), "unexpected error: %v", err)
	}
}
