package contracts

import (
	"context"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/dto/responses"
	"time"
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, input *requests.BookAppointmentInput) (*responses.BookAppointment, error)
	ListPatientAppointments(ctx context.Context, userID string) ([]responses.PatientAppointment, error)
	CancelAppointment(ctx context.Context, appointmentID, userID string) (*responses.AppointmentStatus, error)
	ConfirmPayment(ctx context.Context, appointmentID, userID string) (*responses.AppointmentStatus, error)
	ListBookedSlots(ctx context.Context, doctorID string) ([]responses.BookedSlot, error)
	ListDoctorAppointments(ctx context.Context, userID string) ([]responses.DoctorAppointment, error)
	CompleteAppointment(ctx context.Context, appointmentID, userID string) (*responses.AppointmentStatus, error)
	ExpireHolds(ctx context.Context, heldBefore time.Time) (int, error)
}

// AppointmentRepository mutators are conditional: they report false when the
// document no longer matches the expected state.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindActiveByPatientID(ctx context.Context, patientID string) ([]models.Appointment, error)
	FindActiveByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error)
	FindHeldBefore(ctx context.Context, before time.Time, limit int) ([]models.Appointment, error)
	MarkCancelled(ctx context.Context, appointmentID string, afterPayment bool, now time.Time) (bool, error)
	MarkPaid(ctx context.Context, appointmentID string, now time.Time) (bool, error)
	MarkCompleted(ctx context.Context, appointmentID string, now time.Time) (bool, error)
}
