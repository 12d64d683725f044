package memory

import (
	"context"
	"errors"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"time"
)

var errMissingID = errors.New("document id is required")

type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{appointments: make(map[string]models.Appointment)}
}

var _ contracts.AppointmentRepository = (*AppointmentStore)(nil)

func (s *AppointmentStore) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		return exceptions.ErrMongoDBInsertDocument(errMissingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appointments[appointment.ID]; exists {
		return exceptions.ErrMongoDBInsertDocument(errors.New("duplicate appointment id"))
	}
	s.appointments[appointment.ID] = *appointment
	return nil
}

func (s *AppointmentStore) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (s *AppointmentStore) FindActiveByPatientID(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		return a.PatientID == patientID && !a.Cancelled
	}), nil
}

func (s *AppointmentStore) FindActiveByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool {
		return a.DoctorID == doctorID && !a.Cancelled
	}), nil
}

func (s *AppointmentStore) FindHeldBefore(ctx context.Context, before time.Time, limit int) ([]models.Appointment, error) {
	held := s.filter(func(a models.Appointment) bool {
		return a.IsHeld() && a.CreatedAt.Before(before)
	})
	if limit > 0 && len(held) > limit {
		held = held[:limit]
	}
	return held, nil
}

func (s *AppointmentStore) MarkCancelled(ctx context.Context, appointmentID string, afterPayment bool, now time.Time) (bool, error) {
	return s.update(appointmentID, func(a *models.Appointment) bool {
		if a.Cancelled {
			return false
		}
		a.Cancelled = true
		a.CancelledAfterPayment = afterPayment
		a.SetUpdatedAt(now)
		return true
	}), nil
}

func (s *AppointmentStore) MarkPaid(ctx context.Context, appointmentID string, now time.Time) (bool, error) {
	return s.update(appointmentID, func(a *models.Appointment) bool {
		if a.Cancelled || a.Paid {
			return false
		}
		a.Paid = true
		a.SetUpdatedAt(now)
		return true
	}), nil
}

func (s *AppointmentStore) MarkCompleted(ctx context.Context, appointmentID string, now time.Time) (bool, error) {
	return s.update(appointmentID, func(a *models.Appointment) bool {
		if a.Cancelled {
			return false
		}
		a.Completed = true
		a.SetUpdatedAt(now)
		return true
	}), nil
}

func (s *AppointmentStore) update(appointmentID string, mutate func(a *models.Appointment) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[appointmentID]
	if !ok || !mutate(&appointment) {
		return false
	}
	s.appointments[appointmentID] = appointment
	return true
}

func (s *AppointmentStore) filter(keep func(a models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Appointment, 0)
	for _, appointment := range s.appointments {
		if keep(appointment) {
			result = append(result, appointment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
