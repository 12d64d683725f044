package memory

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"sync"
	"time"
)

// SlotCalendarStore keeps one reservation per (doctor, date, time) key.
type SlotCalendarStore struct {
	mu           sync.RWMutex
	reservations map[string]models.SlotReservation
}

func NewSlotCalendarStore() *SlotCalendarStore {
	return &SlotCalendarStore{reservations: make(map[string]models.SlotReservation)}
}

var _ contracts.SlotCalendarRepository = (*SlotCalendarStore)(nil)

func (s *SlotCalendarStore) Reserve(ctx context.Context, reservation *models.SlotReservation) (bool, error) {
	id := models.SlotReservationID(reservation.DoctorID, reservation.SlotDate, reservation.SlotTime)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reservations[id]; exists {
		return false, nil
	}
	reservation.ID = id
	s.reservations[id] = *reservation
	return true, nil
}

func (s *SlotCalendarStore) FindSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.SlotReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reservation, ok := s.reservations[models.SlotReservationID(doctorID, slotDate, slotTime)]
	if !ok {
		return nil, nil
	}
	return &reservation, nil
}

func (s *SlotCalendarStore) FindByDoctorID(ctx context.Context, doctorID string) ([]models.SlotReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.SlotReservation, 0)
	for _, reservation := range s.reservations {
		if reservation.DoctorID == doctorID {
			result = append(result, reservation)
		}
	}
	return result, nil
}

func (s *SlotCalendarStore) ConfirmSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string, now time.Time) (bool, error) {
	id := models.SlotReservationID(doctorID, slotDate, slotTime)

	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	if !ok || reservation.AppointmentID != appointmentID || reservation.Status != constvars.SlotStatusHeld {
		return false, nil
	}
	reservation.Status = constvars.SlotStatusConfirmed
	reservation.SetUpdatedAt(now)
	s.reservations[id] = reservation
	return true, nil
}

func (s *SlotCalendarStore) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string) (bool, error) {
	id := models.SlotReservationID(doctorID, slotDate, slotTime)

	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	if !ok || reservation.AppointmentID != appointmentID {
		return false, nil
	}
	delete(s.reservations, id)
	return true, nil
}
