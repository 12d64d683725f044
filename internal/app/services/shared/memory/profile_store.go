package memory

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"sync"
)

// ProfileStore serves doctors, patients and users from memory. It satisfies
// the three read-only profile repositories through small adapters.
type ProfileStore struct {
	mu       sync.RWMutex
	doctors  map[string]models.DoctorProfile
	patients map[string]models.PatientProfile
	users    map[string]models.User
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		doctors:  make(map[string]models.DoctorProfile),
		patients: make(map[string]models.PatientProfile),
		users:    make(map[string]models.User),
	}
}

func (s *ProfileStore) PutDoctor(doctor models.DoctorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[doctor.ID] = doctor
}

func (s *ProfileStore) PutPatient(patient models.PatientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[patient.ID] = patient
}

func (s *ProfileStore) PutUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *ProfileStore) Doctors() contracts.DoctorProfileRepository {
	return doctorProfiles{s}
}

func (s *ProfileStore) Patients() contracts.PatientProfileRepository {
	return patientProfiles{s}
}

func (s *ProfileStore) Users() contracts.UserRepository {
	return users{s}
}

type doctorProfiles struct{ store *ProfileStore }

func (r doctorProfiles) FindByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	doctor, ok := r.store.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r doctorProfiles) FindByUserID(ctx context.Context, userID string) (*models.DoctorProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, doctor := range r.store.doctors {
		if doctor.UserID == userID {
			found := doctor
			return &found, nil
		}
	}
	return nil, nil
}

type patientProfiles struct{ store *ProfileStore }

func (r patientProfiles) FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	patient, ok := r.store.patients[patientID]
	if !ok {
		return nil, nil
	}
	return &patient, nil
}

func (r patientProfiles) FindByUserID(ctx context.Context, userID string) (*models.PatientProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, patient := range r.store.patients {
		if patient.UserID == userID {
			found := patient
			return &found, nil
		}
	}
	return nil, nil
}

type users struct{ store *ProfileStore }

func (r users) FindByID(ctx context.Context, userID string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
