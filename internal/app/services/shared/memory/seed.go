package memory

import (
	"context"
	"fmt"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// Seed is the fixture format accepted by LoadSeedFile.
type Seed struct {
	Users    []models.User           `json:"users"`
	Doctors  []models.DoctorProfile  `json:"doctors"`
	Patients []models.PatientProfile `json:"patients"`
	Sessions []models.Session        `json:"sessions"`
}

func LoadSeedFile(ctx context.Context, path string, profiles *ProfileStore, sessions *KeyValueStore) (*Seed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()
	return LoadSeed(ctx, file, profiles, sessions)
}

func LoadSeed(ctx context.Context, reader io.Reader, profiles *ProfileStore, sessions *KeyValueStore) (*Seed, error) {
	var seed Seed
	if err := json.NewDecoder(reader).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	now := time.Now()
	for _, user := range seed.Users {
		user.SetCreatedAtUpdatedAt(now)
		profiles.PutUser(user)
	}
	for _, doctor := range seed.Doctors {
		doctor.SetCreatedAtUpdatedAt(now)
		profiles.PutDoctor(doctor)
	}
	for _, patient := range seed.Patients {
		patient.SetCreatedAtUpdatedAt(now)
		profiles.PutPatient(patient)
	}
	for _, session := range seed.Sessions {
		key := fmt.Sprintf(constvars.SessionKeyFormat, session.SessionID)
		if err := sessions.Set(ctx, key, session, 0); err != nil {
			return nil, err
		}
	}
	return &seed, nil
}
