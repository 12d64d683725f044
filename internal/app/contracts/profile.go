package contracts

import (
	"context"
	"healnexus-service/internal/app/models"
)

type DoctorProfileRepository interface {
	FindByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error)
	FindByUserID(ctx context.Context, userID string) (*models.DoctorProfile, error)
}

type PatientProfileRepository interface {
	FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error)
	FindByUserID(ctx context.Context, userID string) (*models.PatientProfile, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}
