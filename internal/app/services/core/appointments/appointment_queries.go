package appointments

import (
	"context"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/responses"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"sort"

	"go.uber.org/zap"
)

func (uc *appointmentUsecase) ListBookedSlots(ctx context.Context, doctorID string) ([]responses.BookedSlot, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ListBookedSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.DoctorProfileRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListBookedSlots", err)
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorProfileNotFound(constvars.StatusNotFound)
	}

	reservations, err := uc.SlotCalendarRepository.FindByDoctorID(ctx, doctor.ID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListBookedSlots", err)
	}

	slots := make([]responses.BookedSlot, 0, len(reservations))
	for _, reservation := range reservations {
		if reservation.Status != constvars.SlotStatusHeld && reservation.Status != constvars.SlotStatusConfirmed {
			continue
		}
		slots = append(slots, responses.BookedSlot{
			SlotDate: reservation.SlotDate,
			SlotTime: reservation.SlotTime,
			Status:   reservation.Status,
		})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return utils.SlotLess(slots[i].SlotDate, slots[i].SlotTime, slots[j].SlotDate, slots[j].SlotTime)
	})

	uc.Log.Info("appointmentUsecase.ListBookedSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(slots)),
	)
	return slots, nil
}

func (uc *appointmentUsecase) ListPatientAppointments(ctx context.Context, userID string) ([]responses.PatientAppointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ListPatientAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	patient, err := uc.PatientProfileRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListPatientAppointments", err)
	}
	if patient == nil {
		return nil, exceptions.ErrPatientProfileNotFound(constvars.StatusNotFound)
	}

	appointments, err := uc.AppointmentRepository.FindActiveByPatientID(ctx, patient.ID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListPatientAppointments", err)
	}

	doctors := make(map[string]*responses.DoctorData)
	result := make([]responses.PatientAppointment, 0, len(appointments))
	for i := range appointments {
		appointment := &appointments[i]

		doctorData, seen := doctors[appointment.DoctorID]
		if !seen {
			doctorData, err = uc.doctorSnapshot(ctx, appointment.DoctorID)
			if err != nil {
				return nil, err
			}
			doctors[appointment.DoctorID] = doctorData
		}
		if doctorData == nil {
			uc.Log.Warn("appointmentUsecase.ListPatientAppointments skipping appointment without doctor record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.String(constvars.LoggingDoctorIDKey, appointment.DoctorID),
			)
			continue
		}

		result = append(result, responses.PatientAppointment{
			AppointmentData: toAppointmentData(appointment),
			DoctorData:      *doctorData,
		})
	}

	uc.Log.Info("appointmentUsecase.ListPatientAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result)),
	)
	return result, nil
}

func (uc *appointmentUsecase) ListDoctorAppointments(ctx context.Context, userID string) ([]responses.DoctorAppointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ListDoctorAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	doctor, err := uc.DoctorProfileRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListDoctorAppointments", err)
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorProfileNotFound(constvars.StatusNotFound)
	}

	appointments, err := uc.AppointmentRepository.FindActiveByDoctorID(ctx, doctor.ID)
	if err != nil {
		return nil, uc.storageError(ctx, "ListDoctorAppointments", err)
	}

	result := make([]responses.DoctorAppointment, 0, len(appointments))
	for i := range appointments {
		appointment := &appointments[i]

		patientData, err := uc.patientSnapshot(ctx, appointment.PatientID)
		if err != nil {
			return nil, err
		}
		if patientData == nil {
			uc.Log.Warn("appointmentUsecase.ListDoctorAppointments skipping appointment without patient record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.String(constvars.LoggingPatientIDKey, appointment.PatientID),
			)
			continue
		}

		result = append(result, responses.DoctorAppointment{
			AppointmentData: toAppointmentData(appointment),
			PatientData:     *patientData,
		})
	}

	uc.Log.Info("appointmentUsecase.ListDoctorAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result)),
	)
	return result, nil
}

// doctorSnapshot returns nil when the doctor profile or its user is gone.
func (uc *appointmentUsecase) doctorSnapshot(ctx context.Context, doctorID string) (*responses.DoctorData, error) {
	doctor, err := uc.DoctorProfileRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, uc.storageError(ctx, "doctorSnapshot", err)
	}
	if doctor == nil {
		return nil, nil
	}
	user, err := uc.UserRepository.FindByID(ctx, doctor.UserID)
	if err != nil {
		return nil, uc.storageError(ctx, "doctorSnapshot", err)
	}
	if user == nil {
		return nil, nil
	}

	image := doctor.Image
	if image == "" {
		image = user.Image
	}
	return &responses.DoctorData{
		ID:        doctor.ID,
		Image:     image,
		UserName:  user.UserName,
		Specialty: doctor.Specialty,
		Address: responses.Address{
			Street: doctor.ClinicAddress.Street,
			City:   doctor.ClinicAddress.City,
			State:  doctor.ClinicAddress.State,
		},
	}, nil
}

func (uc *appointmentUsecase) patientSnapshot(ctx context.Context, patientID string) (*responses.PatientData, error) {
	patient, err := uc.PatientProfileRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, uc.storageError(ctx, "patientSnapshot", err)
	}
	if patient == nil {
		return nil, nil
	}
	user, err := uc.UserRepository.FindByID(ctx, patient.UserID)
	if err != nil {
		return nil, uc.storageError(ctx, "patientSnapshot", err)
	}
	if user == nil {
		return nil, nil
	}
	return &responses.PatientData{
		ID:       patient.ID,
		UserName: user.UserName,
		Email:    user.Email,
	}, nil
}

func toAppointmentData(appointment *models.Appointment) responses.AppointmentData {
	return responses.AppointmentData{
		ID:          appointment.ID,
		SlotDate:    appointment.SlotDate,
		SlotTime:    appointment.SlotTime,
		Cancel:      appointment.Cancelled,
		Payment:     appointment.Paid,
		IsCompleted: appointment.Completed,
		Amount:      appointment.Amount,
	}
}
