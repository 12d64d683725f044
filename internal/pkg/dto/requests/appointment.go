package requests

type BookAppointment struct {
	DoctorID string `json:"doctorID" validate:"required"`
	SlotDate string `json:"slotDate" validate:"required,slot_date"`
	SlotTime string `json:"slotTime" validate:"required,slot_time"`
}

// BookAppointmentInput is the normalized input handed to the usecase.
type BookAppointmentInput struct {
	UserID   string
	DoctorID string
	SlotDate string
	SlotTime string
}
