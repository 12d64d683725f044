package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	BookAppointmentSuccessMessage        = "Appointment booked successfully"
	GetPatientAppointmentsSuccessMessage = "get patient appointments successfully"
	GetDoctorAppointmentsSuccessMessage  = "get doctor appointments successfully"
	CancelAppointmentSuccessMessage      = "Appointment cancelled"
	ConfirmAppointmentSuccessMessage     = "Appointment booked with Payment"
	CompleteAppointmentSuccessMessage    = "Appointment marked as completed"
	GetBookedSlotsSuccessMessage         = "get booked slots successfully"
	HealthCheckSuccessMessage            = "Backend is running!"
)
