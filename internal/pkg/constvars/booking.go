package constvars

const (
	SlotStatusFree      = "free"
	SlotStatusHeld      = "held"
	SlotStatusConfirmed = "confirmed"
)

const (
	SlotDateLayout         = "2006-01-02"
	SlotDateFrontendLayout = "02_01_2006"
	SlotTimeLayout         = "3:04 PM"
)

const (
	BookingDoctorLockKeyFormat = "booking:doctor:%s:lock"
	BookingHoldSweeperLockKey  = "booking:hold-sweeper:leader"
	SessionKeyFormat           = "session:%s"
)

const (
	MongoCollectionAppointments     = "appointments"
	MongoCollectionSlotReservations = "slot_reservations"
	MongoCollectionDoctorProfiles   = "doctor_profiles"
	MongoCollectionPatientProfiles  = "patient_profiles"
	MongoCollectionUsers            = "users"
)

const (
	ReceiptObjectKeyFormat = "receipts/%s.json"
)

const (
	EmailSubjectAppointmentBooked    = "Your Heal Nexus appointment is booked"
	EmailSubjectAppointmentCancelled = "Your Heal Nexus appointment was cancelled"
	EmailSubjectAppointmentPaid      = "Payment received for your Heal Nexus appointment"
	EmailBodyAppointmentFormat       = "Hello %s, your appointment with Dr. %s on %s at %s is %s."
)

const (
	BookingEventAppointmentBooked    = "appointment.booked"
	BookingEventAppointmentCancelled = "appointment.cancelled"
	BookingEventAppointmentPaid      = "appointment.paid"
	BookingEventHoldExpired          = "appointment.hold_expired"
)

const (
	BookingOperationBook           = "book"
	BookingOperationCancel         = "cancel"
	BookingOperationConfirmPayment = "confirm_payment"
	BookingOperationComplete       = "complete"
	BookingOperationExpireHold     = "expire_hold"
)

const (
	BookingOutcomeSuccess          = "success"
	BookingOutcomeSlotHeld         = "slot_held"
	BookingOutcomeSlotUnavailable  = "slot_unavailable"
	BookingOutcomeSlotConflict     = "slot_conflict"
	BookingOutcomeNotFound         = "not_found"
	BookingOutcomeUnauthorized     = "unauthorized"
	BookingOutcomeAlreadyCancelled = "already_cancelled"
	BookingOutcomeNotHeld          = "not_held"
	BookingOutcomePaymentRejected  = "payment_rejected"
	BookingOutcomeUnavailable      = "unavailable"
	BookingOutcomeError            = "error"
)

const (
	AppointmentStatusHeld      = "held"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)
