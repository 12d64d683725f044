package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":  "is required",
	"slot_date": "must be a valid date (YYYY-MM-DD or DD_MM_YYYY)",
	"slot_time": "must be a valid time like 10:00 AM",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientPatientOrDoctorNotFound       = "Patient or Doctor not found"
	ErrClientPatientNotFound               = "Patient not found"
	ErrClientDoctorNotFound                = "Doctor not found"
	ErrClientAppointmentNotFound           = "Appointment not found"
	ErrClientUnauthorizedAction            = "Unauthorized Action"
	ErrClientSlotAlreadyBooked             = "This slot is already booked, please pick another slot"
	ErrClientSlotTemporarilyHeld           = "This slot is temporarily held by another patient, please pick another slot or try again later"
	ErrClientSlotConflict                  = "Doctor not available at this time"
	ErrClientAppointmentAlreadyCancelled   = "Appointment already cancelled"
	ErrClientAppointmentNotAwaitingPayment = "Appointment is not awaiting payment"
	ErrClientPaymentRejected               = "Payment could not be verified"
	ErrClientBookingBusy                   = "Booking service is busy, please try again"
)

// Error messages for developers
const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevCannotMarshalJSON      = "cannot marshal JSON"
	ErrDevValidationFailed       = "validation failed"
	ErrDevURLParamMissing        = "url param %s is missing"
	ErrDevServerProcess          = "server failed to process the request"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevMissingRequestID       = "request id missing from context"
	ErrDevMissingSessionData     = "session data missing from context"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalid          = "invalid token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthTokenInvalidOrExpired = "token invalid or expired"
	ErrDevAuthSessionNotFound       = "session not found"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents from database"

	// Redis messages
	ErrDevRedisGetNoData = "failed to get data from redis for key %s"
	ErrDevRedisSetData   = "failed to set data into redis"
	ErrDevRedisDelete    = "failed to delete data from redis"
	ErrDevRedisExpire    = "failed to set expiration on redis key"
	ErrDevRedisUnlock    = "failed to release redis lock"

	// Messaging and storage
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"
	ErrDevMinioPutObject         = "failed to put object into bucket %s"

	// Booking messages
	ErrDevPatientProfileNotFound = "patient profile not found for user"
	ErrDevDoctorProfileNotFound  = "doctor profile not found"
	ErrDevAppointmentNotFound    = "appointment not found"
	ErrDevAppointmentNotOwned    = "requester does not own the appointment"
	ErrDevSlotAlreadyBooked      = "slot already confirmed by another appointment"
	ErrDevSlotTemporarilyHeld    = "slot held by an unpaid appointment"
	ErrDevSlotConflict           = "slot occupied by another appointment during confirmation"
	ErrDevAppointmentCancelled   = "appointment already cancelled"
	ErrDevAppointmentNotHeld     = "appointment is not in held state"
	ErrDevPaymentRejected        = "payment gateway rejected the payment"
	ErrDevBookingStorage         = "booking storage unavailable"
	ErrDevBookingLockTimeout     = "timed out waiting for doctor calendar lock"
)
