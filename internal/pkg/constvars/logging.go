package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionDataKey    = "session_data"
	LoggingRequestKey        = "request"
	LoggingResponseKey       = "response"
	LoggingResponseLengthKey = "response_length"
	LoggingErrorCodeKey      = "error_code"
	LoggingErrorMessageKey   = "error_message"

	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"

	LoggingUserIDKey        = "user_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingAppointmentIDKey = "appointment_id"
	LoggingSlotDateKey      = "slot_date"
	LoggingSlotTimeKey      = "slot_time"
	LoggingSlotStatusKey    = "slot_status"
	LoggingAmountKey        = "amount"
	LoggingCountKey         = "count"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"

	LoggingQueueNameKey  = "queue_name"
	LoggingBucketNameKey = "bucket_name"
	LoggingObjectKey     = "object_name"
)
