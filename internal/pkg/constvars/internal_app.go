package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "HLNXS_SVC_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

const (
	StorageDriverMongo  = "mongo"
	StorageDriverMemory = "memory"
)

const (
	ResourceAppointments = "appointments"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)
