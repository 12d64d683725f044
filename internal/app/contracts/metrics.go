package contracts

type BookingMetrics interface {
	RecordOperation(operation, outcome string)
	ObserveLockWait(seconds float64, acquired bool)
}
