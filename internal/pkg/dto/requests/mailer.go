package requests

type EmailPayload struct {
	Subject       string   `json:"subject"`
	From          string   `json:"from"`
	To            []string `json:"to"`
	Body          string   `json:"body"`
	AppointmentID string   `json:"appointment_id,omitempty"`
	Event         string   `json:"event"`
}

type PaymentReceipt struct {
	ReceiptID     string  `json:"receipt_id"`
	AppointmentID string  `json:"appointment_id"`
	PatientID     string  `json:"patient_id"`
	DoctorID      string  `json:"doctor_id"`
	SlotDate      string  `json:"slot_date"`
	SlotTime      string  `json:"slot_time"`
	Amount        float64 `json:"amount"`
	PaidAt        string  `json:"paid_at"`
}
