package responses

type BookAppointment struct {
	AppointmentID string  `json:"appointmentID"`
	SlotDate      string  `json:"slotDate"`
	SlotTime      string  `json:"slotTime"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

type AppointmentData struct {
	ID          string  `json:"id"`
	SlotDate    string  `json:"slotDate"`
	SlotTime    string  `json:"slotTime"`
	Cancel      bool    `json:"cancel"`
	Payment     bool    `json:"payment"`
	IsCompleted bool    `json:"isCompleted"`
	Amount      float64 `json:"amount"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
}

type DoctorData struct {
	ID        string  `json:"id"`
	Image     string  `json:"image"`
	UserName  string  `json:"userName"`
	Specialty string  `json:"specialty"`
	Address   Address `json:"address"`
}

type PatientData struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type PatientAppointment struct {
	AppointmentData AppointmentData `json:"appointmentData"`
	DoctorData      DoctorData      `json:"doctorData"`
}

type DoctorAppointment struct {
	AppointmentData AppointmentData `json:"appointmentData"`
	PatientData     PatientData     `json:"patientData"`
}

type BookedSlot struct {
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
	Status   string `json:"status"`
}

type AppointmentStatus struct {
	AppointmentID string `json:"appointmentID"`
	Status        string `json:"status"`
}
