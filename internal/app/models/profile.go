package models

type Address struct {
	Street string `bson:"street" json:"street"`
	City   string `bson:"city" json:"city"`
	State  string `bson:"state" json:"state"`
}

type DoctorProfile struct {
	ID              string  `bson:"_id,omitempty" json:"id"`
	UserID          string  `bson:"userID" json:"userID"`
	Specialty       string  `bson:"specialty" json:"specialty"`
	ConsultationFee float64 `bson:"consultationFee" json:"consultationFee"`
	Image           string  `bson:"image,omitempty" json:"image,omitempty"`
	ClinicAddress   Address `bson:"clinicAddress" json:"clinicAddress"`
	TimeModel       `bson:",inline"`
}

type PatientProfile struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	UserID    string `bson:"userID" json:"userID"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	TimeModel `bson:",inline"`
}
