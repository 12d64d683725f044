package models

import "healnexus-service/internal/pkg/constvars"

type Appointment struct {
	ID                    string  `bson:"_id,omitempty" json:"id"`
	PatientID             string  `bson:"patientID" json:"patientID"`
	DoctorID              string  `bson:"doctorID" json:"doctorID"`
	SlotDate              string  `bson:"slotDate" json:"slotDate"`
	SlotTime              string  `bson:"slotTime" json:"slotTime"`
	Amount                float64 `bson:"amount" json:"amount"`
	Paid                  bool    `bson:"paid" json:"paid"`
	Cancelled             bool    `bson:"cancelled" json:"cancelled"`
	Completed             bool    `bson:"completed" json:"completed"`
	CancelledAfterPayment bool    `bson:"cancelledAfterPayment,omitempty" json:"cancelledAfterPayment,omitempty"`
	TimeModel             `bson:",inline"`
}

// SlotStatus reports the calendar state this appointment implies.
func (a *Appointment) SlotStatus() string {
	switch {
	case a.Cancelled:
		return constvars.SlotStatusFree
	case a.Paid:
		return constvars.SlotStatusConfirmed
	default:
		return constvars.SlotStatusHeld
	}
}

func (a *Appointment) IsHeld() bool {
	return !a.Cancelled && !a.Paid
}
