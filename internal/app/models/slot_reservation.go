package models

import "strings"

// SlotReservation is one occupied (doctor, date, time) entry of a doctor's
// calendar. Its ID is derived from the slot so storage can refuse duplicates.
type SlotReservation struct {
	ID            string `bson:"_id" json:"id"`
	DoctorID      string `bson:"doctorID" json:"doctorID"`
	SlotDate      string `bson:"slotDate" json:"slotDate"`
	SlotTime      string `bson:"slotTime" json:"slotTime"`
	AppointmentID string `bson:"appointmentID" json:"appointmentID"`
	Status        string `bson:"status" json:"status"`
	TimeModel     `bson:",inline"`
}

func SlotReservationID(doctorID, slotDate, slotTime string) string {
	return strings.Join([]string{doctorID, slotDate, slotTime}, "|")
}
