package request

import (
	"time"
)

const reserveDateLayout = "2006-01-02"

type CreateReservationRequest struct {
	LabID       int64    `json:"lab_id" binding:"required,min=1"`
	StudentID   int64    `json:"student_id" binding:"required,min=1"`
	SeatNumber  int      `json:"seat_number" binding:"required,min=1"`
	ReserveDate string   `json:"reserve_date" binding:"required"`
	TimeSlots   []string `json:"time_slots" binding:"required,min=1"`
}

// ParseReserveDate accepts calendar dates only; time-of-day never matters for
// reservations.
func (r *CreateReservationRequest) ParseReserveDate() (time.Time, error) {
	return time.Parse(reserveDateLayout, r.ReserveDate)
}
