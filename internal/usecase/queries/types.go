package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView represents read-optimized reservation data
type ReservationView struct {
	ReservationID int64     `json:"reservation_id"`
	LabID         int64     `json:"lab_id"`
	LabName       string    `json:"lab_name"`
	StudentID     int64     `json:"student_id"`
	StudentName   string    `json:"student_name"`
	SeatNumber    int       `json:"seat_number"`
	ReserveDate   time.Time `json:"reserve_date"`
	TimeSlots     []string  `json:"time_slots"`
	RequestDate   time.Time `json:"request_date"`
}

// OccupiedCell is one taken (seat, slot) position in an occupancy grid.
type OccupiedCell struct {
	SeatNumber    int    `json:"seat_number"`
	SlotLabel     string `json:"slot_label"`
	ReservationID int64  `json:"reservation_id"`
	StudentID     int64  `json:"student_id"`
	StudentName   string `json:"student_name"`
}

// OccupancyView is the full slot x seat grid of one lab on one date.
type OccupancyView struct {
	LabID     int64          `json:"lab_id"`
	LabName   string         `json:"lab_name"`
	Date      time.Time      `json:"date"`
	TimeList  []string       `json:"time_list"`
	SeatCount int            `json:"seat_count"`
	Occupied  []OccupiedCell `json:"occupied"`
}

// LabView represents read-optimized lab data
type LabView struct {
	LabID     int64     `json:"lab_id"`
	Name      string    `json:"name"`
	TimeList  []string  `json:"time_list"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileView represents read-optimized user profile data
type ProfileView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	StudentID   *int64     `json:"student_id,omitempty"`
	TechID      *int64     `json:"tech_id,omitempty"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	StudentID *int64    `json:"student_id,omitempty"`
	TechID    *int64    `json:"tech_id,omitempty"`
	IsActive  bool      `json:"is_active"`
}
