package response

import (
	"time"

	"labreserve/internal/usecase/queries"
)

const dateLayout = "2006-01-02"

type ReservationResponse struct {
	ReservationID int64     `json:"reservationId"`
	LabID         int64     `json:"labId"`
	LabName       string    `json:"labName"`
	StudentID     int64     `json:"studentId"`
	StudentName   string    `json:"studentName"`
	SeatNumber    int       `json:"seatNumber"`
	ReserveDate   string    `json:"reserveDate"`
	TimeSlots     []string  `json:"timeSlots"`
	RequestDate   time.Time `json:"requestDate"`
}

type CreateReservationResponse struct {
	ReservationID int64 `json:"reservationId"`
}

type OccupiedCellResponse struct {
	SeatNumber    int    `json:"seatNumber"`
	SlotLabel     string `json:"slotLabel"`
	ReservationID int64  `json:"reservationId"`
	StudentID     int64  `json:"studentId"`
	StudentName   string `json:"studentName"`
}

type OccupancyResponse struct {
	LabID     int64                  `json:"labId"`
	LabName   string                 `json:"labName"`
	Date      string                 `json:"date"`
	TimeList  []string               `json:"timeList"`
	SeatCount int                    `json:"seatCount"`
	Occupied  []OccupiedCellResponse `json:"occupied"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: rm.ReservationID,
		LabID:         rm.LabID,
		LabName:       rm.LabName,
		StudentID:     rm.StudentID,
		StudentName:   rm.StudentName,
		SeatNumber:    rm.SeatNumber,
		ReserveDate:   rm.ReserveDate.Format(dateLayout),
		TimeSlots:     rm.TimeSlots,
		RequestDate:   rm.RequestDate,
	}
}

func FromReservationViews(rms []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(rms))
	for i, rm := range rms {
		out[i] = FromReservationView(rm)
	}
	return out
}

func FromOccupancyView(rm *queries.OccupancyView) *OccupancyResponse {
	occupied := make([]OccupiedCellResponse, len(rm.Occupied))
	for i, cell := range rm.Occupied {
		occupied[i] = OccupiedCellResponse{
			SeatNumber:    cell.SeatNumber,
			SlotLabel:     cell.SlotLabel,
			ReservationID: cell.ReservationID,
			StudentID:     cell.StudentID,
			StudentName:   cell.StudentName,
		}
	}
	return &OccupancyResponse{
		LabID:     rm.LabID,
		LabName:   rm.LabName,
		Date:      rm.Date.Format(dateLayout),
		TimeList:  rm.TimeList,
		SeatCount: rm.SeatCount,
		Occupied:  occupied,
	}
}
