package reservation

import (
	"time"

	"labreserve/internal/domain/lab"
)

// Existing is the slice of persisted state the conflict checks need. The
// ledger loads these inside the reserving transaction so the checks and the
// insert observe the same snapshot.
type Existing struct {
	ReservationID int64
	LabID         int64
	StudentID     int64
	SeatNumber    int
	Slots         lab.SlotSet
	RequestDate   time.Time
}

// CheckConflicts applies the ledger invariants to a candidate reservation, in
// this order:
//
//  1. cross-lab: the student holds an intersecting slot in another lab that day
//  2. same lab, different seat: one seat per student per lab-day
//  3. same cell: the requested slots intersect an existing occupancy
//
// studentDay is every reservation the target student holds on the date (all
// labs); cellDay is every reservation on the requested (lab, date, seat) cell
// regardless of owner. Each failure is terminal; the first violated rule wins.
//
// Repeat bookings on the seat the student already holds are allowed as long
// as the slot sets stay disjoint; they are kept as independent rows rather
// than merged into the prior reservation.
func CheckConflicts(req *Reservation, studentDay, cellDay []Existing) error {
	for _, ex := range studentDay {
		if ex.LabID == req.labID {
			continue
		}
		if slot, ok := req.slots.Intersect(ex.Slots); ok {
			return &CrossLabConflictError{Slot: slot, OtherLabID: ex.LabID}
		}
	}

	for _, ex := range studentDay {
		if ex.LabID == req.labID && ex.SeatNumber != req.seatNumber {
			return &SeatAlreadyAssignedError{SeatNumber: ex.SeatNumber}
		}
	}

	for _, ex := range cellDay {
		if slot, ok := req.slots.Intersect(ex.Slots); ok {
			return &SlotConflictError{Slot: slot}
		}
	}

	return nil
}

// IsDuplicateSubmission reports whether an identical request (same student,
// lab, seat, date and slot set) was persisted within the debounce window.
func IsDuplicateSubmission(req *Reservation, studentDay []Existing, now time.Time) bool {
	cutoff := now.Add(-DebounceWindow)
	for _, ex := range studentDay {
		if ex.LabID != req.labID || ex.SeatNumber != req.seatNumber || ex.StudentID != req.studentID {
			continue
		}
		if !ex.Slots.Equal(req.slots) {
			continue
		}
		if !ex.RequestDate.Before(cutoff) {
			return true
		}
	}
	return false
}
