package reservation

import (
	"errors"
	"fmt"
	"time"
)

// FirstReservationID is the identifier handed out on an empty ledger.
const FirstReservationID int64 = 3001

// DebounceWindow suppresses resubmission of an identical request (double
// click, form retry) within this interval. Not a business rule.
const DebounceWindow = 5 * time.Second

var (
	ErrInvalidReservationID = errors.New("reservation ID must be positive")
	ErrInvalidStudentID     = errors.New("student ID must be positive")
	ErrZeroDate             = errors.New("reserve date is required")
)

// CrossLabConflictError: the student already occupies one of the requested
// slots in another lab on the same date.
type CrossLabConflictError struct {
	Slot       string
	OtherLabID int64
}

func (e *CrossLabConflictError) Error() string {
	return fmt.Sprintf("student already has a reservation in lab %d during time slot %q", e.OtherLabID, e.Slot)
}

// SeatAlreadyAssignedError: the student already holds a different seat in this
// lab on the same date.
type SeatAlreadyAssignedError struct {
	SeatNumber int
}

func (e *SeatAlreadyAssignedError) Error() string {
	return fmt.Sprintf("student already holds seat %d in this lab on that date", e.SeatNumber)
}

// SlotConflictError: the requested cell is already occupied.
type SlotConflictError struct {
	Slot string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("time slot %q is already reserved for this lab, date and seat", e.Slot)
}

// NormalizeDate strips the time-of-day component; all reservation date
// comparisons are by calendar day in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}
