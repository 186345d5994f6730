package lab

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLabID     = errors.New("lab ID must be positive")
	ErrEmptyName        = errors.New("lab name must not be empty")
	ErrEmptyTimeList    = errors.New("lab time list must not be empty")
	ErrDuplicateSlot    = errors.New("lab time list contains duplicate labels")
	ErrInvalidSeatCount = errors.New("seat count must be positive")
	ErrEmptySlotSet     = errors.New("at least one time slot is required")
)

// UnknownSlotError reports a requested label that is not part of the lab grid.
type UnknownSlotError struct {
	Label string
}

func (e *UnknownSlotError) Error() string {
	return fmt.Sprintf("time slot %q is not defined for this lab", e.Label)
}

// SeatOutOfRangeError reports a seat number outside 1..seatCount.
type SeatOutOfRangeError struct {
	SeatNumber int
	SeatCount  int
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("seat %d is out of range 1..%d", e.SeatNumber, e.SeatCount)
}

// Lab is a bookable room with a fixed time-slot x seat grid. The grid is
// defined once at creation and never changes afterwards.
type Lab struct {
	id        int64
	name      string
	timeList  []string
	seatCount int
}

func NewLab(id int64, name string, timeList []string, seatCount int) (*Lab, error) {
	if id <= 0 {
		return nil, ErrInvalidLabID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(timeList) == 0 {
		return nil, ErrEmptyTimeList
	}
	seen := make(map[string]struct{}, len(timeList))
	for _, l := range timeList {
		if _, ok := seen[l]; ok {
			return nil, ErrDuplicateSlot
		}
		seen[l] = struct{}{}
	}
	if seatCount <= 0 {
		return nil, ErrInvalidSeatCount
	}

	list := make([]string, len(timeList))
	copy(list, timeList)
	return &Lab{
		id:        id,
		name:      name,
		timeList:  list,
		seatCount: seatCount,
	}, nil
}

func (l *Lab) ID() int64    { return l.id }
func (l *Lab) Name() string { return l.name }
func (l *Lab) TimeList() []string {
	out := make([]string, len(l.timeList))
	copy(out, l.timeList)
	return out
}
func (l *Lab) SeatCount() int { return l.seatCount }

func (l *Lab) HasSeat(seatNumber int) bool {
	return seatNumber >= 1 && seatNumber <= l.seatCount
}

// ValidateSeat returns a SeatOutOfRangeError for seats outside the grid.
func (l *Lab) ValidateSeat(seatNumber int) error {
	if !l.HasSeat(seatNumber) {
		return &SeatOutOfRangeError{SeatNumber: seatNumber, SeatCount: l.seatCount}
	}
	return nil
}

// NormalizeSlots checks every requested label against the grid and returns the
// set reordered to match the grid's column order. Request bodies may deliver
// labels in any order (or duplicated); the ledger only ever sees the
// normalized form.
func (l *Lab) NormalizeSlots(labels []string) (SlotSet, error) {
	if len(labels) == 0 {
		return SlotSet{}, ErrEmptySlotSet
	}

	requested := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		requested[label] = struct{}{}
	}
	for label := range requested {
		if !l.hasSlot(label) {
			return SlotSet{}, &UnknownSlotError{Label: label}
		}
	}

	ordered := make([]string, 0, len(requested))
	for _, label := range l.timeList {
		if _, ok := requested[label]; ok {
			ordered = append(ordered, label)
		}
	}
	return SlotSet{labels: ordered}, nil
}

func (l *Lab) hasSlot(label string) bool {
	for _, s := range l.timeList {
		if s == label {
			return true
		}
	}
	return false
}
