package reservation

import (
	"time"

	"labreserve/internal/domain/lab"
)

// Reservation is one seat occupancy in one lab on one date for a set of time
// slots. Identifiers are business IDs, not storage keys.
type Reservation struct {
	id          int64
	labID       int64
	studentID   int64
	seatNumber  int
	reserveDate time.Time
	slots       lab.SlotSet
	requestDate time.Time
}

// New validates a request against the lab grid and builds the entity. The
// identifier must already be allocated by the ledger (inside the same
// transaction that will persist the row).
func New(
	id int64,
	grid *lab.Lab,
	studentID int64,
	seatNumber int,
	reserveDate time.Time,
	timeSlots []string,
	now time.Time,
) (*Reservation, error) {
	if id <= 0 {
		return nil, ErrInvalidReservationID
	}
	if studentID <= 0 {
		return nil, ErrInvalidStudentID
	}
	if reserveDate.IsZero() {
		return nil, ErrZeroDate
	}
	if err := grid.ValidateSeat(seatNumber); err != nil {
		return nil, err
	}
	slots, err := grid.NormalizeSlots(timeSlots)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:          id,
		labID:       grid.ID(),
		studentID:   studentID,
		seatNumber:  seatNumber,
		reserveDate: NormalizeDate(reserveDate),
		slots:       slots,
		requestDate: now,
	}, nil
}

// Reconstruct rebuilds an entity from persisted state without re-running grid
// validation.
func Reconstruct(
	id, labID, studentID int64,
	seatNumber int,
	reserveDate time.Time,
	timeSlots []string,
	requestDate time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		labID:       labID,
		studentID:   studentID,
		seatNumber:  seatNumber,
		reserveDate: NormalizeDate(reserveDate),
		slots:       lab.NewSlotSet(timeSlots),
		requestDate: requestDate,
	}
}

func (r *Reservation) ID() int64             { return r.id }
func (r *Reservation) LabID() int64          { return r.labID }
func (r *Reservation) StudentID() int64      { return r.studentID }
func (r *Reservation) SeatNumber() int       { return r.seatNumber }
func (r *Reservation) ReserveDate() time.Time { return r.reserveDate }
func (r *Reservation) Slots() lab.SlotSet    { return r.slots }
func (r *Reservation) RequestDate() time.Time { return r.requestDate }

// OwnedBy reports whether the reservation belongs to the given student.
func (r *Reservation) OwnedBy(studentID int64) bool {
	return r.studentID == studentID
}
