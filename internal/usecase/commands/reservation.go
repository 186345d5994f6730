package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"labreserve/internal/domain/lab"
	"labreserve/internal/domain/reservation"
	"labreserve/internal/domain/user"
	"labreserve/internal/infra"
	"labreserve/internal/pkg/clock"
	"labreserve/internal/pkg/errs"
	"labreserve/internal/pkg/metrics"
	"labreserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest          = errs.New("invalid reservation request")
	ErrLabNotFound             = errs.New("lab not found")
	ErrStudentNotFound         = errs.New("student not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrCrossLabConflict        = errs.New("conflicting reservation in another lab")
	ErrSeatAlreadyAssigned     = errs.New("student already holds another seat in this lab")
	ErrSlotConflict            = errs.New("time slot already reserved")
	ErrDuplicateSubmission     = errs.New("duplicate submission")
	ErrNotOwner                = errs.New("reservation belongs to another student")
	ErrReservationConflict     = errs.New("reservation conflict")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Actor is the authenticated principal performing a command.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type ReserveParams struct {
	LabID       int64
	StudentID   int64
	SeatNumber  int
	ReserveDate time.Time
	TimeSlots   []string
}

type ReservationCommands interface {
	Reserve(ctx context.Context, actor Actor, params ReserveParams) (int64, error)
	Cancel(ctx context.Context, actor Actor, reservationID int64) error
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock) ReservationCommands {
	return &reservationCommandsImpl{uow: uow, clock: clk}
}

// Reserve books a seat for a set of time slots. All checks and the insert run
// in one transaction so the conflict decision and the write see the same
// ledger state; the slot table's unique constraint settles anything the
// checks raced past.
func (r *reservationCommandsImpl) Reserve(ctx context.Context, actor Actor, params ReserveParams) (int64, error) {
	var reservationID int64

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		grid, err := r.loadLab(ctx, tx, params.LabID)
		if err != nil {
			return err
		}

		// Slot and seat well-formedness is settled against the grid before
		// any identity lookup, so a malformed request never leaks whether a
		// student number exists.
		if _, err := grid.NormalizeSlots(params.TimeSlots); err != nil {
			return errs.Mark(err, ErrInvalidRequest)
		}
		if err := grid.ValidateSeat(params.SeatNumber); err != nil {
			return errs.Mark(err, ErrInvalidRequest)
		}

		if _, err := r.loadStudent(ctx, tx, params.StudentID); err != nil {
			return err
		}

		if err := r.authorizeStudentAccess(ctx, tx, actor, params.StudentID); err != nil {
			return err
		}

		id, err := tx.Reservations().NextID(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := r.clock.Now()
		entity, err := reservation.New(id, grid, params.StudentID, params.SeatNumber, params.ReserveDate, params.TimeSlots, now)
		if err != nil {
			return errs.Mark(err, ErrInvalidRequest)
		}

		studentDay, err := tx.Reservations().ListByStudentOn(ctx, params.StudentID, entity.ReserveDate())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		existingStudent := toExisting(studentDay)

		if reservation.IsDuplicateSubmission(entity, existingStudent, now) {
			return ErrDuplicateSubmission
		}

		cellDay, err := tx.Reservations().ListByCell(ctx, params.LabID, entity.ReserveDate(), params.SeatNumber)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := reservation.CheckConflicts(entity, existingStudent, toExisting(cellDay)); err != nil {
			return markConflict(err)
		}

		if err := tx.Reservations().Create(ctx, entity); err != nil {
			return classifyCreateError(err)
		}

		reservationID = id
		return nil
	})
	if err != nil {
		metrics.IncReservationRejected(rejectionReason(err))
		return 0, err
	}

	metrics.IncReservationCreated()
	return reservationID, nil
}

// Cancel removes a reservation. Students may only cancel their own; staff may
// cancel any.
func (r *reservationCommandsImpl) Cancel(ctx context.Context, actor Actor, reservationID int64) error {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := r.authorizeStudentAccess(ctx, tx, actor, snap.StudentID); err != nil {
			return err
		}

		if err := tx.Reservations().Delete(ctx, reservationID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncReservationCanceled()
	return nil
}

func (r *reservationCommandsImpl) loadLab(ctx context.Context, tx shared.Tx, labID int64) (*lab.Lab, error) {
	grid, err := tx.Labs().FindByID(ctx, labID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLabNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return grid, nil
}

func (r *reservationCommandsImpl) loadStudent(ctx context.Context, tx shared.Tx, studentID int64) (*user.User, error) {
	student, err := tx.Users().FindByStudentID(ctx, studentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrStudentNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return student, nil
}

// authorizeStudentAccess enforces ownership: staff act on anyone, a student
// only on their own number. The actor's number comes from storage, not the
// token, so a stale token cannot impersonate a reassigned ID.
func (r *reservationCommandsImpl) authorizeStudentAccess(ctx context.Context, tx shared.Tx, actor Actor, targetStudentID int64) error {
	if actor.Role.IsStaff() {
		return nil
	}

	actorUser, err := tx.Users().FindByID(ctx, actor.ID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrNotOwner)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if actorUser.StudentID() == nil || *actorUser.StudentID() != targetStudentID {
		return ErrNotOwner
	}
	return nil
}

func toExisting(snaps []shared.ReservationSnapshot) []reservation.Existing {
	out := make([]reservation.Existing, len(snaps))
	for i, s := range snaps {
		out[i] = s.Existing()
	}
	return out
}

func markConflict(err error) error {
	var crossLab *reservation.CrossLabConflictError
	var seatAssigned *reservation.SeatAlreadyAssignedError
	var slotConflict *reservation.SlotConflictError

	switch {
	case errors.As(err, &crossLab):
		return errs.Mark(err, ErrCrossLabConflict)
	case errors.As(err, &seatAssigned):
		return errs.Mark(err, ErrSeatAlreadyAssigned)
	case errors.As(err, &slotConflict):
		return errs.Mark(err, ErrSlotConflict)
	default:
		return errs.Mark(err, ErrReservationConflict)
	}
}

// classifyCreateError maps unique violations raised by a concurrent writer
// between our checks and our insert.
func classifyCreateError(err error) error {
	if infra.IsKind(err, infra.KindDuplicateKey) {
		if strings.Contains(infra.ConstraintName(err), "reservation_slots") {
			return errs.Mark(err, ErrSlotConflict)
		}
		return errs.Mark(err, ErrReservationConflict)
	}
	if infra.IsKind(err, infra.KindForeignKeyViolated) {
		return errs.Mark(err, ErrStudentNotFound)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrLabNotFound):
		return "lab_not_found"
	case errors.Is(err, ErrStudentNotFound):
		return "student_not_found"
	case errors.Is(err, ErrCrossLabConflict):
		return "cross_lab_conflict"
	case errors.Is(err, ErrSeatAlreadyAssigned):
		return "seat_already_assigned"
	case errors.Is(err, ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, ErrDuplicateSubmission):
		return "duplicate_submission"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrReservationConflict):
		return "conflict"
	default:
		return "internal"
	}
}
