package queries

import (
	"context"
	"time"

	"labreserve/internal/domain/reservation"
	"labreserve/internal/infra"
	"labreserve/internal/pkg/errs"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrLabNotFound         = errs.New("lab not found")
	ErrStudentNotFound     = errs.New("student not found")
	ErrQueryFailed         = errs.New("query failed")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, id int64) (*ReservationView, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*ReservationView, error)
	ListByLab(ctx context.Context, labID int64) ([]*ReservationView, error)
	ListByLabOn(ctx context.Context, labID int64, date time.Time) ([]*ReservationView, error)
	Occupancy(ctx context.Context, labID int64, date time.Time) (*OccupancyView, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id int64) (*ReservationView, error)
	FindByStudentID(ctx context.Context, studentID int64) ([]*ReservationView, error)
	FindByLabID(ctx context.Context, labID int64) ([]*ReservationView, error)
	FindByLabAndDate(ctx context.Context, labID int64, date time.Time) ([]*ReservationView, error)
}

type StudentExistenceRepo interface {
	StudentExists(ctx context.Context, studentID int64) (bool, error)
}

type reservationQueriesImpl struct {
	repo     ReservationViewRepo
	labs     LabViewRepo
	students StudentExistenceRepo
}

func NewReservationQueries(repo ReservationViewRepo, labs LabViewRepo, students StudentExistenceRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, labs: labs, students: students}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id int64) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

// ListByStudent distinguishes an unknown student from one with an empty
// ledger; callers surface the former as an error, the latter as [].
func (q *reservationQueriesImpl) ListByStudent(ctx context.Context, studentID int64) ([]*ReservationView, error) {
	exists, err := q.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	views, err := q.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

func (q *reservationQueriesImpl) ListByLab(ctx context.Context, labID int64) ([]*ReservationView, error) {
	if _, err := q.labs.FindByID(ctx, labID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLabNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	views, err := q.repo.FindByLabID(ctx, labID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

func (q *reservationQueriesImpl) ListByLabOn(ctx context.Context, labID int64, date time.Time) ([]*ReservationView, error) {
	if _, err := q.labs.FindByID(ctx, labID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLabNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	views, err := q.repo.FindByLabAndDate(ctx, labID, reservation.NormalizeDate(date))
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

// Occupancy assembles the grid for one lab-day: the lab defines the axes, the
// reservations fill the cells. Untouched cells are implied free.
func (q *reservationQueriesImpl) Occupancy(ctx context.Context, labID int64, date time.Time) (*OccupancyView, error) {
	labView, err := q.labs.FindByID(ctx, labID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLabNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	day := reservation.NormalizeDate(date)
	views, err := q.repo.FindByLabAndDate(ctx, labID, day)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	occupied := make([]OccupiedCell, 0)
	for _, v := range views {
		for _, slot := range v.TimeSlots {
			occupied = append(occupied, OccupiedCell{
				SeatNumber:    v.SeatNumber,
				SlotLabel:     slot,
				ReservationID: v.ReservationID,
				StudentID:     v.StudentID,
				StudentName:   v.StudentName,
			})
		}
	}

	return &OccupancyView{
		LabID:     labView.LabID,
		LabName:   labView.Name,
		Date:      day,
		TimeList:  labView.TimeList,
		SeatCount: labView.SeatCount,
		Occupied:  occupied,
	}, nil
}
