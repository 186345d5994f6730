package readstore

import (
	"context"
	"errors"
	"time"

	"labreserve/internal/domain/reservation"
	"labreserve/internal/infra"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

const reservationViewSelect = `
	SELECT r.reservation_id, r.lab_id, l.name, r.student_id, COALESCE(u.display_name, ''), r.seat_number, r.reserve_date, r.time_list, r.request_date
	FROM reservations r
	JOIN labs l ON l.lab_id = r.lab_id
	LEFT JOIN users u ON u.student_id = r.student_id`

type ReservationReadStore struct {
	db shared.DBTX
}

func NewReservationReadStore(db shared.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id int64) (*queries.ReservationView, error) {
	row := r.db.QueryRow(ctx, reservationViewSelect+` WHERE r.reservation_id = $1`, id)

	view, err := scanReservationView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

func (r *ReservationReadStore) FindByStudentID(ctx context.Context, studentID int64) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx,
		reservationViewSelect+` WHERE r.student_id = $1 ORDER BY r.reserve_date, r.reservation_id`,
		studentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by student", err)
	}
	defer rows.Close()

	return collectReservationViews(rows)
}

func (r *ReservationReadStore) FindByLabID(ctx context.Context, labID int64) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx,
		reservationViewSelect+` WHERE r.lab_id = $1 ORDER BY r.reserve_date, r.seat_number, r.reservation_id`,
		labID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by lab", err)
	}
	defer rows.Close()

	return collectReservationViews(rows)
}

func (r *ReservationReadStore) FindByLabAndDate(ctx context.Context, labID int64, date time.Time) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx,
		reservationViewSelect+` WHERE r.lab_id = $1 AND r.reserve_date = $2 ORDER BY r.seat_number, r.reservation_id`,
		labID, reservation.NormalizeDate(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by lab and date", err)
	}
	defer rows.Close()

	return collectReservationViews(rows)
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var view queries.ReservationView
	err := row.Scan(
		&view.ReservationID, &view.LabID, &view.LabName, &view.StudentID, &view.StudentName,
		&view.SeatNumber, &view.ReserveDate, &view.TimeSlots, &view.RequestDate,
	)
	if err != nil {
		return nil, err
	}
	view.ReserveDate = reservation.NormalizeDate(view.ReserveDate)
	return &view, nil
}

func collectReservationViews(rows pgx.Rows) ([]*queries.ReservationView, error) {
	result := make([]*queries.ReservationView, 0)
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation view", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation views", err)
	}
	return result, nil
}
