package repository

import (
	"context"
	"errors"
	"time"

	"labreserve/internal/domain/reservation"
	"labreserve/internal/infra"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db shared.DBTX
}

func NewReservationRepository(db shared.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// NextID allocates monotonically increasing ledger identifiers. The MAX scan
// is safe because allocation and insert share one transaction; a concurrent
// allocation of the same value trips the primary key and the caller retries.
func (r *ReservationRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(reservation_id), $1) + 1 FROM reservations`,
		reservation.FirstReservationID-1,
	).Scan(&next)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to allocate reservation ID", err)
	}
	return next, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservations (reservation_id, lab_id, student_id, seat_number, reserve_date, time_list, request_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID(), res.LabID(), res.StudentID(), res.SeatNumber(),
		res.ReserveDate(), res.Slots().Labels(), res.RequestDate(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert reservation", err)
	}

	// One row per occupied slot; the unique constraint on
	// (lab_id, reserve_date, seat_number, slot_label) is the final arbiter
	// between concurrent writers.
	_, err = r.db.Exec(ctx, `
		INSERT INTO reservation_slots (reservation_id, lab_id, reserve_date, seat_number, slot_label)
		SELECT $1, $2, $3, $4, unnest($5::text[])`,
		res.ID(), res.LabID(), res.ReserveDate(), res.SeatNumber(), res.Slots().Labels(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert reservation slots", err)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*shared.ReservationSnapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT reservation_id, lab_id, student_id, seat_number, reserve_date, time_list, request_date
		FROM reservations
		WHERE reservation_id = $1`, id)

	snap, err := scanReservationSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return snap, nil
}

func (r *ReservationRepository) ListByStudentOn(ctx context.Context, studentID int64, date time.Time) ([]shared.ReservationSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT reservation_id, lab_id, student_id, seat_number, reserve_date, time_list, request_date
		FROM reservations
		WHERE student_id = $1 AND reserve_date = $2
		ORDER BY reservation_id`, studentID, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by student", err)
	}
	defer rows.Close()

	return collectReservationSnapshots(rows)
}

func (r *ReservationRepository) ListByCell(ctx context.Context, labID int64, date time.Time, seatNumber int) ([]shared.ReservationSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT reservation_id, lab_id, student_id, seat_number, reserve_date, time_list, request_date
		FROM reservations
		WHERE lab_id = $1 AND reserve_date = $2 AND seat_number = $3
		ORDER BY reservation_id`, labID, date, seatNumber)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by cell", err)
	}
	defer rows.Close()

	return collectReservationSnapshots(rows)
}

func scanReservationSnapshot(row pgx.Row) (*shared.ReservationSnapshot, error) {
	var snap shared.ReservationSnapshot
	err := row.Scan(
		&snap.ID, &snap.LabID, &snap.StudentID, &snap.SeatNumber,
		&snap.ReserveDate, &snap.TimeSlots, &snap.RequestDate,
	)
	if err != nil {
		return nil, err
	}
	snap.ReserveDate = reservation.NormalizeDate(snap.ReserveDate)
	return &snap, nil
}

func collectReservationSnapshots(rows pgx.Rows) ([]shared.ReservationSnapshot, error) {
	var result []shared.ReservationSnapshot
	for rows.Next() {
		snap, err := scanReservationSnapshot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		result = append(result, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return result, nil
}
