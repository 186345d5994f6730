package shared

import (
	"context"
	"time"

	"labreserve/internal/domain/lab"
	"labreserve/internal/domain/reservation"
	"labreserve/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by pgxpool.Pool and pgx.Tx, so repositories
// run unchanged inside or outside an explicit transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Labs() LabRepository
	Users() UserRepository
	DB() DBTX
}

// ReservationSnapshot is the write-side row image used for conflict checks
// and ownership decisions.
type ReservationSnapshot struct {
	ID          int64
	LabID       int64
	StudentID   int64
	SeatNumber  int
	ReserveDate time.Time
	TimeSlots   []string
	RequestDate time.Time
}

// Existing converts the snapshot to its conflict-check form.
func (s ReservationSnapshot) Existing() reservation.Existing {
	return reservation.Existing{
		ReservationID: s.ID,
		LabID:         s.LabID,
		StudentID:     s.StudentID,
		SeatNumber:    s.SeatNumber,
		Slots:         lab.NewSlotSet(s.TimeSlots),
		RequestDate:   s.RequestDate,
	}
}

type ReservationRepository interface {
	// NextID allocates the next ledger identifier. Must run inside the same
	// transaction as the Create that uses it.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, res *reservation.Reservation) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*ReservationSnapshot, error)
	// ListByStudentOn returns every reservation the student holds on the
	// date, across all labs.
	ListByStudentOn(ctx context.Context, studentID int64, date time.Time) ([]ReservationSnapshot, error)
	// ListByCell returns every reservation on one (lab, date, seat) cell.
	ListByCell(ctx context.Context, labID int64, date time.Time, seatNumber int) ([]ReservationSnapshot, error)
}

type LabRepository interface {
	FindByID(ctx context.Context, labID int64) (*lab.Lab, error)
	Create(ctx context.Context, l *lab.Lab) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByStudentID(ctx context.Context, studentID int64) (*user.User, error)
	// FindByBusinessID resolves either a student or a tech number.
	FindByBusinessID(ctx context.Context, businessID int64) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	NextStudentID(ctx context.Context) (int64, error)
	NextTechID(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
