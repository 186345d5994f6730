//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"labreserve/internal/domain/lab"
	"labreserve/internal/domain/reservation"
	"labreserve/internal/domain/user"
	"labreserve/internal/infra"
	"labreserve/internal/pkg/clock"
	"labreserve/internal/usecase/commands"
	"labreserve/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// in-memory fakes
// ---------------------------------------------------------------------------

type fakeLedger struct {
	snapshots []shared.ReservationSnapshot
}

func (f *fakeLedger) NextID(_ context.Context) (int64, error) {
	next := reservation.FirstReservationID
	for _, s := range f.snapshots {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next, nil
}

func (f *fakeLedger) Create(_ context.Context, res *reservation.Reservation) error {
	f.snapshots = append(f.snapshots, shared.ReservationSnapshot{
		ID:          res.ID(),
		LabID:       res.LabID(),
		StudentID:   res.StudentID(),
		SeatNumber:  res.SeatNumber(),
		ReserveDate: res.ReserveDate(),
		TimeSlots:   res.Slots().Labels(),
		RequestDate: res.RequestDate(),
	})
	return nil
}

func (f *fakeLedger) Delete(_ context.Context, id int64) error {
	for i, s := range f.snapshots {
		if s.ID == id {
			f.snapshots = append(f.snapshots[:i], f.snapshots[i+1:]...)
			return nil
		}
	}
	return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeLedger) FindByID(_ context.Context, id int64) (*shared.ReservationSnapshot, error) {
	for _, s := range f.snapshots {
		if s.ID == id {
			snap := s
			return &snap, nil
		}
	}
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeLedger) ListByStudentOn(_ context.Context, studentID int64, date time.Time) ([]shared.ReservationSnapshot, error) {
	var out []shared.ReservationSnapshot
	for _, s := range f.snapshots {
		if s.StudentID == studentID && reservation.SameDay(s.ReserveDate, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByCell(_ context.Context, labID int64, date time.Time, seatNumber int) ([]shared.ReservationSnapshot, error) {
	var out []shared.ReservationSnapshot
	for _, s := range f.snapshots {
		if s.LabID == labID && s.SeatNumber == seatNumber && reservation.SameDay(s.ReserveDate, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeLabs struct {
	labs map[int64]*lab.Lab
}

func (f *fakeLabs) FindByID(_ context.Context, labID int64) (*lab.Lab, error) {
	l, ok := f.labs[labID]
	if !ok {
		return nil, infra.WrapRepoErr("lab not found", nil, infra.KindNotFound)
	}
	return l, nil
}

func (f *fakeLabs) Create(_ context.Context, l *lab.Lab) error {
	f.labs[l.ID()] = l
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

func (f *fakeUsers) FindByStudentID(_ context.Context, studentID int64) (*user.User, error) {
	for _, u := range f.users {
		if u.StudentID() != nil && *u.StudentID() == studentID {
			return u, nil
		}
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email().Value() == email {
			return u, nil
		}
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (f *fakeUsers) FindByBusinessID(_ context.Context, businessID int64) (*user.User, error) {
	for _, u := range f.users {
		if u.BusinessID() == businessID {
			return u, nil
		}
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUsers) NextStudentID(_ context.Context) (int64, error) { return 1001, nil }
func (f *fakeUsers) NextTechID(_ context.Context) (int64, error)    { return 2001, nil }

func (f *fakeUsers) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }
func (f *fakeUsers) UpdateProfile(_ context.Context, _ *user.User) error               { return nil }

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeTx struct {
	ledger *fakeLedger
	labs   *fakeLabs
	users  *fakeUsers
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return t.ledger }
func (t *fakeTx) Labs() shared.LabRepository                 { return t.labs }
func (t *fakeTx) Users() shared.UserRepository               { return t.users }
func (t *fakeTx) DB() shared.DBTX                            { return nil }

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db shared.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db shared.DBTX) error) error {
	return fn(ctx, nil)
}

// ---------------------------------------------------------------------------
// fixture
// ---------------------------------------------------------------------------

type fixture struct {
	cmds    commands.ReservationCommands
	clk     *clock.MockClock
	ledger  *fakeLedger
	student commands.Actor // student 9999
	other   commands.Actor // student 1001
	staff   commands.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	lab302, err := lab.NewLab(302, "Lab R302", []string{"8:00AM-8:30AM", "8:30AM-9:00AM"}, 20)
	require.NoError(t, err)
	lab101, err := lab.NewLab(101, "Lab K101", []string{"8:00AM-8:30AM", "10:00AM-10:30AM"}, 12)
	require.NoError(t, err)

	email := func(s string) user.Email {
		e, err := user.NewEmail(s)
		require.NoError(t, err)
		return e
	}
	student := user.NewStudent(email("s9999@example.com"), "hash", 9999)
	other := user.NewStudent(email("s1001@example.com"), "hash", 1001)
	tech := user.NewTech(email("tech@example.com"), "hash", 2001)

	tx := &fakeTx{
		ledger: &fakeLedger{},
		labs:   &fakeLabs{labs: map[int64]*lab.Lab{302: lab302, 101: lab101}},
		users: &fakeUsers{users: map[uuid.UUID]*user.User{
			student.ID(): student,
			other.ID():   other,
			tech.ID():    tech,
		}},
	}

	clk := clock.NewMockClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))

	return &fixture{
		cmds:    commands.NewReservationCommands(&fakeUoW{tx: tx}, clk),
		clk:     clk,
		ledger:  tx.ledger,
		student: commands.Actor{ID: student.ID(), Role: user.RoleStudent},
		other:   commands.Actor{ID: other.ID(), Role: user.RoleStudent},
		staff:   commands.Actor{ID: tech.ID(), Role: user.RoleTech},
	}
}

func reserveParams(slots ...string) commands.ReserveParams {
	return commands.ReserveParams{
		LabID:       302,
		StudentID:   9999,
		SeatNumber:  1,
		ReserveDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		TimeSlots:   slots,
	}
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("first reservation on an empty ledger gets the initial ID", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)
		assert.Equal(t, reservation.FirstReservationID, id)
		assert.Len(t, f.ledger.snapshots, 1)
	})

	t.Run("identifiers increase monotonically", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		f.clk.Add(time.Minute)
		second, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:30AM-9:00AM"))
		require.NoError(t, err)

		assert.Equal(t, first+1, second)
	})

	t.Run("identical resubmission within the window is debounced", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		f.clk.Add(2 * time.Second)
		_, err = f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.ErrorIs(t, err, commands.ErrDuplicateSubmission)
		assert.Len(t, f.ledger.snapshots, 1)
	})

	t.Run("identical resubmission after the window is a slot conflict", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		f.clk.Add(reservation.DebounceWindow + time.Second)
		_, err = f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("second seat in the same lab-day is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		params := reserveParams("8:30AM-9:00AM")
		params.SeatNumber = 5
		f.clk.Add(time.Minute)
		_, err = f.cmds.Reserve(ctx, f.student, params)
		require.ErrorIs(t, err, commands.ErrSeatAlreadyAssigned)
	})

	t.Run("overlapping slot in another lab is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		params := reserveParams("8:00AM-8:30AM")
		params.LabID = 101
		f.clk.Add(time.Minute)
		_, err = f.cmds.Reserve(ctx, f.student, params)
		require.ErrorIs(t, err, commands.ErrCrossLabConflict)
	})

	t.Run("disjoint slot in another lab succeeds", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		params := reserveParams("10:00AM-10:30AM")
		params.LabID = 101
		f.clk.Add(time.Minute)
		_, err = f.cmds.Reserve(ctx, f.student, params)
		require.NoError(t, err)
	})

	t.Run("unknown lab", func(t *testing.T) {
		f := newFixture(t)
		params := reserveParams("8:00AM-8:30AM")
		params.LabID = 999
		_, err := f.cmds.Reserve(ctx, f.student, params)
		require.ErrorIs(t, err, commands.ErrLabNotFound)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		params := reserveParams("8:00AM-8:30AM")
		params.StudentID = 4242
		_, err := f.cmds.Reserve(ctx, f.staff, params)
		require.ErrorIs(t, err, commands.ErrStudentNotFound)
	})

	t.Run("slot outside the lab grid is invalid", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.cmds.Reserve(ctx, f.student, reserveParams("11:00PM-11:30PM"))
		require.ErrorIs(t, err, commands.ErrInvalidRequest)
	})

	t.Run("malformed slot wins over an unknown student", func(t *testing.T) {
		f := newFixture(t)
		params := reserveParams("11:00PM-11:30PM")
		params.StudentID = 4242
		_, err := f.cmds.Reserve(ctx, f.staff, params)
		require.ErrorIs(t, err, commands.ErrInvalidRequest)
	})

	t.Run("seat outside the lab grid is invalid", func(t *testing.T) {
		f := newFixture(t)
		params := reserveParams("8:00AM-8:30AM")
		params.SeatNumber = 21
		_, err := f.cmds.Reserve(ctx, f.student, params)
		require.ErrorIs(t, err, commands.ErrInvalidRequest)
	})

	t.Run("student cannot reserve for another student", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.cmds.Reserve(ctx, f.other, reserveParams("8:00AM-8:30AM"))
		require.ErrorIs(t, err, commands.ErrNotOwner)
		assert.Empty(t, f.ledger.snapshots)
	})

	t.Run("staff can reserve on a student's behalf", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.cmds.Reserve(ctx, f.staff, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels and the cell frees up", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		require.NoError(t, f.cmds.Cancel(ctx, f.student, id))
		assert.Empty(t, f.ledger.snapshots)

		// the freed cell is bookable again
		f.clk.Add(time.Minute)
		_, err = f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)
	})

	t.Run("another student cannot cancel", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		err = f.cmds.Cancel(ctx, f.other, id)
		require.ErrorIs(t, err, commands.ErrNotOwner)
		assert.Len(t, f.ledger.snapshots, 1)
	})

	t.Run("staff cancels any reservation", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.cmds.Reserve(ctx, f.student, reserveParams("8:00AM-8:30AM"))
		require.NoError(t, err)

		require.NoError(t, f.cmds.Cancel(ctx, f.staff, id))
		assert.Empty(t, f.ledger.snapshots)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)
		err := f.cmds.Cancel(ctx, f.staff, 4040)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
