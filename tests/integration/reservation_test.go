//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"labreserve/internal/domain/reservation"
	"labreserve/internal/domain/user"
	"labreserve/internal/infra/readstore"
	"labreserve/internal/infra/uow"
	"labreserve/internal/pkg/clock"
	"labreserve/internal/usecase/commands"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerEnv struct {
	pool    *pgxpool.Pool
	uow     shared.UnitOfWork
	clk     *clock.MockClock
	cmds    commands.ReservationCommands
	queries queries.ReservationQueries
	student commands.Actor
	staff   commands.Actor
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	ctx := context.Background()

	pool := startPostgres(t)
	unit := uow.NewPostgresUoW(pool)
	clk := clock.NewMockClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))

	// the schema seeds labs 101/201/302; users we create here
	student := user.NewStudent(mustNewEmail(t, "s9999@example.com"), "hash", 9999)
	tech := user.NewTech(mustNewEmail(t, "tech@example.com"), "hash", 2001)

	err := unit.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, student); err != nil {
			return err
		}
		return tx.Users().Create(ctx, tech)
	})
	require.NoError(t, err)

	reservationViews := readstore.NewReservationReadStore(pool)
	labViews := readstore.NewLabReadStore(pool)
	userViews := readstore.NewUserReadStore(pool)

	return &ledgerEnv{
		pool:    pool,
		uow:     unit,
		clk:     clk,
		cmds:    commands.NewReservationCommands(unit, clk),
		queries: queries.NewReservationQueries(reservationViews, labViews, userViews),
		student: commands.Actor{ID: student.ID(), Role: user.RoleStudent},
		staff:   commands.Actor{ID: tech.ID(), Role: user.RoleTech},
	}
}

func (e *ledgerEnv) seedStudent(t *testing.T, studentID int64, email string) {
	t.Helper()
	s := user.NewStudent(mustNewEmail(t, email), "hash", studentID)
	err := e.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, s)
	})
	require.NoError(t, err)
}

func (e *ledgerEnv) reserve302(slots ...string) commands.ReserveParams {
	return commands.ReserveParams{
		LabID:       302,
		StudentID:   9999,
		SeatNumber:  1,
		ReserveDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		TimeSlots:   slots,
	}
}

func TestReservationLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires Docker")
	}

	env := newLedgerEnv(t)
	ctx := context.Background()

	t.Run("empty ledger hands out the first identifier", func(t *testing.T) {
		resetLedger(t, env.pool)

		id, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)
		assert.Equal(t, reservation.FirstReservationID, id)
	})

	t.Run("same cell cannot be booked twice", func(t *testing.T) {
		resetLedger(t, env.pool)

		_, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)

		env.clk.Add(reservation.DebounceWindow + time.Second)
		_, err = env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("identical resubmission inside the window is debounced", func(t *testing.T) {
		resetLedger(t, env.pool)

		_, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)

		env.clk.Add(time.Second)
		_, err = env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.ErrorIs(t, err, commands.ErrDuplicateSubmission)

		views, err := env.queries.ListByStudent(ctx, 9999)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("second seat in the same lab-day is rejected", func(t *testing.T) {
		resetLedger(t, env.pool)

		_, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)

		params := env.reserve302("8:30AM-9:00AM")
		params.SeatNumber = 5
		env.clk.Add(time.Minute)
		_, err = env.cmds.Reserve(ctx, env.student, params)
		require.ErrorIs(t, err, commands.ErrSeatAlreadyAssigned)
	})

	t.Run("overlapping slot in another lab is rejected", func(t *testing.T) {
		resetLedger(t, env.pool)

		_, err := env.cmds.Reserve(ctx, env.student, env.reserve302("10:00AM-10:30AM"))
		require.NoError(t, err)

		params := env.reserve302("10:00AM-10:30AM")
		params.LabID = 101
		env.clk.Add(time.Minute)
		_, err = env.cmds.Reserve(ctx, env.student, params)
		require.ErrorIs(t, err, commands.ErrCrossLabConflict)
	})

	t.Run("cancel frees the cell in the occupancy grid", func(t *testing.T) {
		resetLedger(t, env.pool)
		date := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

		id, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)

		grid, err := env.queries.Occupancy(ctx, 302, date)
		require.NoError(t, err)
		require.Len(t, grid.Occupied, 1)
		assert.Equal(t, "8:00AM-8:30AM", grid.Occupied[0].SlotLabel)
		assert.Equal(t, 1, grid.Occupied[0].SeatNumber)

		require.NoError(t, env.cmds.Cancel(ctx, env.student, id))

		grid, err = env.queries.Occupancy(ctx, 302, date)
		require.NoError(t, err)
		assert.Empty(t, grid.Occupied)
	})

	t.Run("another student cannot cancel, staff can", func(t *testing.T) {
		resetLedger(t, env.pool)

		other := user.NewStudent(mustNewEmail(t, "s1002@example.com"), "hash", 1002)
		err := env.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Users().Create(ctx, other)
		})
		require.NoError(t, err)

		id, err := env.cmds.Reserve(ctx, env.student, env.reserve302("8:00AM-8:30AM"))
		require.NoError(t, err)

		otherActor := commands.Actor{ID: other.ID(), Role: user.RoleStudent}
		require.ErrorIs(t, env.cmds.Cancel(ctx, otherActor, id), commands.ErrNotOwner)

		require.NoError(t, env.cmds.Cancel(ctx, env.staff, id))
	})

	t.Run("concurrent reserves for one cell admit exactly one writer", func(t *testing.T) {
		resetLedger(t, env.pool)

		const racers = 6
		for i := 0; i < racers; i++ {
			env.seedStudent(t, int64(5001+i), fmt.Sprintf("race%d@example.com", i))
		}

		start := make(chan struct{})
		var wg sync.WaitGroup
		results := make([]error, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				params := env.reserve302("8:00AM-8:30AM")
				params.StudentID = int64(5001 + i)
				_, results[i] = env.cmds.Reserve(ctx, env.staff, params)
			}(i)
		}
		close(start)
		wg.Wait()

		winners := 0
		for _, err := range results {
			if err == nil {
				winners++
				continue
			}
			assert.True(t,
				errors.Is(err, commands.ErrSlotConflict) || errors.Is(err, commands.ErrReservationConflict),
				"unexpected rejection: %v", err)
		}
		assert.Equal(t, 1, winners)

		views, err := env.queries.ListByLabOn(ctx, 302, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("concurrent reserves for distinct cells never share an identifier", func(t *testing.T) {
		resetLedger(t, env.pool)

		env.seedStudent(t, 5101, "race-a@example.com")
		env.seedStudent(t, 5102, "race-b@example.com")

		start := make(chan struct{})
		var wg sync.WaitGroup
		ids := make([]int64, 2)
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				params := env.reserve302("8:00AM-8:30AM")
				params.StudentID = int64(5101 + i)
				params.SeatNumber = 3 + i
				ids[i], results[i] = env.cmds.Reserve(ctx, env.staff, params)
			}(i)
		}
		close(start)
		wg.Wait()

		// Both may land when the transactions serialize; when they truly race,
		// the primary key rejects the reused identifier for the loser.
		var won []int64
		for i, err := range results {
			if err == nil {
				won = append(won, ids[i])
				continue
			}
			require.ErrorIs(t, err, commands.ErrReservationConflict)
		}
		require.NotEmpty(t, won)
		if len(won) == 2 {
			assert.NotEqual(t, won[0], won[1])
		}

		views, err := env.queries.ListByLabOn(ctx, 302, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, views, len(won))
	})

	t.Run("unknown lab and unknown student", func(t *testing.T) {
		resetLedger(t, env.pool)

		params := env.reserve302("8:00AM-8:30AM")
		params.LabID = 999
		_, err := env.cmds.Reserve(ctx, env.student, params)
		require.ErrorIs(t, err, commands.ErrLabNotFound)

		params = env.reserve302("8:00AM-8:30AM")
		params.StudentID = 4242
		_, err = env.cmds.Reserve(ctx, env.staff, params)
		require.ErrorIs(t, err, commands.ErrStudentNotFound)
	})
}

func mustNewEmail(t *testing.T, s string) user.Email {
	t.Helper()
	e, err := user.NewEmail(s)
	require.NoError(t, err)
	return e
}
