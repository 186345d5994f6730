//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"labreserve/internal/domain/lab"
	"labreserve/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	conflictDate = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	requestedAt  = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
)

func newRequest(t *testing.T, grid *lab.Lab, studentID int64, seat int, slots ...string) *reservation.Reservation {
	t.Helper()
	r, err := reservation.New(3002, grid, studentID, seat, conflictDate, slots, requestedAt)
	require.NoError(t, err)
	return r
}

func existing(labID, studentID int64, seat int, slots ...string) reservation.Existing {
	return reservation.Existing{
		ReservationID: 3001,
		LabID:         labID,
		StudentID:     studentID,
		SeatNumber:    seat,
		Slots:         lab.NewSlotSet(slots),
		RequestDate:   requestedAt.Add(-time.Hour),
	}
}

func TestCheckConflicts(t *testing.T) {
	grid := testGrid(t) // lab 302

	t.Run("no existing reservations", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")
		assert.NoError(t, reservation.CheckConflicts(req, nil, nil))
	})

	t.Run("same cell same slot is rejected", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")
		held := existing(302, 9999, 1, "8:00AM-8:30AM")

		err := reservation.CheckConflicts(req, []reservation.Existing{held}, []reservation.Existing{held})

		var slotErr *reservation.SlotConflictError
		require.ErrorAs(t, err, &slotErr)
		assert.Equal(t, "8:00AM-8:30AM", slotErr.Slot)
	})

	t.Run("another seat in the same lab-day is rejected", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 5, "8:30AM-9:00AM")
		held := existing(302, 9999, 1, "8:00AM-8:30AM")

		err := reservation.CheckConflicts(req, []reservation.Existing{held}, nil)

		var seatErr *reservation.SeatAlreadyAssignedError
		require.ErrorAs(t, err, &seatErr)
		assert.Equal(t, 1, seatErr.SeatNumber)
	})

	t.Run("overlapping slot in another lab is rejected", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")
		held := existing(101, 9999, 3, "8:00AM-8:30AM")

		err := reservation.CheckConflicts(req, []reservation.Existing{held}, nil)

		var crossErr *reservation.CrossLabConflictError
		require.ErrorAs(t, err, &crossErr)
		assert.Equal(t, "8:00AM-8:30AM", crossErr.Slot)
		assert.Equal(t, int64(101), crossErr.OtherLabID)
	})

	t.Run("disjoint slot in another lab is fine", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")
		held := existing(101, 9999, 3, "8:30AM-9:00AM")

		assert.NoError(t, reservation.CheckConflicts(req, []reservation.Existing{held}, nil))
	})

	t.Run("repeat booking on held seat with disjoint slots is fine", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:30AM-9:00AM")
		held := existing(302, 9999, 1, "8:00AM-8:30AM")

		assert.NoError(t, reservation.CheckConflicts(req, []reservation.Existing{held}, []reservation.Existing{held}))
	})

	t.Run("someone else holding the cell is rejected", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")
		other := existing(302, 1001, 1, "8:00AM-8:30AM")

		err := reservation.CheckConflicts(req, nil, []reservation.Existing{other})

		var slotErr *reservation.SlotConflictError
		require.ErrorAs(t, err, &slotErr)
	})

	t.Run("cross-lab wins over same-lab seat check", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 5, "8:00AM-8:30AM")
		studentDay := []reservation.Existing{
			existing(302, 9999, 1, "8:30AM-9:00AM"), // would be SeatAlreadyAssigned
			existing(101, 9999, 2, "8:00AM-8:30AM"), // cross-lab on the requested slot
		}

		err := reservation.CheckConflicts(req, studentDay, nil)

		var crossErr *reservation.CrossLabConflictError
		require.ErrorAs(t, err, &crossErr)
	})

	t.Run("seat check wins over cell check", func(t *testing.T) {
		req := newRequest(t, grid, 9999, 5, "8:00AM-8:30AM")
		studentDay := []reservation.Existing{existing(302, 9999, 1, "9:00AM-9:30AM")}
		cellDay := []reservation.Existing{existing(302, 1001, 5, "8:00AM-8:30AM")}

		err := reservation.CheckConflicts(req, studentDay, cellDay)

		var seatErr *reservation.SeatAlreadyAssignedError
		require.ErrorAs(t, err, &seatErr)
	})
}

func TestIsDuplicateSubmission(t *testing.T) {
	grid := testGrid(t)
	now := requestedAt

	sameRequest := func(requestDate time.Time) reservation.Existing {
		return reservation.Existing{
			ReservationID: 3001,
			LabID:         302,
			StudentID:     9999,
			SeatNumber:    1,
			Slots:         lab.NewSlotSet([]string{"8:00AM-8:30AM"}),
			RequestDate:   requestDate,
		}
	}

	req := newRequest(t, grid, 9999, 1, "8:00AM-8:30AM")

	cases := []struct {
		name string
		ex   reservation.Existing
		want bool
	}{
		{name: "same request just submitted", ex: sameRequest(now), want: true},
		{name: "same request inside window", ex: sameRequest(now.Add(-3 * time.Second)), want: true},
		{name: "same request exactly at window edge", ex: sameRequest(now.Add(-reservation.DebounceWindow)), want: true},
		{name: "same request past window", ex: sameRequest(now.Add(-reservation.DebounceWindow - time.Millisecond)), want: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := reservation.IsDuplicateSubmission(req, []reservation.Existing{c.ex}, now)
			assert.Equal(t, c.want, got)
		})
	}

	t.Run("different slot set is not a duplicate", func(t *testing.T) {
		ex := sameRequest(now)
		ex.Slots = lab.NewSlotSet([]string{"8:30AM-9:00AM"})
		assert.False(t, reservation.IsDuplicateSubmission(req, []reservation.Existing{ex}, now))
	})

	t.Run("different seat is not a duplicate", func(t *testing.T) {
		ex := sameRequest(now)
		ex.SeatNumber = 2
		assert.False(t, reservation.IsDuplicateSubmission(req, []reservation.Existing{ex}, now))
	})
}
