//go:build unit

package lab_test

import (
	"testing"

	"labreserve/internal/domain/lab"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var morningGrid = []string{"8:00AM-8:30AM", "8:30AM-9:00AM", "9:00AM-9:30AM", "9:30AM-10:00AM"}

func TestNewLab(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		l, err := lab.NewLab(302, "Lab R302", morningGrid, 20)
		require.NoError(t, err)
		require.NotNil(t, l)

		assert.Equal(t, int64(302), l.ID())
		assert.Equal(t, "Lab R302", l.Name())
		assert.Equal(t, 20, l.SeatCount())
		assert.Empty(t, cmp.Diff(morningGrid, l.TimeList()))
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name      string
			id        int64
			labName   string
			timeList  []string
			seatCount int
			errIs     error
		}{
			{name: "zero lab ID", id: 0, labName: "Lab A", timeList: morningGrid, seatCount: 10, errIs: lab.ErrInvalidLabID},
			{name: "negative lab ID", id: -1, labName: "Lab A", timeList: morningGrid, seatCount: 10, errIs: lab.ErrInvalidLabID},
			{name: "empty name", id: 1, labName: "", timeList: morningGrid, seatCount: 10, errIs: lab.ErrEmptyName},
			{name: "empty time list", id: 1, labName: "Lab A", timeList: nil, seatCount: 10, errIs: lab.ErrEmptyTimeList},
			{name: "duplicate slot label", id: 1, labName: "Lab A", timeList: []string{"8:00AM-8:30AM", "8:00AM-8:30AM"}, seatCount: 10, errIs: lab.ErrDuplicateSlot},
			{name: "zero seats", id: 1, labName: "Lab A", timeList: morningGrid, seatCount: 0, errIs: lab.ErrInvalidSeatCount},
			{name: "negative seats", id: 1, labName: "Lab A", timeList: morningGrid, seatCount: -3, errIs: lab.ErrInvalidSeatCount},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				l, err := lab.NewLab(c.id, c.labName, c.timeList, c.seatCount)
				require.Nil(t, l)
				require.ErrorIs(t, err, c.errIs)
			})
		}
	})

	t.Run("time list is copied defensively", func(t *testing.T) {
		src := []string{"8:00AM-8:30AM", "8:30AM-9:00AM"}
		l, err := lab.NewLab(1, "Lab A", src, 5)
		require.NoError(t, err)

		src[0] = "mutated"
		assert.Equal(t, "8:00AM-8:30AM", l.TimeList()[0])
	})
}

func TestValidateSeat(t *testing.T) {
	l, err := lab.NewLab(101, "Lab K101", morningGrid, 12)
	require.NoError(t, err)

	assert.NoError(t, l.ValidateSeat(1))
	assert.NoError(t, l.ValidateSeat(12))

	for _, seat := range []int{0, -1, 13, 100} {
		err := l.ValidateSeat(seat)
		require.Error(t, err)

		var oor *lab.SeatOutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, seat, oor.SeatNumber)
		assert.Equal(t, 12, oor.SeatCount)
	}
}

func TestNormalizeSlots(t *testing.T) {
	l, err := lab.NewLab(101, "Lab K101", morningGrid, 12)
	require.NoError(t, err)

	t.Run("reorders to grid order", func(t *testing.T) {
		set, err := l.NormalizeSlots([]string{"9:00AM-9:30AM", "8:00AM-8:30AM"})
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff([]string{"8:00AM-8:30AM", "9:00AM-9:30AM"}, set.Labels()))
	})

	t.Run("drops duplicates", func(t *testing.T) {
		set, err := l.NormalizeSlots([]string{"8:00AM-8:30AM", "8:00AM-8:30AM"})
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("empty request", func(t *testing.T) {
		_, err := l.NormalizeSlots(nil)
		require.ErrorIs(t, err, lab.ErrEmptySlotSet)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := l.NormalizeSlots([]string{"8:00AM-8:30AM", "11:00PM-11:30PM"})
		require.Error(t, err)

		var unknown *lab.UnknownSlotError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "11:00PM-11:30PM", unknown.Label)
	})
}
