//go:build unit

package user_test

import (
	"testing"
	"time"

	"labreserve/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEmail(t *testing.T, s string) user.Email {
	t.Helper()
	e, err := user.NewEmail(s)
	require.NoError(t, err)
	return e
}

func TestNewStudent(t *testing.T) {
	u := user.NewStudent(mustEmail(t, "alice@example.com"), "hash", 1001)

	assert.NotEqual(t, uuid.Nil, u.ID())
	assert.Equal(t, user.RoleStudent, u.Role())
	require.NotNil(t, u.StudentID())
	assert.Equal(t, int64(1001), *u.StudentID())
	assert.Nil(t, u.TechID())
	assert.True(t, u.IsActive())
	assert.Equal(t, int64(1001), u.BusinessID())
}

func TestNewTech(t *testing.T) {
	u := user.NewTech(mustEmail(t, "bob@example.com"), "hash", 2001)

	assert.Equal(t, user.RoleTech, u.Role())
	require.NotNil(t, u.TechID())
	assert.Equal(t, int64(2001), *u.TechID())
	assert.Nil(t, u.StudentID())
	assert.Equal(t, int64(2001), u.BusinessID())
}

func TestBusinessID(t *testing.T) {
	t.Run("admin without numbers returns zero", func(t *testing.T) {
		u := user.Reconstruct(
			uuid.New(), mustEmail(t, "admin@example.com"), "hash", user.RoleAdmin,
			nil, nil, "Administrator", "", nil, true, time.Now(), time.Now(),
		)
		assert.Equal(t, int64(0), u.BusinessID())
	})
}

func TestUpdateProfile(t *testing.T) {
	u := user.NewStudent(mustEmail(t, "alice@example.com"), "hash", 1001)

	u.UpdateProfile("Alice", "third year")

	assert.Equal(t, "Alice", u.DisplayName())
	assert.Equal(t, "third year", u.Description())
}

func TestRecordLogin(t *testing.T) {
	u := user.NewStudent(mustEmail(t, "alice@example.com"), "hash", 1001)
	require.Nil(t, u.LastLogin())

	at := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	u.RecordLogin(at)

	require.NotNil(t, u.LastLogin())
	assert.True(t, u.LastLogin().Equal(at))
}

func TestRole(t *testing.T) {
	assert.True(t, user.RoleTech.IsStaff())
	assert.True(t, user.RoleAdmin.IsStaff())
	assert.False(t, user.RoleStudent.IsStaff())

	_, err := user.NewRole("superuser")
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	role, err := user.NewRole("tech")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTech, role)
}

func TestEmailValidation(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"alice@example.com", true},
		{"  alice@example.com  ", true},
		{"a.b+tag@sub.example.co", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
	}
	for _, c := range cases {
		_, err := user.NewEmail(c.in)
		if c.valid {
			assert.NoError(t, err, c.in)
		} else {
			assert.ErrorIs(t, err, user.ErrInvalidEmail, c.in)
		}
	}
}

func TestPasswordValidation(t *testing.T) {
	_, err := user.NewPassword("short")
	assert.ErrorIs(t, err, user.ErrPasswordTooWeak)

	_, err = user.NewPassword("long enough")
	assert.NoError(t, err)
}
