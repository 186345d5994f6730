package user

import (
	"time"

	"github.com/google/uuid"
)

// User account. The uuid is the storage key; studentID/techID are the
// human-facing business identifiers referenced by reservations.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	studentID    *int64
	techID       *int64
	displayName  string
	description  string
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewStudent(email Email, passwordHash string, studentID int64) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         RoleStudent,
		studentID:    &studentID,
		isActive:     true,
	}
}

func NewTech(email Email, passwordHash string, techID int64) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         RoleTech,
		techID:       &techID,
		isActive:     true,
	}
}

// Reconstruct rebuilds a User from persisted state.
func Reconstruct(
	id uuid.UUID,
	email Email,
	passwordHash string,
	role Role,
	studentID, techID *int64,
	displayName, description string,
	lastLogin *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		studentID:    studentID,
		techID:       techID,
		displayName:  displayName,
		description:  description,
		lastLogin:    lastLogin,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) StudentID() *int64     { return u.studentID }
func (u *User) TechID() *int64        { return u.techID }
func (u *User) DisplayName() string   { return u.displayName }
func (u *User) Description() string   { return u.description }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }

// UpdateProfile replaces the mutable, self-service fields.
func (u *User) UpdateProfile(displayName, description string) {
	u.displayName = displayName
	u.description = description
}

// RecordLogin stamps the latest successful authentication.
func (u *User) RecordLogin(at time.Time) {
	u.lastLogin = &at
}

// BusinessID returns the role-specific business identifier, or 0 when the
// account has none (admins).
func (u *User) BusinessID() int64 {
	switch {
	case u.studentID != nil:
		return *u.studentID
	case u.techID != nil:
		return *u.techID
	default:
		return 0
	}
}
