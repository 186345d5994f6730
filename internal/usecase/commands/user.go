package commands

import (
	"context"

	"labreserve/internal/domain/user"
	"labreserve/internal/infra"
	"labreserve/internal/pkg/errs"
	"labreserve/internal/pkg/password"
	"labreserve/internal/usecase/shared"
)

var (
	ErrEmailTaken   = errs.New("email already registered")
	ErrForbidden    = errs.New("insufficient permissions")
	ErrWeakPassword = errs.New("password does not meet requirements")
	ErrInvalidEmail = errs.New("invalid email address")
)

type RegisterResult struct {
	BusinessID int64
	Role       user.Role
}

type UserCommands interface {
	// RegisterStudent provisions a student account and allocates its number.
	RegisterStudent(ctx context.Context, email, plainPassword string) (*RegisterResult, error)
	// CreateTech provisions a tech account; admin only (enforced by routing).
	CreateTech(ctx context.Context, email, plainPassword string) (*RegisterResult, error)
	UpdateProfile(ctx context.Context, actor Actor, businessID int64, displayName, description string) error
	DeleteUser(ctx context.Context, businessID int64) error
}

type userCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewUserCommands(uow shared.UnitOfWork) UserCommands {
	return &userCommandsImpl{uow: uow}
}

func (u *userCommandsImpl) RegisterStudent(ctx context.Context, email, plainPassword string) (*RegisterResult, error) {
	return u.register(ctx, email, plainPassword, user.RoleStudent)
}

func (u *userCommandsImpl) CreateTech(ctx context.Context, email, plainPassword string) (*RegisterResult, error) {
	return u.register(ctx, email, plainPassword, user.RoleTech)
}

func (u *userCommandsImpl) register(ctx context.Context, email, plainPassword string, role user.Role) (*RegisterResult, error) {
	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidEmail)
	}
	if _, err := user.NewPassword(plainPassword); err != nil {
		return nil, errs.Mark(err, ErrWeakPassword)
	}

	hash, err := password.HashPassword(plainPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var result RegisterResult
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var account *user.User

		switch role {
		case user.RoleTech:
			techID, idErr := tx.Users().NextTechID(ctx)
			if idErr != nil {
				return errs.Mark(idErr, ErrDatabaseOperationFailed)
			}
			account = user.NewTech(emailVO, hash, techID)
			result = RegisterResult{BusinessID: techID, Role: user.RoleTech}
		default:
			studentID, idErr := tx.Users().NextStudentID(ctx)
			if idErr != nil {
				return errs.Mark(idErr, ErrDatabaseOperationFailed)
			}
			account = user.NewStudent(emailVO, hash, studentID)
			result = RegisterResult{BusinessID: studentID, Role: user.RoleStudent}
		}

		if createErr := tx.Users().Create(ctx, account); createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return errs.Mark(createErr, ErrEmailTaken)
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProfile lets staff edit anyone and everyone edit themselves.
func (u *userCommandsImpl) UpdateProfile(ctx context.Context, actor Actor, businessID int64, displayName, description string) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		target, err := tx.Users().FindByBusinessID(ctx, businessID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !actor.Role.IsStaff() && target.ID() != actor.ID {
			return ErrForbidden
		}

		target.UpdateProfile(displayName, description)
		if err := tx.Users().UpdateProfile(ctx, target); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// DeleteUser removes an account by its business number; the student's
// reservations disappear with it through the storage-level cascade.
func (u *userCommandsImpl) DeleteUser(ctx context.Context, businessID int64) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		target, err := tx.Users().FindByBusinessID(ctx, businessID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if target.Role() == user.RoleAdmin {
			return ErrForbidden
		}

		if err := tx.Users().Delete(ctx, target.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
