package commands

import (
	"context"

	"labreserve/internal/domain/lab"
	"labreserve/internal/infra"
	"labreserve/internal/pkg/errs"
	"labreserve/internal/usecase/shared"
)

var (
	ErrInvalidLab       = errs.New("invalid lab definition")
	ErrLabAlreadyExists = errs.New("lab already exists")
)

type CreateLabParams struct {
	LabID     int64
	Name      string
	TimeList  []string
	SeatCount int
}

type LabCommands interface {
	CreateLab(ctx context.Context, params CreateLabParams) error
}

type labCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewLabCommands(uow shared.UnitOfWork) LabCommands {
	return &labCommandsImpl{uow: uow}
}

func (l *labCommandsImpl) CreateLab(ctx context.Context, params CreateLabParams) error {
	entity, err := lab.NewLab(params.LabID, params.Name, params.TimeList, params.SeatCount)
	if err != nil {
		return errs.Mark(err, ErrInvalidLab)
	}

	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Labs().Create(ctx, entity); createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return errs.Mark(createErr, ErrLabAlreadyExists)
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
