package queries

import (
	"context"

	"labreserve/internal/infra"
	"labreserve/internal/pkg/errs"
)

type LabQueries interface {
	List(ctx context.Context) ([]*LabView, error)
	GetByID(ctx context.Context, labID int64) (*LabView, error)
}

type LabViewRepo interface {
	FindByID(ctx context.Context, labID int64) (*LabView, error)
	List(ctx context.Context) ([]*LabView, error)
}

type labQueriesImpl struct {
	repo LabViewRepo
}

func NewLabQueries(repo LabViewRepo) LabQueries {
	return &labQueriesImpl{repo: repo}
}

func (q *labQueriesImpl) List(ctx context.Context) ([]*LabView, error) {
	views, err := q.repo.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

func (q *labQueriesImpl) GetByID(ctx context.Context, labID int64) (*LabView, error) {
	view, err := q.repo.FindByID(ctx, labID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLabNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}
