package repository

import (
	"context"
	"errors"

	"labreserve/internal/domain/lab"
	"labreserve/internal/infra"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

type LabRepository struct {
	db shared.DBTX
}

func NewLabRepository(db shared.DBTX) *LabRepository {
	return &LabRepository{db: db}
}

func (r *LabRepository) FindByID(ctx context.Context, labID int64) (*lab.Lab, error) {
	var (
		id        int64
		name      string
		timeList  []string
		seatCount int
	)
	err := r.db.QueryRow(ctx,
		`SELECT lab_id, name, time_list, seat_count FROM labs WHERE lab_id = $1`,
		labID,
	).Scan(&id, &name, &timeList, &seatCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lab not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lab by ID", err)
	}

	entity, err := lab.NewLab(id, name, timeList, seatCount)
	if err != nil {
		return nil, infra.WrapRepoErr("stored lab row is invalid", err)
	}
	return entity, nil
}

func (r *LabRepository) Create(ctx context.Context, l *lab.Lab) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO labs (lab_id, name, time_list, seat_count) VALUES ($1, $2, $3, $4)`,
		l.ID(), l.Name(), l.TimeList(), l.SeatCount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert lab", err)
	}
	return nil
}
