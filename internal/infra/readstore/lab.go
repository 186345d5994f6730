package readstore

import (
	"context"
	"errors"

	"labreserve/internal/infra"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

type LabReadStore struct {
	db shared.DBTX
}

func NewLabReadStore(db shared.DBTX) *LabReadStore {
	return &LabReadStore{db: db}
}

func (r *LabReadStore) FindByID(ctx context.Context, labID int64) (*queries.LabView, error) {
	var view queries.LabView
	err := r.db.QueryRow(ctx,
		`SELECT lab_id, name, time_list, seat_count, created_at FROM labs WHERE lab_id = $1`,
		labID,
	).Scan(&view.LabID, &view.Name, &view.TimeList, &view.SeatCount, &view.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lab not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lab by ID", err)
	}
	return &view, nil
}

func (r *LabReadStore) List(ctx context.Context) ([]*queries.LabView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT lab_id, name, time_list, seat_count, created_at FROM labs ORDER BY lab_id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list labs", err)
	}
	defer rows.Close()

	result := make([]*queries.LabView, 0)
	for rows.Next() {
		var view queries.LabView
		if err := rows.Scan(&view.LabID, &view.Name, &view.TimeList, &view.SeatCount, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan lab view", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate lab views", err)
	}
	return result, nil
}
