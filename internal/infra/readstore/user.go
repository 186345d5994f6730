package readstore

import (
	"context"
	"errors"

	"labreserve/internal/infra"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserReadStore struct {
	db shared.DBTX
}

func NewUserReadStore(db shared.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindAuthorizedByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var view queries.AuthorizedUserView
	err := r.db.QueryRow(ctx,
		`SELECT id, email, role, student_id, tech_id, is_active FROM users WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Email, &view.Role, &view.StudentID, &view.TechID, &view.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &view, nil
}

func (r *UserReadStore) FindProfileByBusinessID(ctx context.Context, businessID int64) (*queries.ProfileView, error) {
	var view queries.ProfileView
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, student_id, tech_id, display_name, description, last_login, created_at
		FROM users
		WHERE student_id = $1 OR tech_id = $1`,
		businessID,
	).Scan(
		&view.ID, &view.Email, &view.Role, &view.StudentID, &view.TechID,
		&view.DisplayName, &view.Description, &view.LastLogin, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user profile", err)
	}
	return &view, nil
}

func (r *UserReadStore) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE student_id = $1)`,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check student existence", err)
	}
	return exists, nil
}
