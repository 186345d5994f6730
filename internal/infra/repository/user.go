package repository

import (
	"context"
	"errors"
	"time"

	"labreserve/internal/domain/user"
	"labreserve/internal/infra"
	"labreserve/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, role, student_id, tech_id, display_name, description, last_login, is_active, created_at, updated_at`

type UserRepository struct {
	db shared.DBTX
}

func NewUserRepository(db shared.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row, "user not found by email")
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "user not found by ID")
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID int64) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE student_id = $1`, studentID)
	return scanUser(row, "student not found")
}

func (r *UserRepository) FindByBusinessID(ctx context.Context, businessID int64) (*user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE student_id = $1 OR tech_id = $1`, businessID)
	return scanUser(row, "user not found by business ID")
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, student_id, tech_id, display_name, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID(), u.Email().Value(), u.PasswordHash(), u.Role().String(),
		u.StudentID(), u.TechID(), u.DisplayName(), u.Description(), u.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert user", err)
	}
	return nil
}

// NextStudentID allocates the next student number. Runs inside the creating
// transaction so the unique index catches concurrent duplicates.
func (r *UserRepository) NextStudentID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(student_id), 1000) + 1 FROM users`,
	).Scan(&next)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to allocate student ID", err)
	}
	return next, nil
}

func (r *UserRepository) NextTechID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(tech_id), 2000) + 1 FROM users`,
	).Scan(&next)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to allocate tech ID", err)
	}
	return next, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET display_name = $2, description = $3, updated_at = now() WHERE id = $1`,
		u.ID(), u.DisplayName(), u.Description(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user profile", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete removes the account; reservations referencing the student number go
// with it via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanUser(row pgx.Row, notFoundMsg string) (*user.User, error) {
	var (
		id           uuid.UUID
		email        string
		passwordHash string
		roleStr      string
		studentID    *int64
		techID       *int64
		displayName  string
		description  string
		lastLogin    *time.Time
		isActive     bool
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(
		&id, &email, &passwordHash, &roleStr, &studentID, &techID,
		&displayName, &description, &lastLogin, &isActive, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan user row", err)
	}

	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user email is invalid", err)
	}
	role, err := user.NewRole(roleStr)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user role is invalid", err)
	}

	return user.Reconstruct(
		id, emailVO, passwordHash, role,
		studentID, techID, displayName, description,
		lastLogin, isActive, createdAt, updatedAt,
	), nil
}
