package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"auth-api/auth"
)

// UserRepository persists user records inside PostgreSQL and implements
// auth.UserStore. "Active" lookups exclude soft-deleted rows; banning a
// user sets deleted_at instead of removing the row.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository wraps an existing *sql.DB connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// SaveUser inserts a new user with an already-hashed password. The
// repository never sees a plaintext credential.
func (r *UserRepository) SaveUser(ctx context.Context, email, passwordHash string, roles []string) (auth.User, error) {
	const query = `INSERT INTO public."user" (id, email, password, role, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $5)`
	user := auth.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        append([]string(nil), roles...),
	}
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, pq.Array(user.Roles), r.now().UTC())
	if err != nil {
		return auth.User{}, translateUserError(err)
	}
	return user, nil
}

// FindActiveUserByEmail returns a non-deleted user by email.
func (r *UserRepository) FindActiveUserByEmail(ctx context.Context, email string) (auth.User, error) {
	const query = `SELECT id, email, password, role FROM public."user"
                   WHERE email = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindBannedUserByEmail returns a soft-deleted user by email.
func (r *UserRepository) FindBannedUserByEmail(ctx context.Context, email string) (auth.User, error) {
	const query = `SELECT id, email, password, role FROM public."user"
                   WHERE email = $1 AND deleted_at IS NOT NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindRolesByEmail returns the stored role strings for a non-deleted user.
func (r *UserRepository) FindRolesByEmail(ctx context.Context, email string) ([]string, error) {
	const query = `SELECT role FROM public."user" WHERE email = $1 AND deleted_at IS NULL`
	var roles pq.StringArray
	err := r.db.QueryRowContext(ctx, query, email).Scan(&roles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, translateUserError(err)
	}
	return []string(roles), nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const query = `UPDATE public."user" SET password = $2, updated_at = $3 WHERE id = $1`
	return r.exec(ctx, query, userID, passwordHash, r.now().UTC())
}

// SoftDeleteUser bans a user by stamping deleted_at.
func (r *UserRepository) SoftDeleteUser(ctx context.Context, userID string) error {
	const query = `UPDATE public."user" SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	now := r.now().UTC()
	return r.exec(ctx, query, userID, now)
}

// RestoreUser lifts a soft deletion.
func (r *UserRepository) RestoreUser(ctx context.Context, userID string) error {
	const query = `UPDATE public."user" SET deleted_at = NULL, updated_at = $2 WHERE id = $1 AND deleted_at IS NOT NULL`
	return r.exec(ctx, query, userID, r.now().UTC())
}

// UserProgression reads the registration growth curve from the
// v_user_progression view, ordered by day.
func (r *UserRepository) UserProgression(ctx context.Context) ([]auth.UserProgression, error) {
	const query = `SELECT creation_date, incr_count FROM v_user_progression ORDER BY creation_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translateUserError(err)
	}
	defer rows.Close()

	var points []auth.UserProgression
	for rows.Next() {
		var p auth.UserProgression
		if err := rows.Scan(&p.CreationDate, &p.IncrCount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// HardDeleteUser removes the row permanently.
func (r *UserRepository) HardDeleteUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM public."user" WHERE id = $1`
	return r.exec(ctx, query, userID)
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateUserError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (auth.User, error) {
	var (
		user  auth.User
		roles pq.StringArray
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &roles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, translateUserError(err)
	}
	user.Roles = []string(roles)
	return user, nil
}

func translateUserError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return auth.ErrEmailInUse
		case "22P02":
			return auth.ErrUserNotFound
		}
	}
	return err
}
