package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/blogify-app/blogify/blog/domain"
)

var _ domain.UserRepository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepository implements domain.UserRepository over the same SQL
// database as the post store.
type SQLiteUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db: db,
	}
}

const insertUserQuery = `
	INSERT INTO users (id, name, email, password_hash, avatar, bio, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *SQLiteUserRepository) Insert(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserQuery,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Avatar,
		u.Bio,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		// The users.email column carries a UNIQUE constraint; two concurrent
		// signups for one address resolve here rather than at the service's
		// pre-check.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrEmailTaken
		}
		return storeErr("insert user", err)
	}
	return nil
}

const getUserByIDQuery = `
	SELECT id, name, email, password_hash, avatar, bio, created_at, updated_at
	FROM users
	WHERE id = ?
`

const getUserByEmailQuery = `
	SELECT id, name, email, password_hash, avatar, bio, created_at, updated_at
	FROM users
	WHERE email = ?
`

func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, getUserByEmailQuery, email)
}

func (r *SQLiteUserRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	var createdAt, updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.Bio,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}

	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return &u, nil
}
