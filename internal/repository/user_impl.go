package repository

import (
	"context"
	"errors"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	pool Pool
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(pool Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) LoadUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx,
		"SELECT id, login, enabled FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Login, &user.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load user")
	}
	return &user, nil
}
