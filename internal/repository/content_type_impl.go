package repository

import (
	"context"
	"errors"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/jackc/pgx/v5"
)

type contentTypeRepository struct {
	pool Pool
}

// NewContentTypeRepository creates a new instance of ContentTypeRepository
func NewContentTypeRepository(pool Pool) ContentTypeRepository {
	return &contentTypeRepository{pool: pool}
}

func (r *contentTypeRepository) LoadContentType(ctx context.Context, id int64) (*model.ContentType, error) {
	var ct model.ContentType
	err := r.pool.QueryRow(ctx,
		"SELECT id, identifier, names FROM content_types WHERE id = $1",
		id,
	).Scan(&ct.ID, &ct.Identifier, &ct.Names)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "content type not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load content type")
	}
	return &ct, nil
}
