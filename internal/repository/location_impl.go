package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/jackc/pgx/v5"
)

// locationRepository implements LocationRepository using PostgreSQL
type locationRepository struct {
	pool Pool
}

// NewLocationRepository creates a new instance of LocationRepository
func NewLocationRepository(pool Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

// LoadLocation loads a location with its owning content info
func (r *locationRepository) LoadLocation(ctx context.Context, id int64) (*model.Location, error) {
	sql := `SELECT l.id, COALESCE(l.parent_location_id, 0), l.depth, l.path_string, ` + contentInfoColumns + `
		FROM locations l
		JOIN contents c ON c.id = l.content_id
		WHERE l.id = $1`

	var location model.Location
	var info model.ContentInfo
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&location.ID, &location.ParentLocationID, &location.Depth, &location.PathString,
		&info.ID, &info.ContentTypeID, &info.MainLocationID, &info.MainLanguageCode,
		&info.CurrentVersionNo, &info.Status, &info.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "location not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load location")
	}
	location.ContentInfo = &info

	return &location, nil
}

// NewLocationCreateStruct prepares a location under parentLocationID
func (r *locationRepository) NewLocationCreateStruct(parentLocationID int64) *model.LocationCreateStruct {
	return &model.LocationCreateStruct{ParentLocationID: parentLocationID}
}

// SwapLocation exchanges the content of two locations.
// Each content keeps its main location pointing at the place it moved to.
func (r *locationRepository) SwapLocation(ctx context.Context, location1, location2 *model.Location) error {
	if location1.ID == location2.ID {
		return apperrors.New(apperrors.CodeInvalidArg, "cannot swap a location with itself")
	}

	return inTx(ctx, r.pool, "swap location", func(tx pgx.Tx) error {
		content1, err := lockLocationContent(ctx, tx, location1.ID)
		if err != nil {
			return err
		}
		content2, err := lockLocationContent(ctx, tx, location2.ID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			"UPDATE locations SET content_id = $2 WHERE id = $1",
			location1.ID, content2,
		); err != nil {
			return handlePostgreSQLError(err, "swap location")
		}
		if _, err := tx.Exec(ctx,
			"UPDATE locations SET content_id = $2 WHERE id = $1",
			location2.ID, content1,
		); err != nil {
			return handlePostgreSQLError(err, "swap location")
		}

		if _, err := tx.Exec(ctx,
			"UPDATE contents SET main_location_id = $2 WHERE id = $1 AND main_location_id = $3",
			content1, location2.ID, location1.ID,
		); err != nil {
			return handlePostgreSQLError(err, "update main location")
		}
		if _, err := tx.Exec(ctx,
			"UPDATE contents SET main_location_id = $2 WHERE id = $1 AND main_location_id = $3",
			content2, location1.ID, location2.ID,
		); err != nil {
			return handlePostgreSQLError(err, "update main location")
		}
		return nil
	})
}

func lockLocationContent(ctx context.Context, q querier, locationID int64) (int64, error) {
	var contentID int64
	err := q.QueryRow(ctx,
		"SELECT content_id FROM locations WHERE id = $1 FOR UPDATE",
		locationID,
	).Scan(&contentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.Wrap(err, apperrors.CodeNotFound, "location "+strconv.FormatInt(locationID, 10)+" not found")
		}
		return 0, handlePostgreSQLError(err, "lock location")
	}
	return contentID, nil
}

// pathString builds the materialized path of a child location, e.g. /1/2/42/
func pathString(parentPath string, locationID int64) string {
	if !strings.HasSuffix(parentPath, "/") {
		parentPath += "/"
	}
	return parentPath + strconv.FormatInt(locationID, 10) + "/"
}
