package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/jackc/pgx/v5"
)

const contentInfoColumns = `c.id, c.content_type_id, COALESCE(c.main_location_id, 0), c.main_language_code,
		c.current_version, c.status, c.owner_id`

var contentFieldColumns = []string{"content_id", "version_no", "position", "field_identifier", "language_code", "value"}

// contentRepository implements ContentRepository using PostgreSQL
type contentRepository struct {
	pool    Pool
	session *session
}

// NewContentRepository creates a new instance of ContentRepository
func NewContentRepository(pool Pool, s *session) ContentRepository {
	if s == nil {
		s = &session{}
	}
	return &contentRepository{
		pool:    pool,
		session: s,
	}
}

// LoadContent loads the current version of a content item with its fields
func (r *contentRepository) LoadContent(ctx context.Context, id int64) (*model.Content, error) {
	sql := "SELECT " + contentInfoColumns + " FROM contents c WHERE c.id = $1"

	info, err := scanContentInfo(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "content not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load content")
	}

	versionInfo, err := r.LoadVersionInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := r.loadFields(ctx, id, versionInfo.VersionNo)
	if err != nil {
		return nil, err
	}

	return &model.Content{
		ContentInfo: info,
		VersionInfo: versionInfo,
		Fields:      fields,
	}, nil
}

// LoadVersionInfo loads the current version info of a content item
func (r *contentRepository) LoadVersionInfo(ctx context.Context, contentID int64) (*model.VersionInfo, error) {
	sql := `SELECT v.content_id, v.version_no, v.status, v.language_codes, v.names, v.creator_id, v.created_at
		FROM content_versions v
		JOIN contents c ON c.id = v.content_id AND c.current_version = v.version_no
		WHERE v.content_id = $1`

	var vi model.VersionInfo
	err := r.pool.QueryRow(ctx, sql, contentID).Scan(
		&vi.ContentID, &vi.VersionNo, &vi.Status, &vi.LanguageCodes, &vi.Names, &vi.CreatorID, &vi.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "version info not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load version info")
	}
	if vi.Names == nil {
		vi.Names = map[string]string{}
	}

	return &vi, nil
}

// loadFields loads field values of one version in storage order
func (r *contentRepository) loadFields(ctx context.Context, contentID int64, versionNo int) ([]*model.Field, error) {
	sql := `SELECT field_identifier, language_code, value
		FROM content_fields
		WHERE content_id = $1 AND version_no = $2
		ORDER BY position, id`

	rows, err := r.pool.Query(ctx, sql, contentID, versionNo)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load content fields")
	}
	defer rows.Close()

	var fields []*model.Field
	for rows.Next() {
		var field model.Field
		if err := rows.Scan(&field.Identifier, &field.LanguageCode, &field.Value); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan content field row")
		}
		fields = append(fields, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to iterate content field rows")
	}

	return fields, nil
}

// NewContentCreateStruct prepares a create struct for the given type and main language
func (r *contentRepository) NewContentCreateStruct(contentType *model.ContentType, mainLanguageCode string) *model.ContentCreateStruct {
	return &model.ContentCreateStruct{
		ContentType:      contentType,
		MainLanguageCode: mainLanguageCode,
		Names:            map[string]string{},
	}
}

// CreateContent stores a new draft; locations are created when it is published
func (r *contentRepository) CreateContent(ctx context.Context, createStruct *model.ContentCreateStruct, locations []*model.LocationCreateStruct) (*model.Content, error) {
	user := r.session.current()
	if user == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "no current user set for content creation")
	}
	if createStruct.ContentType == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "content type is required")
	}
	if strings.TrimSpace(createStruct.MainLanguageCode) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "main language code is required")
	}

	const versionNo = 1
	languageCodes := createStruct.LanguageCodes()
	names := createStruct.Names
	if names == nil {
		names = map[string]string{}
	}

	draft := &model.Content{
		ContentInfo: &model.ContentInfo{
			ContentTypeID:    createStruct.ContentType.ID,
			MainLanguageCode: createStruct.MainLanguageCode,
			CurrentVersionNo: versionNo,
			Status:           model.StatusDraft,
			OwnerID:          user.ID,
		},
		VersionInfo: &model.VersionInfo{
			VersionNo:     versionNo,
			Status:        model.StatusDraft,
			LanguageCodes: languageCodes,
			Names:         names,
			CreatorID:     user.ID,
		},
	}

	err := inTx(ctx, r.pool, "create content", func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO contents (content_type_id, main_language_code, current_version, status, owner_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			createStruct.ContentType.ID, createStruct.MainLanguageCode, versionNo, model.StatusDraft, user.ID,
		).Scan(&draft.ContentInfo.ID)
		if err != nil {
			return handlePostgreSQLError(err, "create content")
		}
		draft.VersionInfo.ContentID = draft.ContentInfo.ID

		err = tx.QueryRow(ctx,
			`INSERT INTO content_versions (content_id, version_no, status, language_codes, names, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
			draft.ContentInfo.ID, versionNo, model.StatusDraft, languageCodes, names, user.ID,
		).Scan(&draft.VersionInfo.CreatedAt)
		if err != nil {
			return handlePostgreSQLError(err, "create content version")
		}

		if len(createStruct.Fields) > 0 {
			rows := make([][]any, 0, len(createStruct.Fields))
			for i, f := range createStruct.Fields {
				rows = append(rows, []any{draft.ContentInfo.ID, versionNo, i, f.Identifier, f.LanguageCode, f.Value})
				draft.Fields = append(draft.Fields, &model.Field{
					Identifier:   f.Identifier,
					LanguageCode: f.LanguageCode,
					Value:        f.Value,
				})
			}
			if _, err := tx.CopyFrom(ctx, pgx.Identifier{"content_fields"}, contentFieldColumns, pgx.CopyFromRows(rows)); err != nil {
				return handlePostgreSQLError(err, "create content fields")
			}
		}

		for _, location := range locations {
			_, err := tx.Exec(ctx,
				"INSERT INTO content_location_assignments (content_id, parent_location_id) VALUES ($1, $2)",
				draft.ContentInfo.ID, location.ParentLocationID,
			)
			if err != nil {
				return handlePostgreSQLError(err, "assign content location")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return draft, nil
}

type pendingLocation struct {
	parentID   int64
	parentPath string
	depth      int
}

// PublishVersion publishes a draft version and materializes its locations
func (r *contentRepository) PublishVersion(ctx context.Context, versionInfo *model.VersionInfo) (*model.Content, error) {
	err := inTx(ctx, r.pool, "publish version", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE content_versions SET status = $3 WHERE content_id = $1 AND version_no = $2",
			versionInfo.ContentID, versionInfo.VersionNo, model.StatusPublished,
		)
		if err != nil {
			return handlePostgreSQLError(err, "publish version")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.New(apperrors.CodeNotFound, "version to publish not found")
		}

		pending, err := loadPendingLocations(ctx, tx, versionInfo.ContentID)
		if err != nil {
			return err
		}

		var mainLocationID int64
		for _, p := range pending {
			var locationID int64
			err := tx.QueryRow(ctx,
				"INSERT INTO locations (parent_location_id, content_id, depth) VALUES ($1, $2, $3) RETURNING id",
				p.parentID, versionInfo.ContentID, p.depth+1,
			).Scan(&locationID)
			if err != nil {
				return handlePostgreSQLError(err, "create location")
			}

			if _, err := tx.Exec(ctx,
				"UPDATE locations SET path_string = $2 WHERE id = $1",
				locationID, pathString(p.parentPath, locationID),
			); err != nil {
				return handlePostgreSQLError(err, "update location path")
			}

			if mainLocationID == 0 {
				mainLocationID = locationID
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE contents SET status = $2, current_version = $3,
			main_location_id = COALESCE(NULLIF($4::bigint, 0), main_location_id), published_at = $5
			WHERE id = $1`,
			versionInfo.ContentID, model.StatusPublished, versionInfo.VersionNo, mainLocationID, time.Now().UTC(),
		); err != nil {
			return handlePostgreSQLError(err, "publish content")
		}

		if _, err := tx.Exec(ctx,
			"DELETE FROM content_location_assignments WHERE content_id = $1",
			versionInfo.ContentID,
		); err != nil {
			return handlePostgreSQLError(err, "clear location assignments")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.LoadContent(ctx, versionInfo.ContentID)
}

func loadPendingLocations(ctx context.Context, q querier, contentID int64) ([]pendingLocation, error) {
	rows, err := q.Query(ctx,
		`SELECT a.parent_location_id, l.path_string, l.depth
		FROM content_location_assignments a
		JOIN locations l ON l.id = a.parent_location_id
		WHERE a.content_id = $1
		ORDER BY a.id`,
		contentID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load location assignments")
	}
	defer rows.Close()

	var pending []pendingLocation
	for rows.Next() {
		var p pendingLocation
		if err := rows.Scan(&p.parentID, &p.parentPath, &p.depth); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan location assignment row")
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to iterate location assignment rows")
	}
	return pending, nil
}

// DeleteContent deletes a content item with all of its versions and locations
func (r *contentRepository) DeleteContent(ctx context.Context, contentInfo *model.ContentInfo) error {
	return inTx(ctx, r.pool, "delete content", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM locations WHERE content_id = $1", contentInfo.ID); err != nil {
			return handlePostgreSQLError(err, "delete content locations")
		}

		tag, err := tx.Exec(ctx, "DELETE FROM contents WHERE id = $1", contentInfo.ID)
		if err != nil {
			return handlePostgreSQLError(err, "delete content")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.New(apperrors.CodeNotFound, "content not found")
		}
		return nil
	})
}

// scanContentInfo scans the columns selected by contentInfoColumns
func scanContentInfo(row pgx.Row) (*model.ContentInfo, error) {
	var info model.ContentInfo
	err := row.Scan(&info.ID, &info.ContentTypeID, &info.MainLocationID, &info.MainLanguageCode,
		&info.CurrentVersionNo, &info.Status, &info.OwnerID)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
