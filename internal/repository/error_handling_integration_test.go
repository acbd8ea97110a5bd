//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorHandling_Integration checks how constraint violations surface from a real database
func TestErrorHandling_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := seedTree(t, ctx, pool)
	user, err := repo.UserService().LoadUser(ctx, s.userID)
	require.NoError(t, err)
	repo.SetCurrentUser(user)

	contentType, err := repo.ContentTypeService().LoadContentType(ctx, s.contentTypeID)
	require.NoError(t, err)

	countContents := func() int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM contents").Scan(&n))
		return n
	}

	t.Run("unknown parent location rolls back the draft", func(t *testing.T) {
		before := countContents()

		cs := repo.ContentService().NewContentCreateStruct(contentType, "eng-GB")
		cs.SetField("title", "Orphan", "eng-GB")
		_, err := repo.ContentService().CreateContent(ctx, cs,
			[]*model.LocationCreateStruct{repo.LocationService().NewLocationCreateStruct(999999)})
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeDependency, appErr.Code)
		assert.Contains(t, appErr.Message, "referenced parent location does not exist")
		assert.Equal(t, before, countContents())
	})

	t.Run("unknown content type", func(t *testing.T) {
		cs := repo.ContentService().NewContentCreateStruct(&model.ContentType{ID: 999999, Identifier: "missing"}, "eng-GB")
		cs.SetField("title", "Nothing", "eng-GB")
		_, err := repo.ContentService().CreateContent(ctx, cs,
			[]*model.LocationCreateStruct{repo.LocationService().NewLocationCreateStruct(s.parentLocation)})
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeDependency, appErr.Code)
		assert.Contains(t, appErr.Message, "referenced content type does not exist")
	})

	t.Run("swap unknown location", func(t *testing.T) {
		err := repo.LocationService().SwapLocation(ctx,
			&model.Location{ID: 999999}, &model.Location{ID: s.parentLocation})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
