package translation

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/rmtrans/internal/cache"
	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
	"github.com/Taichi-iskw/rmtrans/internal/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Repository services the remover works against
type (
	ContentService     = repository.ContentRepository
	LocationService    = repository.LocationRepository
	ContentTypeService = repository.ContentTypeRepository
	UserService        = repository.UserRepository
)

// Repository gives access to the repository services and the acting user
type Repository interface {
	ContentService() ContentService
	LocationService() LocationService
	ContentTypeService() ContentTypeService
	UserService() UserService
	SetCurrentUser(user *model.User)
}

// Purger invalidates cached representations of locations
type Purger interface {
	Purge(ctx context.Context, locationIDs []int64) error
}

// RemoveRequest describes one translation removal
type RemoveRequest struct {
	ContentID      int64  `json:"content_id,omitempty"`
	LocationID     int64  `json:"location_id,omitempty"`
	RemoveLanguage string `json:"remove_language"`
	LocaleLanguage string `json:"locale_language"`
	AdminUserID    int64  `json:"admin_user_id"`

	// Compensate undoes a half finished replacement when a later step fails
	Compensate bool `json:"compensate"`
}

// Validate checks the request before anything is loaded
func (r RemoveRequest) Validate() error {
	switch {
	case r.ContentID == 0 && r.LocationID == 0:
		return apperrors.New(apperrors.CodeInvalidArg, "either a content id or a location id is required")
	case r.ContentID != 0 && r.LocationID != 0:
		return apperrors.New(apperrors.CodeInvalidArg, "content id and location id are mutually exclusive")
	case r.ContentID < 0 || r.LocationID < 0:
		return apperrors.New(apperrors.CodeInvalidArg, "ids must be positive")
	case r.RemoveLanguage == "":
		return apperrors.New(apperrors.CodeInvalidArg, "the language to remove is required")
	case r.AdminUserID <= 0:
		return apperrors.New(apperrors.CodeInvalidArg, "admin user id must be positive")
	}
	return nil
}

// Plan is everything loaded and decided before the repository is modified
type Plan struct {
	Request RemoveRequest `json:"request"`

	Content     *model.Content     `json:"-"`
	Location    *model.Location    `json:"-"`
	VersionInfo *model.VersionInfo `json:"-"`
	ContentType *model.ContentType `json:"-"`

	ContentID          int64             `json:"content_id"`
	ContentName        string            `json:"content_name"`
	ContentTypeName    string            `json:"content_type_name"`
	MainLanguage       string            `json:"main_language"`
	Names              map[string]string `json:"names,omitempty"`
	LanguageCodes      []string          `json:"language_codes"`
	MainLocationID     int64             `json:"main_location_id"`
	ParentLocationID   int64             `json:"parent_location_id"`
	NewMainLanguage    string            `json:"new_main_language,omitempty"`
	RemainingLanguages []string          `json:"remaining_languages,omitempty"`
}

// Stage names a step of the replacement sequence
type Stage string

const (
	StageCreate       Stage = "create"
	StagePublish      Stage = "publish"
	StageLoadLocation Stage = "load new location"
	StageSwap         Stage = "swap"
	StageReload       Stage = "reload original"
	StageDelete       Stage = "delete original"
	StagePurge        Stage = "purge cache"
	StageDone         Stage = "done"
)

// Result reports how far the replacement got
type Result struct {
	OperationID       string   `json:"operation_id"`
	ContentID         int64    `json:"content_id"`
	NewContentID      int64    `json:"new_content_id,omitempty"`
	NewLocationID     int64    `json:"new_location_id,omitempty"`
	NewMainLanguage   string   `json:"new_main_language"`
	Languages         []string `json:"languages,omitempty"`
	PurgedLocationIDs []int64  `json:"purged_location_ids,omitempty"`
	Stage             Stage    `json:"stage"`
	Removed           bool     `json:"removed"`
	Compensated       bool     `json:"compensated,omitempty"`
	CompensationError string   `json:"compensation_error,omitempty"`
}

// Remover removes one translation by replacing the content item with a copy
// that lacks it
type Remover struct {
	repo   Repository
	purger Purger
	logger log.FieldLogger
}

// NewRemover creates a Remover
func NewRemover(repo Repository, purger Purger, logger log.FieldLogger) *Remover {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if purger == nil {
		purger = &cache.NoopPurger{Logger: logger}
	}
	return &Remover{
		repo:   repo,
		purger: purger,
		logger: logger,
	}
}

// Prepare loads the target and checks that the translation can be removed.
// For TRANSLATION_NOT_FOUND and LAST_TRANSLATION the loaded plan is returned
// along with the error so callers can still describe the content.
func (r *Remover) Prepare(ctx context.Context, req RemoveRequest) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := r.repo.UserService().LoadUser(ctx, req.AdminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user %d: %w", req.AdminUserID, err)
	}
	r.repo.SetCurrentUser(user)

	plan, err := r.load(ctx, req)
	if err != nil {
		return nil, err
	}
	versionInfo := plan.VersionInfo

	logger := r.logger.WithFields(log.Fields{
		"content_id":  plan.ContentID,
		"location_id": plan.Location.ID,
		"language":    req.RemoveLanguage,
	})

	if !versionInfo.HasLanguage(req.RemoveLanguage) {
		logger.Debug("translation not present")
		return plan, apperrors.New(apperrors.CodeTranslationNotFound,
			fmt.Sprintf("no translation for %s found", req.RemoveLanguage))
	}

	newMain, ok := SelectMainLanguage(versionInfo.LanguageCodes, req.RemoveLanguage)
	if !ok {
		logger.Debug("translation is the last one")
		return plan, apperrors.New(apperrors.CodeLastTranslation,
			fmt.Sprintf("no translations left if %s is removed", req.RemoveLanguage))
	}
	plan.NewMainLanguage = newMain
	plan.RemainingLanguages = RemainingLanguages(versionInfo.LanguageCodes, req.RemoveLanguage)

	logger.WithField("new_main_language", newMain).Info("translation removal planned")
	return plan, nil
}

// Describe loads a content item the way Prepare does, without checking any
// translation
func (r *Remover) Describe(ctx context.Context, contentID, locationID int64, localeLanguage string) (*Plan, error) {
	switch {
	case contentID == 0 && locationID == 0:
		return nil, apperrors.New(apperrors.CodeInvalidArg, "either a content id or a location id is required")
	case contentID != 0 && locationID != 0:
		return nil, apperrors.New(apperrors.CodeInvalidArg, "content id and location id are mutually exclusive")
	}
	return r.load(ctx, RemoveRequest{ContentID: contentID, LocationID: locationID, LocaleLanguage: localeLanguage})
}

func (r *Remover) load(ctx context.Context, req RemoveRequest) (*Plan, error) {
	plan := &Plan{Request: req}
	if err := r.resolveTarget(ctx, plan); err != nil {
		return nil, err
	}

	versionInfo, err := r.repo.ContentService().LoadVersionInfo(ctx, plan.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load version info: %w", err)
	}
	plan.VersionInfo = versionInfo
	plan.LanguageCodes = versionInfo.LanguageCodes
	plan.ContentName = versionInfo.InitialName()
	plan.Names = versionInfo.Names

	contentType, err := r.repo.ContentTypeService().LoadContentType(ctx, plan.Content.ContentInfo.ContentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content type: %w", err)
	}
	plan.ContentType = contentType
	plan.ContentTypeName = contentType.Name(req.LocaleLanguage)
	return plan, nil
}

func (r *Remover) resolveTarget(ctx context.Context, plan *Plan) error {
	contents := r.repo.ContentService()
	locations := r.repo.LocationService()
	req := plan.Request

	if req.LocationID != 0 {
		location, err := locations.LoadLocation(ctx, req.LocationID)
		if err != nil {
			return fmt.Errorf("failed to load location %d: %w", req.LocationID, err)
		}
		content, err := contents.LoadContent(ctx, location.ContentInfo.ID)
		if err != nil {
			return fmt.Errorf("failed to load content %d: %w", location.ContentInfo.ID, err)
		}
		plan.Location = location
		plan.Content = content
	} else {
		content, err := contents.LoadContent(ctx, req.ContentID)
		if err != nil {
			return fmt.Errorf("failed to load content %d: %w", req.ContentID, err)
		}
		if content.ContentInfo.MainLocationID == 0 {
			return apperrors.New(apperrors.CodeNotFound,
				fmt.Sprintf("content %d has no main location", req.ContentID))
		}
		location, err := locations.LoadLocation(ctx, content.ContentInfo.MainLocationID)
		if err != nil {
			return fmt.Errorf("failed to load location %d: %w", content.ContentInfo.MainLocationID, err)
		}
		plan.Location = location
		plan.Content = content
	}

	plan.ContentID = plan.Content.ContentInfo.ID
	plan.MainLanguage = plan.Content.ContentInfo.MainLanguageCode
	plan.MainLocationID = plan.Content.ContentInfo.MainLocationID
	plan.ParentLocationID = plan.Location.ParentLocationID
	return nil
}

// BuildCreateStruct copies every field and name of the content except those
// in the removed language
func (r *Remover) BuildCreateStruct(plan *Plan) *model.ContentCreateStruct {
	remove := plan.Request.RemoveLanguage
	cs := r.repo.ContentService().NewContentCreateStruct(plan.ContentType, plan.NewMainLanguage)
	cs.Languages = RemainingLanguages(plan.VersionInfo.LanguageCodes, remove)

	for _, field := range plan.Content.Fields {
		if field.LanguageCode != remove {
			cs.SetField(field.Identifier, field.Value, field.LanguageCode)
		}
	}
	for _, code := range plan.VersionInfo.LanguageCodes {
		if code == remove {
			continue
		}
		if name, ok := plan.VersionInfo.Names[code]; ok {
			cs.SetName(code, name)
		}
	}
	return cs
}

// Execute replaces the content with a copy lacking the removed translation.
// On failure the partial result is returned with the error; nothing is
// rolled back unless the request asked for compensation.
func (r *Remover) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	if plan == nil || plan.NewMainLanguage == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "plan is not executable")
	}

	contents := r.repo.ContentService()
	locations := r.repo.LocationService()
	operationID := uuid.NewString()
	logger := r.logger.WithFields(log.Fields{
		"operation_id": operationID,
		"content_id":   plan.ContentID,
		"location_id":  plan.Location.ID,
		"language":     plan.Request.RemoveLanguage,
	})

	result := &Result{
		OperationID:     operationID,
		ContentID:       plan.ContentID,
		NewMainLanguage: plan.NewMainLanguage,
		Stage:           StageCreate,
	}

	cs := r.BuildCreateStruct(plan)
	locationCreate := locations.NewLocationCreateStruct(plan.ParentLocationID)

	draft, err := contents.CreateContent(ctx, cs, []*model.LocationCreateStruct{locationCreate})
	if err != nil {
		return result, r.fail(ctx, logger, plan, result, nil, nil, false, err)
	}
	result.NewContentID = draft.ContentInfo.ID
	logger.WithField("new_content_id", result.NewContentID).Debug("draft created")

	result.Stage = StagePublish
	published, err := contents.PublishVersion(ctx, draft.VersionInfo)
	if err != nil {
		return result, r.fail(ctx, logger, plan, result, draft.ContentInfo, nil, false, err)
	}
	result.NewLocationID = published.ContentInfo.MainLocationID
	result.Languages = published.VersionInfo.LanguageCodes

	result.Stage = StageLoadLocation
	newLocation, err := locations.LoadLocation(ctx, result.NewLocationID)
	if err != nil {
		return result, r.fail(ctx, logger, plan, result, published.ContentInfo, nil, false, err)
	}
	logger.WithField("new_location_id", newLocation.ID).Debug("replacement published")

	result.Stage = StageSwap
	if err := locations.SwapLocation(ctx, plan.Location, newLocation); err != nil {
		return result, r.fail(ctx, logger, plan, result, published.ContentInfo, newLocation, false, err)
	}

	result.Stage = StageReload
	original, err := contents.LoadContent(ctx, plan.ContentID)
	if err != nil {
		return result, r.fail(ctx, logger, plan, result, published.ContentInfo, newLocation, true, err)
	}

	result.Stage = StageDelete
	if err := contents.DeleteContent(ctx, original.ContentInfo); err != nil {
		return result, r.fail(ctx, logger, plan, result, published.ContentInfo, newLocation, true, err)
	}
	result.Removed = true
	logger.Info("original content deleted")

	result.Stage = StagePurge
	ids := []int64{plan.ParentLocationID, plan.MainLocationID, result.NewLocationID}
	if err := r.purger.Purge(ctx, ids); err != nil {
		logger.WithError(err).Error("cache purge failed")
		return result, apperrors.Wrap(err, apperrors.CodeCachePurgeFailed,
			fmt.Sprintf("translation removed but purging locations %v failed", ids))
	}
	result.PurgedLocationIDs = ids

	result.Stage = StageDone
	logger.WithField("new_content_id", result.NewContentID).Info("translation removed")
	return result, nil
}

// fail wraps a mutation error and, when requested, undoes the replacement
// while the original content still exists
func (r *Remover) fail(ctx context.Context, logger log.FieldLogger, plan *Plan, result *Result,
	created *model.ContentInfo, newLocation *model.Location, swapped bool, cause error) error {
	logger.WithError(cause).WithField("stage", string(result.Stage)).Error("translation removal failed")

	if plan.Request.Compensate && created != nil {
		if err := r.compensate(ctx, plan, created, newLocation, swapped); err != nil {
			logger.WithError(err).Error("compensation failed, manual cleanup required")
			result.CompensationError = err.Error()
		} else {
			logger.WithField("new_content_id", created.ID).Warn("replacement content removed")
			result.Compensated = true
		}
	}

	return apperrors.Wrap(cause, apperrors.CodeRemovalFailed,
		fmt.Sprintf("%s failed: %s", result.Stage, apperrors.MessageOf(cause)))
}

func (r *Remover) compensate(ctx context.Context, plan *Plan, created *model.ContentInfo, newLocation *model.Location, swapped bool) error {
	if swapped {
		if err := r.repo.LocationService().SwapLocation(ctx, plan.Location, newLocation); err != nil {
			return fmt.Errorf("failed to swap locations back: %w", err)
		}
	}
	if err := r.repo.ContentService().DeleteContent(ctx, created); err != nil {
		return fmt.Errorf("failed to delete replacement content %d: %w", created.ID, err)
	}
	return nil
}
