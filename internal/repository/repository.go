package repository

import (
	"context"
	"sync"

	"github.com/Taichi-iskw/rmtrans/internal/model"
)

// ContentRepository defines operations on content items and their versions
type ContentRepository interface {
	// LoadContent loads the current version of a content item with its fields
	LoadContent(ctx context.Context, id int64) (*model.Content, error)

	// LoadVersionInfo loads the current version info of a content item
	LoadVersionInfo(ctx context.Context, contentID int64) (*model.VersionInfo, error)

	// NewContentCreateStruct prepares a create struct for the given type and main language
	NewContentCreateStruct(contentType *model.ContentType, mainLanguageCode string) *model.ContentCreateStruct

	// CreateContent stores a new draft; locations are created when it is published
	CreateContent(ctx context.Context, createStruct *model.ContentCreateStruct, locations []*model.LocationCreateStruct) (*model.Content, error)

	// PublishVersion publishes a draft version and materializes its locations
	PublishVersion(ctx context.Context, versionInfo *model.VersionInfo) (*model.Content, error)

	// DeleteContent deletes a content item with all of its versions and locations
	DeleteContent(ctx context.Context, contentInfo *model.ContentInfo) error
}

// LocationRepository defines operations on the content tree
type LocationRepository interface {
	// LoadLocation loads a location with its owning content info
	LoadLocation(ctx context.Context, id int64) (*model.Location, error)

	// NewLocationCreateStruct prepares a location under parentLocationID
	NewLocationCreateStruct(parentLocationID int64) *model.LocationCreateStruct

	// SwapLocation exchanges the content of two locations
	SwapLocation(ctx context.Context, location1, location2 *model.Location) error
}

// ContentTypeRepository loads content type definitions
type ContentTypeRepository interface {
	LoadContentType(ctx context.Context, id int64) (*model.ContentType, error)
}

// UserRepository loads repository users
type UserRepository interface {
	LoadUser(ctx context.Context, id int64) (*model.User, error)
}

// session holds the user that repository mutations are attributed to
type session struct {
	mu   sync.RWMutex
	user *model.User
}

func (s *session) current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *session) set(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Repository is the PostgreSQL-backed content repository facade
type Repository struct {
	content     ContentRepository
	location    LocationRepository
	contentType ContentTypeRepository
	user        UserRepository
	session     *session
}

// NewRepository creates the repository facade over a connection pool
func NewRepository(pool Pool) *Repository {
	s := &session{}
	return &Repository{
		content:     NewContentRepository(pool, s),
		location:    NewLocationRepository(pool),
		contentType: NewContentTypeRepository(pool),
		user:        NewUserRepository(pool),
		session:     s,
	}
}

// ContentService returns the content repository
func (r *Repository) ContentService() ContentRepository {
	return r.content
}

// LocationService returns the location repository
func (r *Repository) LocationService() LocationRepository {
	return r.location
}

// ContentTypeService returns the content type repository
func (r *Repository) ContentTypeService() ContentTypeRepository {
	return r.contentType
}

// UserService returns the user repository
func (r *Repository) UserService() UserRepository {
	return r.user
}

// SetCurrentUser sets the user subsequent mutations are performed as
func (r *Repository) SetCurrentUser(user *model.User) {
	r.session.set(user)
}

// CurrentUser returns the user mutations are performed as, or nil
func (r *Repository) CurrentUser() *model.User {
	return r.session.current()
}
