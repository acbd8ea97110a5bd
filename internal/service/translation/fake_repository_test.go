package translation

import (
	"context"
	"sort"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/Taichi-iskw/rmtrans/internal/model"
)

// fakeRepository is an in-memory content tree with error injection per operation
type fakeRepository struct {
	users        map[int64]*model.User
	contentTypes map[int64]*model.ContentType
	contents     map[int64]*model.Content
	locations    map[int64]*model.Location
	pending      map[int64][]*model.LocationCreateStruct

	currentUser *model.User
	nextID      int64
	failures    map[string]error
	calls       []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:        map[int64]*model.User{14: {ID: 14, Login: "admin", Enabled: true}},
		contentTypes: map[int64]*model.ContentType{2: {ID: 2, Identifier: "article", Names: map[string]string{"eng-GB": "Article", "fre-FR": "Article FR"}}},
		contents:     map[int64]*model.Content{},
		locations: map[int64]*model.Location{
			1: {ID: 1, PathString: "/1/"},
			2: {ID: 2, ParentLocationID: 1, Depth: 1, PathString: "/1/2/"},
		},
		pending:  map[int64][]*model.LocationCreateStruct{},
		nextID:   100,
		failures: map[string]error{},
	}
}

// addContent stores a published content at a new location under parentID
func (f *fakeRepository) addContent(id, locationID, parentID int64, fields []*model.Field, codes []string, names map[string]string) {
	info := &model.ContentInfo{
		ID:               id,
		ContentTypeID:    2,
		MainLocationID:   locationID,
		MainLanguageCode: codes[0],
		CurrentVersionNo: 1,
		Status:           model.StatusPublished,
		OwnerID:          14,
	}
	f.contents[id] = &model.Content{
		ContentInfo: info,
		VersionInfo: &model.VersionInfo{
			ContentID:     id,
			VersionNo:     1,
			Status:        model.StatusPublished,
			LanguageCodes: codes,
			Names:         names,
			CreatorID:     14,
		},
		Fields: fields,
	}
	f.locations[locationID] = &model.Location{ID: locationID, ParentLocationID: parentID, Depth: 2, ContentInfo: info}
}

// fail records op and returns its injected error once
func (f *fakeRepository) fail(op string) error {
	f.calls = append(f.calls, op)
	err := f.failures[op]
	delete(f.failures, op)
	return err
}

func (f *fakeRepository) mutations() []string {
	var ops []string
	for _, op := range f.calls {
		switch op {
		case "CreateContent", "PublishVersion", "SwapLocation", "DeleteContent":
			ops = append(ops, op)
		}
	}
	return ops
}

func (f *fakeRepository) ContentService() ContentService         { return f }
func (f *fakeRepository) LocationService() LocationService       { return f }
func (f *fakeRepository) ContentTypeService() ContentTypeService { return f }
func (f *fakeRepository) UserService() UserService               { return f }

func (f *fakeRepository) SetCurrentUser(user *model.User) {
	f.currentUser = user
}

func (f *fakeRepository) LoadUser(ctx context.Context, id int64) (*model.User, error) {
	if err := f.fail("LoadUser"); err != nil {
		return nil, err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (f *fakeRepository) LoadContentType(ctx context.Context, id int64) (*model.ContentType, error) {
	if err := f.fail("LoadContentType"); err != nil {
		return nil, err
	}
	ct, ok := f.contentTypes[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "content type not found")
	}
	return ct, nil
}

func (f *fakeRepository) LoadContent(ctx context.Context, id int64) (*model.Content, error) {
	if err := f.fail("LoadContent"); err != nil {
		return nil, err
	}
	content, ok := f.contents[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "content not found")
	}
	return content, nil
}

func (f *fakeRepository) LoadVersionInfo(ctx context.Context, contentID int64) (*model.VersionInfo, error) {
	if err := f.fail("LoadVersionInfo"); err != nil {
		return nil, err
	}
	content, ok := f.contents[contentID]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "version info not found")
	}
	return content.VersionInfo, nil
}

func (f *fakeRepository) NewContentCreateStruct(contentType *model.ContentType, mainLanguageCode string) *model.ContentCreateStruct {
	return &model.ContentCreateStruct{ContentType: contentType, MainLanguageCode: mainLanguageCode}
}

func (f *fakeRepository) CreateContent(ctx context.Context, cs *model.ContentCreateStruct, locations []*model.LocationCreateStruct) (*model.Content, error) {
	if err := f.fail("CreateContent"); err != nil {
		return nil, err
	}
	if f.currentUser == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "no current user")
	}
	f.nextID++
	id := f.nextID
	fields := make([]*model.Field, 0, len(cs.Fields))
	for _, field := range cs.Fields {
		copied := *field
		fields = append(fields, &copied)
	}
	names := map[string]string{}
	for code, name := range cs.Names {
		names[code] = name
	}
	content := &model.Content{
		ContentInfo: &model.ContentInfo{
			ID:               id,
			ContentTypeID:    cs.ContentType.ID,
			MainLanguageCode: cs.MainLanguageCode,
			CurrentVersionNo: 1,
			Status:           model.StatusDraft,
			OwnerID:          f.currentUser.ID,
		},
		VersionInfo: &model.VersionInfo{
			ContentID:     id,
			VersionNo:     1,
			Status:        model.StatusDraft,
			LanguageCodes: cs.LanguageCodes(),
			Names:         names,
			CreatorID:     f.currentUser.ID,
		},
		Fields: fields,
	}
	f.contents[id] = content
	f.pending[id] = locations
	return content, nil
}

func (f *fakeRepository) PublishVersion(ctx context.Context, versionInfo *model.VersionInfo) (*model.Content, error) {
	if err := f.fail("PublishVersion"); err != nil {
		return nil, err
	}
	content, ok := f.contents[versionInfo.ContentID]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "version to publish not found")
	}
	content.ContentInfo.Status = model.StatusPublished
	content.VersionInfo.Status = model.StatusPublished
	for _, lcs := range f.pending[content.ContentInfo.ID] {
		f.nextID++
		parent := f.locations[lcs.ParentLocationID]
		f.locations[f.nextID] = &model.Location{
			ID:               f.nextID,
			ParentLocationID: lcs.ParentLocationID,
			Depth:            parent.Depth + 1,
			ContentInfo:      content.ContentInfo,
		}
		if content.ContentInfo.MainLocationID == 0 {
			content.ContentInfo.MainLocationID = f.nextID
		}
	}
	delete(f.pending, content.ContentInfo.ID)
	return content, nil
}

func (f *fakeRepository) DeleteContent(ctx context.Context, info *model.ContentInfo) error {
	if err := f.fail("DeleteContent"); err != nil {
		return err
	}
	if _, ok := f.contents[info.ID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "content not found")
	}
	delete(f.contents, info.ID)
	for id, location := range f.locations {
		if location.ContentInfo != nil && location.ContentInfo.ID == info.ID {
			delete(f.locations, id)
		}
	}
	return nil
}

func (f *fakeRepository) LoadLocation(ctx context.Context, id int64) (*model.Location, error) {
	if err := f.fail("LoadLocation"); err != nil {
		return nil, err
	}
	location, ok := f.locations[id]
	if !ok || location.ContentInfo == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "location not found")
	}
	copied := *location
	return &copied, nil
}

func (f *fakeRepository) NewLocationCreateStruct(parentLocationID int64) *model.LocationCreateStruct {
	return &model.LocationCreateStruct{ParentLocationID: parentLocationID}
}

func (f *fakeRepository) SwapLocation(ctx context.Context, location1, location2 *model.Location) error {
	if err := f.fail("SwapLocation"); err != nil {
		return err
	}
	l1, l2 := f.locations[location1.ID], f.locations[location2.ID]
	c1, c2 := l1.ContentInfo, l2.ContentInfo
	l1.ContentInfo, l2.ContentInfo = c2, c1
	if c1.MainLocationID == l1.ID {
		c1.MainLocationID = l2.ID
	}
	if c2.MainLocationID == l2.ID {
		c2.MainLocationID = l1.ID
	}
	return nil
}

// contentAt returns the id of the content at a location
func (f *fakeRepository) contentAt(locationID int64) int64 {
	location, ok := f.locations[locationID]
	if !ok || location.ContentInfo == nil {
		return 0
	}
	return location.ContentInfo.ID
}

func (f *fakeRepository) contentIDs() []int64 {
	ids := make([]int64, 0, len(f.contents))
	for id := range f.contents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type recordingPurger struct {
	calls [][]int64
	err   error
}

func (p *recordingPurger) Purge(ctx context.Context, locationIDs []int64) error {
	p.calls = append(p.calls, locationIDs)
	return p.err
}
