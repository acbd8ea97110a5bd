package model

import (
	"sort"
	"time"
)

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ContentInfo holds the metadata of a content item
type ContentInfo struct {
	ID               int64  `json:"id" db:"id"`
	ContentTypeID    int64  `json:"content_type_id" db:"content_type_id"`
	MainLocationID   int64  `json:"main_location_id" db:"main_location_id"`
	MainLanguageCode string `json:"main_language_code" db:"main_language_code"`
	CurrentVersionNo int    `json:"current_version_no" db:"current_version"`
	Status           string `json:"status" db:"status"`
	OwnerID          int64  `json:"owner_id" db:"owner_id"`
}

// VersionInfo describes one version of a content item.
// LanguageCodes keeps the order the translations were stored in.
type VersionInfo struct {
	ContentID     int64             `json:"content_id" db:"content_id"`
	VersionNo     int               `json:"version_no" db:"version_no"`
	Status        string            `json:"status" db:"status"`
	LanguageCodes []string          `json:"language_codes" db:"language_codes"`
	Names         map[string]string `json:"names" db:"names"`
	CreatorID     int64             `json:"creator_id" db:"creator_id"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// Name returns the version name in the given language
func (v *VersionInfo) Name(languageCode string) string {
	return v.Names[languageCode]
}

// InitialName returns the name in the first stored language
func (v *VersionInfo) InitialName() string {
	if len(v.LanguageCodes) == 0 {
		return ""
	}
	return v.Names[v.LanguageCodes[0]]
}

// HasLanguage reports whether the version is translated in languageCode
func (v *VersionInfo) HasLanguage(languageCode string) bool {
	for _, code := range v.LanguageCodes {
		if code == languageCode {
			return true
		}
	}
	return false
}

// Field is a single field value in one language
type Field struct {
	Identifier   string `json:"identifier" db:"field_identifier"`
	LanguageCode string `json:"language_code" db:"language_code"`
	Value        string `json:"value" db:"value"`
}

// Content is a content item with its fields for the current version
type Content struct {
	ContentInfo *ContentInfo `json:"content_info"`
	VersionInfo *VersionInfo `json:"version_info"`
	Fields      []*Field     `json:"fields"`
}

// FieldsByIdentifier groups field values by identifier, then by language code
func (c *Content) FieldsByIdentifier() map[string]map[string]string {
	grouped := make(map[string]map[string]string)
	for _, f := range c.Fields {
		if grouped[f.Identifier] == nil {
			grouped[f.Identifier] = make(map[string]string)
		}
		grouped[f.Identifier][f.LanguageCode] = f.Value
	}
	return grouped
}

// Location is a node in the content tree
type Location struct {
	ID               int64        `json:"id" db:"id"`
	ParentLocationID int64        `json:"parent_location_id" db:"parent_location_id"`
	Depth            int          `json:"depth" db:"depth"`
	PathString       string       `json:"path_string" db:"path_string"`
	ContentInfo      *ContentInfo `json:"content_info"`
}

// ContentType defines the schema of a content item
type ContentType struct {
	ID         int64             `json:"id" db:"id"`
	Identifier string            `json:"identifier" db:"identifier"`
	Names      map[string]string `json:"names" db:"names"`
}

// Name returns the localized name, falling back to the first available
// name by language code and then to the identifier
func (t *ContentType) Name(languageCode string) string {
	if name, ok := t.Names[languageCode]; ok {
		return name
	}
	codes := make([]string, 0, len(t.Names))
	for code := range t.Names {
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return t.Identifier
	}
	sort.Strings(codes)
	return t.Names[codes[0]]
}

// User is a repository user mutations are performed as
type User struct {
	ID      int64  `json:"id" db:"id"`
	Login   string `json:"login" db:"login"`
	Enabled bool   `json:"enabled" db:"enabled"`
}
