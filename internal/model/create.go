package model

import "sort"

// ContentCreateStruct collects the data for a new content draft
type ContentCreateStruct struct {
	ContentType      *ContentType
	MainLanguageCode string
	Fields           []*Field
	Names            map[string]string

	// Languages fixes the version's language order, including languages
	// without any field values. Empty means derive it from fields and names.
	Languages []string
}

// SetField sets a field value for the given language, replacing any previous value
func (s *ContentCreateStruct) SetField(identifier, value, languageCode string) {
	for _, f := range s.Fields {
		if f.Identifier == identifier && f.LanguageCode == languageCode {
			f.Value = value
			return
		}
	}
	s.Fields = append(s.Fields, &Field{
		Identifier:   identifier,
		LanguageCode: languageCode,
		Value:        value,
	})
}

// SetName sets the display name for a language
func (s *ContentCreateStruct) SetName(languageCode, name string) {
	if s.Names == nil {
		s.Names = make(map[string]string)
	}
	s.Names[languageCode] = name
}

// LanguageCodes returns the languages present in the struct.
// The main language comes first, then Languages, then the rest in field order.
func (s *ContentCreateStruct) LanguageCodes() []string {
	codes := []string{s.MainLanguageCode}
	seen := map[string]bool{s.MainLanguageCode: true}
	for _, code := range s.Languages {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for _, f := range s.Fields {
		if !seen[f.LanguageCode] {
			seen[f.LanguageCode] = true
			codes = append(codes, f.LanguageCode)
		}
	}
	var nameOnly []string
	for code := range s.Names {
		if !seen[code] {
			nameOnly = append(nameOnly, code)
		}
	}
	sort.Strings(nameOnly)
	return append(codes, nameOnly...)
}

// LocationCreateStruct requests a location under ParentLocationID
type LocationCreateStruct struct {
	ParentLocationID int64
}
