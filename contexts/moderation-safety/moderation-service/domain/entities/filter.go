package entities

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

type FilterType string

const (
	FilterTypeWord   FilterType = "word"
	FilterTypePhrase FilterType = "phrase"
	FilterTypeRegex  FilterType = "regex"
)

func ParseFilterType(raw string) (FilterType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "word":
		return FilterTypeWord, true
	case "phrase":
		return FilterTypePhrase, true
	case "regex", "regex-pattern", "pattern":
		return FilterTypeRegex, true
	default:
		return "", false
	}
}

type FilterStats struct {
	MatchCount  int64
	LastMatched *time.Time
}

// Filter is a moderator-owned detection rule. Inactive filters are kept for audit.
type Filter struct {
	Name       string
	Type       FilterType
	Pattern    string
	Category   Category
	Severity   Severity
	Action     Action
	IsActive   bool
	ApplyTo    []ContentKind
	Exceptions []string
	Stats      FilterStats
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks required fields. Regex patterns must compile.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Pattern) == "" {
		return domainerrors.ErrValidation
	}
	switch f.Type {
	case FilterTypeWord:
		if !strings.ContainsFunc(f.Pattern, isWordRune) {
			return domainerrors.ErrValidation
		}
	case FilterTypePhrase:
	case FilterTypeRegex:
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return domainerrors.ErrValidation
		}
	default:
		return domainerrors.ErrValidation
	}
	if !f.Category.IsValid() {
		return domainerrors.ErrValidation
	}
	if f.Severity != "" {
		if _, ok := ParseSeverity(string(f.Severity)); !ok {
			return domainerrors.ErrValidation
		}
	}
	if f.Action != "" && !f.Action.IsValid() {
		return domainerrors.ErrValidation
	}
	for _, kind := range f.ApplyTo {
		if _, err := NewContentRef(kind, "-"); err != nil {
			return domainerrors.ErrValidation
		}
	}
	return nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// AppliesTo reports whether the filter targets kind. An empty ApplyTo or an
// unknown kind means all content.
func (f Filter) AppliesTo(kind ContentKind) bool {
	if len(f.ApplyTo) == 0 || kind == "" {
		return true
	}
	return slices.Contains(f.ApplyTo, kind)
}

func (f Filter) IsException(matched string) bool {
	for _, exception := range f.Exceptions {
		if strings.EqualFold(strings.TrimSpace(exception), strings.TrimSpace(matched)) {
			return true
		}
	}
	return false
}

// FilterPatch carries partial filter edits. Nil fields are left untouched.
type FilterPatch struct {
	Type       *FilterType
	Pattern    *string
	Category   *Category
	Severity   *Severity
	Action     *Action
	IsActive   *bool
	ApplyTo    *[]ContentKind
	Exceptions *[]string
}

func (f Filter) Apply(patch FilterPatch, now time.Time) (Filter, error) {
	next := f
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Pattern != nil {
		next.Pattern = strings.TrimSpace(*patch.Pattern)
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Severity != nil {
		next.Severity = *patch.Severity
	}
	if patch.Action != nil {
		next.Action = *patch.Action
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}
	if patch.ApplyTo != nil {
		next.ApplyTo = append([]ContentKind(nil), (*patch.ApplyTo)...)
	}
	if patch.Exceptions != nil {
		next.Exceptions = append([]string(nil), (*patch.Exceptions)...)
	}
	if err := next.Validate(); err != nil {
		return Filter{}, err
	}
	next.UpdatedAt = now.UTC()
	return next, nil
}

type FilterQuery struct {
	Category *Category
	IsActive *bool
}
