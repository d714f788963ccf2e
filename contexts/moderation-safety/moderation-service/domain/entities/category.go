package entities

import "strings"

type Category string

const (
	CategoryProfanity  Category = "profanity"
	CategorySpam       Category = "spam"
	CategoryHateSpeech Category = "hate_speech"
	CategoryToxicity   Category = "toxicity"
	CategoryNSFW       Category = "nsfw"
	CategoryViolence   Category = "violence"
	CategoryOther      Category = "other"
)

func ParseCategory(raw string) (Category, bool) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	return category, category.IsValid()
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryProfanity, CategorySpam, CategoryHateSpeech, CategoryToxicity,
		CategoryNSFW, CategoryViolence, CategoryOther:
		return true
	default:
		return false
	}
}

// ScoreDimension is the analysis score a filter of this category raises.
func (c Category) ScoreDimension() Category {
	switch c {
	case CategoryProfanity, CategorySpam, CategoryHateSpeech, CategoryToxicity, CategoryNSFW:
		return c
	case CategoryViolence, CategoryOther:
		return CategoryToxicity
	default:
		return CategoryToxicity
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(raw string) (Severity, bool) {
	severity := Severity(strings.ToLower(strings.TrimSpace(raw)))
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return severity, true
	default:
		return "", false
	}
}

// Score maps a filter severity onto the [0,1] scale. Unset severities score 0.5.
func (s Severity) Score() float64 {
	switch s {
	case SeverityCritical:
		return 0.95
	case SeverityHigh:
		return 0.8
	case SeverityMedium:
		return 0.6
	case SeverityLow:
		return 0.4
	default:
		return 0.5
	}
}
