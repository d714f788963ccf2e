package analysis

import (
	"regexp"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
)

// Curve maps a match count onto a score: min(1, Base + n*Step), zero when n is zero.
type Curve struct {
	Base float64
	Step float64
}

func (c Curve) Score(matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return min(1, c.Base+float64(matches)*c.Step)
}

// Curves holds the per-group scoring constants.
type Curves struct {
	Profanity  Curve
	Spam       Curve
	HateSpeech Curve
}

func DefaultCurves() Curves {
	return Curves{
		Profanity:  Curve{Base: 0.3, Step: 0.15},
		Spam:       Curve{Base: 0.2, Step: 0.2},
		HateSpeech: Curve{Base: 0.6, Step: 0.2},
	}
}

func (c Curves) forCategory(category entities.Category) Curve {
	switch category {
	case entities.CategoryProfanity:
		return c.Profanity
	case entities.CategorySpam:
		return c.Spam
	case entities.CategoryHateSpeech:
		return c.HateSpeech
	case entities.CategoryToxicity, entities.CategoryNSFW, entities.CategoryViolence, entities.CategoryOther:
		return Curve{}
	default:
		return Curve{}
	}
}

type patternGroup struct {
	category entities.Category
	patterns []*regexp.Regexp
}

// builtinGroups run against normalized text, so patterns are lower case and accent free.
var builtinGroups = []patternGroup{
	{
		category: entities.CategoryProfanity,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(fuck\w*|shit\w*|bitch\w*|asshole\w*|bastard\w*|motherfuck\w*)\b`),
			regexp.MustCompile(`\b(damn|crap|dick|piss(ed)?|wtf|stfu)\b`),
		},
	},
	{
		category: entities.CategorySpam,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(buy now|click here|act now|free money|limited time offer|make money fast)\b`),
			regexp.MustCompile(`\b(work from home|earn \$?\d+ (a|per) (day|week)|dm me for|follow for follow)\b`),
			regexp.MustCompile(`\b(crypto giveaway|double your (money|bitcoin)|guaranteed (profit|income))\b`),
		},
	},
	{
		category: entities.CategoryHateSpeech,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(kill|exterminate|eliminate|wipe out)\s+(all|every)\b`),
			regexp.MustCompile(`\b(subhuman|untermensch)\b`),
			regexp.MustCompile(`\bgo back to (your|their) (own )?country\b`),
		},
	},
}

type groupMatch struct {
	category entities.Category
	count    int
	phrases  []string
}

func matchBuiltins(normalized string) []groupMatch {
	matches := make([]groupMatch, 0, len(builtinGroups))
	for _, group := range builtinGroups {
		result := groupMatch{category: group.category}
		for _, pattern := range group.patterns {
			found := pattern.FindAllString(normalized, -1)
			result.count += len(found)
			result.phrases = append(result.phrases, found...)
		}
		matches = append(matches, result)
	}
	return matches
}
