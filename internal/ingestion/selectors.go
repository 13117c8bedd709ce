package ingestion

import (
	"regexp"
	"strings"
)

// Field names one logical JobDetails field resolved by a selector chain.
type Field string

// Fields resolved from a job posting page.
const (
	FieldTitle          Field = "title"
	FieldCompany        Field = "company"
	FieldLocation       Field = "location"
	FieldEmploymentType Field = "employmentType"
	FieldPostedDate     Field = "postedDate"
	FieldDescription    Field = "description"
)

// Fields lists every resolved field in extraction order.
var Fields = []Field{
	FieldTitle, FieldCompany, FieldLocation, FieldEmploymentType, FieldPostedDate, FieldDescription,
}

// SelectorChains holds the CSS selectors tried for each field, highest priority first.
// LinkedIn serves several page variants, so each field falls back through a short list.
var SelectorChains = map[Field][]string{
	FieldTitle: {
		".top-card-layout__title",
		".job-details-jobs-unified-top-card__job-title",
		"h1",
	},
	FieldCompany: {
		".topcard__org-name-link",
		".top-card-layout__company-name",
		".job-details-jobs-unified-top-card__company-name",
	},
	FieldLocation: {
		".topcard__flavor--bullet",
		".top-card-layout__bullet",
		".job-details-jobs-unified-top-card__bullet",
	},
	FieldEmploymentType: {
		".job-details-jobs-unified-top-card__workplace-type",
		".top-card-layout__workplace-type",
		".job-details-jobs-unified-top-card__job-type",
	},
	FieldPostedDate: {
		".posted-time-ago__text",
		".job-posted-date",
		".top-card-layout__posted-date",
	},
	FieldDescription: {
		".description__text",
		".show-more-less-html__markup",
		".job-description",
	},
}

// ReadySelectors signal that a rendered page has its job content in place.
// The top-card containers come first; any one of them ends the wait.
var ReadySelectors = []string{
	".top-card-layout__card",
	".job-details-jobs-unified-top-card__content",
	".jobs-unified-top-card",
	".description__text",
	".show-more-less-html__markup",
	".top-card-layout__title",
}

// ReadyPhrases are the fallback readiness signal: any of them in the body text.
var ReadyPhrases = []string{"job", "Job Description", "About the job"}

// PatternChains holds the regular-expression equivalents of SelectorChains, in the same order.
// Each pattern captures the element content in group 1.
var PatternChains = buildPatternChains()

func buildPatternChains() map[Field][]*regexp.Regexp {
	chains := make(map[Field][]*regexp.Regexp, len(SelectorChains))
	for field, selectors := range SelectorChains {
		patterns := make([]*regexp.Regexp, 0, len(selectors))
		for _, sel := range selectors {
			patterns = append(patterns, selectorPattern(sel, field == FieldDescription))
		}
		chains[field] = patterns
	}
	return chains
}

// selectorPattern translates a class or tag selector into a regular expression.
// Block patterns capture everything up to the first closing div; inline patterns capture text up to the next tag.
func selectorPattern(selector string, block bool) *regexp.Regexp {
	var open string
	if class, ok := strings.CutPrefix(selector, "."); ok {
		open = `class="(?:[^"]*\s)?` + regexp.QuoteMeta(class) + `(?:\s[^"]*)?"[^>]*>`
	} else {
		open = `<` + regexp.QuoteMeta(selector) + `(?:\s[^>]*)?>`
	}
	if block {
		return regexp.MustCompile(`(?i)` + open + `([\s\S]*?)</div>`)
	}
	return regexp.MustCompile(`(?i)` + open + `([^<]+)<`)
}
