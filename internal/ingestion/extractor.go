package ingestion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Strategy names an Extractor implementation.
type Strategy string

// Available extraction strategies.
const (
	StrategyBrowser Strategy = "browser"
	StrategyPattern Strategy = "pattern"
	StrategyWorker  Strategy = "worker"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyBrowser:
		return StrategyBrowser, nil
	case StrategyPattern:
		return StrategyPattern, nil
	case StrategyWorker:
		return StrategyWorker, nil
	default:
		return "", fmt.Errorf("unknown scraper strategy %q (want browser, pattern or worker)", s)
	}
}

// Extractor produces a JobDetails record from a job posting URL.
// Implementations return either a complete record or an error, never both.
type Extractor interface {
	Extract(ctx context.Context, jobURL string) (*types.JobDetails, error)
}

// RawFields holds the unprocessed per-field matches from a page. Empty means unresolved.
type RawFields map[Field]string

// Assemble applies the unknown-sentinel defaults and derives requirements and skills from the description.
func Assemble(raw RawFields) *types.JobDetails {
	description := orDefault(raw[FieldDescription], types.NoDescriptionMessage)
	return &types.JobDetails{
		Title:          orDefault(raw[FieldTitle], types.UnknownTitle),
		Company:        orDefault(raw[FieldCompany], types.UnknownCompany),
		Location:       orDefault(raw[FieldLocation], types.UnknownLocation),
		Description:    description,
		EmploymentType: types.OptionalString(raw[FieldEmploymentType]),
		PostedDate:     types.OptionalString(raw[FieldPostedDate]),
		Requirements:   DeriveRequirements(description),
		Skills:         DeriveSkills(description),
	}
}

func orDefault(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}

// finish assembles the record and rejects it when the description is unresolved.
func finish(jobURL string, strategy Strategy, raw RawFields) (*types.JobDetails, error) {
	return check(jobURL, strategy, Assemble(raw))
}

// check rejects a record whose description is unresolved and logs the summary of an accepted one.
func check(jobURL string, strategy Strategy, details *types.JobDetails) (*types.JobDetails, error) {
	if !details.HasDescription() {
		log.Printf("[SCRAPE] %s: no description found for %s", strategy, jobURL)
		return nil, &ExtractionError{
			URL:      jobURL,
			Strategy: strategy,
			Message:  "job description not found on page",
		}
	}
	logSummary(strategy, details)
	return details, nil
}

func logSummary(strategy Strategy, d *types.JobDetails) {
	log.Printf("[SCRAPE] %s: title=%q company=%q location=%q description=%d chars requirements=%d skills=%d",
		strategy, d.Title, d.Company, d.Location, len(d.Description), len(d.Requirements), len(d.Skills))
}

// ParseDOMFields resolves every field from rendered HTML with the CSS selector chains.
func ParseDOMFields(pageHTML string) (RawFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	raw := make(RawFields, len(Fields))
	for _, field := range Fields {
		for _, selector := range SelectorChains[field] {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			var value string
			if field == FieldDescription {
				inner, err := sel.Html()
				if err != nil {
					continue
				}
				value = HTMLToText(inner)
			} else {
				value = CollapseSpace(sel.Text())
			}
			if value != "" {
				raw[field] = value
				break
			}
		}
	}
	return raw, nil
}

// ParsePatternFields resolves every field from raw HTML with the regular-expression chains.
func ParsePatternFields(pageHTML string) RawFields {
	raw := make(RawFields, len(Fields))
	for _, field := range Fields {
		for _, pattern := range PatternChains[field] {
			m := pattern.FindStringSubmatch(pageHTML)
			if m == nil {
				continue
			}
			var value string
			if field == FieldDescription {
				value = HTMLToText(m[1])
			} else {
				value = CollapseSpace(HTMLToText(m[1]))
			}
			if value != "" {
				raw[field] = value
				break
			}
		}
	}
	return raw
}
