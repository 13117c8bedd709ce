package ingestion

import (
	"strings"
)

// JobURLMarker is the substring every accepted job posting URL contains.
const JobURLMarker = "linkedin.com/jobs/"

// InvalidJobURLMessage is the message reported for rejected job posting URLs.
const InvalidJobURLMessage = "Invalid LinkedIn job URL"

// ValidateJobURL rejects URLs that are not LinkedIn job postings.
// No other shape validation is applied.
func ValidateJobURL(jobURL string) error {
	if !strings.Contains(jobURL, JobURLMarker) {
		return &InvalidInputError{Input: jobURL, Message: InvalidJobURLMessage}
	}
	return nil
}

// NormalizeJobURL trims whitespace and adds an https scheme when none is present.
func NormalizeJobURL(jobURL string) string {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL != "" && !strings.Contains(jobURL, "://") {
		jobURL = "https://" + jobURL
	}
	return jobURL
}
