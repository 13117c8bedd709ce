// Package types provides type definitions for structured data used throughout the resume-tailor system.
package types

// Sentinel values for job posting fields that could not be resolved.
// They are markers, not content: callers compare against them explicitly.
const (
	UnknownTitle         = "Unknown Title"
	UnknownCompany       = "Unknown Company"
	UnknownLocation      = "Unknown Location"
	NoDescriptionMessage = "No description available"
)

// JobDetails is the structured record produced by one job posting scrape.
// Requirements and Skills are derived from Description only.
type JobDetails struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	EmploymentType *string  `json:"employmentType,omitempty"`
	PostedDate     *string  `json:"postedDate,omitempty"`
	Requirements   []string `json:"requirements"`
	Skills         []string `json:"skills"`
}

// HasDescription reports whether the description was resolved.
func (j *JobDetails) HasDescription() bool {
	return j != nil && j.Description != "" && j.Description != NoDescriptionMessage
}

// OptionalString returns nil for an empty string, otherwise a pointer to s.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EmploymentTypeValue returns the employment type or "" when absent.
func (j *JobDetails) EmploymentTypeValue() string { return deref(j.EmploymentType) }

// PostedDateValue returns the posted date or "" when absent.
func (j *JobDetails) PostedDateValue() string { return deref(j.PostedDate) }

// Clone returns a deep copy of j.
func (j *JobDetails) Clone() *JobDetails {
	if j == nil {
		return nil
	}
	c := *j
	c.EmploymentType = OptionalString(j.EmploymentTypeValue())
	c.PostedDate = OptionalString(j.PostedDateValue())
	c.Requirements = append([]string{}, j.Requirements...)
	c.Skills = append([]string{}, j.Skills...)
	return &c
}
