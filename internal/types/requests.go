package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ScrapeAndTailorRequest is the body of the scrape-and-tailor endpoint.
type ScrapeAndTailorRequest struct {
	LinkedInURL string `json:"linkedinUrl" validate:"required"`
	ResumeText  string `json:"resumeText" validate:"required"`
}

// ScrapeAndTailorResponse is returned when a resume was tailored to a scraped posting.
type ScrapeAndTailorResponse struct {
	JobDetails     *JobDetails `json:"jobDetails"`
	TailoredResume string      `json:"tailoredResume"`
	Message        string      `json:"message"`
}

// TailorRequest tailors a resume against a catalog role.
type TailorRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
	RoleID     string `json:"roleId" validate:"required"`
}

// TailorResponse carries the tailored resume text.
type TailorResponse struct {
	Role           TechRole `json:"role"`
	TailoredResume string   `json:"tailoredResume"`
}

// RenderRequest asks for a PDF rendering of plain resume text.
type RenderRequest struct {
	Text string `json:"text" validate:"required"`
}

// WorkerRequest is the body accepted by the scraping worker.
type WorkerRequest struct {
	URL string `json:"url"`
}

// WorkerErrorResponse is the worker's failure body.
type WorkerErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Validate validates the ScrapeAndTailorRequest using the validator.
func (r *ScrapeAndTailorRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	return validate.Struct(r)
}
