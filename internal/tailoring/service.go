package tailoring

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
)

// SuccessMessage is returned with a successful scrape-and-tailor run.
const SuccessMessage = "Resume tailored successfully based on LinkedIn job posting"

// Service tailors resumes with an LLM, optionally scraping the target posting first.
type Service struct {
	client    llm.Client
	extractor ingestion.Extractor
	verbose   bool
}

// NewService creates a tailoring service. extractor may be nil when only role tailoring is used.
func NewService(client llm.Client, extractor ingestion.Extractor, verbose bool) *Service {
	return &Service{client: client, extractor: extractor, verbose: verbose}
}

// TailorForRole rewrites resumeText toward role.
func (s *Service) TailorForRole(ctx context.Context, resumeText string, role types.TechRole) (string, error) {
	if s.client == nil {
		return "", &TailoringError{Role: role.Title, Cause: ErrNoClient}
	}

	prompt, err := RolePrompt(resumeText, role)
	if err != nil {
		return "", &TailoringError{Role: role.Title, Cause: err}
	}

	log.Printf("[TAILOR] Tailoring resume for %q with %s", role.Title, s.client.Model())
	if s.verbose {
		log.Printf("[TAILOR] Prompt: %d chars, resume: %d chars", len(prompt), len(resumeText))
	}

	text, err := s.client.Complete(ctx, llm.Request{
		System: SystemPrompt(),
		Prompt: prompt,
	})
	if err != nil {
		log.Printf("[TAILOR] Tailoring failed for %q: %v", role.Title, err)
		return "", &TailoringError{Role: role.Title, Cause: err}
	}

	tailored := llm.StripCodeFence(text)
	log.Printf("[TAILOR] Tailoring completed for %q (%d chars)", role.Title, len(tailored))
	return tailored, nil
}

// TailorForRoleID rewrites resumeText toward a catalog role.
func (s *Service) TailorForRoleID(ctx context.Context, resumeText, roleID string) (types.TechRole, string, error) {
	role, ok := types.FindTechRole(roleID)
	if !ok {
		return types.TechRole{}, "", &UnknownRoleError{ID: roleID}
	}
	tailored, err := s.TailorForRole(ctx, resumeText, role)
	if err != nil {
		return role, "", err
	}
	return role, tailored, nil
}

// TailorForJob rewrites resumeText toward an already scraped posting.
func (s *Service) TailorForJob(ctx context.Context, resumeText string, details *types.JobDetails) (string, error) {
	return s.TailorForRole(ctx, resumeText, JobRole(details))
}

// ScrapeAndTailor scrapes jobURL and tailors resumeText toward it.
func (s *Service) ScrapeAndTailor(ctx context.Context, jobURL, resumeText string) (*types.ScrapeAndTailorResponse, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("no job extractor configured")
	}

	details, err := s.extractor.Extract(ctx, jobURL)
	if err != nil {
		return nil, err
	}

	tailored, err := s.TailorForJob(ctx, resumeText, details)
	if err != nil {
		return nil, err
	}
	return &types.ScrapeAndTailorResponse{
		JobDetails:     details,
		TailoredResume: tailored,
		Message:        SuccessMessage,
	}, nil
}

// UnknownRoleError is returned for a role id outside the catalog.
type UnknownRoleError struct {
	ID string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", e.ID)
}
