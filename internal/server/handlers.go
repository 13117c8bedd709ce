package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

// maxBodyBytes caps request bodies; resumes are plain text.
const maxBodyBytes = 2 << 20

// decodeBody decodes a JSON request body into dst.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotFound answers unknown API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.errorResponse(w, http.StatusNotFound, msgNotFound)
}

// handleListRoles returns the role catalog
func (s *Server) handleListRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.TechRoles())
}

// handleTailor tailors a resume against a catalog role
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req types.TailorRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Both resume text and role ID are required")
		return
	}

	role, tailored, err := s.tailor.TailorForRoleID(r.Context(), req.ResumeText, req.RoleID)
	if err != nil {
		status := HTTPStatus(err)
		log.Printf("[TAILOR] Tailor request for role %q failed (%d): %v", req.RoleID, status, err)
		switch status {
		case http.StatusNotFound:
			s.errorResponse(w, status, fmt.Sprintf("Role not found: %s", req.RoleID))
		default:
			s.errorDetailsResponse(w, status, msgTailorFailed, err)
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, types.TailorResponse{Role: role, TailoredResume: tailored})
}

// handleScrapeAndTailor scrapes a job posting and tailors the resume toward it
func (s *Server) handleScrapeAndTailor(w http.ResponseWriter, r *http.Request) {
	var req types.ScrapeAndTailorRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgMissingScrapeFields)
		return
	}

	jobURL := ingestion.NormalizeJobURL(req.LinkedInURL)
	if err := ingestion.ValidateJobURL(jobURL); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidJobURL)
		return
	}

	log.Printf("[SCRAPE] Scrape-and-tailor request for %s (resume %d chars)", jobURL, len(req.ResumeText))
	resp, err := s.tailor.ScrapeAndTailor(r.Context(), jobURL, req.ResumeText)
	if err != nil {
		status := HTTPStatus(err)
		log.Printf("[SCRAPE] Scrape-and-tailor failed for %s (%d): %v", jobURL, status, err)
		switch status {
		case http.StatusUnprocessableEntity:
			s.errorResponse(w, status, msgExtractionFailed)
		case http.StatusBadRequest:
			s.errorResponse(w, status, msgInvalidJobURL)
		default:
			s.errorDetailsResponse(w, status, msgScrapeFailed, err)
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRenderPDF regenerates a PDF from resume text
func (s *Server) handleRenderPDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF rendering is not available")
		return
	}

	var req types.RenderRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume text is required")
		return
	}

	pdf, err := s.renderer.RenderPDF(r.Context(), "Tailored Resume", req.Text)
	if err != nil {
		status := HTTPStatus(err)
		log.Printf("[PDF] Render failed (%d): %v", status, err)
		if status == http.StatusBadRequest {
			s.errorResponse(w, status, "Resume text is required")
			return
		}
		s.errorDetailsResponse(w, status, msgRenderFailed, err)
		return
	}

	filename := fmt.Sprintf("tailored-resume-%s.pdf", uuid.NewString()[:8])
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[PDF] Error writing response: %v", err)
	}
}
