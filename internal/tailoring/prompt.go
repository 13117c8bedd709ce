package tailoring

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
)

const promptFile = "tailoring.json"

// SystemPrompt returns the system message sent with every tailoring request.
func SystemPrompt() string {
	return prompts.MustGet(promptFile, "system")
}

// RolePrompt builds the user prompt that tailors resumeText toward role.
func RolePrompt(resumeText string, role types.TechRole) (string, error) {
	return prompts.Render(promptFile, "tailor-for-role", map[string]string{
		"RoleTitle":       role.Title,
		"RoleDescription": role.Description,
		"ResumeText":      resumeText,
	})
}

// JobTailoringPrompt builds a standalone job-based prompt from scraped details.
func JobTailoringPrompt(details *types.JobDetails) (string, error) {
	return prompts.Render(promptFile, "tailor-for-job", map[string]string{
		"Title":        details.Title,
		"Company":      details.Company,
		"Location":     details.Location,
		"Requirements": bulletList(details.Requirements, "No specific requirements listed"),
		"Skills":       bulletList(details.Skills, "No specific skills listed"),
		"Description":  details.Description,
	})
}

// JobContext composes the role description used when tailoring against a scraped posting.
// Employment type and posted date lines appear only when present.
func JobContext(details *types.JobDetails) string {
	var sb strings.Builder
	sb.WriteString("Position: " + details.Title + "\n")
	sb.WriteString("Company: " + details.Company + "\n")
	sb.WriteString("Location: " + details.Location + "\n")
	if v := details.EmploymentTypeValue(); v != "" {
		sb.WriteString("Employment Type: " + v + "\n")
	}
	if v := details.PostedDateValue(); v != "" {
		sb.WriteString("Posted: " + v + "\n")
	}
	sb.WriteString("\nJob Description:\n")
	sb.WriteString(details.Description)
	sb.WriteString("\n\nKey Requirements:\n")
	sb.WriteString(bulletList(details.Requirements, ""))
	sb.WriteString("\n\nRequired Skills:\n")
	sb.WriteString(bulletList(details.Skills, ""))
	return strings.TrimRight(sb.String(), "\n")
}

// JobRole returns the synthetic role a scraped posting is tailored against.
func JobRole(details *types.JobDetails) types.TechRole {
	return types.TechRole{
		ID:          types.RoleSlug(details.Title),
		Title:       details.Title,
		Description: JobContext(details),
	}
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
