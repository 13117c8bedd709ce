package types

import (
	"regexp"
	"strings"
)

// TechRole is a target role the resume is tailored toward.
type TechRole struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var techRoles = []TechRole{
	{ID: "frontend", Title: "Frontend Developer", Description: "Specializes in user interfaces, client-side development, and responsive web design"},
	{ID: "backend", Title: "Backend Developer", Description: "Focuses on server-side logic, APIs, and database management"},
	{ID: "fullstack", Title: "Full Stack Developer", Description: "Handles both client and server-side development with end-to-end expertise"},
	{ID: "devops", Title: "DevOps Engineer", Description: "Manages deployment, infrastructure, and continuous integration/delivery"},
	{ID: "mobile", Title: "Mobile Developer", Description: "Creates native and cross-platform mobile applications"},
	{ID: "cloud", Title: "Cloud Engineer", Description: "Designs and maintains cloud infrastructure and services"},
	{ID: "ai", Title: "AI/ML Engineer", Description: "Develops machine learning models and artificial intelligence solutions"},
	{ID: "data", Title: "Data Engineer", Description: "Builds data pipelines and manages data infrastructure"},
	{ID: "security", Title: "Security Engineer", Description: "Implements security measures and protects against cyber threats"},
	{ID: "qa", Title: "QA Engineer", Description: "Ensures software quality through testing and automation"},
	{ID: "blockchain", Title: "Blockchain Developer", Description: "Develops decentralized applications and smart contracts"},
	{ID: "embedded", Title: "Embedded Systems Engineer", Description: "Programs software for embedded systems and IoT devices"},
	{ID: "gamedev", Title: "Game Developer", Description: "Creates video games and interactive entertainment software"},
	{ID: "ar_vr", Title: "AR/VR Developer", Description: "Develops augmented and virtual reality experiences"},
	{ID: "sre", Title: "Site Reliability Engineer", Description: "Maintains system reliability, scalability, and performance"},
}

// TechRoles returns a copy of the role catalog in display order.
func TechRoles() []TechRole {
	out := make([]TechRole, len(techRoles))
	copy(out, techRoles)
	return out
}

// FindTechRole looks up a catalog role by ID.
func FindTechRole(id string) (TechRole, bool) {
	for _, r := range techRoles {
		if r.ID == id {
			return r, true
		}
	}
	return TechRole{}, false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// RoleSlug turns a job title into a role ID ("Staff Engineer" -> "staff-engineer").
func RoleSlug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}
