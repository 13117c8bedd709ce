package ingestion

import (
	"regexp"
	"strings"
)

// SkillVocabulary is the fixed list of skill tags recognized in descriptions.
// DeriveSkills reports matches in this order.
var SkillVocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C++", "React", "Angular", "Vue.js",
	"Node.js", "Express", "MongoDB", "SQL", "AWS", "Docker", "Kubernetes", "Git",
	"CI/CD", "Agile", "Scrum", "REST API", "GraphQL", "HTML", "CSS", "SASS", "LESS",
	"Redux", "Vue", "jQuery", "Bootstrap", "Tailwind", "Material-UI", "Webpack", "Babel",
	"ESLint", "Jest", "Mocha", "Chai", "Cypress", "Selenium", "PHP", "Laravel", "Ruby",
	"Rails", "Django", "Flask", "Spring", "ASP.NET", ".NET", "C#", "Swift", "Kotlin",
	"Android", "iOS", "React Native", "Flutter",
}

// RequirementPhrases mark a line as a requirement regardless of its prefix.
var RequirementPhrases = []string{
	"required",
	"qualification",
	"experience with",
	"experience in",
	"you will need",
	"you should have",
}

var (
	lineBreakRe    = regexp.MustCompile(`[\n\r]+`)
	numberedItemRe = regexp.MustCompile(`^\d+\.`)
)

// IsRequirementLine reports whether a trimmed line reads as a requirement:
// a bullet, a numbered item, or a line containing a requirement phrase.
func IsRequirementLine(line string) bool {
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return true
	}
	if numberedItemRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, phrase := range RequirementPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// DeriveRequirements returns the requirement lines of a description in document order.
func DeriveRequirements(description string) []string {
	requirements := []string{}
	for _, line := range lineBreakRe.Split(description, -1) {
		line = strings.TrimSpace(line)
		if line == "" || !IsRequirementLine(line) {
			continue
		}
		requirements = append(requirements, line)
	}
	return requirements
}

// DeriveSkills returns the vocabulary entries mentioned anywhere in description, case-insensitively.
func DeriveSkills(description string) []string {
	lower := strings.ToLower(description)
	skills := []string{}
	for _, skill := range SkillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}
