package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("tailoring.json", "tailor-for-role")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.RoleTitle}}")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("tailoring.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_System(t *testing.T) {
	assert.Equal(t, "You are a professional resume tailoring expert.", MustGet("tailoring.json", "system"))
}

func TestFormat(t *testing.T) {
	template := "Tailor for {{.RoleTitle}} ({{.RoleTitle}}) using {{.Missing}}"
	result := Format(template, map[string]string{"RoleTitle": "SRE"})
	assert.Equal(t, "Tailor for SRE (SRE) using {{.Missing}}", result)
}

func TestList(t *testing.T) {
	keys, err := List("tailoring.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"system", "tailor-for-role", "tailor-for-job"}, keys)
}

func TestCacheIsUsed(t *testing.T) {
	ClearCache()
	first, err := Get("tailoring.json", "system")
	require.NoError(t, err)
	second, err := Get("tailoring.json", "system")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender(t *testing.T) {
	prompt, err := Render("tailoring.json", "tailor-for-role", map[string]string{
		"RoleTitle":       "Site Reliability Engineer",
		"RoleDescription": "on-call and automation",
		"ResumeText":      "Jane Doe",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "target a Site Reliability Engineer position")
	assert.Contains(t, prompt, "align with on-call and automation")
	assert.Contains(t, prompt, "Original Resume:\nJane Doe")
	assert.NotContains(t, prompt, "{{.")

	_, err = Render("tailoring.json", "missing", nil)
	assert.Error(t, err)
}
