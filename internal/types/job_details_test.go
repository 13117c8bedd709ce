package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobDetails_HasDescription(t *testing.T) {
	tests := []struct {
		name    string
		details *JobDetails
		want    bool
	}{
		{name: "nil", details: nil, want: false},
		{name: "empty", details: &JobDetails{}, want: false},
		{name: "sentinel", details: &JobDetails{Description: NoDescriptionMessage}, want: false},
		{name: "resolved", details: &JobDetails{Description: "Build things"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.details.HasDescription())
		})
	}
}

func TestJobDetails_JSONOmitsAbsentOptionalFields(t *testing.T) {
	details := JobDetails{
		Title:        "Staff Engineer",
		Company:      "Acme",
		Location:     "Remote",
		Description:  "Go services",
		Requirements: []string{},
		Skills:       []string{"Go"},
	}

	data, err := json.Marshal(details)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "employmentType")
	assert.NotContains(t, string(data), "postedDate")
	assert.Contains(t, string(data), `"requirements":[]`)

	details.EmploymentType = OptionalString("Full-time")
	data, err = json.Marshal(details)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"employmentType":"Full-time"`)
	assert.Equal(t, "Full-time", details.EmploymentTypeValue())
	assert.Equal(t, "", details.PostedDateValue())
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	require.NotNil(t, OptionalString("x"))
	assert.Equal(t, "x", *OptionalString("x"))
}
