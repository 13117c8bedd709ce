package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeAndTailorRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request ScrapeAndTailorRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: ScrapeAndTailorRequest{LinkedInURL: "https://www.linkedin.com/jobs/view/1", ResumeText: "resume"},
		},
		{
			name:    "missing url",
			request: ScrapeAndTailorRequest{ResumeText: "resume"},
			wantErr: true,
		},
		{
			name:    "missing resume",
			request: ScrapeAndTailorRequest{LinkedInURL: "https://www.linkedin.com/jobs/view/1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "required")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTailorRequest_Validate(t *testing.T) {
	assert.NoError(t, (&TailorRequest{ResumeText: "r", RoleID: "qa"}).Validate())
	assert.Error(t, (&TailorRequest{ResumeText: "r"}).Validate())
}

func TestRenderRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RenderRequest{Text: "hello"}).Validate())
	assert.Error(t, (&RenderRequest{}).Validate())
}
