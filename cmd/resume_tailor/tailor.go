package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pdftext"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a catalog role or a LinkedIn job posting",
	Long:  "Tailor a resume (plain text or PDF) to a role from the catalog (--role) or to a scraped LinkedIn posting (--job-url) and print the result.",
	RunE:  runTailor,
}

var (
	resumePath string
	roleID     string
	jobURL     string
)

func init() {
	tailorCmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Path to the resume, plain text or PDF (required)")
	tailorCmd.Flags().StringVar(&roleID, "role", "", "Catalog role ID (see the roles command)")
	tailorCmd.Flags().StringVarP(&jobURL, "job-url", "u", "", "LinkedIn job posting URL")

	_ = tailorCmd.MarkFlagRequired("resume")
	tailorCmd.MarkFlagsMutuallyExclusive("role", "job-url")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	if roleID == "" && jobURL == "" {
		return fmt.Errorf("either --role or --job-url must be provided")
	}
	resumeText, err := readResume(resumePath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("an LLM API key is required: set GROQ_API_KEY or GEMINI_API_KEY")
	}
	defer func() { _ = client.Close() }()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if roleID != "" {
		service := tailoring.NewService(client, nil, cfg.Verbose)
		role, tailored, err := service.TailorForRoleID(ctx, resumeText, roleID)
		if err != nil {
			return err
		}
		if cfg.Verbose {
			printer.PrintTailoringSummary(role.Title, resumeText, tailored)
		}
		fmt.Fprintln(out, tailored)
		return nil
	}

	extractor, cleanup, err := newExtractor(ctx, cfg, newBrowserPool(cfg))
	if err != nil {
		return err
	}
	defer cleanup()

	service := tailoring.NewService(client, extractor, cfg.Verbose)
	resp, err := service.ScrapeAndTailor(ctx, jobURL, resumeText)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintJobDetails(resp.JobDetails)
		printer.PrintTailoringSummary(resp.JobDetails.Title, resumeText, resp.TailoredResume)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Tailored for %s at %s\n", resp.JobDetails.Title, resp.JobDetails.Company)
	}
	fmt.Fprintln(out, resp.TailoredResume)
	return nil
}

// readResume returns the resume text, reconstructing it first when path is a PDF.
func readResume(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		result, err := pdftext.ReconstructFile(path, verbose)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("resume file %s is empty", path)
	}
	return text, nil
}
