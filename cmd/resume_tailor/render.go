package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Regenerate a PDF from resume text",
	RunE:  runRender,
}

var (
	renderIn    string
	renderOut   string
	renderTitle string
	renderHTML  bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "Path to the resume text (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (required)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "Resume", "Document title")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "Write the intermediate HTML instead of a PDF")

	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(renderIn)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	text := string(data)

	var output []byte
	if renderHTML {
		html, err := rendering.RenderHTML(renderTitle, text)
		if err != nil {
			return err
		}
		output = []byte(html)
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		renderer := rendering.NewPDFRenderer(newBrowserPool(cfg), cfg.Verbose)
		output, err = renderer.RenderPDF(ctx, renderTitle, text)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(renderOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(renderOut, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	kind := "PDF"
	if renderHTML {
		kind = "HTML"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes) to %s\n", kind, len(output), renderOut)
	return nil
}
