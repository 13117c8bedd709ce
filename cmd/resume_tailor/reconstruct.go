package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pdftext"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <file.pdf>",
	Short: "Print the section-structured text of a PDF resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runReconstruct,
}

var (
	reconstructAnalyze bool
	reconstructJSON    bool
)

func init() {
	reconstructCmd.Flags().BoolVarP(&reconstructAnalyze, "analyze", "a", false, "Print word and character counts after the text")
	reconstructCmd.Flags().BoolVar(&reconstructJSON, "json", false, "Print text, page count and statistics as JSON")
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	result, err := pdftext.ReconstructFile(args[0], verbose)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintReconstruction(result)
	}

	out := cmd.OutOrStdout()
	if reconstructJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(out, result.Text)
	if reconstructAnalyze {
		fmt.Fprintf(out, "\nPages: %d\nWords: %d\nCharacters: %d\n",
			result.Pages, result.Analysis.WordCount, result.Analysis.CharacterCount)
	}
	return nil
}
