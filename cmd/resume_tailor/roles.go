package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/types"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the role catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeRoles(cmd.OutOrStdout(), rolesJSON)
	},
}

var rolesJSON bool

func init() {
	rolesCmd.Flags().BoolVar(&rolesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(rolesCmd)
}

func writeRoles(w io.Writer, asJSON bool) error {
	roles := types.TechRoles()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(roles)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION")
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, r.Description)
	}
	return tw.Flush()
}
