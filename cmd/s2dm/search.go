package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the composed schema",
	}
	cmd.AddCommand(newSearchGraphQLCmd())
	return cmd
}

func newSearchGraphQLCmd() *cobra.Command {
	var (
		schemas         []string
		term            string
		caseInsensitive bool
		exact           bool
	)

	cmd := &cobra.Command{
		Use:   "graphql",
		Short: "Search type and field names in the composed schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			matches := composed.Search(term, !caseInsensitive, exact)

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No matches found for '%s'.\n", term)
				return nil
			}
			for _, m := range matches {
				if m.NameMatched {
					fmt.Fprintln(out, m.Type)
					for _, f := range m.Fields {
						fmt.Fprintf(out, "  - %s\n", f)
					}
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", m.Type, formatFieldList(m.Fields))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&term, "type", "t", "",
		"type or field name to search for")
	cmd.Flags().BoolVarP(&caseInsensitive, "case-insensitive", "i", false,
		"match without regard to case")
	cmd.Flags().BoolVar(&exact, "exact", false,
		"match whole names instead of substrings")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// formatFieldList renders matched field names as a quoted list, e.g.
// ['averageSpeed', 'id'].
func formatFieldList(fields []string) string {
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, "'"+f+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the composed schema",
	}
	cmd.AddCommand(newStatsGraphQLCmd())
	return cmd
}

func newStatsGraphQLCmd() *cobra.Command {
	var schemas []string

	cmd := &cobra.Command{
		Use:   "graphql",
		Short: "Print definition and directive counts for the composed schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			return printJSON(cmd, composed.Stats())
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
