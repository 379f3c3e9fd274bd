package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/naming"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
)

func newComposeCmd() *cobra.Command {
	var (
		schemas        []string
		output         string
		rootType       string
		selectionQuery string
		namingConfig   string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose SDL sources into one schema file",
		Long: `Compose merges the given schema files, directories, and URLs into a
single validated schema and writes it in canonical form. The result can
be scoped to one root type or filtered down to the fields a selection
query names.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			if rootType != "" {
				if composed, err = composed.ScopeToRoot(rootType); err != nil {
					return err
				}
			}
			if selectionQuery != "" {
				query, err := os.ReadFile(selectionQuery)
				if err != nil {
					return fmt.Errorf("read selection query: %w", err)
				}
				if composed, err = composed.ScopeToSelection(string(query)); err != nil {
					return err
				}
			}
			if namingConfig != "" {
				conventions, err := naming.LoadConventions(namingConfig)
				if err != nil {
					return err
				}
				checker := naming.NewChecker(composed.Schema, conventions)
				for _, v := range checker.ConventionViolations() {
					slog.Warn("naming convention violation", "violation", v)
				}
			}
			if err := atomicfile.WriteFile(output, []byte(composed.Canonical), 0o644); err != nil {
				return err
			}
			switch {
			case selectionQuery != "":
				slog.Info("composed and filtered schema by selection query", "output", output)
			case rootType != "":
				slog.Info("composed schema scoped to root type", "root_type", rootType, "output", output)
			default:
				slog.Info("composed schema written", "output", output)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"output path for the composed schema")
	cmd.Flags().StringVarP(&rootType, "root-type", "r", "",
		"scope the composed schema to this root type")
	cmd.Flags().StringVarP(&selectionQuery, "selection-query", "q", "",
		"GraphQL query file selecting the fields to keep")
	cmd.Flags().StringVar(&namingConfig, "naming-config", "",
		"YAML naming conventions to check; violations are logged as warnings")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
