package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/diff"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare composed schemas",
	}
	cmd.AddCommand(newDiffGraphQLCmd(opts))
	return cmd
}

func newDiffGraphQLCmd(opts *rootOptions) *cobra.Command {
	var (
		schemas    []string
		valSchemas []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "graphql",
		Short: "Structured diff between a schema and a validation schema",
		Long: `Graphql composes both schema sets and reports their differences as a
JSON array of change records. The command exits 1 when any change is
more than a pure addition, and 2 when the comparison itself fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			validation, err := composeSources(cmd.Context(), valSchemas)
			if err != nil {
				return err
			}

			sourcePath, cleanSource, err := writeSchemaTemp(source.Canonical)
			if err != nil {
				return err
			}
			defer cleanSource()
			validationPath, cleanValidation, err := writeSchemaTemp(validation.Canonical)
			if err != nil {
				return err
			}
			defer cleanValidation()

			inspector, err := diff.NewInspector(opts.cfg.InspectorPath)
			if err != nil {
				return err
			}
			changes, err := inspector.DiffChanges(cmd.Context(), sourcePath, validationPath)
			if err != nil {
				slog.Error("schema comparison failed", "error", err)
				return exitError{2}
			}

			data, err := diff.Marshal(changes)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				if err := atomicfile.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				slog.Info("diff written", "output", output, "changes", len(changes))
			}

			if diff.HasBreaking(changes) {
				return exitError{1}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringArrayVarP(&valSchemas, "val-schema", "v", nil,
		"validation schema file, directory, or URL to compare against (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write the JSON diff here instead of stdout")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("val-schema")
	return cmd
}
