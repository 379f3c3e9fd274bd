package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/diff"
	"github.com/mfkaptan-motius/s2dm/naming"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Release and constraint checks",
	}
	cmd.AddCommand(newCheckVersionBumpCmd(opts), newCheckConstraintsCmd())
	return cmd
}

func newCheckVersionBumpCmd(opts *rootOptions) *cobra.Command {
	var (
		schemas    []string
		previous   []string
		outputType bool
	)

	cmd := &cobra.Command{
		Use:   "version-bump",
		Short: "Classify the version bump a schema change calls for",
		Long: `Version-bump composes the previous and current schema sets, compares
them, and reports whether the change calls for a major, minor, or patch
bump. The command always exits 0: it informs a release pipeline rather
than gating it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			previousComposed, err := composeSources(cmd.Context(), previous)
			if err != nil {
				return err
			}
			currentComposed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}

			previousPath, cleanPrevious, err := writeSchemaTemp(previousComposed.Canonical)
			if err != nil {
				return err
			}
			defer cleanPrevious()
			currentPath, cleanCurrent, err := writeSchemaTemp(currentComposed.Canonical)
			if err != nil {
				return err
			}
			defer cleanCurrent()

			inspector, err := diff.NewInspector(opts.cfg.InspectorPath)
			if err != nil {
				return err
			}
			res, err := inspector.Diff(cmd.Context(), previousPath, currentPath)
			if err != nil {
				return err
			}

			bump, classifyErr := diff.ClassifyBump(res)
			switch {
			case classifyErr != nil:
				slog.Error("inconclusive schema comparison", "error", classifyErr)
			case bump == diff.BumpMajor:
				slog.Error("breaking changes detected, major version bump needed")
			case bump == diff.BumpMinor:
				slog.Warn("minor version bump needed")
			case bump == diff.BumpPatch:
				slog.Info("patch version bump needed")
			default:
				slog.Info("no version bump needed")
			}

			if outputType {
				fmt.Fprintln(cmd.OutOrStdout(), string(bump))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"current GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringArrayVarP(&previous, "previous", "p", nil,
		"previous GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().BoolVar(&outputType, "output-type", false,
		"print the bump type (major, minor, patch, none) on stdout")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("previous")
	return cmd
}

func newCheckConstraintsCmd() *cobra.Command {
	var (
		schemas      []string
		namingConfig string
	)

	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Check instance tag, bound, and naming constraints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			var conventions *naming.Conventions
			if namingConfig != "" {
				if conventions, err = naming.LoadConventions(namingConfig); err != nil {
					return err
				}
			}

			violations := naming.NewChecker(composed.Schema, conventions).Run()
			out := cmd.OutOrStdout()
			if len(violations) == 0 {
				fmt.Fprintln(out, "All constraints passed!")
				return nil
			}
			fmt.Fprintln(out, "Constraint Violations")
			for _, v := range violations {
				fmt.Fprintf(out, "- %s\n", v)
			}
			return exitError{1}
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVar(&namingConfig, "naming-config", "",
		"YAML naming conventions to enforce alongside the structural rules")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
