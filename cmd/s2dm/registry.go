package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/concept"
	"github.com/mfkaptan-motius/s2dm/config"
	"github.com/mfkaptan-motius/s2dm/diff"
	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/history"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
	"github.com/mfkaptan-motius/s2dm/registry"
)

func newRegistryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Concept identity and variant registry operations",
	}
	cmd.AddCommand(
		newRegistryConceptURICmd(opts),
		newRegistryIDCmd(),
		newRegistryInitCmd(opts),
		newRegistryUpdateCmd(opts),
	)
	return cmd
}

func newRegistryConceptURICmd(opts *rootOptions) *cobra.Command {
	var (
		schemas   []string
		output    string
		namespace string
		prefix    string
	)

	cmd := &cobra.Command{
		Use:   "concept-uri",
		Short: "Derive a concept URI for every named concept in the schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			namespace = opts.conceptNamespace(cmd, "namespace", namespace)
			prefix = opts.conceptPrefix(cmd, "prefix", prefix)

			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			doc := concept.URIs(concept.Extract(composed.Schema), namespace, prefix)
			if output == "" {
				return printJSON(cmd, doc)
			}
			data, err := marshalIndent(doc)
			if err != nil {
				return err
			}
			if err := atomicfile.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			slog.Info("concept uris written", "output", output, "concepts", len(doc.Graph))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write the JSON-LD document here instead of stdout")
	cmd.Flags().StringVar(&namespace, "namespace", config.DefaultConceptNamespace,
		"namespace URI bound to the concept prefix")
	cmd.Flags().StringVar(&prefix, "prefix", config.DefaultConceptPrefix,
		"CURIE prefix used in concept URIs")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func newRegistryIDCmd() *cobra.Command {
	var (
		schemas     []string
		output      string
		previousIDs string
		diffFile    string
		versionTag  string
	)

	cmd := &cobra.Command{
		Use:   "id",
		Short: "Compute a variant ID for every concept",
		Long: `Id assigns each concept a variant ID of the form <FQN>/v<major>.<minor>.
On a first run every concept starts at v1.0. With --previous-ids the
previous IDs are carried forward and only concepts the diff file touches
get a major bump.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if previousIDs != "" && diffFile == "" {
				return fmt.Errorf("%w: --previous-ids was given without --diff-file", errors.ErrDiffRequired)
			}

			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			concepts := concept.Names(concept.Extract(composed.Schema))

			var previous *registry.Registry
			if previousIDs != "" {
				if previous, err = registry.Load(previousIDs); err != nil {
					return err
				}
			}
			var changes []diff.Change
			if diffFile != "" {
				if changes, err = diff.ParseFile(diffFile); err != nil {
					return err
				}
			}

			reg, err := registry.Compute(concepts, previous, changes, versionTag)
			if err != nil {
				return err
			}
			if output == "" {
				return printJSON(cmd, reg)
			}
			path := applyVersionTagSuffix(output, versionTag)
			if err := reg.Write(path); err != nil {
				return err
			}
			slog.Info("variant ids written", "output", path, "concepts", len(reg.Concepts))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write variant IDs here (version tag appended) instead of stdout")
	cmd.Flags().StringVar(&previousIDs, "previous-ids", "",
		"variant IDs of the previous release")
	cmd.Flags().StringVar(&diffFile, "diff-file", "",
		"structured diff against the previous release, as written by diff graphql")
	cmd.Flags().StringVar(&versionTag, "version-tag", "",
		"version tag recorded on every new or bumped entry")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("version-tag")
	return cmd
}

func newRegistryInitCmd(opts *rootOptions) *cobra.Command {
	var (
		schemas    []string
		output     string
		namespace  string
		prefix     string
		versionTag string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize spec history and variant IDs for a first release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			namespace = opts.conceptNamespace(cmd, "concept-namespace", namespace)
			prefix = opts.conceptPrefix(cmd, "concept-prefix", prefix)

			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			concepts := concept.Names(concept.Extract(composed.Schema))
			reg, err := registry.Compute(concepts, nil, nil, versionTag)
			if err != nil {
				return err
			}

			historyPath := applyVersionTagSuffix(output, versionTag)
			idsPath := deriveVariantIDsPath(filepath.Dir(historyPath), versionTag)
			if err := reg.Write(idsPath); err != nil {
				return err
			}
			if _, err := history.Init(historyPath, reg, namespace, prefix); err != nil {
				return err
			}
			slog.Info("spec history initialized",
				"history", historyPath, "variant_ids", idsPath, "concepts", len(reg.Concepts))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"spec history output path (version tag appended)")
	cmd.Flags().StringVar(&namespace, "concept-namespace", config.DefaultConceptNamespace,
		"namespace URI bound to the concept prefix")
	cmd.Flags().StringVar(&prefix, "concept-prefix", config.DefaultConceptPrefix,
		"CURIE prefix used in concept URIs")
	cmd.Flags().StringVar(&versionTag, "version-tag", "",
		"version tag recorded on every entry")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("version-tag")
	return cmd
}

func newRegistryUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		schemas     []string
		specHistory string
		previousIDs string
		diffFile    string
		output      string
		namespace   string
		prefix      string
		versionTag  string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update spec history and variant IDs for a new release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			namespace = opts.conceptNamespace(cmd, "concept-namespace", namespace)
			prefix = opts.conceptPrefix(cmd, "concept-prefix", prefix)

			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			concepts := concept.Names(concept.Extract(composed.Schema))

			previous, err := registry.Load(previousIDs)
			if err != nil {
				return err
			}
			var changes []diff.Change
			if diffFile != "" {
				if changes, err = diff.ParseFile(diffFile); err != nil {
					return err
				}
			}

			reg, err := registry.Compute(concepts, previous, changes, versionTag)
			if err != nil {
				return err
			}

			outputPath := applyVersionTagSuffix(output, versionTag)
			idsPath := deriveVariantIDsPath(filepath.Dir(outputPath), versionTag)
			if err := reg.Write(idsPath); err != nil {
				return err
			}
			if _, err := history.Update(specHistory, outputPath, reg, namespace, prefix); err != nil {
				return err
			}
			slog.Info("spec history updated",
				"history", outputPath, "variant_ids", idsPath, "concepts", len(reg.Concepts))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVar(&specHistory, "spec-history", "",
		"spec history of the previous release")
	cmd.Flags().StringVar(&previousIDs, "previous-ids", "",
		"variant IDs of the previous release")
	cmd.Flags().StringVar(&diffFile, "diff-file", "",
		"structured diff against the previous release, as written by diff graphql")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"spec history output path (version tag appended)")
	cmd.Flags().StringVar(&namespace, "concept-namespace", config.DefaultConceptNamespace,
		"namespace URI bound to the concept prefix")
	cmd.Flags().StringVar(&prefix, "concept-prefix", config.DefaultConceptPrefix,
		"CURIE prefix used in concept URIs")
	cmd.Flags().StringVar(&versionTag, "version-tag", "",
		"version tag recorded on every new or bumped entry")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("spec-history")
	_ = cmd.MarkFlagRequired("previous-ids")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("version-tag")
	return cmd
}
