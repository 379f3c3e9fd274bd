package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/config"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
	"github.com/mfkaptan-motius/s2dm/rdf"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate RDF artifacts from a composed schema",
	}
	cmd.AddCommand(newGenerateSchemaRDFCmd(), newGenerateSKOSSkeletonCmd(opts))
	return cmd
}

func newGenerateSchemaRDFCmd() *cobra.Command {
	var (
		schemas   []string
		output    string
		namespace string
		prefix    string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "schema-rdf",
		Short: "Materialize the schema as sorted N-Triples and Turtle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !validLanguageTag(language) {
				return fmt.Errorf("invalid BCP 47 language tag %q", language)
			}
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			g := rdf.Materialize(composed.Schema, namespace, prefix, language)
			if err := rdf.WriteArtifacts(g, output, "schema"); err != nil {
				return err
			}
			slog.Info("rdf artifacts written",
				"ntriples", filepath.Join(output, "schema.nt"),
				"turtle", filepath.Join(output, "schema.ttl"),
				"triples", g.Len())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"directory receiving schema.nt and schema.ttl")
	cmd.Flags().StringVar(&namespace, "namespace", "",
		"namespace URI for concept IRIs")
	cmd.Flags().StringVar(&prefix, "prefix", config.DefaultConceptPrefix,
		"Turtle prefix bound to the namespace")
	cmd.Flags().StringVar(&language, "language", "en",
		"BCP 47 language tag applied to labels")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("namespace")
	return cmd
}

func newGenerateSKOSSkeletonCmd(opts *rootOptions) *cobra.Command {
	var (
		schemas   []string
		output    string
		namespace string
		prefix    string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "skos-skeleton",
		Short: "Generate a SKOS concept scheme skeleton in Turtle",
		Long: `Skos-skeleton emits one skos:Concept per named concept in the composed
schema, labelled with its fully qualified name and linked to a concept
scheme derived from the namespace. SDL descriptions become
skos:definition literals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			namespace = opts.conceptNamespace(cmd, "namespace", namespace)
			prefix = opts.conceptPrefix(cmd, "prefix", prefix)
			if !validLanguageTag(language) {
				return fmt.Errorf("invalid BCP 47 language tag %q", language)
			}
			composed, err := composeSources(cmd.Context(), schemas)
			if err != nil {
				return err
			}
			g := rdf.Skeleton(composed.Schema, namespace, prefix, language)
			if err := atomicfile.WriteFile(output, []byte(g.Turtle()), 0o644); err != nil {
				return err
			}
			slog.Info("skos skeleton written", "output", output, "triples", g.Len())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&schemas, "schema", "s", nil,
		"GraphQL schema file, directory, or URL (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"output path for the Turtle document")
	cmd.Flags().StringVar(&namespace, "namespace", config.DefaultConceptNamespace,
		"namespace URI for concept IRIs")
	cmd.Flags().StringVar(&prefix, "prefix", config.DefaultConceptPrefix,
		"Turtle prefix bound to the namespace")
	cmd.Flags().StringVar(&language, "language", "en",
		"BCP 47 language tag applied to labels")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
