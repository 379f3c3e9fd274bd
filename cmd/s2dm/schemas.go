package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfkaptan-motius/s2dm/schema"
)

// composeSources resolves schema arguments (files, directories, URLs) and
// composes them into one validated schema.
func composeSources(ctx context.Context, specs []string) (*schema.Composed, error) {
	sources, err := schema.ResolveSources(ctx, specs)
	if err != nil {
		return nil, err
	}
	return schema.Compose(sources)
}

// writeSchemaTemp writes canonical SDL to a temp file for tools that only
// read schemas from disk. The cleanup func removes the file.
func writeSchemaTemp(canonical string) (string, func(), error) {
	f, err := os.CreateTemp("", "s2dm-schema-*.graphql")
	if err != nil {
		return "", nil, fmt.Errorf("create temp schema: %w", err)
	}
	if _, err := f.WriteString(canonical); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("write temp schema: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("close temp schema: %w", err)
	}
	return f.Name(), func() { _ = os.Remove(f.Name()) }, nil
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return data, nil
}

// printJSON writes v as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := marshalIndent(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
