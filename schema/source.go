package schema

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/pkg/retry"
)

// SourceDocument is one SDL input: raw text plus the provenance label
// (file path or URL) recorded for every definition it contributes.
type SourceDocument struct {
	Label string
	Text  string
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// ResolveSources expands source arguments into loaded documents. Each
// argument is a .graphql file, a directory searched recursively for
// .graphql files in lexical order, or an http(s) URL. Arguments resolve
// concurrently but the result keeps argument order, so the composed
// schema does not depend on fetch timing.
func ResolveSources(ctx context.Context, args []string) ([]SourceDocument, error) {
	slots := make([][]SourceDocument, len(args))
	g, ctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			docs, err := resolveArg(ctx, arg)
			if err != nil {
				return err
			}
			slots[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sources []SourceDocument
	for _, docs := range slots {
		sources = append(sources, docs...)
	}
	if len(sources) == 0 {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: no .graphql sources found", errors.ErrSourceUnreadable),
			"Sources", "Resolve", "collect inputs")
	}
	return sources, nil
}

func resolveArg(ctx context.Context, arg string) ([]SourceDocument, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		doc, err := fetchURL(ctx, arg)
		if err != nil {
			return nil, err
		}
		return []SourceDocument{doc}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrSourceUnreadable, err),
			"Sources", "Resolve", "stat "+arg)
	}

	if info.IsDir() {
		files, err := graphqlFiles(arg)
		if err != nil {
			return nil, err
		}
		docs := make([]SourceDocument, 0, len(files))
		for _, path := range files {
			doc, err := readFile(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	}

	doc, err := readFile(arg)
	if err != nil {
		return nil, err
	}
	return []SourceDocument{doc}, nil
}

// graphqlFiles collects .graphql files under dir in lexical order so the
// same directory always yields the same source sequence.
func graphqlFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".graphql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrSourceUnreadable, err),
			"Sources", "Resolve", "walk "+dir)
	}
	sort.Strings(files)
	return files, nil
}

func readFile(path string) (SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceDocument{}, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrSourceUnreadable, err),
			"Sources", "Resolve", "read "+path)
	}
	return SourceDocument{Label: filepath.ToSlash(path), Text: string(data)}, nil
}

// fetchURL retrieves a schema document, retrying transient failures.
// Client errors fail immediately: repeating a bad URL cannot fix it.
func fetchURL(ctx context.Context, url string) (SourceDocument, error) {
	text, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", retry.NonRetryable(err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return "", err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", retry.NonRetryable(fmt.Errorf("unexpected status %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %s", resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		return SourceDocument{}, errors.WrapTransient(
			fmt.Errorf("%w: %v", errors.ErrSourceUnreadable, err),
			"Sources", "Resolve", "fetch "+url)
	}
	return SourceDocument{Label: url, Text: text}, nil
}
