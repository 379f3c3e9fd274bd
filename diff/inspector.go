package diff

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const componentInspector = "Inspector"

const inspectorBinary = "graphql-inspector"

// Inspector runs the external graphql-inspector CLI. The binary is resolved
// once at construction: a local node_modules installation wins over a global
// one on PATH.
type Inspector struct {
	bin string
}

// NewInspector resolves the CLI binary. nodeModules may name a node_modules
// directory holding a local installation; when empty, directories are
// searched upward from the working directory the way npm resolves local
// binaries, before falling back to PATH.
func NewInspector(nodeModules string) (*Inspector, error) {
	bin, err := resolveInspectorBin(nodeModules)
	if err != nil {
		return nil, err
	}
	return &Inspector{bin: bin}, nil
}

// Bin returns the resolved CLI path.
func (i *Inspector) Bin() string {
	return i.bin
}

func resolveInspectorBin(nodeModules string) (string, error) {
	if nm := locateNodeModules(nodeModules); nm != "" {
		local := filepath.Join(nm, ".bin", inspectorBinary)
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}
	if path, err := exec.LookPath(inspectorBinary); err == nil {
		return path, nil
	}
	return "", errors.WrapFatal(
		fmt.Errorf("%w: run 'npm install' in the project root to install @graphql-inspector/cli, "+
			"or install it globally with 'npm install -g @graphql-inspector/cli'",
			errors.ErrInspectorNotFound),
		componentInspector, "resolve", "locate graphql-inspector CLI")
}

func locateNodeModules(explicit string) string {
	if explicit != "" {
		if info, err := os.Stat(explicit); err == nil && info.IsDir() {
			return explicit
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		nm := filepath.Join(dir, "node_modules")
		if info, err := os.Stat(nm); err == nil && info.IsDir() {
			return nm
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Result captures one CLI invocation: the command line, its exit code, and
// the combined stdout and stderr text.
type Result struct {
	Command  string
	ExitCode int
	Output   string
}

// Diff compares two schema files, previous first. Exit code 1 means the
// inspector found breaking changes and is not an error here; callers read
// the verdict off the Result.
func (i *Inspector) Diff(ctx context.Context, previousPath, currentPath string) (*Result, error) {
	return i.run(ctx, "diff", previousPath, currentPath)
}

// DiffChanges runs a diff and normalizes the report into Change records.
// Exit code 1 still carries a valid report; 2 or higher means the inspector
// itself failed.
func (i *Inspector) DiffChanges(ctx context.Context, previousPath, currentPath string) ([]Change, error) {
	res, err := i.Diff(ctx, previousPath, currentPath)
	if err != nil {
		return nil, err
	}
	if res.ExitCode > 1 {
		return nil, errors.WrapFatal(
			fmt.Errorf("graphql-inspector exited %d: %s", res.ExitCode, res.Output),
			componentInspector, "DiffChanges", "diff schemas")
	}
	return ParseOutput(res.Output), nil
}

func (i *Inspector) run(ctx context.Context, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, i.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return nil, errors.WrapTransient(err, componentInspector, "run", "invoke graphql-inspector")
		}
		exitCode = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		return nil, errors.WrapTransient(ctx.Err(), componentInspector, "run", "invoke graphql-inspector")
	}

	return &Result{
		Command:  i.bin + " " + strings.Join(args, " "),
		ExitCode: exitCode,
		Output:   mergeOutput(stdout.String(), stderr.String()),
	}, nil
}

func mergeOutput(stdout, stderr string) string {
	stdout = strings.TrimSpace(stdout)
	stderr = strings.TrimSpace(stderr)
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}

// Report markers used by the inspector CLI for individual changes.
var markerCriticality = []struct {
	marker string
	crit   Criticality
}{
	{"✖", Breaking},
	{"⚠", Dangerous},
	{"✔", NonBreaking},
}

var quotedToken = regexp.MustCompile(`'([^']+)'`)

// ParseOutput normalizes the human-readable diff report into Change records.
// Each change line carries a marker symbol and quotes the schema coordinate
// it applies to. Marker lines without a quoted coordinate are report
// summaries and are skipped.
func ParseOutput(output string) []Change {
	var changes []Change
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		for _, mc := range markerCriticality {
			idx := strings.Index(line, mc.marker)
			if idx < 0 {
				continue
			}
			message := strings.TrimSpace(line[idx+len(mc.marker):])
			path := changePath(message)
			if path != "" {
				changes = append(changes, Change{
					Path:        path,
					Criticality: mc.crit,
					Description: message,
				})
			}
			break
		}
	}
	return changes
}

// changePath derives the dotted concept path from a change message. The
// subject is quoted either as a full coordinate ('Vehicle.averageSpeed') or
// as a bare member name followed by its container ('id' ... 'Vehicle').
func changePath(message string) string {
	matches := quotedToken.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return ""
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	for _, n := range names {
		if strings.Contains(n, ".") {
			return n
		}
	}
	if len(names) >= 2 {
		return names[len(names)-1] + "." + names[0]
	}
	return names[0]
}

// Bump is the semver component a schema change calls for.
type Bump string

const (
	BumpNone  Bump = "none"
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// ClassifyBump maps a diff invocation onto the version bump it calls for.
// Exit code 0 with additions only is a patch, with dangerous changes a
// minor; a nonzero exit reporting breaking changes is a major. An
// unrecognizable report returns BumpNone with an error so callers can warn
// without aborting a pipeline.
func ClassifyBump(res *Result) (Bump, error) {
	if res.ExitCode == 0 {
		switch {
		case strings.Contains(res.Output, "No changes detected"):
			return BumpNone, nil
		case strings.Contains(res.Output, "No breaking changes detected"):
			if strings.Contains(res.Output, "⚠") {
				return BumpMinor, nil
			}
			return BumpPatch, nil
		default:
			return BumpNone, errors.WrapInvalid(
				fmt.Errorf("inconclusive diff report"),
				componentInspector, "ClassifyBump", "interpret diff output")
		}
	}
	if strings.Contains(res.Output, "Detected") && strings.Contains(res.Output, "breaking changes") {
		return BumpMajor, nil
	}
	return BumpNone, errors.WrapInvalid(
		fmt.Errorf("diff exited %d without a recognizable report", res.ExitCode),
		componentInspector, "ClassifyBump", "interpret diff output")
}
