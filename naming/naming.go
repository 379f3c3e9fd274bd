// Package naming loads naming-convention configuration and enforces the
// intended use of the schema's constraint directives. Conventions are
// per-kind regular expressions supplied as YAML; the checker combines them
// with the structural instance tag and bound rules.
package naming

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const componentNaming = "Naming"

// Convention kinds accepted in the conventions block.
var conventionKinds = map[string]bool{
	"object":     true,
	"interface":  true,
	"input":      true,
	"union":      true,
	"enum":       true,
	"enum_value": true,
	"field":      true,
	"scalar":     true,
}

type configFile struct {
	Conventions map[string]string `yaml:"conventions"`
}

// Conventions holds the compiled per-kind naming patterns. A nil
// Conventions disables convention checking entirely; a kind without a
// bound pattern is unconstrained.
type Conventions struct {
	patterns map[string]*regexp.Regexp
	sources  map[string]string
}

// LoadConventions reads and parses a YAML naming configuration file.
func LoadConventions(path string) (*Conventions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, componentNaming, "LoadConventions", "read naming config")
	}
	conventions, err := ParseConventions(data)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%s: %w", path, err),
			componentNaming, "LoadConventions", "parse naming config")
	}
	return conventions, nil
}

// ParseConventions decodes a YAML conventions document and compiles its
// patterns. Unknown kinds and invalid expressions are rejected.
func ParseConventions(data []byte) (*Conventions, error) {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err),
			componentNaming, "ParseConventions", "decode naming config")
	}

	conventions := &Conventions{
		patterns: make(map[string]*regexp.Regexp, len(cfg.Conventions)),
		sources:  make(map[string]string, len(cfg.Conventions)),
	}
	for kind, pattern := range cfg.Conventions {
		if !conventionKinds[kind] {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: unknown convention kind %q", errors.ErrInvalidConfig, kind),
				componentNaming, "ParseConventions", "validate convention kinds")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: convention %q: %v", errors.ErrInvalidConfig, kind, err),
				componentNaming, "ParseConventions", "compile convention pattern")
		}
		conventions.patterns[kind] = re
		conventions.sources[kind] = pattern
	}
	return conventions, nil
}

// Matches reports whether name satisfies the convention bound to kind.
// Unbound kinds always match.
func (c *Conventions) Matches(kind, name string) bool {
	if c == nil {
		return true
	}
	re, ok := c.patterns[kind]
	if !ok {
		return true
	}
	return re.MatchString(name)
}

// Pattern returns the source text of the convention bound to kind.
func (c *Conventions) Pattern(kind string) (string, bool) {
	if c == nil {
		return "", false
	}
	src, ok := c.sources[kind]
	return src, ok
}
