// Package rdf materializes a composed schema as RDF triples using the SKOS
// and s2dm vocabularies. The graph model is deliberately small: IRI and
// literal terms, a deduplicating triple set with prefix bindings, and
// deterministic serializers for sorted N-Triples and Turtle.
package rdf

import (
	"sort"
	"strings"
)

// Term is a single node of a triple, either an IRI or a literal. Literals
// may carry a BCP 47 language tag.
type Term struct {
	Value     string
	IsLiteral bool
	Lang      string
}

// IRI returns an IRI term.
func IRI(value string) Term {
	return Term{Value: value}
}

// Literal returns a plain literal term.
func Literal(value string) Term {
	return Term{Value: value, IsLiteral: true}
}

// LangLiteral returns a language-tagged literal term.
func LangLiteral(value, lang string) Term {
	return Term{Value: value, IsLiteral: true, Lang: lang}
}

// NTriples renders the term in N-Triples syntax.
func (t Term) NTriples() string {
	if !t.IsLiteral {
		return "<" + t.Value + ">"
	}
	s := `"` + escapeLiteral(t.Value) + `"`
	if t.Lang != "" {
		s += "@" + t.Lang
	}
	return s
}

func escapeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) line() string {
	return t.Subject.NTriples() + " " + t.Predicate.NTriples() + " " + t.Object.NTriples() + " ."
}

// Graph is a set of triples with namespace prefix bindings. Adding the same
// statement twice is a no-op, matching RDF set semantics.
type Graph struct {
	prefixes map[string]string
	triples  []Triple
	seen     map[string]bool
}

// NewGraph returns an empty graph with no prefix bindings.
func NewGraph() *Graph {
	return &Graph{
		prefixes: make(map[string]string),
		seen:     make(map[string]bool),
	}
}

// Bind associates a prefix with a namespace IRI for Turtle output.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Add inserts a statement into the graph, ignoring exact duplicates.
func (g *Graph) Add(subject, predicate, object Term) {
	t := Triple{Subject: subject, Predicate: predicate, Object: object}
	key := t.line()
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.triples = append(g.triples, t)
}

// Len reports the number of distinct statements.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the statements in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// SortedNTriples serializes the graph as N-Triples with the lines sorted
// lexicographically, one statement per line with a trailing newline. An
// empty graph serializes to the empty string. The sorted form is stable
// across runs, which keeps the artifact diff-friendly under version control.
func (g *Graph) SortedNTriples() string {
	if len(g.triples) == 0 {
		return ""
	}
	lines := make([]string, 0, len(g.triples))
	for _, t := range g.triples {
		lines = append(lines, t.line())
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

// Turtle serializes the graph as Turtle: a sorted @prefix block followed by
// one block per subject, subjects sorted by IRI, predicates sorted with
// rdf:type first and rendered as "a", objects sorted and comma-joined.
func (g *Graph) Turtle() string {
	var b strings.Builder

	names := make([]string, 0, len(g.prefixes))
	for name := range g.prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("@prefix " + name + ": <" + g.prefixes[name] + "> .\n")
	}

	bySubject := make(map[string][]Triple)
	subjects := make([]string, 0)
	for _, t := range g.triples {
		key := t.Subject.Value
		if _, ok := bySubject[key]; !ok {
			subjects = append(subjects, key)
		}
		bySubject[key] = append(bySubject[key], t)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		b.WriteString("\n")
		b.WriteString(g.compact(IRI(subject)))
		g.writePredicates(&b, bySubject[subject])
	}
	return b.String()
}

func (g *Graph) writePredicates(b *strings.Builder, triples []Triple) {
	byPredicate := make(map[string][]string)
	for _, t := range triples {
		p := t.Predicate.Value
		byPredicate[p] = append(byPredicate[p], g.compact(t.Object))
	}

	predicates := make([]string, 0, len(byPredicate))
	for p := range byPredicate {
		predicates = append(predicates, p)
	}
	// rdf:type renders as "a" and leads its subject block.
	sort.Slice(predicates, func(i, j int) bool {
		pi, pj := predicates[i], predicates[j]
		if pi == rdfType {
			return pj != rdfType
		}
		if pj == rdfType {
			return false
		}
		return g.compact(IRI(pi)) < g.compact(IRI(pj))
	})

	for i, p := range predicates {
		if i > 0 {
			b.WriteString(" ;\n   ")
		}
		if p == rdfType {
			b.WriteString(" a ")
		} else {
			b.WriteString(" " + g.compact(IRI(p)) + " ")
		}
		objects := byPredicate[p]
		sort.Strings(objects)
		b.WriteString(strings.Join(objects, ", "))
	}
	b.WriteString(" .\n")
}

// compact renders a term for Turtle, shortening IRIs to prefix:local when a
// bound namespace matches and the local part is safe to write unquoted.
func (g *Graph) compact(t Term) string {
	if t.IsLiteral {
		return t.NTriples()
	}
	best, bestNS := "", ""
	for name, ns := range g.prefixes {
		if strings.HasPrefix(t.Value, ns) && len(ns) > len(bestNS) {
			best, bestNS = name, ns
		}
	}
	if bestNS != "" {
		local := t.Value[len(bestNS):]
		if safeLocalName(local) {
			return best + ":" + local
		}
	}
	return t.NTriples()
}

// safeLocalName reports whether a local name can appear in a prefixed Turtle
// name without escaping. Dots are permitted medially but not terminally.
func safeLocalName(local string) bool {
	if local == "" || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}
