package concept

import "strings"

// URI builds the compact concept URI for a fully qualified concept name.
//
// Input format: a concept FQN (e.g., "Vehicle.averageSpeed")
// Output format: "<prefix>:<FQN>" (e.g., "ns:Vehicle.averageSpeed")
//
// The URI is the stable, non-versioned identity of a concept, independent
// of the variant registry. Returns empty string for empty input.
func URI(prefix, fqn string) string {
	prefix = strings.TrimSpace(prefix)
	fqn = strings.TrimSpace(fqn)
	if prefix == "" || fqn == "" {
		return ""
	}
	return prefix + ":" + fqn
}

// Ref is a JSON-LD node reference.
type Ref struct {
	ID string `json:"@id"`
}

// URIDocument is the JSON-LD rendering of a concept URI set: a context
// binding the prefix to its namespace and one node reference per concept.
type URIDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []Ref             `json:"@graph"`
}

// URIs builds the JSON-LD document for concepts, in extraction order.
func URIs(concepts []Concept, namespace, prefix string) *URIDocument {
	doc := &URIDocument{
		Context: map[string]string{prefix: namespace},
		Graph:   make([]Ref, 0, len(concepts)),
	}
	for _, c := range concepts {
		doc.Graph = append(doc.Graph, Ref{ID: URI(prefix, c.Name)})
	}
	return doc
}
