package schema

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/mfkaptan-motius/s2dm/errors"
)

// ScopeToRoot narrows the schema to the named root type and everything
// transitively reachable from it, wrapped in a synthetic Query root so the
// result stays loadable. Directive declarations no longer used by any
// remaining element are dropped; declarations still referenced never are.
func (c *Composed) ScopeToRoot(rootType string) (*Composed, error) {
	if c.Doc.Definitions.ForName(rootType) == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("Root type '%s' not found in schema: %w", rootType, errors.ErrRootTypeNotFound),
			componentComposer, "ScopeToRoot", "resolve root type")
	}

	keep, used := c.closure(rootType)

	nd := &ast.SchemaDocument{}
	for _, dd := range c.Doc.Directives {
		if used[dd.Name] {
			nd.Directives = append(nd.Directives, dd)
		}
	}

	prov := make(map[string]string)
	for _, def := range c.Doc.Definitions {
		if keep[def.Name] {
			nd.Definitions = append(nd.Definitions, def)
			if label, ok := c.Provenance[def.Name]; ok {
				prov[def.Name] = label
			}
		}
	}
	for _, ext := range c.Doc.Extensions {
		if keep[ext.Name] {
			nd.Extensions = append(nd.Extensions, ext)
		}
	}

	if !keep["Query"] {
		nd.Definitions = append(nd.Definitions, syntheticQuery(rootType))
	}

	return finalize(nd, prov)
}

// closure walks the reachability graph from root: field types, argument
// types, interfaces, union members, and the argument types of every
// directive declaration still in use.
func (c *Composed) closure(root string) (keep map[string]bool, used map[string]bool) {
	decls := make(map[string]*ast.DirectiveDefinition, len(c.Doc.Directives))
	for _, dd := range c.Doc.Directives {
		decls[dd.Name] = dd
	}

	keep = make(map[string]bool)
	used = make(map[string]bool)
	var queue []string

	addType := func(name string) {
		if name == "" || keep[name] {
			return
		}
		if c.Doc.Definitions.ForName(name) == nil {
			return // built-in scalar
		}
		keep[name] = true
		queue = append(queue, name)
	}

	var addTypeRef func(t *ast.Type)
	addTypeRef = func(t *ast.Type) {
		if t == nil {
			return
		}
		if t.NamedType != "" {
			addType(t.NamedType)
			return
		}
		addTypeRef(t.Elem)
	}

	addDirectives := func(dl ast.DirectiveList) {
		for _, d := range dl {
			if used[d.Name] {
				continue
			}
			decl, ok := decls[d.Name]
			if !ok {
				continue
			}
			used[d.Name] = true
			for _, arg := range decl.Arguments {
				addTypeRef(arg.Type)
			}
		}
	}

	walkDef := func(def *ast.Definition) {
		addDirectives(def.Directives)
		for _, f := range def.Fields {
			addTypeRef(f.Type)
			addDirectives(f.Directives)
			for _, a := range f.Arguments {
				addTypeRef(a.Type)
				addDirectives(a.Directives)
			}
		}
		for _, in := range def.Interfaces {
			addType(in)
		}
		for _, m := range def.Types {
			addType(m)
		}
		for _, v := range def.EnumValues {
			addDirectives(v.Directives)
		}
	}

	addType(root)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if def := c.Doc.Definitions.ForName(name); def != nil {
			walkDef(def)
		}
		for _, ext := range c.Doc.Extensions {
			if ext.Name == name {
				walkDef(ext)
			}
		}
	}
	return keep, used
}

func syntheticQuery(rootType string) *ast.Definition {
	return &ast.Definition{
		Kind: ast.Object,
		Name: "Query",
		Fields: ast.FieldList{{
			Name: lowerFirst(rootType),
			Type: ast.NamedType(rootType, nil),
		}},
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ScopeToSelection narrows the schema to the types and fields reachable from
// a selection query. Types reached without a sub-selection are kept whole;
// object and interface types reached with one keep only the selected fields.
// Unused directive declarations are pruned the same way as root scoping.
func (c *Composed) ScopeToSelection(queryText string) (*Composed, error) {
	qd, err := parser.ParseQuery(&ast.Source{Name: "selection.graphql", Input: queryText})
	if err != nil {
		return nil, errors.WrapInvalid(err, componentComposer, "ScopeToSelection", "parse selection query")
	}

	w := &selectionWalk{
		composed: c,
		doc:      qd,
		fields:   make(map[string]map[string]bool),
		whole:    make(map[string]bool),
		visited:  make(map[string]bool),
	}

	for _, op := range qd.Operations {
		root := w.operationRoot(op.Operation)
		if root == nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: schema has no %s root", errors.ErrInvalidSchema, op.Operation),
				componentComposer, "ScopeToSelection", "resolve operation root")
		}
		if w.fields[root.Name] == nil {
			w.fields[root.Name] = make(map[string]bool)
		}
		if err := w.walkSelectionSet(root, op.SelectionSet); err != nil {
			return nil, err
		}
	}

	return c.assembleSelection(w)
}

type selectionWalk struct {
	composed *Composed
	doc      *ast.QueryDocument
	fields   map[string]map[string]bool // type name -> selected field names
	whole    map[string]bool            // type names kept in full
	visited  map[string]bool            // fragment names already expanded
}

func (w *selectionWalk) operationRoot(op ast.Operation) *ast.Definition {
	switch op {
	case ast.Mutation:
		return w.composed.Schema.Mutation
	case ast.Subscription:
		return w.composed.Schema.Subscription
	default:
		return w.composed.Schema.Query
	}
}

func (w *selectionWalk) markField(typeName, fieldName string) {
	if w.fields[typeName] == nil {
		w.fields[typeName] = make(map[string]bool)
	}
	w.fields[typeName][fieldName] = true
}

func (w *selectionWalk) walkSelectionSet(parent *ast.Definition, set ast.SelectionSet) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if strings.HasPrefix(s.Name, "__") {
				continue
			}
			fd := parent.Fields.ForName(s.Name)
			if fd == nil {
				return errors.WrapInvalid(
					fmt.Errorf("%w: field %q not found on type %s",
						errors.ErrInvalidSchema, s.Name, parent.Name),
					componentComposer, "ScopeToSelection", "resolve selection")
			}
			w.markField(parent.Name, s.Name)

			td := w.composed.Schema.Types[baseTypeName(fd.Type)]
			if td == nil || td.BuiltIn {
				continue
			}
			if len(s.SelectionSet) == 0 {
				w.whole[td.Name] = true
				continue
			}
			switch td.Kind {
			case ast.Object, ast.Interface:
				if w.fields[td.Name] == nil {
					w.fields[td.Name] = make(map[string]bool)
				}
				if err := w.walkSelectionSet(td, s.SelectionSet); err != nil {
					return err
				}
			case ast.Union:
				w.whole[td.Name] = true
				if err := w.walkSelectionSet(td, s.SelectionSet); err != nil {
					return err
				}
			default:
				w.whole[td.Name] = true
			}

		case *ast.InlineFragment:
			target := parent
			if s.TypeCondition != "" {
				td := w.composed.Schema.Types[s.TypeCondition]
				if td == nil {
					return errors.WrapInvalid(
						fmt.Errorf("%w: unknown type condition %q", errors.ErrInvalidSchema, s.TypeCondition),
						componentComposer, "ScopeToSelection", "resolve fragment")
				}
				target = td
				if w.fields[td.Name] == nil && (td.Kind == ast.Object || td.Kind == ast.Interface) {
					w.fields[td.Name] = make(map[string]bool)
				}
			}
			if err := w.walkSelectionSet(target, s.SelectionSet); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			if w.visited[s.Name] {
				continue
			}
			w.visited[s.Name] = true
			frag := w.doc.Fragments.ForName(s.Name)
			if frag == nil {
				return errors.WrapInvalid(
					fmt.Errorf("%w: unknown fragment %q", errors.ErrInvalidSchema, s.Name),
					componentComposer, "ScopeToSelection", "resolve fragment")
			}
			td := w.composed.Schema.Types[frag.TypeCondition]
			if td == nil {
				return errors.WrapInvalid(
					fmt.Errorf("%w: unknown type condition %q", errors.ErrInvalidSchema, frag.TypeCondition),
					componentComposer, "ScopeToSelection", "resolve fragment")
			}
			if w.fields[td.Name] == nil && (td.Kind == ast.Object || td.Kind == ast.Interface) {
				w.fields[td.Name] = make(map[string]bool)
			}
			if err := w.walkSelectionSet(td, frag.SelectionSet); err != nil {
				return err
			}
		}
	}
	return nil
}

// assembleSelection turns the walk's marks into a filtered document. Whole
// wins over filtered for a type reached both ways.
func (c *Composed) assembleSelection(w *selectionWalk) (*Composed, error) {
	keepWhole := make(map[string]bool)
	var addWhole func(name string)
	addWhole = func(name string) {
		if name == "" || keepWhole[name] {
			return
		}
		def := c.Doc.Definitions.ForName(name)
		if def == nil {
			return
		}
		keepWhole[name] = true
		for _, m := range def.Types {
			addWhole(m)
		}
		for _, in := range def.Interfaces {
			addWhole(in)
		}
		for _, f := range def.Fields {
			addWhole(baseTypeName(f.Type))
			for _, a := range f.Arguments {
				addWhole(baseTypeName(a.Type))
			}
		}
	}

	for name := range w.whole {
		addWhole(name)
	}

	// argument types of selected fields stay whole
	for typeName, fieldSet := range w.fields {
		def := c.Doc.Definitions.ForName(typeName)
		if def == nil {
			continue
		}
		for _, f := range def.Fields {
			if !fieldSet[f.Name] {
				continue
			}
			for _, a := range f.Arguments {
				addWhole(baseTypeName(a.Type))
			}
		}
	}

	// survivors: whole types, plus filtered types with at least one field
	survivors := make(map[string]bool, len(keepWhole))
	for name := range keepWhole {
		survivors[name] = true
	}
	for name, fieldSet := range w.fields {
		if !keepWhole[name] && len(fieldSet) > 0 {
			survivors[name] = true
		}
	}

	// an object must keep every field its kept interfaces kept
	for _, def := range c.Doc.Definitions {
		if !survivors[def.Name] || keepWhole[def.Name] {
			continue
		}
		for _, in := range def.Interfaces {
			if !survivors[in] {
				continue
			}
			if keepWhole[in] {
				ifaceDef := c.Doc.Definitions.ForName(in)
				for _, f := range ifaceDef.Fields {
					w.fields[def.Name][f.Name] = true
				}
				continue
			}
			for name := range w.fields[in] {
				w.fields[def.Name][name] = true
			}
		}
	}

	decls := make(map[string]*ast.DirectiveDefinition, len(c.Doc.Directives))
	for _, dd := range c.Doc.Directives {
		decls[dd.Name] = dd
	}

	buildDefs := func() []*ast.Definition {
		var out []*ast.Definition
		for _, def := range c.Doc.Definitions {
			if keepWhole[def.Name] {
				out = append(out, def)
				continue
			}
			if fieldSet, ok := w.fields[def.Name]; ok && len(fieldSet) > 0 {
				out = append(out, filterDefinition(def, fieldSet, survivors))
			}
		}
		return out
	}

	// keep directive declarations in use, pulling their argument types in
	// until nothing changes
	outDefs := buildDefs()
	var used map[string]bool
	for {
		used = scanDirectiveUses(outDefs, decls)
		changed := false
		for name := range used {
			for _, arg := range decls[name].Arguments {
				tn := baseTypeName(arg.Type)
				if tn == "" || survivors[tn] {
					continue
				}
				if c.Doc.Definitions.ForName(tn) == nil {
					continue
				}
				addWhole(tn)
				for n := range keepWhole {
					survivors[n] = true
				}
				changed = true
			}
		}
		if !changed {
			break
		}
		outDefs = buildDefs()
	}

	nd := &ast.SchemaDocument{Definitions: outDefs}
	for _, dd := range c.Doc.Directives {
		if used[dd.Name] {
			nd.Directives = append(nd.Directives, dd)
		}
	}

	prov := make(map[string]string)
	for _, def := range outDefs {
		if label, ok := c.Provenance[def.Name]; ok {
			prov[def.Name] = label
		}
	}

	return finalize(nd, prov)
}

func filterDefinition(def *ast.Definition, selected map[string]bool, survivors map[string]bool) *ast.Definition {
	cp := *def

	var fl ast.FieldList
	for _, f := range def.Fields {
		if selected[f.Name] {
			fl = append(fl, f)
		}
	}
	cp.Fields = fl

	var ifs []string
	for _, in := range def.Interfaces {
		if survivors[in] {
			ifs = append(ifs, in)
		}
	}
	cp.Interfaces = ifs
	return &cp
}

func scanDirectiveUses(defs []*ast.Definition, decls map[string]*ast.DirectiveDefinition) map[string]bool {
	used := make(map[string]bool)
	mark := func(dl ast.DirectiveList) {
		for _, d := range dl {
			if _, ok := decls[d.Name]; ok {
				used[d.Name] = true
			}
		}
	}
	for _, def := range defs {
		mark(def.Directives)
		for _, f := range def.Fields {
			mark(f.Directives)
			for _, a := range f.Arguments {
				mark(a.Directives)
			}
		}
		for _, v := range def.EnumValues {
			mark(v.Directives)
		}
	}
	return used
}

func baseTypeName(t *ast.Type) string {
	if t == nil {
		return ""
	}
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}
