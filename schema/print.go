package schema

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Print renders a schema document as canonical SDL: schema blocks, then
// directive declarations sorted by name, then definitions sorted by name,
// then extensions. Members keep declaration order. Directive arguments are
// rendered with literal syntax, so annotations round-trip byte for byte.
func Print(doc *ast.SchemaDocument) string {
	var blocks []string

	for _, sd := range doc.Schema {
		blocks = append(blocks, printSchemaDefinition(sd, false))
	}
	for _, sd := range doc.SchemaExtension {
		blocks = append(blocks, printSchemaDefinition(sd, true))
	}

	directives := make([]*ast.DirectiveDefinition, len(doc.Directives))
	copy(directives, doc.Directives)
	sort.Slice(directives, func(i, j int) bool { return directives[i].Name < directives[j].Name })
	for _, dd := range directives {
		blocks = append(blocks, printDirectiveDefinition(dd))
	}

	defs := make([]*ast.Definition, len(doc.Definitions))
	copy(defs, doc.Definitions)
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	for _, def := range defs {
		blocks = append(blocks, printDefinition(def, false))
	}

	exts := make([]*ast.Definition, len(doc.Extensions))
	copy(exts, doc.Extensions)
	sort.Slice(exts, func(i, j int) bool { return exts[i].Name < exts[j].Name })
	for _, def := range exts {
		blocks = append(blocks, printDefinition(def, true))
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

var operationOrder = map[ast.Operation]int{
	ast.Query:        0,
	ast.Mutation:     1,
	ast.Subscription: 2,
}

func printSchemaDefinition(sd *ast.SchemaDefinition, extend bool) string {
	var b strings.Builder
	b.WriteString(printDescription(sd.Description, ""))
	if extend {
		b.WriteString("extend ")
	}
	b.WriteString("schema")
	b.WriteString(printDirectives(sd.Directives))

	ops := make([]*ast.OperationTypeDefinition, len(sd.OperationTypes))
	copy(ops, sd.OperationTypes)
	sort.Slice(ops, func(i, j int) bool {
		return operationOrder[ops[i].Operation] < operationOrder[ops[j].Operation]
	})

	b.WriteString(" {\n")
	for _, op := range ops {
		b.WriteString("  " + string(op.Operation) + ": " + op.Type + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func printDirectiveDefinition(dd *ast.DirectiveDefinition) string {
	var b strings.Builder
	b.WriteString(printDescription(dd.Description, ""))
	b.WriteString("directive @" + dd.Name)
	b.WriteString(printArgumentDefs(dd.Arguments))
	if dd.IsRepeatable {
		b.WriteString(" repeatable")
	}

	locs := make([]string, len(dd.Locations))
	for i, l := range dd.Locations {
		locs[i] = string(l)
	}
	b.WriteString(" on " + strings.Join(locs, " | "))
	return b.String()
}

func printDefinition(def *ast.Definition, extend bool) string {
	var b strings.Builder
	b.WriteString(printDescription(def.Description, ""))
	if extend {
		b.WriteString("extend ")
	}

	switch def.Kind {
	case ast.Scalar:
		b.WriteString("scalar " + def.Name)
		b.WriteString(printDirectives(def.Directives))

	case ast.Union:
		b.WriteString("union " + def.Name)
		b.WriteString(printDirectives(def.Directives))
		b.WriteString(" = " + strings.Join(def.Types, " | "))

	case ast.Enum:
		b.WriteString("enum " + def.Name)
		b.WriteString(printDirectives(def.Directives))
		b.WriteString(" {\n")
		for _, v := range def.EnumValues {
			b.WriteString(printDescription(v.Description, "  "))
			b.WriteString("  " + v.Name + printDirectives(v.Directives) + "\n")
		}
		b.WriteString("}")

	default:
		keyword := "type"
		switch def.Kind {
		case ast.Interface:
			keyword = "interface"
		case ast.InputObject:
			keyword = "input"
		}
		b.WriteString(keyword + " " + def.Name)
		if len(def.Interfaces) > 0 {
			b.WriteString(" implements " + strings.Join(def.Interfaces, " & "))
		}
		b.WriteString(printDirectives(def.Directives))
		if len(def.Fields) > 0 {
			b.WriteString(" {\n")
			for _, f := range def.Fields {
				b.WriteString(printField(f))
			}
			b.WriteString("}")
		}
	}
	return b.String()
}

func printField(f *ast.FieldDefinition) string {
	var b strings.Builder
	b.WriteString(printDescription(f.Description, "  "))
	b.WriteString("  " + f.Name)
	b.WriteString(printArgumentDefs(f.Arguments))
	b.WriteString(": " + typeRef(f.Type))
	if f.DefaultValue != nil {
		b.WriteString(" = " + f.DefaultValue.String())
	}
	b.WriteString(printDirectives(f.Directives))
	b.WriteString("\n")
	return b.String()
}

func printArgumentDefs(args ast.ArgumentDefinitionList) string {
	if len(args) == 0 {
		return ""
	}

	multiline := false
	for _, a := range args {
		if a.Description != "" {
			multiline = true
			break
		}
	}

	if !multiline {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, printArgumentDef(a))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}

	var b strings.Builder
	b.WriteString("(\n")
	for _, a := range args {
		b.WriteString(printDescription(a.Description, "    "))
		b.WriteString("    " + printArgumentDef(a) + "\n")
	}
	b.WriteString("  )")
	return b.String()
}

func printArgumentDef(a *ast.ArgumentDefinition) string {
	s := a.Name + ": " + typeRef(a.Type)
	if a.DefaultValue != nil {
		s += " = " + a.DefaultValue.String()
	}
	return s + printDirectives(a.Directives)
}

// printDirectives renders directive uses in attachment order with their
// arguments in literal syntax.
func printDirectives(dl ast.DirectiveList) string {
	var b strings.Builder
	for _, d := range dl {
		b.WriteString(" @" + d.Name)
		if len(d.Arguments) > 0 {
			parts := make([]string, 0, len(d.Arguments))
			for _, a := range d.Arguments {
				parts = append(parts, a.Name+": "+a.Value.String())
			}
			b.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
	}
	return b.String()
}

func printDescription(desc, indent string) string {
	if desc == "" {
		return ""
	}
	escaped := strings.ReplaceAll(desc, `"""`, `\"""`)

	if !strings.Contains(escaped, "\n") {
		return indent + `"""` + escaped + `"""` + "\n"
	}

	var b strings.Builder
	b.WriteString(indent + `"""` + "\n")
	for _, line := range strings.Split(escaped, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + `"""` + "\n")
	return b.String()
}

func typeRef(t *ast.Type) string {
	if t == nil {
		return ""
	}
	if t.NamedType != "" {
		if t.NonNull {
			return t.NamedType + "!"
		}
		return t.NamedType
	}
	s := "[" + typeRef(t.Elem) + "]"
	if t.NonNull {
		s += "!"
	}
	return s
}
