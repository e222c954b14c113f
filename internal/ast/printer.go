package ast

import "strings"

// String renders the module as canonical source text, one statement per
// line. The output parses back into an equivalent module.
func (m *Module) String() string {
	var sb strings.Builder
	for _, imp := range m.Imports {
		sb.WriteString("import ")
		sb.WriteByte('"')
		sb.WriteString(imp.Path)
		sb.WriteByte('"')
		sb.WriteString(" as ")
		sb.WriteString(imp.Alias)
		sb.WriteByte('\n')
	}
	for _, a := range m.Activities {
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (a *Activity) String() string {
	var sb strings.Builder
	if a.Variable != "" {
		sb.WriteString(a.Variable)
		sb.WriteString(" = ")
	}
	sb.WriteString(a.Action.String())
	for i, s := range a.Subjects {
		if i > 0 {
			sb.WriteString(" and")
		}
		sb.WriteByte(' ')
		sb.WriteString(s.String())
	}
	if a.Condition != nil {
		kw := a.Keyword
		if kw == "" {
			kw = "with"
		}
		sb.WriteByte(' ')
		sb.WriteString(kw)
		sb.WriteByte(' ')
		sb.WriteString(a.Condition.String())
	}
	sb.WriteByte('.')
	return sb.String()
}

func (e *Element) String() string {
	switch {
	case e.Literal != nil:
		return e.Name + " " + e.Literal.Source
	case len(e.Args) > 0:
		return e.Name + " " + e.Text()
	}
	return e.Name
}
