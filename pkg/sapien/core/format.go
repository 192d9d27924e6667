package core

import (
	"fmt"
	"strings"
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

func orNone(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}

func intOrNone(i *int) string {
	if i == nil {
		return "<none>"
	}
	return fmt.Sprint(*i)
}

// describe names a node without expanding it.
func describe(n Node) string {
	switch v := n.(type) {
	case *Entity:
		if v == nil {
			return "<none>"
		}
		return fmt.Sprintf("Entity(%s)", orNone(v.Text))
	case *Relation:
		if v == nil {
			return "<none>"
		}
		if v.Predicate != nil && v.Predicate.Verb != nil {
			return fmt.Sprintf("Relation(%s)", *v.Predicate.Verb)
		}
		return "Relation"
	}
	return "<none>"
}

func (r *Response) String() string {
	var b strings.Builder
	b.WriteString("Core Response")
	if r.Error {
		fmt.Fprintf(&b, " - %s error:\n", intOrNone(r.ErrorCode))
		b.WriteString(indent(orNone(r.ErrorMessage)))
		return b.String()
	}
	fmt.Fprintf(&b, " - %s:\n", plural(len(r.Data), "sentence"))
	for _, seg := range r.Data {
		b.WriteString(indent(fmt.Sprint(seg)))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *SentenceGroup) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SentenceGroup - %s:\n", plural(len(g.Alternatives), "alternative"))
	for _, s := range g.Alternatives {
		b.WriteString(indent(s.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Sentence) String() string {
	var b strings.Builder
	b.WriteString("Sentence:\n")
	b.WriteString(indent("Text: " + orNone(s.Text)))
	b.WriteString("\n")
	b.WriteString(indent(fmt.Sprintf("Tokens: %v", s.Tokens)))
	b.WriteString("\n")
	b.WriteString(indent(fmt.Sprintf("Dependencies: %v", s.Dependencies)))
	if s.Graph != nil {
		b.WriteString("\n")
		b.WriteString(indent("Graph: " + plural(len(s.Graph), "relation")))
	}
	return b.String()
}

func (g Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph - %s:\n", plural(len(g), "relation"))
	for _, r := range g {
		b.WriteString(indent(r.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Relation) String() string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		b.WriteString(indent(fmt.Sprintf(format, args...)))
		b.WriteString("\n")
	}

	b.WriteString("Relation:\n")
	if len(r.Qualifiers) > 0 {
		line("Qualifiers: %v", r.Qualifiers)
	}
	if r.Question != nil {
		line("Question: %s", *r.Question)
		line("Question Auxiliary: %s", orNone(r.QuestionAuxiliary))
	}
	if len(r.VerbModifiersSubjectPrefix) > 0 {
		line("Verb Modifiers Subject Prefix: %v", r.VerbModifiersSubjectPrefix)
	}
	line("Subject: %s", describe(r.Subject))
	if r.Predicate != nil {
		line("Predicate: %s", orNone(r.Predicate.Verb))
	} else {
		line("Predicate: <none>")
	}
	line("Object: %s", describe(r.Object))
	if len(r.VerbModifiersObjectSuffix) > 0 {
		line("Verb Modifiers Object Suffix: %v", r.VerbModifiersObjectSuffix)
	}
	line("Prepositions: %d", len(r.Prepositions))
	if r.QualifiedObject != nil {
		line("Qualified Object: %s", describe(r.QualifiedObject))
	}
	return b.String()
}

func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString("Entity:\n")
	possessive := "<none>"
	if e.PossessiveEntity != nil {
		possessive = describe(e.PossessiveEntity)
	}
	b.WriteString(indent(strings.Join([]string{
		"Possessive Entity: " + possessive,
		"Index: " + intOrNone(e.Index),
		"Determiner: " + orNone(e.Determiner),
		fmt.Sprintf("Modifiers Prefix: %v", e.ModifiersPrefix),
		"Entity: " + orNone(e.Text),
		fmt.Sprintf("Modifiers Suffix: %v", e.ModifiersSuffix),
	}, "\n")))
	b.WriteString("\n")
	return b.String()
}

func (p *Predicate) String() string {
	var b strings.Builder
	b.WriteString("Predicate:\n")
	negated := "<none>"
	if p.Negated != nil {
		negated = fmt.Sprint(*p.Negated)
	}
	b.WriteString(indent(strings.Join([]string{
		"Index: " + intOrNone(p.Index),
		"Negated: " + negated,
		"Tense: " + orNone(p.Tense),
		fmt.Sprintf("Modifiers Prefix: %v", p.ModifiersPrefix),
		"Verb: " + orNone(p.Verb),
		fmt.Sprintf("Modifiers Suffix: %v", p.ModifiersSuffix),
	}, "\n")))
	b.WriteString("\n")
	return b.String()
}

func (p *Preposition) String() string {
	var b strings.Builder
	b.WriteString("Preposition:\n")
	b.WriteString(indent(strings.Join([]string{
		"Index: " + intOrNone(p.Index),
		fmt.Sprintf("Prefix: %v", p.Prefix),
		"Preposition: " + orNone(p.Preposition),
		"Object: " + describe(p.Object),
		"Nested: " + plural(len(p.Nested), "preposition"),
	}, "\n")))
	b.WriteString("\n")
	return b.String()
}

func (c *Concept) String() string {
	return fmt.Sprintf("Concept(%s, %s)", orNone(c.ID), orNone(c.Label))
}
