package graph

import (
	"strings"

	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

// DefaultEntityType is used for entities without any NER concept.
const DefaultEntityType = "Entity"

// Extract turns the best alternative of every sentence into entities and
// relationships. Each relation with an entity subject and object becomes an
// edge typed by its verb; each preposition with an entity object becomes an
// edge from the relation's subject typed by the preposition. Nested relations
// are visited too.
func Extract(resp *core.Response) ([]Entity, []Relationship) {
	var (
		entities  []Entity
		relations []Relationship
		seen      = make(map[string]bool)
	)
	addEntity := func(e *core.Entity) {
		label := entityLabel(e)
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		entities = append(entities, toEntity(e))
	}

	for _, s := range bestAlternatives(resp) {
		for _, root := range s.Graph {
			for _, e := range root.Entities(false).Entities() {
				addEntity(e)
			}

			stack := []*core.Relation{root}
			for len(stack) > 0 {
				r := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if r == nil {
					continue
				}
				for _, n := range []core.Node{r.Subject, r.Object, r.QualifiedObject} {
					if nested, ok := n.(*core.Relation); ok && nested != nil {
						stack = append(stack, nested)
					}
				}
				relations = append(relations, relationEdges(r)...)
			}
		}
	}
	return entities, relations
}

func bestAlternatives(resp *core.Response) []*core.Sentence {
	if resp == nil {
		return nil
	}
	var out []*core.Sentence
	for _, seg := range resp.Data {
		switch s := seg.(type) {
		case *core.SentenceGroup:
			if len(s.Alternatives) > 0 {
				out = append(out, s.Alternatives[0])
			}
		case *core.Sentence:
			out = append(out, s)
		}
	}
	return out
}

func relationEdges(r *core.Relation) []Relationship {
	subject, ok := r.Subject.(*core.Entity)
	if !ok || entityLabel(subject) == "" {
		return nil
	}
	from := entityLabel(subject)

	var out []Relationship
	if object, ok := r.Object.(*core.Entity); ok && entityLabel(object) != "" && r.Predicate != nil && r.Predicate.Verb != nil {
		props := map[string]interface{}{}
		if r.Predicate.Tense != nil {
			props["tense"] = *r.Predicate.Tense
		}
		if r.Predicate.Negated != nil {
			props["negated"] = *r.Predicate.Negated
		}
		out = append(out, Relationship{
			Type:       edgeType(*r.Predicate.Verb),
			From:       from,
			To:         entityLabel(object),
			Properties: props,
			Confidence: r.Confidence,
		})
	}
	for _, p := range r.Prepositions {
		if p == nil || p.Preposition == nil {
			continue
		}
		object, ok := p.Object.(*core.Entity)
		if !ok || entityLabel(object) == "" {
			continue
		}
		out = append(out, Relationship{
			Type:       edgeType(*p.Preposition),
			From:       from,
			To:         entityLabel(object),
			Confidence: r.Confidence,
		})
	}
	return out
}

func entityLabel(e *core.Entity) string {
	if e == nil || e.Text == nil {
		return ""
	}
	return strings.TrimSpace(*e.Text)
}

func toEntity(e *core.Entity) Entity {
	out := Entity{
		Label:      entityLabel(e),
		Type:       DefaultEntityType,
		Properties: map[string]interface{}{},
		Confidence: 1.0,
	}
	if len(e.NER) > 0 && e.NER[0].Label != nil {
		out.Type = *e.NER[0].Label
		if e.NER[0].ID != nil {
			out.Properties["concept_id"] = *e.NER[0].ID
		}
	}
	if e.ProperNoun != nil {
		out.Properties["proper_noun"] = *e.ProperNoun
	}
	if e.Index != nil {
		out.Properties["index"] = *e.Index
	}
	return out
}

// edgeType normalises a verb or preposition into an upper snake case label.
func edgeType(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "_"))
}
