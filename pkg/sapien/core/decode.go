package core

import (
	"github.com/athapong/plasticity-go/pkg/keypath"
	"github.com/tidwall/gjson"
)

// MaxDepth bounds how deeply relations may nest inside each other. Anything
// below it decodes as absent.
const MaxDepth = 512

// Wire discriminators.
const (
	typeEntity        = "entity"
	typeRelation      = "relation"
	typePreposition   = "preposition"
	typeConcept       = "concept"
	typeSentence      = "sentence"
	typeSentenceGroup = "sentenceGroup"
)

func decodeSegment(v gjson.Result) Segment {
	switch keypath.Discriminator(v) {
	case typeSentenceGroup:
		return decodeSentenceGroup(v)
	case typeSentence:
		return decodeSentence(v)
	}
	return nil
}

func decodeSentenceGroup(v gjson.Result) *SentenceGroup {
	items := keypath.Objects(keypath.Get(v, "alternatives"), typeSentence)
	alternatives := make([]*Sentence, 0, len(items))
	for _, item := range items {
		alternatives = append(alternatives, decodeSentence(item))
	}
	return &SentenceGroup{Alternatives: alternatives}
}

func decodeSentence(v gjson.Result) *Sentence {
	f := keypath.Fields(v)
	s := &Sentence{
		Text:         keypath.String(f["sentence"]),
		Tokens:       decodeTokens(f["tokens"]),
		Dependencies: decodeDependencies(f["dependencies"]),
	}
	if g := f["graph"]; g.IsArray() {
		s.Graph = decodeGraph(g)
	}
	return s
}

func decodeGraph(v gjson.Result) Graph {
	items := keypath.Objects(v, typeRelation)
	graph := make(Graph, 0, len(items))
	for _, item := range items {
		graph = append(graph, decodeRelation(item, 0))
	}
	return graph
}

func decodeTokens(v gjson.Result) []Token {
	if !v.IsArray() {
		return nil
	}
	var tokens []Token
	v.ForEach(func(_, item gjson.Result) bool {
		if !item.IsArray() {
			return true
		}
		parts := item.Array()
		var t Token
		if len(parts) > 0 {
			t.Text = parts[0].String()
		}
		if len(parts) > 1 {
			t.POS = parts[1].String()
		}
		if len(parts) > 2 {
			t.Lemma = parts[2].String()
		}
		tokens = append(tokens, t)
		return true
	})
	return tokens
}

func decodeDependencies(v gjson.Result) []Dependency {
	if !v.IsArray() {
		return nil
	}
	var deps []Dependency
	v.ForEach(func(_, item gjson.Result) bool {
		if !item.IsArray() {
			return true
		}
		parts := item.Array()
		var d Dependency
		if len(parts) > 0 {
			d.Dependent = int(parts[0].Int())
		}
		if len(parts) > 1 {
			d.Head = int(parts[1].Int())
		}
		if len(parts) > 2 {
			d.Relation = parts[2].String()
		}
		deps = append(deps, d)
		return true
	})
	return deps
}

// decodeNode resolves a subject, object or preposition object. Each object
// is scanned once and its fields dispatched from there.
func decodeNode(v gjson.Result, depth int) Node {
	if depth > MaxDepth {
		return nil
	}
	f := keypath.Fields(v)
	switch f.Discriminator() {
	case typeEntity:
		return entityFromFields(f, depth)
	case typeRelation:
		return relationFromFields(f, depth)
	}
	return nil
}

func decodeRelation(v gjson.Result, depth int) *Relation {
	return relationFromFields(keypath.Fields(v), depth)
}

func relationFromFields(f keypath.Object, depth int) *Relation {
	qualifiedObject, ok := f["qualifiedObject"]
	if !ok {
		qualifiedObject = f["qualified_object"]
	}

	r := &Relation{
		Qualifiers:                 keypath.Strings(f["qualifiers"]),
		Question:                   keypath.String(f["question"]),
		QuestionAuxiliary:          keypath.String(f["questionAuxiliary"]),
		VerbModifiersSubjectPrefix: keypath.Strings(f["verbModifiersSubjectPrefix"]),
		Subject:                    decodeNode(f["subject"], depth+1),
		Predicate:                  decodePredicate(f["predicate"]),
		Object:                     decodeNode(f["object"], depth+1),
		VerbModifiersObjectSuffix:  keypath.Strings(f["verbModifiersObjectSuffix"]),
		QualifiedObject:            decodeNode(qualifiedObject, depth+1),
		Inferred:                   keypath.BoolOr(f["inferred"], false),
		Nested:                     keypath.BoolOr(f["nested"], false),
		Qualified:                  keypath.BoolOr(f["qualified"], false),
		ArtificialType:             keypath.String(f["artificialType"]),
		Features:                   keypath.Strings(f["_features"]),
		Confidence:                 keypath.FloatOr(f["confidence"], 1.0),
	}
	for _, item := range keypath.Objects(f["prepositions"], typePreposition) {
		r.Prepositions = append(r.Prepositions, decodePreposition(item, depth+1))
	}
	return r
}

func decodeEntity(v gjson.Result, depth int) *Entity {
	return entityFromFields(keypath.Fields(v), depth)
}

func entityFromFields(f keypath.Object, depth int) *Entity {
	e := &Entity{
		PossessiveSuffix: keypath.String(f["possessive_suffix"]),
		Determiner:       keypath.String(f["determiner"]),
		ModifiersPrefix:  keypath.Strings(f["entityModifiersPrefix"]),
		Text:             keypath.String(f["entity"]),
		ModifiersSuffix:  keypath.Strings(f["entityModifiersSuffix"]),
		Index:            keypath.Int(f["index"]),
		Person:           keypath.String(f["person"]),
		ProperNoun:       keypath.Bool(f["properNoun"]),
	}
	if possessive := f["possessive_entity"]; possessive.IsObject() && depth < MaxDepth {
		e.PossessiveEntity = decodeEntity(possessive, depth+1)
	}
	if ner := f["ner"]; ner.IsArray() {
		items := keypath.Objects(ner, typeConcept)
		e.NER = make([]*Concept, 0, len(items))
		for _, item := range items {
			e.NER = append(e.NER, decodeConcept(item))
		}
	}
	return e
}

func decodePredicate(v gjson.Result) *Predicate {
	if !v.IsObject() {
		return nil
	}
	f := keypath.Fields(v)
	return &Predicate{
		ModifiersPrefix:    keypath.Strings(f["verbModifiersPrefix"]),
		VerbPrefix:         keypath.String(f["verbPrefix"]),
		Verb:               keypath.String(f["verb"]),
		VerbSuffix:         keypath.String(f["verbSuffix"]),
		ModifiersSuffix:    keypath.Strings(f["verbModifiersSuffix"]),
		Index:              keypath.Int(f["index"]),
		Negated:            keypath.Bool(f["negated"]),
		Tense:              keypath.String(f["tense"]),
		Conjugation:        keypath.String(f["conjugation"]),
		AuxiliaryQualifier: keypath.String(f["auxiliaryQualifier"]),
		PhrasalParticle:    keypath.String(f["phrasalParticle"]),
	}
}

func decodePreposition(v gjson.Result, depth int) *Preposition {
	f := keypath.Fields(v)
	p := &Preposition{
		Prefix:      keypath.Strings(f["preposition_prefix"]),
		Preposition: keypath.String(f["preposition"]),
		Object:      decodeNode(f["prepositionObject"], depth+1),
		Index:       keypath.Int(f["index"]),
		Type:        keypath.String(f["preposition_type"]),
	}
	if depth < MaxDepth {
		for _, item := range keypath.Objects(f["nestedPrepositions"], typePreposition) {
			p.Nested = append(p.Nested, decodePreposition(item, depth+1))
		}
	}
	return p
}

func decodeConcept(v gjson.Result) *Concept {
	f := keypath.Fields(v)
	return &Concept{
		ID:         keypath.String(f["id"]),
		Label:      keypath.String(f["label"]),
		FreebaseID: keypath.String(f["freebaseIdentifier"]),
	}
}
