package core

// Node is a subject, object or preposition object of a Relation. It is either
// an *Entity or a nested *Relation; a nil Node means the service sent neither.
type Node interface {
	node()
}

// Segment is one element of a core response's data: a *Sentence when NER is
// disabled, a *SentenceGroup when it is enabled.
type Segment interface {
	segment()
}

// Concept is a named-entity classification attached to an Entity.
type Concept struct {
	ID         *string
	Label      *string
	FreebaseID *string
}

// Entity holds the noun-phrase data of a subject or object.
type Entity struct {
	PossessiveEntity *Entity
	PossessiveSuffix *string
	Determiner       *string
	ModifiersPrefix  []string
	Text             *string
	ModifiersSuffix  []string
	Index            *int
	Person           *string
	ProperNoun       *bool
	NER              []*Concept
}

func (*Entity) node() {}

// HasNER reports whether the service attached at least one concept.
func (e *Entity) HasNER() bool {
	return e != nil && len(e.NER) > 0
}

// Predicate holds the verb data of a Relation.
type Predicate struct {
	ModifiersPrefix    []string
	VerbPrefix         *string
	Verb               *string
	VerbSuffix         *string
	ModifiersSuffix    []string
	Index              *int
	Negated            *bool
	Tense              *string
	Conjugation        *string
	AuxiliaryQualifier *string
	PhrasalParticle    *string
}

type Preposition struct {
	Prefix      []string
	Preposition *string
	Object      Node
	Nested      []*Preposition
	Index       *int
	Type        *string
}

// Relation is a predicate-centred clause. Subject, Object and QualifiedObject
// may themselves be relations, so a Relation is the root of a tree.
type Relation struct {
	Qualifiers                 []string
	Question                   *string
	QuestionAuxiliary          *string
	VerbModifiersSubjectPrefix []string
	Subject                    Node
	Predicate                  *Predicate
	Object                     Node
	VerbModifiersObjectSuffix  []string
	Prepositions               []*Preposition
	QualifiedObject            Node
	Inferred                   bool
	Nested                     bool
	Qualified                  bool
	ArtificialType             *string
	Features                   []string
	Confidence                 float64
}

func (*Relation) node() {}

// Graph is the list of relations found in a sentence.
type Graph []*Relation

// Token is one [token, POS, lemma] triple.
type Token struct {
	Text  string
	POS   string
	Lemma string
}

// Dependency is one [dependent, head, relation] triple of the syntax tree.
type Dependency struct {
	Dependent int
	Head      int
	Relation  string
}

type Sentence struct {
	Text         *string
	Tokens       []Token
	Dependencies []Dependency
	// Graph is nil when graph analysis was not requested.
	Graph Graph
}

func (*Sentence) segment() {}

// SentenceGroup holds alternative readings of the same text, best first.
// "Find me photos of the beatles" (the insect) and "... of The Beatles"
// (the band) would be two alternatives of one group.
type SentenceGroup struct {
	Alternatives []*Sentence
}

func (*SentenceGroup) segment() {}

// Flags are the request options that shape a core response.
type Flags struct {
	Graph  bool `json:"graph"`
	NER    bool `json:"ner"`
	Pretty bool `json:"pretty"`
}

// DefaultFlags matches the API defaults: graph and NER on, pretty off.
func DefaultFlags() Flags {
	return Flags{Graph: true, NER: true}
}
