package core

import (
	"strings"

	"github.com/athapong/plasticity-go/pkg/metrics"
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	ErrGraphNotRequested = errors.Wrap(plasticity.ErrConfiguration, "the graph flag must be enabled in the request to use Graphs")
	ErrNERNotRequested   = errors.Wrap(plasticity.ErrConfiguration, "the ner and graph flags must be enabled in the request to use NamedEntities")
)

// Response is a decoded core response. Data holds *SentenceGroup values when
// NER was enabled and *Sentence values otherwise.
type Response struct {
	Data         []Segment
	Error        bool
	ErrorCode    *int
	ErrorMessage *string
	Flags        Flags
}

// Decode builds a Response from a raw core payload. flags must be the flags
// the request was sent with since they decide the shape of Data.
func Decode(raw []byte, flags Flags) (*Response, error) {
	doc, err := plasticity.Parse(raw)
	if err != nil {
		return nil, err
	}
	base := plasticity.ResponseFromJSON(doc)

	r := &Response{
		Data:         make([]Segment, 0),
		Error:        base.Error,
		ErrorCode:    base.ErrorCode,
		ErrorMessage: base.ErrorMessage,
		Flags:        flags,
	}
	if base.Data.IsArray() {
		base.Data.ForEach(func(_, item gjson.Result) bool {
			switch seg := decodeSegment(item).(type) {
			case *SentenceGroup:
				metrics.SegmentsDecoded.WithLabelValues(typeSentenceGroup).Inc()
				r.Data = append(r.Data, seg)
			case *Sentence:
				metrics.SegmentsDecoded.WithLabelValues(typeSentence).Inc()
				r.Data = append(r.Data, seg)
			}
			return true
		})
	}
	return r, nil
}

// Err returns a *plasticity.ServiceError when the service reported a failure.
func (r *Response) Err() error {
	return plasticity.Response{
		Error:        r.Error,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
	}.Err()
}

// View is the result of a derived accessor. With NER enabled the response is
// made of sentence groups and Groups has one entry per group; otherwise Flat
// holds every value across all sentences.
type View[T any] struct {
	Grouped bool
	Groups  [][]T
	Flat    []T
}

func project[T, U any](v View[T], f func(T) U) View[U] {
	out := View[U]{Grouped: v.Grouped}
	mapRow := func(row []T) []U {
		mapped := make([]U, 0, len(row))
		for _, item := range row {
			mapped = append(mapped, f(item))
		}
		return mapped
	}
	if v.Grouped {
		out.Groups = make([][]U, 0, len(v.Groups))
		for _, row := range v.Groups {
			out.Groups = append(out.Groups, mapRow(row))
		}
		return out
	}
	out.Flat = mapRow(v.Flat)
	return out
}

// groups returns the alternatives of every segment. A bare sentence counts as
// a group with a single alternative.
func (r *Response) groups() [][]*Sentence {
	out := make([][]*Sentence, 0, len(r.Data))
	for _, seg := range r.Data {
		switch s := seg.(type) {
		case *SentenceGroup:
			out = append(out, s.Alternatives)
		case *Sentence:
			out = append(out, []*Sentence{s})
		}
	}
	return out
}

// Sentences returns every sentence in order, expanding sentence groups into
// their alternatives.
func (r *Response) Sentences() []*Sentence {
	var out []*Sentence
	for _, alternatives := range r.groups() {
		out = append(out, alternatives...)
	}
	return out
}

// concatenate builds a View by joining pick(sentence) per group (NER) or
// across all sentences.
func concatenate[T any](r *Response, pick func(*Sentence) []T) View[T] {
	if r.Flags.NER {
		groups := r.groups()
		v := View[T]{Grouped: true, Groups: make([][]T, 0, len(groups))}
		for _, alternatives := range groups {
			row := make([]T, 0)
			for _, s := range alternatives {
				row = append(row, pick(s)...)
			}
			v.Groups = append(v.Groups, row)
		}
		return v
	}
	flat := make([]T, 0)
	for _, s := range r.Sentences() {
		flat = append(flat, pick(s)...)
	}
	return View[T]{Flat: flat}
}

// TPLs returns the token, part of speech and lemma triples of the text.
func (r *Response) TPLs() View[Token] {
	return concatenate(r, func(s *Sentence) []Token { return s.Tokens })
}

func (r *Response) Tokenize() View[string] {
	return project(r.TPLs(), func(t Token) string { return t.Text })
}

func (r *Response) PartsOfSpeech() View[string] {
	return project(r.TPLs(), func(t Token) string { return t.POS })
}

func (r *Response) Lemmatize() View[string] {
	return project(r.TPLs(), func(t Token) string { return t.Lemma })
}

// Dependencies returns the syntax dependency triples of the text.
func (r *Response) Dependencies() View[Dependency] {
	return concatenate(r, func(s *Sentence) []Dependency { return s.Dependencies })
}

// Graphs returns the relation graph of each sentence. With NER enabled the
// result is grouped, one graph per alternative.
func (r *Response) Graphs() (View[Graph], error) {
	if !r.Flags.Graph {
		return View[Graph]{}, ErrGraphNotRequested
	}
	if r.Flags.NER {
		groups := r.groups()
		v := View[Graph]{Grouped: true, Groups: make([][]Graph, 0, len(groups))}
		for _, alternatives := range groups {
			row := make([]Graph, 0, len(alternatives))
			for _, s := range alternatives {
				row = append(row, s.Graph)
			}
			v.Groups = append(v.Groups, row)
		}
		return v, nil
	}
	flat := make([]Graph, 0)
	for _, s := range r.Sentences() {
		flat = append(flat, s.Graph)
	}
	return View[Graph]{Flat: flat}, nil
}

// NamedEntities returns, per sentence group and alternative, the entities the
// service attached concepts to, keyed by token index.
func (r *Response) NamedEntities() ([][]*EntityIndex, error) {
	if !r.Flags.NER || !r.Flags.Graph {
		return nil, ErrNERNotRequested
	}
	groups := r.groups()
	out := make([][]*EntityIndex, 0, len(groups))
	for _, alternatives := range groups {
		row := make([]*EntityIndex, 0, len(alternatives))
		for _, s := range alternatives {
			row = append(row, s.NamedEntities())
		}
		out = append(out, row)
	}
	return out, nil
}

// NamedEntities aggregates the NER entities of every relation in the
// sentence graph. An entity index already seen is never replaced.
func (s *Sentence) NamedEntities() *EntityIndex {
	found := NewEntityIndex()
	for _, rel := range s.Graph {
		found.Merge(rel.Entities(true))
	}
	return found
}

// NERReplace rewrites each alternative's text, replacing every named entity
// with the label of its first concept. Replacement is plain substring
// substitution in aggregation order, so repeated or overlapping entity text
// is replaced wherever it occurs.
func (r *Response) NERReplace() ([][]string, error) {
	named, err := r.NamedEntities()
	if err != nil {
		return nil, err
	}
	groups := r.groups()
	out := make([][]string, 0, len(groups))
	for i, alternatives := range groups {
		row := make([]string, 0, len(alternatives))
		for j, s := range alternatives {
			row = append(row, replaceEntities(s, named[i][j]))
		}
		out = append(out, row)
	}
	return out, nil
}

func replaceEntities(s *Sentence, entities *EntityIndex) string {
	var text string
	if s.Text != nil {
		text = *s.Text
	}
	for _, e := range entities.Entities() {
		if e.Text == nil || *e.Text == "" || len(e.NER) == 0 || e.NER[0].Label == nil {
			continue
		}
		text = strings.ReplaceAll(text, *e.Text, *e.NER[0].Label)
	}
	return text
}
