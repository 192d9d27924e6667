package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/athapong/plasticity-go/pkg/graph"
)

// Operators understood by Filter.
const (
	Equal        = "="
	GreaterThan  = ">"
	GreaterEqual = ">="
	LessThan     = "<"
	LessEqual    = "<="
)

// Query selects part of a generated knowledge graph. Nodes match when any
// pattern names their type, edges when any pattern names their relation;
// patterns leaving a field empty match everything for it.
type Query struct {
	Patterns []Pattern `json:"patterns"`
	Filters  []Filter  `json:"filters"`
	Limit    int       `json:"limit"`
}

type Pattern struct {
	NodeType     string `json:"node_type,omitempty"`
	RelationType string `json:"relation_type,omitempty"`
}

// Filter is applied to edges. Field is "weight" (numeric operators) or
// "type" (Equal only).
type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

func NewQuery() *Query {
	return &Query{
		Patterns: make([]Pattern, 0),
		Filters:  make([]Filter, 0),
	}
}

func (q *Query) AddPattern(pattern Pattern) *Query {
	q.Patterns = append(q.Patterns, pattern)
	return q
}

func (q *Query) AddFilter(filter Filter) *Query {
	q.Filters = append(q.Filters, filter)
	return q
}

// SetLimit caps the number of nodes returned. Zero means no limit.
func (q *Query) SetLimit(limit int) *Query {
	q.Limit = limit
	return q
}

func (q *Query) String() string {
	bytes, _ := json.MarshalIndent(q, "", "  ")
	return string(bytes)
}

// Match returns the matching nodes, in graph order, and the matching edges
// between them.
func (q *Query) Match(kg *graph.KnowledgeGraphData) (*graph.KnowledgeGraphData, error) {
	for _, f := range q.Filters {
		if err := f.validate(); err != nil {
			return nil, err
		}
	}

	nodeTypes := q.values(func(p Pattern) string { return p.NodeType })
	relationTypes := q.values(func(p Pattern) string { return p.RelationType })

	kept := make(map[string]bool)
	nodes := make([]graph.Node, 0)
	for _, n := range kg.Nodes {
		if q.Limit > 0 && len(nodes) == q.Limit {
			break
		}
		if len(nodeTypes) == 0 || nodeTypes[n.Type] {
			nodes = append(nodes, n)
			kept[n.ID] = true
		}
	}

	edges := make([]graph.Edge, 0)
	for _, e := range kg.Edges {
		if !kept[e.Source] || !kept[e.Target] {
			continue
		}
		if len(relationTypes) > 0 && !relationTypes[e.Type] {
			continue
		}
		if q.accepts(e) {
			edges = append(edges, e)
		}
	}

	return &graph.KnowledgeGraphData{Nodes: nodes, Edges: edges, GeneratedAt: kg.GeneratedAt}, nil
}

func (q *Query) values(field func(Pattern) string) map[string]bool {
	set := make(map[string]bool)
	for _, p := range q.Patterns {
		if v := field(p); v != "" {
			set[v] = true
		}
	}
	return set
}

func (q *Query) accepts(e graph.Edge) bool {
	for _, f := range q.Filters {
		if !f.accepts(e) {
			return false
		}
	}
	return true
}

func (f Filter) validate() error {
	switch f.Field {
	case "weight":
		if _, ok := number(f.Value); !ok {
			return fmt.Errorf("weight filter needs a number, got %v", f.Value)
		}
		switch f.Operator {
		case Equal, GreaterThan, GreaterEqual, LessThan, LessEqual:
			return nil
		}
	case "type":
		if f.Operator == Equal {
			return nil
		}
	default:
		return fmt.Errorf("unsupported filter field %q", f.Field)
	}
	return fmt.Errorf("unsupported operator %q for %s", f.Operator, f.Field)
}

func (f Filter) accepts(e graph.Edge) bool {
	if f.Field == "type" {
		return strings.EqualFold(e.Type, fmt.Sprint(f.Value))
	}

	v, _ := number(f.Value)
	switch f.Operator {
	case GreaterThan:
		return e.Weight > v
	case GreaterEqual:
		return e.Weight >= v
	case LessThan:
		return e.Weight < v
	case LessEqual:
		return e.Weight <= v
	default:
		return e.Weight == v
	}
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
