package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeGraphGenerator_MergesDocuments(t *testing.T) {
	g := NewKnowledgeGraphGenerator()

	require.NoError(t, g.AddDocument(&Document{
		ID: "doc-1",
		Entities: []Entity{
			{Label: "Bill Gates", Type: DefaultEntityType},
			{Label: "Microsoft", Type: "ORGANIZATION"},
		},
		Relations: []Relationship{
			{Type: "FOUNDED", From: "Bill Gates", To: "Microsoft", Confidence: 1.0},
			{Type: "OWNS", From: "Bill Gates", To: "Apple", Confidence: 1.0},
		},
	}))
	require.NoError(t, g.AddDocument(&Document{
		ID:       "doc-2",
		Entities: []Entity{{Label: "Bill Gates", Type: "PERSON"}},
		Relations: []Relationship{
			{Type: "FOUNDED", From: "Bill Gates", To: "Microsoft", Confidence: 0.5},
		},
	}))

	kg := g.Generate()
	require.Len(t, kg.Nodes, 2)
	bill := kg.Nodes[0]
	assert.Equal(t, "Bill Gates", bill.Label)
	assert.Equal(t, "PERSON", bill.Type)
	assert.Equal(t, []string{"doc-1", "doc-2"}, bill.Sources)

	require.Len(t, kg.Edges, 1)
	edge := kg.Edges[0]
	assert.Equal(t, bill.ID, edge.Source)
	assert.Equal(t, kg.Nodes[1].ID, edge.Target)
	assert.InDelta(t, 0.75, edge.Weight, 1e-9)
	assert.Equal(t, 2, edge.Properties["observations"])
}

func TestKnowledgeGraphGenerator_SkipsRepeatedDocuments(t *testing.T) {
	g := NewKnowledgeGraphGenerator()
	doc := &Document{ID: "doc-1", Entities: []Entity{{Label: "tea", Type: DefaultEntityType}}}

	require.NoError(t, g.AddDocument(doc))
	require.NoError(t, g.AddDocument(doc))

	kg := g.Generate()
	require.Len(t, kg.Nodes, 1)
	assert.Equal(t, []string{"doc-1"}, kg.Nodes[0].Sources)
}

func TestKnowledgeGraphGenerator_NilDocument(t *testing.T) {
	assert.Error(t, NewKnowledgeGraphGenerator().AddDocument(nil))
}
