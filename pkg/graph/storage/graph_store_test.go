package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/plasticity-go/pkg/graph"
)

func sampleGraph() *graph.KnowledgeGraphData {
	return &graph.KnowledgeGraphData{
		Nodes: []graph.Node{
			{ID: "n1", Label: "Bill Gates", Type: "PERSON", Sources: []string{"doc-1"}},
			{ID: "n2", Label: "Microsoft", Type: "Entity", Properties: map[string]interface{}{"index": 3.0}},
		},
		Edges: []graph.Edge{
			{ID: "n1-FOUNDED-n2", Source: "n1", Target: "n2", Type: "FOUNDED", Weight: 0.9},
		},
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestJSONGraphStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "graph.json")
	store := NewJSONGraphStore(path)

	want := sampleGraph()
	require.NoError(t, store.StoreGraph(context.Background(), want))

	got, err := store.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJSONGraphStore_LoadMissingFile(t *testing.T) {
	_, err := NewJSONGraphStore(filepath.Join(t.TempDir(), "missing.json")).LoadGraph(context.Background())
	assert.Error(t, err)
}

func TestMultiStore(t *testing.T) {
	dir := t.TempDir()
	first := NewJSONGraphStore(filepath.Join(dir, "a.json"))
	second := NewJSONGraphStore(filepath.Join(dir, "b.json"))

	m := MultiStore{first, second}
	require.NoError(t, m.StoreGraph(context.Background(), sampleGraph()))

	fromSecond, err := second.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, fromSecond.Nodes, 2)

	_, err = MultiStore{}.LoadGraph(context.Background())
	assert.Error(t, err)
}
