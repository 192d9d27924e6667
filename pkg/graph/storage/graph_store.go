package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/plasticity-go/pkg/graph"
)

// GraphStore defines an interface for storing knowledge graphs
type GraphStore interface {
	// StoreGraph persists a knowledge graph
	StoreGraph(ctx context.Context, graph *graph.KnowledgeGraphData) error

	// LoadGraph loads a knowledge graph from storage
	LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error)
}

// JSONGraphStore implements GraphStore using JSON files
type JSONGraphStore struct {
	filePath string
}

func NewJSONGraphStore(filePath string) *JSONGraphStore {
	return &JSONGraphStore{
		filePath: filePath,
	}
}

// StoreGraph writes the graph as indented JSON, creating parent directories.
func (s *JSONGraphStore) StoreGraph(ctx context.Context, kg *graph.KnowledgeGraphData) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	data, err := json.MarshalIndent(kg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode graph")
	}

	return errors.Wrapf(os.WriteFile(s.filePath, data, 0644), "write %s", s.filePath)
}

func (s *JSONGraphStore) LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.filePath)
	}

	var kg graph.KnowledgeGraphData
	if err := json.Unmarshal(data, &kg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.filePath)
	}

	return &kg, nil
}

// MultiStore stores a graph in every store in order and loads from the first.
type MultiStore []GraphStore

func (m MultiStore) StoreGraph(ctx context.Context, kg *graph.KnowledgeGraphData) error {
	for _, s := range m {
		if err := s.StoreGraph(ctx, kg); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiStore) LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error) {
	if len(m) == 0 {
		return nil, errors.New("no graph store configured")
	}
	return m[0].LoadGraph(ctx)
}
