package graph

import (
	"context"
	"time"

	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

// Content types understood by the processors.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
	ContentTypePDF  = "application/pdf"
)

// Entity is an entity mention extracted from an analysed document
type Entity struct {
	Label      string                 `json:"label"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Confidence float64                `json:"confidence"`
}

// Relationship links two entity labels found in the same relation tree
type Relationship struct {
	Type       string                 `json:"type"`
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Confidence float64                `json:"confidence"`
}

// Document is one input file travelling through the pipeline
type Document struct {
	ID          string
	Content     string
	ContentType string
	Metadata    map[string]interface{}

	// Set by the analysis processor.
	Analysis    *core.Response
	Entities    []Entity
	Relations   []Relationship
	ProcessedAt time.Time
}

// DocumentProcessor transforms a document in place. The pipeline only runs
// processors whose SupportedTypes include the document's current content type.
type DocumentProcessor interface {
	Process(ctx context.Context, doc *Document) error
	SupportedTypes() []string
}

// Analyzer sends text to the core analysis API. *core.Endpoint implements it.
type Analyzer interface {
	Post(ctx context.Context, text string, flags core.Flags) (*core.Response, error)
}

// Node represents a node in the knowledge graph
type Node struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Sources    []string               `json:"sources,omitempty"` // Document IDs where this node was found
}

// Edge represents a relationship between nodes in the knowledge graph
type Edge struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Weight     float64                `json:"weight"`
}

// KnowledgeGraphData is the exported graph
type KnowledgeGraphData struct {
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	GeneratedAt time.Time `json:"generated_at"`
}
