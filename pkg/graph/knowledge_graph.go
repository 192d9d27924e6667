package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/metrics"
)

// KnowledgeGraphGenerator merges analysed documents into one graph. Nodes are
// keyed by entity label so the same entity found in several documents
// becomes a single node listing every source.
type KnowledgeGraphGenerator struct {
	nodes       map[string]Node   // node ID to node
	edges       map[string]Edge   // edge ID to edge
	edgeCounts  map[string]int    // edge ID to number of merged observations
	documentMap map[string]bool   // processed document IDs
	nodeIDMap   map[string]string // entity label to node ID
	mutex       sync.RWMutex
	logger      *logrus.Logger
}

func NewKnowledgeGraphGenerator() *KnowledgeGraphGenerator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &KnowledgeGraphGenerator{
		nodes:       make(map[string]Node),
		edges:       make(map[string]Edge),
		edgeCounts:  make(map[string]int),
		documentMap: make(map[string]bool),
		nodeIDMap:   make(map[string]string),
		logger:      logger,
	}
}

// SetLogger replaces the generator's logger.
func (g *KnowledgeGraphGenerator) SetLogger(logger *logrus.Logger) {
	g.logger = logger
}

// AddDocument adds the entities and relations of an analysed document.
// Adding the same document twice is a no-op.
func (g *KnowledgeGraphGenerator) AddDocument(doc *Document) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if doc == nil {
		return errors.New("cannot add nil document to graph")
	}

	if g.documentMap[doc.ID] {
		return nil
	}
	g.documentMap[doc.ID] = true

	for _, entity := range doc.Entities {
		nodeID, exists := g.nodeIDMap[entity.Label]
		if !exists {
			nodeID = uuid.New().String()
			g.nodes[nodeID] = Node{
				ID:         nodeID,
				Label:      entity.Label,
				Type:       entity.Type,
				Properties: entity.Properties,
				Sources:    []string{doc.ID},
			}
			g.nodeIDMap[entity.Label] = nodeID
			continue
		}

		node := g.nodes[nodeID]
		node.Sources = append(node.Sources, doc.ID)
		// a concept-typed mention refines an untyped node
		if node.Type == DefaultEntityType && entity.Type != DefaultEntityType {
			node.Type = entity.Type
		}
		g.nodes[nodeID] = node
	}

	for _, rel := range doc.Relations {
		sourceNodeID, sourceExists := g.nodeIDMap[rel.From]
		targetNodeID, targetExists := g.nodeIDMap[rel.To]

		if !sourceExists || !targetExists {
			g.logger.WithFields(logrus.Fields{
				"type":   rel.Type,
				"from":   rel.From,
				"to":     rel.To,
				"doc_id": doc.ID,
			}).Warn("Skipping relation with unknown entities")
			continue
		}

		edgeID := fmt.Sprintf("%s-%s-%s", sourceNodeID, rel.Type, targetNodeID)

		edge, exists := g.edges[edgeID]
		if !exists {
			properties := map[string]interface{}{}
			for k, v := range rel.Properties {
				properties[k] = v
			}
			edge = Edge{
				ID:         edgeID,
				Source:     sourceNodeID,
				Target:     targetNodeID,
				Type:       rel.Type,
				Properties: properties,
				Weight:     rel.Confidence,
			}
		} else {
			// running mean of the observed confidences
			n := float64(g.edgeCounts[edgeID])
			edge.Weight = (edge.Weight*n + rel.Confidence) / (n + 1)
		}
		g.edgeCounts[edgeID]++
		edge.Properties["observations"] = g.edgeCounts[edgeID]
		g.edges[edgeID] = edge
	}

	return nil
}

// Generate returns the graph built so far, nodes ordered by label and edges
// by ID.
func (g *KnowledgeGraphGenerator) Generate() *KnowledgeGraphData {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]Node, 0, len(g.nodes))
	nodeTypes := make(map[string]int)
	for _, node := range g.nodes {
		nodes = append(nodes, node)
		nodeTypes[node.Type]++
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Label < nodes[j].Label })

	edges := make([]Edge, 0, len(g.edges))
	edgeTypes := make(map[string]int)
	for _, edge := range g.edges {
		edges = append(edges, edge)
		edgeTypes[edge.Type]++
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for t, n := range nodeTypes {
		metrics.GraphNodeCount.WithLabelValues(t).Set(float64(n))
	}
	for t, n := range edgeTypes {
		metrics.GraphEdgeCount.WithLabelValues(t).Set(float64(n))
	}

	return &KnowledgeGraphData{
		Nodes:       nodes,
		Edges:       edges,
		GeneratedAt: time.Now(),
	}
}
