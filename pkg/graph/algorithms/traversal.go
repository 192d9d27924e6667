package algorithms

import (
	"context"
	"fmt"

	"github.com/athapong/plasticity-go/pkg/graph"
)

type TraversalType string

const (
	BFS TraversalType = "BFS"
	DFS TraversalType = "DFS"
)

// GraphTraversal walks a generated knowledge graph along its edges in both
// directions.
type GraphTraversal struct {
	nodes     map[string]graph.Node
	labels    map[string]string   // node label to node ID
	adjacency map[string][]string // node ID to neighbour IDs in edge order
	edges     []graph.Edge
}

func NewGraphTraversal(kg *graph.KnowledgeGraphData) *GraphTraversal {
	t := &GraphTraversal{
		nodes:     make(map[string]graph.Node, len(kg.Nodes)),
		labels:    make(map[string]string, len(kg.Nodes)),
		adjacency: make(map[string][]string),
		edges:     kg.Edges,
	}
	for _, n := range kg.Nodes {
		t.nodes[n.ID] = n
		t.labels[n.Label] = n.ID
	}
	for _, e := range kg.Edges {
		t.adjacency[e.Source] = append(t.adjacency[e.Source], e.Target)
		t.adjacency[e.Target] = append(t.adjacency[e.Target], e.Source)
	}
	return t
}

// Traverse returns the nodes reachable from the node labelled startLabel
// within maxDepth edges, in visiting order. The start node comes first.
func (t *GraphTraversal) Traverse(ctx context.Context, startLabel string, maxDepth int, traversalType TraversalType) ([]graph.Node, error) {
	startID, ok := t.labels[startLabel]
	if !ok {
		return nil, fmt.Errorf("no node labelled %q", startLabel)
	}

	var order []string
	var err error
	switch traversalType {
	case BFS:
		order, err = t.bfs(ctx, startID, maxDepth)
	case DFS:
		order, err = t.dfs(ctx, startID, maxDepth)
	default:
		return nil, fmt.Errorf("unsupported traversal type: %s", traversalType)
	}
	if err != nil {
		return nil, err
	}

	result := make([]graph.Node, 0, len(order))
	for _, id := range order {
		result = append(result, t.nodes[id])
	}
	return result, nil
}

// Subgraph returns the nodes found by Traverse and the edges between them.
func (t *GraphTraversal) Subgraph(ctx context.Context, startLabel string, maxDepth int, traversalType TraversalType) (*graph.KnowledgeGraphData, error) {
	nodes, err := t.Traverse(ctx, startLabel, maxDepth, traversalType)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		kept[n.ID] = true
	}
	edges := make([]graph.Edge, 0)
	for _, e := range t.edges {
		if kept[e.Source] && kept[e.Target] {
			edges = append(edges, e)
		}
	}
	return &graph.KnowledgeGraphData{Nodes: nodes, Edges: edges}, nil
}

func (t *GraphTraversal) bfs(ctx context.Context, startID string, maxDepth int) ([]string, error) {
	visited := map[string]bool{startID: true}
	result := []string{startID}
	level := []string{startID}

	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next []string
		for _, current := range level {
			for _, n := range t.adjacency[current] {
				if !visited[n] {
					visited[n] = true
					result = append(result, n)
					next = append(next, n)
				}
			}
		}
		level = next
	}
	return result, nil
}

type frame struct {
	id    string
	depth int
}

func (t *GraphTraversal) dfs(ctx context.Context, startID string, maxDepth int) ([]string, error) {
	visited := make(map[string]bool)
	var result []string
	stack := []frame{{startID, 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[top.id] {
			continue
		}
		visited[top.id] = true
		result = append(result, top.id)

		if top.depth == maxDepth {
			continue
		}
		neighbours := t.adjacency[top.id]
		// pushed in reverse so the first neighbour is visited first
		for i := len(neighbours) - 1; i >= 0; i-- {
			if !visited[neighbours[i]] {
				stack = append(stack, frame{neighbours[i], top.depth + 1})
			}
		}
	}
	return result, nil
}
