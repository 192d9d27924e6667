package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/graph"
)

// propertyPrefix namespaces flattened node and edge properties so they
// cannot collide with the fixed id, label, type and sources fields.
const propertyPrefix = "prop_"

// Neo4jStorage implements GraphStore on a Neo4j database. Nodes are stored as
// :Entity and edges as :RELATES relationships carrying their type as a
// property. Storing merges on id, so re-exporting a graph is idempotent.
type Neo4jStorage struct {
	driver neo4j.Driver
	logger *logrus.Logger
}

func NewNeo4jStorage(uri, username, password string, logger *logrus.Logger) (*Neo4jStorage, error) {
	auth := neo4j.BasicAuth(username, password, "")
	driver, err := neo4j.NewDriver(uri, auth)
	if err != nil {
		return nil, errors.Wrap(err, "create Neo4j driver")
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Neo4jStorage{driver: driver, logger: logger}, nil
}

// Connect verifies that the database is reachable.
func (s *Neo4jStorage) Connect(ctx context.Context) error {
	return errors.Wrap(s.driver.VerifyConnectivity(), "connect to Neo4j")
}

func (s *Neo4jStorage) Close() error {
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

func (s *Neo4jStorage) StoreGraph(ctx context.Context, kg *graph.KnowledgeGraphData) error {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		for _, node := range kg.Nodes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			_, err := tx.Run(`
				MERGE (e:Entity {id: $id})
				SET e.label = $label,
					e.type = $type,
					e.sources = $sources,
					e.updated_at = datetime(),
					e += $properties
			`, nodeParams(node))
			if err != nil {
				return nil, errors.Wrapf(err, "store node %s", node.ID)
			}
		}

		for _, edge := range kg.Edges {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			_, err := tx.Run(`
				MATCH (from:Entity {id: $source})
				MATCH (to:Entity {id: $target})
				MERGE (from)-[r:RELATES {id: $id}]->(to)
				SET r.type = $type,
					r.weight = $weight,
					r.updated_at = datetime(),
					r += $properties
			`, edgeParams(edge))
			if err != nil {
				return nil, errors.Wrapf(err, "store edge %s", edge.ID)
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"nodes": len(kg.Nodes),
		"edges": len(kg.Edges),
	}).Info("Stored knowledge graph in Neo4j")
	return nil
}

func (s *Neo4jStorage) LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error) {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	out, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		kg := &graph.KnowledgeGraphData{
			Nodes:       make([]graph.Node, 0),
			Edges:       make([]graph.Edge, 0),
			GeneratedAt: time.Now(),
		}

		result, err := tx.Run(`MATCH (e:Entity) RETURN e ORDER BY e.label`, nil)
		if err != nil {
			return nil, err
		}
		for result.Next() {
			node, ok := result.Record().Values[0].(neo4j.Node)
			if !ok {
				continue
			}
			kg.Nodes = append(kg.Nodes, nodeFromProps(node.Props))
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		result, err = tx.Run(`
			MATCH (from:Entity)-[r:RELATES]->(to:Entity)
			RETURN from.id AS source, to.id AS target, r
			ORDER BY r.id
		`, nil)
		if err != nil {
			return nil, err
		}
		for result.Next() {
			record := result.Record()
			source, _ := record.Get("source")
			target, _ := record.Get("target")
			rel, _ := record.Get("r")
			r, ok := rel.(neo4j.Relationship)
			if !ok {
				continue
			}
			kg.Edges = append(kg.Edges, edgeFromProps(r.Props, toString(source), toString(target)))
		}
		return kg, result.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "load graph from Neo4j")
	}
	return out.(*graph.KnowledgeGraphData), nil
}

func nodeParams(n graph.Node) map[string]interface{} {
	sources := n.Sources
	if sources == nil {
		sources = []string{}
	}
	return map[string]interface{}{
		"id":         n.ID,
		"label":      n.Label,
		"type":       n.Type,
		"sources":    sources,
		"properties": flatten(n.Properties),
	}
}

func edgeParams(e graph.Edge) map[string]interface{} {
	return map[string]interface{}{
		"id":         e.ID,
		"source":     e.Source,
		"target":     e.Target,
		"type":       e.Type,
		"weight":     e.Weight,
		"properties": flatten(e.Properties),
	}
}

func nodeFromProps(props map[string]interface{}) graph.Node {
	n := graph.Node{
		ID:         toString(props["id"]),
		Label:      toString(props["label"]),
		Type:       toString(props["type"]),
		Properties: unflatten(props),
	}
	if sources, ok := props["sources"].([]interface{}); ok {
		for _, src := range sources {
			n.Sources = append(n.Sources, toString(src))
		}
	}
	return n
}

func edgeFromProps(props map[string]interface{}, source, target string) graph.Edge {
	weight, _ := props["weight"].(float64)
	return graph.Edge{
		ID:         toString(props["id"]),
		Source:     source,
		Target:     target,
		Type:       toString(props["type"]),
		Weight:     weight,
		Properties: unflatten(props),
	}
}

// flatten keeps only values Neo4j can store as properties, rendering anything
// else as a string.
func flatten(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case nil:
			continue
		case string, bool, int, int64, float64, []string, []int64, []float64:
			out[propertyPrefix+k] = val
		default:
			out[propertyPrefix+k] = fmt.Sprint(val)
		}
	}
	return out
}

func unflatten(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range props {
		if name, ok := strings.CutPrefix(k, propertyPrefix); ok {
			out[name] = v
		}
	}
	return out
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
