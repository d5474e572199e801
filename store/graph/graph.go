// Package graph stores the category/intent taxonomy and the "see also"
// edges between pairs that multi-hop resolution walks, backed by Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Node is a category, intent or pair node in the taxonomy graph.
type Node struct {
	ID       string
	Kind     string // "category", "intent" or "pair"
	Name     string
	Category string // set when Kind is "intent" or "pair"
}

// Edge is a "see also" relation between two pairs, or a category→intent
// membership edge.
type Edge struct {
	ID   string
	From string
	To   string
	Type string
}

// Store is the capability interface the multi-hop resolver and registry
// builder depend on.
type Store interface {
	SaveNode(ctx context.Context, n Node) error
	SaveEdge(ctx context.Context, e Edge) error
	SaveBatch(ctx context.Context, nodes []Node, edges []Edge) error
	Neighbors(ctx context.Context, nodeID string, depth int) ([]Node, error)
	FindByCategory(ctx context.Context, category string) ([]Node, error)
	NodeCounts(ctx context.Context) (map[string]int64, error)
}

// Neo4jStore is the sole owner of Neo4j operations for the taxonomy graph.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// New creates a Neo4jStore.
func New(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{driver: driver}
}

// SaveNode creates or updates a taxonomy node.
func (g *Neo4jStore) SaveNode(ctx context.Context, n Node) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MERGE (n:Node {id: $id}) SET n.kind = $kind, n.name = $name, n.category = $category`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id": n.ID, "kind": n.Kind, "name": n.Name, "category": n.Category,
	})
	return err
}

// SaveEdge creates or updates an edge between two nodes.
func (g *Neo4jStore) SaveEdge(ctx context.Context, e Edge) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := fmt.Sprintf(
		`MATCH (a:Node {id: $from}), (b:Node {id: $to})
		 MERGE (a)-[r:%s {id: $id}]->(b)`,
		sanitizeRelType(e.Type),
	)
	_, err := sess.Run(ctx, cypher, map[string]any{"from": e.From, "to": e.To, "id": e.ID})
	return err
}

// SaveBatch saves multiple nodes and edges in one transaction, used by the
// ingestion commit step and registry rebuild.
func (g *Neo4jStore) SaveBatch(ctx context.Context, nodes []Node, edges []Edge) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, n := range nodes {
			cypher := `MERGE (n:Node {id: $id}) SET n.kind = $kind, n.name = $name, n.category = $category`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"id": n.ID, "kind": n.Kind, "name": n.Name, "category": n.Category,
			}); err != nil {
				return nil, err
			}
		}
		for _, e := range edges {
			cypher := fmt.Sprintf(
				`MATCH (a:Node {id: $from}), (b:Node {id: $to})
				 MERGE (a)-[r:%s {id: $id}]->(b)`,
				sanitizeRelType(e.Type),
			)
			if _, err := tx.Run(ctx, cypher, map[string]any{"from": e.From, "to": e.To, "id": e.ID}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Neighbors returns nodes within depth hops, used by multi-hop expansion to
// walk "see also" edges from the primary pair.
func (g *Neo4jStore) Neighbors(ctx context.Context, nodeID string, depth int) ([]Node, error) {
	if depth <= 0 {
		depth = 1
	}
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := fmt.Sprintf(
		`MATCH (start:Node {id: $id})-[*1..%d]-(n:Node)
		 WHERE n.id <> $id
		 RETURN DISTINCT n`, depth)
	result, err := sess.Run(ctx, cypher, map[string]any{"id": nodeID})
	if err != nil {
		return nil, err
	}
	return collectNodes(ctx, result)
}

// FindByCategory returns all intent nodes under a category.
func (g *Neo4jStore) FindByCategory(ctx context.Context, category string) ([]Node, error) {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (n:Node {category: $category}) RETURN n`
	result, err := sess.Run(ctx, cypher, map[string]any{"category": category})
	if err != nil {
		return nil, err
	}
	return collectNodes(ctx, result)
}

// NodeCounts returns the number of nodes per kind.
func (g *Neo4jStore) NodeCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH (n:Node) RETURN n.kind AS kind, count(n) AS c`, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		kind, _ := rec.Get("kind")
		c, _ := rec.Get("c")
		if ks, ok := kind.(string); ok {
			if cv, ok := c.(int64); ok {
				counts[ks] = cv
			}
		}
	}
	return counts, nil
}

func collectNodes(ctx context.Context, result neo4j.ResultWithContext) ([]Node, error) {
	var items []Node
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "n")
		if err != nil {
			return nil, err
		}
		items = append(items, nodeFromProps(node.Props))
	}
	return items, nil
}

func nodeFromProps(props map[string]any) Node {
	return Node{
		ID:       strProp(props, "id"),
		Kind:     strProp(props, "kind"),
		Name:     strProp(props, "name"),
		Category: strProp(props, "category"),
	}
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// sanitizeRelType ensures the relationship type is a valid Cypher identifier.
func sanitizeRelType(t string) string {
	safe := make([]byte, 0, len(t))
	for i := range t {
		c := t[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			safe = append(safe, c)
		}
	}
	if len(safe) == 0 {
		return "RELATED_TO"
	}
	for i := range safe {
		if safe[i] >= 'a' && safe[i] <= 'z' {
			safe[i] -= 32
		}
	}
	return string(safe)
}

var _ Store = (*Neo4jStore)(nil)
