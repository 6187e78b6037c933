package model

// LineageNode is one strategy in the lineage graph
type LineageNode struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Archetype    string      `json:"archetype"`
	StrategyText string      `json:"strategy_text,omitempty"`
	IsCore       bool        `json:"is_core"`
	Generation   int         `json:"generation"`
	Parents      []ParentRef `json:"parents,omitempty"`
	Avoiding     string      `json:"avoiding,omitempty"`
}

// LineageEdge records that a child strategy was derived from a parent
// with a given inheritance weight (percentage, 0-100)
type LineageEdge struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
	Weight   int    `json:"weight"`
}

// LineageGraph is the directed parent-to-child inheritance graph.
// Order preserves node registration order, which also fixes the
// first-match semantics of name-based parent resolution.
type LineageGraph struct {
	Nodes map[string]*LineageNode `json:"nodes"`
	Order []string                `json:"order"`
	Edges []LineageEdge           `json:"edges"`
}

// Node returns the node with the given id, or nil
func (g *LineageGraph) Node(id string) *LineageNode {
	return g.Nodes[id]
}

// Generations groups node ids by generation number, in registration order.
// Generation reflects when a strategy was first observed, not its distance
// from a root in the graph.
func (g *LineageGraph) Generations() map[int][]string {
	gens := make(map[int][]string)
	for _, id := range g.Order {
		node := g.Nodes[id]
		gens[node.Generation] = append(gens[node.Generation], id)
	}
	return gens
}

// InDegree returns the number of incoming (parent) edges for a node
func (g *LineageGraph) InDegree(id string) int {
	count := 0
	for _, e := range g.Edges {
		if e.ChildID == id {
			count++
		}
	}
	return count
}

// CoreCount returns the number of core (non-evolved) nodes
func (g *LineageGraph) CoreCount() int {
	count := 0
	for _, n := range g.Nodes {
		if n.IsCore {
			count++
		}
	}
	return count
}
