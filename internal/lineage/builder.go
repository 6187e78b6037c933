package lineage

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/okranov/evolens/internal/model"
)

// ErrTrivialLineage signals that the run contained only core strategies
// (no evolution occurred) and the node set is small enough to render as a
// flat roster. It is a rendering signal, not a failure; the graph returned
// alongside it is complete and usable.
var ErrTrivialLineage = errors.New("lineage is trivial: core strategies only")

// Builder assembles the strategy lineage graph from normalized
// tournament records
type Builder struct {
	trivialMaxNodes int
	defaultWeight   int
	log             zerolog.Logger
}

// NewBuilder creates a lineage builder
func NewBuilder(cfg model.LineageConfig, log zerolog.Logger) *Builder {
	return &Builder{
		trivialMaxNodes: cfg.TrivialMaxNodes,
		defaultWeight:   cfg.DefaultWeight,
		log:             log,
	}
}

// Build runs the two-phase construction: collect every strategy ever
// observed into nodes, then resolve declared parent references into
// weighted edges. The returned graph is never mutated afterwards.
//
// Build returns ErrTrivialLineage (with a valid graph) when the node set
// is small and entirely core.
func (b *Builder) Build(tournaments []model.Tournament) (*model.LineageGraph, error) {
	graph := &model.LineageGraph{
		Nodes: make(map[string]*model.LineageNode),
	}

	b.collectNodes(graph, tournaments)
	b.resolveEdges(graph)

	if len(graph.Nodes) <= b.trivialMaxNodes && graph.CoreCount() == len(graph.Nodes) {
		return graph, ErrTrivialLineage
	}
	return graph, nil
}

// collectNodes registers every strategy observed across all tournaments.
// First occurrence wins: a node's generation and core flag are fixed by
// the tournament that first mentions it, whether in a starting roster or
// in an evolution block.
func (b *Builder) collectNodes(graph *model.LineageGraph, tournaments []model.Tournament) {
	register := func(node *model.LineageNode) {
		if _, known := graph.Nodes[node.ID]; known {
			return
		}
		graph.Nodes[node.ID] = node
		graph.Order = append(graph.Order, node.ID)
	}

	for _, tournament := range tournaments {
		for _, strategy := range tournament.Strategies {
			register(&model.LineageNode{
				ID:           strategy.ID,
				Name:         strategy.Name,
				Archetype:    strategy.Archetype,
				StrategyText: strategy.StrategyText,
				IsCore:       true,
				Generation:   tournament.Number,
			})
		}

		for _, evolved := range tournament.Evolution.Created {
			register(&model.LineageNode{
				ID:           evolved.ID,
				Name:         evolved.Name,
				Archetype:    evolved.Archetype,
				StrategyText: evolved.StrategyText,
				IsCore:       false,
				Generation:   tournament.Number,
				Parents:      evolved.Parents,
				Avoiding:     evolved.Avoiding,
			})
		}
	}
}

// resolveEdges resolves each non-core node's parent references by exact
// name against all known nodes, first match in registration order.
// Self-matches are skipped and never produce an edge. Unresolved
// references are dropped: historical snapshots are known to reference
// strategies outside the observed window.
func (b *Builder) resolveEdges(graph *model.LineageGraph) {
	for _, childID := range graph.Order {
		child := graph.Nodes[childID]
		if child.IsCore {
			continue
		}

		for _, ref := range child.Parents {
			parent := b.findByName(graph, ref.Name, childID)
			if parent == nil {
				b.log.Info().
					Str("child", child.Name).
					Str("parent", ref.Name).
					Msg("lineage parent reference unresolved, dropping")
				continue
			}
			graph.Edges = append(graph.Edges, model.LineageEdge{
				ParentID: parent.ID,
				ChildID:  childID,
				Weight:   b.clampWeight(ref.Weight),
			})
		}
	}
}

// findByName returns the first registered node with the given name,
// skipping the child itself. Duplicate names across generations are not
// disambiguated; declaration order decides, matching the historical data.
func (b *Builder) findByName(graph *model.LineageGraph, name, childID string) *model.LineageNode {
	for _, id := range graph.Order {
		if id == childID {
			continue
		}
		if node := graph.Nodes[id]; node.Name == name {
			return node
		}
	}
	return nil
}

// clampWeight substitutes the default for undeclared weights and clamps
// declared ones into the valid percentage range
func (b *Builder) clampWeight(weight int) int {
	if weight == model.WeightUnspecified {
		weight = b.defaultWeight
	}
	if weight < 0 {
		return 0
	}
	if weight > 100 {
		return 100
	}
	return weight
}
