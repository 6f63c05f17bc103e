package write

import (
	"context"
	"fmt"
	"log/slog"
)

// graph is a declared node/edge topology over the pipeline states. The
// edges carry no behavior of their own: traversal calls the same
// transition function as the sequential driver and only checks that each
// move follows a declared edge.
type graph struct {
	entry state
	edges map[state][]state
}

// buildGraph declares the pipeline topology. The conditional route after
// evaluation (accept, retry or give up) shows up as multiple outgoing
// edges from the evaluating node.
func buildGraph() (*graph, error) {
	g := &graph{
		entry: statePreparingTerm,
		edges: map[state][]state{
			statePreparingTerm: {stateSearching, stateAbandoned},
			stateSearching:     {stateEvaluating, stateSearching, stateAbandoned},
			stateEvaluating:    {stateGenerating, stateSearching, stateAbandoned},
			stateGenerating:    {statePublishing, stateReporting, stateAbandoned},
			statePublishing:    {stateReporting},
			stateReporting:     {stateDone},
			stateDone:          nil,
			stateAbandoned:     nil,
		},
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *graph) validate() error {
	if _, ok := g.edges[g.entry]; !ok {
		return fmt.Errorf("entry state %s is not a node", g.entry)
	}
	for from, targets := range g.edges {
		if from.terminal() && len(targets) > 0 {
			return fmt.Errorf("terminal state %s has outgoing edges", from)
		}
		if !from.terminal() && len(targets) == 0 {
			return fmt.Errorf("state %s has no outgoing edges", from)
		}
		for _, to := range targets {
			if _, ok := g.edges[to]; !ok {
				return fmt.Errorf("edge %s -> %s targets an undeclared node", from, to)
			}
		}
	}
	if !g.reaches(stateDone) {
		return fmt.Errorf("done state is unreachable from %s", g.entry)
	}
	return nil
}

func (g *graph) reaches(target state) bool {
	seen := map[state]bool{g.entry: true}
	queue := []state{g.entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		for _, next := range g.edges[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func (g *graph) allows(from, to state) bool {
	for _, next := range g.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// run traverses the graph from its entry node. An undeclared transition
// means the topology and the transition function drifted apart; the run
// is abandoned rather than continued off the declared edges.
func (g *graph) run(ctx context.Context, s *Service, r *run) state {
	st := g.entry
	for !st.terminal() {
		next := s.step(ctx, st, r)
		if !g.allows(st, next) {
			r.err = fmt.Errorf("write: transition %s -> %s is not a declared edge", st, next)
			return stateAbandoned
		}
		slog.DebugContext(ctx, "graph transition", "job_id", r.job.JobID, "from", st.String(), "to", next.String())
		st = next
	}
	return st
}
