// Package scheduler selects, at each step, the time-stepping component
// whose update can safely run next: the one with the smallest `time`
// among those with no upstream component still behind its `nextTime`.
// It also validates the dependency graph once at startup, rejecting
// cycles that lack a delay edge and links that can never exchange
// data. There is no global clock; every component carries its own
// calendar time and the walk keeps upstream components ahead of it.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/sarchlab/finam/component"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
)

// Edge is one dependency link between two time-stepping components:
// "to" pulls from (directly or through adapters) "from". Delay marks
// the link as carrying at least one delay adapter, which cuts the edge
// for cycle-detection purposes.
type Edge struct {
	From  string
	To    string
	Delay bool
}

// LinkMode classifies one endpoint of a wired link for dead-link
// detection: a link whose downstream endpoint is push-only fed by an
// upstream that is pull-only can never exchange data.
type LinkMode struct {
	Name           string
	UpstreamPull   bool // upstream endpoint only ever serves pulls (no push path)
	DownstreamPush bool // downstream endpoint only ever receives pushes (never pulls)
}

// Graph is the static dependency structure the Scheduler walks. It is
// built once from the composition's wiring, after every link has been
// recorded.
type Graph struct {
	edges []Edge
	links []LinkMode
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph { return &Graph{} }

// AddEdge records that "to" depends on "from".
func (g *Graph) AddEdge(from, to string, delay bool) {
	g.edges = append(g.edges, Edge{From: from, To: to, Delay: delay})
}

// AddLink records one wired link's push/pull classification for
// dead-link detection.
func (g *Graph) AddLink(name string, upstreamPull, downstreamPush bool) {
	g.links = append(g.links, LinkMode{Name: name, UpstreamPull: upstreamPull, DownstreamPush: downstreamPush})
}

// Validate checks the graph for cycles without a delay edge and for
// dead links. It must be called once, after all wiring is recorded and
// before the first scheduler step; the Composition runs it at the top
// of its Connect phase so setup errors surface before any data moves.
func (g *Graph) Validate() error {
	if cyc := g.findCycleWithoutDelay(); cyc != nil {
		return fmt.Errorf("dependency cycle %v without a delay edge: %w", cyc, finamerr.ErrCycle)
	}
	for _, l := range g.links {
		if l.UpstreamPull && l.DownstreamPush {
			return fmt.Errorf("link %s: pull-only upstream feeding push-only downstream: %w", l.Name, finamerr.ErrDeadLink)
		}
	}
	return nil
}

// findCycleWithoutDelay runs a DFS over non-delay edges only (delay
// edges are dependency cuts) and returns the first cycle found, or nil.
func (g *Graph) findCycleWithoutDelay() []string {
	adj := map[string][]string{}
	for _, e := range g.edges {
		if e.Delay {
			continue
		}
		adj[e.To] = append(adj[e.To], e.From)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		color[node] = gray
		stack = append(stack, node)
		for _, next := range adj[node] {
			switch color[next] {
			case white:
				if cyc := visit(next); cyc != nil {
					return cyc
				}
			case gray:
				cut := append([]string(nil), stack...)
				return append(cut, next)
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
		return nil
	}

	nodes := map[string]bool{}
	for _, e := range g.edges {
		nodes[e.From] = true
		nodes[e.To] = true
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// upstreamOf returns the direct non-delay-cut upstream dependencies of
// node, in registration order.
func (g *Graph) upstreamOf(node string) []string {
	var out []string
	for _, e := range g.edges {
		if e.To == node && !e.Delay {
			out = append(out, e.From)
		}
	}
	return out
}

// Scheduler advances a fixed set of time-stepping components, always
// picking one whose upstream dependencies are already ahead of it.
type Scheduler struct {
	components map[string]component.TimeStepper
	order      []string // registration order, used to break time ties
	graph      *Graph
	endTime    fint.Time
	stop       func() bool
}

// New builds a Scheduler over the given components and their validated
// dependency graph. stop is polled at the top of every Step and, if it
// returns true, Step returns ("", nil) without advancing anything so
// the caller can move to finalize.
func New(components []component.TimeStepper, graph *Graph, endTime fint.Time, stop func() bool) *Scheduler {
	s := &Scheduler{components: map[string]component.TimeStepper{}, graph: graph, endTime: endTime, stop: stop}
	for _, c := range components {
		s.components[c.Name()] = c
		s.order = append(s.order, c.Name())
	}
	if s.stop == nil {
		s.stop = func() bool { return false }
	}
	return s
}

// Done reports whether every component has reached or passed endTime.
func (s *Scheduler) Done() bool {
	for _, name := range s.order {
		if s.components[name].Time().Before(s.endTime) {
			return false
		}
	}
	return true
}

// Step advances exactly one component by one update, returning the name
// of the component advanced. It returns ("", nil) if the cooperative
// stop signal is set or every component has reached endTime.
func (s *Scheduler) Step() (string, error) {
	if s.stop() || s.Done() {
		return "", nil
	}

	candidate := s.selectCandidate()
	if candidate == "" {
		return "", nil
	}

	active, err := s.walkUpstream(candidate, map[string]bool{})
	if err != nil {
		return "", err
	}

	if err := s.components[active].Update(); err != nil {
		return "", err
	}
	return active, nil
}

// selectCandidate picks the registered component with the smallest
// current time, breaking ties by registration order, among those not
// yet at endTime.
func (s *Scheduler) selectCandidate() string {
	best := ""
	for _, name := range s.order {
		c := s.components[name]
		if !c.Time().Before(s.endTime) {
			continue
		}
		if best == "" || c.Time().Before(s.components[best].Time()) {
			best = name
		}
	}
	return best
}

// walkUpstream redirects the selection: it repeatedly replaces the
// active candidate with an upstream component still behind its target
// time, until none remains behind. visiting guards against infinite
// recursion on a graph Validate should already have rejected.
func (s *Scheduler) walkUpstream(candidate string, visiting map[string]bool) (string, error) {
	if visiting[candidate] {
		return "", fmt.Errorf("scheduler: upstream walk revisited %s: %w", candidate, finamerr.ErrCycle)
	}
	visiting[candidate] = true

	target, ok := s.components[candidate]
	if !ok {
		return candidate, nil
	}
	tStar := target.NextTime()

	for _, up := range s.graph.upstreamOf(candidate) {
		upComp, ok := s.components[up]
		if !ok {
			continue // upstream is a stateless component, not scheduled directly
		}
		if upComp.Time().Before(tStar) {
			return s.walkUpstream(up, visiting)
		}
	}

	return candidate, nil
}
