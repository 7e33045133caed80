package graph

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedInput is wrapped by every error Build returns.
var ErrMalformedInput = errors.New("graph: malformed input")

// MaxTotalRate bounds the sum of all rates so that it, and any single rate,
// fits a table cell.
const MaxTotalRate = math.MaxInt32

// Record is one node as produced by an input loader, before indexing.
type Record struct {
	Name    string
	Rate    int
	Tunnels []string
}

// Node is an indexed vertex. Neighbors holds indices into the owning Graph and
// must not be modified.
type Node struct {
	Name      string
	Rate      int
	Neighbors []int
}

// Graph is the immutable, indexed tunnel network.
type Graph struct {
	nodes        []Node
	index        map[string]int
	start        int
	ratePositive int
	totalRate    int
}

// Build indexes records and validates them. Node indices follow input order,
// except that rate-positive nodes are stably moved ahead of rate-zero ones.
func Build(records []Record, start string) (*Graph, error) {
	inputIndex := make(map[string]int, len(records))
	total := 0
	for i, r := range records {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: node %d has an empty name", ErrMalformedInput, i)
		}
		if _, dup := inputIndex[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrMalformedInput, r.Name)
		}
		if r.Rate < 0 {
			return nil, fmt.Errorf("%w: node %q has negative rate %d", ErrMalformedInput, r.Name, r.Rate)
		}
		// total never exceeds MaxTotalRate, so the subtraction cannot wrap.
		if r.Rate > MaxTotalRate-total {
			return nil, fmt.Errorf("%w: total rate exceeds %d at node %q", ErrMalformedInput, MaxTotalRate, r.Name)
		}
		total += r.Rate
		inputIndex[r.Name] = i
	}

	if _, ok := inputIndex[start]; !ok {
		return nil, fmt.Errorf("%w: start node %q not found", ErrMalformedInput, start)
	}

	// Stable partition: rate-positive nodes keep their relative input order.
	order := make([]int, 0, len(records))
	for i, r := range records {
		if r.Rate > 0 {
			order = append(order, i)
		}
	}
	ratePositive := len(order)
	for i, r := range records {
		if r.Rate == 0 {
			order = append(order, i)
		}
	}

	g := &Graph{
		nodes:        make([]Node, len(records)),
		index:        make(map[string]int, len(records)),
		ratePositive: ratePositive,
	}
	for newIdx, oldIdx := range order {
		r := records[oldIdx]
		g.nodes[newIdx] = Node{Name: r.Name, Rate: r.Rate}
		g.index[r.Name] = newIdx
		g.totalRate += r.Rate
	}
	g.start = g.index[start]

	if err := g.link(records); err != nil {
		return nil, err
	}
	return g, nil
}

// link resolves tunnel names into symmetric, de-duplicated adjacency lists.
func (g *Graph) link(records []Record) error {
	seen := make([]map[int]struct{}, len(g.nodes))
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}

	connect := func(from, to int) {
		if _, ok := seen[from][to]; ok {
			return
		}
		seen[from][to] = struct{}{}
		g.nodes[from].Neighbors = append(g.nodes[from].Neighbors, to)
	}

	for _, r := range records {
		from := g.index[r.Name]
		for _, tunnel := range r.Tunnels {
			if tunnel == r.Name {
				return fmt.Errorf("%w: self-referential tunnel on %q", ErrMalformedInput, r.Name)
			}
			to, ok := g.index[tunnel]
			if !ok {
				return fmt.Errorf("%w: tunnel from %q to unknown node %q", ErrMalformedInput, r.Name, tunnel)
			}
			connect(from, to)
			connect(to, from)
		}
	}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at index i.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Neighbors returns the adjacency of node i. The slice is shared.
func (g *Graph) Neighbors(i int) []int { return g.nodes[i].Neighbors }

// Rate returns the release rate of node i.
func (g *Graph) Rate(i int) int { return g.nodes[i].Rate }

// Start returns the index of the start node.
func (g *Graph) Start() int { return g.start }

// RatePositive returns k, the number of nodes with a positive rate. Those
// nodes occupy indices 0..k-1.
func (g *Graph) RatePositive() int { return g.ratePositive }

// TotalRate returns the sum of all rates.
func (g *Graph) TotalRate() int { return g.totalRate }

// Index looks up a node index by name.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}
