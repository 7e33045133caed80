package graph

// Unreachable marks a pair of key nodes with no path between them.
const Unreachable = -1

// Distances holds hop counts between the key nodes of a graph: every
// rate-positive node plus the start node.
type Distances struct {
	// Keys maps a key position to a node index. Positions 0..k-1 are the
	// rate-positive nodes (so position == node index == mask bit); the start
	// node takes position k unless it is itself rate-positive.
	Keys []int
	// Start is the key position of the start node.
	Start int
	hops  [][]int
}

// Hops returns the shortest hop count between key positions a and b, or
// Unreachable.
func (d *Distances) Hops(a, b int) int { return d.hops[a][b] }

// Distances computes shortest hop counts between all key nodes with one
// breadth-first search per key node.
func (g *Graph) Distances() *Distances {
	d := &Distances{}
	for i := 0; i < g.ratePositive; i++ {
		d.Keys = append(d.Keys, i)
	}
	if g.start < g.ratePositive {
		d.Start = g.start
	} else {
		d.Start = len(d.Keys)
		d.Keys = append(d.Keys, g.start)
	}

	d.hops = make([][]int, len(d.Keys))
	for pos, from := range d.Keys {
		dist := g.bfs(from)
		row := make([]int, len(d.Keys))
		for j, to := range d.Keys {
			row[j] = dist[to]
		}
		d.hops[pos] = row
	}
	return d
}

// bfs returns hop counts from one node to every node.
func (g *Graph) bfs(from int) []int {
	dist := make([]int, len(g.nodes))
	for i := range dist {
		dist[i] = Unreachable
	}
	dist[from] = 0
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.nodes[cur].Neighbors {
			if dist[next] != Unreachable {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
