package testutil

import (
	"testing"

	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/stretchr/testify/require"
)

// ReferenceScan is the ten-node tunnel network in the line format.
const ReferenceScan = `Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
Valve BB has flow rate=13; tunnels lead to valves CC, AA
Valve CC has flow rate=2; tunnels lead to valves DD, BB
Valve DD has flow rate=20; tunnels lead to valves CC, AA, EE
Valve EE has flow rate=3; tunnels lead to valves FF, DD
Valve FF has flow rate=0; tunnels lead to valves EE, GG
Valve GG has flow rate=0; tunnels lead to valves FF, HH
Valve HH has flow rate=22; tunnel leads to valve GG
Valve II has flow rate=0; tunnels lead to valves AA, JJ
Valve JJ has flow rate=21; tunnel leads to valve II
`

// ReferenceHCL is the same network expressed as an HCL scenario file.
const ReferenceHCL = referenceHCLScenario + ReferenceHCLNodes

const referenceHCLScenario = `
scenario {
  start        = "AA"
  solo_minutes = 30
  duo_minutes  = 26
}
`

// ReferenceHCLNodes holds only the node blocks of ReferenceHCL.
const ReferenceHCLNodes = `
node "AA" {
  rate    = 0
  tunnels = ["DD", "II", "BB"]
}
node "BB" {
  rate    = 13
  tunnels = ["CC", "AA"]
}
node "CC" {
  rate    = 2
  tunnels = ["DD", "BB"]
}
node "DD" {
  rate    = 20
  tunnels = ["CC", "AA", "EE"]
}
node "EE" {
  rate    = 3
  tunnels = ["FF", "DD"]
}
node "FF" {
  rate    = 0
  tunnels = ["EE", "GG"]
}
node "GG" {
  rate    = 0
  tunnels = ["FF", "HH"]
}
node "HH" {
  rate    = 22
  tunnels = ["GG"]
}
node "II" {
  rate    = 0
  tunnels = ["AA", "JJ"]
}
node "JJ" {
  rate    = 21
  tunnels = ["II"]
}
`

const (
	// ReferenceSolo is the single-agent optimum over 30 time units.
	ReferenceSolo = 1651
	// ReferenceDuo is the two-agent optimum over 26 time units each.
	ReferenceDuo = 1707
)

// ReferenceRecords returns the reference network as loader output.
func ReferenceRecords() []graph.Record {
	return []graph.Record{
		{Name: "AA", Rate: 0, Tunnels: []string{"DD", "II", "BB"}},
		{Name: "BB", Rate: 13, Tunnels: []string{"CC", "AA"}},
		{Name: "CC", Rate: 2, Tunnels: []string{"DD", "BB"}},
		{Name: "DD", Rate: 20, Tunnels: []string{"CC", "AA", "EE"}},
		{Name: "EE", Rate: 3, Tunnels: []string{"FF", "DD"}},
		{Name: "FF", Rate: 0, Tunnels: []string{"EE", "GG"}},
		{Name: "GG", Rate: 0, Tunnels: []string{"FF", "HH"}},
		{Name: "HH", Rate: 22, Tunnels: []string{"GG"}},
		{Name: "II", Rate: 0, Tunnels: []string{"AA", "JJ"}},
		{Name: "JJ", Rate: 21, Tunnels: []string{"II"}},
	}
}

// ReferenceGraph builds the reference network starting at AA.
func ReferenceGraph(t testing.TB) *graph.Graph {
	t.Helper()
	g, err := graph.Build(ReferenceRecords(), "AA")
	require.NoError(t, err)
	return g
}

// MustGraph builds a graph from records or fails the test.
func MustGraph(t testing.TB, records []graph.Record, start string) *graph.Graph {
	t.Helper()
	g, err := graph.Build(records, start)
	require.NoError(t, err)
	return g
}
