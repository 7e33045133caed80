// Package graph holds the immutable tunnel network the planner works on.
//
// # Why Graph Package Exists
//
// Every later stage (the state space, the dynamic-programming engine, the
// solver and the branch-and-bound search) addresses nodes by a dense integer
// index and addresses activatable nodes by a bit position. This package is the
// single place where names from the input are turned into those indices:
//
//   - **Dense indices:** nodes are numbered in input order, so the same input
//     always produces the same numbering.
//   - **Rate-positive first:** a stable reordering moves every node with a
//     positive release rate to the front. Node i < k therefore owns bit i of
//     an opened-set mask, and rate-zero nodes never occupy a bit.
//   - **Symmetric adjacency:** a tunnel listed in one direction is usable in
//     both directions.
//
// # Distance Compression
//
// Graph.Distances runs a breadth-first search from the start node and from
// every rate-positive node, producing hop counts between all of them. The
// dynamic-programming engine walks raw adjacency one hop at a time and does
// not need it; the branch-and-bound search in package search collapses each
// walk into a single weighted jump using these counts.
//
// # Errors
//
// Build rejects unknown tunnel targets, negative rates, duplicate names,
// self-referencing tunnels and a missing start node. All of them wrap
// ErrMalformedInput so callers can test with errors.Is.
package graph
