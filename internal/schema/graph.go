package schema

import (
	"errors"
	"fmt"
)

// The migration history is a directed graph, not a reversible chain: every up
// edge has a down edge, but a down edge may be lossy. The runner consults the
// graph before walking down and surfaces per-edge loss instead of pretending
// down is the inverse of up.

type Edge struct {
	From string
	To   string

	// Lossy marks a down edge that cannot reconstruct all data the
	// matching up edge consumed; LossyFields names what is lost.
	Lossy       bool
	LossyFields []string
}

type Graph struct {
	edges map[string][]Edge
}

func NewGraph() *Graph {
	return &Graph{edges: map[string][]Edge{}}
}

func (g *Graph) AddEdge(e Edge) {
	g.edges[e.From] = append(g.edges[e.From], e)
}

var ErrNoPath = errors.New("no path between schema versions")

// Path finds the edge sequence from one version to another, BFS over the
// directed edges. Used to answer "what happens if I roll back to X" without
// executing anything.
func (g *Graph) Path(from, to string) ([]Edge, error) {
	if from == to {
		return nil, nil
	}
	type node struct {
		version string
		path    []Edge
	}
	visited := map[string]bool{from: true}
	queue := []node{{version: from}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges[cur.version] {
			if visited[e.To] {
				continue
			}
			path := append(append([]Edge{}, cur.path...), e)
			if e.To == to {
				return path, nil
			}
			visited[e.To] = true
			queue = append(queue, node{version: e.To, path: path})
		}
	}
	return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, from, to)
}

// LossyEdges reports every edge on the path that loses data, so the runner
// can warn (or refuse) before executing a downgrade.
func LossyEdges(path []Edge) []Edge {
	var lossy []Edge
	for _, e := range path {
		if e.Lossy {
			lossy = append(lossy, e)
		}
	}
	return lossy
}
