package config

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type graph struct {
	nodes map[ServiceID][]ServiceID
}

func newGraph() *graph {
	return &graph{nodes: make(map[ServiceID][]ServiceID)}
}

func (g *graph) addNode(id ServiceID, deps ...ServiceID) {
	g.nodes[id] = deps
}

// topologicalSort orders services so dependencies come first. Services that
// don't depend on each other are ordered by type, then name.
func (g *graph) topologicalSort() []ServiceID {
	visited := make(map[ServiceID]bool)
	stack := []ServiceID{}

	var visit func(ServiceID)

	visit = func(service ServiceID) {
		if _, ok := visited[service]; !ok {
			visited[service] = true

			for _, dep := range g.nodes[service] {
				visit(dep)
			}

			stack = append(stack, service)
		}
	}

	ids := maps.Keys(g.nodes)
	slices.SortFunc(ids, func(a, b ServiceID) bool {
		if a.Type != b.Type {
			return a.Type > b.Type
		}
		return a.Name < b.Name
	})

	for _, service := range ids {
		visit(service)
	}

	return stack
}
