package algorithms

import (
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// ReachOptions configures a multi-source reachability search.
type ReachOptions struct {
	MaxHops int                       // 0 = unlimited
	Blocked func(contact.NodeID) bool // nodes that can neither be entered nor crossed; nil blocks nothing
}

// ReachResult holds the BFS neighbourhood of a set of sources.
type ReachResult struct {
	Sources        []contact.NodeID
	ByHop          map[int][]contact.NodeID // hop distance -> node IDs at that distance
	Distances      map[contact.NodeID]int   // node ID -> shortest hop count from any source
	TotalReachable int                      // includes the sources
}

// Nodes returns every reached node in BFS order, sources first.
func (r *ReachResult) Nodes() []contact.NodeID {
	nodes := make([]contact.NodeID, 0, r.TotalReachable)
	for hop := 0; hop < len(r.ByHop); hop++ {
		nodes = append(nodes, r.ByHop[hop]...)
	}
	return nodes
}

type bfsEntry struct {
	nodeID contact.NodeID
	hop    int
}

// Reachable performs a BFS from every source at once. Blocked sources are
// skipped; blocked nodes are never entered. With a vaccination mask as Blocked
// this is exactly the set a certain (p = 1) outbreak would infect.
func Reachable(g *contact.Graph, sources []contact.NodeID, opts ReachOptions) *ReachResult {
	blocked := opts.Blocked
	if blocked == nil {
		blocked = func(contact.NodeID) bool { return false }
	}

	visited := make(map[contact.NodeID]bool)
	distances := make(map[contact.NodeID]int)
	byHop := make(map[int][]contact.NodeID)
	queue := make([]bfsEntry, 0, len(sources))

	for _, src := range sources {
		if !g.Contains(src) || visited[src] || blocked(src) {
			continue
		}
		visited[src] = true
		distances[src] = 0
		byHop[0] = append(byHop[0], src)
		queue = append(queue, bfsEntry{nodeID: src})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if opts.MaxHops > 0 && current.hop >= opts.MaxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, neighborID := range g.Neighbors(current.nodeID) {
			if visited[neighborID] || blocked(neighborID) {
				continue
			}
			visited[neighborID] = true
			distances[neighborID] = nextHop
			byHop[nextHop] = append(byHop[nextHop], neighborID)
			queue = append(queue, bfsEntry{nodeID: neighborID, hop: nextHop})
		}
	}

	return &ReachResult{
		Sources:        sources,
		ByHop:          byHop,
		Distances:      distances,
		TotalReachable: len(distances),
	}
}
