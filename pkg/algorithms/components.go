package algorithms

import (
	"container/list"
	"sort"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// Component is one connected component of a contact network.
type Component struct {
	ID    int
	Nodes []contact.NodeID
	Size  int
}

// ComponentsResult contains every component, largest first.
type ComponentsResult struct {
	Components    []*Component
	NodeComponent map[contact.NodeID]int // Node ID -> Component ID
}

// Largest returns the biggest component, or nil for an empty result.
func (r *ComponentsResult) Largest() *Component {
	if len(r.Components) == 0 {
		return nil
	}
	return r.Components[0]
}

// ConnectedComponents finds all connected components, ignoring nodes for which
// skip returns true (nil skips nothing). Removing vaccinated nodes this way shows
// how much a policy fragments the network.
func ConnectedComponents(g *contact.Graph, skip func(contact.NodeID) bool) *ComponentsResult {
	if skip == nil {
		skip = func(contact.NodeID) bool { return false }
	}

	visited := make([]bool, g.Len())
	components := make([]*Component, 0)

	for i := 0; i < g.Len(); i++ {
		start := contact.NodeID(i)
		if visited[start] || skip(start) {
			continue
		}

		component := &Component{Nodes: make([]contact.NodeID, 0)}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(contact.NodeID)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, nodeID)

			for _, nb := range g.Neighbors(nodeID) {
				if !visited[nb] && !skip(nb) {
					visited[nb] = true
					queue.PushBack(nb)
				}
			}
		}

		component.Size = len(component.Nodes)
		components = append(components, component)
	}

	sort.SliceStable(components, func(a, b int) bool {
		return components[a].Size > components[b].Size
	})

	nodeComponent := make(map[contact.NodeID]int, g.Len())
	for id, c := range components {
		c.ID = id
		for _, n := range c.Nodes {
			nodeComponent[n] = id
		}
	}

	return &ComponentsResult{
		Components:    components,
		NodeComponent: nodeComponent,
	}
}
