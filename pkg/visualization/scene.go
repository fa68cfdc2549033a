package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/spread"
)

// Scene is one outbreak laid out for display. Frame f shows the infection
// after waves 0..f; frame 0 is the seeded state.
type Scene struct {
	Graph      *contact.Graph
	Positions  []Position
	Vaccinated []contact.NodeID
	Waves      spread.Waves
}

// NewScene lays out g and binds the recorded outbreak to it
func NewScene(g *contact.Graph, layout Layout, vaccinated []contact.NodeID, waves spread.Waves) (*Scene, error) {
	if g == nil {
		return nil, contact.InvalidParameterError("visualization.NewScene", "graph is nil")
	}
	positions, err := layout.ComputeLayout(g)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	if len(positions) != g.Len() {
		return nil, fmt.Errorf("layout returned %d positions for %d nodes", len(positions), g.Len())
	}
	return &Scene{
		Graph:      g,
		Positions:  positions,
		Vaccinated: vaccinated,
		Waves:      waves,
	}, nil
}

// Frames returns the number of distinct frames, at least 1
func (s *Scene) Frames() int {
	return max(1, len(s.Waves))
}

// StatusAt returns the status of every node at the given frame. Frames past
// the end clamp to the final state.
func (s *Scene) StatusAt(frame int) []Status {
	statuses := make([]Status, s.Graph.Len())
	for _, id := range s.Vaccinated {
		if s.Graph.Contains(id) {
			statuses[id] = Vaccinated
		}
	}

	frame = min(max(frame, 0), s.Frames()-1)
	for w := 0; w <= frame && w < len(s.Waves); w++ {
		status := Infected
		if w == 0 {
			status = Seeded
		}
		for _, id := range s.Waves[w] {
			if s.Graph.Contains(id) {
				statuses[id] = status
			}
		}
	}
	return statuses
}

// InfectedAt returns how many nodes are infected at the given frame
func (s *Scene) InfectedAt(frame int) int {
	n := 0
	for _, st := range s.StatusAt(frame) {
		if st == Infected || st == Seeded {
			n++
		}
	}
	return n
}

// ExportJSON exports one frame of the scene to JSON
func (s *Scene) ExportJSON(frame int) ([]byte, error) {
	type NodeViz struct {
		ID     int     `json:"id"`
		Status string  `json:"status"`
		Degree int     `json:"degree"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}

	type EdgeViz struct {
		From int `json:"from"`
		To   int `json:"to"`
	}

	type VizData struct {
		Frame  int       `json:"frame"`
		Frames int       `json:"frames"`
		Nodes  []NodeViz `json:"nodes"`
		Edges  []EdgeViz `json:"edges"`
	}

	statuses := s.StatusAt(frame)
	data := VizData{
		Frame:  min(max(frame, 0), s.Frames()-1),
		Frames: s.Frames(),
		Nodes:  make([]NodeViz, 0, s.Graph.Len()),
		Edges:  make([]EdgeViz, 0, s.Graph.EdgeCount()),
	}

	for i, pos := range s.Positions {
		id := contact.NodeID(i)
		data.Nodes = append(data.Nodes, NodeViz{
			ID:     i,
			Status: statuses[i].String(),
			Degree: s.Graph.Degree(id),
			X:      pos.X,
			Y:      pos.Y,
		})
		for _, nb := range s.Graph.Neighbors(id) {
			if nb > id {
				data.Edges = append(data.Edges, EdgeViz{From: i, To: int(nb)})
			}
		}
	}

	return json.Marshal(data)
}
