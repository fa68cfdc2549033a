package contact

// Stats summarizes the topology of a contact network.
type Stats struct {
	Nodes         int         `json:"nodes"`
	Edges         int         `json:"edges"`
	AverageDegree float64     `json:"average_degree"`
	MaxDegree     int         `json:"max_degree"`
	Isolated      int         `json:"isolated"`
	DegreeCounts  map[int]int `json:"degree_counts"` // degree -> number of nodes
}

// Stats computes topology statistics in a single pass.
func (g *Graph) Stats() Stats {
	stats := Stats{
		Nodes:         len(g.adj),
		Edges:         len(g.edges),
		AverageDegree: g.AverageDegree(),
		DegreeCounts:  make(map[int]int),
	}

	for _, nbrs := range g.adj {
		d := len(nbrs)
		stats.DegreeCounts[d]++
		stats.MaxDegree = max(stats.MaxDegree, d)
		if d == 0 {
			stats.Isolated++
		}
	}

	return stats
}

// HubRatio returns MaxDegree / AverageDegree, or 0 for an edgeless graph.
// Scale-free networks typically exceed 2.
func (s Stats) HubRatio() float64 {
	if s.AverageDegree == 0 {
		return 0
	}
	return float64(s.MaxDegree) / s.AverageDegree
}
