package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/cluso-vaxsim/pkg/algorithms"
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/report"
	"github.com/dd0wney/cluso-vaxsim/pkg/visualization"
)

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Vaccination Policy Simulator"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.busy != "" {
		s.WriteString(contentStyle.Render(m.spinner.View() + " " + m.busy + "..."))
	} else {
		switch m.currentView {
		case summaryView:
			s.WriteString(m.renderSummary())
		case trialsView:
			s.WriteString(m.renderTrials())
		case outbreakView:
			s.WriteString(m.renderOutbreak())
		case networkView:
			s.WriteString(m.renderNetwork())
		case metricsView:
			s.WriteString(m.renderMetrics())
		}
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, 0, len(viewNames))
	for i, tab := range viewNames {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderSummary() string {
	if m.cmp == nil {
		return contentStyle.Render("No comparison yet")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("Averages over runs"))
	s.WriteString("\n\n")
	s.WriteString(m.summaryTable.View())
	s.WriteString("\n\n")

	cfg := m.runner.Config()
	s.WriteString(fmt.Sprintf("Experiment %s  seed=%d\n", m.cmp.ExperimentID, m.cmp.Seed))
	s.WriteString(fmt.Sprintf("%d dogs, %d seeded, %d vaccines, p=%.2f, %d runs per policy, took %s",
		m.cmp.Population, cfg.InitialInfected, cfg.VaccineQuota, cfg.InfectionProb, cfg.Trials, m.cmp.Duration.Round(time.Millisecond)))

	return contentStyle.Render(s.String())
}

func (m model) renderTrials() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Individual runs"))
	s.WriteString("\n\n")
	s.WriteString(m.trialTable.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓ select • enter replays the run in the Outbreak view"))
	return contentStyle.Render(s.String())
}

func (m model) renderOutbreak() string {
	if m.scene == nil {
		return contentStyle.Render("No outbreak replayed yet")
	}

	cols := max(20, m.width-32)
	rows := max(8, m.height-16)
	canvas := visualization.Rasterize(m.scene, m.frame, cols, rows, m.edges)

	info := m.outbreakInfo()
	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		canvasBoxStyle.Render(renderCanvas(canvas)),
		statsBoxStyle.Render(info),
	))
}

func (m model) outbreakInfo() string {
	g := m.graph
	vaccinated := make([]bool, g.Len())
	for _, id := range m.trace.Vaccinated {
		vaccinated[id] = true
	}
	blocked := func(id contact.NodeID) bool { return vaccinated[id] }

	// With p = 1 every node reachable around the vaccinated set would fall
	reach := algorithms.Reachable(g, m.trace.Seeds, algorithms.ReachOptions{Blocked: blocked})

	playing := "paused"
	if m.playing {
		playing = "playing"
	}

	var s strings.Builder
	fmt.Fprintf(&s, "%s run %d\n", m.policy, m.trial)
	fmt.Fprintf(&s, "Layout: %s (%s)\n\n", m.layout, playing)
	fmt.Fprintf(&s, "Wave %d/%d\n", m.frame+1, m.scene.Frames())
	fmt.Fprintf(&s, "Infected now: %d\n", m.scene.InfectedAt(m.frame))
	fmt.Fprintf(&s, "Final:        %d\n", m.trace.Result.FinalInfected)
	fmt.Fprintf(&s, "Vaccinated:   %d\n", m.trace.Result.Vaccinated)
	fmt.Fprintf(&s, "Worst case:   %d\n\n", reach.TotalReachable)

	legend := []struct {
		status visualization.Status
		glyph  rune
	}{
		{visualization.Seeded, visualization.GlyphSeed},
		{visualization.Infected, visualization.GlyphInfected},
		{visualization.Vaccinated, visualization.GlyphVaccinated},
		{visualization.Susceptible, visualization.GlyphSusceptible},
	}
	for _, l := range legend {
		s.WriteString(statusStyles[l.status].Render(string(l.glyph)) + " " + l.status.String() + "\n")
	}
	return s.String()
}

// renderCanvas colors each run of same-status cells with one style call
func renderCanvas(c *visualization.Canvas) string {
	const blank, edge = -2, -1

	var s strings.Builder
	for y := 0; y < c.Rows; y++ {
		var run strings.Builder
		runKind := blank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			switch runKind {
			case blank:
				s.WriteString(run.String())
			case edge:
				s.WriteString(edgeStyle.Render(run.String()))
			default:
				s.WriteString(statusStyles[visualization.Status(runKind)].Render(run.String()))
			}
			run.Reset()
		}

		for x := 0; x < c.Cols; x++ {
			cell := c.At(x, y)
			kind := blank
			switch {
			case cell.Node:
				kind = int(cell.Status)
			case cell.Glyph != ' ':
				kind = edge
			}
			if kind != runKind {
				flush()
				runKind = kind
			}
			run.WriteRune(cell.Glyph)
		}
		flush()
		if y < c.Rows-1 {
			s.WriteByte('\n')
		}
	}
	return s.String()
}

func (m model) renderNetwork() string {
	if m.graph == nil {
		return contentStyle.Render("No graph")
	}

	stats := m.graph.Stats()
	components := algorithms.ConnectedComponents(m.graph, nil)

	var s strings.Builder
	s.WriteString(headerStyle.Render("Contact network"))
	s.WriteString("\n\n")
	report.WriteGraphStats(&s, stats, components.Largest().Size)
	fmt.Fprintf(&s, "Model %s, seed %d, %d components, hub ratio %.2f\n",
		m.cfg.Graph.Model, m.graphSeed, len(components.Components), stats.HubRatio())

	if m.trace != nil {
		vaccinated := make([]bool, m.graph.Len())
		for _, id := range m.trace.Vaccinated {
			vaccinated[id] = true
		}
		left := algorithms.ConnectedComponents(m.graph, func(id contact.NodeID) bool { return vaccinated[id] })
		largest := 0
		if l := left.Largest(); l != nil {
			largest = l.Size
		}
		fmt.Fprintf(&s, "After %s vaccination: %d components, largest %d\n",
			m.policy, len(left.Components), largest)
	}

	s.WriteString("\nDegree distribution\n")
	degrees := make([]int, 0, len(stats.DegreeCounts))
	for d := range stats.DegreeCounts {
		degrees = append(degrees, d)
	}
	slices.Sort(degrees)
	peak := 0
	for _, n := range stats.DegreeCounts {
		peak = max(peak, n)
	}
	barWidth := max(10, m.width-30)
	for _, d := range degrees {
		n := stats.DegreeCounts[d]
		bar := strings.Repeat("█", max(1, n*barWidth/max(peak, 1)))
		fmt.Fprintf(&s, "%4d │ %-5d %s\n", d, n, bar)
	}

	return contentStyle.Render(s.String())
}

func (m model) renderMetrics() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Metrics"))
	s.WriteString("\n\n")

	families, err := m.metrics.GetPrometheusRegistry().Gather()
	if err != nil {
		s.WriteString(errorStyle.Render(err.Error()))
		return contentStyle.Render(s.String())
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			value, ok := metricValue(mf.GetType(), metric)
			if !ok {
				continue
			}
			fmt.Fprintf(&s, "%-40s %-28s %12.2f\n", mf.GetName(), labelString(metric), value)
		}
	}
	return contentStyle.Render(s.String())
}

// metricValue reads counters and gauges as is and histograms as their mean
func metricValue(t dto.MetricType, m *dto.Metric) (float64, bool) {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), true
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		if h.GetSampleCount() == 0 {
			return 0, false
		}
		return h.GetSampleSum() / float64(h.GetSampleCount()), true
	default:
		return 0, false
	}
}

func labelString(m *dto.Metric) string {
	parts := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		parts = append(parts, l.GetName()+"="+l.GetValue())
	}
	return strings.Join(parts, ",")
}
