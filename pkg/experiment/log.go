package experiment

import "sync"

// trialLog is the append-only record of every trial a runner has executed.
type trialLog struct {
	mu      sync.RWMutex
	results []SimulationResult
}

func (l *trialLog) append(results ...SimulationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, results...)
}

func (l *trialLog) snapshot() []SimulationResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]SimulationResult(nil), l.results...)
}

func (l *trialLog) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.results)
}
