// Package stats aggregates outcomes across an experiment run: wins per
// seat, draws and game lengths.
package stats

import (
	"encoding/json"
	"net/http"
	"sync"
)

// Collector tallies game results. Safe for concurrent use by the worker
// pool.
type Collector struct {
	mu         sync.Mutex
	games      int
	draws      int
	wins       map[string]int
	totalTurns int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{wins: make(map[string]int)}
}

// RecordResult registers one finished game. An empty winnerID is a draw.
func (c *Collector) RecordResult(winnerID string, turns int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games++
	c.totalTurns += turns
	if winnerID == "" {
		c.draws++
		return
	}
	c.wins[winnerID]++
}

// Summary is a snapshot of the run so far.
type Summary struct {
	Games        int                `json:"games"`
	Draws        int                `json:"draws"`
	Wins         map[string]int     `json:"wins"`
	WinRates     map[string]float64 `json:"win_rates"`
	AverageTurns float64            `json:"average_turns"`
}

// Snapshot returns the current tallies.
func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Games:    c.games,
		Draws:    c.draws,
		Wins:     make(map[string]int, len(c.wins)),
		WinRates: make(map[string]float64, len(c.wins)),
	}
	for id, n := range c.wins {
		s.Wins[id] = n
		if c.games > 0 {
			s.WinRates[id] = float64(n*100) / float64(c.games)
		}
	}
	if c.games > 0 {
		s.AverageTurns = float64(c.totalTurns) / float64(c.games)
	}
	return s
}

// Handler serves the current summary as JSON, for the spectator server.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}
