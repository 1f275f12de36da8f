package devtools

import (
	"time"

	"github.com/vango-dev/fiber/pkg/fiber"
)

// Summary describes one completed pass.
type Summary struct {
	Seq    uint64    `json:"seq"`
	RootID string    `json:"rootId"`
	Time   time.Time `json:"time"`

	Fibers      int     `json:"fibers"`
	Components  int     `json:"components"`
	Hosts       int     `json:"hosts"`
	BailOuts    int     `json:"bailOuts"`
	RenderSkips int     `json:"renderSkips"`
	Teardowns   int     `json:"teardowns"`
	Recovered   int     `json:"recovered"`
	DurationMS  float64 `json:"durationMs"`

	EffectCounts map[string]int `json:"effectCounts"`
	Effects      []EffectEntry  `json:"effects"`
}

// EffectEntry is one fiber of a pass's effect list.
type EffectEntry struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Effects string `json:"effects"`
}

// Summarize captures p. Fibers are described, not retained.
func Summarize(p *fiber.Pass, seq uint64, now time.Time) Summary {
	s := p.Stats
	sum := Summary{
		Seq:          seq,
		Time:         now,
		Fibers:       s.Fibers,
		Components:   s.Components,
		Hosts:        s.Hosts,
		BailOuts:     s.BailOuts,
		RenderSkips:  s.RenderSkips,
		Teardowns:    s.Teardowns,
		Recovered:    s.Recovered,
		DurationMS:   float64(s.Duration) / float64(time.Millisecond),
		EffectCounts: make(map[string]int),
		Effects:      make([]EffectEntry, 0, len(p.Effects)),
	}
	if p.Root != nil {
		sum.RootID = p.Root.ID
	}
	for e, n := range p.EffectCounts() {
		sum.EffectCounts[e.String()] = n
	}
	for i, f := range p.Effects {
		sum.Effects = append(sum.Effects, EffectEntry{
			ID:      f.ID,
			Path:    f.Path(),
			Effects: p.Tag(i).String(),
		})
	}
	return sum
}
