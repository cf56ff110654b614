package pantheon

import (
	"sync"

	"github.com/pantheonlab/pantheon/pkg/types"
)

// Hook function types for catalog events.
type (
	// FigureMergedHook is called when a duplicate figure is merged away.
	FigureMergedHook func(pair types.MergePair)

	// FigurePromotedHook is called when a candidate becomes a figure.
	FigurePromotedHook func(id types.FigureID)
)

// hooks manages event callbacks for catalog changes.
type hooks struct {
	mu               sync.RWMutex
	onFigureMerged   []FigureMergedHook
	onFigurePromoted []FigurePromotedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnFigureMerged registers a callback for merged pairs.
func (h *hooks) OnFigureMerged(fn FigureMergedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFigureMerged = append(h.onFigureMerged, fn)
}

// OnFigurePromoted registers a callback for promotions.
func (h *hooks) OnFigurePromoted(fn FigurePromotedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFigurePromoted = append(h.onFigurePromoted, fn)
}

func (h *hooks) triggerFigureMerged(pair types.MergePair) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFigureMerged {
		hook(pair)
	}
}

func (h *hooks) triggerFigurePromoted(id types.FigureID) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFigurePromoted {
		hook(id)
	}
}
