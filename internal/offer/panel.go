package offer

import "sync"

// Panel is the collapsed/expanded state of the offer card. It never affects
// the offer lifecycle.
type Panel struct {
	mu        sync.Mutex
	threshold float64
	collapsed bool
}

// NewPanel returns an expanded panel that collapses on downward drags longer
// than threshold.
func NewPanel(threshold float64) *Panel {
	return &Panel{threshold: threshold}
}

// Drag applies a released vertical drag of dy (positive is down) and returns
// the resulting collapsed flag. Short drags spring back open.
func (p *Panel) Drag(dy float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.collapsed = dy > p.threshold
	return p.collapsed
}

// Expand opens the panel.
func (p *Panel) Expand() {
	p.mu.Lock()
	p.collapsed = false
	p.mu.Unlock()
}

// Collapsed reports whether the panel is collapsed.
func (p *Panel) Collapsed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collapsed
}
