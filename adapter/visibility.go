package adapter

import (
	"sync"

	"github.com/stavekit/practice/api"
)

// HostVisibility is a fan-out VisibilitySignal fed by the host when the
// window or screen gains and loses visibility. Listeners are invoked outside
// the signal's lock.
type HostVisibility struct {
	mu      sync.Mutex
	subs    map[int]func(visible bool)
	next    int
	visible bool
}

func NewHostVisibility() *HostVisibility {
	return &HostVisibility{subs: make(map[int]func(bool)), visible: true}
}

// Subscribe registers fn for visibility changes. The returned cancel may be
// called more than once.
func (v *HostVisibility) Subscribe(fn func(visible bool)) (cancel func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// SetVisible records the new visibility and notifies subscribers when it
// changed.
func (v *HostVisibility) SetVisible(visible bool) {
	v.mu.Lock()
	if v.visible == visible {
		v.mu.Unlock()
		return
	}
	v.visible = visible
	fns := make([]func(bool), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.mu.Unlock()
	for _, fn := range fns {
		fn(visible)
	}
}

var _ api.VisibilitySignal = (*HostVisibility)(nil)
