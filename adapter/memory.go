package adapter

import (
	"sync"

	"github.com/stavekit/practice/api"
)

// MemoryPlanStore is a map-backed PlanStore for tests, examples, and hosts
// that load plans ahead of time.
type MemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*api.Plan
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{plans: make(map[string]*api.Plan)}
}

func (s *MemoryPlanStore) Put(plan *api.Plan) {
	s.mu.Lock()
	s.plans[plan.ID] = plan
	s.mu.Unlock()
}

func (s *MemoryPlanStore) LoadPlan(planID string) (*api.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[planID]
	if !ok {
		return nil, api.ErrPlanNotFound
	}
	return plan, nil
}

// MemoryHighlightStore is a map-backed HighlightStore.
type MemoryHighlightStore struct {
	mu         sync.RWMutex
	highlights map[string]*api.Highlight
}

func NewMemoryHighlightStore() *MemoryHighlightStore {
	return &MemoryHighlightStore{highlights: make(map[string]*api.Highlight)}
}

func (s *MemoryHighlightStore) Put(hl *api.Highlight) {
	s.mu.Lock()
	s.highlights[hl.ID] = hl
	s.mu.Unlock()
}

func (s *MemoryHighlightStore) GetHighlight(highlightID string) (*api.Highlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hl, ok := s.highlights[highlightID]
	if !ok {
		return nil, api.ErrHighlightNotFound
	}
	return hl, nil
}

var (
	_ api.PlanStore      = (*MemoryPlanStore)(nil)
	_ api.HighlightStore = (*MemoryHighlightStore)(nil)
)
