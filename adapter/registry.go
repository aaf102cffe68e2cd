package adapter

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/stavekit/practice/api"
)

// RegionRegistry tracks which highlighted regions the presentation layer can
// currently resolve, plus the transient "current section" markers. Renderers
// publish regions as overlays rehydrate and withdraw them as pages unload;
// the session runtime polls Resolvable and flips markers.
type RegionRegistry struct {
	regions cmap.ConcurrentMap[string, api.Region]
	current cmap.ConcurrentMap[string, struct{}]
}

func NewRegionRegistry() *RegionRegistry {
	return &RegionRegistry{
		regions: cmap.New[api.Region](),
		current: cmap.New[struct{}](),
	}
}

// Publish makes a region resolvable.
func (r *RegionRegistry) Publish(highlightID string, region api.Region) {
	r.regions.Set(highlightID, region)
}

// Withdraw removes a region, e.g. when its page unloads.
func (r *RegionRegistry) Withdraw(highlightID string) {
	r.regions.Remove(highlightID)
	r.current.Remove(highlightID)
}

func (r *RegionRegistry) Resolvable(highlightID string) bool {
	return r.regions.Has(highlightID)
}

func (r *RegionRegistry) MarkCurrent(highlightID string) {
	r.current.Set(highlightID, struct{}{})
}

func (r *RegionRegistry) ClearCurrent() {
	r.current.Clear()
}

// Marked returns the highlight ids currently carrying the section marker.
func (r *RegionRegistry) Marked() []string {
	return r.current.Keys()
}

var _ api.Presentation = (*RegionRegistry)(nil)
