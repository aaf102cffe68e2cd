// Package api defines the public contracts consumed by the practice session
// runtime: the plan data model, the collaborator interfaces the orchestrator
// drives, and the typed session events it publishes.
package api

// Plan is a named, ordered sequence of practice sections tied to a score.
// A plan is immutable once a session has been started from it; the
// orchestrator holds a snapshot for the lifetime of the session.
type Plan struct {
	ID              string
	Name            string
	ScoreID         string
	Focus           string
	DurationMinutes int
	Sections        []PlanSection
}

// PlanSection is one timed practice unit referencing a highlighted region.
type PlanSection struct {
	HighlightID       string
	PracticeMethod    string
	TargetTimeSeconds int
	Notes             string
}

// Highlight is a stored highlighted region and the score page it lives on.
type Highlight struct {
	ID     string
	Page   int
	Region Region
}

// Region describes a highlighted rectangle in page coordinates.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}
