package session

import (
	"time"

	"github.com/stavekit/practice/api"
)

// State is the runtime state of one live practice session. It is exclusively
// owned and mutated by the Orchestrator; CurrentSession hands out copies only.
type State struct {
	SessionID           string
	PlanSnapshot        api.Plan
	CurrentSectionIndex int
	StartTime           time.Time
	SectionNotes        map[string]string
	ScoreID             string
	Paused              bool
}

func (s *State) currentSection() api.PlanSection {
	return s.PlanSnapshot.Sections[s.CurrentSectionIndex]
}

// clone returns a detached copy safe to hand to callers. The plan snapshot is
// immutable and shared; the notes map is copied.
func (s *State) clone() *State {
	notes := make(map[string]string, len(s.SectionNotes))
	for k, v := range s.SectionNotes {
		notes[k] = v
	}
	c := *s
	c.SectionNotes = notes
	return &c
}
