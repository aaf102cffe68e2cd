package session

import (
	"fmt"
	"time"

	"github.com/valyala/bytebufferpool"
)

// renderReport builds the human-readable session summary logged on
// completion and on early exit. Notes are listed per section in plan order,
// keyed by highlight id.
func renderReport(state *State, elapsed time.Duration) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "plan %q (%d sections, %s elapsed)", state.PlanSnapshot.Name, len(state.PlanSnapshot.Sections), elapsed.Round(time.Second))
	for i, sec := range state.PlanSnapshot.Sections {
		fmt.Fprintf(buf, "\n  section %d [%s] target %ds", i, sec.HighlightID, sec.TargetTimeSeconds)
		if note, ok := state.SectionNotes[sec.HighlightID]; ok && note != "" {
			fmt.Fprintf(buf, " note: %s", note)
		}
	}
	return buf.String()
}
