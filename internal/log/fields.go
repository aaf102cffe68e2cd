package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"

	FieldSessionID    = "session_id"
	FieldPlanID       = "plan_id"
	FieldScoreID      = "score_id"
	FieldSectionIndex = "section_index"
	FieldHighlightID  = "highlight_id"
	FieldPage         = "page"
	FieldReason       = "reason"
	FieldAttempts     = "attempts"
	FieldOp           = "op"
)
