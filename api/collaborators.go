package api

import (
	"context"
	"errors"
)

var (
	// ErrPlanNotFound is returned by PlanStore implementations when no plan
	// exists for the requested id.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrHighlightNotFound is returned by HighlightStore implementations when
	// no highlight exists for the requested id.
	ErrHighlightNotFound = errors.New("highlight not found")
)

// PlanStore resolves a plan id into an ordered section list.
type PlanStore interface {
	LoadPlan(planID string) (*Plan, error)
}

// HighlightStore resolves a highlight id into its stored region and page.
type HighlightStore interface {
	GetHighlight(highlightID string) (*Highlight, error)
}

// DocumentNavigator reports and changes the currently displayed score page.
type DocumentNavigator interface {
	CurrentPage() int
	RenderPage(ctx context.Context, page int) error
}

// FocusAdapter visually emphasizes a region and toggles region creation.
type FocusAdapter interface {
	FocusOnHighlight(highlightID string)
	EnableSelection()
	DisableSelection()
	ExitFocusMode()
}

// Presentation exposes the presentation layer's view of highlighted regions:
// whether a region is currently resolvable on screen, and the transient
// "current section" marker.
type Presentation interface {
	Resolvable(highlightID string) bool
	MarkCurrent(highlightID string)
	ClearCurrent()
}

// LayoutAction selects the direction of a layout mode switch.
type LayoutAction int

const (
	ActionEnter LayoutAction = iota + 1
	ActionExit
)

// LayoutCommands switches the host's interaction/layout mode.
type LayoutCommands interface {
	Execute(mode string, action LayoutAction) error
}

// HeldLock is a wake lock currently held against the platform. Released is
// closed if the platform revokes the lock spontaneously, e.g. when the host
// loses visibility.
type HeldLock interface {
	Release() error
	Released() <-chan struct{}
}

// WakeLockProvider requests display wake locks from the platform. Supported
// reports whether the platform offers wake locks at all.
type WakeLockProvider interface {
	Supported() bool
	Request(ctx context.Context) (HeldLock, error)
}

// VisibilitySignal delivers host visibility notifications. Subscribe returns
// a cancel function detaching the listener; implementations must tolerate
// cancel being called more than once.
type VisibilitySignal interface {
	Subscribe(fn func(visible bool)) (cancel func())
}
