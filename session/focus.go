package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stavekit/practice/api"
	"github.com/stavekit/practice/internal/awaituntil"
	"github.com/stavekit/practice/internal/log"
)

// focusSection navigates the document to a section's page and asks the focus
// adapter to emphasize its region. The page must be correct before the focus
// call, since emphasis coordinates mean nothing on the wrong page. The
// routine is best effort end to end: it sits on the timer-driven path, so it
// never panics outward and never reports an error to its caller.
//
// Rendering and overlay rehydration are asynchronous with no completion
// signal, so readiness is polled with a bounded attempt budget instead of
// waiting on an event that may never come.
func (o *Orchestrator) focusSection(ctx context.Context, logger zerolog.Logger, index int, sec api.PlanSection) {
	logger = logger.With().
		Int(log.FieldSectionIndex, index).
		Str(log.FieldHighlightID, sec.HighlightID).
		Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("section focus recovered")
		}
	}()

	hl := o.resolveHighlight(logger, sec.HighlightID)

	resolved := false
	attempts := uint64(1)
	if hl == nil {
		// No stored highlight: skip navigation and polling, but still try
		// to focus whatever the presentation layer can resolve right now.
		if o.collab.Presentation != nil {
			resolved = o.collab.Presentation.Resolvable(sec.HighlightID)
		}
	} else {
		o.navigateTo(ctx, logger, hl.Page)
		if o.collab.Presentation != nil {
			attempts = o.conf.ResolvePollAttempts
			resolved = awaituntil.Poll(ctx, attempts, o.conf.ResolvePollInterval, func() bool {
				return o.collab.Presentation.Resolvable(sec.HighlightID)
			})
		}
	}

	// The section may have been superseded while waiting; a cancelled
	// routine must not touch the current-section marker or focus.
	if ctx.Err() != nil {
		logger.Debug().Msg("section superseded, focus skipped")
		return
	}
	if !resolved {
		o.metrics.FocusFailures.Inc()
		logger.Warn().
			Uint64(log.FieldAttempts, attempts).
			Msg("section region not resolvable, focus skipped")
		return
	}

	o.collab.Presentation.ClearCurrent()
	o.collab.Presentation.MarkCurrent(sec.HighlightID)
	if o.collab.Focus != nil {
		runNonFatal(logger, "focus on highlight", func() error {
			o.collab.Focus.FocusOnHighlight(sec.HighlightID)
			return nil
		})
	}
	logger.Debug().Msg("section focused")
}

func (o *Orchestrator) resolveHighlight(logger zerolog.Logger, highlightID string) *api.Highlight {
	if o.collab.Highlights == nil {
		logger.Warn().Msg("highlight store unavailable, navigation skipped")
		return nil
	}
	var hl *api.Highlight
	runNonFatal(logger, "resolve highlight", func() error {
		h, err := o.collab.Highlights.GetHighlight(highlightID)
		if err != nil {
			return err
		}
		hl = h
		return nil
	})
	if hl == nil {
		logger.Warn().Msg("highlight unresolved, navigation skipped")
	}
	return hl
}

// navigateTo renders the target page when it is not already showing, then
// waits the configured settle delay for overlay rehydration. Matching pages
// skip the wait entirely.
func (o *Orchestrator) navigateTo(ctx context.Context, logger zerolog.Logger, page int) {
	nav := o.collab.Navigator
	if nav == nil {
		logger.Warn().Int(log.FieldPage, page).Msg("navigator unavailable, navigation skipped")
		return
	}
	current := -1
	runNonFatal(logger, "read current page", func() error {
		current = nav.CurrentPage()
		return nil
	})
	if current == page {
		return
	}
	runNonFatal(logger, "render page", func() error {
		return nav.RenderPage(ctx, page)
	})
	select {
	case <-time.After(o.conf.PageSettleDelay):
	case <-ctx.Done():
	}
}
