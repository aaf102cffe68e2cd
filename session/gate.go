package session

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/stavekit/practice/api"
)

// EnvironmentGate toggles the host's practice-mode interaction state. Enter
// and Exit are idempotent; entering disables region creation and shows a
// transient indicator, exiting reverts both. On constrained hosts the layout
// revert is pushed onto the background pool so the exit path never pays for
// a large synchronous reflow.
type EnvironmentGate struct {
	conf         *Config
	focus        api.FocusAdapter
	layout       api.LayoutCommands
	presentation api.Presentation
	pool         *ants.Pool
	logger       zerolog.Logger

	// availableMemory is swapped out in tests.
	availableMemory func() (uint64, bool)

	mu               sync.Mutex
	entered          bool
	indicatorVisible bool
	indicatorTimer   *time.Timer
}

func newEnvironmentGate(conf *Config, focus api.FocusAdapter, layout api.LayoutCommands, presentation api.Presentation, pool *ants.Pool, logger zerolog.Logger) *EnvironmentGate {
	return &EnvironmentGate{
		conf:            conf,
		focus:           focus,
		layout:          layout,
		presentation:    presentation,
		pool:            pool,
		logger:          logger,
		availableMemory: hostAvailableMemory,
	}
}

// Enter switches the host into practice mode. Calling Enter on an entered
// gate is a no-op.
func (g *EnvironmentGate) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entered {
		return nil
	}
	g.entered = true

	if g.focus != nil {
		runNonFatal(g.logger, "disable selection", func() error {
			g.focus.DisableSelection()
			return nil
		})
	}
	if g.layout != nil {
		runNonFatal(g.logger, "enter practice layout", func() error {
			return g.layout.Execute(g.conf.LayoutMode, api.ActionEnter)
		})
	}
	g.showIndicatorLocked()
	g.logger.Debug().Msg("practice environment entered")
	return nil
}

// Exit reverts practice mode. Calling Exit on an idle gate is a no-op.
func (g *EnvironmentGate) Exit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.entered {
		return nil
	}
	g.entered = false
	g.hideIndicatorLocked()

	if g.focus != nil {
		runNonFatal(g.logger, "enable selection", func() error {
			g.focus.EnableSelection()
			return nil
		})
	}
	if g.presentation != nil {
		runNonFatal(g.logger, "clear section markers", func() error {
			g.presentation.ClearCurrent()
			return nil
		})
	}

	revert := g.layoutRevert()
	if g.constrainedHost() && g.pool != nil {
		if err := g.pool.Submit(revert); err != nil {
			g.logger.Warn().Err(err).Msg("deferred layout revert rejected, running inline")
			revert()
		}
	} else {
		revert()
	}
	g.logger.Debug().Msg("practice environment exited")
	return nil
}

// Entered reports whether the gate is currently in practice mode.
func (g *EnvironmentGate) Entered() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.entered
}

// IndicatorVisible reports whether the transient "selection disabled"
// indicator is showing.
func (g *EnvironmentGate) IndicatorVisible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.indicatorVisible
}

func (g *EnvironmentGate) layoutRevert() func() {
	logger := g.logger
	layout := g.layout
	focus := g.focus
	mode := g.conf.LayoutMode
	return func() {
		if layout != nil {
			runNonFatal(logger, "exit practice layout", func() error {
				return layout.Execute(mode, api.ActionExit)
			})
		}
		if focus != nil {
			runNonFatal(logger, "exit focus mode", func() error {
				focus.ExitFocusMode()
				return nil
			})
		}
	}
}

func (g *EnvironmentGate) showIndicatorLocked() {
	g.indicatorVisible = true
	if g.indicatorTimer != nil {
		g.indicatorTimer.Stop()
	}
	g.indicatorTimer = time.AfterFunc(g.conf.IndicatorDuration, func() {
		g.mu.Lock()
		g.indicatorVisible = false
		g.mu.Unlock()
	})
}

func (g *EnvironmentGate) hideIndicatorLocked() {
	if g.indicatorTimer != nil {
		g.indicatorTimer.Stop()
		g.indicatorTimer = nil
	}
	g.indicatorVisible = false
}

func (g *EnvironmentGate) constrainedHost() bool {
	avail, ok := g.availableMemory()
	if !ok {
		return false
	}
	return avail < g.conf.DeferThresholdBytes
}

func hostAvailableMemory() (uint64, bool) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, false
	}
	return vm.Available, true
}
