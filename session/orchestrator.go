package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/stavekit/practice/api"
	"github.com/stavekit/practice/internal/log"
)

// AdvanceReason says why a section transition happened.
type AdvanceReason int

const (
	AdvanceTimerComplete AdvanceReason = iota + 1
	AdvanceManual
)

func (r AdvanceReason) String() string {
	switch r {
	case AdvanceTimerComplete:
		return "timer-complete"
	case AdvanceManual:
		return "manual"
	}
	return "unknown"
}

const deferPoolSize = 2

var errTimerUnavailable = errors.New("section timer unavailable")

// Collaborators are the external systems the orchestrator drives. Every
// field may be nil; absent collaborators degrade to no-ops with a warning.
// Collaborators are always received already constructed, never probed.
type Collaborators struct {
	Plans        api.PlanStore
	Highlights   api.HighlightStore
	Navigator    api.DocumentNavigator
	Focus        api.FocusAdapter
	Presentation api.Presentation
	Layout       api.LayoutCommands
	Timer        api.SectionTimer
	WakeLock     api.WakeLockProvider
	Visibility   api.VisibilitySignal
}

// Orchestrator owns the practice session state machine. It holds at most one
// live State at a time and is the only writer of that state; all public
// operations are serialized behind one mutex.
type Orchestrator struct {
	conf    *Config
	collab  Collaborators
	logger  zerolog.Logger
	metrics *Metrics
	events  *dispatcher
	gate    *EnvironmentGate
	wake    *WakeLockManager
	pool    *ants.Pool

	mu            sync.Mutex
	state         *State
	ctx           context.Context
	cancel        context.CancelFunc
	sectionCancel context.CancelFunc
	closed        bool

	// slog carries the session-scoped fields; outside a session it is the
	// component logger.
	slog zerolog.Logger
}

// New builds an Orchestrator from conf and its collaborators. Session
// counters are registered with reg when reg is non-nil.
func New(conf *Config, collab Collaborators, reg prometheus.Registerer) (*Orchestrator, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := VerifyConfig(conf); err != nil {
		return nil, err
	}
	logger := log.WithComponent("session")
	pool, err := ants.NewPool(deferPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		conf:    conf,
		collab:  collab,
		logger:  logger,
		slog:    logger,
		metrics: NewMetrics(reg),
		events:  newDispatcher(log.WithComponent("events")),
		pool:    pool,
	}
	o.gate = newEnvironmentGate(conf, collab.Focus, collab.Layout, collab.Presentation, pool, log.WithComponent("gate"))
	o.wake = newWakeLockManager(collab.WakeLock, collab.Visibility, o.sessionActive, o.metrics, log.WithComponent("wakelock"))
	return o, nil
}

// Subscribe registers an observer for session events.
func (o *Orchestrator) Subscribe(ob api.Observer) {
	o.events.subscribe(ob)
}

// StartFromPlan loads the plan, builds the session state, and enters the
// first section. It returns false when the plan is missing or empty, when a
// session is already running, or when anything unexpected fails during
// start; in those cases no state survives. Setup side effects (environment
// entry, wake lock, timer wiring) are best effort and never abort the start.
func (o *Orchestrator) StartFromPlan(planID, scoreID string) (started bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Str(log.FieldPlanID, planID).Msg("session start failed")
			o.teardownLocked()
			started = false
		}
	}()

	if o.closed {
		o.logger.Warn().Msg("orchestrator closed")
		return false
	}
	if o.state != nil {
		o.logger.Warn().Str(log.FieldPlanID, planID).Msg("session already active, start ignored")
		return false
	}

	plan := o.loadPlan(planID)
	if plan == nil {
		return false
	}
	if len(plan.Sections) == 0 {
		o.logger.Warn().Str(log.FieldPlanID, planID).Msg("plan has no sections")
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.ctx = ctx
	o.cancel = cancel
	o.state = &State{
		SessionID:    uuid.NewString(),
		PlanSnapshot: *plan,
		StartTime:    time.Now(),
		SectionNotes: make(map[string]string),
		ScoreID:      scoreID,
	}
	o.slog = o.logger.With().Str(log.FieldSessionID, o.state.SessionID).Logger()
	o.slog.Info().
		Str(log.FieldPlanID, planID).
		Str(log.FieldScoreID, scoreID).
		Int("sections", len(plan.Sections)).
		Msg("session started")
	o.metrics.SessionsStarted.Inc()
	o.events.publish(api.SessionConfigured{ScoreID: scoreID, Config: sessionConfigOf(plan)})

	runNonFatal(o.slog, "enter practice environment", o.gate.Enter)
	runNonFatal(o.slog, "acquire wake lock", func() error { return o.wake.Acquire(ctx) })
	// A failed timer wiring leaves the session running without automatic
	// advancement; manual advance and exit still work.
	runNonFatal(o.slog, "wire section timer", o.bindTimer)

	o.enterSectionLocked(ctx, 0)
	return true
}

// Advance moves the session to the next section, or completes it when no
// sections remain. A no-op without a live session.
func (o *Orchestrator) Advance(reason AdvanceReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return
	}
	next := o.state.CurrentSectionIndex + 1
	if next >= len(o.state.PlanSnapshot.Sections) {
		o.completeLocked()
		return
	}
	o.metrics.SectionsAdvanced.Inc()
	o.slog.Info().
		Str(log.FieldReason, reason.String()).
		Int(log.FieldSectionIndex, next).
		Msg("section advanced")
	o.state.CurrentSectionIndex = next
	o.enterSectionLocked(o.ctx, next)
}

// TogglePause flips the pause flag and freezes or resumes the countdown.
// Pausing never changes the section index and leaves any in-flight
// navigation or focus work untouched. SetPaused is called after the mutex
// is released: timers may echo the toggle through OnPauseToggle, which
// re-enters the orchestrator.
func (o *Orchestrator) TogglePause() {
	o.mu.Lock()
	if o.state == nil {
		o.mu.Unlock()
		return
	}
	o.state.Paused = !o.state.Paused
	paused := o.state.Paused
	timer := o.collab.Timer
	slog := o.slog
	o.mu.Unlock()

	if timer != nil {
		runNonFatal(slog, "pause timer", func() error {
			timer.SetPaused(paused)
			return nil
		})
	}
	slog.Info().Bool("paused", paused).Msg("pause toggled")
}

// Exit ends the session from any point, publishing session-exit and
// releasing every resource. Calling Exit without a live session is safe and
// does nothing.
func (o *Orchestrator) Exit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return
	}
	elapsed := time.Since(o.state.StartTime)
	o.slog.Info().Msg("session exited early\n" + renderReport(o.state, elapsed))
	o.metrics.SessionsExited.Inc()
	o.events.publish(api.SessionExit{ScoreID: o.state.ScoreID})
	o.teardownLocked()
}

// UpdateSectionNotes records notes for the current section, keyed by its
// highlight id. Notes survive into the completion or exit report.
func (o *Orchestrator) UpdateSectionNotes(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return
	}
	o.state.SectionNotes[o.state.currentSection().HighlightID] = text
}

// CurrentSession returns a copy of the live session state, or nil when idle.
func (o *Orchestrator) CurrentSession() *State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return nil
	}
	return o.state.clone()
}

// Close ends any active session and shuts the dispatcher and worker pool
// down. The orchestrator cannot be reused afterwards.
func (o *Orchestrator) Close() {
	o.Exit()
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()
	o.events.close()
	o.pool.Release()
}

func (o *Orchestrator) loadPlan(planID string) *api.Plan {
	if o.collab.Plans == nil {
		o.logger.Error().Str(log.FieldPlanID, planID).Msg("plan store unavailable")
		return nil
	}
	plan, err := o.collab.Plans.LoadPlan(planID)
	if err != nil || plan == nil {
		o.logger.Error().Str(log.FieldPlanID, planID).Err(err).Msg("plan not found")
		return nil
	}
	return plan
}

func (o *Orchestrator) bindTimer() error {
	if o.collab.Timer == nil {
		return errTimerUnavailable
	}
	return o.collab.Timer.Bind(api.TimerCallbacks{
		OnComplete:    func() { o.Advance(AdvanceTimerComplete) },
		OnManualNext:  func() { o.Advance(AdvanceManual) },
		OnExit:        o.Exit,
		OnPauseToggle: o.timerPauseToggled,
	})
}

// timerPauseToggled records pause toggles initiated from the timer's own UI.
func (o *Orchestrator) timerPauseToggled(paused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return
	}
	o.state.Paused = paused
}

// enterSectionLocked restarts the countdown for the section at index and
// kicks off its navigation/focus routine on a separate goroutine. Each
// section gets its own child context, cancelled when the next section is
// entered or the session ends, so a superseded routine stops at poll
// granularity and never marks or focuses a stale section.
func (o *Orchestrator) enterSectionLocked(ctx context.Context, index int) {
	sec := o.state.PlanSnapshot.Sections[index]
	if o.collab.Timer != nil {
		runNonFatal(o.slog, "start section timer", func() error {
			o.collab.Timer.StartTimer(sec.TargetTimeSeconds)
			return nil
		})
	}
	if o.sectionCancel != nil {
		o.sectionCancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	o.sectionCancel = cancel
	go o.focusSection(sctx, o.slog, index, sec)
}

func (o *Orchestrator) completeLocked() {
	elapsed := time.Since(o.state.StartTime)
	o.slog.Info().Msg("session complete\n" + renderReport(o.state, elapsed))
	o.metrics.SessionsCompleted.Inc()
	notes := make(map[string]string, len(o.state.SectionNotes))
	for k, v := range o.state.SectionNotes {
		notes[k] = v
	}
	o.events.publish(api.SessionComplete{
		ScoreID:      o.state.ScoreID,
		Config:       sessionConfigOf(&o.state.PlanSnapshot),
		Duration:     elapsed,
		SectionNotes: notes,
	})
	o.teardownLocked()
}

// teardownLocked releases every session resource and returns to Idle. It is
// safe to call with partially initialised state.
func (o *Orchestrator) teardownLocked() {
	if o.collab.Timer != nil {
		runNonFatal(o.slog, "stop section timer", func() error {
			o.collab.Timer.Stop()
			return nil
		})
	}
	if o.sectionCancel != nil {
		o.sectionCancel()
		o.sectionCancel = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
		o.ctx = nil
	}
	runNonFatal(o.slog, "exit practice environment", o.gate.Exit)
	o.wake.Release()
	o.state = nil
	o.slog = o.logger
}

func (o *Orchestrator) sessionActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != nil
}

func sessionConfigOf(plan *api.Plan) api.SessionConfig {
	return api.SessionConfig{
		PlanID:          plan.ID,
		PlanName:        plan.Name,
		Focus:           plan.Focus,
		DurationMinutes: plan.DurationMinutes,
		SectionCount:    len(plan.Sections),
	}
}
