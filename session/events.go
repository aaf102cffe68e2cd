package session

import (
	"sync"

	queuepkg "github.com/Workiva/go-datastructures/queue"
	"github.com/rs/zerolog"

	"github.com/stavekit/practice/api"
	"github.com/stavekit/practice/internal/log"
)

const eventQueueHint = 16

// dispatcher fans session events out to subscribed observers. Publishing is
// fire-and-forget: events are enqueued and delivered from a single drain
// goroutine, so a slow or panicking observer never runs on the orchestrator's
// path.
type dispatcher struct {
	q      *queuepkg.Queue
	logger zerolog.Logger

	mu        sync.RWMutex
	observers []api.Observer

	drained chan struct{}
}

func newDispatcher(logger zerolog.Logger) *dispatcher {
	d := &dispatcher{
		q:       queuepkg.New(eventQueueHint),
		logger:  logger,
		drained: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) subscribe(ob api.Observer) {
	if ob == nil {
		return
	}
	d.mu.Lock()
	d.observers = append(d.observers, ob)
	d.mu.Unlock()
}

func (d *dispatcher) publish(ev api.Event) {
	if d.q.Disposed() {
		return
	}
	if err := d.q.Put(ev); err != nil {
		d.logger.Warn().Str(log.FieldEvent, ev.Kind().String()).Err(err).Msg("event dropped")
	}
}

// alive reports whether the dispatcher still accepts events.
func (d *dispatcher) alive() bool {
	return !d.q.Disposed()
}

// closeSentinel marks the end of the queue; everything enqueued before it is
// still delivered.
type closeSentinel struct{}

// close delivers every pending event, then disposes the queue. The drain
// goroutine exits and drained is closed once it has.
func (d *dispatcher) close() {
	if d.q.Disposed() {
		return
	}
	if err := d.q.Put(closeSentinel{}); err != nil {
		return
	}
	<-d.drained
}

func (d *dispatcher) run() {
	defer close(d.drained)
	defer d.q.Dispose()
	for {
		items, err := d.q.Get(1)
		if err != nil {
			// queue disposed
			return
		}
		for _, item := range items {
			if _, ok := item.(closeSentinel); ok {
				return
			}
			ev, ok := item.(api.Event)
			if !ok {
				continue
			}
			d.deliver(ev)
		}
	}
}

func (d *dispatcher) deliver(ev api.Event) {
	d.mu.RLock()
	observers := make([]api.Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, ob := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Warn().
						Str(log.FieldEvent, ev.Kind().String()).
						Interface("panic", r).
						Msg("observer panicked")
				}
			}()
			ob.HandleSessionEvent(ev)
		}()
	}
}
