package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seantiz/rssd/internal/model"
	"github.com/seantiz/rssd/internal/scene"
	"github.com/seantiz/rssd/internal/store"
)

var (
	// ErrNotRunning is returned by Stop when no render loop exists.
	ErrNotRunning = errors.New("engine not running")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("engine closed")
)

// journalTimeout bounds one event insert so a slow disk cannot stall the
// render loop indefinitely.
const journalTimeout = 5 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithFrameInterval caps the frame rate: the render loop sleeps so that
// consecutive updates start at least d apart. Zero renders as fast as the
// scene manager allows.
func WithFrameInterval(d time.Duration) Option {
	return func(e *Engine) { e.frameInterval = d }
}

// WithRenderSystem names the render system in Status.
func WithRenderSystem(name string) Option {
	return func(e *Engine) { e.renderSystem = name }
}

// Engine drives a scene.Manager from a single background goroutine.
type Engine struct {
	mgr    scene.Manager
	store  store.Store
	logger *slog.Logger
	broker *EventBroker

	frameInterval time.Duration
	renderSystem  string

	// lifecycle guards done and closed. Start, Stop and Close hold it for
	// their whole duration, so at most one worker ever exists.
	lifecycle sync.Mutex
	done      chan struct{}
	closed    atomic.Bool
	wg        sync.WaitGroup

	running atomic.Bool
	frames  atomic.Uint64

	// sceneMu serializes scene loads and unloads against frame updates.
	sceneMu sync.Mutex
	scene   string

	errMu   sync.Mutex
	loopErr error
}

// New creates an engine that owns mgr. Events are journaled to s.
func New(mgr scene.Manager, s store.Store, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		mgr:    mgr,
		store:  s,
		logger: logger,
		broker: NewEventBroker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Broker returns the engine's event broker for streaming subscribers.
func (e *Engine) Broker() *EventBroker {
	return e.broker
}

// Start launches the render loop. It is a no-op while the loop is running.
func (e *Engine) Start() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.closed.Load() {
		return ErrClosed
	}
	if e.done != nil {
		select {
		case <-e.done:
			// The previous loop ended on its own; reap it and start over.
			e.done = nil
		default:
			return nil
		}
	}

	e.setErr(nil)
	e.running.Store(true)
	engineRunning.Set(1)

	done := make(chan struct{})
	e.done = done
	e.wg.Go(func() {
		defer close(done)
		e.run()
	})

	e.logger.Info("render loop started")
	e.record(model.Event{Type: model.EventEngineStarted})
	return nil
}

// Stop ends the render loop and waits for it to exit. It returns
// ErrNotRunning when there is no loop to stop.
func (e *Engine) Stop() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	return e.stopLocked()
}

func (e *Engine) stopLocked() error {
	if e.done == nil {
		return ErrNotRunning
	}

	e.running.Store(false)
	<-e.done
	e.done = nil
	engineRunning.Set(0)

	e.logger.Info("render loop stopped", "frames", e.frames.Load())
	e.record(model.Event{Type: model.EventEngineStopped})
	return nil
}

// Running reports whether the render loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Done returns a channel that is closed when the current render loop exits,
// whether through Stop or an update error. With no loop it returns a closed
// channel.
func (e *Engine) Done() <-chan struct{} {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return e.done
}

// Err returns the error that ended the last render loop, or nil.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.loopErr
}

func (e *Engine) setErr(err error) {
	e.errMu.Lock()
	e.loopErr = err
	e.errMu.Unlock()
}

// Frames returns the number of frames rendered since New.
func (e *Engine) Frames() uint64 {
	return e.frames.Load()
}

// run is the render loop. It exits when the running flag is cleared or an
// update fails.
func (e *Engine) run() {
	last := time.Now()
	for e.running.Load() {
		start := time.Now()
		elapsed := start.Sub(last)
		last = start

		e.sceneMu.Lock()
		err := e.mgr.Update(elapsed)
		e.sceneMu.Unlock()

		frameDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			e.running.Store(false)
			engineRunning.Set(0)
			e.setErr(err)
			e.logger.Error("render loop ended", "error", err, "frames", e.frames.Load())
			e.record(model.Event{Type: model.EventEngineContextLost, Error: err.Error()})
			return
		}

		e.frames.Add(1)
		framesTotal.Inc()

		if e.frameInterval > 0 {
			if wait := e.frameInterval - time.Since(start); wait > 0 {
				time.Sleep(wait)
			}
		}
	}
}

// LoadScene replaces the current scene. It waits for any in-flight frame.
func (e *Engine) LoadScene(path string) error {
	if e.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	e.sceneMu.Lock()
	err := e.mgr.Load(path)
	if err == nil {
		e.scene = path
	} else if current, ok := e.mgr.(interface{ Current() string }); ok {
		e.scene = current.Current()
	}
	e.sceneMu.Unlock()

	ms := int(time.Since(start).Milliseconds())
	sceneOperations.WithLabelValues("load", result(err)).Inc()

	if err != nil {
		e.logger.Warn("scene load failed", "path", path, "error", err)
		e.record(model.Event{Type: model.EventSceneLoadFailed, Scene: path, Error: err.Error(), DurationMS: &ms})
		return err
	}

	e.logger.Info("scene loaded", "path", path, "duration_ms", ms)
	e.record(model.Event{Type: model.EventSceneLoaded, Scene: path, DurationMS: &ms})
	return nil
}

// UnloadScene removes the current scene. It waits for any in-flight frame.
func (e *Engine) UnloadScene() error {
	if e.closed.Load() {
		return ErrClosed
	}

	e.sceneMu.Lock()
	prev := e.scene
	err := e.mgr.Unload()
	if err == nil {
		e.scene = ""
	}
	e.sceneMu.Unlock()

	sceneOperations.WithLabelValues("unload", result(err)).Inc()
	if err != nil {
		return err
	}

	e.logger.Info("scene unloaded", "path", prev)
	e.record(model.Event{Type: model.EventSceneUnloaded, Scene: prev})
	return nil
}

// Status returns a snapshot of the engine.
func (e *Engine) Status() model.EngineStatus {
	e.sceneMu.Lock()
	current := e.scene
	e.sceneMu.Unlock()

	st := model.EngineStatus{
		Running:      e.running.Load(),
		Scene:        current,
		Frames:       e.frames.Load(),
		RenderSystem: e.renderSystem,
	}
	if err := e.Err(); err != nil {
		st.LastError = err.Error()
	}
	return st
}

// Close stops the render loop if it is running, closes the scene manager and
// the event broker. It is safe to call more than once.
func (e *Engine) Close() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.closed.Swap(true) {
		return nil
	}

	var errs []error
	if e.done != nil {
		if err := e.stopLocked(); err != nil {
			errs = append(errs, err)
		}
	}

	e.sceneMu.Lock()
	if err := e.mgr.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close scene manager: %w", err))
	}
	e.scene = ""
	e.sceneMu.Unlock()

	e.wg.Wait()
	e.broker.Close()
	return errors.Join(errs...)
}

// record stamps an event, journals it and publishes it to subscribers.
// Journal failures are logged and do not affect the caller.
func (e *Engine) record(ev model.Event) {
	ev.ID = model.NewID()
	ev.CreatedAt = time.Now().UTC()
	ev.Frames = e.frames.Load()

	if e.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if err := e.store.InsertEvent(ctx, &ev); err != nil {
			e.logger.Error("failed to journal event", "type", ev.Type, "error", err)
		}
	}
	e.broker.Publish(ev)
}
