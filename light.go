// Package phaselight models a single traffic signal whose phase is flipped by
// a background cycle loop and handed to waiters through a blocking queue.
package phaselight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/anggasct/phaselight/pkg/queue"
)

// Signal is the contract external collaborators use to drive a light
type Signal interface {
	Simulate() error
	SimulateWithContext(ctx context.Context) error
	Stop() error

	CurrentPhase() Phase
	WaitForGreen()
	WaitForGreenWithContext(ctx context.Context) error

	AddObserver(observer Observer)
	RemoveObserver(observer Observer)
}

var _ Signal = (*TrafficLight)(nil)

// MachineState represents the run state of the cycle loop
type MachineState int

const (
	// Cycle loop is not running
	MachineStateStopped MachineState = iota
	// Cycle loop is flipping phases
	MachineStateRunning
)

// String returns the lower-case name of the state
func (s MachineState) String() string {
	if s == MachineStateRunning {
		return "running"
	}
	return "stopped"
}

// TrafficLight owns one phase and one queue of published phases.
type TrafficLight struct {
	id        string
	config    Config
	clock     Clock
	rand      RandSource
	phase     atomic.Int32
	queue     *queue.Queue[Phase]
	observers *ObserverManager

	mutex  sync.Mutex
	state  MachineState
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a TrafficLight
type Option func(*TrafficLight)

// WithConfig replaces the default timing
func WithConfig(cfg Config) Option {
	return func(tl *TrafficLight) {
		tl.config = cfg
	}
}

// WithClock replaces the wall clock used by the cycle loop and the queue latency
func WithClock(clock Clock) Option {
	return func(tl *TrafficLight) {
		if clock != nil {
			tl.clock = clock
		}
	}
}

// WithRandSource replaces the time-seeded random source
func WithRandSource(src RandSource) Option {
	return func(tl *TrafficLight) {
		if src != nil {
			tl.rand = src
		}
	}
}

// WithObserver registers an observer at construction time
func WithObserver(observer Observer) Option {
	return func(tl *TrafficLight) {
		tl.observers.AddObserver(observer)
	}
}

// WithID sets the light identifier reported to observers
func WithID(id string) Option {
	return func(tl *TrafficLight) {
		if id != "" {
			tl.id = id
		}
	}
}

// New creates a red traffic light. The cycle loop is not started.
func New(opts ...Option) (*TrafficLight, error) {
	tl := &TrafficLight{
		id:        uuid.New().String(),
		config:    DefaultConfig(),
		clock:     WallClock(),
		observers: NewObserverManager(),
	}

	for _, opt := range opts {
		opt(tl)
	}

	if err := tl.config.Validate(); err != nil {
		return nil, err
	}

	if tl.rand == nil {
		tl.rand = NewRandSource(time.Now().UnixNano())
	}

	tl.phase.Store(int32(Red))
	tl.queue = queue.New[Phase](
		queue.WithOrder(tl.config.QueueOrder),
		queue.WithSendLatency(tl.config.SendLatency()),
		queue.WithSleep(tl.clock.Sleep),
	)

	return tl, nil
}

// ID returns the light identifier
func (tl *TrafficLight) ID() string {
	return tl.id
}

// Config returns the timing the light was built with
func (tl *TrafficLight) Config() Config {
	return tl.config
}

// CurrentPhase returns the phase without blocking. The value may change
// immediately after the read.
func (tl *TrafficLight) CurrentPhase() Phase {
	return Phase(tl.phase.Load())
}

// Pending returns the number of published phases nobody has received yet
func (tl *TrafficLight) Pending() int {
	return tl.queue.Len()
}

// AddObserver adds an observer to the light
func (tl *TrafficLight) AddObserver(observer Observer) {
	tl.observers.AddObserver(observer)
}

// RemoveObserver removes an observer from the light
func (tl *TrafficLight) RemoveObserver(observer Observer) {
	tl.observers.RemoveObserver(observer)
}

// State returns the run state of the cycle loop
func (tl *TrafficLight) State() MachineState {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	return tl.state
}

// IsRunning reports whether the cycle loop is active
func (tl *TrafficLight) IsRunning() bool {
	return tl.State() == MachineStateRunning
}

// Simulate starts the cycle loop in the background and returns immediately
func (tl *TrafficLight) Simulate() error {
	return tl.SimulateWithContext(context.Background())
}

// SimulateWithContext starts the cycle loop, which exits when ctx is done or
// Stop is called. Only one loop may run at a time.
func (tl *TrafficLight) SimulateWithContext(ctx context.Context) error {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()

	if tl.state == MachineStateRunning {
		return NewAlreadyStartedError("Simulate")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	tl.state = MachineStateRunning
	tl.cancel = cancel
	tl.done = done

	go tl.cycleThroughPhases(loopCtx, done)
	return nil
}

// Stop cancels the cycle loop and waits for it to exit. The phase is kept,
// so a later Simulate resumes from it. Calling Stop from an observer callback
// deadlocks; stop from another goroutine.
func (tl *TrafficLight) Stop() error {
	tl.mutex.Lock()
	if tl.state != MachineStateRunning {
		tl.mutex.Unlock()
		return NewNotStartedError("Stop")
	}
	cancel, done := tl.cancel, tl.done
	tl.mutex.Unlock()

	cancel()
	<-done
	return nil
}

// WaitForGreen blocks until this call receives a green phase from the queue.
func (tl *TrafficLight) WaitForGreen() {
	_, _ = tl.waitForGreen(func() (Phase, error) {
		return tl.queue.Receive(), nil
	})
}

// WaitForGreenWithContext is like WaitForGreen but returns ctx.Err() once ctx
// is done and no phase is available.
func (tl *TrafficLight) WaitForGreenWithContext(ctx context.Context) error {
	_, err := tl.waitForGreen(func() (Phase, error) {
		return tl.queue.ReceiveContext(ctx)
	})
	return err
}

// waitForGreen returns how many phases were consumed.
func (tl *TrafficLight) waitForGreen(receive func() (Phase, error)) (int, error) {
	consumed := 0
	for {
		phase, err := receive()
		if err != nil {
			return consumed, err
		}
		consumed++
		if phase == Green {
			return consumed, nil
		}
	}
}

func (tl *TrafficLight) cycleThroughPhases(ctx context.Context, done chan struct{}) {
	defer func() {
		tl.mutex.Lock()
		if tl.done == done {
			tl.cancel()
			tl.state = MachineStateStopped
			tl.cancel = nil
		}
		tl.mutex.Unlock()

		tl.observers.NotifyCycleStopped(tl.id)
		close(done)
	}()

	tl.observers.NotifyCycleStarted(tl.id)

	poll := tl.config.PollInterval()
	threshold := drawCycle(tl.rand, tl.config.MinCycleSeconds, tl.config.MaxCycleSeconds)
	start := tl.clock.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tl.clock.Sleep(poll)

		now := tl.clock.Now()
		elapsed := now.Sub(start)
		if elapsed <= threshold {
			continue
		}

		transition, err := NextTransition(tl.CurrentPhase())
		if err != nil {
			tl.observers.NotifyError(tl.id, err)
			return
		}
		tl.phase.Store(int32(transition.To))

		change := NewPhaseChange(tl.id, transition.From, transition.To, threshold, elapsed, now)

		threshold = drawCycle(tl.rand, tl.config.MinCycleSeconds, tl.config.MaxCycleSeconds)
		start = tl.clock.Now()

		tl.queue.Send(transition.To)
		tl.observers.NotifySend(tl.id, transition.To)
		tl.observers.NotifyPhaseChange(change)
	}
}
