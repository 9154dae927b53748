package phaselight

import (
	"fmt"
	"sync"
)

// Observer represents an entity that observes phase changes of a traffic light.
// Callbacks run on the cycle loop goroutine and must not call Stop directly,
// since Stop waits for that goroutine to exit. Use go light.Stop() instead.
type Observer interface {
	// OnPhaseChange is called after the phase flipped and was published
	OnPhaseChange(change PhaseChange)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnSend is called when a phase value is stored in the queue
	OnSend(lightID string, phase Phase)

	// OnCycleStarted is called when the cycle loop starts
	OnCycleStarted(lightID string)

	// OnCycleStopped is called when the cycle loop exits
	OnCycleStopped(lightID string)

	// OnError is called when an error occurs during cycling or notification
	OnError(lightID string, err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnPhaseChange implements the required Observer method
func (o *BaseObserver) OnPhaseChange(change PhaseChange) {}

// OnSend implements the optional ExtendedObserver method
func (o *BaseObserver) OnSend(lightID string, phase Phase) {}

// OnCycleStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnCycleStarted(lightID string) {}

// OnCycleStopped implements the optional ExtendedObserver method
func (o *BaseObserver) OnCycleStopped(lightID string) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(lightID string, err error) {}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	mutex     sync.RWMutex
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	if observer == nil {
		return
	}
	om.mutex.Lock()
	defer om.mutex.Unlock()
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	return len(om.observers)
}

func (om *ObserverManager) snapshot() []Observer {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)
	return observers
}

// guard runs fn and reports a panic to the observer's OnError, if it has one.
func guard(observer Observer, lightID, method string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if extObs, ok := observer.(ExtendedObserver); ok {
				func() {
					defer func() { recover() }()
					extObs.OnError(lightID, NewMachineError(ErrCodeObserverPanic, method, fmt.Sprintf("observer panic: %v", r)))
				}()
			}
		}
	}()
	fn()
}

// NotifyPhaseChange notifies all observers of a phase change
func (om *ObserverManager) NotifyPhaseChange(change PhaseChange) {
	for _, observer := range om.snapshot() {
		observer := observer
		guard(observer, change.LightID, "OnPhaseChange", func() {
			observer.OnPhaseChange(change)
		})
	}
}

// NotifySend notifies all observers that a phase was queued
func (om *ObserverManager) NotifySend(lightID string, phase Phase) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, lightID, "OnSend", func() {
				extObs.OnSend(lightID, phase)
			})
		}
	}
}

// NotifyCycleStarted notifies all observers that the cycle loop started
func (om *ObserverManager) NotifyCycleStarted(lightID string) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, lightID, "OnCycleStarted", func() {
				extObs.OnCycleStarted(lightID)
			})
		}
	}
}

// NotifyCycleStopped notifies all observers that the cycle loop exited
func (om *ObserverManager) NotifyCycleStopped(lightID string) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			guard(observer, lightID, "OnCycleStopped", func() {
				extObs.OnCycleStopped(lightID)
			})
		}
	}
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(lightID string, err error) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(lightID, err)
			}()
		}
	}
}
