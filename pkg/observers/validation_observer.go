package observers

import (
	"fmt"
	"sync"
	"time"

	"github.com/anggasct/phaselight"
)

// ValidationObserver checks that a light keeps its cycling guarantees: only
// table transitions, strictly alternating sends and intervals inside the
// configured bounds.
type ValidationObserver struct {
	allowedTransitions map[phaselight.Phase]map[phaselight.Phase]bool
	minInterval        time.Duration
	maxInterval        time.Duration
	lastSend           map[string]phaselight.Phase
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a validator for lights built with cfg
func NewValidationObserver(cfg phaselight.Config) *ValidationObserver {
	o := &ValidationObserver{
		allowedTransitions: make(map[phaselight.Phase]map[phaselight.Phase]bool),
		lastSend:           make(map[string]phaselight.Phase),
		violations:         make([]string, 0),
	}
	o.minInterval, o.maxInterval = cfg.CycleBounds()

	for _, t := range phaselight.Transitions() {
		o.AddAllowedTransition(t.From, t.To)
	}
	return o
}

// AddAllowedTransition adds an allowed transition
func (o *ValidationObserver) AddAllowedTransition(from, to phaselight.Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[phaselight.Phase]bool)
	}
	o.allowedTransitions[from][to] = true
}

// addViolation must be called with the mutex held.
func (o *ValidationObserver) addViolation(format string, args ...interface{}) {
	o.violations = append(o.violations, fmt.Sprintf(format, args...))
}

// OnPhaseChange validates the transition and its interval
func (o *ValidationObserver) OnPhaseChange(change phaselight.PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.allowedTransitions[change.From][change.To] {
		o.addViolation("light %s: transition %s -> %s is not allowed", change.LightID, change.From, change.To)
	}

	if change.Interval < o.minInterval || change.Interval > o.maxInterval {
		o.addViolation("light %s: interval %v outside [%v, %v]", change.LightID, change.Interval, o.minInterval, o.maxInterval)
	}

	if change.Elapsed < change.Interval {
		o.addViolation("light %s: flipped after %v, before its %v interval", change.LightID, change.Elapsed, change.Interval)
	}
}

// OnSend validates that consecutive sends of a light alternate
func (o *ValidationObserver) OnSend(lightID string, phase phaselight.Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if last, ok := o.lastSend[lightID]; ok && last == phase {
		o.addViolation("light %s: phase %s sent twice in a row", lightID, phase)
	}
	o.lastSend[lightID] = phase
}

// OnCycleStarted implements phaselight.ExtendedObserver
func (o *ValidationObserver) OnCycleStarted(lightID string) {}

// OnCycleStopped implements phaselight.ExtendedObserver
func (o *ValidationObserver) OnCycleStopped(lightID string) {}

// OnError records errors as violations
func (o *ValidationObserver) OnError(lightID string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.addViolation("light %s: error: %v", lightID, err)
}

// GetViolations returns all recorded violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// IsValid returns true if no violations were recorded
func (o *ValidationObserver) IsValid() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) == 0
}

// Reset clears violations and send history
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = make([]string, 0)
	o.lastSend = make(map[string]phaselight.Phase)
}
