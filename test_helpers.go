package phaselight

import (
	"sync"
	"testing"
	"time"
)

// TestObserver is a mock observer for testing that captures all notifications
type TestObserver struct {
	mutex   sync.RWMutex
	Changes []PhaseChange
	Sends   []Phase
	Started []string
	Stopped []string
	Errors  []error
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnPhaseChange(change PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = append(o.Changes, change)
}

func (o *TestObserver) OnSend(lightID string, phase Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Sends = append(o.Sends, phase)
}

func (o *TestObserver) OnCycleStarted(lightID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, lightID)
}

func (o *TestObserver) OnCycleStopped(lightID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, lightID)
}

func (o *TestObserver) OnError(lightID string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// Helper methods for test assertions
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = nil
	o.Sends = nil
	o.Started = nil
	o.Stopped = nil
	o.Errors = nil
}

func (o *TestObserver) ChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Changes)
}

func (o *TestObserver) SnapshotChanges() []PhaseChange {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	result := make([]PhaseChange, len(o.Changes))
	copy(result, o.Changes)
	return result
}

func (o *TestObserver) SnapshotSends() []Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	result := make([]Phase, len(o.Sends))
	copy(result, o.Sends)
	return result
}

func (o *TestObserver) StoppedCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Stopped)
}

// WaitForChanges polls until at least n phase changes were observed
func (o *TestObserver) WaitForChanges(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if o.ChangeCount() >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return o.ChangeCount() >= n
}

// SequenceRand is a deterministic RandSource replaying values modulo n
type SequenceRand struct {
	mutex  sync.Mutex
	values []int
	next   int
}

// NewSequenceRand creates a source cycling through values
func NewSequenceRand(values ...int) *SequenceRand {
	if len(values) == 0 {
		values = []int{0}
	}
	return &SequenceRand{values: values}
}

func (r *SequenceRand) Intn(n int) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

// Test light builders - common configurations for testing

// DefaultTestConfig returns the default timing; pair it with a ScaledClock to run fast
func DefaultTestConfig() Config {
	return DefaultConfig()
}

// CreateFastLight creates a light whose clock runs scale times faster than real time
func CreateFastLight(t *testing.T, scale float64, opts ...Option) (*TrafficLight, *TestObserver) {
	t.Helper()

	observer := NewTestObserver()
	base := []Option{
		WithConfig(DefaultTestConfig()),
		WithClock(NewScaledClock(scale)),
		WithObserver(observer),
	}
	light, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create light: %v", err)
	}

	t.Cleanup(func() {
		if light.IsRunning() {
			_ = light.Stop()
		}
	})
	return light, observer
}

// AssertPhase checks the current phase of a light
func AssertPhase(t *testing.T, light *TrafficLight, expected Phase) {
	t.Helper()
	if actual := light.CurrentPhase(); actual != expected {
		t.Errorf("Expected phase '%s', got '%s'", expected, actual)
	}
}

// AssertAlternating checks that phases strictly alternate starting with first
func AssertAlternating(t *testing.T, phases []Phase, first Phase) {
	t.Helper()
	expected := first
	for i, p := range phases {
		if p != expected {
			t.Errorf("Expected phase '%s' at index %d, got '%s'", expected, i, p)
			return
		}
		expected = expected.Next()
	}
}
