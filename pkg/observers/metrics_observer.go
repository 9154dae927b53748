package observers

import (
	"sync"
	"time"

	"github.com/anggasct/phaselight"
)

// MetricsObserver collects metrics about phase cycling
type MetricsObserver struct {
	phaseVisits    map[phaselight.Phase]int
	phaseTimeSpent map[phaselight.Phase]time.Duration
	sendCounts     map[phaselight.Phase]int
	errorCount     int
	cycleStarts    int
	minElapsed     time.Duration
	maxElapsed     time.Duration
	mutex          sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		phaseVisits:    make(map[phaselight.Phase]int),
		phaseTimeSpent: make(map[phaselight.Phase]time.Duration),
		sendCounts:     make(map[phaselight.Phase]int),
	}
}

// OnPhaseChange records the time spent in the phase being left
func (o *MetricsObserver) OnPhaseChange(change phaselight.PhaseChange) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits[change.To]++
	o.phaseTimeSpent[change.From] += change.Elapsed

	if o.minElapsed == 0 || change.Elapsed < o.minElapsed {
		o.minElapsed = change.Elapsed
	}
	if change.Elapsed > o.maxElapsed {
		o.maxElapsed = change.Elapsed
	}
}

// OnSend records queued phases
func (o *MetricsObserver) OnSend(lightID string, phase phaselight.Phase) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.sendCounts[phase]++
}

// OnCycleStarted records loop starts
func (o *MetricsObserver) OnCycleStarted(lightID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.cycleStarts++
}

// OnCycleStopped implements phaselight.ExtendedObserver
func (o *MetricsObserver) OnCycleStopped(lightID string) {}

// OnError records error metrics
func (o *MetricsObserver) OnError(lightID string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCount++
}

// GetPhaseVisitCounts returns how many times each phase was entered
func (o *MetricsObserver) GetPhaseVisitCounts() map[phaselight.Phase]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[phaselight.Phase]int)
	for phase, count := range o.phaseVisits {
		result[phase] = count
	}
	return result
}

// GetPhaseTimeSpent returns the measured time spent in each completed phase
func (o *MetricsObserver) GetPhaseTimeSpent() map[phaselight.Phase]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[phaselight.Phase]time.Duration)
	for phase, duration := range o.phaseTimeSpent {
		result[phase] = duration
	}
	return result
}

// GetSendCounts returns how many times each phase was queued
func (o *MetricsObserver) GetSendCounts() map[phaselight.Phase]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[phaselight.Phase]int)
	for phase, count := range o.sendCounts {
		result[phase] = count
	}
	return result
}

// GetFlipCount returns the total number of phase changes
func (o *MetricsObserver) GetFlipCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	total := 0
	for _, count := range o.phaseVisits {
		total += count
	}
	return total
}

// GetElapsedRange returns the shortest and longest measured phase
func (o *MetricsObserver) GetElapsedRange() (time.Duration, time.Duration) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.minElapsed, o.maxElapsed
}

// GetCycleStarts returns how many times a cycle loop started
func (o *MetricsObserver) GetCycleStarts() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.cycleStarts
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits = make(map[phaselight.Phase]int)
	o.phaseTimeSpent = make(map[phaselight.Phase]time.Duration)
	o.sendCounts = make(map[phaselight.Phase]int)
	o.errorCount = 0
	o.cycleStarts = 0
	o.minElapsed = 0
	o.maxElapsed = 0
}
