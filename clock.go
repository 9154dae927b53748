package phaselight

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Clock supplies the time source of the cycle loop
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }

// WallClock returns a Clock backed by the time package
func WallClock() Clock {
	return wallClock{}
}

// ScaledClock runs time faster than the wall clock by a constant factor.
// Sleeping d on it sleeps d/scale of real time, and Now advances scale times
// faster than real time.
type ScaledClock struct {
	scale     float64
	origin    time.Time
	realStart time.Time
}

// NewScaledClock creates a clock running scale times faster than real time.
// A scale that is not a positive finite number is treated as 1.
func NewScaledClock(scale float64) *ScaledClock {
	if !(scale > 0) || math.IsInf(scale, 1) {
		scale = 1
	}
	now := time.Now()
	return &ScaledClock{scale: scale, origin: now, realStart: now}
}

// Scale returns the speed-up factor
func (c *ScaledClock) Scale() float64 {
	return c.scale
}

// Now returns the scaled current time
func (c *ScaledClock) Now() time.Time {
	elapsed := time.Since(c.realStart)
	return c.origin.Add(time.Duration(float64(elapsed) * c.scale))
}

// Sleep blocks for d of scaled time
func (c *ScaledClock) Sleep(d time.Duration) {
	time.Sleep(time.Duration(float64(d) / c.scale))
}

// RandSource draws random integers. *rand.Rand satisfies it.
type RandSource interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// lockedRand guards a rand.Rand, which is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// NewRandSource returns a concurrency-safe source seeded with seed
func NewRandSource(seed int64) RandSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// drawCycle picks a duration uniformly from the inclusive second range [min, max].
func drawCycle(src RandSource, minSeconds, maxSeconds int) time.Duration {
	seconds := minSeconds + src.Intn(maxSeconds-minSeconds+1)
	return time.Duration(seconds) * time.Second
}
