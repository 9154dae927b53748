package phaselight

import (
	"time"

	"github.com/google/uuid"
)

// PhaseChange describes one flip of a traffic light
type PhaseChange struct {
	ID      string
	LightID string
	From    Phase
	To      Phase
	// Interval is the randomly drawn duration the previous phase was held for.
	Interval time.Duration
	// Elapsed is the measured time between the previous flip and this one.
	Elapsed   time.Duration
	Timestamp time.Time
}

// NewPhaseChange creates a phase change stamped with a fresh ID
func NewPhaseChange(lightID string, from, to Phase, interval, elapsed time.Duration, at time.Time) PhaseChange {
	return PhaseChange{
		ID:        uuid.New().String(),
		LightID:   lightID,
		From:      from,
		To:        to,
		Interval:  interval,
		Elapsed:   elapsed,
		Timestamp: at,
	}
}
