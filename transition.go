package phaselight

// Transition represents a phase change of a traffic light
type Transition struct {
	From Phase
	To   Phase
}

// cycle is the complete transition table. There is no terminal phase.
var cycle = []Transition{
	{From: Red, To: Green},
	{From: Green, To: Red},
}

// Transitions returns a copy of the phase cycle
func Transitions() []Transition {
	result := make([]Transition, len(cycle))
	copy(result, cycle)
	return result
}

// NextTransition returns the only transition leaving from
func NextTransition(from Phase) (Transition, error) {
	for _, t := range cycle {
		if t.From == from {
			return t, nil
		}
	}
	return Transition{}, NewInvalidPhaseError(from, from.Next())
}

// ValidateTransition checks that from->to is part of the cycle
func ValidateTransition(from, to Phase) error {
	if !from.Valid() || !to.Valid() {
		return NewInvalidPhaseError(from, to)
	}
	for _, t := range cycle {
		if t.From == from && t.To == to {
			return nil
		}
	}
	return NewTransitionNotAllowedError(from, to)
}
