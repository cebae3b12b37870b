package measurement

import (
	"strconv"
)

// TargetKind selects which indicator column a target thresholds
type TargetKind int

const (
	// TargetDA thresholds the damage-accumulation (double amplitude strain) column
	TargetDA TargetKind = iota
	// TargetRu thresholds the excess pore-pressure ratio column
	TargetRu
)

func (k TargetKind) String() string {
	switch k {
	case TargetDA:
		return "DA"
	case TargetRu:
		return "ru"
	default:
		return "unknown"
	}
}

// Target is a threshold on one indicator. DA values are fractions (1% -> 0.01).
type Target struct {
	Kind  TargetKind
	Value float64
}

// DA returns a damage-accumulation target
func DA(value float64) Target {
	return Target{Kind: TargetDA, Value: value}
}

// Ru returns a pore-pressure-ratio target
func Ru(value float64) Target {
	return Target{Kind: TargetRu, Value: value}
}

func (t Target) String() string {
	return t.Kind.String() + "=" + strconv.FormatFloat(t.Value, 'f', -1, 64)
}
