package domain

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidUnit = errors.New("invalid unit (must be kg or lb)")

const (
	UnitKilograms = "kg"
	UnitPounds    = "lb"

	KgPerLb = 0.45359237
)

func ParseUnit(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", UnitPounds, "lbs":
		return UnitPounds, nil
	case UnitKilograms, "kgs":
		return UnitKilograms, nil
	default:
		return "", ErrInvalidUnit
	}
}

func ToKilograms(v float64, unit string) float64 {
	if unit == UnitPounds {
		return v * KgPerLb
	}
	return v
}

func FromKilograms(kg float64, unit string) float64 {
	if unit == UnitPounds {
		return kg / KgPerLb
	}
	return kg
}

// RoundTenth rounds to one decimal place for display.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
