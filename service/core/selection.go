package core

import (
	"errors"
	"fmt"
	"slices"

	ex "stockdash/data/extensions"
)

// ErrInvalidSelection is returned for unknown tickers or when both sides pick the same one
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the pair of tickers picked in the two dropdowns, T1 != T2
type Selection struct {
	T1 string
	T2 string
}

// DefaultSelection picks the first two tickers of the universe
func DefaultSelection(universe []string) Selection {
	return Selection{T1: universe[0], T2: universe[1]}
}

// OptionsFor is the option list of a dropdown while the other one holds other
func OptionsFor(universe []string, other string) []string {
	return ex.Without(universe, other)
}

func (s Selection) T1Options(universe []string) []string {
	return OptionsFor(universe, s.T2)
}

func (s Selection) T2Options(universe []string) []string {
	return OptionsFor(universe, s.T1)
}

func (s Selection) Validate(universe []string) error {
	if !slices.Contains(universe, s.T1) {
		return fmt.Errorf("%w: unknown ticker %q", ErrInvalidSelection, s.T1)
	}
	if !slices.Contains(universe, s.T2) {
		return fmt.Errorf("%w: unknown ticker %q", ErrInvalidSelection, s.T2)
	}
	if ex.AreEqual(s.T1, s.T2) {
		return fmt.Errorf("%w: both dropdowns hold %s", ErrInvalidSelection, s.T1)
	}
	return nil
}

// ResolveSelection builds a selection from request values, blanks fall back to
// the default pair, or to the first ticker that keeps the two sides distinct
func ResolveSelection(universe []string, t1, t2 string) (Selection, error) {
	def := DefaultSelection(universe)
	sel := Selection{T1: ex.NormalizeSymbol(t1), T2: ex.NormalizeSymbol(t2)}

	switch {
	case sel.T1 == "" && sel.T2 == "":
		sel = def
	case sel.T1 == "":
		sel.T1 = def.T1
		if sel.T1 == sel.T2 {
			sel.T1 = firstOr(OptionsFor(universe, sel.T2), def.T1)
		}
	case sel.T2 == "":
		sel.T2 = def.T2
		if sel.T2 == sel.T1 {
			sel.T2 = firstOr(OptionsFor(universe, sel.T1), def.T2)
		}
	}

	return sel, sel.Validate(universe)
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
