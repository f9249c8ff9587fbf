package signups

import (
	"slices"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// Selection is the set of days a visitor has ticked, kept in display order
type Selection []model.Day

// NewSelection builds a selection from days, dropping unknown and repeated days
func NewSelection(days ...model.Day) Selection {
	var sel Selection
	for _, d := range model.AllDays {
		if slices.Contains(days, d) {
			sel = append(sel, d)
		}
	}
	return sel
}

func (s Selection) Has(d model.Day) bool {
	return slices.Contains(s, d)
}

func (s Selection) Len() int {
	return len(s)
}

// Days returns a copy of the selected days
func (s Selection) Days() []model.Day {
	return slices.Clone([]model.Day(s))
}

func (s Selection) with(d model.Day) Selection {
	return NewSelection(append(s.Days(), d)...)
}

func (s Selection) without(d model.Day) Selection {
	out := make(Selection, 0, len(s))
	for _, existing := range s {
		if existing != d {
			out = append(out, existing)
		}
	}
	return out
}
