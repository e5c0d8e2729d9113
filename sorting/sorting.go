// Package sorting orders reviews for display.
package sorting

import (
	"sort"

	"burgerlog/models"
)

// Mode selects the display order of a review list.
type Mode string

const (
	DateDesc   Mode = "date_desc"
	DateAsc    Mode = "date_asc"
	RatingDesc Mode = "rating_desc"
	RatingAsc  Mode = "rating_asc"

	Default = DateDesc
)

// Modes lists every mode in the order the sort control offers them.
var Modes = []Mode{DateDesc, DateAsc, RatingDesc, RatingAsc}

// ParseMode reports whether s names a known mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return Default, false
}

// Sort returns a newly ordered copy of reviews; the input is left untouched.
//
// Date modes compare visit dates. A review without a date counts as older
// than every dated review, and ties fall back to the identifier, which grows
// with creation order. Rating modes are stable: equal ratings keep their
// relative input order.
func Sort(reviews []models.Review, mode Mode) []models.Review {
	out := make([]models.Review, len(reviews))
	copy(out, reviews)

	switch mode {
	case DateAsc:
		sort.SliceStable(out, func(i, j int) bool { return dateLess(out[i], out[j]) })
	case RatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case RatingAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	default:
		sort.SliceStable(out, func(i, j int) bool { return dateLess(out[j], out[i]) })
	}
	return out
}

func dateLess(a, b models.Review) bool {
	if models.Before(a.VisitDate, b.VisitDate) {
		return true
	}
	if models.Before(b.VisitDate, a.VisitDate) {
		return false
	}
	return a.ID < b.ID
}
