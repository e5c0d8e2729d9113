package models

import (
	"fmt"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5

	// DefaultAxisRating fills rating axes that older records never stored.
	DefaultAxisRating = 3
)

// Review represents one logged burger, including the overall score, the five
// profile axes and the optional visit date and photo.
type Review struct {
	ID           int64  `json:"id"`
	ShopName     string `json:"shop_name"`
	BurgerName   string `json:"burger_name"`
	Rating       int    `json:"rating"`
	RatingStyle  int    `json:"rating_style"`
	RatingVolume int    `json:"rating_volume"`
	RatingPatty  int    `json:"rating_patty"`
	RatingBuns   int    `json:"rating_buns"`
	RatingSauce  int    `json:"rating_sauce"`
	Price        int    `json:"price"`
	VisitDate    *Date  `json:"visit_date"`
	Comment      string `json:"comment"`
	ImageURL     string `json:"image_url,omitempty"`
	Tags         string `json:"tags"`
}

// Axis identifies one of the five profile sub-scores.
type Axis int

const (
	AxisStyle Axis = iota
	AxisVolume
	AxisPatty
	AxisBuns
	AxisSauce
)

// Axes lists the profile axes in display order.
var Axes = [...]Axis{AxisStyle, AxisVolume, AxisPatty, AxisBuns, AxisSauce}

// Field returns the JSON field name backing the axis.
func (a Axis) Field() string {
	switch a {
	case AxisStyle:
		return "rating_style"
	case AxisVolume:
		return "rating_volume"
	case AxisPatty:
		return "rating_patty"
	case AxisBuns:
		return "rating_buns"
	case AxisSauce:
		return "rating_sauce"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// AxisValue returns the score stored for the given axis.
func (r Review) AxisValue(a Axis) int {
	switch a {
	case AxisStyle:
		return r.RatingStyle
	case AxisVolume:
		return r.RatingVolume
	case AxisPatty:
		return r.RatingPatty
	case AxisBuns:
		return r.RatingBuns
	case AxisSauce:
		return r.RatingSauce
	}
	return 0
}

// WithDefaults substitutes the default score for buns and sauce axes that
// were never recorded (stored as zero by older schemas).
func (r Review) WithDefaults() Review {
	if r.RatingBuns == 0 {
		r.RatingBuns = DefaultAxisRating
	}
	if r.RatingSauce == 0 {
		r.RatingSauce = DefaultAxisRating
	}
	return r
}

// TagList splits the comma separated tags, dropping blanks.
func (r Review) TagList() []string {
	var out []string
	for _, t := range strings.Split(r.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks required fields and rating bounds.
func (r Review) Validate() error {
	v := newValidator()
	r.validateInto(v)
	return v.err()
}

func (r Review) validateInto(v *validator) {
	v.check(strings.TrimSpace(r.ShopName) != "", "shop_name", "must not be empty")
	v.check(strings.TrimSpace(r.BurgerName) != "", "burger_name", "must not be empty")
	v.checkRating("rating", r.Rating)
	for _, a := range Axes {
		v.checkRating(a.Field(), r.AxisValue(a))
	}
}
