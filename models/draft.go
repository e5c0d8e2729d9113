package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Draft is an incoming review: a create body, a partial update, an imported
// element or a submitted form. Absent fields stay unset. Identifiers are not
// part of a draft, so an incoming "id" is ignored.
type Draft struct {
	ShopName     *string   `json:"shop_name,omitempty"`
	BurgerName   *string   `json:"burger_name,omitempty"`
	Rating       FlexInt   `json:"rating"`
	RatingStyle  FlexInt   `json:"rating_style"`
	RatingVolume FlexInt   `json:"rating_volume"`
	RatingPatty  FlexInt   `json:"rating_patty"`
	RatingBuns   FlexInt   `json:"rating_buns"`
	RatingSauce  FlexInt   `json:"rating_sauce"`
	Price        FlexInt   `json:"price"`
	VisitDate    DateField `json:"visit_date"`
	Comment      *string   `json:"comment,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Tags         *string   `json:"tags,omitempty"`
}

// FlexInt is an optional integer that also accepts numeric strings and
// integral floats. Input that is present but not an integer is kept as
// Invalid so it can be reported alongside the other field problems.
type FlexInt struct {
	Set     bool
	Value   int
	Invalid bool
}

// Int returns a set FlexInt.
func Int(n int) FlexInt {
	return FlexInt{Set: true, Value: n}
}

// ParseFlexInt interprets form or JSON text. Blank input is unset; values
// outside the 32-bit range are invalid.
func ParseFlexInt(s string) FlexInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexInt{}
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return Int(int(n))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		return Int(int(f))
	}
	return FlexInt{Set: true, Invalid: true}
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*f = FlexInt{}
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = FlexInt{Set: true, Invalid: true}
			return nil
		}
		*f = ParseFlexInt(s)
	default:
		*f = ParseFlexInt(raw)
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Invalid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// DateField is an optional visit date. A set field with a nil Value clears
// the date.
type DateField struct {
	Set     bool
	Value   *Date
	Invalid bool
}

// DateValue returns a set DateField holding d.
func DateValue(d Date) DateField {
	return DateField{Set: true, Value: &d}
}

// ParseDateField interprets form text. Blank input clears the date.
func ParseDateField(s string) DateField {
	if strings.TrimSpace(s) == "" {
		return DateField{Set: true}
	}
	d, err := ParseDate(s)
	if err != nil {
		return DateField{Set: true, Invalid: true}
	}
	return DateValue(d)
}

func (f *DateField) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = DateField{Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = DateField{Set: true, Invalid: true}
		return nil
	}
	*f = ParseDateField(s)
	return nil
}

func (f DateField) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Invalid || f.Value == nil {
		return []byte("null"), nil
	}
	return f.Value.MarshalJSON()
}

// String returns a pointer to s, for building drafts.
func String(s string) *string {
	return &s
}

// Normalize turns a draft into a review ready for storage: names are trimmed,
// optional axes default to DefaultAxisRating, and every missing or out of
// range field is reported in a single *ValidationError.
func Normalize(d Draft) (Review, error) {
	v := newValidator()
	r := Review{
		ShopName:    strings.TrimSpace(deref(d.ShopName)),
		BurgerName:  strings.TrimSpace(deref(d.BurgerName)),
		RatingBuns:  DefaultAxisRating,
		RatingSauce: DefaultAxisRating,
		Comment:     deref(d.Comment),
		ImageURL:    strings.TrimSpace(deref(d.ImageURL)),
		Tags:        strings.TrimSpace(deref(d.Tags)),
	}

	required := []struct {
		field string
		in    FlexInt
		out   *int
	}{
		{"rating", d.Rating, &r.Rating},
		{"rating_style", d.RatingStyle, &r.RatingStyle},
		{"rating_volume", d.RatingVolume, &r.RatingVolume},
		{"rating_patty", d.RatingPatty, &r.RatingPatty},
		{"price", d.Price, &r.Price},
	}
	for _, f := range required {
		v.check(f.in.Set, f.field, "is required")
		v.check(!f.in.Invalid, f.field, "must be an integer")
		*f.out = f.in.Value
	}

	optional := []struct {
		field string
		in    FlexInt
		out   *int
	}{
		{"rating_buns", d.RatingBuns, &r.RatingBuns},
		{"rating_sauce", d.RatingSauce, &r.RatingSauce},
	}
	for _, f := range optional {
		v.check(!f.in.Invalid, f.field, "must be an integer")
		if f.in.Set {
			*f.out = f.in.Value
		}
	}

	v.check(!d.VisitDate.Invalid, "visit_date", "must be a date (YYYY-MM-DD)")
	r.VisitDate = d.VisitDate.Value

	r.validateInto(v)
	if err := v.err(); err != nil {
		return Review{}, err
	}
	return r, nil
}

// Apply overwrites the fields present in d and validates the result. The
// identifier is never changed.
func Apply(r Review, d Draft) (Review, error) {
	v := newValidator()

	if d.ShopName != nil {
		r.ShopName = strings.TrimSpace(*d.ShopName)
	}
	if d.BurgerName != nil {
		r.BurgerName = strings.TrimSpace(*d.BurgerName)
	}
	if d.Comment != nil {
		r.Comment = *d.Comment
	}
	if d.ImageURL != nil {
		r.ImageURL = strings.TrimSpace(*d.ImageURL)
	}
	if d.Tags != nil {
		r.Tags = strings.TrimSpace(*d.Tags)
	}

	ints := []struct {
		field string
		in    FlexInt
		out   *int
	}{
		{"rating", d.Rating, &r.Rating},
		{"rating_style", d.RatingStyle, &r.RatingStyle},
		{"rating_volume", d.RatingVolume, &r.RatingVolume},
		{"rating_patty", d.RatingPatty, &r.RatingPatty},
		{"rating_buns", d.RatingBuns, &r.RatingBuns},
		{"rating_sauce", d.RatingSauce, &r.RatingSauce},
		{"price", d.Price, &r.Price},
	}
	for _, f := range ints {
		v.check(!f.in.Invalid, f.field, "must be an integer")
		if f.in.Set && !f.in.Invalid {
			*f.out = f.in.Value
		}
	}

	v.check(!d.VisitDate.Invalid, "visit_date", "must be a date (YYYY-MM-DD)")
	if d.VisitDate.Set && !d.VisitDate.Invalid {
		r.VisitDate = d.VisitDate.Value
	}

	r = r.WithDefaults()
	r.validateInto(v)
	if err := v.err(); err != nil {
		return Review{}, err
	}
	return r, nil
}

// DraftOf returns a draft that sets every field of r.
func DraftOf(r Review) Draft {
	d := Draft{
		ShopName:     String(r.ShopName),
		BurgerName:   String(r.BurgerName),
		Rating:       Int(r.Rating),
		RatingStyle:  Int(r.RatingStyle),
		RatingVolume: Int(r.RatingVolume),
		RatingPatty:  Int(r.RatingPatty),
		RatingBuns:   Int(r.RatingBuns),
		RatingSauce:  Int(r.RatingSauce),
		Price:        Int(r.Price),
		VisitDate:    DateField{Set: true},
		Comment:      String(r.Comment),
		ImageURL:     String(r.ImageURL),
		Tags:         String(r.Tags),
	}
	if r.VisitDate != nil {
		d.VisitDate = DateValue(*r.VisitDate)
	}
	return d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
