// Package chart lays out the rating profile of a review for SVG rendering.
//
// The profile chart draws one row per axis with the axis name and its low end
// label on the left, the high end label on the right, and a star at the
// score. The pentagon overlay plots the same five scores radially.
package chart

import (
	"fmt"
	"math"
	"strings"

	"burgerlog/i18n"
	"burgerlog/models"
)

// Variant selects the card or the detail geometry.
type Variant int

const (
	Compact Variant = iota
	Detail
)

type geometry struct {
	width, height        float64
	marginX, marginY     float64
	labelWidth, endWidth float64
}

var geometries = [...]geometry{
	Compact: {width: 360, height: 150, marginX: 30, marginY: 10, labelWidth: 130, endWidth: 60},
	Detail:  {width: 640, height: 300, marginX: 60, marginY: 10, labelWidth: 150, endWidth: 60},
}

// endLabelGap is the distance between the plot edge and an end label.
const endLabelGap = 20

// Row is one axis of the profile chart.
type Row struct {
	Subject string
	Left    string
	Right   string
	Value   int
	X, Y    float64
}

// Profile is the computed layout of a profile chart.
type Profile struct {
	Width, Height float64
	PlotLeft      float64
	PlotRight     float64
	PlotTop       float64
	PlotBottom    float64
	SubjectX      float64
	LeftLabelX    float64
	RightLabelX   float64
	GridX         []float64
	Rows          []Row
}

type axisLabels struct {
	subject, left, right i18n.Key
}

var labels = map[models.Axis]axisLabels{
	models.AxisStyle:  {i18n.Style, i18n.StyleLeft, i18n.StyleRight},
	models.AxisVolume: {i18n.Volume, i18n.VolumeLeft, i18n.VolumeRight},
	models.AxisPatty:  {i18n.Patty, i18n.PattyLeft, i18n.PattyRight},
	models.AxisBuns:   {i18n.Buns, i18n.BunsLeft, i18n.BunsRight},
	models.AxisSauce:  {i18n.Sauce, i18n.SauceLeft, i18n.SauceRight},
}

// NewProfile lays out the five axes of r for the given language and variant.
func NewProfile(r models.Review, lang i18n.Lang, v Variant) Profile {
	if v != Detail {
		v = Compact
	}
	g := geometries[v]
	r = r.WithDefaults()

	p := Profile{
		Width:      g.width,
		Height:     g.height,
		PlotLeft:   g.marginX + g.labelWidth,
		PlotRight:  g.width - g.marginX - g.endWidth,
		PlotTop:    g.marginY,
		PlotBottom: g.height - g.marginY,
		SubjectX:   g.marginX,
	}
	p.LeftLabelX = p.PlotLeft - endLabelGap
	p.RightLabelX = p.PlotRight + endLabelGap

	for n := models.MinRating; n <= models.MaxRating; n++ {
		p.GridX = append(p.GridX, p.xFor(n))
	}

	band := (p.PlotBottom - p.PlotTop) / float64(len(models.Axes))
	for i, a := range models.Axes {
		l := labels[a]
		value := clamp(r.AxisValue(a))
		p.Rows = append(p.Rows, Row{
			Subject: lang.T(l.subject),
			Left:    lang.T(l.left),
			Right:   lang.T(l.right),
			Value:   value,
			X:       p.xFor(value),
			Y:       p.PlotTop + band*(float64(i)+0.5),
		})
	}
	return p
}

func (p Profile) xFor(value int) float64 {
	span := float64(models.MaxRating - models.MinRating)
	return p.PlotLeft + (p.PlotRight-p.PlotLeft)*float64(value-models.MinRating)/span
}

// Point is an SVG coordinate.
type Point struct {
	X, Y float64
}

// Polygon is the pentagon overlay: the outer frame at the maximum score and
// the shape of the review's scores, both around Center.
type Polygon struct {
	Center Point
	Frame  []Point
	Shape  []Point
}

// NewPentagon plots the five axes of r radially inside a square of side
// 2*radius, starting at twelve o'clock and proceeding clockwise.
func NewPentagon(r models.Review, radius float64) Polygon {
	r = r.WithDefaults()
	c := Point{X: radius, Y: radius}
	poly := Polygon{Center: c}

	n := len(models.Axes)
	for i, a := range models.Axes {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		frac := float64(clamp(r.AxisValue(a))) / float64(models.MaxRating)
		poly.Frame = append(poly.Frame, polar(c, radius, angle))
		poly.Shape = append(poly.Shape, polar(c, radius*frac, angle))
	}
	return poly
}

// Points formats pts for an SVG points attribute.
func Points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func polar(c Point, dist, angle float64) Point {
	return Point{X: c.X + dist*math.Cos(angle), Y: c.Y + dist*math.Sin(angle)}
}

func clamp(v int) int {
	return max(models.MinRating, min(models.MaxRating, v))
}
