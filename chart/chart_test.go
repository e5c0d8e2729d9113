package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burgerlog/i18n"
	"burgerlog/models"
)

func sample() models.Review {
	return models.Review{RatingStyle: 1, RatingVolume: 5, RatingPatty: 3, RatingBuns: 2, RatingSauce: 4}
}

func TestNewProfile_Rows(t *testing.T) {
	p := NewProfile(sample(), i18n.English, Compact)
	require.Len(t, p.Rows, 5)

	assert.Equal(t, "Style", p.Rows[0].Subject)
	assert.Equal(t, "Junk", p.Rows[0].Left)
	assert.Equal(t, "Rich", p.Rows[0].Right)
	assert.Equal(t, "Sauce", p.Rows[4].Subject)

	assert.Equal(t, p.PlotLeft, p.Rows[0].X)
	assert.Equal(t, p.PlotRight, p.Rows[1].X)
	assert.InDelta(t, (p.PlotLeft+p.PlotRight)/2, p.Rows[2].X, 1e-9)

	for i := 1; i < len(p.Rows); i++ {
		assert.Greater(t, p.Rows[i].Y, p.Rows[i-1].Y)
	}
}

func TestNewProfile_Variants(t *testing.T) {
	compact := NewProfile(sample(), i18n.Japanese, Compact)
	detail := NewProfile(sample(), i18n.Japanese, Detail)

	assert.Equal(t, 150.0, compact.Height)
	assert.Equal(t, 300.0, detail.Height)
	assert.Equal(t, 160.0, compact.PlotLeft)
	assert.Equal(t, 210.0, detail.PlotLeft)
	assert.Equal(t, "スタイル", detail.Rows[0].Subject)
	assert.Len(t, detail.GridX, 5)
	assert.Equal(t, compact.PlotLeft-20, compact.LeftLabelX)
}

func TestNewProfile_LegacyAndOutOfRange(t *testing.T) {
	r := models.Review{RatingStyle: 9, RatingVolume: -1, RatingPatty: 3}
	p := NewProfile(r, i18n.English, Detail)

	assert.Equal(t, 5, p.Rows[0].Value)
	assert.Equal(t, 1, p.Rows[1].Value)
	assert.Equal(t, 3, p.Rows[3].Value)
	assert.Equal(t, 3, p.Rows[4].Value)
}

func TestNewPentagon(t *testing.T) {
	r := models.Review{RatingStyle: 5, RatingVolume: 5, RatingPatty: 5, RatingBuns: 5, RatingSauce: 5}
	poly := NewPentagon(r, 100)

	require.Len(t, poly.Frame, 5)
	assert.Equal(t, poly.Frame, poly.Shape)
	assert.InDelta(t, 100, poly.Frame[0].X, 1e-9)
	assert.InDelta(t, 0, poly.Frame[0].Y, 1e-9)

	half := NewPentagon(sample(), 100)
	assert.InDelta(t, 100-20, half.Shape[0].Y, 1e-9)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, "1.0,2.0 3.5,4.3", Points([]Point{{1, 2}, {3.5, 4.26}}))
}
