package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTables_AreComplete(t *testing.T) {
	for k := Key(0); k < keyCount; k++ {
		assert.NotEmpty(t, T(English, k), "english key %d", k)
		assert.NotEmpty(t, T(Japanese, k), "japanese key %d", k)
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Newest Date", T(English, SortNewest))
	assert.Equal(t, "日付 (新しい順)", T(Japanese, SortNewest))
	assert.Equal(t, "Meaty", English.T(PattyRight))
	assert.Equal(t, "", T(English, keyCount))
	assert.Equal(t, "", T(English, Key(-1)))
}

func TestParseLang(t *testing.T) {
	l, ok := ParseLang("en")
	assert.True(t, ok)
	assert.Equal(t, English, l)

	l, ok = ParseLang("ja")
	assert.True(t, ok)
	assert.Equal(t, Japanese, l)

	l, ok = ParseLang("de")
	assert.False(t, ok)
	assert.Equal(t, Default, l)
}

func TestLang_ToggleAndCode(t *testing.T) {
	assert.Equal(t, English, Japanese.Toggle())
	assert.Equal(t, Japanese, English.Toggle())
	assert.Equal(t, "en", English.Code())
	assert.Equal(t, "ja", Japanese.Code())
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   Lang
	}{
		{"", Japanese},
		{"en-US,en;q=0.9", English},
		{"ja-JP", Japanese},
		{"fr-FR,en;q=0.5", English},
		{"de-DE", Japanese},
		{"not a header;;", Japanese},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header))
		})
	}
}

func TestLabels(t *testing.T) {
	labels := Labels(English)
	assert.Len(t, labels, int(keyCount))
	assert.Equal(t, "Export JSON", labels["exportJSON"])
	assert.Equal(t, "濃厚", Labels(Japanese)[SauceRight.String()])

	seen := map[string]bool{}
	for k := Key(0); k < keyCount; k++ {
		name := k.String()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}
