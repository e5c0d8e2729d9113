// Package i18n holds the static English and Japanese label tables of the UI.
package i18n

import (
	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang int

const (
	Japanese Lang = iota
	English
)

// Default matches the UI's initial language.
const Default = Japanese

var tags = [...]language.Tag{
	Japanese: language.Japanese,
	English:  language.English,
}

var matcher = language.NewMatcher(tags[:])

// Code returns the short language code used in query strings.
func (l Lang) Code() string {
	if l == English {
		return "en"
	}
	return "ja"
}

// Toggle returns the other language, as offered by the switch control.
func (l Lang) Toggle() Lang {
	if l == English {
		return Japanese
	}
	return English
}

// T looks up key in the table of l.
func (l Lang) T(key Key) string {
	return T(l, key)
}

// ParseLang maps a language code to a Lang.
func ParseLang(code string) (Lang, bool) {
	switch code {
	case "ja":
		return Japanese, true
	case "en":
		return English, true
	}
	return Default, false
}

// Negotiate picks the best supported language for an Accept-Language header,
// falling back to Default.
func Negotiate(acceptLanguage string) Lang {
	if acceptLanguage == "" {
		return Default
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return Lang(idx)
}

// T returns the label for key in lang. Unknown keys yield an empty string.
func T(lang Lang, key Key) string {
	if key < 0 || key >= keyCount {
		return ""
	}
	if lang == English {
		return english[key]
	}
	return japanese[key]
}

// String returns the template identifier of k.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return ""
	}
	return names[k]
}

// Labels returns the whole table of lang keyed by template identifier.
func Labels(lang Lang) map[string]string {
	out := make(map[string]string, keyCount)
	for k := Key(0); k < keyCount; k++ {
		out[names[k]] = T(lang, k)
	}
	return out
}
