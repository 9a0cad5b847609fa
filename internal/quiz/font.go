package quiz

import (
	"fmt"
	"math/rand"
	"strings"
)

// Display fonts a kana can be assigned.
const (
	FontSans   = "Noto Sans JP"
	FontSerif  = "Hina Mincho"
	FontRandom = "random"

	DefaultFont = FontSans
)

// Fonts lists the concrete fonts in the order the settings view cycles them.
var Fonts = []string{FontSans, FontSerif}

// FontPreference is either a fixed font name or a per-item random draw.
type FontPreference struct {
	name   string
	random bool
}

// Fixed returns a preference that always resolves to name.
func Fixed(name string) FontPreference {
	return FontPreference{name: name}
}

// Random returns a preference that draws one of Fonts for every item.
func Random() FontPreference {
	return FontPreference{random: true}
}

// IsRandom reports whether the preference draws a font per item.
func (p FontPreference) IsRandom() bool {
	return p.random
}

// String returns the settings representation of the preference.
func (p FontPreference) String() string {
	if p.random {
		return FontRandom
	}
	if p.name == "" {
		return DefaultFont
	}
	return p.name
}

// ParseFontPreference parses a settings value. Unknown values return the
// default font together with ErrUnknownFont so callers can log and carry on.
func ParseFontPreference(s string) (FontPreference, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, FontRandom) {
		return Random(), nil
	}
	for _, f := range Fonts {
		if strings.EqualFold(s, f) {
			return Fixed(f), nil
		}
	}
	return Fixed(DefaultFont), fmt.Errorf("%w: %q", ErrUnknownFont, s)
}

// NextFontPreference returns the preference after p in the cycle
// Noto Sans JP → Hina Mincho → random → Noto Sans JP.
func NextFontPreference(p FontPreference) FontPreference {
	if p.IsRandom() {
		return Fixed(Fonts[0])
	}
	for i, f := range Fonts {
		if f == p.String() && i+1 < len(Fonts) {
			return Fixed(Fonts[i+1])
		}
	}
	return Random()
}

// AssignFont resolves a preference to a concrete font label for one item.
func AssignFont(p FontPreference, rng *rand.Rand) string {
	if !p.random {
		return p.String()
	}
	if rng.Float64() < 0.5 {
		return FontSans
	}
	return FontSerif
}
