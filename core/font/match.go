package font

import (
	"path"
	"strconv"
	"strings"

	xfont "golang.org/x/image/font"
)

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// Confidence rates how well a font variant with style and weight `have`
// serves a request for style and weight `want`.
func Confidence(haveStyle xfont.Style, haveWeight xfont.Weight,
	wantStyle xfont.Style, wantWeight xfont.Weight) MatchConfidence {
	//
	return (MatchStyle(haveStyle, wantStyle) + MatchWeight(haveWeight, wantWeight)) / 2
}

// MatchStyle trys to match a font variant's style to a requested style.
func MatchStyle(have, want xfont.Style) MatchConfidence {
	if have == want {
		return PerfectConfidence
	}
	switch want {
	case xfont.StyleItalic, xfont.StyleOblique:
		if have == xfont.StyleItalic || have == xfont.StyleOblique {
			return HighConfidence
		}
		return LowConfidence // slant may be synthesized
	}
	return NoConfidence
}

// MatchWeight trys to match a font variant's weight to a requested weight.
func MatchWeight(have, want xfont.Weight) MatchConfidence {
	/* from https://pkg.go.dev/golang.org/x/image/font
	WeightThin       Weight = -3 // CSS font-weight value 100.
	WeightExtraLight Weight = -2 // CSS font-weight value 200.
	WeightLight      Weight = -1 // CSS font-weight value 300.
	WeightNormal     Weight = +0 // CSS font-weight value 400.
	WeightMedium     Weight = +1 // CSS font-weight value 500.
	WeightSemiBold   Weight = +2 // CSS font-weight value 600.
	WeightBold       Weight = +3 // CSS font-weight value 700.
	WeightExtraBold  Weight = +4 // CSS font-weight value 800.
	WeightBlack      Weight = +5 // CSS font-weight value 900.
	*/
	d := have - want
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return PerfectConfidence
	case 1:
		return HighConfidence
	case 2:
		return LowConfidence
	}
	return NoConfidence
}

// WeightFromNumber converts a CSS font-weight value (100…900) to a weight.
// Zero is treated as 'normal'; values out of range are clipped.
func WeightFromNumber(n int) xfont.Weight {
	if n == 0 {
		return xfont.WeightNormal
	}
	w := xfont.Weight((n+50)/100 - 4)
	if w < xfont.WeightThin {
		return xfont.WeightThin
	}
	if w > xfont.WeightBlack {
		return xfont.WeightBlack
	}
	return w
}

// ParseVariant interprets a variant name, as used by font subfamily names
// ("Bold Italic"), fontconfig styles or Google Fonts variants ("700italic").
func ParseVariant(variant string) (xfont.Style, xfont.Weight) {
	v := strings.ToLower(variant)
	style := xfont.StyleNormal
	if strings.Contains(v, "italic") {
		style = xfont.StyleItalic
	} else if strings.Contains(v, "oblique") {
		style = xfont.StyleOblique
	}
	if digits := leadingDigits(v); digits != "" {
		n, _ := strconv.Atoi(digits)
		return style, WeightFromNumber(n)
	}
	for _, w := range variantWeights {
		for _, kw := range w.keywords {
			if strings.Contains(v, kw) {
				return style, w.weight
			}
		}
	}
	return style, xfont.WeightNormal
}

// order matters: compound keywords have to be tested first
var variantWeights = []struct {
	keywords []string
	weight   xfont.Weight
}{
	{[]string{"extrabold", "extra bold", "ultrabold", "xbold"}, xfont.WeightExtraBold},
	{[]string{"semibold", "semi bold", "demibold", "demi bold"}, xfont.WeightSemiBold},
	{[]string{"black", "heavy"}, xfont.WeightBlack},
	{[]string{"bold"}, xfont.WeightBold},
	{[]string{"extralight", "extra light", "ultralight", "xlight"}, xfont.WeightExtraLight},
	{[]string{"light"}, xfont.WeightLight},
	{[]string{"thin", "hairline"}, xfont.WeightThin},
	{[]string{"medium"}, xfont.WeightMedium},
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "normal", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "i":
			return xfont.StyleItalic, xfont.WeightNormal
		case "bi":
			return xfont.StyleItalic, xfont.WeightBold
		}
	}
	return ParseVariant(fontfilename)
}

// GuessFamily trys to extract a font's family name from its file name.
// A style suffix separated by a hyphen is removed, as are trailing
// variant words: "Gill Sans MT Bold Italic.ttf" → "Gill Sans MT".
func GuessFamily(fontfilename string) string {
	fontfilename = path.Base(fontfilename)
	name := fontfilename[:len(fontfilename)-len(path.Ext(fontfilename))]
	if dash := strings.LastIndex(name, "-"); dash > 0 {
		return name[:dash]
	}
	words := strings.Fields(name)
	for len(words) > 1 && isVariantWord(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func isVariantWord(w string) bool {
	switch strings.ToLower(w) {
	case "regular", "normal", "italic", "oblique", "bold", "light", "medium",
		"thin", "black", "heavy", "semibold", "extrabold", "extralight":
		return true
	}
	return false
}
