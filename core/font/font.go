/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" or "family" is a family of fonts. An example is "Helvetica".

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Fonts are located by providers (see package fontmgr) and are parsed with
golang.org/x/image/font/sfnt. No font collections (*.ttc) are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/fontcoll/core"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/cases"
)

// tracer traces with key 'fontcoll.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontcoll.fonts")
}

// ScalableFont is a single font of a typeface, i.e. a family name plus a
// style and a weight, together with its parsed OpenType data.
type ScalableFont struct {
	Fontname string       // full font name
	Family   string       // typographic family name
	Style    xfont.Style  // slant of this variant
	Weight   xfont.Weight // weight of this variant
	Filepath string       // file path or asset path, empty for in-memory fonts
	Binary   []byte       // raw data
	SFNT     *sfnt.Font   // the font's container
}

// Descriptor describes a font which has not been loaded yet.
type Descriptor struct {
	Family string
	Path   string
	Style  xfont.Style
	Weight xfont.Weight
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses font data and extracts naming information.
// Family, style and weight are taken from the font's name table; if the font
// does not carry a subfamily name, they are guessed from the full font name.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse OpenType font")
	}
	var buf sfnt.Buffer
	f.Fontname, _ = f.SFNT.Name(&buf, sfnt.NameIDFull)
	if f.Family, _ = f.SFNT.Name(&buf, sfnt.NameIDTypographicFamily); f.Family == "" {
		f.Family, _ = f.SFNT.Name(&buf, sfnt.NameIDFamily)
	}
	subfamily, _ := f.SFNT.Name(&buf, sfnt.NameIDTypographicSubfamily)
	if subfamily == "" {
		subfamily, _ = f.SFNT.Name(&buf, sfnt.NameIDSubfamily)
	}
	if subfamily != "" {
		f.Style, f.Weight = ParseVariant(subfamily)
	} else {
		f.Style, f.Weight = ParseVariant(f.Fontname)
	}
	tracer().Debugf("parsed font %q: family=%q style=%d weight=%d", f.Fontname, f.Family,
		f.Style, f.Weight)
	return f, nil
}

// HasGlyph returns true if the font maps code-point r to a glyph other than
// .notdef.
func (sf *ScalableFont) HasGlyph(r rune) bool {
	if sf == nil || sf.SFNT == nil {
		return false
	}
	var buf sfnt.Buffer
	gid, err := sf.SFNT.GlyphIndex(&buf, r)
	return err == nil && gid != 0
}

func (sf *ScalableFont) String() string {
	if sf == nil {
		return "<no font>"
	}
	return sf.Fontname
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	gofont, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		panic("cannot load fallback font") // this cannot happen
	}
	gofont.Filepath = "internal"
	return gofont
}

// --- Family names ----------------------------------------------------------

// NormalizeFamily creates a lookup key for a family name. Case is folded and
// white space, hyphens and underscores are dropped, so that
// "DejaVu Sans", "dejavu-sans" and "DejaVuSans" share a key.
func NormalizeFamily(family string) string {
	family = cases.Fold().String(strings.TrimSpace(family))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			return -1
		}
		return r
	}, family)
}
