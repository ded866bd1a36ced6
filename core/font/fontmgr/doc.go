/*
Package fontmgr provides font providers ("font managers"), i.e. sources which
map a requested family name and style to concrete fonts.

Four kinds of providers exist, corresponding to the provider slots of a font
collection (see package engine/text/fontcollection):

▪︎ DynamicProvider: fonts registered by the application at runtime

▪︎ AssetProvider: fonts bundled with the application, described by a manifest
or by CSS @font-face rules

▪︎ TestProvider: redirects every family to a fixed set of test fonts

▪︎ SystemProvider: the platform's installed fonts, created by NewPlatformProvider

Providers load font files lazily and are safe for concurrent use; a provider
may be shared between several font collections.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontmgr

import (
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// tracer traces with key 'fontcoll.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontcoll.fonts")
}

// Provider is a source of fonts.
type Provider interface {
	// Families returns the family names known to the provider, sorted.
	Families() []string
	// MatchFamily returns the fonts of a family, best match for style and
	// weight first. It returns nil if the family is unknown.
	MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont
	// MatchCharacter returns a font which has a glyph for r, preferring
	// variants close to style and weight, or nil.
	MatchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont
}
