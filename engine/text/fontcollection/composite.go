package fontcollection

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/fontcoll/core/font/fontmgr"
	xfont "golang.org/x/image/font"
)

// FamilyCacheLimit is the number of family lookups a composite memoizes.
// When the limit is exceeded, the oldest entry is dropped.
const FamilyCacheLimit = 512

// Composite resolves family names to fonts, asking its providers in
// priority order. It memoizes the results of family and fallback lookups.
//
// Composites are created by a Collection. A composite is safe for concurrent
// use by shapers.
type Composite struct {
	sync.Mutex
	dynamic, asset, test, deflt fontmgr.Provider
	defaultFamilies             []string
	fallback                    bool
	families                    *linkedhashmap.Map // familyKey → []*font.ScalableFont
	fallbacks                   map[runeKey]*font.ScalableFont
}

type familyKey struct {
	family string
	style  xfont.Style
	weight xfont.Weight
}

type runeKey struct {
	r      rune
	style  xfont.Style
	weight xfont.Weight
}

func newComposite() *Composite {
	return &Composite{
		fallback:  true,
		families:  linkedhashmap.New(),
		fallbacks: make(map[runeKey]*font.ScalableFont),
	}
}

func (c *Composite) setDefaultProvider(p fontmgr.Provider, defaultFamilies []string) {
	c.deflt = p
	c.defaultFamilies = defaultFamilies
}

func (c *Composite) setAssetProvider(p fontmgr.Provider)   { c.asset = p }
func (c *Composite) setDynamicProvider(p fontmgr.Provider) { c.dynamic = p }
func (c *Composite) setTestProvider(p fontmgr.Provider)    { c.test = p }

func (c *Composite) disableFallback() {
	c.Lock()
	defer c.Unlock()
	c.fallback = false
}

// Providers returns the providers in the order they are queried.
func (c *Composite) Providers() []fontmgr.Provider {
	return providerOrder(c.dynamic, c.asset, c.test, c.deflt)
}

// DefaultFamilies returns the families tried if no requested family resolves.
func (c *Composite) DefaultFamilies() []string {
	return append([]string(nil), c.defaultFamilies...)
}

// FallbackEnabled reports whether the composite searches fallback fonts.
func (c *Composite) FallbackEnabled() bool {
	c.Lock()
	defer c.Unlock()
	return c.fallback
}

// MatchFamily returns the fonts of a family, best match for style and weight
// first, from the first provider which knows the family. It returns nil if
// no provider knows the family. The slice belongs to the caller.
func (c *Composite) MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	c.Lock()
	defer c.Unlock()
	match := c.matchFamily(family, style, weight)
	if len(match) == 0 {
		return nil
	}
	return append([]*font.ScalableFont(nil), match...)
}

// MatchFamilies returns the best font for each of the given families which
// resolves. If none does, the default families are tried. If still no font
// is found and fallback is enabled, the built-in fallback font is returned.
func (c *Composite) MatchFamilies(families []string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	c.Lock()
	defer c.Unlock()
	var fonts []*font.ScalableFont
	for _, family := range families {
		if match := c.matchFamily(family, style, weight); len(match) > 0 {
			fonts = append(fonts, match[0])
		}
	}
	if len(fonts) == 0 {
		for _, family := range c.defaultFamilies {
			if match := c.matchFamily(family, style, weight); len(match) > 0 {
				fonts = append(fonts, match[0])
			}
		}
	}
	if len(fonts) == 0 && c.fallback {
		tracer().Debugf("no font for families %v, using fallback font", families)
		fonts = append(fonts, font.FallbackFont())
	}
	return fonts
}

// matchFamily looks up a family, memoizing the result. The returned slice
// is the cached one and must not be modified. c must be locked.
func (c *Composite) matchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	key := familyKey{font.NormalizeFamily(family), style, weight}
	if cached, ok := c.families.Get(key); ok {
		return cached.([]*font.ScalableFont)
	}
	var match []*font.ScalableFont
	for _, p := range c.Providers() {
		if match = p.MatchFamily(family, style, weight); len(match) > 0 {
			break
		}
	}
	c.families.Put(key, match)
	if c.families.Size() > FamilyCacheLimit {
		it := c.families.Iterator()
		if it.Next() {
			c.families.Remove(it.Key())
		}
	}
	return match
}

// DefaultFallback returns a font with a glyph for r, asking the providers in
// priority order and finally checking the built-in fallback font. It returns
// nil if fallback is disabled or no font covers r.
func (c *Composite) DefaultFallback(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	c.Lock()
	defer c.Unlock()
	if !c.fallback {
		return nil
	}
	key := runeKey{r, style, weight}
	if f, ok := c.fallbacks[key]; ok {
		return f
	}
	var f *font.ScalableFont
	for _, p := range c.Providers() {
		if f = p.MatchCharacter(r, style, weight); f != nil {
			break
		}
	}
	if f == nil && font.FallbackFont().HasGlyph(r) {
		f = font.FallbackFont()
	}
	c.fallbacks[key] = f
	return f
}

// ClearCaches drops all memoized lookups.
func (c *Composite) ClearCaches() {
	c.Lock()
	defer c.Unlock()
	c.families.Clear()
	c.fallbacks = make(map[runeKey]*font.ScalableFont)
}

// CacheSize returns the number of memoized lookups.
func (c *Composite) CacheSize() int {
	c.Lock()
	defer c.Unlock()
	return c.families.Size() + len(c.fallbacks)
}
