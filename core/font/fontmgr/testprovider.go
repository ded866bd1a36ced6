package fontmgr

import (
	"fmt"

	"github.com/npillmayer/fontcoll/core/font"
	xfont "golang.org/x/image/font"
)

// TestProvider makes text rendering deterministic for tests: every family
// request is answered with fonts of a fixed list of test families, taken from
// an underlying provider.
type TestProvider struct {
	base     Provider
	families []string
}

// NewTestProvider creates a provider which redirects all family requests to
// testFamilies, resolved with base. If no test families are given, the
// families of base are used.
func NewTestProvider(base Provider, testFamilies ...string) *TestProvider {
	if len(testFamilies) == 0 && base != nil {
		testFamilies = base.Families()
	}
	return &TestProvider{base: base, families: testFamilies}
}

// Families returns the test families.
func (tp *TestProvider) Families() []string {
	return append([]string(nil), tp.families...)
}

// MatchFamily ignores the requested family and returns the fonts of the first
// test family the underlying provider knows.
func (tp *TestProvider) MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	if tp.base == nil {
		return nil
	}
	for _, fam := range tp.families {
		if fonts := tp.base.MatchFamily(fam, style, weight); len(fonts) > 0 {
			tracer().Debugf("test provider answers %q with family %q", family, fam)
			return fonts
		}
	}
	return nil
}

// MatchCharacter searches the test families for a font covering r.
func (tp *TestProvider) MatchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	if tp.base == nil {
		return nil
	}
	for _, fam := range tp.families {
		for _, f := range tp.base.MatchFamily(fam, style, weight) {
			if f.HasGlyph(r) {
				return f
			}
		}
	}
	return nil
}

func (tp *TestProvider) String() string {
	return fmt.Sprintf("test(%v)", tp.families)
}
