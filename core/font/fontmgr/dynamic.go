package fontmgr

import (
	"fmt"

	"github.com/npillmayer/fontcoll/core"
	"github.com/npillmayer/fontcoll/core/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DynamicProvider holds fonts which an application registers at runtime,
// e.g. after downloading them.
type DynamicProvider struct {
	catalog
}

// NewDynamicProvider creates an empty dynamic provider.
func NewDynamicProvider() *DynamicProvider {
	return &DynamicProvider{catalog{newFontSet()}}
}

// Register parses font data and adds the font under a family name.
// If family is empty, the font's own family name is used. Registering a font
// with the same family, style and weight as a previous one replaces it.
func (dp *DynamicProvider) Register(family string, data []byte) error {
	f, err := font.ParseOpenTypeFont(data)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot register font for family %q", family)
	}
	if family == "" {
		family = f.Family
	}
	dp.add(family, f)
	return nil
}

func (dp *DynamicProvider) add(family string, f *font.ScalableFont) {
	tracer().Debugf("dynamic provider registers %s as family %q", f.Fontname, family)
	dp.set.add(&entry{
		family: family,
		style:  f.Style,
		weight: f.Weight,
		path:   f.Filepath,
		font:   f,
	}, true)
}

func (dp *DynamicProvider) String() string {
	return fmt.Sprintf("dynamic(%d fonts)", dp.set.size())
}

var goFontData = [][]byte{
	goregular.TTF,
	gobold.TTF,
	goitalic.TTF,
	gobolditalic.TTF,
	gomono.TTF,
}

// GoFonts returns a dynamic provider holding the Go font family
// (https://go.dev/blog/go-fonts), which is always available.
func GoFonts() *DynamicProvider {
	dp := NewDynamicProvider()
	for _, data := range goFontData {
		if err := dp.Register("", data); err != nil {
			tracer().Errorf("cannot load Go font: %v", err) // this cannot happen
		}
	}
	return dp
}
