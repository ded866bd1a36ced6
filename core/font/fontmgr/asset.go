package fontmgr

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/fontcoll/core"
	"github.com/npillmayer/fontcoll/core/font"
	xfont "golang.org/x/image/font"
	"gopkg.in/yaml.v3"
)

// AssetProvider serves fonts bundled with an application. Font files live in
// a file system (e.g., an embed.FS or os.DirFS) and are described either by a
// font manifest or by CSS @font-face rules. Files are read on first use.
type AssetProvider struct {
	catalog
	fsys fs.FS
}

// NewAssetProvider creates an asset provider without any fonts. Fonts are
// added with Add, LoadManifest or LoadFontFaceRules. With a nil fsys, fonts
// may be declared but none of them will load.
func NewAssetProvider(fsys fs.FS) *AssetProvider {
	return &AssetProvider{
		catalog: catalog{newFontSet()},
		fsys:    fsys,
	}
}

// Add declares a font asset for a family.
func (ap *AssetProvider) Add(family, asset string, style xfont.Style, weight xfont.Weight) {
	tracer().Debugf("asset provider declares %s for family %q", asset, family)
	ap.set.add(&entry{
		family: family,
		style:  style,
		weight: weight,
		path:   asset,
		load: func() (*font.ScalableFont, error) {
			return ap.loadAsset(family, asset, style, weight)
		},
	}, false)
}

func (ap *AssetProvider) loadAsset(family, asset string, style xfont.Style, weight xfont.Weight) (
	*font.ScalableFont, error) {
	//
	data, err := ap.readFile(asset)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "font asset %s not readable", asset)
	}
	f, err := font.ParseOpenTypeFont(data)
	if err != nil {
		return nil, err
	}
	// the declaration is authoritative, not the font's name table
	f.Family, f.Style, f.Weight, f.Filepath = family, style, weight, asset
	return f, nil
}

func (ap *AssetProvider) readFile(name string) ([]byte, error) {
	if ap.fsys == nil {
		return nil, core.Error(core.EMISSING, "asset provider has no file system to read %s", name)
	}
	return fs.ReadFile(ap.fsys, name)
}

func (ap *AssetProvider) String() string {
	return fmt.Sprintf("asset(%d fonts)", ap.set.size())
}

// --- Font manifest ---------------------------------------------------------

// A font manifest lists font families and their assets:
//
//	- family: Roboto
//	  fonts:
//	    - asset: fonts/Roboto-Regular.ttf
//	    - asset: fonts/Roboto-BoldItalic.ttf
//	      weight: 700
//	      style: italic
//
// As YAML is a superset of JSON, JSON font manifests are accepted as well.
type manifestFamily struct {
	Family string         `yaml:"family"`
	Fonts  []manifestFont `yaml:"fonts"`
}

type manifestFont struct {
	Asset  string `yaml:"asset"`
	Weight int    `yaml:"weight"`
	Style  string `yaml:"style"`
}

// LoadManifest reads a font manifest from the provider's file system and
// declares all fonts listed therein.
func (ap *AssetProvider) LoadManifest(name string) error {
	data, err := ap.readFile(name)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "font manifest %s not readable", name)
	}
	var manifest []manifestFamily
	if err = yaml.Unmarshal(data, &manifest); err != nil {
		return core.WrapError(err, core.EINVALID, "font manifest %s is malformed", name)
	}
	for i, fam := range manifest {
		if fam.Family == "" {
			return core.Error(core.EINVALID, "font manifest %s: entry #%d has no family", name, i)
		}
		for _, f := range fam.Fonts {
			if f.Asset == "" {
				return core.Error(core.EINVALID, "font manifest %s: font of %q has no asset",
					name, fam.Family)
			}
			ap.Add(fam.Family, f.Asset, parseStyle(f.Style), font.WeightFromNumber(f.Weight))
		}
	}
	tracer().Infof("font manifest %s lists %d families", name, len(manifest))
	return nil
}

// --- CSS @font-face rules --------------------------------------------------

// LoadFontFaceRules reads a CSS stylesheet from the provider's file system and
// declares a font for each @font-face rule:
//
//	@font-face {
//	    font-family: "Roboto";
//	    src: url("fonts/Roboto-Bold.ttf") format("truetype");
//	    font-weight: bold;
//	}
//
// Only url() sources are considered; other rules are ignored.
func (ap *AssetProvider) LoadFontFaceRules(name string) error {
	data, err := ap.readFile(name)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "stylesheet %s not readable", name)
	}
	sheet, err := parser.Parse(string(data))
	if err != nil {
		return core.WrapError(err, core.EINVALID, "stylesheet %s is malformed", name)
	}
	n := 0
	for _, rule := range sheet.Rules {
		if rule.Kind != css.AtRule || rule.Name != "@font-face" {
			continue
		}
		var family, src string
		style, weight := xfont.StyleNormal, xfont.WeightNormal
		for _, decl := range rule.Declarations {
			switch strings.ToLower(decl.Property) {
			case "font-family":
				family = unquote(decl.Value)
			case "src":
				src = cssURL(decl.Value)
			case "font-style":
				style = parseStyle(decl.Value)
			case "font-weight":
				weight = parseCSSWeight(decl.Value)
			}
		}
		if family == "" || src == "" {
			tracer().Errorf("stylesheet %s: skipping incomplete @font-face rule", name)
			continue
		}
		ap.Add(family, src, style, weight)
		n++
	}
	tracer().Infof("stylesheet %s declares %d font faces", name, n)
	return nil
}

func parseStyle(s string) xfont.Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic":
		return xfont.StyleItalic
	case "oblique":
		return xfont.StyleOblique
	}
	return xfont.StyleNormal
}

func parseCSSWeight(s string) xfont.Weight {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "normal", "":
		return xfont.WeightNormal
	case "bold":
		return xfont.WeightBold
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return xfont.WeightNormal
	}
	return font.WeightFromNumber(n)
}

// cssURL extracts the first url(…) from a src declaration.
func cssURL(src string) string {
	start := strings.Index(src, "url(")
	if start < 0 {
		return ""
	}
	rest := src[start+4:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	return unquote(rest[:end])
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
