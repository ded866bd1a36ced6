package fontmgr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/schuko"
	xfont "golang.org/x/image/font"
)

// InitData selects the font catalogs a platform provider draws from.
type InitData uint32

// Font catalogs of a platform provider.
const (
	SystemFonts InitData = 1 << iota // font files in the platform's font directories
	FontConfig                       // fonts listed by fontconfig
	GoFontsData                      // the built-in Go fonts
)

// SystemProvider serves the fonts installed on the host platform. The
// catalog is collected on first use.
type SystemProvider struct {
	catalog
	scanDirs bool
	fcconf   schuko.Configuration
	goFonts  bool
	once     sync.Once
}

// NewPlatformProvider creates the platform's default provider, drawing from
// the catalogs selected by init. conf is consulted for fontconfig and may be
// nil.
//
// If init is zero or none of the selected catalogs is available on this
// platform, NewPlatformProvider returns nil.
func NewPlatformProvider(init InitData, conf schuko.Configuration) Provider {
	sp := &SystemProvider{catalog: catalog{newFontSet()}}
	sp.set.prefix = true // family names of font files are guesses
	if init&SystemFonts != 0 {
		if hasFontDirectories(runtime.GOOS) {
			sp.scanDirs = true
		} else {
			tracer().Infof("platform %s has no font directories", runtime.GOOS)
		}
	}
	if init&FontConfig != 0 {
		_, err := findFontConfigBinary(conf)
		if err == nil {
			_, err = fontConfigCacheDir(conf)
		}
		if err == nil {
			sp.fcconf = conf
		} else {
			tracer().Infof("fontconfig not available: %v", err)
		}
	}
	if init&GoFontsData != 0 {
		sp.goFonts = true
		gofonts := GoFonts()
		for _, entries := range gofonts.set.families {
			for _, e := range entries {
				sp.set.add(e, false)
			}
		}
	}
	if !sp.scanDirs && sp.fcconf == nil && !sp.goFonts {
		tracer().Infof("no platform font provider for init data %#x", uint32(init))
		return nil
	}
	return sp
}

func hasFontDirectories(goos string) bool {
	switch goos {
	case "js", "wasip1", "plan9":
		return false
	}
	return true
}

// collect fills the catalog from the font directories and fontconfig.
func (sp *SystemProvider) collect() {
	sp.once.Do(func() {
		n := 0
		if sp.scanDirs {
			for _, path := range findfont.List() {
				ext := strings.ToLower(filepath.Ext(path))
				if ext != ".ttf" && ext != ".otf" {
					continue
				}
				style, weight := font.GuessStyleAndWeight(path)
				sp.addFile(font.Descriptor{
					Family: font.GuessFamily(path),
					Path:   path,
					Style:  style,
					Weight: weight,
				})
				n++
			}
		}
		if sp.fcconf != nil {
			descs, err := loadFontConfigList(sp.fcconf)
			if err != nil {
				tracer().Errorf("cannot load fontconfig list: %v", err)
			}
			for _, desc := range descs {
				sp.addFile(desc)
				n++
			}
		}
		tracer().Infof("system font catalog has %d font files", n)
	})
}

func (sp *SystemProvider) addFile(desc font.Descriptor) {
	path := desc.Path
	sp.set.add(&entry{
		family: desc.Family,
		style:  desc.Style,
		weight: desc.Weight,
		path:   path,
		load: func() (*font.ScalableFont, error) {
			return font.LoadOpenTypeFont(path)
		},
	}, false)
}

// Families returns the family names of installed fonts.
func (sp *SystemProvider) Families() []string {
	sp.collect()
	return sp.catalog.Families()
}

// MatchFamily returns the installed fonts of a family, best match first.
func (sp *SystemProvider) MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	sp.collect()
	return sp.catalog.MatchFamily(family, style, weight)
}

// MatchCharacter returns an installed font covering r, or nil.
func (sp *SystemProvider) MatchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	sp.collect()
	return sp.catalog.MatchCharacter(r, style, weight)
}

// DefaultFamilies returns the families the platform considers default
// fallbacks. With the Go fonts included, "Go" is the last resort.
func (sp *SystemProvider) DefaultFamilies() []string {
	families := platformDefaultFamilies(runtime.GOOS)
	if sp.goFonts {
		families = append(families, "Go")
	}
	return families
}

func (sp *SystemProvider) String() string {
	return fmt.Sprintf("system(%s)", runtime.GOOS)
}

// --- Default families ------------------------------------------------------

// DefaultFamilySource is implemented by providers which know their default
// families.
type DefaultFamilySource interface {
	DefaultFamilies() []string
}

// DefaultFamilies returns the ordered list of family names to try if no
// requested family can be resolved. A provider implementing
// DefaultFamilySource supplies its own list; otherwise the list of the host
// platform is returned. p may be nil.
func DefaultFamilies(p Provider) []string {
	if src, ok := p.(DefaultFamilySource); ok {
		return src.DefaultFamilies()
	}
	return platformDefaultFamilies(runtime.GOOS)
}

func platformDefaultFamilies(goos string) []string {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return []string{"Ubuntu", "Cantarell", "DejaVu Sans", "Liberation Sans", "Arial"}
	case "darwin", "ios":
		return []string{"Helvetica Neue", "Helvetica"}
	case "windows":
		return []string{"Segoe UI", "Arial"}
	case "android":
		return []string{"Roboto", "sans-serif"}
	}
	return []string{"Arial"}
}
