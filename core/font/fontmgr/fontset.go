package fontmgr

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
	"github.com/npillmayer/fontcoll/core/font"
	xfont "golang.org/x/image/font"
)

// entry is a single font of a fontSet. Its font data is loaded on demand.
type entry struct {
	family string // family name as registered
	style  xfont.Style
	weight xfont.Weight
	path   string
	load   func() (*font.ScalableFont, error)
	font   *font.ScalableFont
	failed bool // loading failed once, will not be retried
}

// fontSet is a catalog of fonts, grouped by normalized family name.
// Family keys are indexed in a trie to find families by prefix, which is
// necessary for catalogs built from file names. Catalogs of declared family
// names match exactly.
type fontSet struct {
	sync.Mutex
	families map[string][]*entry
	index    *trie.Trie
	prefix   bool // fall back to prefix search if a family is not found
}

func newFontSet() *fontSet {
	return &fontSet{
		families: make(map[string][]*entry),
		index:    trie.New(),
	}
}

// add puts an entry into the set. If replace is set, an entry with identical
// family, style and weight will be replaced.
func (fs *fontSet) add(e *entry, replace bool) {
	key := font.NormalizeFamily(e.family)
	if key == "" {
		tracer().Errorf("font set cannot store font without family name: %s", e.path)
		return
	}
	fs.Lock()
	defer fs.Unlock()
	entries, ok := fs.families[key]
	if !ok {
		fs.index.Add(key, nil)
	}
	if replace {
		for i, old := range entries {
			if old.style == e.style && old.weight == e.weight {
				entries[i] = e
				return
			}
		}
	}
	fs.families[key] = append(entries, e)
}

func (fs *fontSet) size() int {
	fs.Lock()
	defer fs.Unlock()
	n := 0
	for _, entries := range fs.families {
		n += len(entries)
	}
	return n
}

// familyNames returns the registered family names, sorted.
func (fs *fontSet) familyNames() []string {
	fs.Lock()
	defer fs.Unlock()
	names := make([]string, 0, len(fs.families))
	for _, entries := range fs.families {
		names = append(names, entries[0].family)
	}
	sort.Strings(names)
	return names
}

// lookup finds the entries for a family. If no family with the exact key
// exists and the set allows prefix search, all families having the key as a
// prefix are considered. fs must be locked.
func (fs *fontSet) lookup(family string) []*entry {
	key := font.NormalizeFamily(family)
	if key == "" {
		return nil
	}
	if entries, ok := fs.families[key]; ok {
		return entries
	}
	if !fs.prefix {
		return nil
	}
	keys := fs.index.PrefixSearch(key)
	sort.Strings(keys)
	var entries []*entry
	for _, k := range keys {
		entries = append(entries, fs.families[k]...)
	}
	if len(entries) > 0 {
		tracer().Debugf("family %q matched by prefix: %v", family, keys)
	}
	return entries
}

// match returns the loadable fonts of a family, ranked by match confidence.
func (fs *fontSet) match(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	fs.Lock()
	defer fs.Unlock()
	entries := ranked(fs.lookup(family), style, weight)
	var fonts []*font.ScalableFont
	for _, e := range entries {
		if f := e.get(); f != nil {
			fonts = append(fonts, f)
		}
	}
	return fonts
}

// matchCharacter searches all families, in order of their keys, for a font
// with a glyph for r. Only the best-ranked loadable variant of each family
// is checked.
func (fs *fontSet) matchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	fs.Lock()
	defer fs.Unlock()
	keys := make([]string, 0, len(fs.families))
	for k := range fs.families {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, e := range ranked(fs.families[k], style, weight) {
			f := e.get()
			if f == nil {
				continue
			}
			if f.HasGlyph(r) {
				return f
			}
			break
		}
	}
	return nil
}

// get loads an entry's font, if necessary. Errors are traced and the entry
// is marked as failed. The set must be locked.
func (e *entry) get() *font.ScalableFont {
	if e.font != nil || e.failed || e.load == nil {
		return e.font
	}
	f, err := e.load()
	if err != nil {
		tracer().Errorf("cannot load font %s: %v", e.path, err)
		e.failed = true
		return nil
	}
	e.font = f
	return f
}

// ranked sorts a copy of entries by decreasing match confidence. Entries with
// equal confidence keep their registration order.
func ranked(entries []*entry, style xfont.Style, weight xfont.Weight) []*entry {
	r := make([]*entry, len(entries))
	copy(r, entries)
	sort.SliceStable(r, func(i, j int) bool {
		return font.Confidence(r[i].style, r[i].weight, style, weight) >
			font.Confidence(r[j].style, r[j].weight, style, weight)
	})
	return r
}

// catalog implements the query part of Provider on top of a fontSet.
type catalog struct {
	set *fontSet
}

// Families returns the family names of the catalog, sorted.
func (c catalog) Families() []string {
	return c.set.familyNames()
}

// MatchFamily returns the fonts of a family, best match first.
func (c catalog) MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	return c.set.match(family, style, weight)
}

// MatchCharacter returns a font covering r, or nil.
func (c catalog) MatchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	return c.set.matchCharacter(r, style, weight)
}
