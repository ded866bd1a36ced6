package fontcollection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/fontcoll/core/font/fontmgr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	xfont "golang.org/x/image/font"
)

// stubProvider knows a fixed set of families and counts lookups.
type stubProvider struct {
	name    string
	fonts   map[string][]*font.ScalableFont
	lookups int
}

func stub(name string, families ...string) *stubProvider {
	sp := &stubProvider{name: name, fonts: make(map[string][]*font.ScalableFont)}
	for _, fam := range families {
		sp.fonts[font.NormalizeFamily(fam)] = []*font.ScalableFont{
			{Fontname: name + " " + fam, Family: fam},
		}
	}
	return sp
}

func (sp *stubProvider) Families() []string {
	var families []string
	for _, fonts := range sp.fonts {
		families = append(families, fonts[0].Family)
	}
	return families
}

func (sp *stubProvider) MatchFamily(family string, style xfont.Style, weight xfont.Weight) []*font.ScalableFont {
	sp.lookups++
	return sp.fonts[font.NormalizeFamily(family)]
}

func (sp *stubProvider) MatchCharacter(r rune, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	return nil
}

// --- Test Suite Preparation ------------------------------------------------

type CollectionTestEnviron struct {
	suite.Suite
	dynamic, asset, test, deflt *stubProvider
}

// listen for 'go test' command --> run test methods
func TestCollectionInvariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	suite.Run(t, new(CollectionTestEnviron))
}

// run before each test method
func (env *CollectionTestEnviron) SetupTest() {
	tracing.Select("fontcoll.collection").SetTraceLevel(tracing.LevelInfo)
	env.dynamic = stub("dynamic", "Brand")
	env.asset = stub("asset", "Brand", "Icons")
	env.test = stub("test", "Ahem")
	env.deflt = stub("default", "Arial", "Brand")
}

func (env *CollectionTestEnviron) setters(c *Collection) []func() {
	return []func(){
		func() { c.SetDynamicProvider(env.dynamic) },
		func() { c.SetAssetProvider(env.asset) },
		func() { c.SetTestProvider(env.test) },
		func() { c.SetDefaultProvider(env.deflt) },
	}
}

// --- Tests -----------------------------------------------------------------

func (env *CollectionTestEnviron) TestOrderForAllSlotSubsets() {
	all := []fontmgr.Provider{env.dynamic, env.asset, env.test, env.deflt}
	for mask := 0; mask < 16; mask++ {
		var expected []fontmgr.Provider
		for slot := 0; slot < 4; slot++ {
			if mask&(1<<slot) != 0 {
				expected = append(expected, all[slot])
			}
		}
		for _, perm := range permutations([]int{0, 1, 2, 3}) {
			c := New()
			setters := env.setters(c)
			for _, slot := range perm {
				if mask&(1<<slot) != 0 {
					setters[slot]()
				}
			}
			order := c.ProviderOrder()
			env.Equal(len(expected), len(order), "mask %04b, assignment order %v", mask, perm)
			for i := range expected {
				env.Same(expected[i], order[i], "mask %04b, assignment order %v", mask, perm)
			}
			env.Equal(len(order), c.CountProviders())
			providers := c.Composite().Providers()
			env.Equal(len(expected), len(providers))
			for i := range expected {
				env.Same(expected[i], providers[i])
			}
		}
	}
}

func (env *CollectionTestEnviron) TestCompositeIsCached() {
	c := New()
	c.SetAssetProvider(env.asset)
	comp := c.Composite()
	for i := 0; i < 10; i++ {
		env.Same(comp, c.Composite())
	}
}

func (env *CollectionTestEnviron) TestMutatorsInvalidate() {
	c := New()
	for i, set := range env.setters(c) {
		comp := c.Composite()
		set()
		env.NotSame(comp, c.Composite(), "setter #%d should invalidate the composite", i)
		env.Equal(i+1, len(c.Composite().Providers()))
	}
	comp := c.Composite()
	c.SetTestProvider(nil)
	env.NotSame(comp, c.Composite())
	env.Equal(3, c.CountProviders())
	env.Nil(c.TestProvider())
	//
	comp = c.Composite()
	c.SetupDefaultProvider(fontmgr.GoFontsData, nil)
	env.NotSame(comp, c.Composite())
	env.NotSame(fontmgr.Provider(env.deflt), c.DefaultProvider())
	families := c.Composite().DefaultFamilies()
	env.Equal("Go", families[len(families)-1])
}

func (env *CollectionTestEnviron) TestUnavailablePlatformProvider() {
	c := New()
	c.SetDefaultProvider(env.deflt)
	env.Equal(1, c.CountProviders())
	c.SetupDefaultProvider(0, nil)
	env.Nil(c.DefaultProvider())
	env.Equal(0, c.CountProviders())
	env.Empty(c.Composite().Providers())
}

func (env *CollectionTestEnviron) TestCountMatchesOrder() {
	c := New()
	env.Equal(0, c.CountProviders())
	for _, set := range env.setters(c) {
		set()
		env.Equal(len(c.ProviderOrder()), c.CountProviders())
	}
	env.Equal(4, c.CountProviders())
	c.SetDynamicProvider(nil)
	c.SetDefaultProvider(nil)
	env.Equal(2, c.CountProviders())
	env.Equal(len(c.ProviderOrder()), c.CountProviders())
}

func (env *CollectionTestEnviron) TestDisableFallbackBeforeBuild() {
	c := New()
	c.DisableFallback()
	env.False(c.FallbackEnabled())
	env.False(c.Composite().FallbackEnabled())
}

func (env *CollectionTestEnviron) TestDisableFallbackInPlace() {
	c := New()
	comp := c.Composite()
	env.True(comp.FallbackEnabled())
	c.DisableFallback()
	env.Same(comp, c.Composite())
	env.False(comp.FallbackEnabled())
}

func (env *CollectionTestEnviron) TestFallbackIsOneWay() {
	c := New()
	c.Composite()
	c.DisableFallback()
	for _, set := range env.setters(c) {
		set()
		env.False(c.Composite().FallbackEnabled())
	}
	c.SetupDefaultProvider(fontmgr.GoFontsData, nil)
	env.False(c.Composite().FallbackEnabled())
	c.Close()
	env.False(c.Composite().FallbackEnabled())
}

func (env *CollectionTestEnviron) TestClearFamilyCacheKeepsComposite() {
	c := New()
	c.SetAssetProvider(env.asset)
	comp := c.Composite()
	comp.MatchFamilies([]string{"Icons"}, xfont.StyleNormal, xfont.WeightNormal)
	comp.MatchFamilies([]string{"Icons"}, xfont.StyleNormal, xfont.WeightNormal)
	env.Equal(1, env.asset.lookups, "second lookup should be memoized")
	env.Equal(1, comp.CacheSize())
	c.ClearFamilyCache()
	env.Same(comp, c.Composite())
	env.Equal(0, comp.CacheSize())
	comp.MatchFamilies([]string{"Icons"}, xfont.StyleNormal, xfont.WeightNormal)
	env.Equal(2, env.asset.lookups)
	env.Equal(env.asset, c.AssetProvider())
}

func (env *CollectionTestEnviron) TestCloseClearsCaches() {
	c := New()
	c.SetDefaultProvider(env.deflt)
	comp := c.Composite()
	comp.MatchFamily("Arial", xfont.StyleNormal, xfont.WeightNormal)
	env.Equal(1, comp.CacheSize())
	c.Close()
	env.Equal(0, comp.CacheSize())
	env.NotSame(comp, c.Composite())
	env.Equal(1, c.CountProviders())
}

func (env *CollectionTestEnviron) TestPriorityDecidesMatch() {
	c := New()
	c.SetDefaultProvider(env.deflt)
	c.SetAssetProvider(env.asset)
	c.SetDynamicProvider(env.dynamic)
	fonts := c.Composite().MatchFamily("Brand", xfont.StyleNormal, xfont.WeightNormal)
	env.Require().Len(fonts, 1)
	env.Equal("dynamic Brand", fonts[0].Fontname)
	fonts = c.Composite().MatchFamily("Icons", xfont.StyleNormal, xfont.WeightNormal)
	env.Require().Len(fonts, 1)
	env.Equal("asset Icons", fonts[0].Fontname)
	fonts = c.Composite().MatchFamilies([]string{"Unknown", "Arial"}, xfont.StyleNormal, xfont.WeightNormal)
	env.Require().Len(fonts, 1)
	env.Equal("default Arial", fonts[0].Fontname)
}

// --- Composite with real fonts ---------------------------------------------

func TestDynamicWinsOverAsset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	dynamic := fontmgr.NewDynamicProvider()
	require.NoError(t, dynamic.Register("Brand", font.FallbackFont().Binary))
	assets := fontmgr.NewAssetProvider(nil)
	assets.Add("Brand", "fonts/Brand.ttf", xfont.StyleNormal, xfont.WeightBold)
	c := New()
	c.SetAssetProvider(assets)
	c.SetDynamicProvider(dynamic)
	fonts := c.Composite().MatchFamily("Brand", xfont.StyleNormal, xfont.WeightBold)
	require.Len(t, fonts, 1)
	assert.Equal(t, "Go Regular", fonts[0].Fontname)
	assert.Equal(t, "", fonts[0].Filepath, "dynamic fonts have no file path")
}

func TestExactFamilyInLowerPriorityProvider(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	dynamic := fontmgr.NewDynamicProvider()
	require.NoError(t, dynamic.Register("Brand Icons", font.FallbackFont().Binary))
	c := New()
	c.SetDefaultProvider(stub("default", "Brand"))
	c.SetDynamicProvider(dynamic)
	fonts := c.Composite().MatchFamily("Brand", xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 1)
	assert.Equal(t, "default Brand", fonts[0].Fontname)
	fonts = c.Composite().MatchFamily("Brand Icons", xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 1)
	assert.Equal(t, "Go Regular", fonts[0].Fontname)
}

func TestAssetProviderWithoutFileSystem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	tracing.Select("fontcoll.fonts").SetTraceLevel(tracing.LevelError)
	//
	assets := fontmgr.NewAssetProvider(nil)
	assets.Add("Brand", "fonts/Brand.ttf", xfont.StyleNormal, xfont.WeightNormal)
	c := New()
	c.SetAssetProvider(assets)
	c.SetDefaultProvider(stub("default", "Brand"))
	fonts := c.Composite().MatchFamily("Brand", xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 1)
	assert.Equal(t, "default Brand", fonts[0].Fontname)
	c.SetDefaultProvider(nil)
	assert.Empty(t, c.Composite().MatchFamily("Brand", xfont.StyleNormal, xfont.WeightNormal))
	fonts = c.Composite().MatchFamilies([]string{"Brand"}, xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 1)
	assert.Same(t, font.FallbackFont(), fonts[0])
}

func TestMatchFamilyResultIsCallersCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	c := New()
	c.SetDynamicProvider(fontmgr.GoFonts())
	comp := c.Composite()
	fonts := comp.MatchFamily("Go", xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 4)
	assert.Equal(t, "Go Regular", fonts[0].Fontname)
	fonts[0], fonts[3] = fonts[3], nil
	again := comp.MatchFamily("Go", xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, again, 4)
	assert.Equal(t, "Go Regular", again[0].Fontname)
	assert.NotNil(t, again[3])
	assert.Equal(t, 1, comp.CacheSize())
}

func TestDefaultFamiliesResolve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	c := New()
	c.SetupDefaultProvider(fontmgr.GoFontsData, nil)
	c.DisableFallback()
	fonts := c.Composite().MatchFamilies([]string{"No Such Family"}, xfont.StyleNormal, xfont.WeightBold)
	require.Len(t, fonts, 1)
	assert.Equal(t, "Go Bold", fonts[0].Fontname)
}

func TestFallbackFontAsLastResort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	c := New()
	fonts := c.Composite().MatchFamilies([]string{"No Such Family"}, xfont.StyleNormal, xfont.WeightNormal)
	require.Len(t, fonts, 1)
	assert.Same(t, font.FallbackFont(), fonts[0])
	c.DisableFallback()
	fonts = c.Composite().MatchFamilies([]string{"No Such Family"}, xfont.StyleNormal, xfont.WeightNormal)
	assert.Empty(t, fonts)
}

func TestDefaultFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	//
	c := New()
	assert.Same(t, font.FallbackFont(), c.Composite().DefaultFallback('a', xfont.StyleNormal, xfont.WeightNormal))
	c.SetDynamicProvider(fontmgr.GoFonts())
	comp := c.Composite()
	f := comp.DefaultFallback('a', xfont.StyleNormal, xfont.WeightNormal)
	require.NotNil(t, f)
	assert.NotSame(t, font.FallbackFont(), f)
	assert.Equal(t, "Go Regular", f.Fontname)
	assert.Nil(t, comp.DefaultFallback('中', xfont.StyleNormal, xfont.WeightNormal))
	assert.Equal(t, 2, comp.CacheSize())
	c.DisableFallback()
	assert.Nil(t, comp.DefaultFallback('a', xfont.StyleNormal, xfont.WeightNormal))
}

func TestFamilyCacheLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	tracing.Select("fontcoll.collection").SetTraceLevel(tracing.LevelError)
	//
	p := stub("many")
	c := New()
	c.SetAssetProvider(p)
	comp := c.Composite()
	for i := 0; i < FamilyCacheLimit+10; i++ {
		comp.MatchFamily(fmt.Sprintf("family-%d", i), xfont.StyleNormal, xfont.WeightNormal)
	}
	assert.Equal(t, FamilyCacheLimit, comp.CacheSize())
	lookups := p.lookups
	comp.MatchFamily(fmt.Sprintf("family-%d", FamilyCacheLimit+9), xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, lookups, p.lookups, "newest entry should still be cached")
	comp.MatchFamily("family-0", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, lookups+1, p.lookups, "oldest entry should have been evicted")
}

func TestSyncCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontcoll.collection")
	defer teardown()
	tracing.Select("fontcoll.collection").SetTraceLevel(tracing.LevelError)
	//
	var sc SyncCollection
	gofonts := fontmgr.GoFonts()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					sc.SetDynamicProvider(gofonts)
				case 1:
					sc.ClearFamilyCache()
				case 2:
					sc.Composite().MatchFamilies([]string{"Go"}, xfont.StyleNormal, xfont.WeightNormal)
				case 3:
					assert.Equal(t, len(sc.ProviderOrder()), sc.CountProviders())
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, sc.CountProviders())
	comp := sc.Composite()
	assert.Same(t, comp, sc.Composite())
	sc.DisableFallback()
	assert.False(t, comp.FallbackEnabled())
	sc.Close()
	assert.NotSame(t, comp, sc.Composite())
}

// --- Helpers ---------------------------------------------------------------

func permutations(a []int) [][]int {
	if len(a) <= 1 {
		return [][]int{append([]int(nil), a...)}
	}
	var perms [][]int
	for i := range a {
		rest := make([]int, 0, len(a)-1)
		rest = append(rest, a[:i]...)
		rest = append(rest, a[i+1:]...)
		for _, p := range permutations(rest) {
			perms = append(perms, append([]int{a[i]}, p...))
		}
	}
	return perms
}
