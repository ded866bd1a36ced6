package fontcollection

import (
	"github.com/npillmayer/fontcoll/core/font/fontmgr"
	"github.com/npillmayer/schuko"
)

// Collection owns the provider slots, the fallback flag and the cached
// composite. The zero value is an empty collection with fallback enabled.
type Collection struct {
	dynamic     fontmgr.Provider
	asset       fontmgr.Provider
	test        fontmgr.Provider
	deflt       fontmgr.Provider
	fallbackOff bool       // fallback has been disabled, one-way
	composite   *Composite // nil if absent
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{}
}

// SetupDefaultProvider creates the platform's default provider from init and
// puts it into the default slot. If the platform cannot provide fonts for
// init, the default slot will be empty.
func (c *Collection) SetupDefaultProvider(init fontmgr.InitData, conf schuko.Configuration) {
	c.deflt = fontmgr.NewPlatformProvider(init, conf)
	c.invalidate()
}

// SetDefaultProvider puts p into the default slot. A nil p clears the slot.
func (c *Collection) SetDefaultProvider(p fontmgr.Provider) {
	c.deflt = p
	c.invalidate()
}

// SetAssetProvider puts p into the asset slot. A nil p clears the slot.
func (c *Collection) SetAssetProvider(p fontmgr.Provider) {
	c.asset = p
	c.invalidate()
}

// SetDynamicProvider puts p into the dynamic slot. A nil p clears the slot.
func (c *Collection) SetDynamicProvider(p fontmgr.Provider) {
	c.dynamic = p
	c.invalidate()
}

// SetTestProvider puts p into the test slot. A nil p clears the slot.
func (c *Collection) SetTestProvider(p fontmgr.Provider) {
	c.test = p
	c.invalidate()
}

// DefaultProvider returns the provider of the default slot, or nil.
func (c *Collection) DefaultProvider() fontmgr.Provider { return c.deflt }

// AssetProvider returns the provider of the asset slot, or nil.
func (c *Collection) AssetProvider() fontmgr.Provider { return c.asset }

// DynamicProvider returns the provider of the dynamic slot, or nil.
func (c *Collection) DynamicProvider() fontmgr.Provider { return c.dynamic }

// TestProvider returns the provider of the test slot, or nil.
func (c *Collection) TestProvider() fontmgr.Provider { return c.test }

// DisableFallback switches off the search for fallback fonts, for good.
// A live composite is switched in place and stays valid.
func (c *Collection) DisableFallback() {
	c.fallbackOff = true
	if c.composite != nil {
		c.composite.disableFallback()
	}
}

// FallbackEnabled is false after DisableFallback has been called.
func (c *Collection) FallbackEnabled() bool {
	return !c.fallbackOff
}

// ClearFamilyCache makes a live composite forget the fonts it has memoized.
// The composite itself is kept.
func (c *Collection) ClearFamilyCache() {
	if c.composite != nil {
		c.composite.ClearCaches()
	}
}

// ProviderOrder returns the configured providers in the order they are
// queried: dynamic, asset, test, default. Empty slots are skipped.
func (c *Collection) ProviderOrder() []fontmgr.Provider {
	return providerOrder(c.dynamic, c.asset, c.test, c.deflt)
}

// CountProviders returns the number of non-empty provider slots.
func (c *Collection) CountProviders() int {
	return len(c.ProviderOrder())
}

// Composite returns the cached composite, building it from the current
// provider slots if there is none. Without intervening changes to the
// slots, Composite returns the identical object.
func (c *Collection) Composite() *Composite {
	if c.composite != nil {
		return c.composite
	}
	comp := newComposite()
	comp.setDefaultProvider(c.deflt, fontmgr.DefaultFamilies(c.deflt))
	comp.setAssetProvider(c.asset)
	comp.setDynamicProvider(c.dynamic)
	comp.setTestProvider(c.test)
	if c.fallbackOff {
		comp.disableFallback()
	}
	if n := c.CountProviders(); n == 0 {
		tracer().Infof("font collection has no providers, only the fallback font is available")
	} else {
		tracer().Debugf("font collection builds composite from %d providers", n)
	}
	c.composite = comp
	return comp
}

// Close releases the composite, clearing its caches first. The collection
// keeps its providers and may be used further.
func (c *Collection) Close() {
	if c.composite != nil {
		c.composite.ClearCaches()
		c.composite = nil
	}
}

func (c *Collection) invalidate() {
	if c.composite != nil {
		tracer().Debugf("font collection discards composite")
		c.composite = nil
	}
}

func providerOrder(dynamic, asset, test, deflt fontmgr.Provider) []fontmgr.Provider {
	order := make([]fontmgr.Provider, 0, 4)
	for _, p := range [...]fontmgr.Provider{dynamic, asset, test, deflt} {
		if p != nil {
			order = append(order, p)
		}
	}
	return order
}
