package fontcollection

import (
	"sync"

	"github.com/npillmayer/fontcoll/core/font/fontmgr"
	"github.com/npillmayer/schuko"
)

// SyncCollection is a Collection guarded by a single mutex, for
// configurations where more than one goroutine touches the collection.
// The zero value is ready to use.
type SyncCollection struct {
	mu sync.Mutex
	c  Collection
}

func (sc *SyncCollection) SetupDefaultProvider(init fontmgr.InitData, conf schuko.Configuration) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.SetupDefaultProvider(init, conf)
}

func (sc *SyncCollection) SetDefaultProvider(p fontmgr.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.SetDefaultProvider(p)
}

func (sc *SyncCollection) SetAssetProvider(p fontmgr.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.SetAssetProvider(p)
}

func (sc *SyncCollection) SetDynamicProvider(p fontmgr.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.SetDynamicProvider(p)
}

func (sc *SyncCollection) SetTestProvider(p fontmgr.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.SetTestProvider(p)
}

func (sc *SyncCollection) DisableFallback() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.DisableFallback()
}

func (sc *SyncCollection) ClearFamilyCache() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.ClearFamilyCache()
}

func (sc *SyncCollection) ProviderOrder() []fontmgr.Provider {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.c.ProviderOrder()
}

func (sc *SyncCollection) CountProviders() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.c.CountProviders()
}

// Composite returns the cached composite, building it if necessary.
func (sc *SyncCollection) Composite() *Composite {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.c.Composite()
}

func (sc *SyncCollection) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.c.Close()
}
