/*
Package fontcollection manages the font providers a text shaper draws from.

A Collection holds up to four providers in named slots (dynamic, asset, test
and default) and builds a Composite from them on demand. The composite is
what a shaper queries to map family names to fonts; it asks the providers in
a fixed order:

	dynamic → asset → test → default

i.e., fonts registered at runtime win over fonts bundled with the
application, which win over test fonts, which win over the platform's fonts.

The composite is cached. Changing any provider slot discards it and the
next call to Composite builds a fresh one; clearing the family cache keeps it.

Collection is not safe for concurrent use. Wrap it in a SyncCollection if
more than one goroutine configures it.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontcollection

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fontcoll.collection'
func tracer() tracing.Trace {
	return tracing.Select("fontcoll.collection")
}
