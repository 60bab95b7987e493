// Package bokeh declares the surface this bridge consumes from the BokehJS
// runtime. The library itself lives outside the process (a browser global, or
// the script tags a generated page loads), so everything here is a contract
// for whichever environment hosts the actual runtime.
package bokeh

import (
	"context"
)

// Version is the BokehJS release the bridge is pinned to. The Python wrapper
// enforces the same pin on its side, so both halves always speak the same
// serialization format.
const Version = "3.7.3"

// Kind names a charting-library object type the theme knows how to style.
type Kind string

const (
	KindPlot     Kind = "Plot"
	KindGrid     Kind = "Grid"
	KindAxis     Kind = "Axis"
	KindLegend   Kind = "Legend"
	KindColorBar Kind = "ColorBar"
	KindTitle    Kind = "Title"
)

// KnownKinds returns every kind the theme translation styles, in styling
// precedence order (most specific first, so a Title is identified as a Title
// and not as the Plot annotation it subclasses).
func KnownKinds() []Kind {
	return []Kind{KindTitle, KindColorBar, KindLegend, KindAxis, KindGrid, KindPlot}
}

// Model is an opaque reference to a charting-library object instance.
type Model any

// KindResolver reports the declared kind of a model instance. Resolution of
// an instance the resolver does not recognize returns ok=false, which makes
// the theme fall back to library defaults for it.
type KindResolver interface {
	KindOf(model Model) (Kind, bool)
}

// Theme is the attribute provider handed to the runtime's theme registration.
// The runtime queries it per (object instance, attribute name) while drawing;
// ok=false means "no opinion, use the library default".
type Theme interface {
	Get(model Model, attr string) (value any, ok bool)
}

// Enumerable is implemented by themes whose attribute groups can be listed
// up front. Runtimes that serialize the theme (instead of querying it live,
// as the browser library does) need this to enumerate what to emit.
type Enumerable interface {
	AttributeGroups() map[Kind]map[string]any
}

// Runtime is the global entry point of the charting library.
type Runtime interface {
	KindResolver

	// UseTheme installs a token-derived theme for subsequent embeds.
	UseTheme(theme Theme) error

	// HasBuiltinTheme reports whether the library ships a theme by this name.
	HasBuiltinTheme(name string) bool

	// UseBuiltinTheme installs one of the library's named built-in themes.
	UseBuiltinTheme(name string) error

	// Embed draws the serialized chart document into the element identified
	// by targetID. The call is asynchronous on the library side; it is not
	// safe to overlap two embeds targeting the same element.
	Embed(ctx context.Context, document string, targetID string) error
}
