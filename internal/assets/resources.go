package assets

import (
	"github.com/bokehbridge/bokehbridge/internal/config"
)

// Kind classifies an external resource.
type Kind string

const (
	// KindScript is a JavaScript bundle injected as a script tag.
	KindScript Kind = "script"

	// KindStylesheet is a CSS resource injected as a link tag.
	KindStylesheet Kind = "stylesheet"
)

// Resource identifies one external asset to load.
type Resource struct {
	// URL is the load key; the loader guarantees one load per URL.
	URL string

	// Kind selects how the environment injects the resource.
	Kind Kind
}

// FontFace is one weight variant of the host font. Faces are registered with
// the document's font registry directly rather than through a stylesheet
// rule, so they resolve inside shadow roots where page-level styles do not
// reach, and are guaranteed available before the first draw.
type FontFace struct {
	Family string
	Weight int
	URL    string
}

// Set is the full group of resources one bridge deployment needs: the core
// bundle, its dependent plugins, optional stylesheets, and the font faces.
type Set struct {
	// Core is the library bundle every other resource depends on. It is
	// always loaded, and confirmed present, before anything else starts.
	Core Resource

	// Plugins are library extensions with no ordering between them.
	Plugins []Resource

	// Stylesheets load concurrently with the plugins.
	Stylesheets []Resource

	// Fonts are registered concurrently with the plugins.
	Fonts []FontFace
}

// SetFromConfig expands the configured CDN layout into a resource set.
func SetFromConfig(cfg *config.Config) Set {
	set := Set{
		Core: Resource{URL: cfg.CoreURL(), Kind: KindScript},
	}

	for _, url := range cfg.PluginURLs() {
		set.Plugins = append(set.Plugins, Resource{URL: url, Kind: KindScript})
	}

	for _, url := range cfg.CDN.Stylesheets {
		set.Stylesheets = append(set.Stylesheets, Resource{URL: url, Kind: KindStylesheet})
	}

	for _, weight := range cfg.Font.Weights {
		set.Fonts = append(set.Fonts, FontFace{
			Family: cfg.Font.Family,
			Weight: weight,
			URL:    cfg.FontURL(weight),
		})
	}

	return set
}
