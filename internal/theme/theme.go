// Package theme maps the host application's visual tokens onto the charting
// library's per-object-type style attributes.
package theme

import (
	"fmt"

	"github.com/bokehbridge/bokehbridge/internal/bokeh"
	"github.com/bokehbridge/bokehbridge/pkg/colorx"
)

// Sentinel is the theme selection meaning "derive styling from host tokens"
// rather than naming one of the library's built-in themes.
const Sentinel = "streamlit"

// fadedOpacity is the opacity factor applied to the text color wherever a
// washed-out derivative is needed (gridlines, legend backgrounds). 0.2 keeps
// 20% of the original opacity.
const fadedOpacity = 0.2

// HostTokens is the snapshot of visual style values the host exposes on the
// widget container. All values are plain CSS strings.
type HostTokens struct {
	BackgroundColor          string
	SecondaryBackgroundColor string
	TextColor                string
	Font                     string
	PrimaryColor             string
}

// Fingerprint returns a stable serialization of the tokens, used by the
// change detector to decide whether the applied host theme went stale.
func (t HostTokens) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		t.BackgroundColor, t.SecondaryBackgroundColor, t.TextColor, t.Font, t.PrimaryColor)
}

// Theme is a translated attribute map: for each known object kind, the
// attribute values the host theme imposes. Anything absent falls through to
// the library's own defaults.
type Theme struct {
	attrs map[bokeh.Kind]map[string]any
}

// Translate derives the full attribute map from the host tokens. It is a
// pure function: equal tokens always produce an equal theme.
//
// Font sizes are fixed em values throughout since the host supplies no
// font-size tokens, only a family.
func Translate(tokens HostTokens) *Theme {
	fadedText := colorx.Fade(tokens.TextColor, fadedOpacity)

	return &Theme{attrs: map[bokeh.Kind]map[string]any{
		bokeh.KindPlot: {
			"background_fill_color": tokens.BackgroundColor,
			"border_fill_color":     tokens.BackgroundColor,
			"outline_line_color":    "transparent",
		},
		bokeh.KindGrid: {
			"grid_line_color": fadedText,
			"grid_line_alpha": 0.5,
		},
		bokeh.KindAxis: {
			// Ticks are hidden through alpha, not color, so a consumer that
			// re-enables them still gets text-colored marks.
			"major_tick_line_alpha":      0,
			"major_tick_line_color":      tokens.TextColor,
			"minor_tick_line_alpha":      0,
			"minor_tick_line_color":      tokens.TextColor,
			"axis_line_alpha":            0,
			"axis_line_color":            tokens.TextColor,
			"major_label_text_color":     tokens.TextColor,
			"major_label_text_font":      tokens.Font,
			"major_label_text_font_size": "0.9em",
			"axis_label_text_color":      tokens.TextColor,
			"axis_label_text_font":       tokens.Font,
			"axis_label_text_font_size":  "1em",
			"axis_label_text_font_style": "normal",
		},
		bokeh.KindLegend: {
			"spacing":               2,
			"glyph_width":           16,
			"label_standoff":        8,
			"label_text_color":      tokens.TextColor,
			"label_text_font":       tokens.Font,
			"label_text_font_size":  "0.8em",
			"border_line_alpha":     0,
			"background_fill_color": fadedText,
		},
		bokeh.KindColorBar: {
			"title_text_color":           tokens.TextColor,
			"title_text_font":            tokens.Font,
			"title_text_font_size":       "0.9em",
			"title_text_font_style":      "normal",
			"major_label_text_color":     tokens.TextColor,
			"major_label_text_font":      tokens.Font,
			"major_label_text_font_size": "0.8em",
			"background_fill_color":      tokens.SecondaryBackgroundColor,
		},
		bokeh.KindTitle: {
			"text_color":     tokens.TextColor,
			"text_font":      tokens.Font,
			"text_font_size": "1.25em",
		},
	}}
}

// Lookup returns the attribute value the theme imposes for one object kind.
// Unknown kinds and attributes the theme has no opinion on report ok=false.
func (t *Theme) Lookup(kind bokeh.Kind, attr string) (any, bool) {
	group, ok := t.attrs[kind]
	if !ok {
		return nil, false
	}
	value, ok := group[attr]
	return value, ok
}

// AttributeGroups returns a copy of the full attribute map, keyed by object
// kind. Runtimes that serialize the theme up front enumerate it through
// this.
func (t *Theme) AttributeGroups() map[bokeh.Kind]map[string]any {
	out := make(map[bokeh.Kind]map[string]any, len(t.attrs))
	for kind, group := range t.attrs {
		copied := make(map[string]any, len(group))
		for attr, value := range group {
			copied[attr] = value
		}
		out[kind] = copied
	}
	return out
}

// Bound adapts the theme to the runtime's per-instance query interface,
// using the resolver to identify each queried object's declared kind.
func (t *Theme) Bound(resolver bokeh.KindResolver) bokeh.Theme {
	return boundTheme{theme: t, resolver: resolver}
}

type boundTheme struct {
	theme    *Theme
	resolver bokeh.KindResolver
}

func (b boundTheme) AttributeGroups() map[bokeh.Kind]map[string]any {
	return b.theme.AttributeGroups()
}

func (b boundTheme) Get(model bokeh.Model, attr string) (any, bool) {
	kind, ok := b.resolver.KindOf(model)
	if !ok {
		return nil, false
	}
	return b.theme.Lookup(kind, attr)
}
