package theme

import (
	"testing"

	"github.com/bokehbridge/bokehbridge/internal/bokeh"
)

func lightTokens() HostTokens {
	return HostTokens{
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#31333F",
		Font:                     "Source Sans Pro",
		PrimaryColor:             "#FF4B4B",
	}
}

func TestTranslatePlotGroup(t *testing.T) {
	th := Translate(lightTokens())

	bg, ok := th.Lookup(bokeh.KindPlot, "background_fill_color")
	if !ok || bg != "#FFFFFF" {
		t.Errorf("Expected plot background #FFFFFF, got %v (ok=%v)", bg, ok)
	}

	outline, ok := th.Lookup(bokeh.KindPlot, "outline_line_color")
	if !ok || outline != "transparent" {
		t.Errorf("Expected transparent outline, got %v", outline)
	}
}

func TestTranslateGridUsesFadedText(t *testing.T) {
	th := Translate(lightTokens())

	grid, ok := th.Lookup(bokeh.KindGrid, "grid_line_color")
	if !ok {
		t.Fatal("Expected grid_line_color to be set")
	}
	if grid != "rgba(49, 51, 63, 0.2)" {
		t.Errorf("Expected faded text color rgba(49, 51, 63, 0.2), got %v", grid)
	}

	alpha, ok := th.Lookup(bokeh.KindGrid, "grid_line_alpha")
	if !ok || alpha != 0.5 {
		t.Errorf("Expected grid line alpha 0.5, got %v", alpha)
	}
}

func TestTranslateAxisTicksHiddenButColored(t *testing.T) {
	th := Translate(lightTokens())

	alpha, ok := th.Lookup(bokeh.KindAxis, "major_tick_line_alpha")
	if !ok || alpha != 0 {
		t.Errorf("Expected zero tick alpha, got %v", alpha)
	}

	color, ok := th.Lookup(bokeh.KindAxis, "major_tick_line_color")
	if !ok || color != "#31333F" {
		t.Errorf("Expected tick color to match text color, got %v", color)
	}
}

func TestTranslateFontFamilyEverywhere(t *testing.T) {
	th := Translate(lightTokens())

	fontAttrs := map[bokeh.Kind]string{
		bokeh.KindAxis:     "axis_label_text_font",
		bokeh.KindLegend:   "label_text_font",
		bokeh.KindColorBar: "title_text_font",
		bokeh.KindTitle:    "text_font",
	}

	for kind, attr := range fontAttrs {
		font, ok := th.Lookup(kind, attr)
		if !ok || font != "Source Sans Pro" {
			t.Errorf("Expected host font for %s.%s, got %v", kind, attr, font)
		}
	}
}

func TestTranslateColorBarBackground(t *testing.T) {
	th := Translate(lightTokens())

	bg, ok := th.Lookup(bokeh.KindColorBar, "background_fill_color")
	if !ok || bg != "#F0F2F6" {
		t.Errorf("Expected secondary background on color bar, got %v", bg)
	}
}

func TestTranslateIsDeterministic(t *testing.T) {
	first := Translate(lightTokens())
	second := Translate(lightTokens())

	for _, kind := range bokeh.KnownKinds() {
		for _, attr := range []string{"background_fill_color", "grid_line_color", "text_color"} {
			a, aok := first.Lookup(kind, attr)
			b, bok := second.Lookup(kind, attr)
			if aok != bok || a != b {
				t.Errorf("Translate not deterministic for %s.%s: %v vs %v", kind, attr, a, b)
			}
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	th := Translate(lightTokens())

	if _, ok := th.Lookup(bokeh.Kind("Toolbar"), "anything"); ok {
		t.Error("Expected unknown kind to report ok=false")
	}

	if _, ok := th.Lookup(bokeh.KindPlot, "no_such_attribute"); ok {
		t.Error("Expected unknown attribute to report ok=false")
	}
}

// staticResolver maps concrete test models to kinds.
type staticResolver map[bokeh.Model]bokeh.Kind

func (r staticResolver) KindOf(model bokeh.Model) (bokeh.Kind, bool) {
	kind, ok := r[model]
	return kind, ok
}

func TestBoundThemeResolvesInstances(t *testing.T) {
	th := Translate(lightTokens())

	plot := "plot-instance"
	mystery := "mystery-instance"
	resolver := staticResolver{plot: bokeh.KindPlot}

	bound := th.Bound(resolver)

	value, ok := bound.Get(plot, "background_fill_color")
	if !ok || value != "#FFFFFF" {
		t.Errorf("Expected resolved plot attribute, got %v (ok=%v)", value, ok)
	}

	// An instance the resolver does not recognize defers to library defaults.
	if _, ok := bound.Get(mystery, "background_fill_color"); ok {
		t.Error("Expected unknown instance to report ok=false")
	}
}

func TestFingerprintChangesWithTokens(t *testing.T) {
	a := lightTokens()
	b := lightTokens()
	b.TextColor = "#FAFAFA"

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Expected fingerprints to differ when a token differs")
	}
	if a.Fingerprint() != lightTokens().Fingerprint() {
		t.Error("Expected equal tokens to fingerprint identically")
	}
}
