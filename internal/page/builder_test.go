package page

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokehbridge/bokehbridge/internal/assets"
	"github.com/bokehbridge/bokehbridge/internal/bokeh"
	"github.com/bokehbridge/bokehbridge/internal/config"
	"github.com/bokehbridge/bokehbridge/internal/host"
	"github.com/bokehbridge/bokehbridge/internal/render"
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

const testFigure = `{"target_id":null,"root_id":"p1","doc":{"version":"3.7.3","roots":[{"attributes":{"width":800,"height":400}}]}}`

func testTokens() theme.HostTokens {
	return theme.HostTokens{
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#31333F",
		Font:                     "Source Sans Pro",
		PrimaryColor:             "#FF4B4B",
	}
}

// buildPage runs the whole pipeline against a Builder and returns the page.
func buildPage(t *testing.T, themeName string, fitWidth float64) string {
	t.Helper()

	cfg := config.Default()
	builder := NewBuilder(WithTitle("test page"))
	loader := assets.NewLoader(builder, assets.SetFromConfig(cfg),
		assets.WithTimeout(time.Second))
	controller := render.NewController(loader, builder)

	root := builder.Root("w1", fitWidth)

	args := host.RenderArgs{
		Figure:            testFigure,
		UseContainerWidth: fitWidth > 0,
		Theme:             themeName,
		Key:               "w1",
		Root:              root,
		Tokens:            testTokens(),
	}

	_, err := controller.Render(context.Background(), args)
	require.NoError(t, err)

	return builder.HTML()
}

func TestPageContainsAssetsOnce(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	core := `src="https://cdn.bokeh.org/bokeh/release/bokeh-3.7.3.min.js"`
	if n := strings.Count(out, core); n != 1 {
		t.Errorf("Expected core bundle referenced once, got %d:\n%s", n, out)
	}
	widgets := `bokeh-widgets-3.7.3.min.js`
	if n := strings.Count(out, widgets); n != 1 {
		t.Errorf("Expected widgets plugin referenced once, got %d", n)
	}
}

func TestPageCoreBeforePlugins(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	core := strings.Index(out, "bokeh-3.7.3.min.js")
	plugin := strings.Index(out, "bokeh-widgets-3.7.3.min.js")
	require.True(t, core >= 0 && plugin >= 0)
	assert.Less(t, core, plugin, "core bundle must precede plugins")
}

func TestPageRegistersFontFaces(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	assert.Contains(t, out, `@font-face { font-family: "Source Sans Pro"; font-weight: 400;`)
	assert.Contains(t, out, "document.fonts.add")
	for _, weight := range []string{"400", "600", "700"} {
		assert.Contains(t, out, "source-sans-pro-"+weight+".woff2")
	}
}

func TestPageEmbedsChart(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	assert.Contains(t, out, "Bokeh.embed.embed_item")
	assert.Contains(t, out, render.MountID("w1"))
}

func TestPageHostThemeSerialized(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	assert.Contains(t, out, "window.Bokeh.use_theme(theme)")
	assert.Contains(t, out, `"background_fill_color":"#FFFFFF"`)
	assert.Contains(t, out, `"grid_line_color":"rgba(49, 51, 63, 0.2)"`)
}

func TestPageThemeGroupsInPrecedenceOrder(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 0)

	title := strings.Index(out, `"name":"Title"`)
	grid := strings.Index(out, `"name":"Grid"`)
	plot := strings.Index(out, `"name":"Plot"`)
	require.True(t, title >= 0 && grid >= 0 && plot >= 0)
	assert.Less(t, title, grid, "more specific kinds must be tested first")
	assert.Less(t, grid, plot)
}

func TestPageBuiltinTheme(t *testing.T) {
	out := buildPage(t, "dark_minimal", 0)

	assert.Contains(t, out, `window.Bokeh.Themes["dark_minimal"]`)
	assert.NotContains(t, out, `"grid_line_color"`)
}

func TestPageContainerFitPatchesSize(t *testing.T) {
	out := buildPage(t, theme.Sentinel, 1200)

	assert.Contains(t, out, `"width":1200`)
	assert.Contains(t, out, `"height":600`)
}

func TestBuilderRejectsOpaqueTheme(t *testing.T) {
	builder := NewBuilder()

	err := builder.UseTheme(opaqueTheme{})
	require.Error(t, err)
}

type opaqueTheme struct{}

func (opaqueTheme) Get(model bokeh.Model, attr string) (any, bool) { return nil, false }

func TestBuilderRuntimeReadyOnlyAfterCore(t *testing.T) {
	builder := NewBuilder()

	require.Error(t, builder.RuntimeReady(context.Background()))

	err := builder.Inject(context.Background(), assets.Resource{
		URL:  "https://cdn.test/core.js",
		Kind: assets.KindScript,
	})
	require.NoError(t, err)

	assert.NoError(t, builder.RuntimeReady(context.Background()))
}

func TestBuilderUnknownBuiltinThemeErrors(t *testing.T) {
	builder := NewBuilder()

	if err := builder.UseBuiltinTheme("streamlit_dark"); err == nil {
		t.Error("Expected error for a theme the release does not ship")
	}
}
