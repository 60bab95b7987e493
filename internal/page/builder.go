// Package page builds standalone HTML pages that carry an embedded chart.
// A Builder is the server-side stand-in for one widget's isolated rendering
// surface: it implements the asset environment and the charting runtime by
// emitting tags and scripts into the generated document instead of touching
// a live browser.
package page

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bokehbridge/bokehbridge/internal/assets"
	"github.com/bokehbridge/bokehbridge/internal/bokeh"
	"github.com/bokehbridge/bokehbridge/internal/dom"
	"github.com/bokehbridge/bokehbridge/internal/render"
)

// builtinThemes mirrors the named themes the pinned library release ships.
var builtinThemes = map[string]bool{
	"caliber":       true,
	"carbon":        true,
	"contrast":      true,
	"dark_minimal":  true,
	"light_minimal": true,
	"night_sky":     true,
}

// URLChecker verifies that an asset URL is reachable. Nil means "trust the
// configuration" (offline page generation).
type URLChecker interface {
	Check(ctx context.Context, url string) error
}

// Builder accumulates one generated page.
type Builder struct {
	title   string
	checker URLChecker

	mu         sync.Mutex
	html       *dom.Node
	head       *dom.Node
	body       *dom.Node
	injected   map[string]bool
	coreLoaded bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTitle sets the page title. The default is "bokehbridge".
func WithTitle(title string) BuilderOption {
	return func(b *Builder) {
		b.title = title
	}
}

// WithChecker makes Inject verify each URL before referencing it.
func WithChecker(checker URLChecker) BuilderOption {
	return func(b *Builder) {
		b.checker = checker
	}
}

// NewBuilder creates an empty page.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		title:    "bokehbridge",
		injected: make(map[string]bool),
	}

	for _, option := range options {
		option(b)
	}

	b.html = dom.NewNode("html", "")
	b.head = b.html.AppendTag("head", "")
	b.head.AppendTag("meta", "").SetAttr("charset", "utf-8")
	b.head.AppendTag("title", "").SetText(b.title)
	b.body = b.html.AppendTag("body", "")

	return b
}

// Root creates the rendering region for one widget, with the container
// element the markup contract requires, and returns it. The width is what
// container-fitting renders will observe.
func (b *Builder) Root(key string, width float64) dom.Element {
	b.mu.Lock()
	defer b.mu.Unlock()

	region := b.body.AppendTag("div", "widget-"+key)
	container := region.AppendTag("div", render.ContainerID)
	container.SetAttr("class", "stBokehChart")
	container.SetClientWidth(width)
	return region
}

// AddScript appends an inline script to the end of the page body. The dev
// server uses this for its signaling subscriber.
func (b *Builder) AddScript(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.body.AppendTag("script", "").SetText(body)
}

// HTML serializes the page.
func (b *Builder) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return "<!DOCTYPE html>\n" + b.html.HTML() + "\n"
}

// Inject adds the script or link tag for a resource, once. With a checker
// configured, the URL is verified first so the page never references a
// resource that is not actually there.
func (b *Builder) Inject(ctx context.Context, res assets.Resource) error {
	b.mu.Lock()
	already := b.injected[res.URL]
	b.mu.Unlock()
	if already {
		return nil
	}

	if b.checker != nil {
		if err := b.checker.Check(ctx, res.URL); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.injected[res.URL] {
		return nil
	}
	b.injected[res.URL] = true

	switch res.Kind {
	case assets.KindStylesheet:
		link := b.head.AppendTag("link", "")
		link.SetAttr("rel", "stylesheet")
		link.SetAttr("href", res.URL)
	default:
		script := b.head.AppendTag("script", "")
		script.SetAttr("src", res.URL)
		script.SetAttr("crossorigin", "anonymous")
	}

	if res.Kind == assets.KindScript && !b.coreLoaded {
		// The first script injected is the core bundle; the loader
		// guarantees that ordering.
		b.coreLoaded = true
	}
	return nil
}

// RegisterFace emits both the @font-face rule and an explicit FontFace
// registration. The script path is what makes the font resolve inside
// shadow roots, where the page-level stylesheet does not apply.
func (b *Builder) RegisterFace(ctx context.Context, face assets.FontFace) error {
	if b.checker != nil {
		if err := b.checker.Check(ctx, face.URL); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	style := b.head.AppendTag("style", "")
	style.SetText(fmt.Sprintf(
		"@font-face { font-family: %q; font-weight: %d; src: url(%q); }",
		face.Family, face.Weight, face.URL))

	script := b.head.AppendTag("script", "")
	script.SetText(fmt.Sprintf(
		`const face%d = new FontFace(%q, 'url(%s)', { weight: "%d" });
face%d.load().then(function(loaded) { document.fonts.add(loaded); });`,
		face.Weight, face.Family, face.URL, face.Weight, face.Weight))
	return nil
}

// RuntimeReady reports whether the core bundle has been placed on the page.
func (b *Builder) RuntimeReady(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.coreLoaded {
		return fmt.Errorf("core bundle not injected yet")
	}
	return nil
}

// KindOf never resolves on the server side; model instances only exist in
// the browser. The generated theme script carries its own instance checks.
func (b *Builder) KindOf(model bokeh.Model) (bokeh.Kind, bool) {
	return "", false
}

// UseTheme serializes the theme's attribute groups into a script that
// reconstructs the get(instance, attribute) lookup in the browser. Groups
// are emitted in styling precedence order: the generated lookup must test
// Title before Plot, or a title instance would resolve against the plot
// attributes it subclasses.
func (b *Builder) UseTheme(t bokeh.Theme) error {
	source, ok := t.(bokeh.Enumerable)
	if !ok {
		return fmt.Errorf("theme %T cannot be serialized into a page", t)
	}

	type themeGroup struct {
		Name  string         `json:"name"`
		Attrs map[string]any `json:"attrs"`
	}

	groups := source.AttributeGroups()
	ordered := make([]themeGroup, 0, len(groups))
	for _, kind := range bokeh.KnownKinds() {
		if attrs, ok := groups[kind]; ok {
			ordered = append(ordered, themeGroup{Name: string(kind), Attrs: attrs})
			delete(groups, kind)
		}
	}

	// Kinds beyond the known set go last, in a stable order.
	rest := make([]string, 0, len(groups))
	for kind := range groups {
		rest = append(rest, string(kind))
	}
	sort.Strings(rest)
	for _, kind := range rest {
		ordered = append(ordered, themeGroup{Name: kind, Attrs: groups[bokeh.Kind(kind)]})
	}

	payload, err := json.Marshal(ordered)
	if err != nil {
		return fmt.Errorf("serializing theme: %w", err)
	}

	b.AddScript(fmt.Sprintf(`(function() {
  const groups = %s;
  const theme = {
    get: function(obj, attr) {
      for (const group of groups) {
        const cls = window.Bokeh.Models.get(group.name);
        if (cls && obj instanceof cls && attr in group.attrs) {
          return group.attrs[attr];
        }
      }
      return undefined;
    }
  };
  window.Bokeh.use_theme(theme);
})();`, payload))
	return nil
}

// HasBuiltinTheme reports whether the pinned release ships the named theme.
func (b *Builder) HasBuiltinTheme(name string) bool {
	return builtinThemes[name]
}

// UseBuiltinTheme emits the registry lookup for a named theme.
func (b *Builder) UseBuiltinTheme(name string) error {
	if !builtinThemes[name] {
		return fmt.Errorf("unknown builtin theme %q", name)
	}
	b.AddScript(fmt.Sprintf(
		`window.Bokeh.use_theme(window.Bokeh.Themes[%q]);`, name))
	return nil
}

// Embed emits the asynchronous embed call for a chart document.
func (b *Builder) Embed(ctx context.Context, document, targetID string) error {
	b.AddScript(fmt.Sprintf(`(function() {
  const item = %s;
  window.Bokeh.embed.embed_item(item, %q);
})();`, document, targetID))
	return nil
}
