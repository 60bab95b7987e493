// Package render owns the per-widget lifecycle: it resolves mount points,
// decides when a re-render is due, applies themes, and drives the charting
// runtime's embed call.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bokehbridge/bokehbridge/internal/assets"
	"github.com/bokehbridge/bokehbridge/internal/bokeh"
	"github.com/bokehbridge/bokehbridge/internal/detect"
	"github.com/bokehbridge/bokehbridge/internal/dom"
	"github.com/bokehbridge/bokehbridge/internal/host"
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

// ContainerID is the element id the host markup must provide inside each
// widget's rendering root. The mount point is created under it.
const ContainerID = "stBokehChart"

// ErrNoContainer means the host markup broke the integration contract: the
// rendering root has no chart container to mount into.
var ErrNoContainer = errors.New("chart container missing from rendering root")

// Teardown releases a widget's per-instance state. Globally shared assets
// stay loaded for the page's lifetime.
type Teardown func()

// Controller coordinates all widget instances of one page.
type Controller struct {
	loader   *assets.Loader
	runtime  bokeh.Runtime
	notifier host.Notifier
	defaults Dimensions
	latency  *LatencyRecorder

	mu        sync.Mutex
	instances map[string]*instance
}

// instance is the state of one widget, keyed by its stable key. Created
// lazily on the first render call, removed by teardown.
type instance struct {
	// mu guards the change-detection state against overlapping render calls
	// for the same key.
	mu          sync.Mutex
	initialized bool
	ready       bool
	data        detect.DataMemo
	themes      detect.ThemeMemo

	// gen is the newest render generation issued for this instance; embedMu
	// serializes embeds into its mount point. Together they implement the
	// supersede policy: embeds never overlap, and a call that is no longer
	// the newest when it gets the lock drops its embed.
	gen     atomic.Uint64
	embedMu sync.Mutex
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithNotifier sets the host signaling channel. The default discards
// signals.
func WithNotifier(notifier host.Notifier) ControllerOption {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

// WithLatencyRecorder makes the controller record embed durations into a
// shared recorder instead of a private one.
func WithLatencyRecorder(recorder *LatencyRecorder) ControllerOption {
	return func(c *Controller) {
		c.latency = recorder
	}
}

// WithDefaultDimensions overrides the fallback chart size used when a
// definition declares none. The default is 400x350.
func WithDefaultDimensions(width, height float64) ControllerOption {
	return func(c *Controller) {
		c.defaults = Dimensions{Width: width, Height: height}
	}
}

// NewController creates a controller rendering through the given runtime.
func NewController(loader *assets.Loader, runtime bokeh.Runtime, options ...ControllerOption) *Controller {
	c := &Controller{
		loader:    loader,
		runtime:   runtime,
		notifier:  host.NopNotifier{},
		defaults:  Dimensions{Width: 400, Height: 350},
		latency:   NewLatencyRecorder(),
		instances: make(map[string]*instance),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Render performs one host update cycle for a widget and returns the
// teardown for its instance state.
//
// The first call for a key loads the shared assets; a failed load leaves the
// instance uninitialized so the next call retries from scratch. When neither
// the definition nor the applicable theme changed, the call returns without
// touching the mount point.
func (c *Controller) Render(ctx context.Context, args host.RenderArgs) (Teardown, error) {
	key := args.Key
	if key == "" {
		key = host.NewKey()
	}

	inst := c.instance(key)
	teardown := func() { c.remove(key) }

	inst.mu.Lock()
	if !inst.initialized {
		if err := c.loader.Ensure(ctx); err != nil {
			inst.mu.Unlock()
			return nil, fmt.Errorf("initializing widget %s: %w", key, err)
		}
		inst.initialized = true
	}

	chart, dataChanged, err := inst.data.Check(args.Figure)
	if err != nil {
		inst.mu.Unlock()
		return nil, fmt.Errorf("widget %s: %w", key, err)
	}

	themeName := c.resolveThemeName(args.Theme)
	themeChanged := inst.themes.Check(themeName, args.Tokens)

	// The generation is issued while the detection lock is held, so
	// generation order always matches the order in which calls observed
	// the memo state. Issuing it later would let a call that detected
	// first, then stalled, grab a newer generation than a call that
	// already embedded newer data.
	var gen uint64
	if dataChanged || themeChanged {
		gen = inst.gen.Add(1)
	}
	inst.mu.Unlock()

	container, mount, err := c.mountPoint(args.Root, key)
	if err != nil {
		return nil, err
	}

	if !dataChanged && !themeChanged {
		return teardown, nil
	}

	dims := computeDimensions(chart, args.UseContainerWidth, container.ClientWidth(), c.defaults)
	sized, err := chart.WithSize(dims.Width, dims.Height)
	if err != nil {
		return nil, fmt.Errorf("widget %s: %w", key, err)
	}

	inst.embedMu.Lock()
	defer inst.embedMu.Unlock()

	// Superseded while waiting for the previous embed: the newer call's
	// data has already won, drawing ours now would clobber it.
	if inst.gen.Load() != gen {
		return teardown, nil
	}

	if err := c.applyTheme(themeName, args.Tokens); err != nil {
		return nil, fmt.Errorf("widget %s: %w", key, err)
	}

	// The library cannot re-embed into a populated node, so the mount point
	// is fully torn down rather than patched.
	mount.Clear()

	start := time.Now()
	if err := c.runtime.Embed(ctx, sized.JSON(), mount.ID()); err != nil {
		return nil, fmt.Errorf("embedding widget %s: %w", key, err)
	}
	c.latency.Record(time.Since(start))

	// Committed only now: a failed theme application or embed leaves the
	// memos untouched, so the next call with the same arguments retries
	// instead of skipping the widget blank.
	inst.mu.Lock()
	inst.data.Commit(args.Figure, chart)
	inst.themes.Commit(themeName, args.Tokens)
	inst.mu.Unlock()

	if !inst.ready {
		inst.ready = true
		c.notifier.NotifyReady(key)
	}
	c.notifier.NotifyHeight(key, dims.Height)

	return teardown, nil
}

// MountID returns the mount point element id used for a widget key.
func MountID(key string) string {
	return "bokeh-chart-" + key
}

// LatencyStats exposes the embed latency distribution.
func (c *Controller) LatencyStats() LatencyStats {
	return c.latency.Snapshot()
}

// resolveThemeName collapses the selection to either a known built-in theme
// or the host sentinel. A name the library's registry does not carry falls
// back to host-token styling rather than erroring.
func (c *Controller) resolveThemeName(name string) string {
	if name == "" || name == theme.Sentinel {
		return theme.Sentinel
	}
	if !c.runtime.HasBuiltinTheme(name) {
		return theme.Sentinel
	}
	return name
}

func (c *Controller) applyTheme(name string, tokens theme.HostTokens) error {
	if name == theme.Sentinel {
		return c.runtime.UseTheme(theme.Translate(tokens).Bound(c.runtime))
	}
	return c.runtime.UseBuiltinTheme(name)
}

// mountPoint resolves the widget's container and mount elements, creating
// the mount lazily on first use.
func (c *Controller) mountPoint(root dom.Element, key string) (container, mount dom.Element, err error) {
	if root == nil {
		return nil, nil, ErrNoContainer
	}

	container = root.Find(ContainerID)
	if container == nil {
		return nil, nil, fmt.Errorf("%w (expected #%s)", ErrNoContainer, ContainerID)
	}

	mountID := MountID(key)
	mount = container.Find(mountID)
	if mount == nil {
		mount = container.CreateChild(mountID)
	}
	return container, mount, nil
}

func (c *Controller) instance(key string) *instance {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.instances[key]
	if !ok {
		inst = &instance{}
		c.instances[key] = inst
	}
	return inst
}

func (c *Controller) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, key)
}
