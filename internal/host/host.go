// Package host defines the boundary between the surrounding application and
// the bridge: the arguments a render invocation carries in, and the minimal
// signaling surface the bridge reports back through.
package host

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bokehbridge/bokehbridge/internal/dom"
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

// RenderArgs is everything the host hands over per render invocation.
type RenderArgs struct {
	// Figure is the serialized chart definition.
	Figure string

	// UseContainerWidth stretches the chart to the container's rendered
	// width, preserving the definition's aspect ratio.
	UseContainerWidth bool

	// Theme is the selection: a built-in theme name, or the sentinel
	// meaning "derive from host tokens". Empty falls back to the sentinel.
	Theme string

	// Key is the stable per-widget identity. Hosts that omit it get a
	// generated one, at the cost of the widget losing its memoized state
	// whenever the host remounts it.
	Key string

	// Root is the rendering region the host granted this widget.
	Root dom.Element

	// Tokens is the snapshot of the host's visual style values.
	Tokens theme.HostTokens
}

// Notifier is the host-provided signaling API. The transport behind it is
// the host's business; the bridge only ever calls these two methods.
type Notifier interface {
	// NotifyReady signals that the widget completed its first render.
	NotifyReady(key string)

	// NotifyHeight reports the widget's rendered height so the host can
	// size the surrounding frame.
	NotifyHeight(key string, height float64)
}

// NopNotifier discards all signals, for hosts that do not track widget size.
type NopNotifier struct{}

func (NopNotifier) NotifyReady(string) {}

func (NopNotifier) NotifyHeight(string, float64) {}

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// NewKey generates a widget key for hosts that did not supply one.
func NewKey() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
