// Package detect decides whether an incoming render actually needs a
// re-render: it holds the parsed chart definition model and the per-instance
// memoization of data and theme state.
package detect

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Chart is a parsed chart definition. The definition stays an opaque JSON
// document; only the envelope pieces the bridge needs are surfaced. The
// first root of the document is the plot and carries the optional native
// size.
type Chart struct {
	raw string
	doc gjson.Result
}

// ParseChart parses a serialized chart definition. The definition is
// produced by a trusted serializer, so a parse failure is a caller contract
// violation and is returned as-is, never recovered from.
func ParseChart(serialized string) (*Chart, error) {
	if !gjson.Valid(serialized) {
		return nil, fmt.Errorf("malformed chart definition: not valid JSON")
	}

	doc := gjson.Parse(serialized)
	if !doc.IsObject() {
		return nil, fmt.Errorf("malformed chart definition: expected a JSON object")
	}

	return &Chart{raw: serialized, doc: doc}, nil
}

// JSON returns the serialized form of the chart, including any patched size.
func (c *Chart) JSON() string {
	return c.raw
}

// Width returns the plot's native width, if the definition declares one.
func (c *Chart) Width() (float64, bool) {
	return c.rootAttr("width")
}

// Height returns the plot's native height, if the definition declares one.
func (c *Chart) Height() (float64, bool) {
	return c.rootAttr("height")
}

// WithSize returns a copy of the chart with the plot's width and height
// overwritten. A dimension that is not strictly positive is left untouched.
func (c *Chart) WithSize(width, height float64) (*Chart, error) {
	raw := c.raw
	var err error

	if width > 0 {
		raw, err = sjson.Set(raw, "doc.roots.0.attributes.width", width)
		if err != nil {
			return nil, fmt.Errorf("patching chart width: %w", err)
		}
	}
	if height > 0 {
		raw, err = sjson.Set(raw, "doc.roots.0.attributes.height", height)
		if err != nil {
			return nil, fmt.Errorf("patching chart height: %w", err)
		}
	}

	if raw == c.raw {
		return c, nil
	}
	return &Chart{raw: raw, doc: gjson.Parse(raw)}, nil
}

func (c *Chart) rootAttr(name string) (float64, bool) {
	attr := c.doc.Get("doc.roots.0.attributes." + name)
	if !attr.Exists() || attr.Type != gjson.Number {
		return 0, false
	}
	return attr.Float(), true
}
