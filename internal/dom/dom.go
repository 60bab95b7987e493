// Package dom is the minimal element-tree surface the bridge renders
// against. A browser-backed host adapts its real document to this interface;
// the dev server and the tests use the in-memory implementation.
package dom

// Element is one node of the rendering surface.
type Element interface {
	// ID returns the element's id attribute, empty if it has none.
	ID() string

	// Find returns the descendant with the given id, or nil.
	Find(id string) Element

	// CreateChild appends a new block child element with the given id and
	// returns it.
	CreateChild(id string) Element

	// Clear removes all child nodes.
	Clear()

	// ClientWidth is the element's rendered inner width in logical pixels,
	// fractional, excluding scrollbars.
	ClientWidth() float64
}
