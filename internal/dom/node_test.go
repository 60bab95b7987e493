package dom

import (
	"strings"
	"testing"
)

func TestFindNested(t *testing.T) {
	root := NewNode("div", "root")
	container := root.AppendTag("div", "container")
	container.CreateChild("chart-1")

	found := root.Find("chart-1")
	if found == nil {
		t.Fatal("Expected to find nested element")
	}
	if found.ID() != "chart-1" {
		t.Errorf("Expected id chart-1, got %s", found.ID())
	}
}

func TestFindMissingIsNil(t *testing.T) {
	root := NewNode("div", "root")
	if found := root.Find("nope"); found != nil {
		t.Errorf("Expected nil for missing id, got %v", found)
	}
}

func TestClearRemovesChildren(t *testing.T) {
	root := NewNode("div", "root")
	root.CreateChild("a")
	root.CreateChild("b")

	root.Clear()

	if root.ChildCount() != 0 {
		t.Errorf("Expected no children after Clear, got %d", root.ChildCount())
	}
	if root.Find("a") != nil {
		t.Error("Expected cleared child to be unreachable")
	}
}

func TestClientWidth(t *testing.T) {
	root := NewNode("div", "root")
	root.SetClientWidth(704.5)

	if w := root.ClientWidth(); w != 704.5 {
		t.Errorf("Expected fractional width 704.5, got %v", w)
	}
}

func TestHTMLSerialization(t *testing.T) {
	root := NewNode("div", "root")
	root.SetAttr("class", "stBokehChart")
	root.AppendTag("script", "").SetAttr("src", "https://cdn.test/core.js")
	root.CreateChild("chart-1")

	out := root.HTML()

	if !strings.Contains(out, `id="root"`) {
		t.Errorf("Expected root id in output:\n%s", out)
	}
	if !strings.Contains(out, `src="https://cdn.test/core.js"`) {
		t.Errorf("Expected script src in output:\n%s", out)
	}
	if !strings.Contains(out, `id="chart-1"`) {
		t.Errorf("Expected chart div in output:\n%s", out)
	}
}

func TestHTMLEscapesText(t *testing.T) {
	root := NewNode("div", "root")
	root.SetText(`<script>alert("x")</script>`)

	out := root.HTML()
	if strings.Contains(out, "<script>alert") {
		t.Errorf("Expected text content to be escaped:\n%s", out)
	}
}

func TestHTMLScriptBodyVerbatim(t *testing.T) {
	root := NewNode("script", "")
	root.SetText(`Bokeh.embed.embed_item(item, "chart-1");`)

	out := root.HTML()
	if !strings.Contains(out, `Bokeh.embed.embed_item(item, "chart-1");`) {
		t.Errorf("Expected script body verbatim:\n%s", out)
	}
}
