package output

import (
	"strings"
	"testing"
)

func TestNoColorSchemeProducesPlainText(t *testing.T) {
	scheme := NoColorScheme()

	out := scheme.Success.Sprint("done")
	if out != "done" {
		t.Errorf("Expected plain text, got %q", out)
	}
}

func TestIconsWithoutColor(t *testing.T) {
	if got := SuccessIcon(true); got != "✓" {
		t.Errorf("Expected plain checkmark, got %q", got)
	}
	if got := ErrorIcon(true); got != "✗" {
		t.Errorf("Expected plain cross, got %q", got)
	}
}

func TestIconsWithColorStillContainSymbol(t *testing.T) {
	if !strings.Contains(SuccessIcon(false), "✓") {
		t.Error("Expected checkmark in colored icon")
	}
	if !strings.Contains(ErrorIcon(false), "✗") {
		t.Error("Expected cross in colored icon")
	}
}
