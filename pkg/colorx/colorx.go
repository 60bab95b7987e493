// Package colorx provides the small amount of color math the theme
// translation needs: parsing CSS color strings and deriving
// semi-transparent variants of them.
package colorx

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA holds an 8-bit-per-channel color with a fractional alpha.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Parse parses a CSS color string. Supported forms are #rgb, #rgba,
// #rrggbb, #rrggbbaa, rgb(r, g, b) and rgba(r, g, b, a), which covers
// everything a browser reports through computed-style custom properties.
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseFunc(lower)
	}

	return RGBA{}, fmt.Errorf("unsupported color %q", s)
}

// Fade returns the color with its alpha multiplied by opacity, as an
// rgba() string. Parse failures fall back to the input unchanged so a
// token the host supplied in an exotic notation still renders, just
// without the derived transparency.
func Fade(s string, opacity float64) string {
	c, err := Parse(s)
	if err != nil {
		return s
	}
	c.A *= opacity
	return c.String()
}

// String formats the color as a CSS rgba() value.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatAlpha(c.A))
}

func parseHex(s string) (RGBA, error) {
	hex := s[1:]

	switch len(hex) {
	case 3, 4:
		// #abc expands to #aabbcc, #abcd to #aabbccdd
		expanded := make([]byte, 2*len(hex))
		for i := 0; i < len(hex); i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	if len(hex) == 8 {
		return RGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: float64(v&0xff) / 255,
		}, nil
	}

	return RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 1,
	}, nil
}

func parseFunc(s string) (RGBA, error) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	parts := strings.Split(s[open+1:close], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return RGBA{}, fmt.Errorf("invalid color channel in %q", s)
		}
		channels[i] = uint8(n)
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid alpha in %q", s)
		}
		alpha = a
	}

	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// formatAlpha trims trailing zeros so 0.20 prints as 0.2 and 1.00 as 1,
// matching how browsers serialize computed rgba() values.
func formatAlpha(a float64) string {
	out := strconv.FormatFloat(a, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimRight(out, ".")
	if out == "" {
		return "0"
	}
	return out
}
