package render

import (
	"github.com/bokehbridge/bokehbridge/internal/detect"
)

// Dimensions is a computed (width, height) pair in logical pixels.
type Dimensions struct {
	Width  float64
	Height float64
}

// computeDimensions resolves the size one render should use.
//
// Without container fitting, the chart's native size wins, with the
// configured defaults filling any missing dimension. With container fitting,
// the width becomes the container's rendered width and the height scales to
// preserve the native aspect ratio. A container that reports no layout yet
// (zero width) falls back to the native size.
func computeDimensions(chart *detect.Chart, fitContainer bool, containerWidth float64, defaults Dimensions) Dimensions {
	width, ok := chart.Width()
	if !ok || width <= 0 {
		width = defaults.Width
	}
	height, ok := chart.Height()
	if !ok || height <= 0 {
		height = defaults.Height
	}

	if fitContainer && containerWidth > 0 {
		scale := containerWidth / width
		return Dimensions{Width: containerWidth, Height: height * scale}
	}

	return Dimensions{Width: width, Height: height}
}
