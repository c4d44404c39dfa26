// Package vizdebug renders a built dif.Interior's spatial structure (the
// coord-bin grid, per-hull bounding boxes, and BSP split-plane traces) as an
// SVG document, for inspecting how builder.Build carved up a scene.
//
// Grounded on lib/tools/maprenderer/svg.go's SVGBuilder fluent type.
package vizdebug

import (
	"fmt"
	"strings"
)

// SVGBuilder provides a fluent interface for building SVG documents.
type SVGBuilder struct {
	width, height int
	elements      []string
}

// NewSVGBuilder creates a new SVG builder with the given pixel dimensions.
func NewSVGBuilder(width, height int) *SVGBuilder {
	return &SVGBuilder{
		width:    width,
		height:   height,
		elements: make([]string, 0, 256),
	}
}

// Rect adds a filled rectangle.
func (b *SVGBuilder) Rect(x, y, width, height float64, fill string) *SVGBuilder {
	b.elements = append(b.elements, fmt.Sprintf(
		`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
		x, y, width, height, fill))
	return b
}

// RectOutline adds an unfilled, stroked rectangle.
func (b *SVGBuilder) RectOutline(x, y, width, height float64, stroke string, strokeWidth float64) *SVGBuilder {
	b.elements = append(b.elements, fmt.Sprintf(
		`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`,
		x, y, width, height, stroke, strokeWidth))
	return b
}

// Line adds a line element.
func (b *SVGBuilder) Line(x1, y1, x2, y2 float64, stroke string, strokeWidth float64) *SVGBuilder {
	b.elements = append(b.elements, fmt.Sprintf(
		`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`,
		x1, y1, x2, y2, stroke, strokeWidth))
	return b
}

// Text adds a text label.
func (b *SVGBuilder) Text(x, y float64, text string, fill string, fontSize int) *SVGBuilder {
	b.elements = append(b.elements, fmt.Sprintf(
		`<text x="%.2f" y="%.2f" fill="%s" font-size="%d" font-family="monospace">%s</text>`,
		x, y, fill, fontSize, text))
	return b
}

// String renders the accumulated elements into a complete SVG document.
func (b *SVGBuilder) String() string {
	var svg strings.Builder
	svg.Grow(200 + len(b.elements)*80)
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="%d" height="%d" fill="white"/>
`, b.width, b.height, b.width, b.height, b.width, b.height))
	for _, elem := range b.elements {
		svg.WriteString(elem)
		svg.WriteString("\n")
	}
	svg.WriteString("</svg>")
	return svg.String()
}
