// Package export renders rod shapes and trajectories as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rodsim/internal/viz"
)

// Point is a 2D point in world units.
type Point struct {
	X, Y float64
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	sb.WriteString(svgHeader(width, height))
	sb.WriteString("<g fill=\"#00ccff\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG draws points as a polyline scaled to fit width x height with
// equal aspect. A plane line at y=0 is drawn when it is in range.
func PathToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := 0.1 * span
	minX -= pad
	minY -= pad
	span += 2 * pad
	scale := float64(min(width, height)) / span

	toScreen := func(p Point) (float64, float64) {
		return (p.X - minX) * scale, float64(height) - (p.Y-minY)*scale
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(float64(width), float64(height)))

	if minY <= 0 && 0 <= minY+span {
		_, y0 := toScreen(Point{0, 0})
		fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"#444466\" stroke-width=\"1\"/>\n", y0, width, y0)
	}

	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", strokeColor)
	for i, p := range points {
		x, y := toScreen(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

func svgHeader(width, height float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}
