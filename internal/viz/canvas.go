package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells; each cell holds 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the sub-pixel at (x, y). Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps a world rectangle onto a canvas with equal scale on both
// axes; world y grows upward.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	pixH       int
}

// Fit returns a viewport showing [minX,maxX]x[minY,maxY] centered on c, with
// pad (a fraction of the larger span) around it.
func Fit(c *Canvas, minX, maxX, minY, maxY, pad float64) Viewport {
	pw, ph := c.PixelSize()
	spanX, spanY := maxX-minX, maxY-minY
	span := math.Max(spanX, spanY)
	if span <= 0 {
		span = 1
	}
	minX -= pad * span
	minY -= pad * span
	spanX += 2 * pad * span
	spanY += 2 * pad * span

	scale := math.Min(float64(pw-1)/math.Max(spanX, 1e-12), float64(ph-1)/math.Max(spanY, 1e-12))
	// center the shorter axis
	minX -= (float64(pw-1)/scale - spanX) / 2
	minY -= (float64(ph-1)/scale - spanY) / 2

	return Viewport{MinX: minX, MinY: minY, Scale: scale, pixH: ph}
}

func (v Viewport) Pixel(x, y float64) (int, int) {
	px := int(math.Round((x - v.MinX) * v.Scale))
	py := v.pixH - 1 - int(math.Round((y-v.MinY)*v.Scale))
	return px, py
}

func (v Viewport) Line(c *Canvas, x0, y0, x1, y1 float64) {
	px0, py0 := v.Pixel(x0, y0)
	px1, py1 := v.Pixel(x1, y1)
	c.DrawLine(px0, py0, px1, py1)
}
