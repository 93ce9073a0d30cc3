package viz

import (
	"math"

	"github.com/san-kum/rodsim/internal/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

type View int

const (
	ViewSide View = iota
	ViewTop
	View3D
)

func (v View) String() string {
	switch v {
	case ViewSide:
		return "side"
	case ViewTop:
		return "top"
	default:
		return "3d"
	}
}

func (v View) Next() View { return (v + 1) % 3 }

// Scene draws a rod and its contact plane.
type Scene struct {
	Frame  Frame
	Camera *Camera
	// MinSpan keeps the view from zooming onto a rod at rest.
	MinSpan float64

	pts [][2]float64
}

// Draw clears c and renders nodes in view v.
func (s *Scene) Draw(c *Canvas, nodes linalg.Vectors, v View) {
	c.Clear()
	if len(nodes) == 0 {
		return
	}
	s.project(nodes, v)

	minX, maxX, minY, maxY := bounds(s.pts)
	if v == ViewSide {
		// keep the plane in view
		minY, maxY = math.Min(minY, 0), math.Max(maxY, 0)
	}
	cx, cy := 0.5*(minX+maxX), 0.5*(minY+maxY)
	half := 0.5 * math.Max(s.MinSpan, math.Max(maxX-minX, maxY-minY))
	vp := Fit(c, cx-half, cx+half, cy-half, cy+half, 0.05)

	switch v {
	case ViewSide:
		pw, _ := c.PixelSize()
		_, py := vp.Pixel(0, 0)
		c.DrawLine(0, py, pw-1, py)
	case View3D:
		s.drawPlaneGrid(c, vp, nodes)
	}

	for i := 1; i < len(s.pts); i++ {
		a, b := s.pts[i-1], s.pts[i]
		vp.Line(c, a[0], a[1], b[0], b[1])
	}
}

func (s *Scene) project(nodes linalg.Vectors, v View) {
	if cap(s.pts) < len(nodes) {
		s.pts = make([][2]float64, len(nodes))
	}
	s.pts = s.pts[:len(nodes)]

	center := s.center(nodes)
	for i, p := range nodes {
		u, w, h := s.Frame.Coords(p)
		switch v {
		case ViewSide:
			s.pts[i] = [2]float64{u, h}
		case ViewTop:
			s.pts[i] = [2]float64{u, w}
		default:
			x, y := s.Camera.Project(r3.Vec{X: u, Y: w, Z: h}, center)
			s.pts[i] = [2]float64{x, y}
		}
	}
}

// center is the in-plane centroid of the nodes, on the plane.
func (s *Scene) center(nodes linalg.Vectors) r3.Vec {
	var c r3.Vec
	for _, p := range nodes {
		u, w, _ := s.Frame.Coords(p)
		c = r3.Add(c, r3.Vec{X: u, Y: w})
	}
	return r3.Scale(1/float64(len(nodes)), c)
}

// drawPlaneGrid outlines a square patch of the plane under the rod.
func (s *Scene) drawPlaneGrid(c *Canvas, vp Viewport, nodes linalg.Vectors) {
	center := s.center(nodes)
	half := 0.5 * s.MinSpan
	corners := [4]r3.Vec{
		{X: center.X - half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y + half},
		{X: center.X - half, Y: center.Y + half},
	}
	for i := range corners {
		ax, ay := s.Camera.Project(corners[i], center)
		bx, by := s.Camera.Project(corners[(i+1)%4], center)
		vp.Line(c, ax, ay, bx, by)
	}
}

func bounds(pts [][2]float64) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return
}
