package viz

import (
	"math"

	"github.com/san-kum/rodsim/internal/contact"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame expresses world points in coordinates attached to a plane: U runs
// along the rod's initial axis projected on the plane, V = N×U lies in the
// plane and H is the height above it.
type Frame struct {
	Origin  r3.Vec
	U, V, N r3.Vec
}

func NewFrame(plane contact.Plane, axis r3.Vec) Frame {
	n := plane.Normal()
	u := r3.Sub(axis, r3.Scale(r3.Dot(axis, n), n))
	if r3.Norm(u) < 1e-9 {
		// rod standing on the plane; pick any in-plane direction
		u = r3.Cross(n, r3.Vec{X: 1})
		if r3.Norm(u) < 1e-9 {
			u = r3.Cross(n, r3.Vec{Y: 1})
		}
	}
	u = r3.Unit(u)
	return Frame{Origin: plane.Origin(), U: u, V: r3.Cross(n, u), N: n}
}

func (f Frame) Coords(p r3.Vec) (u, v, h float64) {
	d := r3.Sub(p, f.Origin)
	return r3.Dot(d, f.U), r3.Dot(d, f.V), r3.Dot(d, f.N)
}

// Camera is an orthographic view rotated about the frame axes.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{RotX: -1.1, RotZ: 0.5, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Rotate applies the Z, then Y, then X rotation to p.
func (c *Camera) Rotate(p r3.Vec) r3.Vec {
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return r3.Scale(c.Zoom, p)
}

// Project returns the screen-plane coordinates of p (frame coordinates,
// relative to center) after rotation.
func (c *Camera) Project(p, center r3.Vec) (x, y float64) {
	rot := c.Rotate(r3.Sub(p, center))
	return rot.X, rot.Y
}
