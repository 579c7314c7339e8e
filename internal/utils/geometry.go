package utils

import (
	"image"
	"math"
)

// Box represents an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X int
	Y int
	W int
	H int
}

// NewBox constructs a Box from two corner points, normalizing orientation.
func NewBox(x1, y1, x2, y2 int) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Area returns the box area in pixels.
func (b Box) Area() int { return b.W * b.H }

// AspectRatio returns width divided by height, or 0 for degenerate boxes.
func (b Box) AspectRatio() float64 {
	if b.H == 0 {
		return 0
	}
	return float64(b.W) / float64(b.H)
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return float64(b.X) + float64(b.W)/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return float64(b.Y) + float64(b.H)/2 }

// ToRect converts the box to an image.Rectangle clamped to bounds.
func (b Box) ToRect(bounds image.Rectangle) image.Rectangle {
	r := image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
	return r.Intersect(bounds)
}

// Contains reports whether the point (x, y) lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// IoU computes Intersection over Union for two boxes.
func IoU(a, b Box) float64 {
	ix1 := max(a.X, b.X)
	iy1 := max(a.Y, b.Y)
	ix2 := min(a.X+a.W, b.X+b.W)
	iy2 := min(a.Y+a.H, b.Y+b.H)

	if ix1 >= ix2 || iy1 >= iy2 {
		return 0.0
	}

	inter := float64((ix2 - ix1) * (iy2 - iy1))
	union := float64(a.Area()) + float64(b.Area()) - inter
	if union <= 0 {
		return 0.0
	}
	return inter / union
}

// OverlapRatio computes intersection area relative to the smaller box.
// Unlike IoU this saturates at 1.0 when one box fully contains the other,
// which is the interesting case when collapsing nested detections.
func OverlapRatio(a, b Box) float64 {
	ix1 := max(a.X, b.X)
	iy1 := max(a.Y, b.Y)
	ix2 := min(a.X+a.W, b.X+b.W)
	iy2 := min(a.Y+a.H, b.Y+b.H)

	if ix1 >= ix2 || iy1 >= iy2 {
		return 0.0
	}

	inter := float64((ix2 - ix1) * (iy2 - iy1))
	smaller := math.Min(float64(a.Area()), float64(b.Area()))
	if smaller <= 0 {
		return 0.0
	}
	return inter / smaller
}
