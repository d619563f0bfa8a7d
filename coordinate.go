package scratch

import "math"

// Canvas dimensions, logical units. The stage is 480x360 with the origin at
// its top-left corner, Y increasing downward — the drawing sink's native
// space.
const (
	CanvasWidth  = 480.0
	CanvasHeight = 360.0
)

// SpriteCoordinate is Scratch's sprite space: origin at the stage center,
// +x right, +y up. Left edge -240, right edge +240, top +180, bottom -180.
type SpriteCoordinate struct {
	X, Y float64
}

// Add returns the componentwise sum of two sprite coordinates.
func (c SpriteCoordinate) Add(other SpriteCoordinate) SpriteCoordinate {
	return SpriteCoordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

// ApplyVector returns c displaced by magnitude along directionDegrees,
// measured clockwise from straight up (Scratch's direction convention: 0 is
// up, 90 is right, 180 is down, 270 is left).
func (c SpriteCoordinate) ApplyVector(directionDegrees, magnitude float64) SpriteCoordinate {
	rad := directionDegrees * math.Pi / 180
	return SpriteCoordinate{
		X: c.X + magnitude*math.Sin(rad),
		Y: c.Y + magnitude*math.Cos(rad),
	}
}

const coordinateEpsilon = 1e-9

// Equal compares two sprite coordinates within a small epsilon, tolerating
// floating point error accumulated by ApplyVector.
func (c SpriteCoordinate) Equal(other SpriteCoordinate) bool {
	return math.Abs(c.X-other.X) < coordinateEpsilon && math.Abs(c.Y-other.Y) < coordinateEpsilon
}

// CanvasCoordinate is the drawing sink's native space: origin at the
// stage's top-left corner, +x right, +y down. Left 0, right 480, top 0,
// bottom 360.
type CanvasCoordinate struct {
	X, Y float64
}

// ToCanvas converts a sprite coordinate into canvas space.
func (c SpriteCoordinate) ToCanvas() CanvasCoordinate {
	return CanvasCoordinate{X: CanvasWidth/2 + c.X, Y: CanvasHeight/2 - c.Y}
}

// ToSprite converts a canvas coordinate into sprite space.
func (c CanvasCoordinate) ToSprite() SpriteCoordinate {
	return SpriteCoordinate{X: c.X - CanvasWidth/2, Y: CanvasHeight/2 - c.Y}
}

// Size is a width/height pair in sprite-space units.
type Size struct {
	Width, Height float64
}

// Multiply scales a Size by a Scale factor, used when a costume's authored
// size is resized by setsizeto.
func (s Size) Multiply(scale Scale) Size {
	return Size{Width: s.Width * scale.X, Height: s.Height * scale.Y}
}

// Scale is a per-axis scale factor; the zero value is invalid, use
// DefaultScale.
type Scale struct {
	X, Y float64
}

// DefaultScale is the unscaled 1:1 factor.
var DefaultScale = Scale{X: 1, Y: 1}

// SpriteRectangle is the sprite's axis-aligned bounding box in sprite space,
// used for click hit-testing and touching-object sensing.
type SpriteRectangle struct {
	Center SpriteCoordinate
	Size   Size
}

// TopLeft returns the rectangle's top-left corner in sprite space.
func (r SpriteRectangle) TopLeft() SpriteCoordinate {
	return SpriteCoordinate{X: r.Center.X - r.Size.Width/2, Y: r.Center.Y + r.Size.Height/2}
}

// BottomRight returns the rectangle's bottom-right corner in sprite space.
func (r SpriteRectangle) BottomRight() SpriteCoordinate {
	return SpriteCoordinate{X: r.Center.X + r.Size.Width/2, Y: r.Center.Y - r.Size.Height/2}
}

// Contains reports whether point lies within the rectangle, edges inclusive.
func (r SpriteRectangle) Contains(point SpriteCoordinate) bool {
	tl := r.TopLeft()
	br := r.BottomRight()
	return point.X >= tl.X && point.X <= br.X && point.Y <= tl.Y && point.Y >= br.Y
}

// Intersects reports whether r and other overlap, edges inclusive.
func (r SpriteRectangle) Intersects(other SpriteRectangle) bool {
	tl, br := r.TopLeft(), r.BottomRight()
	otl, obr := other.TopLeft(), other.BottomRight()
	return tl.X <= obr.X && br.X >= otl.X && tl.Y >= obr.Y && br.Y <= otl.Y
}

// CanvasRect converts a sprite-space rectangle to canvas space for the
// drawing sink, returning the top-left origin and size Ebitengine expects.
func (r SpriteRectangle) CanvasRect() (x, y, w, h float64) {
	tl := r.TopLeft().ToCanvas()
	return tl.X, tl.Y, r.Size.Width, r.Size.Height
}
