package scratch

import "testing"

func TestToCanvasRoundTrip(t *testing.T) {
	c := SpriteCoordinate{X: 100, Y: -50}
	if got := c.ToCanvas().ToSprite(); !got.Equal(c) {
		t.Errorf("round trip = %+v, want %+v", got, c)
	}
}

func TestToCanvasOrigin(t *testing.T) {
	got := SpriteCoordinate{}.ToCanvas()
	want := CanvasCoordinate{X: CanvasWidth / 2, Y: CanvasHeight / 2}
	if got != want {
		t.Errorf("ToCanvas() = %+v, want %+v", got, want)
	}
}

func TestApplyVectorStraightUp(t *testing.T) {
	got := SpriteCoordinate{}.ApplyVector(0, 10)
	want := SpriteCoordinate{X: 0, Y: 10}
	if !got.Equal(want) {
		t.Errorf("ApplyVector(0, 10) = %+v, want %+v", got, want)
	}
}

func TestApplyVectorRight(t *testing.T) {
	got := SpriteCoordinate{}.ApplyVector(90, 10)
	want := SpriteCoordinate{X: 10, Y: 0}
	if !got.Equal(want) {
		t.Errorf("ApplyVector(90, 10) = %+v, want %+v", got, want)
	}
}

func TestSpriteRectangleContains(t *testing.T) {
	r := SpriteRectangle{Center: SpriteCoordinate{}, Size: Size{Width: 10, Height: 10}}
	if !r.Contains(SpriteCoordinate{X: 5, Y: 5}) {
		t.Error("expected corner to be contained (edge inclusive)")
	}
	if r.Contains(SpriteCoordinate{X: 6, Y: 0}) {
		t.Error("expected point outside rectangle to not be contained")
	}
}

func TestSpriteRectangleIntersects(t *testing.T) {
	a := SpriteRectangle{Center: SpriteCoordinate{}, Size: Size{Width: 10, Height: 10}}
	b := SpriteRectangle{Center: SpriteCoordinate{X: 8, Y: 0}, Size: Size{Width: 10, Height: 10}}
	c := SpriteRectangle{Center: SpriteCoordinate{X: 100, Y: 0}, Size: Size{Width: 10, Height: 10}}
	if !a.Intersects(b) {
		t.Error("expected overlapping rectangles to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected distant rectangles to not intersect")
	}
}

func TestSizeMultiply(t *testing.T) {
	s := Size{Width: 100, Height: 50}
	got := s.Multiply(Scale{X: 0.5, Y: 2})
	want := Size{Width: 50, Height: 100}
	if got != want {
		t.Errorf("Multiply() = %+v, want %+v", got, want)
	}
}
