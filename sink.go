package scratch

// DrawableImage is an opaque handle to a rasterized costume or atlas
// region; its concrete type is chosen by the DrawingSink implementation
// (EbitenSink uses *ebiten.Image). Costume rasterization is out of scope
// per spec §1 — the VM only ever passes these handles through.
type DrawableImage interface{}

// Font is an opaque handle to a text-rendering font, mirrored the same
// way as DrawableImage.
type Font interface{}

// Transform describes how an image is placed on the canvas: translation to
// dst's top-left, rotation in degrees, and per-axis scale, matching the
// affine composition teacher's transform.go builds for node rendering.
type Transform struct {
	Rotation   float64
	ScaleX     float64
	ScaleY     float64
}

// DrawingSink is the abstract rendering surface the VM consumes (spec
// §6). The canvas is 480x360 logical units, origin top-left, +x right,
// +y down; the VM is responsible for converting from sprite space.
type DrawingSink interface {
	BeginFrame()
	Clear(rect SpriteRectangle)
	DrawImage(image DrawableImage, dstX, dstY, dstW, dstH float64, transform Transform)
	DrawPolyline(points []SpriteCoordinate, color HSV, width float64, roundCaps bool)
	FillText(s string, pos CanvasCoordinate, font Font)
	MeasureText(s string, font Font) float64
	GetImageData() []byte // RGBA grid, CanvasWidth*CanvasHeight*4 bytes
	EndFrame() error
}
