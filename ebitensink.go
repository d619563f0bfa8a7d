package scratch

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// defaultFace is the text/v2 face every FillText call renders with unless a
// sink caller supplies its own Font, matching the teacher's text.go pattern
// of wrapping a golang.org/x/image font.Face via text.NewGoXFace.
var defaultFace = text.NewGoXFace(basicfont.Face7x13)

// whitePixel is a 1x1 opaque white image scaled and tinted to draw pen
// strokes, avoiding an allocation per segment per frame.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// EbitenSink is the concrete [DrawingSink] backed by an offscreen
// *ebiten.Image canvas, presented to the screen once per [Run] frame.
// Grounded on the teacher's scene.go gameShell.Draw (clear, draw scene,
// blit to screen) and text.go's text/v2 usage for FillText.
type EbitenSink struct {
	canvas *ebiten.Image
}

// NewEbitenSink allocates the fixed 480x360 canvas.
func NewEbitenSink() *EbitenSink {
	return &EbitenSink{canvas: ebiten.NewImage(int(CanvasWidth), int(CanvasHeight))}
}

func (s *EbitenSink) BeginFrame() {
	s.canvas.Fill(color.White)
}

func (s *EbitenSink) Clear(rect SpriteRectangle) {
	x, y, w, h := rect.CanvasRect()
	sub := s.canvas.SubImage(image.Rect(int(x), int(y), int(x+w), int(y+h))).(*ebiten.Image)
	sub.Fill(color.Transparent)
}

func (s *EbitenSink) DrawImage(img DrawableImage, dstX, dstY, dstW, dstH float64, transform Transform) {
	ei, ok := img.(*ebiten.Image)
	if !ok || ei == nil {
		return
	}
	b := ei.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	if srcW == 0 || srcH == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-srcW/2, -srcH/2)
	sx, sy := transform.ScaleX, transform.ScaleY
	if dstW > 0 {
		sx *= dstW / srcW
	}
	if dstH > 0 {
		sy *= dstH / srcH
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(transform.Rotation * math.Pi / 180)
	op.GeoM.Translate(dstX+dstW/2, dstY+dstH/2)
	s.canvas.DrawImage(ei, &op)
}

func (s *EbitenSink) DrawPolyline(points []SpriteCoordinate, c HSV, width float64, roundCaps bool) {
	if len(points) < 2 {
		return
	}
	col := c.RGBA()
	for i := 1; i < len(points); i++ {
		a := points[i-1].ToCanvas()
		b := points[i].ToCanvas()
		drawLineSegment(s.canvas, a, b, col, width)
	}
}

// drawLineSegment rasterizes a single stroke as a filled quad, the way a
// polyline segment is composed from unit-pixel primitives elsewhere in the
// pack (e.g. other_examples' canvas rasterizers draw strokes as oriented
// rectangles rather than calling a native line-drawing API).
func drawLineSegment(dst *ebiten.Image, a, b CanvasCoordinate, col color.RGBA, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	if width < 1 {
		width = 1
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(length, width)
	op.GeoM.Translate(0, -width/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(a.X, a.Y)
	op.ColorScale.ScaleWithColor(col)
	dst.DrawImage(whitePixel, &op)
}

func (s *EbitenSink) FillText(str string, pos CanvasCoordinate, font Font) {
	face := defaultFace
	if f, ok := font.(text.Face); ok {
		face = f
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	text.Draw(s.canvas, str, face, op)
}

func (s *EbitenSink) MeasureText(str string, font Font) float64 {
	face := defaultFace
	if f, ok := font.(text.Face); ok {
		face = f
	}
	w, _ := text.Measure(str, face, 0)
	return w
}

func (s *EbitenSink) GetImageData() []byte {
	bounds := s.canvas.Bounds()
	out := make([]byte, bounds.Dx()*bounds.Dy()*4)
	s.canvas.ReadPixels(out)
	return out
}

func (s *EbitenSink) EndFrame() error { return nil }

// Present blits the rendered canvas onto screen, scaled to its size.
func (s *EbitenSink) Present(screen *ebiten.Image) {
	b := screen.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(b.Dx())/CanvasWidth, float64(b.Dy())/CanvasHeight)
	screen.DrawImage(s.canvas, &op)
}

// EbitenEventSource polls Ebitengine's input state once per tick and
// implements [EventSource]. Grounded on the teacher's input.go per-frame
// input snapshot style, simplified to the flat click/move/key-edge queries
// the interpreter's EventSender needs rather than input.go's hit-testing
// callback registry.
type EbitenEventSource struct {
	prevKeys map[ebiten.Key]bool
}

// NewEbitenEventSource returns a ready-to-poll source.
func NewEbitenEventSource() *EbitenEventSource {
	return &EbitenEventSource{prevKeys: make(map[ebiten.Key]bool)}
}

func (e *EbitenEventSource) PolledClick() (CanvasCoordinate, bool) {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return CanvasCoordinate{}, false
	}
	x, y := ebiten.CursorPosition()
	return CanvasCoordinate{X: float64(x), Y: float64(y)}, true
}

func (e *EbitenEventSource) PolledMouseMove() (CanvasCoordinate, bool) {
	x, y := ebiten.CursorPosition()
	return CanvasCoordinate{X: float64(x), Y: float64(y)}, true
}

var trackedKeys = []ebiten.Key{
	ebiten.KeySpace, ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ, ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

func ebitenKeyToKeyboardKey(k ebiten.Key) (KeyboardKey, bool) {
	switch {
	case k == ebiten.KeySpace:
		return KeySpace, true
	case k == ebiten.KeyUp:
		return KeyUp, true
	case k == ebiten.KeyDown:
		return KeyDown, true
	case k == ebiten.KeyLeft:
		return KeyLeft, true
	case k == ebiten.KeyRight:
		return KeyRight, true
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return KeyA + KeyboardKey(k-ebiten.KeyA), true
	case k >= ebiten.Key0 && k <= ebiten.Key9:
		return Key0 + KeyboardKey(k-ebiten.Key0), true
	}
	return 0, false
}

func (e *EbitenEventSource) KeysJustPressed() []KeyboardKey {
	var out []KeyboardKey
	for _, k := range trackedKeys {
		down := ebiten.IsKeyPressed(k)
		if down && !e.prevKeys[k] {
			if kk, ok := ebitenKeyToKeyboardKey(k); ok {
				out = append(out, kk)
			}
		}
	}
	return out
}

// KeysJustReleased also records this tick's key snapshot for the next
// comparison, so KeysJustPressed must be called before it each tick, as
// EventSender.Poll does.
func (e *EbitenEventSource) KeysJustReleased() []KeyboardKey {
	var out []KeyboardKey
	for _, k := range trackedKeys {
		down := ebiten.IsKeyPressed(k)
		if !down && e.prevKeys[k] {
			if kk, ok := ebitenKeyToKeyboardKey(k); ok {
				out = append(out, kk)
			}
		}
		e.prevKeys[k] = down
	}
	return out
}

// RunConfig configures [Run]'s window, grounded on the teacher's
// scene.go RunConfig.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowTPS       bool
}

// Run drives vm through Ebitengine's game loop, presenting sink's canvas
// each frame. sink must be the same instance vm was constructed with via
// [NewVM], so what VM.Tick draws into is what gets presented. Mirrors the
// teacher's scene.go Run/gameShell wiring (window setup, then
// ebiten.RunGame).
func Run(vm *VM, sink *EbitenSink, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = int(CanvasWidth)
	}
	if h == 0 {
		h = int(CanvasHeight)
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	shell := &ebitenShell{
		vm:      vm,
		sink:    sink,
		source:  NewEbitenEventSource(),
		w:       w,
		h:       h,
		showTPS: cfg.ShowTPS,
	}
	return ebiten.RunGame(shell)
}

// ebitenShell implements [ebiten.Game] by delegating each tick to VM.Tick,
// the way the teacher's gameShell delegates to Scene.Update/Draw.
type ebitenShell struct {
	vm      *VM
	sink    *EbitenSink
	source  *EbitenEventSource
	w, h    int
	showTPS bool
}

func (g *ebitenShell) Update() error {
	return g.vm.Tick(context.Background(), g.source)
}

func (g *ebitenShell) Draw(screen *ebiten.Image) {
	g.sink.Present(screen)
	if g.showTPS {
		ebiten.SetWindowTitle("")
	}
}

func (g *ebitenShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}
