package scratch

// PenStatus tracks whether the pen is currently drawing.
type PenStatus uint8

const (
	PenUp PenStatus = iota
	PenDown
)

// Line is one polyline segment: a run of points sharing a color and stroke
// width. The current line is always the last element of Pen.Lines.
type Line struct {
	Points []SpriteCoordinate
	Color  HSV
	Size   float64
}

// Pen is a sprite's drawing state: an ordered run of polylines plus the
// color/size/up-down state applied to new points. The invariant from spec
// §3 — changing color or size starts a new line continuing from the
// previous line's last point if the pen is down — is enforced by newLine.
type Pen struct {
	Lines  []Line
	status PenStatus
	color  HSV
	size   float64
}

// NewPen returns a pen in its default state: one empty red line, pen up.
func NewPen() *Pen {
	p := &Pen{
		status: PenUp,
		color:  DefaultPenColor,
		size:   1,
	}
	p.Lines = []Line{{Color: p.color, Size: p.size}}
	return p
}

// Color returns the current stroke color.
func (p *Pen) Color() HSV { return p.color }

// SetColor changes the stroke color, starting a new line.
func (p *Pen) SetColor(c HSV) {
	p.newLine()
	p.color = c
}

// Size returns the current stroke width.
func (p *Pen) Size() float64 { return p.size }

// SetSize changes the stroke width, starting a new line.
func (p *Pen) SetSize(size float64) {
	p.newLine()
	p.size = size
}

// SetPosition appends point to the current line, but only while the pen is
// down.
func (p *Pen) SetPosition(point SpriteCoordinate) {
	if p.status == PenDown {
		last := &p.Lines[len(p.Lines)-1]
		last.Points = append(last.Points, point)
	}
}

// Down puts the pen down at position, starting a new line there.
func (p *Pen) Down(position SpriteCoordinate) {
	p.newLine()
	p.status = PenDown
	p.SetPosition(position)
}

// Up lifts the pen, closing the current line.
func (p *Pen) Up() {
	p.newLine()
	p.status = PenUp
}

// Clear drops all lines, resetting to the default single empty red line.
func (p *Pen) Clear() {
	p.status = PenUp
	p.color = DefaultPenColor
	p.size = 1
	p.Lines = []Line{{Color: p.color, Size: p.size}}
}

// newLine starts a fresh current line carrying forward the previous line's
// last point if the pen is down, so color/size changes mid-stroke don't
// leave a visible gap.
func (p *Pen) newLine() {
	line := Line{Color: p.color, Size: p.size}
	if p.status == PenDown && len(p.Lines) > 0 {
		prev := p.Lines[len(p.Lines)-1]
		if len(prev.Points) > 0 {
			line.Points = append(line.Points, prev.Points[len(prev.Points)-1])
		}
	}
	p.Lines = append(p.Lines, line)
}
