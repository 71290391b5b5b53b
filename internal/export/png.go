package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

// PNGOptions controls image rendering.
type PNGOptions struct {
	Size     geometry.Size
	Padding  float64
	FontSize float64
	// MaxSide caps the longer image side in pixels; larger maps are scaled
	// down to fit.
	MaxSide int
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Size.W <= 0 || o.Size.H <= 0 {
		o.Size = geometry.DefaultSize
	}
	if o.Padding <= 0 {
		o.Padding = 40
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.MaxSide <= 0 {
		o.MaxSide = defaultMaxSide
	}
	return o
}

const defaultMaxSide = 8192

var (
	nodeFill   = color.RGBA{R: 0xf4, G: 0xf1, B: 0xfb, A: 0xff}
	nodeStroke = color.RGBA{R: 0x6d, G: 0x28, B: 0xd9, A: 0xff}
	edgeColor  = color.RGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}
	textColor  = color.Black
)

// Bounds returns the rectangle covering every node.
func Bounds(m *journey.Map, size geometry.Size) (min, max geometry.Point, ok bool) {
	for i, n := range m.Nodes {
		p := n.Position
		if i == 0 {
			min, max = p, p.Add(geometry.Point{X: size.W, Y: size.H})
			continue
		}
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X+size.W)
		max.Y = math.Max(max.Y, p.Y+size.H)
	}
	return min, max, len(m.Nodes) > 0
}

// RenderPNG draws the map into a new image context.
func RenderPNG(m *journey.Map, opts PNGOptions) (*gg.Context, error) {
	opts = opts.withDefaults()
	min, max, ok := Bounds(m, opts.Size)
	if !ok {
		return nil, fmt.Errorf("export: nothing to export")
	}
	origin := geometry.Point{X: min.X - opts.Padding, Y: min.Y - opts.Padding}
	width := max.X - min.X + 2*opts.Padding
	height := max.Y - min.Y + 2*opts.Padding + opts.FontSize*2
	scale := math.Min(1, float64(opts.MaxSide)/math.Max(width, height))

	dc := gg.NewContext(
		int(math.Max(1, math.Ceil(width*scale))),
		int(math.Max(1, math.Ceil(height*scale))),
	)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.SetColor(textColor)
	dc.DrawStringAnchored(m.Title, width/2, opts.FontSize, 0.5, 0.5)

	// Shift everything below the title line.
	origin.Y -= opts.FontSize * 2

	for _, c := range m.Connections {
		from, okFrom := m.Node(c.From)
		to, okTo := m.Node(c.To)
		if !okFrom || !okTo {
			continue
		}
		seg := geometry.EdgeConnector(from.Position.Sub(origin), to.Position.Sub(origin), opts.Size)
		drawConnector(dc, seg)
	}
	for _, n := range m.Nodes {
		drawNode(dc, n, n.Position.Sub(origin), opts)
	}
	return dc, nil
}

// PNG renders the map and writes it to path.
func PNG(m *journey.Map, path string, opts PNGOptions) error {
	dc, err := RenderPNG(m, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// drawConnector draws a horizontal line of seg.Length rotated by seg.Angle
// about the start point, with an arrow head at the end.
func drawConnector(dc *gg.Context, seg geometry.Segment) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(seg.From.X, seg.From.Y)
	dc.Rotate(gg.Radians(seg.Angle))
	dc.SetColor(edgeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(0, 0, seg.Length, 0)
	dc.Stroke()
	if seg.Length < 8 {
		return
	}
	dc.MoveTo(seg.Length, 0)
	dc.LineTo(seg.Length-8, -4)
	dc.LineTo(seg.Length-8, 4)
	dc.ClosePath()
	dc.Fill()
}

func drawNode(dc *gg.Context, n journey.Node, at geometry.Point, opts PNGOptions) {
	w, h := opts.Size.W, opts.Size.H
	dc.SetColor(nodeFill)
	dc.DrawRoundedRectangle(at.X, at.Y, w, h, 6)
	dc.Fill()
	dc.SetColor(nodeStroke)
	dc.SetLineWidth(1.5)
	dc.DrawRoundedRectangle(at.X, at.Y, w, h, 6)
	dc.Stroke()

	for _, p := range geometry.AnchorPoints(at, opts.Size) {
		dc.DrawCircle(p.X, p.Y, 3)
		dc.Fill()
	}

	dc.SetColor(textColor)
	lines := []string{n.Content.Name, n.Content.Format, fmt.Sprintf("Quality %.0f", n.Content.QualityScore)}
	lh := opts.FontSize * 1.4
	top := at.Y + h/2 - lh*float64(len(lines)-1)/2
	for i, line := range lines {
		dc.DrawStringAnchored(truncate(dc, line, w-12), at.X+w/2, top+lh*float64(i), 0.5, 0.5)
	}
}

func truncate(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if w, _ := dc.MeasureString(string(r) + "…"); w <= width {
			return string(r) + "…"
		}
	}
	return ""
}
