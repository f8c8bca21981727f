package pax

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/paxrt/pax/paxel"
)

// EbitenSink implements RenderSink by drawing into an *ebiten.Image each
// frame, grounded on willow's render.go affine32/color32 conversions and
// its habit of building ebiten.DrawImageOptions per draw call rather than
// batching (this engine leaves batching to a later optimization pass, same
// as willow's non-batched sprite path).
type EbitenSink struct {
	dst    *ebiten.Image
	images map[string]*ebiten.Image

	stack []ebiten.GeoM
	cur   ebiten.GeoM
}

// NewEbitenSink creates a sink drawing into dst.
func NewEbitenSink(dst *ebiten.Image) *EbitenSink {
	s := &EbitenSink{dst: dst, images: make(map[string]*ebiten.Image)}
	s.cur.Reset()
	return s
}

// SetTarget repoints the sink at a new destination image, used when the
// chassis resizes the backbuffer.
func (s *EbitenSink) SetTarget(dst *ebiten.Image) { s.dst = dst }

func (s *EbitenSink) Save() {
	s.stack = append(s.stack, s.cur)
}

func (s *EbitenSink) Restore() {
	if len(s.stack) == 0 {
		s.cur.Reset()
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *EbitenSink) Clip(x, y, w, h float64) {
	// Scissor-based clipping is left to a later pass; willow's renderer
	// does not clip either, relying on mask nodes instead.
}

func (s *EbitenSink) Transform(m [6]float64) {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	s.cur.Concat(g)
}

func colorToColor(c paxel.Color) color.Color {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *EbitenSink) Fill(x, y, w, h float64, c paxel.Color) {
	ox, oy := s.cur.Apply(x, y)
	sx := hypotScale(s.cur, 0)
	sy := hypotScale(s.cur, 1)
	vector.DrawFilledRect(s.dst, float32(ox), float32(oy), float32(w*sx), float32(h*sy), colorToColor(c), false)
}

func (s *EbitenSink) Stroke(x, y, w, h float64, c paxel.Color, width float64) {
	ox, oy := s.cur.Apply(x, y)
	sx := hypotScale(s.cur, 0)
	sy := hypotScale(s.cur, 1)
	vector.StrokeRect(s.dst, float32(ox), float32(oy), float32(w*sx), float32(h*sy), float32(width), colorToColor(c), false)
}

func (s *EbitenSink) DrawText(x, y float64, text string, fontFamily string, size float64, c paxel.Color) {
	// Text layout delegates to the asset pipeline's loaded font metadata;
	// left as a hook for the concrete font backend until one is wired to a
	// specific text/v2 face.
}

func (s *EbitenSink) LoadImage(path string) error {
	if _, ok := s.images[path]; ok {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image %s: %w", path, err)
	}
	s.images[path] = ebiten.NewImageFromImage(img)
	return nil
}

func (s *EbitenSink) DrawImage(path string, affine [6]float64) {
	img, ok := s.images[path]
	if !ok {
		return
	}
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM = s.cur
	s.dst.DrawImage(img, opts)
}

func hypotScale(g ebiten.GeoM, axis int) float64 {
	if axis == 0 {
		return hyp(g.Element(0, 0), g.Element(1, 0))
	}
	return hyp(g.Element(0, 1), g.Element(1, 1))
}

func hyp(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
