package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"

	"github.com/ivlev/sequencer/internal/timeline"
)

const (
	margin     = 16
	lineWidth  = 1.5
	markerSize = 3
)

var roleColors = [timeline.NumRoles]color.RGBA{
	{0xd6, 0x27, 0x28, 0xff}, {0x2c, 0xa0, 0x2c, 0xff}, {0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff}, {0x94, 0x67, 0xbd, 0xff}, {0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff}, {0x7f, 0x7f, 0x7f, 0xff}, {0x17, 0xbe, 0xcf, 0xff},
}

// Render draws every keyed channel of tl across its playback range. Each
// curve is scaled to its own value range so small rotations stay visible
// next to large translations.
func Render(tl *timeline.Timeline, width, height int) (*image.RGBA, error) {
	if width <= 2*margin || height <= 2*margin {
		return nil, fmt.Errorf("preview size %dx%d is too small", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r := tl.Range()
	if r.Len() == 0 {
		return img, nil
	}

	plotW := float64(width - 2*margin)
	plotH := float64(height - 2*margin)
	samples := width - 2*margin

	z := vector.NewRasterizer(width, height)
	for _, ch := range tl.Channels() {
		if ch.Len() == 0 {
			continue
		}

		values := make([]float64, samples+1)
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range values {
			frame := float64(r.Start) + float64(i)/float64(samples)*float64(r.Len()-1)
			v, _ := ch.Evaluate(frame)
			values[i] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}

		toY := func(v float64) float32 {
			if hi-lo < 1e-12 {
				return float32(margin + plotH/2)
			}
			return float32(margin + plotH - (v-lo)/(hi-lo)*plotH)
		}
		toX := func(frame float64) float32 {
			if r.Len() <= 1 {
				return margin
			}
			return float32(margin + (frame-float64(r.Start))/float64(r.Len()-1)*plotW)
		}

		z.Reset(width, height)
		for i := 1; i < len(values); i++ {
			x0 := float32(margin + float64(i-1))
			x1 := float32(margin + float64(i))
			segment(z, x0, toY(values[i-1]), x1, toY(values[i]))
		}
		for _, k := range ch.Keys() {
			if !r.Contains(k.Frame) {
				continue
			}
			square(z, toX(float64(k.Frame)), toY(k.Value))
		}
		z.Draw(img, img.Bounds(), image.NewUniform(roleColors[ch.Role()]), image.Point{})
	}
	return img, nil
}

// WritePNG renders tl and writes it to path.
func WritePNG(tl *timeline.Timeline, path string, width, height int) error {
	img, err := Render(tl, width, height)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// segment adds a line of lineWidth as a quad.
func segment(z *vector.Rasterizer, x0, y0, x1, y1 float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*lineWidth/2, dx/length*lineWidth/2

	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

func square(z *vector.Rasterizer, x, y float32) {
	z.MoveTo(x-markerSize, y-markerSize)
	z.LineTo(x+markerSize, y-markerSize)
	z.LineTo(x+markerSize, y+markerSize)
	z.LineTo(x-markerSize, y+markerSize)
	z.ClosePath()
}
