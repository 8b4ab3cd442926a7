// Package raster draws parsed layers into a webp preview image. It lives
// on the caller side of the core: the parser and hit tester stay free of
// any rendering concern, this package is just one consumer of their output.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"

	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
)

// Options controls the output image.
type Options struct {
	Background string  // hex color, default white
	Width      int     // default 1024
	Height     int     // default 768
	Oversample int     // supersampling factor, default 2
	Quality    float32 // webp quality, default 85
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 768
	}
	if o.Oversample <= 0 {
		o.Oversample = 2
	}
	if o.Quality <= 0 {
		o.Quality = 85
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}

	return o
}

// Render draws the parser's layers into an RGBA image: filled polygons
// first (holes punched), then borders and polylines, markers on top.
// Geometry is fitted into the image with a plain equirectangular mapping,
// aspect preserved. Rendering at an oversampled size and downscaling
// keeps edges smooth.
func Render(p *geojson.Parser, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()

	bound, ok := layersBound(p)
	if !ok {
		return nil, fmt.Errorf("nothing to render")
	}

	w := opts.Width * opts.Oversample
	h := opts.Height * opts.Oversample
	f := newFit(bound, w, h)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, parseHexColor(opts.Background, color.RGBA{255, 255, 255, 255}))

	for _, poly := range p.Polygons {
		drawPolygon(img, f, poly, opts.Oversample)
	}
	for _, line := range p.Polylines {
		c := parseHexColor(line.Color, color.RGBA{51, 136, 255, 255})
		width := line.Width * float64(opts.Oversample)
		drawPath(img, f, line.Points, width, c, false)
	}
	for _, m := range p.Markers {
		c := parseHexColor(m.Color, color.RGBA{42, 129, 203, 255})
		x, y := f.toPixel(m.At)
		stampDisc(img, x, y, 4*float64(opts.Oversample), c)
	}

	if opts.Oversample == 1 {
		return img, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	return out, nil
}

// WriteFile renders the layers and writes them as a webp file.
func WriteFile(path string, p *geojson.Parser, opts Options) error {
	opts = opts.withDefaults()

	img, err := Render(p, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return webp.Encode(f, img, &webp.Options{Lossless: false, Quality: opts.Quality})
}

// layersBound covers every geometry the parser holds.
func layersBound(p *geojson.Parser) (geo.Bound, bool) {
	var b geo.Bound
	have := false

	add := func(nb geo.Bound) {
		if !have {
			b = nb
			have = true
			return
		}
		b = b.Extend(nb)
	}

	for _, m := range p.Markers {
		add(geo.Ring{m.At}.Bound())
	}
	for _, line := range p.Polylines {
		if len(line.Points) > 0 {
			add(geo.Ring(line.Points).Bound())
		}
	}
	for _, poly := range p.Polygons {
		if len(poly.Outer) > 0 {
			add(poly.Outer.Bound())
		}
	}

	return b, have
}

// fit maps geographic coordinates into pixel space with uniform scale and
// centering. Latitude grows upwards, pixel y grows downwards.
type fit struct {
	b      geo.Bound
	scale  float64
	ox, oy float64
}

func newFit(b geo.Bound, w, h int) fit {
	// margin plus degenerate-extent guard
	dLat := b.MaxLat - b.MinLat
	dLon := b.MaxLon - b.MinLon
	pad := 0.05 * math.Max(dLat, dLon)
	if pad == 0 {
		pad = 1e-6
	}
	b = b.Pad(pad)
	dLat = b.MaxLat - b.MinLat
	dLon = b.MaxLon - b.MinLon

	scale := math.Min(float64(w)/dLon, float64(h)/dLat)

	return fit{
		b:     b,
		scale: scale,
		ox:    (float64(w) - dLon*scale) / 2,
		oy:    (float64(h) - dLat*scale) / 2,
	}
}

func (f fit) toPixel(p geo.Point) (x, y float64) {
	return f.ox + (p.Lon-f.b.MinLon)*f.scale, f.oy + (f.b.MaxLat-p.Lat)*f.scale
}

func (f fit) toGeo(x, y float64) geo.Point {
	return geo.Point{
		Lat: f.b.MaxLat - (y-f.oy)/f.scale,
		Lon: f.b.MinLon + (x-f.ox)/f.scale,
	}
}

func drawPolygon(img *image.RGBA, f fit, poly *geojson.Polygon, oversample int) {
	if len(poly.Outer) < 3 {
		return
	}

	if poly.Filled {
		fillPolygon(img, f, poly)
	}

	border := parseHexColor(poly.BorderColor, color.RGBA{51, 136, 255, 255})
	width := poly.BorderWidth * float64(oversample)
	drawPath(img, f, poly.Outer, width, border, true)
	for _, hole := range poly.Holes {
		drawPath(img, f, hole, width, border, true)
	}
}

// fillPolygon paints every pixel whose center lies inside the outer ring
// and outside all holes, reusing the same even-odd containment test the
// hit tester depends on.
func fillPolygon(img *image.RGBA, f fit, poly *geojson.Polygon) {
	fill := parseHexColor(poly.FillColor, color.RGBA{116, 168, 232, 255})

	ob := poly.Outer.Bound()
	minX, minY := f.toPixel(geo.Point{Lat: ob.MaxLat, Lon: ob.MinLon})
	maxX, maxY := f.toPixel(geo.Point{Lat: ob.MinLat, Lon: ob.MaxLon})

	x0 := clamp(int(minX), 0, img.Bounds().Dx())
	x1 := clamp(int(maxX)+1, 0, img.Bounds().Dx())
	y0 := clamp(int(minY), 0, img.Bounds().Dy())
	y1 := clamp(int(maxY)+1, 0, img.Bounds().Dy())

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pt := f.toGeo(float64(x)+0.5, float64(y)+0.5)
			if !poly.Outer.Contains(pt) {
				continue
			}
			inHole := false
			for _, hole := range poly.Holes {
				if hole.Contains(pt) {
					inHole = true
					break
				}
			}
			if !inHole {
				blend(img, x, y, fill)
			}
		}
	}
}

// drawPath strokes a point sequence; closed additionally strokes the
// implied last-to-first edge.
func drawPath(img *image.RGBA, f fit, points []geo.Point, width float64, c color.RGBA, closed bool) {
	if len(points) < 2 {
		return
	}
	if width < 1 {
		width = 1
	}

	for i := 1; i < len(points); i++ {
		x0, y0 := f.toPixel(points[i-1])
		x1, y1 := f.toPixel(points[i])
		stampSegment(img, x0, y0, x1, y1, width, c)
	}
	if closed {
		x0, y0 := f.toPixel(points[len(points)-1])
		x1, y1 := f.toPixel(points[0])
		stampSegment(img, x0, y0, x1, y1, width, c)
	}
}

// stampSegment walks the segment stamping discs, a cheap thick line.
func stampSegment(img *image.RGBA, x0, y0, x1, y1, width float64, c color.RGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	steps := int(length) + 1
	r := width / 2

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(img, x0+(x1-x0)*t, y0+(y1-y0)*t, r, c)
	}
}

func stampDisc(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	if r < 0.5 {
		r = 0.5
	}

	x0 := clamp(int(cx-r), 0, img.Bounds().Dx())
	x1 := clamp(int(cx+r)+1, 0, img.Bounds().Dx())
	y0 := clamp(int(cy-r), 0, img.Bounds().Dy())
	y1 := clamp(int(cy+r)+1, 0, img.Bounds().Dy())

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				blend(img, x, y, c)
			}
		}
	}
}

func fillRect(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// blend does a src-over composite of c onto the pixel.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 255 {
		img.SetRGBA(x, y, c)
		return
	}

	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	ia := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*ia) / 255),
		A: uint8(a + uint32(dst.A)*ia/255),
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// parseHexColor understands #rgb, #rrggbb and #rrggbbaa. Anything else
// yields the fallback.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]

	nib := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		default:
			return 0, false
		}
	}

	byteAt := func(i int) (uint8, bool) {
		hi, ok1 := nib(hex[i])
		lo, ok2 := nib(hex[i+1])
		return hi<<4 | lo, ok1 && ok2
	}

	switch len(hex) {
	case 3:
		r, ok1 := nib(hex[0])
		g, ok2 := nib(hex[1])
		b, ok3 := nib(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		return color.RGBA{r * 17, g * 17, b * 17, 255}
	case 6:
		r, ok1 := byteAt(0)
		g, ok2 := byteAt(2)
		b, ok3 := byteAt(4)
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		return color.RGBA{r, g, b, 255}
	case 8:
		r, ok1 := byteAt(0)
		g, ok2 := byteAt(2)
		b, ok3 := byteAt(4)
		a, ok4 := byteAt(6)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return fallback
		}
		return color.RGBA{r, g, b, a}
	default:
		return fallback
	}
}
