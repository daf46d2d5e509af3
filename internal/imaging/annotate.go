package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker is one detected piece to draw on an annotated image.
type Marker struct {
	X     int    // Center X coordinate (column)
	Y     int    // Center Y coordinate (row)
	Label string // Short text drawn beside the ring, e.g. "B" or "RK"
	Color string // Ring color as "#RRGGBB"
}

// AnnotateOptions controls how markers are rendered.
type AnnotateOptions struct {
	// Radius of the ring drawn around each marker, in pixels.
	Radius int

	// Thickness of the ring, in pixels.
	Thickness int

	// LabelColor is the hex color of marker labels. Defaults to white.
	LabelColor string
}

// AnnotateResult contains the annotated image encoded as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
}

// DrawMarkers returns a copy of img with a ring and a label for every marker.
//
// Markers partly outside the image are clipped. An invalid marker color is an
// error.
func DrawMarkers(img image.Image, markers []Marker, opts AnnotateOptions) (*image.RGBA, error) {
	if opts.Radius <= 0 {
		opts.Radius = 14
	}
	if opts.Thickness <= 0 {
		opts.Thickness = 2
	}
	if opts.LabelColor == "" {
		opts.LabelColor = "#FFFFFF"
	}

	labelColor, err := parseHexColor(opts.LabelColor)
	if err != nil {
		return nil, fmt.Errorf("invalid label color: %w", err)
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, m := range markers {
		ringColor, err := parseHexColor(m.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid color for marker at (%d,%d): %w", m.X, m.Y, err)
		}
		drawRing(out, m.X, m.Y, opts.Radius, opts.Thickness, ringColor)
		if m.Label != "" {
			drawLabel(out, m.X+opts.Radius+2, m.Y+4, m.Label, labelColor)
		}
	}

	return out, nil
}

// Annotate draws markers on img and returns the result as base64 PNG.
func Annotate(img image.Image, markers []Marker, opts AnnotateOptions) (*AnnotateResult, error) {
	out, err := DrawMarkers(img, markers, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     len(markers),
	}, nil
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// parseHexColor parses "#RRGGBB" (or "#RGB") into an opaque color.
func parseHexColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// drawRing paints an annulus centered on (cx, cy).
func drawRing(img *image.RGBA, cx, cy, radius, thickness int, c color.RGBA) {
	outer := radius * radius
	inner := (radius - thickness) * (radius - thickness)
	if radius-thickness < 0 {
		inner = -1
	}
	bounds := img.Bounds()

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := dx*dx + dy*dy
			if d > outer || d <= inner {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// drawLabel renders text with its baseline at (x, y) using a fixed 7x13 face.
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
