package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// CropResult contains a cropped piece image and its average color.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// MeanHex is the average color of the crop as "#rrggbb".
	MeanHex string `json:"mean_hex"`

	// Hue (0-360), Saturation (0-1) and Value (0-1) of the average color.
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

// Crop extracts a rectangular region from an image
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	mean := meanColor(cropped)

	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	h, s, v := mean.Hsv()
	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		MeanHex:     mean.Clamped().Hex(),
		Hue:         math.Round(h*10) / 10,
		Saturation:  math.Round(s*1000) / 1000,
		Value:       math.Round(v*1000) / 1000,
	}, nil
}

// CropPiece extracts the square of side 2*radius centered on (row, col),
// clamped to the image bounds. Use it to inspect a single detected piece.
func CropPiece(img image.Image, row, col, radius int, scale float64) (*CropResult, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %d", radius)
	}
	bounds := img.Bounds()
	r := image.Rect(col-radius, row-radius, col+radius, row+radius).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("piece at (%d,%d) is outside the image", row, col)
	}
	return Crop(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, scale)
}

// meanColor averages an NRGBA image, ignoring alpha.
func meanColor(img *image.NRGBA) colorful.Color {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	var sr, sg, sb float64
	for y := 0; y < h; y++ {
		line := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(line); i += 4 {
			sr += float64(line[i])
			sg += float64(line[i+1])
			sb += float64(line[i+2])
		}
	}
	n := float64(w*h) * 255
	return colorful.Color{R: sr / n, G: sg / n, B: sb / n}
}
