package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Channels is the number of samples per pixel in a Raster (red, green, blue).
const Channels = 3

// InputError reports a pixel buffer that cannot be scanned.
//
// It is returned before any work is done on the buffer; callers can match it
// with errors.As to distinguish bad input from other failures.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid image buffer: " + e.Reason
}

// Raster is a decoded, immutable 8-bit RGB image.
//
// Pix holds Width*Height*Channels bytes in row-major order with no padding:
// the red sample of pixel (row, col) is at Pix[(row*Width+col)*Channels].
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster wraps an existing RGB buffer after validating its shape.
//
// The buffer is not copied; the caller must not modify it afterwards.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	r := &Raster{Width: width, Height: height, Pix: pix}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that the raster is non-empty and that Pix matches the
// declared dimensions.
func (r *Raster) Validate() error {
	if r == nil {
		return &InputError{Reason: "nil raster"}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return &InputError{Reason: fmt.Sprintf("non-positive dimensions %dx%d", r.Width, r.Height)}
	}
	if want := r.Width * r.Height * Channels; len(r.Pix) != want {
		return &InputError{Reason: fmt.Sprintf("pixel buffer has %d bytes, want %d for %dx%d RGB",
			len(r.Pix), want, r.Width, r.Height)}
	}
	return nil
}

// FromImage converts any image.Image into a Raster.
//
// The image is normalized to non-premultiplied RGBA first so that every
// decoder's color model (YCbCr JPEGs, paletted GIFs, 16-bit PNGs) produces
// the same 8-bit samples. Alpha is discarded.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, &InputError{Reason: "nil image"}
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &InputError{Reason: "empty image bounds"}
	}

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	pix := make([]uint8, w*h*Channels)

	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := pix[y*w*Channels : (y+1)*w*Channels]
		for x := 0; x < w; x++ {
			out[x*3+0] = in[x*4+0]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+2]
		}
	}

	return &Raster{Width: w, Height: h, Pix: pix}, nil
}

// At returns the RGB samples of the pixel at (row, col).
func (r *Raster) At(row, col int) (red, green, blue uint8) {
	i := (row*r.Width + col) * Channels
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// BlockSums returns the per-channel sums of the size×size block whose
// top-left pixel is (top, left). The block must lie inside the raster.
func (r *Raster) BlockSums(top, left, size int) (red, green, blue int64) {
	stride := r.Width * Channels
	for row := top; row < top+size; row++ {
		line := r.Pix[row*stride+left*Channels : row*stride+(left+size)*Channels]
		for i := 0; i < len(line); i += Channels {
			red += int64(line[i])
			green += int64(line[i+1])
			blue += int64(line[i+2])
		}
	}
	return red, green, blue
}

// Downscale shrinks img by an integer factor using box averaging.
//
// A factor of 1 or less returns img unchanged. The result is never smaller
// than 1×1.
func Downscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w := max(b.Dx()/factor, 1)
	h := max(b.Dy()/factor, 1)
	return imaging.Resize(img, w, h, imaging.Box)
}

// Denoise applies a Gaussian blur with the given radius. Photographs with
// sensor noise or JPEG blocking produce fewer isolated false votes after a
// light blur. A non-positive radius returns img unchanged.
func Denoise(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}
	return blur.Gaussian(img, radius)
}
