package recognition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/checkers-vision/internal/imaging"
)

var (
	gray   = [3]uint8{128, 128, 128}
	blue   = [3]uint8{0, 0, 255}
	red    = [3]uint8{255, 0, 0}
	yellow = [3]uint8{255, 255, 0}
)

// newRaster returns a width×height raster filled with bg.
func newRaster(t *testing.T, width, height int, bg [3]uint8) *imaging.Raster {
	t.Helper()
	pix := make([]uint8, width*height*imaging.Channels)
	for i := 0; i < len(pix); i += imaging.Channels {
		pix[i], pix[i+1], pix[i+2] = bg[0], bg[1], bg[2]
	}
	r, err := imaging.NewRaster(width, height, pix)
	require.NoError(t, err)
	return r
}

// fillSquare paints rows [cr-half, cr+half) and cols [cc-half, cc+half).
func fillSquare(r *imaging.Raster, cr, cc, half int, c [3]uint8) {
	for row := cr - half; row < cr+half; row++ {
		for col := cc - half; col < cc+half; col++ {
			if row < 0 || col < 0 || row >= r.Height || col >= r.Width {
				continue
			}
			i := (row*r.Width + col) * imaging.Channels
			r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c[0], c[1], c[2]
		}
	}
}

// pts builds n points of one color laid out on a 4-pixel grid starting at
// (row, col), four per row.
func pts(n, row, col int, c ColorTag) []SamplePoint {
	out := make([]SamplePoint, n)
	for i := range out {
		out[i] = SamplePoint{Row: row + (i/4)*4, Col: col + (i%4)*4, Color: c}
	}
	return out
}

func clusterOf(p Params, groups ...[]SamplePoint) *Cluster {
	c := NewCluster(p)
	for _, g := range groups {
		for _, pt := range g {
			c.AddPoint(pt)
		}
	}
	return c
}

// looseParams accepts single-point clusters so tests can see every group.
func looseParams() Params {
	p := DefaultParams()
	p.MinPoints = 1
	p.MinColorPoints = 1
	return p
}
