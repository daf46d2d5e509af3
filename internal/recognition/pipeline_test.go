package recognition

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/checkers-vision/internal/imaging"
)

func detect(t *testing.T, r *imaging.Raster, opts Options) *Detection {
	t.Helper()
	det, err := NewDetector(opts, zaptest.NewLogger(t)).Detect(context.Background(), r)
	require.NoError(t, err)
	return det
}

func TestDetect_SingleBlueSquare(t *testing.T) {
	r := newRaster(t, 256, 256, gray)
	fillSquare(r, 100, 100, 10, blue)

	det := detect(t, r, DefaultOptions())

	require.Len(t, det.Blue, 1)
	piece := det.Blue[0]
	assert.InDelta(t, 100, piece.Row, 2)
	assert.InDelta(t, 100, piece.Col, 2)
	assert.True(t, piece.Blue)
	assert.False(t, piece.King)
	assert.Empty(t, det.Red)
	assert.Equal(t, 16, det.BluePoints)
	assert.Zero(t, det.RedPoints)
	assert.NotEmpty(t, det.RunID)
}

func TestDetect_TwoSmallSquaresStaySeparate(t *testing.T) {
	r := newRaster(t, 256, 256, gray)
	fillSquare(r, 100, 100, 5, blue)
	fillSquare(r, 100, 150, 5, blue)

	// Radius-5 squares need the finer 2-pixel blocks to gather enough votes.
	opts := DefaultOptions()
	opts.Scale = 2
	det := detect(t, r, opts)

	require.Len(t, det.Blue, 2)
	cols := []int{det.Blue[0].Col, det.Blue[1].Col}
	assert.ElementsMatch(t, []int{100, 150}, cols)
	for _, p := range det.Blue {
		assert.Equal(t, 100, p.Row)
	}
}

func TestDetect_TwoPiecesFiftyApart(t *testing.T) {
	r := newRaster(t, 256, 256, gray)
	fillSquare(r, 100, 100, 10, blue)
	fillSquare(r, 150, 100, 10, blue)

	det := detect(t, r, DefaultOptions())
	require.Len(t, det.Blue, 2)
	assert.Equal(t, 2, det.Summary.BluePieces)
}

func TestDetect_BlueKing(t *testing.T) {
	r := newRaster(t, 256, 256, gray)
	fillSquare(r, 100, 100, 16, yellow)
	fillSquare(r, 100, 100, 12, blue)

	det := detect(t, r, DefaultOptions())

	require.Len(t, det.Blue, 1)
	king := det.Blue[0]
	assert.True(t, king.King)
	assert.Equal(t, 28, king.Yellow)
	assert.Equal(t, 100, king.Row)
	assert.Equal(t, 100, king.Col)
	assert.Equal(t, 1, det.Summary.BlueKings)

	// The ring alone is visible to the red pass but is not a red piece.
	assert.Equal(t, 28, det.RedPoints)
	assert.Empty(t, det.Red)
}

func TestDetect_RedPieceAndKing(t *testing.T) {
	r := newRaster(t, 320, 256, gray)
	fillSquare(r, 60, 60, 12, red)
	fillSquare(r, 180, 220, 16, yellow)
	fillSquare(r, 180, 220, 12, red)

	det := detect(t, r, DefaultOptions())

	assert.Empty(t, det.Blue)
	require.Len(t, det.Red, 2)
	assert.Equal(t, Summary{RedPieces: 2, RedKings: 1}, det.Summary)
}

func TestDetect_Idempotent(t *testing.T) {
	r := boardLikeRaster(t)
	first := detect(t, r, DefaultOptions())
	second := detect(t, r, DefaultOptions())

	assert.Equal(t, first.Blue, second.Blue)
	assert.Equal(t, first.Red, second.Red)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestDetect_ParallelMatchesSequential(t *testing.T) {
	r := boardLikeRaster(t)
	seq := detect(t, r, DefaultOptions())

	opts := DefaultOptions()
	opts.Workers = 6
	par := detect(t, r, opts)

	assert.Equal(t, seq.Blue, par.Blue)
	assert.Equal(t, seq.Red, par.Red)
	assert.Equal(t, seq.Summary, par.Summary)
}

func TestDetect_InvalidScale(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = 5
	_, err := NewDetector(opts, nil).Detect(context.Background(), newRaster(t, 16, 16, gray))
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func paintRGBA(width, height int, bg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	return img
}

func TestDetectImage_Downscale(t *testing.T) {
	img := paintRGBA(256, 256, color.RGBA{128, 128, 128, 255})
	for y := 90; y < 110; y++ {
		for x := 90; x < 110; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	opts := DefaultOptions()
	opts.Scale = 2
	opts.Downscale = true

	det, err := NewDetector(opts, nil).DetectImage(context.Background(), img)
	require.NoError(t, err)

	require.Len(t, det.Blue, 1)
	assert.InDelta(t, 100, det.Blue[0].Row, 4)
	assert.InDelta(t, 100, det.Blue[0].Col, 4)
}

func TestDetectImage_EmptyImage(t *testing.T) {
	_, err := NewDetector(DefaultOptions(), nil).DetectImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)))
	var inputErr *imaging.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestDetection_Markers(t *testing.T) {
	det := &Detection{
		Blue: []ClusterResult{{Row: 10, Col: 20, Blue: true}, {Row: 30, Col: 40, Blue: true, King: true}},
		Red:  []ClusterResult{{Row: 50, Col: 60, King: true}},
	}

	got := det.Markers("#0000FF", "#FF0000")
	assert.Equal(t, []imaging.Marker{
		{X: 20, Y: 10, Label: "B", Color: "#0000FF"},
		{X: 40, Y: 30, Label: "BK", Color: "#0000FF"},
		{X: 60, Y: 50, Label: "RK", Color: "#FF0000"},
	}, got)
}
