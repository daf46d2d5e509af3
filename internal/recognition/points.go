package recognition

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/checkers-vision/internal/imaging"
)

// SamplePoint is one colored block, located at the block center.
type SamplePoint struct {
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Color ColorTag `json:"color"`
}

// BlockSize returns the block side for a scale: base / scale, using integer
// division. It fails with ErrInvalidScale when the result is not positive.
func BlockSize(base, scale int) (int, error) {
	if scale < 1 {
		return 0, fmt.Errorf("%w: scale %d must be at least 1", ErrInvalidScale, scale)
	}
	size := base / scale
	if size <= 0 {
		return 0, fmt.Errorf("%w: scale %d leaves no pixels in a %d-pixel block", ErrInvalidScale, scale, base)
	}
	return size, nil
}

// ExtractPoints scans r sequentially and returns the blue-side and red-side
// sample points in scan order. Yellow points appear in both lists.
func ExtractPoints(r *imaging.Raster, scale int, p Params) (blue, red []SamplePoint, err error) {
	e := &Extractor{Params: p, Workers: 1}
	return e.Extract(context.Background(), r, scale)
}

// Extractor turns a raster into sample points.
//
// With Workers > 1 bands of block rows are classified concurrently. The
// bands are joined in order afterwards, so the result is identical to a
// sequential scan.
type Extractor struct {
	Params  Params
	Workers int
	Logger  *zap.Logger
}

// band is a half-open range of block rows and the points found in it.
type band struct {
	first, last int
	blue, red   []SamplePoint
}

// Extract validates r and scale, then scans every whole block in row-major
// order. Pixels in a trailing partial block row or column are ignored.
func (e *Extractor) Extract(ctx context.Context, r *imaging.Raster, scale int) (blue, red []SamplePoint, err error) {
	size, err := BlockSize(e.Params.BaseBlockSize, scale)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}

	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rows := r.Height / size
	cols := r.Width / size
	if r.Height%size != 0 || r.Width%size != 0 {
		logger.Debug("raster not block aligned, truncating scan",
			zap.Int("width", r.Width),
			zap.Int("height", r.Height),
			zap.Int("block_size", size),
			zap.Int("scanned_width", cols*size),
			zap.Int("scanned_height", rows*size))
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	bands := splitBands(rows, workers)

	if workers == 1 {
		for i := range bands {
			e.scanBand(r, size, cols, &bands[i])
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range bands {
			b := &bands[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.scanBand(r, size, cols, b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, fmt.Errorf("failed to extract points: %w", err)
		}
	}

	for _, b := range bands {
		blue = append(blue, b.blue...)
		red = append(red, b.red...)
	}

	logger.Debug("extracted points",
		zap.Int("block_size", size),
		zap.Int("bands", len(bands)),
		zap.Int("blue_points", len(blue)),
		zap.Int("red_points", len(red)))

	return blue, red, nil
}

// scanBand classifies the blocks of rows [b.first, b.last).
func (e *Extractor) scanBand(r *imaging.Raster, size, cols int, b *band) {
	area := size * size
	half := size / 2

	for br := b.first; br < b.last; br++ {
		top := br * size
		for bc := 0; bc < cols; bc++ {
			left := bc * size
			sr, sg, sb := r.BlockSums(top, left, size)

			tag := Classify(BlockSums{R: sr, G: sg, B: sb}, area, e.Params.CutoffPerPixel)
			if tag == None {
				continue
			}

			pt := SamplePoint{Row: top + half, Col: left + half, Color: tag}
			switch tag {
			case Blue:
				b.blue = append(b.blue, pt)
			case Red:
				b.red = append(b.red, pt)
			case Yellow:
				b.blue = append(b.blue, pt)
				b.red = append(b.red, pt)
			}
		}
	}
}

// splitBands divides rows block rows into contiguous bands. Several bands per
// worker keep goroutines busy when colored areas are unevenly spread.
func splitBands(rows, workers int) []band {
	n := workers
	if workers > 1 {
		n = workers * 4
	}
	if n > rows {
		n = rows
	}
	if n < 1 {
		return nil
	}

	bands := make([]band, n)
	per, extra := rows/n, rows%n
	start := 0
	for i := range bands {
		end := start + per
		if i < extra {
			end++
		}
		bands[i] = band{first: start, last: end}
		start = end
	}
	return bands
}
