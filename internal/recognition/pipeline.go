package recognition

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/checkers-vision/internal/imaging"
)

// Options configures a Detector.
type Options struct {
	// Scale divides the base block size. 1 scans 4-pixel blocks.
	Scale int

	// Workers is the number of goroutines classifying blocks. Values below
	// 2 scan sequentially.
	Workers int

	// Downscale shrinks the image by Scale before scanning (DetectImage
	// only). Reported coordinates are mapped back to the source image.
	Downscale bool

	// BlurRadius applies a Gaussian blur before scanning (DetectImage only).
	BlurRadius float64

	Params Params
}

// DefaultOptions returns a sequential, full-resolution detector setup.
func DefaultOptions() Options {
	return Options{
		Scale:   1,
		Workers: 1,
		Params:  DefaultParams(),
	}
}

// Timings records how long each stage of a detection took.
type Timings struct {
	Points     time.Duration `json:"points_ns"`
	Clusterize time.Duration `json:"clusterize_ns"`
	Total      time.Duration `json:"total_ns"`
}

// Summary counts pieces and kings per side.
type Summary struct {
	BluePieces int `json:"blue_pieces"`
	BlueKings  int `json:"blue_kings"`
	RedPieces  int `json:"red_pieces"`
	RedKings   int `json:"red_kings"`
}

// Detection is the outcome of one pass over an image.
type Detection struct {
	RunID string `json:"run_id"`

	Blue []ClusterResult `json:"blue"`
	Red  []ClusterResult `json:"red"`

	// BluePoints and RedPoints are the sample point counts fed to each
	// side's clustering pass; yellow points count toward both.
	BluePoints int `json:"blue_points"`
	RedPoints  int `json:"red_points"`

	Summary Summary `json:"summary"`
	Timings Timings `json:"timings"`
}

// Detector runs the full extraction and clustering pipeline.
type Detector struct {
	opts   Options
	logger *zap.Logger
}

// NewDetector creates a detector. A nil logger discards log output.
func NewDetector(opts Options, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	return &Detector{opts: opts, logger: logger}
}

// Options returns the detector configuration.
func (d *Detector) Options() Options { return d.opts }

// DetectImage prepares img (blur, optional downscale) and runs Detect on it.
// Coordinates in the result refer to img.
func (d *Detector) DetectImage(ctx context.Context, img image.Image) (*Detection, error) {
	img = imaging.Denoise(img, d.opts.BlurRadius)

	factor := 1
	if d.opts.Downscale && d.opts.Scale > 1 {
		factor = d.opts.Scale
		img = imaging.Downscale(img, factor)
	}

	r, err := imaging.FromImage(img)
	if err != nil {
		return nil, err
	}

	det, err := d.Detect(ctx, r)
	if err != nil {
		return nil, err
	}

	if factor > 1 {
		for i := range det.Blue {
			det.Blue[i].Row *= factor
			det.Blue[i].Col *= factor
		}
		for i := range det.Red {
			det.Red[i].Row *= factor
			det.Red[i].Col *= factor
		}
	}
	return det, nil
}

// Detect extracts points from r and clusters both sides.
//
// The blue and red passes run concurrently; each owns its point list and
// clusters. An empty side is a normal outcome, not an error.
func (d *Detector) Detect(ctx context.Context, r *imaging.Raster) (*Detection, error) {
	runID := uuid.NewString()
	logger := d.logger.With(zap.String("run_id", runID))
	start := time.Now()

	ex := &Extractor{Params: d.opts.Params, Workers: d.opts.Workers, Logger: logger}
	bluePts, redPts, err := ex.Extract(ctx, r, d.opts.Scale)
	if err != nil {
		return nil, err
	}
	pointsDone := time.Now()

	var blue, red []ClusterResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		blue = Clusterize(bluePts, true, d.opts.Params)
		return gctx.Err()
	})
	g.Go(func() error {
		red = Clusterize(redPts, false, d.opts.Params)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to clusterize points: %w", err)
	}
	end := time.Now()

	det := &Detection{
		RunID:      runID,
		Blue:       blue,
		Red:        red,
		BluePoints: len(bluePts),
		RedPoints:  len(redPts),
		Summary:    summarize(blue, red),
		Timings: Timings{
			Points:     pointsDone.Sub(start),
			Clusterize: end.Sub(pointsDone),
			Total:      end.Sub(start),
		},
	}

	logger.Info("detection complete",
		zap.Int("width", r.Width),
		zap.Int("height", r.Height),
		zap.Int("scale", d.opts.Scale),
		zap.Int("blue_points", det.BluePoints),
		zap.Int("red_points", det.RedPoints),
		zap.Int("blue_pieces", det.Summary.BluePieces),
		zap.Int("red_pieces", det.Summary.RedPieces),
		zap.Duration("points", det.Timings.Points),
		zap.Duration("clusterize", det.Timings.Clusterize))

	return det, nil
}

func summarize(blue, red []ClusterResult) Summary {
	s := Summary{BluePieces: len(blue), RedPieces: len(red)}
	for _, c := range blue {
		if c.King {
			s.BlueKings++
		}
	}
	for _, c := range red {
		if c.King {
			s.RedKings++
		}
	}
	return s
}

// Markers converts a detection into annotation markers: blue pieces in
// blueHex, red pieces in redHex, labelled "B"/"R" with a "K" suffix for
// kings.
func (det *Detection) Markers(blueHex, redHex string) []imaging.Marker {
	markers := make([]imaging.Marker, 0, len(det.Blue)+len(det.Red))
	add := func(cs []ClusterResult, side, hex string) {
		for _, c := range cs {
			label := side
			if c.King {
				label += "K"
			}
			markers = append(markers, imaging.Marker{X: c.Col, Y: c.Row, Label: label, Color: hex})
		}
	}
	add(det.Blue, "B", blueHex)
	add(det.Red, "R", redHex)
	return markers
}
