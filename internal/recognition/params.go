package recognition

// Params are the calibration constants of the detector. The defaults were
// tuned on 1920×1088 photos of a board with blue and red pieces and yellow
// king rings.
type Params struct {
	// BaseBlockSize is the block side at scale 1. The effective block side
	// is BaseBlockSize / scale.
	BaseBlockSize int `yaml:"base_block_size" json:"base_block_size" validate:"min=1"`

	// CutoffPerPixel is the per-pixel score a block must exceed to be
	// classified as a color.
	CutoffPerPixel int64 `yaml:"cutoff_per_pixel" json:"cutoff_per_pixel" validate:"min=0"`

	// MaxDistanceSquared is the exclusive squared linkage radius in pixels.
	MaxDistanceSquared int `yaml:"max_distance_squared" json:"max_distance_squared" validate:"min=1"`

	// MinPoints is the smallest cluster, in points of any color, that can be
	// a piece.
	MinPoints int `yaml:"min_points" json:"min_points" validate:"min=1"`

	// MinColorPoints is the smallest number of points of the dominant side
	// color a piece needs.
	MinColorPoints int `yaml:"min_color_points" json:"min_color_points" validate:"min=0"`

	// KingYellowPoints is the yellow count a piece must exceed to be a king.
	KingYellowPoints int `yaml:"king_yellow_points" json:"king_yellow_points" validate:"min=0"`
}

// DefaultParams returns the standard calibration.
func DefaultParams() Params {
	return Params{
		BaseBlockSize:      4,
		CutoffPerPixel:     160,
		MaxDistanceSquared: 100,
		MinPoints:          5,
		MinColorPoints:     10,
		KingYellowPoints:   10,
	}
}
