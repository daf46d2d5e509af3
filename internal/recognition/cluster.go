package recognition

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ClusterResult is a validated piece.
type ClusterResult struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Blue bool `json:"blue"`
	King bool `json:"king"`

	// Votes is the number of sample points in the cluster, Yellow how many
	// of them were yellow.
	Votes  int `json:"votes"`
	Yellow int `json:"yellow"`

	// Spread is the standard deviation of the member points' distance from
	// the centroid, in pixels. A tight round piece has a small spread.
	Spread float64 `json:"spread"`
}

// Cluster accumulates nearby compatible sample points.
//
// Points, coordinate sums, color tallies and the bounding box are updated
// together by AddPoint. The zero value is not usable; create clusters with
// NewCluster.
type Cluster struct {
	params Params

	points            []SamplePoint
	rowSum, colSum    int
	blue, red, yellow int

	minRow, maxRow int
	minCol, maxCol int

	finalized bool
	valid     bool
	result    ClusterResult
}

// NewCluster returns an empty cluster using p's linkage and validation
// thresholds.
func NewCluster(p Params) *Cluster {
	return &Cluster{params: p}
}

// AddPoint appends pt unconditionally.
func (c *Cluster) AddPoint(pt SamplePoint) {
	if len(c.points) == 0 {
		c.minRow, c.maxRow = pt.Row, pt.Row
		c.minCol, c.maxCol = pt.Col, pt.Col
	} else {
		c.minRow = min(c.minRow, pt.Row)
		c.maxRow = max(c.maxRow, pt.Row)
		c.minCol = min(c.minCol, pt.Col)
		c.maxCol = max(c.maxCol, pt.Col)
	}

	c.points = append(c.points, pt)
	c.rowSum += pt.Row
	c.colSum += pt.Col

	switch pt.Color {
	case Blue:
		c.blue++
	case Red:
		c.red++
	default:
		c.yellow++
	}
}

// Matches reports whether some member is color-compatible with pt and lies
// strictly inside the linkage radius. It never modifies the cluster; callers
// add the point themselves.
func (c *Cluster) Matches(pt SamplePoint) bool {
	if len(c.points) == 0 || !c.nearBounds(pt) {
		return false
	}
	for _, q := range c.points {
		if !Compatible(q.Color, pt.Color) {
			continue
		}
		dr := q.Row - pt.Row
		dc := q.Col - pt.Col
		if dr*dr+dc*dc < c.params.MaxDistanceSquared {
			return true
		}
	}
	return false
}

// nearBounds is a cheap pre-check: a point farther than the linkage radius
// from the members' bounding box cannot match any member.
func (c *Cluster) nearBounds(pt SamplePoint) bool {
	dr := 0
	if pt.Row < c.minRow {
		dr = c.minRow - pt.Row
	} else if pt.Row > c.maxRow {
		dr = pt.Row - c.maxRow
	}
	dc := 0
	if pt.Col < c.minCol {
		dc = c.minCol - pt.Col
	} else if pt.Col > c.maxCol {
		dc = pt.Col - c.maxCol
	}
	return dr*dr+dc*dc < c.params.MaxDistanceSquared
}

// Len returns the number of points in the cluster.
func (c *Cluster) Len() int { return len(c.points) }

// Tallies returns the blue, red and yellow point counts.
func (c *Cluster) Tallies() (blue, red, yellow int) {
	return c.blue, c.red, c.yellow
}

// Finalize decides whether the cluster is a piece and computes its centroid,
// side and king flag. Later calls return the first verdict.
//
// A cluster is rejected when it has fewer than MinPoints points, or when its
// dominant color has fewer than MinColorPoints points. Red dominates only
// with strictly more points than blue; ties are blue.
func (c *Cluster) Finalize() bool {
	if c.finalized {
		return c.valid
	}
	c.finalized = true

	total := c.blue + c.red + c.yellow
	if total < c.params.MinPoints || total == 0 {
		return false
	}

	isBlue := true
	if c.red > c.blue {
		isBlue = false
		if c.red < c.params.MinColorPoints {
			return false
		}
	} else if c.blue < c.params.MinColorPoints {
		return false
	}

	row := c.rowSum / total
	col := c.colSum / total

	c.result = ClusterResult{
		Row:    row,
		Col:    col,
		Blue:   isBlue,
		King:   c.yellow > c.params.KingYellowPoints,
		Votes:  total,
		Yellow: c.yellow,
		Spread: c.spread(row, col),
	}
	c.valid = true
	return true
}

// Result returns the finalized piece. ok is false until Finalize has
// accepted the cluster.
func (c *Cluster) Result() (r ClusterResult, ok bool) {
	if !c.valid {
		return ClusterResult{}, false
	}
	return c.result, true
}

func (c *Cluster) spread(row, col int) float64 {
	if len(c.points) < 2 {
		return 0
	}
	d := make([]float64, len(c.points))
	for i, p := range c.points {
		d[i] = math.Hypot(float64(p.Row-row), float64(p.Col-col))
	}
	return math.Round(stat.StdDev(d, nil)*100) / 100
}
