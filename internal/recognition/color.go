package recognition

import "fmt"

// ColorTag is the color a block was classified as.
type ColorTag uint8

const (
	// None marks a block that matched no piece color. It never appears in a
	// SamplePoint.
	None ColorTag = iota
	Blue
	Red
	// Yellow marks a king ring. Yellow points belong to neither side and are
	// compatible with both.
	Yellow
)

func (c ColorTag) String() string {
	switch c {
	case None:
		return "none"
	case Blue:
		return "blue"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return fmt.Sprintf("ColorTag(%d)", uint8(c))
}

// MarshalText encodes the tag by name so points serialize readably.
func (c ColorTag) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Compatible reports whether points of colors a and b may link into the same
// cluster: either one is Yellow, or they are the same color.
func Compatible(a, b ColorTag) bool {
	return a == Yellow || b == Yellow || a == b
}

// BlockSums holds the per-channel sums of one block of pixels.
type BlockSums struct {
	R, G, B int64
}

// Classify decides which piece color a block shows.
//
// With cutoff = cutoffPerPixel * area the block is
//   - Blue   if ΣB - ΣG - ΣR > cutoff
//   - Red    if ΣR - ΣG - ΣB > cutoff
//   - Yellow if (ΣR + ΣG)/2 - 2ΣB > cutoff
//   - None   otherwise
//
// checked in that order; the first match wins. The yellow test is evaluated
// doubled so it stays in integer arithmetic.
func Classify(s BlockSums, area int, cutoffPerPixel int64) ColorTag {
	cutoff := cutoffPerPixel * int64(area)

	switch {
	case s.B-s.G-s.R > cutoff:
		return Blue
	case s.R-s.G-s.B > cutoff:
		return Red
	case s.R+s.G-4*s.B > 2*cutoff:
		return Yellow
	}
	return None
}
