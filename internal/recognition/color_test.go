package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumsOf(px [3]int64, area int) BlockSums {
	n := int64(area)
	return BlockSums{R: px[0] * n, G: px[1] * n, B: px[2] * n}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		px   [3]int64
		want ColorTag
	}{
		{"pure blue", [3]int64{0, 0, 255}, Blue},
		{"pure red", [3]int64{255, 0, 0}, Red},
		{"pure yellow", [3]int64{255, 255, 0}, Yellow},
		{"gray", [3]int64{128, 128, 128}, None},
		{"white", [3]int64{255, 255, 255}, None},
		{"black", [3]int64{0, 0, 0}, None},
		{"green", [3]int64{0, 255, 0}, None},
		{"blue at cutoff", [3]int64{0, 0, 160}, None},
		{"blue just over cutoff", [3]int64{0, 0, 161}, Blue},
		{"yellow at cutoff", [3]int64{160, 160, 0}, None},
		{"yellow just over cutoff", [3]int64{162, 160, 0}, Yellow},
		{"orange is red before yellow", [3]int64{255, 70, 0}, Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, area := range []int{1, 4, 16} {
				got := Classify(sumsOf(tt.px, area), area, 160)
				assert.Equal(t, tt.want, got, "area %d", area)
			}
		})
	}
}

func TestClassify_MixedBlock(t *testing.T) {
	// Half blue, half gray: per-pixel average 63.5 is far below the cutoff.
	s := BlockSums{R: 8 * 128, G: 8 * 128, B: 8*255 + 8*128}
	assert.Equal(t, None, Classify(s, 16, 160))
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(Blue, Blue))
	assert.True(t, Compatible(Red, Red))
	assert.True(t, Compatible(Yellow, Blue))
	assert.True(t, Compatible(Red, Yellow))
	assert.True(t, Compatible(Yellow, Yellow))
	assert.False(t, Compatible(Blue, Red))
	assert.False(t, Compatible(Red, Blue))
}

func TestColorTag_String(t *testing.T) {
	assert.Equal(t, "blue", Blue.String())
	assert.Equal(t, "red", Red.String())
	assert.Equal(t, "yellow", Yellow.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "ColorTag(9)", ColorTag(9).String())

	b, err := Yellow.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "yellow", string(b))
}
