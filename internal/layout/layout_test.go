package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStandard(t *testing.T) {
	v, err := Resolve("standard")
	require.NoError(t, err)
	assert.Equal(t, Standard, v)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard")
}

func TestRegisterCustomVariant(t *testing.T) {
	custom := Variant{
		Name:             "wide-serial",
		SerialWidthFrac:  0.3,
		SerialHeightFrac: 0.2,
		InfoWidthFrac:    0.6,
	}
	Register(custom)
	t.Cleanup(func() { delete(registry, custom.Name) })

	v, err := Resolve("wide-serial")
	require.NoError(t, err)
	assert.Equal(t, custom, v)
}

func TestSegmentGeometry(t *testing.T) {
	regions := Standard.Segment(400, 200)
	require.Len(t, regions, 3)

	serial := regions[KindSerial]
	epic := regions[KindEPIC]
	info := regions[KindInfo]

	// Serial occupies the top-left corner.
	assert.Equal(t, 0, serial.X)
	assert.Equal(t, 0, serial.Y)
	assert.Equal(t, 72, serial.W)  // 0.18 * 400
	assert.Equal(t, 44, serial.H)  // 0.22 * 200

	// EPIC fills the rest of the top strip.
	assert.Equal(t, serial.W, epic.X)
	assert.Equal(t, 400-serial.W, epic.W)
	assert.Equal(t, serial.H, epic.H)

	// Info sits below the strip, leaving the photo column out.
	assert.Equal(t, serial.H, info.Y)
	assert.Equal(t, 268, info.W) // 0.67 * 400
	assert.Equal(t, 200-serial.H, info.H)
}

func TestSegmentRegionsDisjoint(t *testing.T) {
	regions := Standard.Segment(333, 177) // odd sizes
	serial := regions[KindSerial]
	epic := regions[KindEPIC]
	info := regions[KindInfo]

	// Top strip and info block never overlap vertically.
	assert.Equal(t, serial.Y+serial.H, info.Y)
	// Serial and EPIC never overlap horizontally.
	assert.Equal(t, serial.X+serial.W, epic.X)
}

func TestSegmentDeterministic(t *testing.T) {
	a := Standard.Segment(400, 200)
	b := Standard.Segment(400, 200)
	assert.Equal(t, a, b)
}
