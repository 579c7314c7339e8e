package detector

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollscan/rollscan/internal/testutil"
	"github.com/rollscan/rollscan/internal/utils"
)

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	return d
}

func TestDetectBoxesOnSyntheticPage(t *testing.T) {
	voters := testutil.SampleVoters(6)
	img, drawn := testutil.GeneratePage(testutil.DefaultPageConfig(), voters)
	require.Len(t, drawn, 6)

	d := newTestDetector(t)
	page, regions, err := d.DetectBoxes(img)
	require.NoError(t, err)
	require.NotNil(t, page)
	require.Len(t, regions, 6)

	// Detected rectangles line up with the drawn ones (reading order).
	for i, r := range regions {
		assert.Greater(t, utils.IoU(r.Box, drawn[i]), 0.9, "box %d", i)
	}
}

func TestDetectBoxesEmptyPage(t *testing.T) {
	d := newTestDetector(t)
	page, regions, err := d.DetectBoxes(whitePage(640, 480))
	assert.ErrorIs(t, err, ErrNoBoxes)
	assert.NotNil(t, page, "binary page still returned")
	assert.Empty(t, regions)
}

func TestDetectBoxesNilImage(t *testing.T) {
	d := newTestDetector(t)
	_, _, err := d.DetectBoxes(nil)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestBinarizeZeroArea(t *testing.T) {
	_, err := Binarize(image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultConfig())
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestBinarizeInvertsInk(t *testing.T) {
	img := whitePage(50, 50)
	for y := 10; y < 20; y++ {
		for x := 10; x < 30; x++ {
			img.Set(x, y, image.Black.C)
		}
	}

	page, err := Binarize(img, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 50, page.Width)

	// Dark pixels are foreground, paper is background. The median pass
	// erodes the rectangle corners slightly.
	assert.True(t, page.Mask[15*50+15])
	assert.False(t, page.Mask[5*50+5])
	count := page.ForegroundCount()
	assert.GreaterOrEqual(t, count, 190)
	assert.LessOrEqual(t, count, 200)
}

func TestFilterPlausible(t *testing.T) {
	cfg := DefaultConfig()
	boxes := []utils.Box{
		{X: 0, Y: 0, W: 300, H: 150},  // valid
		{X: 0, Y: 0, W: 10, H: 5},     // too small
		{X: 0, Y: 0, W: 3000, H: 200}, // too wide
		{X: 0, Y: 0, W: 130, H: 130},  // aspect too square
		{X: 0, Y: 0, W: 2000, H: 100}, // aspect too flat
	}
	kept := filterPlausible(boxes, cfg)
	require.Len(t, kept, 1)
	assert.Equal(t, 300, kept[0].W)
}

func TestMergeOverlappingKeepsLarger(t *testing.T) {
	big := utils.Box{X: 0, Y: 0, W: 200, H: 100}
	nested := utils.Box{X: 10, Y: 10, W: 120, H: 70}
	separate := utils.Box{X: 500, Y: 0, W: 200, H: 100}

	merged := mergeOverlapping([]utils.Box{nested, big, separate}, 0.3)
	require.Len(t, merged, 2)
	assert.Contains(t, merged, big)
	assert.Contains(t, merged, separate)
}

func TestSortReadingOrder(t *testing.T) {
	// Two rows with slight vertical jitter, deliberately shuffled.
	r1c1 := utils.Box{X: 0, Y: 0, W: 100, H: 50}
	r1c2 := utils.Box{X: 120, Y: 4, W: 100, H: 50}
	r1c3 := utils.Box{X: 240, Y: 2, W: 100, H: 50}
	r2c1 := utils.Box{X: 0, Y: 80, W: 100, H: 50}
	r2c2 := utils.Box{X: 120, Y: 84, W: 100, H: 50}

	got := sortReadingOrder([]utils.Box{r2c2, r1c3, r1c1, r2c1, r1c2}, 0.5)
	assert.Equal(t, []utils.Box{r1c1, r1c2, r1c3, r2c1, r2c2}, got)
}

func TestMaxBoxesCapKeepsLargest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBoxes = 2

	voters := testutil.SampleVoters(6)
	img, _ := testutil.GeneratePage(testutil.DefaultPageConfig(), voters)

	d, err := New(cfg)
	require.NoError(t, err)
	_, regions, err := d.DetectBoxes(img)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.MinWidth = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MaxAspect = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MergeThreshold = 1.5
	assert.Error(t, bad.Validate())
}
