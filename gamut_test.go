package gamutcheck

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wideGamutRaster returns a 16x16 Display P3 raster holding pure P3 red in the
// top-left quadrant and the P3 encoding of sRGB red everywhere else.
func wideGamutRaster(t *testing.T, tt TransferType, hasAlpha bool) *Raster {
	t.Helper()

	scale := 1
	if tt == TransferUShort {
		scale = 257
	}
	cm := mustModel(t, NewICCProfile([]byte("Display P3")), hasAlpha, false, tt)

	return fillRaster(t, 16, 16, cm, func(x, y int) []int {
		px := []int{234 * scale, 51 * scale, 35 * scale}
		if x < 8 && y < 8 {
			px = []int{255 * scale, 0, 0}
		}
		if hasAlpha {
			px = append(px, tt.MaxValue())
		}
		return px
	})
}

func TestSample(t *testing.T) {
	img := wideGamutRaster(t, TransferByte, false)

	s, err := Sample(img)
	require.NoError(t, err)

	assert.Equal(t, 5, s.TopLeft.X)
	assert.Equal(t, 5, s.TopLeft.Y)
	assert.Equal(t, 11, s.BottomRight.X)
	assert.Equal(t, 11, s.BottomRight.Y)
	assert.Equal(t, 255, s.TopLeft.Raw)
	assert.Equal(t, 234, s.BottomRight.Raw)
	assert.Equal(t, 255, s.TopLeft.Display)
	assert.Equal(t, 255, s.BottomRight.Display)
	assert.Equal(t, []int{234, 51, 35}, s.BottomRight.RawPixel)
}

func TestSample_tooSmall(t *testing.T) {
	cm := mustModel(t, StandardRGB(), false, false, TransferByte)

	for _, size := range [][2]int{{5, 5}, {5, 100}, {100, 5}, {1, 1}} {
		img := fillRaster(t, size[0], size[1], cm, func(int, int) []int { return []int{0, 0, 0} })
		_, err := Sample(img)
		assert.ErrorIs(t, err, ErrRasterTooSmall, "%dx%d", size[0], size[1])
	}

	img := fillRaster(t, 6, 6, cm, func(x, y int) []int { return []int{x, y, 0} })
	s, err := Sample(img)
	require.NoError(t, err)
	assert.Equal(t, 5, s.TopLeft.Raw)
	assert.Equal(t, 1, s.BottomRight.Raw)
}

func TestClassify(t *testing.T) {
	sample := func(rawTL, rawBR, dispTL, dispBR int) GamutSample {
		return GamutSample{
			TopLeft:     SamplePoint{Raw: rawTL, Display: dispTL},
			BottomRight: SamplePoint{Raw: rawBR, Display: dispBR},
		}
	}

	// Raw equality wins over differing display values.
	assert.Equal(t, Saturated, Classify(sample(255, 255, 255, 200)))
	assert.Equal(t, Saturated, Classify(sample(10, 10, 10, 10)))
	assert.Equal(t, Translated, Classify(sample(255, 234, 255, 234)))
	assert.Equal(t, Preserved, Classify(sample(255, 234, 255, 255)))

	assert.Equal(t, Translated, ClassifyTransform(sample(1, 1, 1, 1), sample(255, 234, 255, 234)))

	assert.Equal(t, "saturated", Saturated.String())
	assert.Equal(t, "translated", Translated.String())
	assert.Equal(t, "preserved", Preserved.String())
}

func TestDisplayRGB_premultiplied(t *testing.T) {
	img := fillRaster(t, 1, 1, mustModel(t, StandardRGB(), true, true, TransferByte), func(int, int) []int {
		return []int{100, 50, 0, 128}
	})

	rgb := DisplayRGB(img, 0, 0)
	assert.InDelta(t, 199, rgb[0], 1)
	assert.InDelta(t, 100, rgb[1], 1)
	assert.Equal(t, 0, rgb[2])
}

func TestGamutOutcomes(t *testing.T) {
	for _, tc := range []struct {
		name  string
		tt    TransferType
		alpha bool
		steps []Step
		want  Outcome
	}{
		{name: "untouched", tt: TransferByte, want: Preserved},
		{name: "blur", tt: TransferByte, steps: []Step{BlurStep()}, want: Preserved},
		{name: "scale up", tt: TransferByte, alpha: true, steps: []Step{ScaleStep(2, 2, false, RoundHalfUp)}, want: Preserved},
		{name: "reduce", tt: TransferUShort, steps: []Step{ReduceTo8BitStep(false)}, want: Preserved},
		{name: "reduce view", tt: TransferUShort, alpha: true, steps: []Step{ReduceTo8BitStep(true)}, want: Preserved},
		{name: "drop alpha", tt: TransferUShort, alpha: true, steps: []Step{DropAlphaStep()}, want: Preserved},
		{name: "srgb", tt: TransferUShort, steps: []Step{StandardRGB8Step()}, want: Saturated},
		{name: "srgb channels", tt: TransferByte, alpha: true, steps: []Step{ColorChannelsStep(nil, StandardRGB())}, want: Saturated},
		{name: "reduce view then srgb", tt: TransferUShort, steps: []Step{ReduceTo8BitStep(true), StandardRGB8Step()}, want: Saturated},
		{name: "assign srgb", tt: TransferByte, steps: []Step{AssignProfileStep(StandardRGB())}, want: Translated},
		{name: "explicit pair", tt: TransferByte, steps: []Step{
			ConvertProfilesStep(NewICCProfile([]byte("Display P3")), StandardRGB()),
		}, want: Saturated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewPipeline(nil, tc.steps...).Run(wideGamutRaster(t, tc.tt, tc.alpha))
			require.NoError(t, err)
			require.True(t, res.Sampled)
			assert.Equal(t, Preserved, Classify(res.Before))
			assert.Equal(t, tc.want, res.Outcome, res.Outcome.String())
		})
	}
}

func TestAnalyzer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	a := NewAnalyzer(logger)
	img := wideGamutRaster(t, TransferByte, false)

	s, o, err := a.Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, Preserved, o)
	assert.Equal(t, 255, s.TopLeft.Raw)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, "image colorspace", entries[0].Message)
	assert.Equal(t, "ICC Display P3 (matrix)", entries[0].Data["profile"])
	assert.Equal(t, "gamut sample", entries[1].Message)
	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
	assert.Equal(t, "color profile was preserved", hook.LastEntry().Message)
	assert.Equal(t, "preserved", hook.LastEntry().Data["outcome"])

	hook.Reset()
	after, err := Sample(img.WithProfile(StandardRGB()))
	require.NoError(t, err)
	assert.Equal(t, Translated, a.Compare(s, after))
	assert.Equal(t, "color gamut was translated", hook.LastEntry().Message)

	small := fillRaster(t, 3, 3, img.Model, func(int, int) []int { return []int{1, 2, 3} })
	_, _, err = a.Analyze(small)
	assert.ErrorIs(t, err, ErrRasterTooSmall)
}
