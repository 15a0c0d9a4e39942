package gamutcheck

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("8bit, 8bit-view,srgb,srgb-channels,noalpha,blur,scale=2x3,smooth-scale=0.5", DefaultConfig())
	require.NoError(t, err)

	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"reduce to 8 bit",
		"reduce to 8 bit (view)",
		"convert to sRGB 8 bit",
		"convert color channels to sRGB (standard)",
		"drop alpha",
		"blur",
		"scale 2x3",
		"scale 0.5x0.5 interpolated",
	}, names)

	steps, err = ParseSteps("", DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, steps)

	_, err = ParseSteps("sharpen", DefaultConfig())
	assert.Error(t, err)

	_, err = ParseSteps("scale=ax2", DefaultConfig())
	assert.Error(t, err)

	_, err = ParseSteps("scale=0x1", DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestParseSteps_rounding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rounding = RoundDown

	steps, err := ParseSteps("scale=0.25", cfg)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	img := fillRaster(t, 10, 10, mustModel(t, StandardRGB(), false, false, TransferByte), func(int, int) []int {
		return []int{1, 2, 3}
	})
	out, err := steps[0].Apply(img)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width)
}

func TestPipeline_Run(t *testing.T) {
	var logs bytes.Buffer

	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogOutput = &logs
	log, err := cfg.NewLogger()
	require.NoError(t, err)

	steps, err := ParseSteps("8bit,srgb", cfg)
	require.NoError(t, err)

	res, err := NewPipeline(log, steps...).Run(wideGamutRaster(t, TransferUShort, true))
	require.NoError(t, err)

	assert.True(t, res.Sampled)
	assert.Equal(t, Saturated, res.Outcome)
	assert.Equal(t, 255, res.Before.TopLeft.Raw>>8)
	assert.Equal(t, TransferByte, res.Image.Model.Transfer)
	assert.True(t, res.Image.Model.Profile.IsStandardRGB())
	assert.True(t, res.Image.Model.HasAlpha)

	out := logs.String()
	assert.Contains(t, out, "applying reduce to 8 bit")
	assert.Contains(t, out, "applying convert to sRGB 8 bit")
	assert.Contains(t, out, "gamut sample")
	assert.Contains(t, out, "color gamut is saturated sRGB")
}

func TestPipeline_stepFailure(t *testing.T) {
	img := wideGamutRaster(t, TransferByte, false)

	_, err := NewPipeline(nil, BlurStep(), ReduceTo8BitStep(false)).Run(img)
	assert.ErrorIs(t, err, ErrUnsupportedTransferType)
	assert.Contains(t, err.Error(), "reduce to 8 bit")
}

func TestPipeline_small(t *testing.T) {
	img := fillRaster(t, 4, 4, mustModel(t, StandardRGB(), false, false, TransferByte), func(x, y int) []int {
		return []int{x * 60, y * 60, 0}
	})

	res, err := NewPipeline(nil, BlurStep()).Run(img)
	require.NoError(t, err)
	assert.False(t, res.Sampled)
	assert.Equal(t, 4, res.Image.Width)

	// Growing past the probe inset makes the result sampleable.
	res, err = NewPipeline(nil, ScaleStep(2, 2, false, RoundHalfUp)).Run(img)
	require.NoError(t, err)
	assert.True(t, res.Sampled)
	assert.Equal(t, Translated, res.Outcome)
}

func TestNewStep(t *testing.T) {
	var called bool
	s := NewStep("custom", func(img *Raster) (*Raster, error) {
		called = true
		return img, nil
	})

	res, err := NewPipeline(nil, s).Run(wideGamutRaster(t, TransferByte, false))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "custom", s.Name())
	assert.Equal(t, Preserved, res.Outcome)
}

func TestPipeline_colorChannelsAfterView(t *testing.T) {
	steps, err := ParseSteps("8bit-view,srgb-channels", DefaultConfig())
	require.NoError(t, err)

	img := wideGamutRaster(t, TransferUShort, true)
	res, err := NewPipeline(nil, steps...).Run(img)
	require.NoError(t, err)

	assert.False(t, res.Image.ReadOnly())
	assert.True(t, res.Image.Model.Profile.IsStandardRGB())
	assert.Equal(t, TransferByte, res.Image.Model.Transfer)
	assert.Equal(t, Saturated, res.Outcome)

	// The 16-bit source is not touched.
	assert.Equal(t, 234*257, img.Sample(11, 11, 0))
}
