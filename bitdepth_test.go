package gamutcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceTo8Bit(t *testing.T) {
	cm := mustModel(t, NewICCProfile([]byte("Display P3")), true, false, TransferUShort)
	img := fillRaster(t, 3, 2, cm, func(x, y int) []int {
		return []int{0x1234 + x*0x100, 0xFFFF - y, 0x00FF, 0x8000}
	})

	eager, err := ReduceTo8Bit(img)
	require.NoError(t, err)
	view, err := ReduceTo8BitView(img)
	require.NoError(t, err)

	assert.Equal(t, []int{0x12, 0xFF, 0x00, 0x80}, eager.Pixel(0, 0, nil))
	assert.Equal(t, []int{0x14, 0xFF, 0x00, 0x80}, eager.Pixel(2, 1, nil))

	for _, out := range []*Raster{eager, view} {
		assert.Equal(t, TransferByte, out.Model.Transfer)
		assert.Equal(t, 8, out.Model.BitsPerComponent())
		assert.True(t, out.Model.Compatible(img.Model))
		assert.Same(t, img.Model.Profile, out.Model.Profile)
		assert.Equal(t, img.Width, out.Width)
		assert.Equal(t, img.Height, out.Height)
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			assert.Equal(t, eager.Pixel(x, y, nil), view.Pixel(x, y, nil))
		}
	}

	assert.False(t, eager.ReadOnly())
	assert.True(t, view.ReadOnly())
	assert.ErrorIs(t, view.SetSample(0, 0, 0, 1), ErrReadOnlyBuffer)
	assert.ErrorIs(t, view.SetPixel(0, 0, []int{1, 2, 3, 4}), ErrReadOnlyBuffer)

	// The view follows later writes to the source, the eager copy does not.
	require.NoError(t, img.SetSample(0, 0, 0, 0xAB00))
	assert.Equal(t, 0xAB, view.Sample(0, 0, 0))
	assert.Equal(t, 0x12, eager.Sample(0, 0, 0))
}

func TestReduceTo8Bit_notUShort(t *testing.T) {
	img := fillRaster(t, 2, 2, mustModel(t, StandardRGB(), false, false, TransferByte), func(int, int) []int {
		return []int{1, 2, 3}
	})

	_, err := ReduceTo8Bit(img)
	assert.ErrorIs(t, err, ErrUnsupportedTransferType)

	_, err = ReduceTo8BitView(img)
	assert.ErrorIs(t, err, ErrUnsupportedTransferType)
}

func TestReduceTo8BitView_convertReadOnly(t *testing.T) {
	img := fillRaster(t, 2, 2, mustModel(t, StandardRGB(), false, false, TransferUShort), func(int, int) []int {
		return []int{0x8000, 0x4000, 0x2000}
	})

	view, err := ReduceTo8BitView(img)
	require.NoError(t, err)

	// Reads through the view work as input of a conversion.
	out, err := ConvertToStandardRGB8(view)
	require.NoError(t, err)
	assert.Equal(t, []int{0x80, 0x40, 0x20}, out.Pixel(1, 1, nil))

	// In-place conversion needs writable storage.
	_, err = ConvertColorChannels(view, nil, NewICCProfile([]byte("Display P3")))
	assert.ErrorIs(t, err, ErrReadOnlyBuffer)
}
