package gamutcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlur(t *testing.T) {
	p3 := NewICCProfile([]byte("Display P3"))
	img := fillRaster(t, 3, 3, mustModel(t, p3, false, false, TransferByte), func(x, y int) []int {
		return []int{10 * (y*3 + x), 0, 255}
	})

	out, err := Blur(img)
	require.NoError(t, err)

	assert.Equal(t, img.Model, out.Model)
	assert.Equal(t, 3, out.Width)
	assert.Equal(t, 3, out.Height)

	red := make([]int, 0, 9)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			red = append(red, out.Sample(x, y, 0))
			assert.Equal(t, 0, out.Sample(x, y, 1))
			assert.Equal(t, 255, out.Sample(x, y, 2))
		}
	}

	// Last row and column pass through.
	assert.Equal(t, []int{
		20, 30, 20,
		50, 60, 50,
		60, 70, 80,
	}, red)
}

func TestBlur_roundingAndAlpha(t *testing.T) {
	cm := mustModel(t, StandardRGB(), true, false, TransferByte)
	img := fillRaster(t, 2, 2, cm, func(x, y int) []int {
		v := 0
		if y == 1 {
			v = 1
		}
		a := 255
		if x == 0 && y == 0 {
			a = 0
		}
		return []int{v, 2 * v, 0, a}
	})

	out, err := Blur(img)
	require.NoError(t, err)

	// (0+0+1+1)/4 rounds half up, alpha is filtered too.
	assert.Equal(t, []int{1, 1, 0, 191}, out.Pixel(0, 0, nil))
	assert.Equal(t, img.Pixel(1, 1, nil), out.Pixel(1, 1, nil))
}

func TestBlur_edges(t *testing.T) {
	cm := mustModel(t, StandardRGB(), false, false, TransferUShort)

	single := fillRaster(t, 1, 1, cm, func(int, int) []int { return []int{1, 2, 3} })
	out, err := Blur(single)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out.Pixel(0, 0, nil))

	row := fillRaster(t, 4, 1, cm, func(x, _ int) []int { return []int{x, x, x} })
	out, err = Blur(row)
	require.NoError(t, err)
	for x := 0; x < 4; x++ {
		assert.Equal(t, []int{x, x, x}, out.Pixel(x, 0, nil))
	}
}

func TestConvolve_customKernel(t *testing.T) {
	cm := mustModel(t, StandardRGB(), false, false, TransferByte)
	img := fillRaster(t, 3, 1, cm, func(x, _ int) []int { return []int{200, 100, 10 * x} })

	double := Kernel{Width: 1, Height: 1, Weights: []float64{2}}
	out, err := Convolve(img, double)
	require.NoError(t, err)

	assert.Equal(t, []int{255, 200, 40}, out.Pixel(2, 0, nil))
}
