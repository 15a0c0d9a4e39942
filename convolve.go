package gamutcheck

import "math"

// Kernel is a small convolution kernel with its origin at the top-left weight.
type Kernel struct {
	Width   int
	Height  int
	Weights []float64 // row-major
}

// BoxKernel2x2 averages a 2x2 neighborhood.
var BoxKernel2x2 = Kernel{Width: 2, Height: 2, Weights: []float64{0.25, 0.25, 0.25, 0.25}}

// Blur applies BoxKernel2x2 to every component, alpha included.
func Blur(img *Raster) (*Raster, error) {
	return Convolve(img, BoxKernel2x2)
}

// Convolve filters img with k. Pixels whose neighborhood would extend past
// the raster bounds are copied unchanged. The output has the same size,
// color model and profile as img.
func Convolve(img *Raster, k Kernel) (*Raster, error) {
	out, err := NewRaster(img.Width, img.Height, img.Model)
	if err != nil {
		return nil, err
	}

	n := img.Model.Components
	px := make([]int, n)
	nb := make([]int, n)
	sum := make([]float64, n)
	maxV := img.Model.Transfer.MaxValue()

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if x+k.Width > img.Width || y+k.Height > img.Height {
				if err := out.SetPixel(x, y, img.Pixel(x, y, px)); err != nil {
					return nil, err
				}
				continue
			}

			for c := range sum {
				sum[c] = 0
			}
			for ky := 0; ky < k.Height; ky++ {
				for kx := 0; kx < k.Width; kx++ {
					w := k.Weights[ky*k.Width+kx]
					nb = img.Pixel(x+kx, y+ky, nb)
					for c := 0; c < n; c++ {
						sum[c] += w * float64(nb[c])
					}
				}
			}
			for c := 0; c < n; c++ {
				px[c] = clamp(int(math.Floor(sum[c]+0.5)), 0, maxV)
			}
			if err := out.SetPixel(x, y, px); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
