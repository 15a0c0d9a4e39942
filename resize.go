package gamutcheck

import (
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
)

// ScaleOptions controls Scale.
type ScaleOptions struct {
	// Smooth is the interpolation used when Scale is asked to interpolate.
	Smooth Interpolation
	// Rounding turns width*factor into an integer dimension.
	Rounding RoundingRule
}

// ScaledSize returns the output length of a dimension scaled by factor.
// The result is never below 1 and saturates at math.MaxInt32.
func ScaledSize(n int, factor float64, rule RoundingRule) int {
	v := float64(n) * factor
	var out float64
	switch rule {
	case RoundDown:
		out = math.Floor(v)
	case RoundUp:
		out = math.Ceil(v)
	default:
		out = math.Floor(v + 0.5)
	}
	if out < 1 {
		return 1
	}
	if out > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(out)
}

// Scale resamples img by the given factors. Without interpolation every output
// pixel is copied from the nearest source pixel, otherwise opts.Smooth
// (bicubic by default) is used.
// The color model of img is preserved.
func Scale(img *Raster, factorX, factorY float64, interpolate bool, opts ...func(o *ScaleOptions)) (*Raster, error) {
	if !(factorX > 0) || !(factorY > 0) || math.IsInf(factorX, 0) || math.IsInf(factorY, 0) {
		return nil, fmt.Errorf("%w: scale factors %v x %v", ErrInvalidDimensions, factorX, factorY)
	}

	opt := ScaleOptions{
		Smooth:   InterpolationBicubic,
		Rounding: RoundHalfUp,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	interp := InterpolationNearest
	if interpolate {
		interp = opt.Smooth
	}

	w := ScaledSize(img.Width, factorX, opt.Rounding)
	h := ScaledSize(img.Height, factorY, opt.Rounding)
	if w == img.Width && h == img.Height {
		return img.Clone(), nil
	}
	if err := checkSize(w, h, img.Model.Components); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}

	out, err := NewRaster(w, h, img.Model)
	if err != nil {
		return nil, err
	}

	if interp == InterpolationNearest {
		if err := nearestScale(out, img); err != nil {
			return nil, fmt.Errorf("scale: %w", err)
		}
		return out, nil
	}

	scaled := resize.Resize(uint(w), uint(h), packImage(img), resizeInterpolation(interp))
	if err := unpackImage(scaled, out); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return out, nil
}

// nearestScale picks for every destination pixel the source pixel at
// x*srcW/dstW, y*srcH/dstH. Output samples are always samples of src.
func nearestScale(dst, src *Raster) error {
	sw, sh := src.Width, src.Height
	dw, dh := dst.Width, dst.Height
	px := make([]int, src.Model.Components)
	for y := 0; y < dh; y++ {
		sy := int(int64(y) * int64(sh) / int64(dh))
		for x := 0; x < dw; x++ {
			sx := int(int64(x) * int64(sw) / int64(dw))
			if err := dst.SetPixel(x, y, src.Pixel(sx, sy, px)); err != nil {
				return err
			}
		}
	}
	return nil
}

func resizeInterpolation(interp Interpolation) resize.InterpolationFunction {
	switch interp {
	case InterpolationBilinear:
		return resize.Bilinear
	case InterpolationBicubic:
		return resize.Bicubic
	case InterpolationMitchellNetravali:
		return resize.MitchellNetravali
	case InterpolationLanczos2:
		return resize.Lanczos2
	case InterpolationLanczos3:
		return resize.Lanczos3
	default:
		return resize.Bicubic
	}
}

// packImage stores raw components in the channels of an RGBA image of the
// same precision. Channels are filtered independently, so premultiplication
// semantics of the image type do not matter here.
func packImage(img *Raster) image.Image {
	nc := img.Model.ColorComponents()
	px := make([]int, img.Model.Components)
	rect := image.Rect(0, 0, img.Width, img.Height)

	if img.Model.Transfer == TransferUShort {
		dst := image.NewRGBA64(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				px = img.Pixel(x, y, px)
				i := dst.PixOffset(x, y)
				for c := 0; c < 4; c++ {
					v := 0xFFFF
					if c < nc || img.Model.HasAlpha {
						v = px[c]
					}
					dst.Pix[i+2*c] = uint8(v >> 8)
					dst.Pix[i+2*c+1] = uint8(v)
				}
			}
		}
		return dst
	}

	dst := image.NewRGBA(rect)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px = img.Pixel(x, y, px)
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				v := 0xFF
				if c < nc || img.Model.HasAlpha {
					v = px[c]
				}
				dst.Pix[i+c] = uint8(v)
			}
		}
	}
	return dst
}

func unpackImage(src image.Image, out *Raster) error {
	b := src.Bounds()
	if b.Dx() != out.Width || b.Dy() != out.Height {
		return fmt.Errorf("%w: resampled to %dx%d, want %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy(), out.Width, out.Height)
	}
	n := out.Model.Components
	px := make([]int, n)
	t := out.Model.Transfer

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			var ch [4]int
			switch s := src.(type) {
			case *image.RGBA:
				i := s.PixOffset(b.Min.X+x, b.Min.Y+y)
				for c := 0; c < 4; c++ {
					ch[c] = requantize(int(s.Pix[i+c]), TransferByte, t)
				}
			case *image.RGBA64:
				i := s.PixOffset(b.Min.X+x, b.Min.Y+y)
				for c := 0; c < 4; c++ {
					ch[c] = requantize(int(s.Pix[i+2*c])<<8|int(s.Pix[i+2*c+1]), TransferUShort, t)
				}
			default:
				r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				for c, v := range [4]uint32{r, g, bl, a} {
					if t == TransferByte {
						ch[c] = int(v >> 8)
					} else {
						ch[c] = int(v)
					}
				}
			}
			copy(px, ch[:n])
			if err := out.SetPixel(x, y, px); err != nil {
				return err
			}
		}
	}
	return nil
}
