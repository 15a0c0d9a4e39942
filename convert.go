package gamutcheck

import (
	"fmt"
)

// Convert maps the samples of img from src to dst profile.
//
// A nil src means the profile of img, a nil dst keeps the source profile and
// only changes the sample layout. When dstHint is nil a new raster of the
// source layout bound to dst is allocated; otherwise converted samples are
// written into dstHint, which must have the same size, component count and
// alpha flags as img. dstHint may alias img, including a ColorView of it.
func Convert(img *Raster, src, dst *Profile, dstHint *Raster) (*Raster, error) {
	if src == nil {
		src = img.Model.Profile
	}
	if dst == nil {
		dst = src
	}

	out := dstHint
	if out == nil {
		var err error
		if out, err = NewRaster(img.Width, img.Height, img.Model.WithProfile(dst)); err != nil {
			return nil, err
		}
	} else if err := checkLayout(img, out); err != nil {
		return nil, err
	}

	if err := convertInto(img, src, dst, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertToStandardRGB8 converts any raster into a new 8-bit standard RGB raster,
// keeping its alpha layout.
func ConvertToStandardRGB8(img *Raster) (*Raster, error) {
	cm := img.Model.WithProfile(StandardRGB()).WithTransfer(TransferByte)
	out, err := NewRaster(img.Width, img.Height, cm)
	if err != nil {
		return nil, err
	}
	if err := convertInto(img, img.Model.Profile, StandardRGB(), out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertProfiles converts img into a new raster using an explicit source and
// destination profile pair, ignoring the profile img currently carries.
func ConvertProfiles(img *Raster, src, dst *Profile) (*Raster, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: source and destination profiles required", ErrInvalidModel)
	}
	return Convert(img, src, dst, nil)
}

// ConvertColorChannels converts the color components of img in place from src
// to dst, leaving alpha samples untouched, and returns img reinterpreted under dst.
func ConvertColorChannels(img *Raster, src, dst *Profile) (*Raster, error) {
	if src == nil {
		src = img.Model.Profile
	}
	view := img.ColorView()
	if _, err := Convert(view, src, dst, view); err != nil {
		return nil, err
	}
	return img.WithProfile(dst), nil
}

func checkLayout(src, dst *Raster) error {
	if src.Width != dst.Width || src.Height != dst.Height {
		return fmt.Errorf("%w: size %dx%d, destination %dx%d",
			ErrIncompatibleLayout, src.Width, src.Height, dst.Width, dst.Height)
	}
	if src.Model.Components != dst.Model.Components || src.Model.HasAlpha != dst.Model.HasAlpha {
		return fmt.Errorf("%w: source components=%d alpha=%t, destination components=%d alpha=%t",
			ErrIncompatibleLayout, src.Model.Components, src.Model.HasAlpha,
			dst.Model.Components, dst.Model.HasAlpha)
	}
	return nil
}

// convertInto writes converted pixels of img into out. The out raster may have
// a different transfer type, premultiplication or lack the alpha component.
func convertInto(img *Raster, src, dst *Profile, out *Raster) error {
	inT, outT := img.Model.Transfer, out.Model.Transfer
	identity := src.Equal(dst)

	var srcXf, dstXf colorTransform
	if !identity {
		srcXf, dstXf = src.transform(), dst.transform()
	}

	nc := img.Model.ColorComponents()
	in := make([]int, img.Model.Components)
	px := make([]int, out.Model.Components)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			in = img.Pixel(x, y, in)

			alpha := 1.0
			if img.Model.HasAlpha {
				alpha = normalize(in[nc], inT)
			}

			var c [3]float64
			for i := 0; i < 3 && i < nc; i++ {
				c[i] = normalize(in[i], inT)
				if img.Model.AlphaPremultiplied && alpha > 0 {
					c[i] /= alpha
				}
			}

			if identity && !img.Model.AlphaPremultiplied && !out.Model.AlphaPremultiplied {
				for i := 0; i < 3; i++ {
					px[i] = requantize(in[i], inT, outT)
				}
			} else {
				if !identity {
					c = dstXf.fromReference(srcXf.toReference(c))
				}
				for i := 0; i < 3; i++ {
					if out.Model.AlphaPremultiplied {
						c[i] *= alpha
					}
					px[i] = quantize(c[i], outT)
				}
			}

			if out.Model.HasAlpha {
				if img.Model.HasAlpha {
					px[3] = requantize(in[nc], inT, outT)
				} else {
					px[3] = outT.MaxValue()
				}
			}

			if err := out.SetPixel(x, y, px); err != nil {
				return err
			}
		}
	}
	return nil
}
