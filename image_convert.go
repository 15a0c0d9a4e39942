package gamutcheck

import (
	"image"
	"image/color"
)

type opaquer interface {
	Opaque() bool
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}

// RasterFromImage copies a decoded image into a raster bound to p. Fully
// opaque images get three components; 16-bit RGB(A) and Gray16 images keep
// 16-bit samples, everything else is stored with 8 bits.
func RasterFromImage(img image.Image, p *Profile) (*Raster, error) {
	b := img.Bounds()
	opaque := isOpaque(img)

	var (
		t             = TransferByte
		premultiplied bool
	)
	switch img.(type) {
	case *image.RGBA:
		premultiplied = true
	case *image.NRGBA64, *image.Gray16:
		t = TransferUShort
	case *image.RGBA64:
		t = TransferUShort
		premultiplied = true
	}

	hasAlpha := !opaque
	cm, err := NewColorModel(p, hasAlpha, hasAlpha && premultiplied, t)
	if err != nil {
		return nil, err
	}
	out, err := NewRaster(b.Dx(), b.Dy(), cm)
	if err != nil {
		return nil, err
	}

	px := make([]int, cm.Components)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			var ch [4]uint32
			if premultiplied || opaque {
				ch[0], ch[1], ch[2], ch[3] = img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			} else {
				ch = straightRGBA(img, b.Min.X+x, b.Min.Y+y)
			}
			for i := range px {
				if t == TransferByte {
					px[i] = int(ch[i] >> 8)
				} else {
					px[i] = int(ch[i])
				}
			}
			if err := out.SetPixel(x, y, px); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// straightRGBA returns the non-premultiplied 16-bit components of a pixel.
func straightRGBA(img image.Image, x, y int) [4]uint32 {
	switch s := img.(type) {
	case *image.NRGBA:
		c := s.NRGBAAt(x, y)
		return [4]uint32{uint32(c.R) * 0x101, uint32(c.G) * 0x101, uint32(c.B) * 0x101, uint32(c.A) * 0x101}
	case *image.NRGBA64:
		c := s.NRGBA64At(x, y)
		return [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)}
	}
	c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
	return [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)}
}

// Image returns a standard library image holding the raw samples.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	px := make([]int, r.Model.Components)
	nc := r.Model.ColorComponents()

	alphaOf := func(px []int) int {
		if r.Model.HasAlpha {
			return px[nc]
		}
		return r.Model.Transfer.MaxValue()
	}

	if r.Model.Transfer == TransferUShort {
		if r.Model.HasAlpha && !r.Model.AlphaPremultiplied {
			dst := image.NewNRGBA64(rect)
			for y := 0; y < r.Height; y++ {
				for x := 0; x < r.Width; x++ {
					px = r.Pixel(x, y, px)
					dst.SetNRGBA64(x, y, color.NRGBA64{R: uint16(px[0]), G: uint16(px[1]), B: uint16(px[2]), A: uint16(alphaOf(px))})
				}
			}
			return dst
		}
		dst := image.NewRGBA64(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				px = r.Pixel(x, y, px)
				dst.SetRGBA64(x, y, color.RGBA64{R: uint16(px[0]), G: uint16(px[1]), B: uint16(px[2]), A: uint16(alphaOf(px))})
			}
		}
		return dst
	}

	if r.Model.HasAlpha && !r.Model.AlphaPremultiplied {
		dst := image.NewNRGBA(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				px = r.Pixel(x, y, px)
				dst.SetNRGBA(x, y, color.NRGBA{R: uint8(px[0]), G: uint8(px[1]), B: uint8(px[2]), A: uint8(alphaOf(px))})
			}
		}
		return dst
	}
	dst := image.NewRGBA(rect)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px = r.Pixel(x, y, px)
			dst.SetRGBA(x, y, color.RGBA{R: uint8(px[0]), G: uint8(px[1]), B: uint8(px[2]), A: uint8(alphaOf(px))})
		}
	}
	return dst
}
