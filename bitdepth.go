package gamutcheck

import "fmt"

// ReduceTo8Bit copies a 16-bit raster into a new 8-bit raster, keeping the
// upper byte of every sample (v >> 8). The color model is otherwise unchanged.
func ReduceTo8Bit(img *Raster) (*Raster, error) {
	if img.Model.Transfer != TransferUShort {
		return nil, fmt.Errorf("reduce to 8 bit: %w: %v", ErrUnsupportedTransferType, img.Model.Transfer)
	}
	out, err := NewRaster(img.Width, img.Height, img.Model.WithTransfer(TransferByte))
	if err != nil {
		return nil, err
	}
	in := make([]int, img.Model.Components)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			in = img.Pixel(x, y, in)
			for i := range in {
				in[i] >>= 8
			}
			if err := out.SetPixel(x, y, in); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ReduceTo8BitView returns a read-only 8-bit raster over the samples of a
// 16-bit raster. Reads yield v >> 8; writes fail with ErrReadOnlyBuffer.
// The result is indistinguishable from ReduceTo8Bit for every read.
func ReduceTo8BitView(img *Raster) (*Raster, error) {
	if img.Model.Transfer != TransferUShort {
		return nil, fmt.Errorf("reduce to 8 bit: %w: %v", ErrUnsupportedTransferType, img.Model.Transfer)
	}
	sv, err := NewShiftedView(img.samples)
	if err != nil {
		return nil, err
	}
	out := *img
	out.Model = img.Model.WithTransfer(TransferByte)
	out.samples = sv
	out.bands = append([]int(nil), img.bands...)
	return &out, nil
}
