package gamutcheck

import (
	"fmt"
	"math"
)

// maxSamples bounds the sample count of a single raster.
const maxSamples = math.MaxInt32

func checkSize(width, height, components int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if int64(width)*int64(height)*int64(components) > maxSamples {
		return fmt.Errorf("%w: %dx%d with %d components exceeds %d samples",
			ErrInvalidDimensions, width, height, components, maxSamples)
	}
	return nil
}

// Raster is a rectangular block of interleaved, row-major samples interpreted by a ColorModel.
//
// A Raster either owns its storage or is a view onto another raster's storage,
// addressing a subset of its components through a band mapping.
type Raster struct {
	Width  int
	Height int
	Model  ColorModel

	samples     SampleStorage
	offset      int
	pixelStride int
	rowStride   int
	bands       []int
	view        bool
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height int, cm ColorModel) (*Raster, error) {
	if err := cm.Validate(); err != nil {
		return nil, err
	}
	if err := checkSize(width, height, cm.Components); err != nil {
		return nil, err
	}
	return newRaster(width, height, cm, newStorage(cm.Transfer, width*height*cm.Components)), nil
}

// NewRasterFromStorage wraps existing storage, which must hold exactly
// width*height*components samples of the model's transfer type.
func NewRasterFromStorage(width, height int, cm ColorModel, s SampleStorage) (*Raster, error) {
	if err := cm.Validate(); err != nil {
		return nil, err
	}
	if err := checkSize(width, height, cm.Components); err != nil {
		return nil, err
	}
	if s.Transfer() != cm.Transfer {
		return nil, fmt.Errorf("%w: storage %v, model %v", ErrUnsupportedTransferType, s.Transfer(), cm.Transfer)
	}
	if want := width * height * cm.Components; s.Len() != want {
		return nil, fmt.Errorf("%w: %d samples, want %d", ErrInvalidDimensions, s.Len(), want)
	}
	return newRaster(width, height, cm, s), nil
}

func newRaster(width, height int, cm ColorModel, s SampleStorage) *Raster {
	bands := make([]int, cm.Components)
	for i := range bands {
		bands[i] = i
	}
	return &Raster{
		Width:       width,
		Height:      height,
		Model:       cm,
		samples:     s,
		pixelStride: cm.Components,
		rowStride:   width * cm.Components,
		bands:       bands,
	}
}

// Storage returns the underlying sample storage, shared with any views.
func (r *Raster) Storage() SampleStorage {
	return r.samples
}

// IsView reports whether the raster addresses a subset of another raster's components.
func (r *Raster) IsView() bool {
	return r.view
}

// ReadOnly reports whether writes to the raster are rejected.
func (r *Raster) ReadOnly() bool {
	_, ok := r.samples.(*ShiftedView)
	return ok
}

func (r *Raster) index(x, y, band int) int {
	return r.offset + y*r.rowStride + x*r.pixelStride + r.bands[band]
}

// Sample returns the raw value of one component.
func (r *Raster) Sample(x, y, band int) int {
	return r.samples.At(r.index(x, y, band))
}

// SetSample stores the raw value of one component.
func (r *Raster) SetSample(x, y, band, v int) error {
	return r.samples.Set(r.index(x, y, band), v)
}

// Pixel returns all raw components of a pixel, reusing dst when it is large enough.
func (r *Raster) Pixel(x, y int, dst []int) []int {
	n := r.Model.Components
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]
	base := r.offset + y*r.rowStride + x*r.pixelStride
	for b := 0; b < n; b++ {
		dst[b] = r.samples.At(base + r.bands[b])
	}
	return dst
}

// SetPixel stores all raw components of a pixel.
func (r *Raster) SetPixel(x, y int, px []int) error {
	base := r.offset + y*r.rowStride + x*r.pixelStride
	for b := 0; b < r.Model.Components && b < len(px); b++ {
		if err := r.samples.Set(base+r.bands[b], px[b]); err != nil {
			return err
		}
	}
	return nil
}

// ColorView returns a writable view over the color components only.
// Writes through the view mutate this raster's color samples and leave alpha untouched.
// A raster without alpha is returned as is.
func (r *Raster) ColorView() *Raster {
	if !r.Model.HasAlpha {
		return r
	}
	cm := r.Model
	cm.Components = cm.ColorComponents()
	cm.HasAlpha = false
	cm.AlphaPremultiplied = false
	return &Raster{
		Width:       r.Width,
		Height:      r.Height,
		Model:       cm,
		samples:     r.samples,
		offset:      r.offset,
		pixelStride: r.pixelStride,
		rowStride:   r.rowStride,
		bands:       append([]int(nil), r.bands[:cm.Components]...),
		view:        true,
	}
}

// WithProfile reinterprets the same samples under another profile without converting them.
func (r *Raster) WithProfile(p *Profile) *Raster {
	out := *r
	out.Model = r.Model.WithProfile(p)
	out.bands = append([]int(nil), r.bands...)
	return &out
}

// Clone returns an owned, compact copy of the raster.
func (r *Raster) Clone() *Raster {
	out := newRaster(r.Width, r.Height, r.Model, newStorage(r.Model.Transfer, r.Width*r.Height*r.Model.Components))
	px := make([]int, r.Model.Components)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			_ = out.SetPixel(x, y, r.Pixel(x, y, px))
		}
	}
	return out
}

func (r *Raster) String() string {
	return fmt.Sprintf("%dx%d %s", r.Width, r.Height, r.Model)
}
