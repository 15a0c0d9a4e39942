package gamutcheck

import "fmt"

// TransferType identifies the storage width of one sample.
type TransferType int

const (
	TransferByte TransferType = iota
	TransferUShort
)

func (t TransferType) String() string {
	switch t {
	case TransferByte:
		return "byte"
	case TransferUShort:
		return "ushort"
	default:
		return fmt.Sprintf("TransferType(%d)", int(t))
	}
}

// Bits returns the number of bits per sample.
func (t TransferType) Bits() int {
	if t == TransferUShort {
		return 16
	}
	return 8
}

// MaxValue returns the largest sample value.
func (t TransferType) MaxValue() int {
	if t == TransferUShort {
		return 0xFFFF
	}
	return 0xFF
}

// ColorModel describes how the samples of a Raster are interpreted.
type ColorModel struct {
	Components         int // 3 (RGB) or 4 (RGBA)
	HasAlpha           bool
	AlphaPremultiplied bool
	Transfer           TransferType
	Profile            *Profile
}

// NewColorModel returns a validated color model for RGB or RGBA samples.
func NewColorModel(p *Profile, hasAlpha, premultiplied bool, t TransferType) (ColorModel, error) {
	cm := ColorModel{
		Components:         3,
		HasAlpha:           hasAlpha,
		AlphaPremultiplied: premultiplied,
		Transfer:           t,
		Profile:            p,
	}
	if hasAlpha {
		cm.Components = 4
	}
	return cm, cm.Validate()
}

// BitsPerComponent returns the shared component precision.
func (cm ColorModel) BitsPerComponent() int {
	return cm.Transfer.Bits()
}

// ColorComponents returns the number of non-alpha components.
func (cm ColorModel) ColorComponents() int {
	if cm.HasAlpha {
		return cm.Components - 1
	}
	return cm.Components
}

// Validate checks model invariants.
func (cm ColorModel) Validate() error {
	if cm.Components != 3 && cm.Components != 4 {
		return fmt.Errorf("%w: %d components", ErrInvalidModel, cm.Components)
	}
	if cm.HasAlpha != (cm.Components == 4) {
		return fmt.Errorf("%w: alpha=%t with %d components", ErrInvalidModel, cm.HasAlpha, cm.Components)
	}
	if !cm.HasAlpha && cm.AlphaPremultiplied {
		return fmt.Errorf("%w: premultiplied without alpha", ErrInvalidModel)
	}
	if cm.Transfer != TransferByte && cm.Transfer != TransferUShort {
		return fmt.Errorf("%w: %v", ErrUnsupportedTransferType, cm.Transfer)
	}
	return nil
}

// Compatible reports whether two models share component layout and alpha flags.
func (cm ColorModel) Compatible(other ColorModel) bool {
	return cm.Components == other.Components &&
		cm.HasAlpha == other.HasAlpha &&
		cm.AlphaPremultiplied == other.AlphaPremultiplied
}

// WithTransfer returns a copy of the model with another transfer type.
func (cm ColorModel) WithTransfer(t TransferType) ColorModel {
	cm.Transfer = t
	return cm
}

// WithProfile returns a copy of the model bound to another profile.
func (cm ColorModel) WithProfile(p *Profile) ColorModel {
	cm.Profile = p
	return cm
}

func (cm ColorModel) String() string {
	return fmt.Sprintf("%s components=%d bits=%d alpha=%t premultiplied=%t",
		cm.Profile.Describe(), cm.Components, cm.BitsPerComponent(), cm.HasAlpha, cm.AlphaPremultiplied)
}

// Interpolation selects the resampling policy of Scale.
type Interpolation int

const (
	InterpolationNearest Interpolation = iota
	InterpolationBilinear
	InterpolationBicubic
	InterpolationMitchellNetravali
	InterpolationLanczos2
	InterpolationLanczos3
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationNearest:
		return "nearest"
	case InterpolationBilinear:
		return "bilinear"
	case InterpolationBicubic:
		return "bicubic"
	case InterpolationMitchellNetravali:
		return "mitchell"
	case InterpolationLanczos2:
		return "lanczos2"
	case InterpolationLanczos3:
		return "lanczos3"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// RoundingRule controls how a scaled dimension becomes an integer.
type RoundingRule int

const (
	RoundHalfUp RoundingRule = iota
	RoundDown
	RoundUp
)

// Outcome is the result of a gamut classification.
type Outcome int

const (
	// Saturated means both sample points collapsed to the same raw value.
	Saturated Outcome = iota
	// Translated means raw values differ and so does the displayed color.
	Translated
	// Preserved means raw values differ while the displayed color is the same.
	Preserved
)

func (o Outcome) String() string {
	switch o {
	case Saturated:
		return "saturated"
	case Translated:
		return "translated"
	case Preserved:
		return "preserved"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
