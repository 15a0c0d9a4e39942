package gamutcheck

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// srgbInvOetf decodes an sRGB-encoded value to linear light. Values outside
// [0, 1] are mirrored so that extended-range colors survive a round trip.
func srgbInvOetf(v float64) float64 {
	if v < 0 {
		return -srgbInvOetf(-v)
	}
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func srgbOetf(v float64) float64 {
	if v < 0 {
		return -srgbOetf(-v)
	}
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func gamma22InvOetf(v float64) float64 {
	if v < 0 {
		return -gamma22InvOetf(-v)
	}
	return math.Pow(v, 563.0/256.0)
}

func gamma22Oetf(v float64) float64 {
	if v < 0 {
		return -gamma22Oetf(-v)
	}
	return math.Pow(v, 256.0/563.0)
}

// normalize maps a sample of the given width to [0, 1].
func normalize(v int, t TransferType) float64 {
	return float64(v) / float64(t.MaxValue())
}

// quantize maps a [0, 1] value to a sample of the given width, rounding half up.
func quantize(v float64, t TransferType) int {
	m := float64(t.MaxValue())
	return int(math.Floor(clamp(v, 0, 1)*m + 0.5))
}

// requantize converts a sample between widths by scaling, as the color
// conversion path does. Bit-depth reduction uses a shift instead.
func requantize(v int, from, to TransferType) int {
	if from == to {
		return v
	}
	return quantize(normalize(v, from), to)
}
