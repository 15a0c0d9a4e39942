package gamutcheck

import (
	"bytes"
	"sync"

	"seehuhn.de/go/icc"
)

// colorTransform maps device samples, normalized to [0, 1], to and from the
// reference space: extended (unclipped) sRGB-encoded values.
type colorTransform interface {
	toReference(v [3]float64) [3]float64
	fromReference(v [3]float64) [3]float64
}

type identityTransform struct{}

func (identityTransform) toReference(v [3]float64) [3]float64   { return v }
func (identityTransform) fromReference(v [3]float64) [3]float64 { return v }

type colorGamut int

type colorTransfer int

const (
	colorGamutSRGB colorGamut = iota
	colorGamutDisplayP3
	colorGamutAdobeRGB
)

const (
	colorTransferSRGB colorTransfer = iota
	colorTransferGamma22
)

func (g colorGamut) String() string {
	switch g {
	case colorGamutDisplayP3:
		return "Display P3"
	case colorGamutAdobeRGB:
		return "Adobe RGB"
	default:
		return "sRGB"
	}
}

// gamutTransform is a D65 matrix/transfer pair for well-known RGB spaces.
type gamutTransform struct {
	gamut    colorGamut
	transfer colorTransfer
}

func (t gamutTransform) toReference(v [3]float64) [3]float64 {
	for i := range v {
		if t.transfer == colorTransferGamma22 {
			v[i] = gamma22InvOetf(v[i])
		} else {
			v[i] = srgbInvOetf(v[i])
		}
	}
	v = convertLinearGamut(v, t.gamut, colorGamutSRGB)
	for i := range v {
		v[i] = srgbOetf(v[i])
	}
	return v
}

func (t gamutTransform) fromReference(v [3]float64) [3]float64 {
	for i := range v {
		v[i] = srgbInvOetf(v[i])
	}
	v = convertLinearGamut(v, colorGamutSRGB, t.gamut)
	for i := range v {
		v[i] = clamp(v[i], 0, 1)
		if t.transfer == colorTransferGamma22 {
			v[i] = gamma22Oetf(v[i])
		} else {
			v[i] = srgbOetf(v[i])
		}
	}
	return v
}

// iccTransform converts through the profile connection space of an ICC profile.
type iccTransform struct {
	mu      sync.Mutex
	toPCS   *icc.Transform
	fromPCS *icc.Transform
}

func (t *iccTransform) toReference(v [3]float64) [3]float64 {
	t.mu.Lock()
	x, y, z := t.toPCS.ToXYZ([]float64{clamp(v[0], 0, 1), clamp(v[1], 0, 1), clamp(v[2], 0, 1)})
	t.mu.Unlock()
	lin := mulMatrix(xyzD50ToLinearSRGB, [3]float64{x, y, z})
	for i := range lin {
		lin[i] = srgbOetf(lin[i])
	}
	return lin
}

func (t *iccTransform) fromReference(v [3]float64) [3]float64 {
	for i := range v {
		v[i] = srgbInvOetf(v[i])
	}
	xyz := mulMatrix(linearSRGBToXYZD50, v)
	t.mu.Lock()
	dev := t.fromPCS.FromXYZ(xyz[0], xyz[1], xyz[2])
	t.mu.Unlock()
	var out [3]float64
	for i := 0; i < 3 && i < len(dev); i++ {
		out[i] = dev[i]
	}
	return out
}

// newProfileTransform builds the transform for ICC bytes. Payloads that the
// ICC decoder cannot turn into an RGB transform fall back to a gamut guessed
// from the profile description; anything unrecognized behaves as sRGB.
func newProfileTransform(data []byte) (colorTransform, string) {
	guess := detectColorProfileFromICCProfile(data)
	if xf, err := newICCTransform(data); err == nil {
		return xf, guess.gamut.String()
	}
	return guess, guess.gamut.String() + " (matrix)"
}

func newICCTransform(data []byte) (*iccTransform, error) {
	p, err := icc.Decode(append([]byte(nil), data...))
	if err != nil {
		return nil, err
	}
	if p.ColorSpace != icc.RGBSpace {
		return nil, ErrInvalidModel
	}
	toPCS, err := icc.NewTransform(p, icc.DeviceToPCS, icc.Perceptual)
	if err != nil {
		return nil, err
	}
	fromPCS, err := icc.NewTransform(p, icc.PCSToDevice, icc.Perceptual)
	if err != nil {
		return nil, err
	}
	return &iccTransform{toPCS: toPCS, fromPCS: fromPCS}, nil
}

func detectColorProfileFromICCProfile(profile []byte) gamutTransform {
	if len(profile) == 0 {
		return gamutTransform{gamut: colorGamutSRGB, transfer: colorTransferSRGB}
	}
	lower := bytes.ToLower(profile)
	// Description sniffing is enough for common camera and display profiles.
	if bytes.Contains(lower, []byte("display p3")) || bytes.Contains(lower, []byte("dci-p3")) ||
		bytes.Contains(lower, []byte("dcip3")) {
		return gamutTransform{gamut: colorGamutDisplayP3, transfer: colorTransferSRGB}
	}
	if bytes.Contains(lower, []byte("adobe rgb")) || bytes.Contains(lower, []byte("adobergb")) {
		return gamutTransform{gamut: colorGamutAdobeRGB, transfer: colorTransferGamma22}
	}
	return gamutTransform{gamut: colorGamutSRGB, transfer: colorTransferSRGB}
}

type matrix3 [9]float64

func mulMatrix(m matrix3, v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Bradford-adapted sRGB primaries for the D50 profile connection space.
var (
	linearSRGBToXYZD50 = matrix3{
		0.4360747, 0.3850649, 0.1430804,
		0.2225045, 0.7168786, 0.0606169,
		0.0139322, 0.0971045, 0.7141733,
	}
	xyzD50ToLinearSRGB = matrix3{
		3.1338561, -1.6168667, -0.4906146,
		-0.9787684, 1.9161415, 0.0334540,
		0.0719453, -0.2289914, 1.4052427,
	}
)

// D65 linear RGB <-> XYZ.
var (
	rgbToXYZ = map[colorGamut]matrix3{
		colorGamutSRGB: {
			0.4123908, 0.35758433, 0.1804808,
			0.212639, 0.71516865, 0.07219232,
			0.019330818, 0.11919478, 0.95053214,
		},
		colorGamutDisplayP3: {
			0.48657095, 0.2656677, 0.19821729,
			0.22897457, 0.69173855, 0.07928691,
			0, 0.04511338, 1.0439444,
		},
		colorGamutAdobeRGB: {
			0.5767309, 0.185554, 0.1881852,
			0.2973769, 0.6273491, 0.0752741,
			0.0270343, 0.0706872, 0.9911085,
		},
	}
	xyzToRGB = map[colorGamut]matrix3{
		colorGamutSRGB: {
			3.24097, -1.5373832, -0.49861076,
			-0.96924365, 1.8759675, 0.041555058,
			0.05563008, -0.20397696, 1.0569715,
		},
		colorGamutDisplayP3: {
			2.493497, -0.9313836, -0.4027108,
			-0.829489, 1.7626641, 0.023624685,
			0.03584583, -0.07617239, 0.9568845,
		},
		colorGamutAdobeRGB: {
			2.041369, -0.5649464, -0.3446944,
			-0.969266, 1.8760108, 0.041556,
			0.0134474, -0.1183897, 1.0154096,
		},
	}
)

func convertLinearGamut(v [3]float64, from, to colorGamut) [3]float64 {
	if from == to {
		return v
	}
	return mulMatrix(xyzToRGB[to], mulMatrix(rgbToXYZ[from], v))
}
