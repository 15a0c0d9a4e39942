package gamutcheck

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SamplePoint records one pixel as stored and as displayed in standard RGB.
type SamplePoint struct {
	X, Y       int
	Raw        int // raw component 0
	Display    int // standard RGB red, 0..255
	RawPixel   []int
	DisplayRGB [3]int
}

// GamutSample holds the two fixed probe points of a raster.
// The top-left probe is expected to carry a color outside the standard RGB
// gamut and the bottom-right one a color inside it.
type GamutSample struct {
	TopLeft     SamplePoint
	BottomRight SamplePoint
}

// DisplayRGB returns the 8-bit standard RGB rendering of a pixel, clipped to
// the standard RGB gamut and with premultiplication undone.
func DisplayRGB(img *Raster, x, y int) [3]int {
	px := img.Pixel(x, y, nil)
	t := img.Model.Transfer

	var c [3]float64
	alpha := 1.0
	if img.Model.HasAlpha {
		alpha = normalize(px[img.Model.ColorComponents()], t)
	}
	for i := range c {
		c[i] = normalize(px[i], t)
		if img.Model.AlphaPremultiplied && alpha > 0 {
			c[i] /= alpha
		}
	}

	ref := img.Model.Profile.transform().toReference(c)

	var out [3]int
	for i := range out {
		out[i] = quantize(ref[i], TransferByte)
	}
	return out
}

// Sample probes img at (sampleInset, sampleInset) and (width-sampleInset, height-sampleInset).
func Sample(img *Raster) (GamutSample, error) {
	if img.Width <= sampleInset || img.Height <= sampleInset {
		return GamutSample{}, fmt.Errorf("%w: %dx%d", ErrRasterTooSmall, img.Width, img.Height)
	}
	return GamutSample{
		TopLeft:     samplePoint(img, sampleInset, sampleInset),
		BottomRight: samplePoint(img, img.Width-sampleInset, img.Height-sampleInset),
	}, nil
}

func samplePoint(img *Raster, x, y int) SamplePoint {
	raw := img.Pixel(x, y, nil)
	rgb := DisplayRGB(img, x, y)
	return SamplePoint{
		X:          x,
		Y:          y,
		Raw:        raw[0],
		Display:    rgb[0],
		RawPixel:   raw,
		DisplayRGB: rgb,
	}
}

// Classify compares the two probe points of one sample.
// Equal raw values mean Saturated; otherwise differing display values mean
// Translated, equal ones Preserved.
func Classify(s GamutSample) Outcome {
	if s.TopLeft.Raw == s.BottomRight.Raw {
		return Saturated
	}
	if s.TopLeft.Display != s.BottomRight.Display {
		return Translated
	}
	return Preserved
}

// ClassifyTransform classifies the state after a transform. The before sample
// is only used for diagnostics by callers; the outcome depends on after alone.
func ClassifyTransform(_, after GamutSample) Outcome {
	return Classify(after)
}

// Analyzer samples rasters and reports classifications to a logger.
type Analyzer struct {
	log logrus.FieldLogger
}

// NewAnalyzer creates an analyzer, nil logger discards diagnostics.
func NewAnalyzer(log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = discardLogger()
	}
	return &Analyzer{log: log}
}

// Summarize logs the colorspace of img.
func (a *Analyzer) Summarize(img *Raster) {
	a.log.WithFields(logrus.Fields{
		"profile":       img.Model.Profile.Describe(),
		"srgb":          img.Model.Profile.IsStandardRGB(),
		"alpha":         img.Model.HasAlpha,
		"premultiplied": img.Model.AlphaPremultiplied,
		"bits":          img.Model.BitsPerComponent(),
		"size":          fmt.Sprintf("%dx%d", img.Width, img.Height),
	}).Info("image colorspace")
}

// Sample probes img and logs both points.
func (a *Analyzer) Sample(img *Raster) (GamutSample, error) {
	s, err := Sample(img)
	if err != nil {
		return s, err
	}
	for _, p := range []struct {
		name string
		pt   SamplePoint
	}{{"top-left", s.TopLeft}, {"bottom-right", s.BottomRight}} {
		a.log.WithFields(logrus.Fields{
			"point":   p.name,
			"x":       p.pt.X,
			"y":       p.pt.Y,
			"raw":     p.pt.RawPixel,
			"display": p.pt.DisplayRGB,
		}).Debug("gamut sample")
	}
	return s, nil
}

// Check classifies s and logs the result.
func (a *Analyzer) Check(s GamutSample) Outcome {
	o := Classify(s)
	a.log.WithFields(logrus.Fields{
		"outcome":          o.String(),
		"top_left_raw":     s.TopLeft.Raw,
		"bottom_right_raw": s.BottomRight.Raw,
		"top_left_red":     s.TopLeft.Display,
		"bottom_right_red": s.BottomRight.Display,
	}).Info(outcomeMessage(o))
	return o
}

// Compare logs the state before a transform and returns the checked outcome after it.
func (a *Analyzer) Compare(before, after GamutSample) Outcome {
	a.log.WithField("outcome", Classify(before).String()).Debug("before transform")
	a.Check(after)
	return ClassifyTransform(before, after)
}

// Analyze summarizes, samples and classifies img.
func (a *Analyzer) Analyze(img *Raster) (GamutSample, Outcome, error) {
	a.Summarize(img)
	s, err := a.Sample(img)
	if err != nil {
		return s, Saturated, err
	}
	return s, a.Check(s), nil
}

func outcomeMessage(o Outcome) string {
	switch o {
	case Saturated:
		return "color gamut is saturated sRGB"
	case Translated:
		return "color gamut was translated"
	default:
		return "color profile was preserved"
	}
}
