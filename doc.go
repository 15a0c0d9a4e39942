// Package gamutcheck provides a pure-Go color management verification engine.
//
// It loads PNG, JPEG and TIFF rasters together with their embedded ICC profile,
// converts samples between profiles and bit depths, and classifies whether the
// colorimetric intent of the source survives each transform (saturated,
// translated or preserved). Format codecs are the standard library and
// golang.org/x/image; ICC transforms are delegated to seehuhn.de/go/icc.
package gamutcheck
