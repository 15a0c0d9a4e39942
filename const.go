package gamutcheck

// sampleInset is the distance of both gamut probes from the raster corners.
const sampleInset = 5

const (
	defaultJPEGQuality = 95
	defaultLogLevel    = "info"
)

// Format tags understood by the default registry.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMETIFF = "image/tiff"
)
