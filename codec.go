package gamutcheck

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vearutop/gamutcheck/internal/container"
	"golang.org/x/image/tiff"
)

// Decoder turns an encoded byte stream into a raster bound to its embedded profile.
type Decoder interface {
	Decode(r io.Reader) (*Raster, error)
}

// Encoder persists a raster together with its profile.
type Encoder interface {
	Encode(w io.Writer, img *Raster) error
}

// DecodeOptions controls Registry.Decode.
type DecodeOptions struct {
	// Profile, when set, converts the decoded raster into this profile
	// instead of returning the native one.
	Profile *Profile
}

// Registry maps format tags to codecs.
type Registry struct {
	decoders map[string]Decoder
	encoders map[string]Encoder
	log      logrus.FieldLogger
}

// NewRegistry returns a registry with PNG, JPEG and TIFF codecs.
func NewRegistry(cfg Config, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = discardLogger()
	}
	r := &Registry{
		decoders: make(map[string]Decoder),
		encoders: make(map[string]Encoder),
		log:      log,
	}

	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	compression := tiff.Uncompressed
	if cfg.TIFFDeflate {
		compression = tiff.Deflate
	}

	pngCodec := &imageCodec{
		name:   "png",
		decode: png.Decode,
		icc:    container.PNGICC,
		encode: func(w io.Writer, img image.Image) error {
			return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
		},
		embed: func(data, profile []byte) ([]byte, error) {
			return container.EmbedPNGICC(data, "ICC Profile", profile)
		},
		log: log,
	}
	jpegCodec := &imageCodec{
		name:   "jpeg",
		decode: jpeg.Decode,
		icc:    container.JPEGICC,
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		},
		embed: container.EmbedJPEGICC,
		log:   log,
	}
	tiffCodec := &imageCodec{
		name:   "tiff",
		decode: tiff.Decode,
		icc:    container.TIFFICC,
		encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: compression})
		},
		embed: container.EmbedTIFFICC,
		log:   log,
	}

	for mime, c := range map[string]*imageCodec{MIMEPNG: pngCodec, MIMEJPEG: jpegCodec, MIMETIFF: tiffCodec} {
		r.RegisterDecoder(mime, c)
		r.RegisterEncoder(mime, c)
	}
	return r
}

// RegisterDecoder adds or replaces the decoder of a format tag.
func (r *Registry) RegisterDecoder(format string, d Decoder) {
	r.decoders[FormatTag(format)] = d
}

// RegisterEncoder adds or replaces the encoder of a format tag.
func (r *Registry) RegisterEncoder(format string, e Encoder) {
	r.encoders[FormatTag(format)] = e
}

// FormatTag normalizes short names (png, jpg, jpeg, tif, tiff) and MIME tags.
func FormatTag(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "png":
		return MIMEPNG
	case "jpg", "jpeg":
		return MIMEJPEG
	case "tif", "tiff":
		return MIMETIFF
	}
	return f
}

// Decode reads an image of the given format and returns the raster with the
// native profile of the stream. With DecodeOptions.Profile set the raster is
// converted into that profile, the native profile is still returned.
func (r *Registry) Decode(format string, src io.Reader, opts ...func(o *DecodeOptions)) (*Raster, *Profile, error) {
	d, ok := r.decoders[FormatTag(format)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoDecoderAvailable, format)
	}

	var opt DecodeOptions
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	r.log.WithField("format", format).Debug("decoding image")
	img, err := d.Decode(src)
	if err != nil {
		return nil, nil, err
	}
	native := img.Model.Profile

	if opt.Profile != nil && !opt.Profile.Equal(native) {
		r.log.WithField("profile", opt.Profile.Describe()).Debug("converting on decode")
		if img, err = Convert(img, native, opt.Profile, nil); err != nil {
			return nil, nil, fmt.Errorf("convert on decode: %w", err)
		}
	}
	return img, native, nil
}

// DecodeFile opens and decodes a file.
func (r *Registry) DecodeFile(format, path string, opts ...func(o *DecodeOptions)) (*Raster, *Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	defer f.Close()

	r.log.WithField("file", path).Debug("loading file")
	return r.Decode(format, f, opts...)
}

// Encode writes img in the given format.
func (r *Registry) Encode(w io.Writer, img *Raster, format string) error {
	e, ok := r.encoders[FormatTag(format)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoEncoderAvailable, format)
	}
	return e.Encode(w, img)
}

// EncodeFile writes img to name in the given format.
func (r *Registry) EncodeFile(img *Raster, format, name string) error {
	if _, ok := r.encoders[FormatTag(format)]; !ok {
		return fmt.Errorf("%w: %q", ErrNoEncoderAvailable, format)
	}

	r.log.WithFields(logrus.Fields{"format": format, "file": name}).Info("writing image")

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrEncodeFailure, ErrIOFailure, err)
	}
	if err := r.Encode(f, img, format); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrEncodeFailure, ErrIOFailure, err)
	}
	return nil
}

// imageCodec adapts a standard library style codec and an ICC container helper.
type imageCodec struct {
	name   string
	decode func(io.Reader) (image.Image, error)
	icc    func([]byte) ([]byte, error)
	encode func(io.Writer, image.Image) error
	embed  func(data, profile []byte) ([]byte, error)
	log    logrus.FieldLogger
}

func (c *imageCodec) Decode(r io.Reader) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}

	profile := StandardRGB()
	iccData, err := c.icc(data)
	if err != nil {
		c.log.WithError(err).Warnf("ignoring unreadable %s icc profile", c.name)
	} else if len(iccData) > 0 {
		profile = NewICCProfile(iccData)
	}

	return RasterFromImage(img, profile)
}

func (c *imageCodec) Encode(w io.Writer, img *Raster) error {
	var buf bytes.Buffer
	if err := c.encode(&buf, img.Image()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncodeFailure, c.name, err)
	}

	data := buf.Bytes()
	if !img.Model.Profile.IsStandardRGB() {
		var err error
		if data, err = c.embed(data, img.Model.Profile.Bytes()); err != nil {
			return fmt.Errorf("%w: embed icc: %w", ErrEncodeFailure, err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrEncodeFailure, ErrIOFailure, err)
	}
	return nil
}
