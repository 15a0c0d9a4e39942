package gamutcheck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	pngMagic    = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic   = []byte{0xFF, 0xD8, 0xFF}
	tiffMagicLE = []byte{'I', 'I', 42, 0}
	tiffMagicBE = []byte{'M', 'M', 0, 42}
)

// DetectFormat sniffs the MIME tag of an encoded image from its leading bytes.
// The returned reader replays everything consumed from r.
func DetectFormat(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(pngMagic))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", br, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	switch {
	case bytes.HasPrefix(head, pngMagic):
		return MIMEPNG, br, nil
	case bytes.HasPrefix(head, jpegMagic):
		return MIMEJPEG, br, nil
	case bytes.HasPrefix(head, tiffMagicLE), bytes.HasPrefix(head, tiffMagicBE):
		return MIMETIFF, br, nil
	}
	return "", br, ErrNoDecoderAvailable
}

// DetectFileFormat sniffs the MIME tag of an image file.
func DetectFileFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	defer f.Close()

	mime, _, err := DetectFormat(f)
	return mime, err
}
