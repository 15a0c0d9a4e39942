package container

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

const pngSig = "\x89PNG\r\n\x1a\n"

// ErrInvalidPNG is returned for malformed PNG chunk structure.
var ErrInvalidPNG = errors.New("invalid png")

// PNGICC returns the decompressed iCCP profile, nil if none is embedded.
func PNGICC(data []byte) ([]byte, error) {
	if len(data) < len(pngSig) || string(data[:len(pngSig)]) != pngSig {
		return nil, ErrInvalidPNG
	}
	pos := len(pngSig)
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		if n < 0 || pos+12+n > len(data) {
			return nil, errors.New("truncated png chunk")
		}
		body := data[pos+8 : pos+8+n]
		switch typ {
		case "iCCP":
			return decodeICCP(body)
		case "IDAT", "IEND":
			return nil, nil
		}
		pos += 12 + n
	}
	return nil, nil
}

func decodeICCP(body []byte) ([]byte, error) {
	nul := bytes.IndexByte(body, 0)
	if nul < 1 || nul+2 > len(body) {
		return nil, errors.New("invalid iCCP chunk")
	}
	if body[nul+1] != 0 {
		return nil, errors.New("unsupported iCCP compression method")
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[nul+2:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// EmbedPNGICC inserts an iCCP chunk after IHDR. Existing iCCP, sRGB and gAMA chunks are dropped.
func EmbedPNGICC(data []byte, name string, profile []byte) ([]byte, error) {
	if len(data) < len(pngSig) || string(data[:len(pngSig)]) != pngSig {
		return nil, ErrInvalidPNG
	}
	if len(profile) == 0 {
		return data, nil
	}
	if name == "" || len(name) > 79 {
		name = "ICC Profile"
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(profile); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	body := make([]byte, 0, len(name)+2+z.Len())
	body = append(body, name...)
	body = append(body, 0, 0)
	body = append(body, z.Bytes()...)

	var out bytes.Buffer
	out.WriteString(pngSig)
	pos := len(pngSig)
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos:]))
		if pos+12+n > len(data) {
			return nil, errors.New("truncated png chunk")
		}
		typ := string(data[pos+4 : pos+8])
		chunk := data[pos : pos+12+n]
		pos += 12 + n

		switch typ {
		case "iCCP", "sRGB", "gAMA":
			continue
		}
		out.Write(chunk)
		if typ == "IHDR" {
			writePNGChunk(&out, "iCCP", body)
		}
	}
	return out.Bytes(), nil
}

func writePNGChunk(out *bytes.Buffer, typ string, body []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(body)))
	copy(hdr[4:], typ)
	out.Write(hdr[:])
	out.Write(body)

	crc := crc32.NewIEEE()
	_, _ = crc.Write(hdr[4:])
	_, _ = crc.Write(body)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
}
