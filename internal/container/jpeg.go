// Package container reads and writes embedded ICC profiles in JPEG, PNG and TIFF byte streams.
package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"
)

const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP2  = 0xE2
)

// maxICCChunk is the largest ICC payload part fitting one APP2 segment.
const maxICCChunk = 0xFFFF - 2 - 14

var iccSig = []byte{'I', 'C', 'C', '_', 'P', 'R', 'O', 'F', 'I', 'L', 'E', 0}

// ErrInvalidJPEG is returned for malformed JPEG marker structure.
var ErrInvalidJPEG = errors.New("invalid jpeg")

// JPEGICC returns the ICC profile assembled from APP2 chunks, nil if none is embedded.
func JPEGICC(jpegData []byte) ([]byte, error) {
	app2, err := extractApp2Segments(jpegData)
	if err != nil {
		return nil, err
	}
	return collectICCProfile(app2), nil
}

func collectICCProfile(icc [][]byte) []byte {
	type chunk struct {
		seq  int
		data []byte
	}
	chunks := make([]chunk, 0, len(icc))
	for _, p := range icc {
		// ICC APP2 payload: "ICC_PROFILE\0" + seq + total + profile bytes.
		if len(p) > len(iccSig)+2 && bytes.HasPrefix(p, iccSig) {
			chunks = append(chunks, chunk{seq: int(p[len(iccSig)]), data: p[len(iccSig)+2:]})
		}
	}
	if len(chunks) == 0 {
		return nil
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	total := 0
	for _, c := range chunks {
		total += len(c.data)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c.data...)
	}
	return out
}

func extractApp2Segments(jpegData []byte) ([][]byte, error) {
	if len(jpegData) < 4 || jpegData[0] != markerStart || jpegData[1] != markerSOI {
		return nil, ErrInvalidJPEG
	}
	var app2 [][]byte
	pos := 2
	for pos+3 < len(jpegData) {
		if jpegData[pos] != markerStart {
			pos++
			continue
		}
		for pos < len(jpegData) && jpegData[pos] == markerStart {
			pos++
		}
		if pos >= len(jpegData) {
			break
		}
		marker := jpegData[pos]
		pos++
		if marker == markerSOS || marker == markerEOI {
			break
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue
		}
		if pos+1 >= len(jpegData) {
			return nil, errors.New("truncated marker")
		}
		segLen := int(binary.BigEndian.Uint16(jpegData[pos:]))
		if segLen < 2 || pos+segLen > len(jpegData) {
			return nil, errors.New("invalid segment length")
		}
		if marker == markerAPP2 {
			app2 = append(app2, append([]byte(nil), jpegData[pos+2:pos+segLen]...))
		}
		pos += segLen
	}
	return app2, nil
}

// EmbedJPEGICC inserts the profile as APP2 chunks right after SOI.
func EmbedJPEGICC(jpegData []byte, profile []byte) ([]byte, error) {
	if len(jpegData) < 2 || jpegData[0] != markerStart || jpegData[1] != markerSOI {
		return nil, ErrInvalidJPEG
	}
	if len(profile) == 0 {
		return jpegData, nil
	}
	total := (len(profile) + maxICCChunk - 1) / maxICCChunk
	if total > 255 {
		return nil, errors.New("icc profile too large for jpeg")
	}

	var out bytes.Buffer
	out.WriteByte(markerStart)
	out.WriteByte(markerSOI)
	for seq := 0; seq < total; seq++ {
		end := min((seq+1)*maxICCChunk, len(profile))
		payload := make([]byte, 0, len(iccSig)+2+end-seq*maxICCChunk)
		payload = append(payload, iccSig...)
		payload = append(payload, byte(seq+1), byte(total))
		payload = append(payload, profile[seq*maxICCChunk:end]...)
		writeAppSegment(&out, markerAPP2, payload)
	}
	out.Write(jpegData[2:])
	return out.Bytes(), nil
}

func writeAppSegment(out *bytes.Buffer, marker byte, payload []byte) {
	out.WriteByte(markerStart)
	out.WriteByte(marker)
	length := uint16(len(payload) + 2)
	out.WriteByte(byte(length >> 8))
	out.WriteByte(byte(length))
	out.Write(payload)
}
