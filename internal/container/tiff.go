package container

import (
	"encoding/binary"
	"errors"
	"sort"
)

const (
	tiffTagICC        = 34675
	tiffTypeUndefined = 7
	ifdEntrySize      = 12
)

// ErrInvalidTIFF is returned for malformed TIFF headers or directories.
var ErrInvalidTIFF = errors.New("invalid tiff")

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value [4]byte
}

func tiffByteOrder(data []byte) (binary.ByteOrder, error) {
	if len(data) < 8 {
		return nil, ErrInvalidTIFF
	}
	var bo binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return nil, ErrInvalidTIFF
	}
	if bo.Uint16(data[2:]) != 42 {
		return nil, ErrInvalidTIFF
	}
	return bo, nil
}

func readIFD(data []byte, bo binary.ByteOrder, off int) ([]ifdEntry, uint32, error) {
	if off < 8 || off+2 > len(data) {
		return nil, 0, ErrInvalidTIFF
	}
	n := int(bo.Uint16(data[off:]))
	end := off + 2 + n*ifdEntrySize
	if end+4 > len(data) {
		return nil, 0, ErrInvalidTIFF
	}
	entries := make([]ifdEntry, n)
	for i := range entries {
		p := off + 2 + i*ifdEntrySize
		entries[i] = ifdEntry{
			tag:   bo.Uint16(data[p:]),
			typ:   bo.Uint16(data[p+2:]),
			count: bo.Uint32(data[p+4:]),
		}
		copy(entries[i].value[:], data[p+8:p+12])
	}
	return entries, bo.Uint32(data[end:]), nil
}

// TIFFICC returns the ICC profile of the first image directory, nil if none is embedded.
func TIFFICC(data []byte) ([]byte, error) {
	bo, err := tiffByteOrder(data)
	if err != nil {
		return nil, err
	}
	entries, _, err := readIFD(data, bo, int(bo.Uint32(data[4:])))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.tag != tiffTagICC {
			continue
		}
		n := int(e.count)
		if n <= 4 {
			return append([]byte(nil), e.value[:n]...), nil
		}
		off := int(bo.Uint32(e.value[:]))
		if off < 0 || off+n > len(data) {
			return nil, errors.New("icc tag out of range")
		}
		return append([]byte(nil), data[off:off+n]...), nil
	}
	return nil, nil
}

// EmbedTIFFICC appends the profile and a rewritten first directory that
// references it. Existing image data stays in place. Profiles of up to four
// bytes are stored inline.
func EmbedTIFFICC(data []byte, profile []byte) ([]byte, error) {
	bo, err := tiffByteOrder(data)
	if err != nil {
		return nil, err
	}
	if len(profile) == 0 {
		return data, nil
	}
	entries, next, err := readIFD(data, bo, int(bo.Uint32(data[4:])))
	if err != nil {
		return nil, err
	}

	icc := ifdEntry{tag: tiffTagICC, typ: tiffTypeUndefined, count: uint32(len(profile))}

	out := padWord(append([]byte(nil), data...))
	if len(profile) <= len(icc.value) {
		copy(icc.value[:], profile)
	} else {
		bo.PutUint32(icc.value[:], uint32(len(out)))
		out = padWord(append(out, profile...))
	}
	ifdOff := len(out)

	kept := entries[:0]
	for _, e := range entries {
		if e.tag != tiffTagICC {
			kept = append(kept, e)
		}
	}
	kept = append(kept, icc)
	sort.Slice(kept, func(i, j int) bool { return kept[i].tag < kept[j].tag })

	buf := make([]byte, 2+len(kept)*ifdEntrySize+4)
	bo.PutUint16(buf, uint16(len(kept)))
	for i, e := range kept {
		p := 2 + i*ifdEntrySize
		bo.PutUint16(buf[p:], e.tag)
		bo.PutUint16(buf[p+2:], e.typ)
		bo.PutUint32(buf[p+4:], e.count)
		copy(buf[p+8:p+12], e.value[:])
	}
	bo.PutUint32(buf[len(buf)-4:], next)
	out = append(out, buf...)

	bo.PutUint32(out[4:], uint32(ifdOff))
	return out, nil
}

func padWord(b []byte) []byte {
	if len(b)%2 == 1 {
		b = append(b, 0)
	}
	return b
}
