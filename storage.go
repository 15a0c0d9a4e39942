package gamutcheck

// SampleStorage is a flat, row-major array of samples.
type SampleStorage interface {
	// Len returns the number of samples.
	Len() int
	// At returns the sample at index i.
	At(i int) int
	// Set stores v at index i.
	Set(i int, v int) error
	// Transfer reports the width of the samples returned by At.
	Transfer() TransferType
}

// ByteBuffer is an owned 8-bit sample storage.
type ByteBuffer []uint8

func (b ByteBuffer) Len() int               { return len(b) }
func (b ByteBuffer) At(i int) int           { return int(b[i]) }
func (b ByteBuffer) Transfer() TransferType { return TransferByte }

func (b ByteBuffer) Set(i int, v int) error {
	b[i] = uint8(clamp(v, 0, 0xFF))
	return nil
}

// UShortBuffer is an owned 16-bit sample storage.
type UShortBuffer []uint16

func (b UShortBuffer) Len() int               { return len(b) }
func (b UShortBuffer) At(i int) int           { return int(b[i]) }
func (b UShortBuffer) Transfer() TransferType { return TransferUShort }

func (b UShortBuffer) Set(i int, v int) error {
	b[i] = uint16(clamp(v, 0, 0xFFFF))
	return nil
}

// ShiftedView presents 16-bit storage as 8-bit samples by keeping the upper
// byte of each value. It never copies and rejects writes.
type ShiftedView struct {
	src SampleStorage
}

// NewShiftedView wraps 16-bit storage.
func NewShiftedView(src SampleStorage) (*ShiftedView, error) {
	if src.Transfer() != TransferUShort {
		return nil, ErrUnsupportedTransferType
	}
	return &ShiftedView{src: src}, nil
}

func (v *ShiftedView) Len() int               { return v.src.Len() }
func (v *ShiftedView) At(i int) int           { return v.src.At(i) >> 8 }
func (v *ShiftedView) Transfer() TransferType { return TransferByte }

func (v *ShiftedView) Set(int, int) error {
	return ErrReadOnlyBuffer
}

func newStorage(t TransferType, n int) SampleStorage {
	if t == TransferUShort {
		return make(UShortBuffer, n)
	}
	return make(ByteBuffer, n)
}
