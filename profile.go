package gamutcheck

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// ProfileKind identifies how a Profile describes its color space.
type ProfileKind int

const (
	// ProfileStandardRGB is the built-in standard RGB space, the reference of all comparisons.
	ProfileStandardRGB ProfileKind = iota
	// ProfileICC is a device profile given as raw ICC bytes.
	ProfileICC
)

func (k ProfileKind) String() string {
	switch k {
	case ProfileStandardRGB:
		return "standard-rgb"
	case ProfileICC:
		return "icc"
	default:
		return fmt.Sprintf("ProfileKind(%d)", int(k))
	}
}

// Profile is an immutable colorimetric descriptor. It is safe for concurrent use.
type Profile struct {
	kind ProfileKind
	data []byte

	once sync.Once
	xf   colorTransform
	name string
}

var standardRGB = &Profile{kind: ProfileStandardRGB}

// StandardRGB returns the shared standard RGB profile.
func StandardRGB() *Profile {
	return standardRGB
}

// NewICCProfile returns a profile backed by a copy of the given ICC bytes.
// An empty payload yields the standard RGB profile.
func NewICCProfile(data []byte) *Profile {
	if len(data) == 0 {
		return standardRGB
	}
	return &Profile{kind: ProfileICC, data: append([]byte(nil), data...)}
}

// LoadProfile reads ICC bytes from a file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return NewICCProfile(data), nil
}

// Kind returns the profile kind.
func (p *Profile) Kind() ProfileKind {
	if p == nil {
		return ProfileStandardRGB
	}
	return p.kind
}

// Bytes returns a copy of the ICC payload, nil for standard RGB.
func (p *Profile) Bytes() []byte {
	if p == nil || p.kind == ProfileStandardRGB {
		return nil
	}
	return append([]byte(nil), p.data...)
}

// IsStandardRGB reports whether this is the built-in standard RGB profile.
// ICC payloads describing sRGB are not considered standard.
func (p *Profile) IsStandardRGB() bool {
	return p.Kind() == ProfileStandardRGB
}

// Equal reports whether both profiles describe the same payload.
func (p *Profile) Equal(q *Profile) bool {
	if p.Kind() != q.Kind() {
		return false
	}
	if p.Kind() == ProfileStandardRGB {
		return true
	}
	return bytes.Equal(p.data, q.data)
}

// Describe returns a short human-readable name.
func (p *Profile) Describe() string {
	if p.IsStandardRGB() {
		return "sRGB (standard)"
	}
	p.resolve()
	return "ICC " + p.name
}

func (p *Profile) transform() colorTransform {
	if p.IsStandardRGB() {
		return identityTransform{}
	}
	p.resolve()
	return p.xf
}

func (p *Profile) resolve() {
	p.once.Do(func() {
		p.xf, p.name = newProfileTransform(p.data)
	})
}
