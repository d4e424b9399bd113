package midi

import (
	"cmp"
	"strconv"
)

// Bit widths of the bounded integer types.
const (
	MaxUInt4  = 1<<4 - 1
	MaxUInt7  = 1<<7 - 1
	MaxUInt14 = 1<<14 - 1
	MaxUInt32 = 1<<32 - 1
)

// The bounded types are structs so that an out-of-range value can never be
// produced by a plain conversion. Zero values are valid.

func checkRange(field string, v, hi int64) error {
	if v < 0 || v > hi {
		return &RangeError{Field: field, Value: v, Max: hi}
	}
	return nil
}

func clampRange(v, hi int64) int64 {
	return min(max(v, 0), hi)
}

// UInt4 is a 4-bit unsigned integer (0...15), used for channels and groups.
type UInt4 struct{ v uint8 }

// Channel addresses one of 16 logical MIDI channels.
type Channel = UInt4

// Group addresses one of 16 UMP groups.
type Group = UInt4

// NewUInt4 returns v as a UInt4, or a *RangeError (matching ErrRange) if v is
// outside 0...15.
func NewUInt4(v int) (UInt4, error) {
	if err := checkRange("uint4", int64(v), MaxUInt4); err != nil {
		return UInt4{}, err
	}
	return UInt4{uint8(v)}, nil
}

// MustUInt4 is like NewUInt4 but panics on an out-of-range literal.
func MustUInt4(v int) UInt4 {
	u, err := NewUInt4(v)
	if err != nil {
		panic(err)
	}
	return u
}

// UInt4Exactly returns v as a UInt4 and true, or the zero value and false if v
// is outside 0...15.
func UInt4Exactly(v int) (UInt4, bool) {
	u, err := NewUInt4(v)
	return u, err == nil
}

// UInt4Clamping returns v clamped to 0...15. It never fails.
func UInt4Clamping(v int) UInt4 {
	return UInt4{uint8(clampRange(int64(v), MaxUInt4))}
}

// uint4 masks a wire nibble. Only used by decoders.
func uint4(b uint8) UInt4 { return UInt4{b & 0xF} }

func (u UInt4) Int() int       { return int(u.v) }
func (u UInt4) Uint8() uint8   { return u.v }
func (u UInt4) String() string { return strconv.Itoa(int(u.v)) }

func (u UInt4) Compare(o UInt4) int { return cmp.Compare(u.v, o.v) }

// Add returns u+o or a *RangeError if the sum exceeds 4 bits.
func (u UInt4) Add(o UInt4) (UInt4, error) { return NewUInt4(int(u.v) + int(o.v)) }

// Sub returns u-o or a *RangeError if the difference is negative.
func (u UInt4) Sub(o UInt4) (UInt4, error) { return NewUInt4(int(u.v) - int(o.v)) }

// UInt7 is a 7-bit unsigned integer (0...127), the MIDI 1.0 data byte.
type UInt7 struct{ v uint8 }

// NewUInt7 returns v as a UInt7, or a *RangeError (matching ErrRange) if v is
// outside 0...127.
func NewUInt7(v int) (UInt7, error) {
	if err := checkRange("uint7", int64(v), MaxUInt7); err != nil {
		return UInt7{}, err
	}
	return UInt7{uint8(v)}, nil
}

// MustUInt7 is like NewUInt7 but panics on an out-of-range literal.
func MustUInt7(v int) UInt7 {
	u, err := NewUInt7(v)
	if err != nil {
		panic(err)
	}
	return u
}

// UInt7Exactly returns v as a UInt7 and true, or the zero value and false if v
// is outside 0...127.
func UInt7Exactly(v int) (UInt7, bool) {
	u, err := NewUInt7(v)
	return u, err == nil
}

// UInt7Clamping returns v clamped to 0...127. It never fails.
func UInt7Clamping(v int) UInt7 {
	return UInt7{uint8(clampRange(int64(v), MaxUInt7))}
}

// dataByte validates a MIDI data byte read from the wire.
func dataByte(field string, b uint8) (UInt7, error) {
	if b > MaxUInt7 {
		return UInt7{}, malformed("%s byte 0x%02X is not 7-bit", field, b)
	}
	return UInt7{b}, nil
}

func (u UInt7) Int() int       { return int(u.v) }
func (u UInt7) Uint8() uint8   { return u.v }
func (u UInt7) String() string { return strconv.Itoa(int(u.v)) }

func (u UInt7) Compare(o UInt7) int { return cmp.Compare(u.v, o.v) }

// Add returns u+o or a *RangeError if the sum exceeds 7 bits.
func (u UInt7) Add(o UInt7) (UInt7, error) { return NewUInt7(int(u.v) + int(o.v)) }

// Sub returns u-o or a *RangeError if the difference is negative.
func (u UInt7) Sub(o UInt7) (UInt7, error) { return NewUInt7(int(u.v) - int(o.v)) }

// UInt14 is a 14-bit unsigned integer (0...16383) carried on the wire as two
// 7-bit bytes, LSB first.
type UInt14 struct{ v uint16 }

// MidpointUInt14 is the center of the 14-bit range (8192).
var MidpointUInt14 = UInt14{1 << 13}

// NewUInt14 returns v as a UInt14, or a *RangeError (matching ErrRange) if v is
// outside 0...16383.
func NewUInt14(v int) (UInt14, error) {
	if err := checkRange("uint14", int64(v), MaxUInt14); err != nil {
		return UInt14{}, err
	}
	return UInt14{uint16(v)}, nil
}

// MustUInt14 is like NewUInt14 but panics on an out-of-range literal.
func MustUInt14(v int) UInt14 {
	u, err := NewUInt14(v)
	if err != nil {
		panic(err)
	}
	return u
}

// UInt14Exactly returns v as a UInt14 and true, or the zero value and false if v
// is outside 0...16383.
func UInt14Exactly(v int) (UInt14, bool) {
	u, err := NewUInt14(v)
	return u, err == nil
}

// UInt14Clamping returns v clamped to 0...16383. It never fails.
func UInt14Clamping(v int) UInt14 {
	return UInt14{uint16(clampRange(int64(v), MaxUInt14))}
}

// UInt14FromBytePair joins a 7-bit LSB and MSB.
func UInt14FromBytePair(lsb, msb UInt7) UInt14 {
	return UInt14{uint16(msb.v)<<7 | uint16(lsb.v)}
}

// BytePair splits the value into its 7-bit LSB and MSB.
func (u UInt14) BytePair() (lsb, msb UInt7) {
	return UInt7{uint8(u.v & 0x7F)}, UInt7{uint8(u.v >> 7)}
}

func (u UInt14) Int() int       { return int(u.v) }
func (u UInt14) Uint16() uint16 { return u.v }
func (u UInt14) String() string { return strconv.Itoa(int(u.v)) }

func (u UInt14) Compare(o UInt14) int { return cmp.Compare(u.v, o.v) }

// Add returns u+o or a *RangeError if the sum exceeds 14 bits.
func (u UInt14) Add(o UInt14) (UInt14, error) { return NewUInt14(int(u.v) + int(o.v)) }

// Sub returns u-o or a *RangeError if the difference is negative.
func (u UInt14) Sub(o UInt14) (UInt14, error) { return NewUInt14(int(u.v) - int(o.v)) }

// The 32-bit width maps onto Go's uint32, which already cannot hold an
// out-of-range value. The constructors below exist for callers holding wider
// integers.

// NewUInt32 returns v as a uint32, or a *RangeError (matching ErrRange) if v is
// outside 0...MaxUInt32.
func NewUInt32(v int64) (uint32, error) {
	if err := checkRange("uint32", v, MaxUInt32); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// UInt32Exactly returns v and true, or 0 and false if v does not fit in 32
// bits.
func UInt32Exactly(v int64) (uint32, bool) {
	u, err := NewUInt32(v)
	return u, err == nil
}

// UInt32Clamping returns v clamped to 0...MaxUInt32.
func UInt32Clamping(v int64) uint32 {
	return uint32(clampRange(v, MaxUInt32))
}
