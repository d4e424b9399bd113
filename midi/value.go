package midi

import "fmt"

// Values that exist at two resolutions store the MIDI 2.0 magnitude only and
// derive the MIDI 1.0 view from it. Upscaling follows the MIDI 2.0
// min-center-max rule: zero maps to zero, the source center maps to the
// destination center, and the source maximum maps to the destination
// maximum. Downscaling is a right shift, so a value that was upscaled from
// MIDI 1.0 always narrows back to exactly the original.

func scaleUp(v uint64, srcBits, dstBits uint) uint64 {
	scaleBits := dstBits - srcBits
	shifted := v << scaleBits
	center := uint64(1) << (srcBits - 1)
	if v <= center {
		return shifted
	}
	// Above center the lower bits are filled by repeating the source bits
	// below its MSB until the destination width is reached.
	repeatBits := srcBits - 1
	repeat := v & (1<<repeatBits - 1)
	if scaleBits > repeatBits {
		repeat <<= scaleBits - repeatBits
	} else {
		repeat >>= repeatBits - scaleBits
	}
	for repeat != 0 {
		shifted |= repeat
		repeat >>= repeatBits
	}
	return shifted
}

func scaleDown(v uint64, srcBits, dstBits uint) uint64 {
	return v >> (srcBits - dstBits)
}

// Velocity is a note velocity: 7 bits in MIDI 1.0, 16 bits in MIDI 2.0.
type Velocity struct{ v uint16 }

// VelocityFromMIDI1 widens a 7-bit velocity with min-center-max scaling.
func VelocityFromMIDI1(u UInt7) Velocity {
	return Velocity{uint16(scaleUp(uint64(u.v), 7, 16))}
}

// VelocityFromMIDI2 wraps a 16-bit velocity unchanged.
func VelocityFromMIDI2(v uint16) Velocity { return Velocity{v} }

func (v Velocity) MIDI1() UInt7   { return UInt7{uint8(scaleDown(uint64(v.v), 16, 7))} }
func (v Velocity) MIDI2() uint16  { return v.v }
func (v Velocity) Unit() float64  { return float64(v.v) / 0xFFFF }
func (v Velocity) String() string { return fmt.Sprintf("%d (0x%04X)", v.MIDI1().v, v.v) }

// Amount is a 7-bit MIDI 1.0 value widened to 32 bits in MIDI 2.0. It is
// used by pressure and control change values.
type Amount struct{ v uint32 }

// AmountFromMIDI1 widens a 7-bit value with min-center-max scaling.
func AmountFromMIDI1(u UInt7) Amount {
	return Amount{uint32(scaleUp(uint64(u.v), 7, 32))}
}

// AmountFromMIDI2 wraps a 32-bit value unchanged.
func AmountFromMIDI2(v uint32) Amount { return Amount{v} }

func (a Amount) MIDI1() UInt7   { return UInt7{uint8(scaleDown(uint64(a.v), 32, 7))} }
func (a Amount) MIDI2() uint32  { return a.v }
func (a Amount) Unit() float64  { return float64(a.v) / MaxUInt32 }
func (a Amount) String() string { return fmt.Sprintf("%d (0x%08X)", a.MIDI1().v, a.v) }

// BendValue is a pitch bend position: 14 bits in MIDI 1.0, 32 bits in MIDI
// 2.0. The center (8192 / 0x80000000) is exact in both directions.
type BendValue struct{ v uint32 }

// BendCenter is the neutral pitch bend position.
var BendCenter = BendValue{1 << 31}

// BendFromMIDI1 widens a 14-bit bend, keeping 8192 at the center.
func BendFromMIDI1(u UInt14) BendValue {
	return BendValue{uint32(scaleUp(uint64(u.v), 14, 32))}
}

// BendFromMIDI2 wraps a 32-bit bend unchanged.
func BendFromMIDI2(v uint32) BendValue { return BendValue{v} }

func (b BendValue) MIDI1() UInt14 { return UInt14{uint16(scaleDown(uint64(b.v), 32, 14))} }
func (b BendValue) MIDI2() uint32 { return b.v }

// Bipolar returns the position in -1...+1 with 0 at center.
func (b BendValue) Bipolar() float64 {
	if b.v >= 1<<31 {
		return float64(b.v-1<<31) / float64(MaxUInt32-1<<31)
	}
	return float64(int64(b.v)-1<<31) / float64(1<<31)
}

func (b BendValue) String() string { return fmt.Sprintf("%d (0x%08X)", b.MIDI1().v, b.v) }
