package midi

import "testing"

func TestVelocityScaling(t *testing.T) {
	tests := []struct {
		midi1 int
		midi2 uint16
	}{
		{0, 0x0000},
		{1, 0x0200},
		{64, 0x8000},
		{100, 0xC924},
		{127, 0xFFFF},
	}
	for _, tt := range tests {
		v := VelocityFromMIDI1(MustUInt7(tt.midi1))
		if v.MIDI2() != tt.midi2 {
			t.Errorf("velocity %d = 0x%04X, want 0x%04X", tt.midi1, v.MIDI2(), tt.midi2)
		}
	}
}

func TestAmountScaling(t *testing.T) {
	tests := []struct {
		midi1 int
		midi2 uint32
	}{
		{0, 0x00000000},
		{64, 0x80000000},
		{100, 0xC9249249},
		{127, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		a := AmountFromMIDI1(MustUInt7(tt.midi1))
		if a.MIDI2() != tt.midi2 {
			t.Errorf("amount %d = 0x%08X, want 0x%08X", tt.midi1, a.MIDI2(), tt.midi2)
		}
	}
}

func TestBendScaling(t *testing.T) {
	tests := []struct {
		midi1 int
		midi2 uint32
	}{
		{0, 0x00000000},
		{0x2000, 0x80000000},
		{0x2001, 0x80040020},
		{0x3FFF, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		b := BendFromMIDI1(MustUInt14(tt.midi1))
		if b.MIDI2() != tt.midi2 {
			t.Errorf("bend %d = 0x%08X, want 0x%08X", tt.midi1, b.MIDI2(), tt.midi2)
		}
	}
	if BendFromMIDI1(MidpointUInt14) != BendCenter {
		t.Errorf("MIDI 1.0 midpoint is not BendCenter")
	}
	if BendCenter.Bipolar() != 0 {
		t.Errorf("center Bipolar() = %v", BendCenter.Bipolar())
	}
	if got := BendFromMIDI2(0).Bipolar(); got != -1 {
		t.Errorf("min Bipolar() = %v", got)
	}
	if got := BendFromMIDI2(MaxUInt32).Bipolar(); got != 1 {
		t.Errorf("max Bipolar() = %v", got)
	}
}

// Every MIDI 1.0 value must narrow back to itself, and widening must keep
// order.
func TestScalingRoundTrip(t *testing.T) {
	var prev16 uint16
	var prev32 uint32
	for i := 0; i <= MaxUInt7; i++ {
		u := MustUInt7(i)
		v := VelocityFromMIDI1(u)
		if v.MIDI1() != u {
			t.Fatalf("velocity %d round trip = %v", i, v.MIDI1())
		}
		a := AmountFromMIDI1(u)
		if a.MIDI1() != u {
			t.Fatalf("amount %d round trip = %v", i, a.MIDI1())
		}
		if i > 0 && (v.MIDI2() <= prev16 || a.MIDI2() <= prev32) {
			t.Fatalf("scaling not monotonic at %d", i)
		}
		prev16, prev32 = v.MIDI2(), a.MIDI2()
	}

	prev32 = 0
	for i := 0; i <= MaxUInt14; i++ {
		u := MustUInt14(i)
		b := BendFromMIDI1(u)
		if b.MIDI1() != u {
			t.Fatalf("bend %d round trip = %v", i, b.MIDI1())
		}
		if i > 0 && b.MIDI2() <= prev32 {
			t.Fatalf("bend scaling not monotonic at %d", i)
		}
		prev32 = b.MIDI2()
	}
}

func TestDownscaleTruncates(t *testing.T) {
	if got := VelocityFromMIDI2(0x81FF).MIDI1().Int(); got != 64 {
		t.Errorf("velocity 0x81FF narrows to %d, want 64", got)
	}
	if got := AmountFromMIDI2(0x01FFFFFF).MIDI1().Int(); got != 0 {
		t.Errorf("amount 0x01FFFFFF narrows to %d, want 0", got)
	}
}
