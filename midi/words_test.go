package midi

import (
	"errors"
	"slices"
	"testing"
)

func TestToWordsNotePressure(t *testing.T) {
	e := NewNotePressure(MustUInt7(0x3B), AmountFromMIDI1(MustUInt7(0x40)), Channel{}, Group{})

	w, err := ToWords(e, Protocol1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []uint32{0x20A03B40}; !slices.Equal(w, want) {
		t.Errorf("MIDI 1.0 words = %s, want %s", WordsString(w, " "), WordsString(want, " "))
	}

	w, err = ToWords(e, Protocol2)
	if err != nil {
		t.Fatal(err)
	}
	if len(w) != 2 {
		t.Fatalf("MIDI 2.0 encoding is %d words, want 2", len(w))
	}
	if w[0]>>24 != 0x40 {
		t.Errorf("first byte = 0x%02X, want 0x40", w[0]>>24)
	}
	if status := w[0] >> 16 & 0xFF; status != 0xA0 {
		t.Errorf("status = 0x%02X, want 0xA0", status)
	}
	if want := []uint32{0x40A03B00, 0x80000000}; !slices.Equal(w, want) {
		t.Errorf("MIDI 2.0 words = %s, want %s", WordsString(w, " "), WordsString(want, " "))
	}
}

func TestToWords(t *testing.T) {
	g2 := MustUInt4(2)
	tests := []struct {
		name  string
		event Event
		p1    []uint32
		p2    []uint32
	}{
		{"note on",
			NewNoteOn(MustUInt7(60), VelocityFromMIDI1(MustUInt7(100)), MustUInt4(3), g2),
			[]uint32{0x22933C64},
			[]uint32{0x42933C00, 0xC9240000}},
		{"note off with attribute",
			NoteOff{Note: MustUInt7(60), Velocity: VelocityFromMIDI2(0x1234), Attribute: NoteAttribute{Type: 3, Data: 0xBEEF}},
			[]uint32{0x20803C09},
			[]uint32{0x40803C03, 0x1234BEEF}},
		{"control change",
			NewCC(MustUInt7(1), AmountFromMIDI1(MustUInt7(127)), MustUInt4(15), Group{}),
			[]uint32{0x20BF017F},
			[]uint32{0x40BF0100, 0xFFFFFFFF}},
		{"program change",
			NewProgramChange(MustUInt7(5), MustUInt4(1), Group{}),
			[]uint32{0x20C10500},
			[]uint32{0x40C10000, 0x05000000}},
		{"channel pressure",
			NewChannelPressure(AmountFromMIDI1(MustUInt7(64)), Channel{}, MustUInt4(15)),
			[]uint32{0x2FD04000},
			[]uint32{0x4FD00000, 0x80000000}},
		{"pitch bend",
			NewPitchBend(BendCenter, Channel{}, Group{}),
			[]uint32{0x20E00040},
			[]uint32{0x40E00000, 0x80000000}},
		{"tune request",
			NewTuneRequest(Group{}),
			[]uint32{0x10F60000},
			[]uint32{0x10F60000}},
		{"song position",
			NewSongPosition(MustUInt14(0x0123), MustUInt4(7)),
			[]uint32{0x17F22302},
			[]uint32{0x17F22302}},
		{"timing clock",
			TimingClock(MustUInt4(1)),
			[]uint32{0x11F80000},
			[]uint32{0x11F80000}},
	}

	for _, tt := range tests {
		for _, c := range []struct {
			p    Protocol
			want []uint32
		}{{Protocol1, tt.p1}, {Protocol2, tt.p2}} {
			got, err := ToWords(tt.event, c.p)
			if err != nil {
				t.Fatalf("%s: ToWords(%s): %v", tt.name, c.p, err)
			}
			if !slices.Equal(got, c.want) {
				t.Errorf("%s: ToWords(%s) = %s, want %s", tt.name, c.p,
					WordsString(got, " "), WordsString(c.want, " "))
			}
		}
	}
}

func TestToWordsMIDI2Only(t *testing.T) {
	pc := NewProgramChangeBank(MustUInt7(5), BankSelect(MustUInt7(1), MustUInt7(2)), Channel{}, Group{})
	w, err := ToWords(pc, Protocol2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []uint32{0x40C00001, 0x05000102}; !slices.Equal(w, want) {
		t.Errorf("program change with bank = %s, want %s", WordsString(w, " "), WordsString(want, " "))
	}

	ncc := NewNoteCC(MustUInt7(60), AssignablePerNote(3), 0x12345678, MustUInt4(1), Group{})
	w, err = ToWords(ncc, Protocol2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []uint32{0x40113C03, 0x12345678}; !slices.Equal(w, want) {
		t.Errorf("per-note controller = %s, want %s", WordsString(w, " "), WordsString(want, " "))
	}

	for _, e := range []Event{pc, ncc} {
		if _, err := ToWords(e, Protocol1); !errors.Is(err, ErrUnsupportedProtocol) {
			t.Errorf("ToWords(%v, 1.0) error = %v, want ErrUnsupportedProtocol", e, err)
		}
	}
	if _, err := ToWords(NewTuneRequest(Group{}), Protocol(3)); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Errorf("unknown protocol error = %v", err)
	}
}

func TestWordsRoundTrip(t *testing.T) {
	for _, tt := range byteCases(t) {
		for _, p := range []Protocol{Protocol1, Protocol2} {
			w, err := ToWords(tt.event, p)
			if err != nil {
				t.Fatalf("%s: ToWords(%s): %v", tt.name, p, err)
			}
			got, err := DecodeWords(w)
			if err != nil {
				t.Fatalf("%s: DecodeWords(%s): %v", tt.name, WordsString(w, " "), err)
			}
			if got != tt.event {
				t.Errorf("%s: protocol %s round trip = %v, want %v", tt.name, p, got, tt.event)
			}
		}
	}

	// Values with no MIDI 1.0 representation survive the MIDI 2.0 protocol.
	midi2 := []Event{
		NoteOn{Note: MustUInt7(1), Velocity: VelocityFromMIDI2(0x0001), Attribute: NoteAttribute{Type: 2, Data: 0xFFFF}, Group: MustUInt4(15)},
		NewNoteCC(MustUInt7(127), RegisteredPerNote(0xFF), MaxUInt32, MustUInt4(4), MustUInt4(6)),
		NewProgramChangeBank(MustUInt7(127), BankSelect(MustUInt7(127), MustUInt7(0)), MustUInt4(8), Group{}),
		NewCC(MustUInt7(74), AmountFromMIDI2(0x00000001), Channel{}, Group{}),
		NewPitchBend(BendFromMIDI2(0x7FFFFFFF), Channel{}, Group{}),
	}
	for _, e := range midi2 {
		w, err := ToWords(e, Protocol2)
		if err != nil {
			t.Fatalf("ToWords(%v): %v", e, err)
		}
		got, err := DecodeWords(w)
		if err != nil {
			t.Fatalf("DecodeWords(%s): %v", WordsString(w, " "), err)
		}
		if got != e {
			t.Errorf("round trip = %v, want %v", got, e)
		}
	}
}

func TestMIDI1DropsNoteAttribute(t *testing.T) {
	e := NoteOn{Note: MustUInt7(60), Velocity: VelocityFromMIDI1(MustUInt7(64)), Attribute: NoteAttribute{Type: 3, Data: 0x0200}}
	w, err := ToWords(e, Protocol1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeWords(w)
	if err != nil {
		t.Fatal(err)
	}
	on := got.(NoteOn)
	if on.Attribute != (NoteAttribute{}) {
		t.Errorf("attribute = %+v, want none", on.Attribute)
	}
	if on.Velocity != e.Velocity || on.Note != e.Note {
		t.Errorf("decoded %v, want %v without attribute", on, e)
	}
}

func TestDecodeWordsIgnoresReservedBytes(t *testing.T) {
	e, err := DecodeWords([]uint32{0x40B00755, 0x80000000})
	if err != nil {
		t.Fatal(err)
	}
	want := NewCC(MustUInt7(7), AmountFromMIDI2(0x80000000), Channel{}, Group{})
	if e != want {
		t.Errorf("decoded %v, want %v", e, want)
	}

	e, err = DecodeWords([]uint32{0x20C005FF})
	if err != nil {
		t.Fatal(err)
	}
	if e != NewProgramChange(MustUInt7(5), Channel{}, Group{}) {
		t.Errorf("decoded %v", e)
	}
}

func TestDecodeWordsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"empty", nil},
		{"MIDI 1.0 data byte as status", []uint32{0x20103C64}},
		{"MIDI 1.0 system status", []uint32{0x20F60000}},
		{"MIDI 1.0 non 7-bit data", []uint32{0x20903C80}},
		{"system channel status", []uint32{0x10903C64}},
		{"system sysex start", []uint32{0x10F00000}},
		{"system undefined", []uint32{0x10F40000}},
		{"MIDI 2.0 single word", []uint32{0x40903C00}},
		{"MIDI 2.0 extra word", []uint32{0x40903C00, 0xFFFF0000, 0}},
		{"MIDI 2.0 RPN", []uint32{0x40200102, 0}},
		{"MIDI 2.0 per-note management", []uint32{0x40F03C00, 0}},
		{"MIDI 2.0 non 7-bit note", []uint32{0x40908000, 0xFFFF0000}},
		{"MIDI 2.0 non 7-bit program", []uint32{0x40C00000, 0x80000000}},
		{"MIDI 2.0 non 7-bit bank", []uint32{0x40C00001, 0x05008000}},
		{"utility", []uint32{0x00000000}},
		{"flex data", []uint32{0xD0000000, 0, 0, 0}},
		{"sysex half packet", []uint32{0x30010100}},
		{"sysex missing end", []uint32{0x30160102, 0x03040506}},
	}
	for _, tt := range tests {
		e, err := DecodeWords(tt.words)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: DecodeWords = %v, %v; want ErrMalformed", tt.name, e, err)
		}
	}
}

func TestSysExWords(t *testing.T) {
	e := mustSysEx7(t, mustManufacturer(t, 0x41), []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, Group{})
	w, err := ToWords(e, Protocol2)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0x30164101, 0x02030405, 0x30320607, 0x00000000}
	if !slices.Equal(w, want) {
		t.Fatalf("sysex words = %s, want %s", WordsString(w, " "), WordsString(want, " "))
	}

	p1, err := ToWords(e, Protocol1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(p1, w) {
		t.Errorf("sysex differs between protocols")
	}

	got, err := DecodeWords(w)
	if err != nil {
		t.Fatal(err)
	}
	if got != e {
		t.Errorf("decoded %v, want %v", got, e)
	}
}

func TestDecodeWordStream(t *testing.T) {
	sx := mustSysEx7(t, ThreeByteManufacturer(MustUInt7(0x20), MustUInt7(0x29)), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, MustUInt4(1))
	sxWords, err := ToWords(sx, Protocol2)
	if err != nil {
		t.Fatal(err)
	}
	on := NewNoteOn(MustUInt7(60), VelocityFromMIDI2(0x8000), Channel{}, Group{})
	onWords, err := ToWords(on, Protocol2)
	if err != nil {
		t.Fatal(err)
	}

	// A group 0 message arrives between the packets of the group 1 sysex.
	var stream []uint32
	stream = append(stream, 0x00000000)
	stream = append(stream, sxWords[:2]...)
	stream = append(stream, onWords...)
	stream = append(stream, 0x10F60000)
	stream = append(stream, sxWords[2:]...)

	events, err := DecodeWordStream(stream)
	if err != nil {
		t.Fatal(err)
	}
	want := []Event{on, NewTuneRequest(Group{}), sx}
	if len(events) != len(want) {
		t.Fatalf("decoded %d events %v, want %d", len(events), events, len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestDecodeWordStreamErrors(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"truncated MIDI 2.0 packet", []uint32{0x10F60000, 0x40903C00}},
		{"unterminated sysex", []uint32{0x30160102, 0x03040506}},
		{"continue without start", []uint32{0x30260102, 0x03040506}},
		{"undefined system status", []uint32{0x10F90000}},
	}
	for _, tt := range tests {
		if _, err := DecodeWordStream(tt.words); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: error = %v, want ErrMalformed", tt.name, err)
		}
	}
}

func TestKindMessageType(t *testing.T) {
	tests := []struct {
		kind   Kind
		p1, p2 MessageType
	}{
		{KindNoteOn, MTMIDI1ChannelVoice, MTMIDI2ChannelVoice},
		{KindPitchBend, MTMIDI1ChannelVoice, MTMIDI2ChannelVoice},
		{KindTuneRequest, MTSystem, MTSystem},
		{KindSystemReset, MTSystem, MTSystem},
		{KindSysEx7, MTData64, MTData64},
		{KindUniversalSysEx7, MTData64, MTData64},
	}
	for _, tt := range tests {
		if mt, err := tt.kind.MessageType(Protocol1); err != nil || mt != tt.p1 {
			t.Errorf("%s in 1.0 = %s, %v", tt.kind, mt, err)
		}
		if mt, err := tt.kind.MessageType(Protocol2); err != nil || mt != tt.p2 {
			t.Errorf("%s in 2.0 = %s, %v", tt.kind, mt, err)
		}
	}
	if _, err := KindNoteCC.MessageType(Protocol1); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Errorf("per-note controller in 1.0 error = %v", err)
	}
	if _, err := Kind(200).MessageType(Protocol2); err == nil {
		t.Errorf("unknown kind has a message type")
	}
}

func TestMessageTypeWords(t *testing.T) {
	want := map[MessageType]int{
		MTUtility: 1, MTSystem: 1, MTMIDI1ChannelVoice: 1, MTData64: 2,
		MTMIDI2ChannelVoice: 2, MTData128: 4, MTFlexData: 4, MTUMPStream: 4,
	}
	for mt, n := range want {
		if mt.Words() != n {
			t.Errorf("%s is %d words, want %d", mt, mt.Words(), n)
		}
	}
}
