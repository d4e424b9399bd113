package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// The MIDI 1.0 encodings are checked against gomidi's message constructors.
func TestToBytesMatchesGomidi(t *testing.T) {
	ch := MustUInt4(4)
	tests := []struct {
		name  string
		event Event
		want  gomidi.Message
	}{
		{"note on", NewNoteOn(MustUInt7(64), VelocityFromMIDI1(MustUInt7(120)), ch, Group{}),
			gomidi.NoteOn(4, 64, 120)},
		{"note off", NewNoteOff(MustUInt7(64), VelocityFromMIDI1(MustUInt7(33)), ch, Group{}),
			gomidi.NoteOffVelocity(4, 64, 33)},
		{"poly aftertouch", NewNotePressure(MustUInt7(64), AmountFromMIDI1(MustUInt7(90)), ch, Group{}),
			gomidi.PolyAfterTouch(4, 64, 90)},
		{"control change", NewCC(MustUInt7(74), AmountFromMIDI1(MustUInt7(12)), ch, Group{}),
			gomidi.ControlChange(4, 74, 12)},
		{"program change", NewProgramChange(MustUInt7(99), ch, Group{}),
			gomidi.ProgramChange(4, 99)},
		{"aftertouch", NewChannelPressure(AmountFromMIDI1(MustUInt7(77)), ch, Group{}),
			gomidi.AfterTouch(4, 77)},
		{"pitch bend center", NewPitchBend(BendCenter, ch, Group{}),
			gomidi.Pitchbend(4, 0)},
		{"pitch bend low", NewPitchBend(BendFromMIDI1(MustUInt14(0)), ch, Group{}),
			gomidi.Pitchbend(4, -8192)},
		{"pitch bend high", NewPitchBend(BendFromMIDI1(MustUInt14(MaxUInt14)), ch, Group{}),
			gomidi.Pitchbend(4, 8191)},
		{"tune request", NewTuneRequest(Group{}), gomidi.Tune()},
		{"timing clock", TimingClock(Group{}), gomidi.TimingClock()},
		{"start", Start(Group{}), gomidi.Start()},
		{"continue", Continue(Group{}), gomidi.Continue()},
		{"stop", Stop(Group{}), gomidi.Stop()},
		{"reset", SystemReset(Group{}), gomidi.Reset()},
		{"sysex", mustSysEx7(t, ThreeByteManufacturer(MustUInt7(0x20), MustUInt7(0x29)), []byte{0x02, 0x0C, 0x00, 0x7F}, Group{}),
			gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F})},
	}

	for _, tt := range tests {
		got, err := ToBytes(tt.event)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !bytes.Equal(got, tt.want.Bytes()) {
			t.Errorf("%s: ToBytes = % X, gomidi = % X", tt.name, got, tt.want.Bytes())
		}
	}
}

func TestDecodeBytesFromGomidi(t *testing.T) {
	e, err := DecodeBytes(gomidi.NoteOn(9, 36, 127).Bytes(), Group{})
	if err != nil {
		t.Fatal(err)
	}
	on, ok := e.(NoteOn)
	if !ok {
		t.Fatalf("decoded %T", e)
	}
	if on.Channel.Int() != 9 || on.Note.Int() != 36 || on.Velocity.MIDI1().Int() != 127 {
		t.Errorf("decoded %v", on)
	}

	b, err := ToBytes(NewPitchBend(BendFromMIDI1(MustUInt14(0x2100)), MustUInt4(2), Group{}))
	if err != nil {
		t.Fatal(err)
	}
	var channel uint8
	var rel int16
	var abs uint16
	if !gomidi.Message(b).GetPitchBend(&channel, &rel, &abs) {
		t.Fatalf("gomidi does not read % X as pitch bend", b)
	}
	if channel != 2 || abs != 0x2100 || rel != 0x100 {
		t.Errorf("gomidi read channel %d rel %d abs %d", channel, rel, abs)
	}
}
