package main

import (
	"errors"
	"testing"

	"midiwire/midi"
)

func testDefaults() eventDefaults {
	return eventDefaults{channel: midi.MustUInt4(2), group: midi.MustUInt4(1)}
}

func TestParseEvent(t *testing.T) {
	ch, g := midi.MustUInt4(2), midi.MustUInt4(1)
	u7 := midi.MustUInt7
	vel := func(v int) midi.Velocity { return midi.VelocityFromMIDI1(u7(v)) }
	amt := func(v int) midi.Amount { return midi.AmountFromMIDI1(u7(v)) }

	withAttr := midi.NewNoteOn(u7(60), vel(90), ch, g)
	withAttr.Attribute = midi.NoteAttribute{Type: 3, Data: 0x1234}

	sysex, err := midi.NewSysEx7(mustOneByte(t, 0x41), []byte{0x10, 0x20}, g)
	if err != nil {
		t.Fatal(err)
	}
	sysex3 := mustSysEx(t, midi.ThreeByteManufacturer(u7(0x20), u7(0x29)), []byte{0x01}, g)
	universal, err := midi.NewUniversalSysEx7(true, midi.AllDevices, u7(1), u7(1), []byte{1, 2, 3, 4}, g)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		spec string
		want midi.Event
	}{
		{"noteon C4", midi.NewNoteOn(u7(60), vel(100), ch, g)},
		{"noteon 60 64", midi.NewNoteOn(u7(60), vel(64), ch, g)},
		{"on note=C#4 vel=0x40 ch=0 group=3", midi.NewNoteOn(u7(61), vel(64), midi.MustUInt4(0), midi.MustUInt4(3))},
		{"noteon C4 vel16=0x1234", midi.NewNoteOn(u7(60), midi.VelocityFromMIDI2(0x1234), ch, g)},
		{"noteon C4 90 attr=3 attrdata=0x1234", withAttr},
		{"noteoff Bb3", midi.NewNoteOff(u7(58), vel(0), ch, g)},
		{"NoteOff A0 vel=20", midi.NewNoteOff(u7(21), vel(20), ch, g)},
		{"notepressure G4 99", midi.NewNotePressure(u7(67), amt(99), ch, g)},
		{"notecc 60 index=3 value=0x12345678", midi.NewNoteCC(u7(60), midi.RegisteredPerNote(3), 0x12345678, ch, g)},
		{"notecc 60 index=3 assignable=true", midi.NewNoteCC(u7(60), midi.AssignablePerNote(3), 0, ch, g)},
		{"cc 7 100", midi.NewCC(u7(7), amt(100), ch, g)},
		{"cc sustain 127", midi.NewCCController(midi.CCSustain, amt(127), ch, g)},
		{"cc cc=all-notes-off", midi.NewCCController(midi.CCAllNotesOff, amt(0), ch, g)},
		{"cc mod_wheel value32=0xFFFFFFFF", midi.NewCCController(midi.CCModWheel, midi.AmountFromMIDI2(0xFFFFFFFF), ch, g)},
		{"pc 5", midi.NewProgramChange(u7(5), ch, g)},
		{"program 5 bank=1:2", midi.NewProgramChangeBank(u7(5), midi.BankSelect(u7(1), u7(2)), ch, g)},
		{"pc 5 bank=3", midi.NewProgramChangeBank(u7(5), midi.BankSelect(u7(3), u7(0)), ch, g)},
		{"pressure 50", midi.NewChannelPressure(amt(50), ch, g)},
		{"bend", midi.NewPitchBend(midi.BendCenter, ch, g)},
		{"bend center", midi.NewPitchBend(midi.BendCenter, ch, g)},
		{"pitchbend 0", midi.NewPitchBend(midi.BendFromMIDI1(midi.MustUInt14(0)), ch, g)},
		{"bend value32=0x80040020", midi.NewPitchBend(midi.BendFromMIDI2(0x80040020), ch, g)},
		{"qf 0x21", midi.NewTimecodeQuarterFrame(u7(0x21), g)},
		{"spp 1000", midi.NewSongPosition(midi.MustUInt14(1000), g)},
		{"songselect 3", midi.NewSongSelect(u7(3), g)},
		{"tune", midi.NewTuneRequest(g)},
		{"clock", midi.TimingClock(g)},
		{"start", midi.Start(g)},
		{"continue", midi.Continue(g)},
		{"stop group=0", midi.Stop(midi.MustUInt4(0))},
		{"sensing", midi.ActiveSensing(g)},
		{"reset", midi.SystemReset(g)},
		{`sysex mfr=41 data="10 20"`, sysex},
		{`sysex mfr="00 20 29" data=01`, sysex3},
		{`universal rt=true sub1=1 sub2=1 data="01 02 03 04"`, universal},
	}

	for _, tt := range tests {
		got, err := parseEvent(tt.spec, testDefaults())
		if err != nil {
			t.Errorf("parseEvent(%q): unexpected error: %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseEvent(%q) = %s, want %s", tt.spec, got, tt.want)
		}
	}
}

func TestParseEventErrors(t *testing.T) {
	tests := []string{
		"",
		"bogus 1",
		"noteon",
		"noteon H4",
		"noteon C4 vel=128",
		"noteon C4 ch=16",
		"noteon C4 group=-1",
		"noteon C4 foo=1",
		"noteon C4 vel=1 vel=2",
		"noteon C4 attr=256",
		"cc unknown-name 1",
		"cc 128 1",
		"cc",
		"pc 128",
		"pc 1 bank=x:1",
		"bend 16384",
		"bend value32=0x100000000",
		"notecc 60 index=256",
		"notecc 60 assignable=maybe",
		"sysex mfr=7E",
		"sysex mfr=41 data=80",
		"sysex mfr=\"01 02\"",
		"universal sub1=1 sub2=1 data=zz",
		"tune 1",
	}

	for _, spec := range tests {
		if e, err := parseEvent(spec, testDefaults()); err == nil {
			t.Errorf("parseEvent(%q) = %s, want error", spec, e)
		}
	}
}

func TestParseEventRangeError(t *testing.T) {
	_, err := parseEvent("noteon C4 vel=200", testDefaults())
	if !errors.Is(err, midi.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
}

func TestSplitSpec(t *testing.T) {
	got := splitSpec(`sysex  mfr=41 data="10 20 30"`)
	want := []string{"sysex", "mfr=41", "data=10 20 30"}
	if len(got) != len(want) {
		t.Fatalf("splitSpec = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseNoteToken(t *testing.T) {
	tests := []struct {
		tok    string
		want   int
		isRest bool
	}{
		{"C4", 60, false},
		{"E4", 64, false},
		{"G4", 67, false},
		{"C#4", 61, false},
		{"Db4", 61, false},
		{"72", 72, false},
		{"r", 0, true},
		{"REST", 0, true},
	}

	for _, tt := range tests {
		n, isRest, err := parseNoteToken(tt.tok)
		if err != nil {
			t.Fatalf("parseNoteToken(%q): unexpected error: %v", tt.tok, err)
		}
		if isRest != tt.isRest {
			t.Errorf("parseNoteToken(%q) rest = %v, want %v", tt.tok, isRest, tt.isRest)
		}
		if !isRest && n.Int() != tt.want {
			t.Errorf("parseNoteToken(%q) = %d, want %d", tt.tok, n.Int(), tt.want)
		}
	}

	for _, tok := range []string{"", "X4", "C", "C10", "128"} {
		if _, _, err := parseNoteToken(tok); err == nil {
			t.Errorf("parseNoteToken(%q): expected error", tok)
		}
	}
}

func TestManufacturerFromBytes(t *testing.T) {
	m, err := manufacturerFromBytes([]byte{0x00, 0x20, 0x29})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Wide() {
		t.Errorf("expected a three byte manufacturer, got %s", m)
	}
	for _, b := range [][]byte{nil, {0x80}, {0x7F}, {0x01, 0x02}, {0x00, 0x80, 0x01}} {
		if _, err := manufacturerFromBytes(b); err == nil {
			t.Errorf("manufacturerFromBytes(% X): expected error", b)
		}
	}
}

func mustOneByte(t *testing.T, id int) midi.Manufacturer {
	t.Helper()
	m, err := midi.OneByteManufacturer(midi.MustUInt7(id))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func mustSysEx(t *testing.T, m midi.Manufacturer, data []byte, g midi.Group) midi.SysEx7 {
	t.Helper()
	e, err := midi.NewSysEx7(m, data, g)
	if err != nil {
		t.Fatal(err)
	}
	return e
}
