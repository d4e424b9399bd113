package main

import (
	"strings"
	"testing"

	"midiwire/midi"
)

func TestDescribeEvent(t *testing.T) {
	e := midi.NewNoteOn(midi.MustUInt7(60), midi.VelocityFromMIDI1(midi.MustUInt7(100)), midi.Channel{}, midi.Group{})
	out := describeEvent(e, " ")

	for _, want := range []string{"note on", "90 3C 64", "20903C64", "40903C00 C9240000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestDescribeEventUnsupportedForm(t *testing.T) {
	e := midi.NewNoteCC(midi.MustUInt7(60), midi.RegisteredPerNote(3), 1, midi.Channel{}, midi.Group{})
	out := describeEvent(e, " ")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "unsupported") {
		t.Errorf("expected the bytes line to show the error, got %q", lines[1])
	}
	if !strings.Contains(lines[3], "40003C03 00000001") {
		t.Errorf("expected the MIDI 2.0 words, got %q", lines[3])
	}
}

func TestDescribePackets(t *testing.T) {
	out := describePackets([]byte{1, 2, 3, 4, 5, 6, 7, 8}, midi.Group{}, " ")

	want := "30160102 03040506  start    6  01 02 03 04 05 06\n" +
		"30320708 00000000  end      2  07 08\n"
	if out != want {
		t.Errorf("expected\n%s\ngot\n%s", want, out)
	}
}

func TestEventLines(t *testing.T) {
	events, err := midi.DecodeByteStream([]byte{0x90, 0x3C, 0x64, 0x3E, 0x64, 0xF8}, midi.Group{})
	if err != nil {
		t.Fatal(err)
	}

	out := eventLines(events)
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("expected 3 lines, got %d:\n%s", n, out)
	}
}
