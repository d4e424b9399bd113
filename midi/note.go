package midi

import (
	"fmt"
	"strconv"
	"strings"
)

// Note is a MIDI note number with name conversions. Middle C (60) is "C4".
type Note struct{ number UInt7 }

// NoteFromNumber wraps a note number.
func NoteFromNumber(n UInt7) Note { return Note{n} }

// NoteFromName parses names such as "C4", "F#3", "Bb-1".
func NoteFromName(name string) (Note, error) {
	t := strings.TrimSpace(name)
	if len(t) < 2 {
		return Note{}, fmt.Errorf("note name %q too short", name)
	}

	var semitone int
	switch t[0] {
	case 'C', 'c':
		semitone = 0
	case 'D', 'd':
		semitone = 2
	case 'E', 'e':
		semitone = 4
	case 'F', 'f':
		semitone = 5
	case 'G', 'g':
		semitone = 7
	case 'A', 'a':
		semitone = 9
	case 'B', 'b':
		semitone = 11
	default:
		return Note{}, fmt.Errorf("invalid note letter %q", t[0])
	}

	rest := t[1:]
	switch rest[0] {
	case '#':
		semitone++
		rest = rest[1:]
	case 'b':
		semitone--
		rest = rest[1:]
	}
	if rest == "" {
		return Note{}, fmt.Errorf("note name %q missing octave", name)
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("invalid octave in %q: %w", name, err)
	}

	n, err := NewUInt7(12*(octave+1) + semitone)
	if err != nil {
		return Note{}, err
	}
	return Note{n}, nil
}

func (n Note) Number() UInt7 { return n.number }

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name returns the sharp spelling, e.g. "A#3".
func (n Note) Name() string {
	v := int(n.number.v)
	return noteNames[v%12] + strconv.Itoa(v/12-1)
}

func (n Note) String() string { return n.Name() }
