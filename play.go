package main

import (
	"fmt"
	"time"

	"midiwire/midi"
)

const (
	noteLength = 300 * time.Millisecond
	noteGap    = 60 * time.Millisecond
	restLength = noteLength + noteGap
	chordHold  = 3 * time.Second
)

// sender is the part of Output the players need.
type sender interface {
	Send(e midi.Event) error
}

// playNotesFromText plays a melody such as "C4 E4 G4 r C5" one note at a
// time. "r" or "rest" holds for one step.
func playNotesFromText(out sender, def eventDefaults, vel midi.Velocity, notesText string) error {
	notes, err := parseMelody(notesText)
	if err != nil {
		return err
	}

	for _, n := range notes {
		if n == nil {
			time.Sleep(restLength)
			continue
		}

		if err := out.Send(midi.NewNoteOn(*n, vel, def.channel, def.group)); err != nil {
			return fmt.Errorf("note on failed for %d: %w", n.Int(), err)
		}
		time.Sleep(noteLength)
		if err := out.Send(midi.NewNoteOff(*n, midi.Velocity{}, def.channel, def.group)); err != nil {
			return fmt.Errorf("note off failed for %d: %w", n.Int(), err)
		}
		time.Sleep(noteGap)
	}

	return nil
}

// playChord strikes every note of notesText together and releases them
// after hold.
func playChord(out sender, def eventDefaults, vel midi.Velocity, notesText string, hold time.Duration) error {
	notes, err := parseMelody(notesText)
	if err != nil {
		return err
	}

	var chord []midi.UInt7
	for _, n := range notes {
		if n != nil {
			chord = append(chord, *n)
		}
	}
	if len(chord) == 0 {
		return fmt.Errorf("chord has no notes")
	}

	for _, n := range chord {
		if err := out.Send(midi.NewNoteOn(n, vel, def.channel, def.group)); err != nil {
			return fmt.Errorf("note on failed for %d: %w", n.Int(), err)
		}
	}

	time.Sleep(hold)

	for _, n := range chord {
		if err := out.Send(midi.NewNoteOff(n, midi.Velocity{}, def.channel, def.group)); err != nil {
			return fmt.Errorf("note off failed for %d: %w", n.Int(), err)
		}
	}

	return nil
}

// parseMelody returns one entry per token, nil for a rest.
func parseMelody(text string) ([]*midi.UInt7, error) {
	tokens := splitNotes(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no notes provided")
	}

	notes := make([]*midi.UInt7, 0, len(tokens))
	for _, tok := range tokens {
		n, isRest, err := parseNoteToken(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q: %w", tok, err)
		}
		if isRest {
			notes = append(notes, nil)
			continue
		}
		notes = append(notes, &n)
	}
	return notes, nil
}
