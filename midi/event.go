// Package midi is a typed model of MIDI messages with bit-exact codecs for
// MIDI 1.0 byte streams and MIDI 2.0 Universal MIDI Packets (UMP).
//
// Every Event is an immutable value whose fields are bounded types, so an
// event cannot hold an out-of-range field. Encoding and decoding are pure
// functions and are safe to call from any goroutine.
package midi

import (
	"fmt"
	"strings"
)

// Event is the closed set of message variants. Use a type switch over the
// concrete payload types to inspect one.
type Event interface {
	Kind() Kind
	// UMPGroup returns the UMP group the event is addressed to.
	UMPGroup() Group
	String() string

	isEvent()
}

// NoteAttribute is the MIDI 2.0 note attribute carried by note on/off. It has
// no MIDI 1.0 representation and is dropped when encoding to MIDI 1.0.
type NoteAttribute struct {
	Type uint8
	Data uint16
}

// NoteOff is a channel voice note off.
type NoteOff struct {
	Note      UInt7
	Velocity  Velocity
	Attribute NoteAttribute
	Channel   Channel
	Group     Group
}

// NewNoteOff returns a note off. The fields are already bounded, so it
// cannot fail.
func NewNoteOff(note UInt7, velocity Velocity, channel Channel, group Group) NoteOff {
	return NoteOff{Note: note, Velocity: velocity, Channel: channel, Group: group}
}

// NewNoteOffNote is NewNoteOff for a named note.
func NewNoteOffNote(note Note, velocity Velocity, channel Channel, group Group) NoteOff {
	return NewNoteOff(note.Number(), velocity, channel, group)
}

func (NoteOff) Kind() Kind        { return KindNoteOff }
func (e NoteOff) UMPGroup() Group { return e.Group }
func (NoteOff) isEvent()          {}

func (e NoteOff) String() string {
	return fmt.Sprintf("Group %d channel %d: %s off, velocity = %s", e.Group.v, e.Channel.v,
		NoteFromNumber(e.Note), e.Velocity)
}

// NoteOn is a channel voice note on. A MIDI 1.0 note on with velocity 0 is
// kept as a note on; it is not rewritten to a note off.
type NoteOn struct {
	Note      UInt7
	Velocity  Velocity
	Attribute NoteAttribute
	Channel   Channel
	Group     Group
}

// NewNoteOn returns a note on.
func NewNoteOn(note UInt7, velocity Velocity, channel Channel, group Group) NoteOn {
	return NoteOn{Note: note, Velocity: velocity, Channel: channel, Group: group}
}

// NewNoteOnNote is NewNoteOn for a named note.
func NewNoteOnNote(note Note, velocity Velocity, channel Channel, group Group) NoteOn {
	return NewNoteOn(note.Number(), velocity, channel, group)
}

func (NoteOn) Kind() Kind        { return KindNoteOn }
func (e NoteOn) UMPGroup() Group { return e.Group }
func (NoteOn) isEvent()          {}

func (e NoteOn) String() string {
	return fmt.Sprintf("Group %d channel %d: %s on, velocity = %s", e.Group.v, e.Channel.v,
		NoteFromNumber(e.Note), e.Velocity)
}

// NotePressure is polyphonic aftertouch.
type NotePressure struct {
	Note    UInt7
	Amount  Amount
	Channel Channel
	Group   Group
}

// NewNotePressure returns a polyphonic aftertouch message.
func NewNotePressure(note UInt7, amount Amount, channel Channel, group Group) NotePressure {
	return NotePressure{Note: note, Amount: amount, Channel: channel, Group: group}
}

// NewNotePressureNote is NewNotePressure for a named note.
func NewNotePressureNote(note Note, amount Amount, channel Channel, group Group) NotePressure {
	return NewNotePressure(note.Number(), amount, channel, group)
}

func (NotePressure) Kind() Kind        { return KindNotePressure }
func (e NotePressure) UMPGroup() Group { return e.Group }
func (NotePressure) isEvent()          {}

func (e NotePressure) String() string {
	return fmt.Sprintf("Group %d channel %d: %s pressure %s", e.Group.v, e.Channel.v,
		NoteFromNumber(e.Note), e.Amount)
}

// PerNoteController selects a registered or assignable per-note controller.
type PerNoteController struct {
	Assignable bool
	Index      uint8
}

// RegisteredPerNote and AssignablePerNote select a per-note controller by
// index in the registered or assignable bank.
func RegisteredPerNote(index uint8) PerNoteController { return PerNoteController{Index: index} }
func AssignablePerNote(index uint8) PerNoteController {
	return PerNoteController{Assignable: true, Index: index}
}

func (c PerNoteController) String() string {
	if c.Assignable {
		return fmt.Sprintf("assignable(%d)", c.Index)
	}
	return fmt.Sprintf("registered(%d)", c.Index)
}

// NoteCC is a MIDI 2.0 per-note controller. It cannot be sent in the MIDI
// 1.0 protocol.
type NoteCC struct {
	Note       UInt7
	Controller PerNoteController
	Value      uint32
	Channel    Channel
	Group      Group
}

// NewNoteCC returns a per-note controller message with a full 32-bit value.
func NewNoteCC(note UInt7, controller PerNoteController, value uint32, channel Channel, group Group) NoteCC {
	return NoteCC{Note: note, Controller: controller, Value: value, Channel: channel, Group: group}
}

// NewNoteCCNote is NewNoteCC for a named note.
func NewNoteCCNote(note Note, controller PerNoteController, value uint32, channel Channel, group Group) NoteCC {
	return NewNoteCC(note.Number(), controller, value, channel, group)
}

func (NoteCC) Kind() Kind        { return KindNoteCC }
func (e NoteCC) UMPGroup() Group { return e.Group }
func (NoteCC) isEvent()          {}

func (e NoteCC) String() string {
	return fmt.Sprintf("Group %d channel %d: %s per-note controller %s = 0x%08X", e.Group.v,
		e.Channel.v, NoteFromNumber(e.Note), e.Controller, e.Value)
}

// Controller is a control change number with a name for the common ones.
type Controller struct{ number UInt7 }

// Named controllers.
var (
	CCBankSelect    = Controller{UInt7{0}}
	CCModWheel      = Controller{UInt7{1}}
	CCBreath        = Controller{UInt7{2}}
	CCVolume        = Controller{UInt7{7}}
	CCPan           = Controller{UInt7{10}}
	CCExpression    = Controller{UInt7{11}}
	CCBankSelectLSB = Controller{UInt7{32}}
	CCSustain       = Controller{UInt7{64}}
	CCAllSoundOff   = Controller{UInt7{120}}
	CCResetAll      = Controller{UInt7{121}}
	CCLocalControl  = Controller{UInt7{122}}
	CCAllNotesOff   = Controller{UInt7{123}}
	CCOmniOff       = Controller{UInt7{124}}
	CCOmniOn        = Controller{UInt7{125}}
	CCMonoOn        = Controller{UInt7{126}}
	CCPolyOn        = Controller{UInt7{127}}
)

var controllerNames = map[UInt7]string{
	CCBankSelect.number:    "bank select",
	CCModWheel.number:      "mod wheel",
	CCBreath.number:        "breath",
	CCVolume.number:        "volume",
	CCPan.number:           "pan",
	CCExpression.number:    "expression",
	CCBankSelectLSB.number: "bank select LSB",
	CCSustain.number:       "sustain",
	CCAllSoundOff.number:   "all sound off",
	CCResetAll.number:      "reset all controllers",
	CCLocalControl.number:  "local control",
	CCAllNotesOff.number:   "all notes off",
	CCOmniOff.number:       "omni off",
	CCOmniOn.number:        "omni on",
	CCMonoOn.number:        "mono on",
	CCPolyOn.number:        "poly on",
}

// ControllerFromNumber wraps any controller number, named or not.
func ControllerFromNumber(n UInt7) Controller { return Controller{n} }

// ControllerFromName looks up a named controller such as "sustain". Case
// and the separators ' ', '-' and '_' are ignored.
func ControllerFromName(name string) (Controller, bool) {
	key := normalizeName(name)
	for n, s := range controllerNames {
		if normalizeName(s) == key {
			return Controller{n}, true
		}
	}
	return Controller{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
}

func (c Controller) Number() UInt7 { return c.number }

// IsChannelMode reports whether the number is a channel mode message (120...127).
func (c Controller) IsChannelMode() bool { return c.number.v >= 120 }

func (c Controller) String() string {
	if name, ok := controllerNames[c.number]; ok {
		return name
	}
	return fmt.Sprintf("controller %d", c.number.v)
}

// CC is a control change (including channel mode messages).
type CC struct {
	Controller UInt7
	Value      Amount
	Channel    Channel
	Group      Group
}

// NewCC returns a control change for a raw controller number.
func NewCC(controller UInt7, value Amount, channel Channel, group Group) CC {
	return CC{Controller: controller, Value: value, Channel: channel, Group: group}
}

// NewCCController is NewCC for a Controller such as CCSustain.
func NewCCController(controller Controller, value Amount, channel Channel, group Group) CC {
	return NewCC(controller.Number(), value, channel, group)
}

func (CC) Kind() Kind        { return KindCC }
func (e CC) UMPGroup() Group { return e.Group }
func (CC) isEvent()          {}

func (e CC) String() string {
	return fmt.Sprintf("Group %d channel %d: %s = %s", e.Group.v, e.Channel.v,
		ControllerFromNumber(e.Controller), e.Value)
}

// Bank is the optional bank select carried by a MIDI 2.0 program change.
// The zero value means no bank; BankSelect is the only way to set one.
type Bank struct {
	valid bool
	msb   UInt7
	lsb   UInt7
}

// BankSelect returns a bank given its MSB (CC 0) and LSB (CC 32) values.
func BankSelect(msb, lsb UInt7) Bank { return Bank{valid: true, msb: msb, lsb: lsb} }

func (b Bank) Valid() bool { return b.valid }
func (b Bank) MSB() UInt7  { return b.msb }
func (b Bank) LSB() UInt7  { return b.lsb }

// ProgramChange selects a program. A bank select can only be carried in the
// MIDI 2.0 protocol.
type ProgramChange struct {
	Program UInt7
	Bank    Bank
	Channel Channel
	Group   Group
}

// NewProgramChange returns a program change without a bank.
func NewProgramChange(program UInt7, channel Channel, group Group) ProgramChange {
	return ProgramChange{Program: program, Channel: channel, Group: group}
}

// NewProgramChangeBank returns a program change with a bank select. Only
// the MIDI 2.0 protocol can carry the bank.
func NewProgramChangeBank(program UInt7, bank Bank, channel Channel, group Group) ProgramChange {
	return ProgramChange{Program: program, Bank: bank, Channel: channel, Group: group}
}

func (ProgramChange) Kind() Kind        { return KindProgramChange }
func (e ProgramChange) UMPGroup() Group { return e.Group }
func (ProgramChange) isEvent()          {}

func (e ProgramChange) String() string {
	s := fmt.Sprintf("Group %d channel %d: program change to %d", e.Group.v, e.Channel.v, e.Program.v)
	if e.Bank.valid {
		s += fmt.Sprintf(" (bank %d/%d)", e.Bank.msb.v, e.Bank.lsb.v)
	}
	return s
}

// ChannelPressure is monophonic aftertouch.
type ChannelPressure struct {
	Amount  Amount
	Channel Channel
	Group   Group
}

// NewChannelPressure returns a channel pressure message.
func NewChannelPressure(amount Amount, channel Channel, group Group) ChannelPressure {
	return ChannelPressure{Amount: amount, Channel: channel, Group: group}
}

func (ChannelPressure) Kind() Kind        { return KindChannelPressure }
func (e ChannelPressure) UMPGroup() Group { return e.Group }
func (ChannelPressure) isEvent()          {}

func (e ChannelPressure) String() string {
	return fmt.Sprintf("Group %d channel %d: channel pressure %s", e.Group.v, e.Channel.v, e.Amount)
}

// PitchBend is a channel pitch bend.
type PitchBend struct {
	Value   BendValue
	Channel Channel
	Group   Group
}

// NewPitchBend returns a pitch bend.
func NewPitchBend(value BendValue, channel Channel, group Group) PitchBend {
	return PitchBend{Value: value, Channel: channel, Group: group}
}

func (PitchBend) Kind() Kind        { return KindPitchBend }
func (e PitchBend) UMPGroup() Group { return e.Group }
func (PitchBend) isEvent()          {}

func (e PitchBend) String() string {
	return fmt.Sprintf("Group %d channel %d: pitch bend %s", e.Group.v, e.Channel.v, e.Value)
}
