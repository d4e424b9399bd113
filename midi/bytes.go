package midi

// midi1Message is a non-SysEx MIDI 1.0 message: a status byte and up to two
// data bytes. The same shape is carried by UMP message types 0x1 and 0x2.
type midi1Message struct {
	status uint8
	data   [2]uint8
	n      int
}

func (m midi1Message) appendTo(b []byte) []byte {
	return append(append(b, m.status), m.data[:m.n]...)
}

func channelStatus(k Kind, ch Channel) uint8 { return k.spec().status<<4 | ch.v }

func midi1Form(e Event) (midi1Message, error) {
	switch e := e.(type) {
	case NoteOff:
		return midi1Message{channelStatus(KindNoteOff, e.Channel), [2]uint8{e.Note.v, e.Velocity.MIDI1().v}, 2}, nil
	case NoteOn:
		return midi1Message{channelStatus(KindNoteOn, e.Channel), [2]uint8{e.Note.v, e.Velocity.MIDI1().v}, 2}, nil
	case NotePressure:
		return midi1Message{channelStatus(KindNotePressure, e.Channel), [2]uint8{e.Note.v, e.Amount.MIDI1().v}, 2}, nil
	case CC:
		return midi1Message{channelStatus(KindCC, e.Channel), [2]uint8{e.Controller.v, e.Value.MIDI1().v}, 2}, nil
	case ProgramChange:
		if e.Bank.valid {
			return midi1Message{}, unsupported("program change with bank select is a single MIDI 2.0 message; send bank select controllers first in MIDI 1.0")
		}
		return midi1Message{channelStatus(KindProgramChange, e.Channel), [2]uint8{e.Program.v}, 1}, nil
	case ChannelPressure:
		return midi1Message{channelStatus(KindChannelPressure, e.Channel), [2]uint8{e.Amount.MIDI1().v}, 1}, nil
	case PitchBend:
		lsb, msb := e.Value.MIDI1().BytePair()
		return midi1Message{channelStatus(KindPitchBend, e.Channel), [2]uint8{lsb.v, msb.v}, 2}, nil
	case NoteCC:
		return midi1Message{}, unsupported("%s has no MIDI 1.0 representation", KindNoteCC)
	case TimecodeQuarterFrame:
		return midi1Message{0xF1, [2]uint8{e.Data.v}, 1}, nil
	case SongPosition:
		lsb, msb := e.Beat.BytePair()
		return midi1Message{0xF2, [2]uint8{lsb.v, msb.v}, 2}, nil
	case SongSelect:
		return midi1Message{0xF3, [2]uint8{e.Number.v}, 1}, nil
	case TuneRequest:
		return midi1Message{status: 0xF6}, nil
	case RealTime:
		return midi1Message{status: e.Kind().spec().status}, nil
	}
	return midi1Message{}, unsupported("%T is not a short MIDI 1.0 message", e)
}

// AppendBytes appends the MIDI 1.0 encoding of e to b. SysEx is framed with
// 0xF0 and 0xF7; use SysEx7.Bytes to leave either off.
func AppendBytes(b []byte, e Event) ([]byte, error) {
	if body, ok := sysExBody(e); ok {
		return frameSysEx(b, body, true, true), nil
	}
	m, err := midi1Form(e)
	if err != nil {
		return b, err
	}
	return m.appendTo(b), nil
}

// ToBytes returns the MIDI 1.0 encoding of e.
func ToBytes(e Event) ([]byte, error) {
	return AppendBytes(nil, e)
}

// dataLength returns the number of data bytes following a status byte, or
// -1 for status bytes with no fixed length (SysEx) or no definition.
func dataLength(status uint8) int {
	if status < 0xF0 {
		switch status >> 4 {
		case 0xC, 0xD:
			return 1
		}
		return 2
	}
	switch status {
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	case 0xF6, 0xF8, 0xFA, 0xFB, 0xFC, 0xFE, 0xFF:
		return 0
	}
	return -1
}

// DecodeBytes decodes exactly one MIDI 1.0 message. SysEx must be framed by
// 0xF0 and 0xF7. The decoded event is addressed to group.
func DecodeBytes(b []byte, group Group) (Event, error) {
	if len(b) == 0 {
		return nil, malformed("empty message")
	}
	status := b[0]
	if status < 0x80 {
		return nil, malformed("missing status byte, got data byte 0x%02X", status)
	}

	if status == sysExStart {
		if len(b) < 2 || b[len(b)-1] != sysExEnd {
			return nil, malformed("sysex not terminated by 0xF7")
		}
		return decodeSysExBody(b[1:len(b)-1], group)
	}

	n := dataLength(status)
	if n < 0 {
		return nil, malformed("undefined status byte 0x%02X", status)
	}
	if len(b) != n+1 {
		return nil, malformed("status 0x%02X needs %d data bytes, have %d", status, n, len(b)-1)
	}
	return decodeMIDI1(status, b[1:], group)
}

// decodeMIDI1 decodes a status byte and its data bytes. len(data) must equal
// dataLength(status).
func decodeMIDI1(status uint8, data []byte, group Group) (Event, error) {
	var d [2]UInt7
	for i, b := range data {
		v, err := dataByte("data", b)
		if err != nil {
			return nil, err
		}
		d[i] = v
	}

	if status < 0xF0 {
		ch := uint4(status)
		switch status >> 4 {
		case 0x8:
			return NoteOff{Note: d[0], Velocity: VelocityFromMIDI1(d[1]), Channel: ch, Group: group}, nil
		case 0x9:
			return NoteOn{Note: d[0], Velocity: VelocityFromMIDI1(d[1]), Channel: ch, Group: group}, nil
		case 0xA:
			return NotePressure{Note: d[0], Amount: AmountFromMIDI1(d[1]), Channel: ch, Group: group}, nil
		case 0xB:
			return CC{Controller: d[0], Value: AmountFromMIDI1(d[1]), Channel: ch, Group: group}, nil
		case 0xC:
			return ProgramChange{Program: d[0], Channel: ch, Group: group}, nil
		case 0xD:
			return ChannelPressure{Amount: AmountFromMIDI1(d[0]), Channel: ch, Group: group}, nil
		case 0xE:
			return PitchBend{Value: BendFromMIDI1(UInt14FromBytePair(d[0], d[1])), Channel: ch, Group: group}, nil
		}
		return nil, malformed("status byte 0x%02X", status)
	}

	switch status {
	case 0xF1:
		return TimecodeQuarterFrame{Data: d[0], Group: group}, nil
	case 0xF2:
		return SongPosition{Beat: UInt14FromBytePair(d[0], d[1]), Group: group}, nil
	case 0xF3:
		return SongSelect{Number: d[0], Group: group}, nil
	case 0xF6:
		return TuneRequest{Group: group}, nil
	}
	if k, ok := systemKinds[status]; ok && realTimeKinds[k] {
		return realTime(k, group), nil
	}
	return nil, malformed("undefined status byte 0x%02X", status)
}
