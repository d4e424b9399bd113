package midi

func packWord(b0, b1, b2, b3 uint8) uint32 {
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

func wordBytes(w uint32) (b0, b1, b2, b3 uint8) {
	return uint8(w >> 24), uint8(w >> 16), uint8(w >> 8), uint8(w)
}

func envelope(mt MessageType, g Group) uint8 { return uint8(mt)<<4 | g.v }

// AppendWords appends the UMP encoding of e under protocol p. SysEx is split
// into as many 64-bit data packets as its body needs.
func AppendWords(w []uint32, e Event, p Protocol) ([]uint32, error) {
	mt, err := e.Kind().MessageType(p)
	if err != nil {
		return w, err
	}

	if body, ok := sysExBody(e); ok {
		for pkt := range SysEx7Chunks(body, e.UMPGroup()) {
			w = append(w, pkt[0], pkt[1])
		}
		return w, nil
	}

	if mt == MTMIDI2ChannelVoice {
		w0, w1, err := midi2Form(e)
		if err != nil {
			return w, err
		}
		return append(w, w0, w1), nil
	}

	m, err := midi1Form(e)
	if err != nil {
		return w, err
	}
	return append(w, packWord(envelope(mt, e.UMPGroup()), m.status, m.data[0], m.data[1])), nil
}

// ToWords returns the UMP encoding of e under protocol p.
func ToWords(e Event, p Protocol) ([]uint32, error) {
	return AppendWords(nil, e, p)
}

// midi2Form builds the two words of a MIDI 2.0 channel voice message.
func midi2Form(e Event) (uint32, uint32, error) {
	head := func(k Kind, ch, g UInt4, b2, b3 uint8) uint32 {
		return packWord(envelope(MTMIDI2ChannelVoice, g), channelStatus(k, ch), b2, b3)
	}

	switch e := e.(type) {
	case NoteOff:
		return head(KindNoteOff, e.Channel, e.Group, e.Note.v, e.Attribute.Type),
			uint32(e.Velocity.MIDI2())<<16 | uint32(e.Attribute.Data), nil
	case NoteOn:
		return head(KindNoteOn, e.Channel, e.Group, e.Note.v, e.Attribute.Type),
			uint32(e.Velocity.MIDI2())<<16 | uint32(e.Attribute.Data), nil
	case NotePressure:
		return head(KindNotePressure, e.Channel, e.Group, e.Note.v, 0), e.Amount.MIDI2(), nil
	case NoteCC:
		op := uint8(0x0)
		if e.Controller.Assignable {
			op = 0x1
		}
		w0 := packWord(envelope(MTMIDI2ChannelVoice, e.Group), op<<4|e.Channel.v, e.Note.v, e.Controller.Index)
		return w0, e.Value, nil
	case CC:
		return head(KindCC, e.Channel, e.Group, e.Controller.v, 0), e.Value.MIDI2(), nil
	case ProgramChange:
		var flags uint8
		w1 := uint32(e.Program.v) << 24
		if e.Bank.valid {
			flags = 0x01
			w1 |= uint32(e.Bank.msb.v)<<8 | uint32(e.Bank.lsb.v)
		}
		return head(KindProgramChange, e.Channel, e.Group, 0, flags), w1, nil
	case ChannelPressure:
		return head(KindChannelPressure, e.Channel, e.Group, 0, 0), e.Amount.MIDI2(), nil
	case PitchBend:
		return head(KindPitchBend, e.Channel, e.Group, 0, 0), e.Value.MIDI2(), nil
	}
	return 0, 0, unsupported("%s is not a MIDI 2.0 channel voice message", e.Kind())
}

// DecodeWords decodes exactly one UMP message. A SysEx7 message may span
// several 64-bit packets, all of which must be present.
func DecodeWords(words []uint32) (Event, error) {
	if len(words) == 0 {
		return nil, malformed("no words")
	}
	mt := MessageType(words[0] >> 28)
	size := mt.Words()

	if mt == MTData64 {
		if len(words)%size != 0 {
			return nil, malformed("%d words is not a whole number of data 64 packets", len(words))
		}
		packets := make([]Packet64, 0, len(words)/size)
		for i := 0; i < len(words); i += size {
			packets = append(packets, Packet64{words[i], words[i+1]})
		}
		body, group, err := ReassembleSysEx7(packets)
		if err != nil {
			return nil, err
		}
		return decodeSysExBody(body, group)
	}

	if len(words) != size {
		return nil, malformed("%s message is %d words, have %d", mt, size, len(words))
	}
	return decodePacket(words)
}

// decodePacket decodes one packet that is not part of a SysEx7 message.
func decodePacket(words []uint32) (Event, error) {
	b0, status, b2, b3 := wordBytes(words[0])
	mt := MessageType(b0 >> 4)
	group := uint4(b0)

	switch mt {
	case MTSystem:
		n := dataLength(status)
		if status < 0xF0 || status == sysExStart || n < 0 {
			return nil, malformed("system message status 0x%02X", status)
		}
		return decodeMIDI1(status, []byte{b2, b3}[:n], group)
	case MTMIDI1ChannelVoice:
		if status < 0x80 || status >= 0xF0 {
			return nil, malformed("MIDI 1.0 channel voice status 0x%02X", status)
		}
		return decodeMIDI1(status, []byte{b2, b3}[:dataLength(status)], group)
	case MTMIDI2ChannelVoice:
		return decodeMIDI2(group, status, b2, b3, words[1])
	}
	return nil, malformed("%s message has no event", mt)
}

func decodeMIDI2(group Group, status, b2, b3 uint8, w1 uint32) (Event, error) {
	ch := uint4(status)

	switch op := status >> 4; op {
	case 0x0, 0x1:
		note, err := dataByte("note", b2)
		if err != nil {
			return nil, err
		}
		ctrl := PerNoteController{Assignable: op == 0x1, Index: b3}
		return NoteCC{Note: note, Controller: ctrl, Value: w1, Channel: ch, Group: group}, nil
	case 0x8, 0x9:
		note, err := dataByte("note", b2)
		if err != nil {
			return nil, err
		}
		vel := VelocityFromMIDI2(uint16(w1 >> 16))
		attr := NoteAttribute{Type: b3, Data: uint16(w1)}
		if op == 0x8 {
			return NoteOff{Note: note, Velocity: vel, Attribute: attr, Channel: ch, Group: group}, nil
		}
		return NoteOn{Note: note, Velocity: vel, Attribute: attr, Channel: ch, Group: group}, nil
	case 0xA:
		note, err := dataByte("note", b2)
		if err != nil {
			return nil, err
		}
		return NotePressure{Note: note, Amount: AmountFromMIDI2(w1), Channel: ch, Group: group}, nil
	case 0xB:
		index, err := dataByte("controller", b2)
		if err != nil {
			return nil, err
		}
		return CC{Controller: index, Value: AmountFromMIDI2(w1), Channel: ch, Group: group}, nil
	case 0xC:
		program, err := dataByte("program", uint8(w1>>24))
		if err != nil {
			return nil, err
		}
		pc := ProgramChange{Program: program, Channel: ch, Group: group}
		if b3&0x01 != 0 {
			msb, err := dataByte("bank MSB", uint8(w1>>8))
			if err != nil {
				return nil, err
			}
			lsb, err := dataByte("bank LSB", uint8(w1))
			if err != nil {
				return nil, err
			}
			pc.Bank = BankSelect(msb, lsb)
		}
		return pc, nil
	case 0xD:
		return ChannelPressure{Amount: AmountFromMIDI2(w1), Channel: ch, Group: group}, nil
	case 0xE:
		return PitchBend{Value: BendFromMIDI2(w1), Channel: ch, Group: group}, nil
	}
	return nil, malformed("MIDI 2.0 channel voice status 0x%02X has no event", status)
}

// DecodeWordStream splits a word buffer into packets by message type and
// decodes each. SysEx7 packets are reassembled per group and produce one
// event when their message ends. Utility packets (NOOP, jitter reduction)
// carry no event and are skipped.
func DecodeWordStream(words []uint32) ([]Event, error) {
	var (
		events []Event
		sysex  SysEx7Assembler
	)

	for i := 0; i < len(words); {
		mt := MessageType(words[i] >> 28)
		size := mt.Words()
		if i+size > len(words) {
			return events, malformed("%s packet at word %d truncated", mt, i)
		}
		pkt := words[i : i+size]
		i += size

		switch mt {
		case MTUtility:
			continue
		case MTData64:
			body, done, err := sysex.Push(Packet64{pkt[0], pkt[1]})
			if err != nil {
				return events, err
			}
			if !done {
				continue
			}
			e, err := decodeSysExBody(body, uint4(uint8(pkt[0]>>24)))
			if err != nil {
				return events, err
			}
			events = append(events, e)
		default:
			e, err := decodePacket(pkt)
			if err != nil {
				return events, err
			}
			events = append(events, e)
		}
	}

	for g := range 16 {
		if sysex.Open(Group{uint8(g)}) {
			return events, malformed("sysex in group %d not terminated", g)
		}
	}
	return events, nil
}
