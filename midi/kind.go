package midi

import (
	"fmt"
	"strings"
)

// Protocol selects the UMP envelope used by ToWords.
type Protocol uint8

const (
	Protocol1 Protocol = 1 // MIDI 1.0 protocol (MIDI 1.0 messages in UMP)
	Protocol2 Protocol = 2 // MIDI 2.0 protocol
)

func (p Protocol) String() string {
	switch p {
	case Protocol1:
		return "1.0"
	case Protocol2:
		return "2.0"
	}
	return fmt.Sprintf("Protocol(%d)", uint8(p))
}

// ParseProtocol accepts "1", "1.0", "2" or "2.0".
func ParseProtocol(s string) (Protocol, error) {
	switch strings.TrimSpace(s) {
	case "1", "1.0":
		return Protocol1, nil
	case "2", "2.0":
		return Protocol2, nil
	}
	return 0, fmt.Errorf("unknown MIDI protocol %q", s)
}

// MessageType is the UMP message type, the high nibble of every packet.
type MessageType uint8

const (
	MTUtility           MessageType = 0x0
	MTSystem            MessageType = 0x1
	MTMIDI1ChannelVoice MessageType = 0x2
	MTData64            MessageType = 0x3
	MTMIDI2ChannelVoice MessageType = 0x4
	MTData128           MessageType = 0x5
	MTFlexData          MessageType = 0xD
	MTUMPStream         MessageType = 0xF
)

// messageTypeSizes is the packet size in words for every message type,
// including the reserved ones, so a stream can be split without
// understanding every packet.
var messageTypeSizes = [16]int{
	0x0: 1, 0x1: 1, 0x2: 1, 0x3: 2,
	0x4: 2, 0x5: 4, 0x6: 1, 0x7: 1,
	0x8: 2, 0x9: 2, 0xA: 2, 0xB: 3,
	0xC: 3, 0xD: 4, 0xE: 4, 0xF: 4,
}

// Words returns the packet size of the message type in 32-bit words.
func (t MessageType) Words() int { return messageTypeSizes[t&0xF] }

func (t MessageType) String() string {
	switch t {
	case MTUtility:
		return "utility"
	case MTSystem:
		return "system"
	case MTMIDI1ChannelVoice:
		return "MIDI 1.0 channel voice"
	case MTData64:
		return "data 64"
	case MTMIDI2ChannelVoice:
		return "MIDI 2.0 channel voice"
	case MTData128:
		return "data 128"
	case MTFlexData:
		return "flex data"
	case MTUMPStream:
		return "UMP stream"
	}
	return fmt.Sprintf("reserved 0x%X", uint8(t))
}

// Kind tags each Event variant.
type Kind uint8

const (
	KindNoteOff Kind = iota + 1
	KindNoteOn
	KindNotePressure
	KindNoteCC
	KindCC
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindTimecodeQuarterFrame
	KindSongPosition
	KindSongSelect
	KindTuneRequest
	KindTimingClock
	KindStart
	KindContinue
	KindStop
	KindActiveSensing
	KindSystemReset
	KindSysEx7
	KindUniversalSysEx7
)

type class uint8

const (
	classChannelVoice class = iota + 1
	classMIDI2ChannelVoice
	classSystem
	classData64
)

// classTypes maps a class to its message type under each protocol. A zero
// entry means the class has no representation in that protocol.
var classTypes = map[class][3]MessageType{
	classChannelVoice:      {Protocol1: MTMIDI1ChannelVoice, Protocol2: MTMIDI2ChannelVoice},
	classMIDI2ChannelVoice: {Protocol2: MTMIDI2ChannelVoice},
	classSystem:            {Protocol1: MTSystem, Protocol2: MTSystem},
	classData64:            {Protocol1: MTData64, Protocol2: MTData64},
}

type kindSpec struct {
	name   string
	class  class
	status uint8 // status nibble (channel voice) or status byte (system)
}

var kinds = [...]kindSpec{
	KindNoteOff:              {"note off", classChannelVoice, 0x8},
	KindNoteOn:               {"note on", classChannelVoice, 0x9},
	KindNotePressure:         {"note pressure", classChannelVoice, 0xA},
	KindNoteCC:               {"per-note controller", classMIDI2ChannelVoice, 0x0},
	KindCC:                   {"control change", classChannelVoice, 0xB},
	KindProgramChange:        {"program change", classChannelVoice, 0xC},
	KindChannelPressure:      {"channel pressure", classChannelVoice, 0xD},
	KindPitchBend:            {"pitch bend", classChannelVoice, 0xE},
	KindTimecodeQuarterFrame: {"timecode quarter frame", classSystem, 0xF1},
	KindSongPosition:         {"song position pointer", classSystem, 0xF2},
	KindSongSelect:           {"song select", classSystem, 0xF3},
	KindTuneRequest:          {"tune request", classSystem, 0xF6},
	KindTimingClock:          {"timing clock", classSystem, 0xF8},
	KindStart:                {"start", classSystem, 0xFA},
	KindContinue:             {"continue", classSystem, 0xFB},
	KindStop:                 {"stop", classSystem, 0xFC},
	KindActiveSensing:        {"active sensing", classSystem, 0xFE},
	KindSystemReset:          {"system reset", classSystem, 0xFF},
	KindSysEx7:               {"system exclusive", classData64, 0xF0},
	KindUniversalSysEx7:      {"universal system exclusive", classData64, 0xF0},
}

func (k Kind) spec() kindSpec {
	if int(k) < len(kinds) {
		return kinds[k]
	}
	return kindSpec{}
}

func (k Kind) String() string {
	if s := k.spec(); s.name != "" {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MessageType returns the UMP message type used for the kind under p, or an
// ErrUnsupportedProtocol error if the kind cannot be sent in that protocol.
func (k Kind) MessageType(p Protocol) (MessageType, error) {
	s := k.spec()
	types, ok := classTypes[s.class]
	if !ok {
		return 0, fmt.Errorf("unknown event kind %d", uint8(k))
	}
	if p != Protocol1 && p != Protocol2 {
		return 0, unsupported("protocol %s", p)
	}
	mt := types[p]
	if mt == MTUtility {
		return 0, unsupported("%s has no MIDI %s representation", k, p)
	}
	return mt, nil
}

// systemKinds indexes system kinds by their status byte.
var systemKinds = func() map[uint8]Kind {
	m := make(map[uint8]Kind)
	for k, s := range kinds {
		if s.class == classSystem {
			m[s.status] = Kind(k)
		}
	}
	return m
}()
