package midi

import (
	"fmt"
	"iter"
)

// SysExStatus is the status nibble of a 64-bit data packet.
type SysExStatus uint8

const (
	SysExComplete SysExStatus = 0x0 // whole message in one packet
	SysExStart    SysExStatus = 0x1
	SysExContinue SysExStatus = 0x2
	SysExEnd      SysExStatus = 0x3
)

func (s SysExStatus) String() string {
	switch s {
	case SysExComplete:
		return "complete"
	case SysExStart:
		return "start"
	case SysExContinue:
		return "continue"
	case SysExEnd:
		return "end"
	}
	return fmt.Sprintf("SysExStatus(%d)", uint8(s))
}

// sysExStride is the number of data bytes one packet can carry.
const sysExStride = 6

// Packet64 is one two-word UMP packet.
type Packet64 [2]uint32

func (p Packet64) MessageType() MessageType { return MessageType(p[0] >> 28) }
func (p Packet64) Group() Group             { return uint4(uint8(p[0] >> 24)) }
func (p Packet64) Status() SysExStatus      { return SysExStatus(p[0] >> 20 & 0xF) }

// ByteCount is the declared number of valid data bytes, which may exceed
// six in a corrupt packet.
func (p Packet64) ByteCount() int { return int(p[0] >> 16 & 0xF) }

// Data returns the six data byte slots, including zero padding.
func (p Packet64) Data() [6]byte {
	return [6]byte{
		byte(p[0] >> 8), byte(p[0]),
		byte(p[1] >> 24), byte(p[1] >> 16), byte(p[1] >> 8), byte(p[1]),
	}
}

func (p Packet64) String() string {
	return fmt.Sprintf("%08X %08X", p[0], p[1])
}

func newPacket64(group Group, status SysExStatus, stride []byte) Packet64 {
	var d [6]byte
	copy(d[:], stride)
	return Packet64{
		uint32(MTData64)<<28 | uint32(group.v)<<24 | uint32(status)<<20 | uint32(len(stride))<<16 |
			uint32(d[0])<<8 | uint32(d[1]),
		uint32(d[2])<<24 | uint32(d[3])<<16 | uint32(d[4])<<8 | uint32(d[5]),
	}
}

// sysExStatusAt picks the status of the stride starting at pos.
func sysExStatusAt(pos, n int) SysExStatus {
	last := n-pos <= sysExStride
	switch {
	case pos == 0 && last:
		return SysExComplete
	case pos == 0:
		return SysExStart
	case last:
		return SysExEnd
	}
	return SysExContinue
}

// SysEx7Chunks yields the packets carrying data, six bytes at a time. Empty
// data yields nothing. The data must be 7-bit; it is not checked here.
func SysEx7Chunks(data []byte, group Group) iter.Seq[Packet64] {
	return func(yield func(Packet64) bool) {
		for pos := 0; pos < len(data); pos += sysExStride {
			end := min(pos+sysExStride, len(data))
			if !yield(newPacket64(group, sysExStatusAt(pos, len(data)), data[pos:end])) {
				return
			}
		}
	}
}

// SysEx7Packets is the eager form of SysEx7Chunks.
func SysEx7Packets(data []byte, group Group) []Packet64 {
	packets := make([]Packet64, 0, (len(data)+sysExStride-1)/sysExStride)
	for p := range SysEx7Chunks(data, group) {
		packets = append(packets, p)
	}
	return packets
}

// SysEx7Assembler joins SysEx7 packets back into message bodies. Each group
// has its own message in progress, so packets from different groups may be
// interleaved. The zero value is ready to use.
type SysEx7Assembler struct {
	open    [16]bool
	pending [16][]byte
}

// Push adds a packet. When the packet completes a message, Push returns its
// body and done is true. A packet that breaks the start, continue, end
// sequence discards the message in progress for its group and returns an
// error wrapping ErrMalformed.
func (a *SysEx7Assembler) Push(p Packet64) (body []byte, done bool, err error) {
	if mt := p.MessageType(); mt != MTData64 {
		return nil, false, malformed("message type %s in sysex packet", mt)
	}
	g := p.Group().v
	n := p.ByteCount()
	if n > sysExStride {
		a.reset(g)
		return nil, false, malformed("sysex packet byte count %d", n)
	}
	d := p.Data()
	for i, b := range d[:n] {
		if b > MaxUInt7 {
			a.reset(g)
			return nil, false, malformed("sysex packet data byte %d is 0x%02X", i, b)
		}
	}

	switch st := p.Status(); st {
	case SysExComplete:
		if a.open[g] {
			a.reset(g)
			return nil, false, malformed("complete packet while group %d sysex is open", g)
		}
		return append([]byte(nil), d[:n]...), true, nil
	case SysExStart:
		if a.open[g] {
			a.reset(g)
			return nil, false, malformed("start packet while group %d sysex is open", g)
		}
		a.open[g] = true
		a.pending[g] = append(a.pending[g][:0], d[:n]...)
		return nil, false, nil
	case SysExContinue, SysExEnd:
		if !a.open[g] {
			return nil, false, malformed("%s packet without start in group %d", st, g)
		}
		a.pending[g] = append(a.pending[g], d[:n]...)
		if st == SysExContinue {
			return nil, false, nil
		}
		body = a.pending[g]
		a.open[g] = false
		a.pending[g] = nil
		return body, true, nil
	default:
		a.reset(g)
		return nil, false, malformed("sysex packet status %d", uint8(st))
	}
}

// Open reports whether a message is in progress for group.
func (a *SysEx7Assembler) Open(group Group) bool { return a.open[group.v] }

func (a *SysEx7Assembler) reset(g uint8) {
	a.open[g] = false
	a.pending[g] = nil
}

// ReassembleSysEx7 joins the packets of exactly one message and returns its
// body and group.
func ReassembleSysEx7(packets []Packet64) ([]byte, Group, error) {
	if len(packets) == 0 {
		return nil, Group{}, malformed("no sysex packets")
	}
	group := packets[0].Group()

	var a SysEx7Assembler
	for i, p := range packets {
		if p.Group() != group {
			return nil, group, malformed("packet %d is in group %d, message started in group %d", i, p.Group().v, group.v)
		}
		body, done, err := a.Push(p)
		if err != nil {
			return nil, group, err
		}
		if done {
			if i != len(packets)-1 {
				return nil, group, malformed("%d packets after end of sysex", len(packets)-1-i)
			}
			return body, group, nil
		}
	}
	return nil, group, malformed("sysex not terminated by an end packet")
}
