package midi

import "fmt"

const (
	sysExStart = 0xF0
	sysExEnd   = 0xF7

	universalNonRealTime = 0x7E
	universalRealTime    = 0x7F
)

// Manufacturer is a SysEx manufacturer ID in its one-byte (0x01...0x7D) or
// three-byte (0x00 xx yy) form. The zero value is the three-byte ID 00 00 00.
type Manufacturer struct {
	id   uint8
	ext1 uint8
	ext2 uint8
}

// OneByteManufacturer returns a one-byte ID. 0x00 introduces the three-byte
// form and 0x7E/0x7F are the universal IDs, so all three are rejected.
func OneByteManufacturer(id UInt7) (Manufacturer, error) {
	switch id.v {
	case 0x00, universalNonRealTime, universalRealTime:
		return Manufacturer{}, fmt.Errorf("%w: 0x%02X is not a one-byte manufacturer ID", ErrRange, id.v)
	}
	return Manufacturer{id: id.v}, nil
}

// ThreeByteManufacturer returns the extended ID 00 b1 b2.
func ThreeByteManufacturer(b1, b2 UInt7) Manufacturer {
	return Manufacturer{ext1: b1.v, ext2: b2.v}
}

// Wide reports whether the ID uses the three-byte form.
func (m Manufacturer) Wide() bool { return m.id == 0 }

// Bytes returns the ID as it appears on the wire after 0xF0.
func (m Manufacturer) Bytes() []byte { return m.appendTo(nil) }

func (m Manufacturer) appendTo(b []byte) []byte {
	if m.Wide() {
		return append(b, 0x00, m.ext1, m.ext2)
	}
	return append(b, m.id)
}

func (m Manufacturer) String() string {
	if m.Wide() {
		return fmt.Sprintf("00 %02X %02X", m.ext1, m.ext2)
	}
	return fmt.Sprintf("%02X", m.id)
}

// SysEx7 is a manufacturer specific 7-bit System Exclusive message. The data
// is held as a string so the value stays immutable and comparable.
type SysEx7 struct {
	Manufacturer Manufacturer
	data         string
	Group        Group
}

// NewSysEx7 copies data after checking every byte is 7-bit.
func NewSysEx7(mfr Manufacturer, data []byte, group Group) (SysEx7, error) {
	if err := check7Bit("sysex data", data); err != nil {
		return SysEx7{}, err
	}
	return SysEx7{Manufacturer: mfr, data: string(data), Group: group}, nil
}

func (SysEx7) Kind() Kind        { return KindSysEx7 }
func (e SysEx7) UMPGroup() Group { return e.Group }
func (SysEx7) isEvent()          {}

// Data returns a copy of the data bytes following the manufacturer ID.
func (e SysEx7) Data() []byte { return []byte(e.data) }

// Len is the number of data bytes, not counting the manufacturer ID.
func (e SysEx7) Len() int { return len(e.data) }

// Body is the manufacturer ID followed by the data, which is the byte
// sequence carried by UMP SysEx7 packets.
func (e SysEx7) Body() []byte {
	return append(e.Manufacturer.appendTo(make([]byte, 0, 3+len(e.data))), e.data...)
}

// Bytes returns the MIDI 1.0 form. The framing bytes can be left off when an
// outer transport supplies them.
func (e SysEx7) Bytes(leadingF0, trailingF7 bool) []byte {
	return frameSysEx(nil, e.Body(), leadingF0, trailingF7)
}

func (e SysEx7) String() string {
	return fmt.Sprintf("Group %d: sysex manufacturer %s, %d bytes: %s", e.Group.v, e.Manufacturer,
		len(e.data), HexString([]byte(e.data), " "))
}

// UniversalSysEx7 is a universal real-time (0x7F) or non-real-time (0x7E)
// System Exclusive message with its device ID and sub-ID header.
type UniversalSysEx7 struct {
	RealTime bool
	DeviceID UInt7
	SubID1   UInt7
	SubID2   UInt7
	data     string
	Group    Group
}

// AllDevices is the device ID that addresses every receiver.
var AllDevices = UInt7{0x7F}

// NewUniversalSysEx7 returns a universal system exclusive message. It fails
// if data holds a byte with the high bit set.
func NewUniversalSysEx7(realTime bool, deviceID, subID1, subID2 UInt7, data []byte, group Group) (UniversalSysEx7, error) {
	if err := check7Bit("sysex data", data); err != nil {
		return UniversalSysEx7{}, err
	}
	return UniversalSysEx7{
		RealTime: realTime,
		DeviceID: deviceID,
		SubID1:   subID1,
		SubID2:   subID2,
		data:     string(data),
		Group:    group,
	}, nil
}

func (UniversalSysEx7) Kind() Kind        { return KindUniversalSysEx7 }
func (e UniversalSysEx7) UMPGroup() Group { return e.Group }
func (UniversalSysEx7) isEvent()          {}

func (e UniversalSysEx7) Data() []byte { return []byte(e.data) }
func (e UniversalSysEx7) Len() int     { return len(e.data) }

func (e UniversalSysEx7) typeByte() uint8 {
	if e.RealTime {
		return universalRealTime
	}
	return universalNonRealTime
}

// Body is the universal header followed by the data.
func (e UniversalSysEx7) Body() []byte {
	b := make([]byte, 0, 4+len(e.data))
	b = append(b, e.typeByte(), e.DeviceID.v, e.SubID1.v, e.SubID2.v)
	return append(b, e.data...)
}

func (e UniversalSysEx7) Bytes(leadingF0, trailingF7 bool) []byte {
	return frameSysEx(nil, e.Body(), leadingF0, trailingF7)
}

func (e UniversalSysEx7) String() string {
	kind := "non-real-time"
	if e.RealTime {
		kind = "real-time"
	}
	return fmt.Sprintf("Group %d: universal %s sysex device %d sub-ID %02X %02X, %d bytes: %s",
		e.Group.v, kind, e.DeviceID.v, e.SubID1.v, e.SubID2.v, len(e.data),
		HexString([]byte(e.data), " "))
}

func frameSysEx(b, body []byte, leadingF0, trailingF7 bool) []byte {
	if leadingF0 {
		b = append(b, sysExStart)
	}
	b = append(b, body...)
	if trailingF7 {
		b = append(b, sysExEnd)
	}
	return b
}

func check7Bit(field string, data []byte) error {
	for i, b := range data {
		if b > MaxUInt7 {
			return &RangeError{Field: fmt.Sprintf("%s[%d]", field, i), Value: int64(b), Max: MaxUInt7}
		}
	}
	return nil
}

// decodeSysExBody builds a SysEx event from the bytes between 0xF0 and 0xF7.
func decodeSysExBody(body []byte, group Group) (Event, error) {
	for i, b := range body {
		if b > MaxUInt7 {
			return nil, malformed("sysex byte %d is 0x%02X", i, b)
		}
	}
	if len(body) == 0 {
		return nil, malformed("sysex without manufacturer ID")
	}

	switch body[0] {
	case universalNonRealTime, universalRealTime:
		if len(body) < 4 {
			return nil, malformed("universal sysex header needs 4 bytes, have %d", len(body))
		}
		return UniversalSysEx7{
			RealTime: body[0] == universalRealTime,
			DeviceID: UInt7{body[1]},
			SubID1:   UInt7{body[2]},
			SubID2:   UInt7{body[3]},
			data:     string(body[4:]),
			Group:    group,
		}, nil
	case 0x00:
		if len(body) < 3 {
			return nil, malformed("three-byte manufacturer ID truncated")
		}
		return SysEx7{
			Manufacturer: Manufacturer{ext1: body[1], ext2: body[2]},
			data:         string(body[3:]),
			Group:        group,
		}, nil
	}
	return SysEx7{Manufacturer: Manufacturer{id: body[0]}, data: string(body[1:]), Group: group}, nil
}

// sysExBody returns the chunked byte sequence of a SysEx event.
func sysExBody(e Event) ([]byte, bool) {
	switch e := e.(type) {
	case SysEx7:
		return e.Body(), true
	case UniversalSysEx7:
		return e.Body(), true
	}
	return nil, false
}
