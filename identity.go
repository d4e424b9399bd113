package main

import (
	"fmt"

	"midiwire/midi"
)

// General information sub-IDs of the universal non-real-time messages.
var (
	subGeneralInfo   = midi.MustUInt7(0x06)
	subIdentityReq   = midi.MustUInt7(0x01)
	subIdentityReply = midi.MustUInt7(0x02)
)

// Identity is the content of a universal identity reply.
type Identity struct {
	DeviceID     midi.UInt7
	Manufacturer midi.Manufacturer
	Family       midi.UInt14
	Model        midi.UInt14
	Version      [4]byte
}

func (id *Identity) String() string {
	return fmt.Sprintf("device 0x%02X manufacturer %s family %d model %d version % X",
		id.DeviceID.Uint8(), id.Manufacturer, id.Family.Int(), id.Model.Int(), id.Version[:])
}

type identityFields struct {
	DeviceID     int    `json:"deviceID"`
	Manufacturer string `json:"manufacturer"`
	Family       int    `json:"family"`
	Model        int    `json:"model"`
	Version      string `json:"version"`
}

func (id *Identity) fields() identityFields {
	return identityFields{
		DeviceID:     id.DeviceID.Int(),
		Manufacturer: id.Manufacturer.String(),
		Family:       id.Family.Int(),
		Model:        id.Model.Int(),
		Version:      midi.HexString(id.Version[:], " "),
	}
}

func identityRequest(deviceID midi.UInt7, group midi.Group) midi.UniversalSysEx7 {
	e, _ := midi.NewUniversalSysEx7(false, deviceID, subGeneralInfo, subIdentityReq, nil, group)
	return e
}

// parseIdentityReply reads F0 7E <dev> 06 02 <mfr> <family> <model> <version> F7.
func parseIdentityReply(e midi.Event) (*Identity, error) {
	u, ok := e.(midi.UniversalSysEx7)
	if !ok || u.RealTime || u.SubID1 != subGeneralInfo || u.SubID2 != subIdentityReply {
		return nil, fmt.Errorf("not an identity reply: %s", e)
	}

	data := u.Data()
	mfrLen := 1
	if len(data) > 0 && data[0] == 0x00 {
		mfrLen = 3
	}
	if len(data) != mfrLen+8 {
		return nil, fmt.Errorf("identity reply has %d data bytes, want %d", len(data), mfrLen+8)
	}

	mfr, err := manufacturerFromBytes(data[:mfrLen])
	if err != nil {
		return nil, err
	}
	rest := data[mfrLen:]

	// Data bytes of a decoded SysEx are already 7-bit.
	id := &Identity{
		DeviceID:     u.DeviceID,
		Manufacturer: mfr,
		Family:       midi.UInt14FromBytePair(midi.MustUInt7(int(rest[0])), midi.MustUInt7(int(rest[1]))),
		Model:        midi.UInt14FromBytePair(midi.MustUInt7(int(rest[2])), midi.MustUInt7(int(rest[3]))),
	}
	copy(id.Version[:], rest[4:8])
	return id, nil
}
