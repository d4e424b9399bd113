package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midiwire/midi"
)

func dumpBytes(data []byte, what string) {
	f := os.Stderr

	fmt.Fprintf(f, "Dumping %d bytes of %s:\n", len(data), what)

	for i, b := range data {
		fmt.Fprintf(f, "%d 0x%02X\n", i, b)
	}
}

// Output sends events as MIDI 1.0 bytes to one output port.
type Output struct {
	out   drivers.Out
	debug bool
}

func OpenOutput(portIndex int, debug bool) (*Output, func(), error) {
	outs, err := drivers.Outs()
	if err != nil {
		return nil, nil, err
	}

	if portIndex < 0 || portIndex >= len(outs) {
		return nil, nil, fmt.Errorf("output port index %d out of range", portIndex)
	}

	out := outs[portIndex]
	if err := out.Open(); err != nil {
		return nil, nil, err
	}

	closer := func() {
		_ = out.Close()
		drivers.Close()
	}
	log.Println("[port] Opened MIDI output port", out.String())
	return &Output{
		out:   out,
		debug: debug,
	}, closer, nil
}

func (o *Output) Name() string { return o.out.String() }

// Send encodes e and writes it to the port.
func (o *Output) Send(e midi.Event) error {
	b, err := midi.ToBytes(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Kind(), err)
	}
	return o.SendBytes(b)
}

func (o *Output) SendBytes(b []byte) error {
	if !o.out.IsOpen() {
		if err := o.out.Open(); err != nil {
			return err
		}
	}
	if o.debug {
		dumpBytes(b, "outgoing message")
	}
	return o.out.Send(b)
}

// listen decodes every message arriving on inPort into group and hands it
// to fn. Messages that do not decode go to onError.
func listen(inPort drivers.In, group midi.Group, fn func(e midi.Event, ms int32), onError func(err error)) (func(), error) {
	return gomidi.ListenTo(inPort, func(msg gomidi.Message, ms int32) {
		e, err := midi.DecodeBytes(msg.Bytes(), group)
		if err != nil {
			onError(err)
			return
		}
		fn(e, ms)
	}, gomidi.UseSysEx(), gomidi.SysExBufferSize(4096))
}

// RequestIdentity sends a universal identity request and waits for the
// first identity reply on inPort.
func (o *Output) RequestIdentity(inPort drivers.In, deviceID midi.UInt7, group midi.Group, timeout time.Duration) (*Identity, error) {
	replyCh := make(chan *Identity, 1)

	stop, err := listen(inPort, group, func(e midi.Event, _ int32) {
		id, err := parseIdentityReply(e)
		if err != nil {
			return
		}
		select {
		case replyCh <- id:
		default:
		}
	}, func(err error) {
		log.Printf("[port] Ignoring undecodable input: %v", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to listen for identity reply: %w", err)
	}
	defer stop()

	req := identityRequest(deviceID, group)
	log.Printf("[port] Requesting identity from device ID 0x%02X", deviceID.Uint8())
	if err := o.Send(req); err != nil {
		return nil, fmt.Errorf("failed to send identity request: %w", err)
	}

	select {
	case id := <-replyCh:
		log.Println("[port] Received identity reply")
		return id, nil
	case <-time.After(timeout):
		log.Println("[port] Timed out waiting for identity reply")
	}

	return nil, errors.New("timed out waiting for identity reply")
}
