package midi

// DecodeByteStream decodes a captured MIDI 1.0 byte stream into events. It
// follows running status, accepts real-time bytes anywhere (including inside
// SysEx) and fails at the first inconsistent byte. A truncated final message
// is an error.
func DecodeByteStream(b []byte, group Group) ([]Event, error) {
	var (
		events  []Event
		running uint8
		sysex   = -1 // start offset of an open SysEx body
		data    [2]byte
		have    int
	)

	for i, c := range b {
		if c >= 0xF8 {
			e, err := decodeMIDI1(c, nil, group)
			if err != nil {
				return events, streamError(err, i)
			}
			events = append(events, e)
			continue
		}

		if sysex >= 0 {
			switch {
			case c == sysExEnd:
				body := make([]byte, 0, i-sysex)
				for _, d := range b[sysex:i] {
					if d < 0xF8 {
						body = append(body, d)
					}
				}
				e, err := decodeSysExBody(body, group)
				if err != nil {
					return events, streamError(err, i)
				}
				events = append(events, e)
				sysex = -1
			case c >= 0x80:
				return events, malformed("status byte 0x%02X at offset %d inside sysex", c, i)
			}
			continue
		}

		if c >= 0x80 {
			if have > 0 {
				return events, malformed("status byte 0x%02X at offset %d interrupts 0x%02X", c, i, running)
			}
			switch {
			case c == sysExStart:
				sysex = i + 1
				running = 0
				continue
			case dataLength(c) < 0:
				return events, malformed("undefined status byte 0x%02X at offset %d", c, i)
			}
			running = c
			if dataLength(c) == 0 {
				e, err := decodeMIDI1(c, nil, group)
				if err != nil {
					return events, streamError(err, i)
				}
				events = append(events, e)
				running = 0
			}
			continue
		}

		if running == 0 {
			return events, malformed("data byte 0x%02X at offset %d without status", c, i)
		}
		data[have] = c
		have++
		if have < dataLength(running) {
			continue
		}
		e, err := decodeMIDI1(running, data[:have], group)
		if err != nil {
			return events, streamError(err, i)
		}
		events = append(events, e)
		have = 0
		// System common messages do not establish running status.
		if running >= 0xF0 {
			running = 0
		}
	}

	switch {
	case sysex >= 0:
		return events, malformed("sysex not terminated by 0xF7")
	case have > 0:
		return events, malformed("message 0x%02X truncated", running)
	}
	return events, nil
}

func streamError(err error, offset int) error {
	return malformed("at offset %d: %v", offset, err)
}
