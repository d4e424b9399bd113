package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"midiwire/midi"
)

// eventDefaults fills in the channel and group when an event spec leaves them out.
type eventDefaults struct {
	channel midi.Channel
	group   midi.Group
}

// specFields holds the key=value pairs of one event spec and remembers which
// ones were read, so unknown keys can be reported.
type specFields struct {
	vals map[string]string
	used map[string]bool
}

func (f *specFields) get(key string) (string, bool) {
	v, ok := f.vals[key]
	if ok {
		f.used[key] = true
	}
	return v, ok
}

func (f *specFields) number(key string, def int) (int, error) {
	s, ok := f.get(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, s)
	}
	return int(v), nil
}

func (f *specFields) uint7(key string, def int) (midi.UInt7, error) {
	v, err := f.number(key, def)
	if err != nil {
		return midi.UInt7{}, err
	}
	u, err := midi.NewUInt7(v)
	if err != nil {
		return midi.UInt7{}, fmt.Errorf("%s: %w", key, err)
	}
	return u, nil
}

func (f *specFields) uint4(key string, def midi.UInt4) (midi.UInt4, error) {
	v, err := f.number(key, def.Int())
	if err != nil {
		return midi.UInt4{}, err
	}
	u, err := midi.NewUInt4(v)
	if err != nil {
		return midi.UInt4{}, fmt.Errorf("%s: %w", key, err)
	}
	return u, nil
}

func (f *specFields) uint14(key string, def int) (midi.UInt14, error) {
	v, err := f.number(key, def)
	if err != nil {
		return midi.UInt14{}, err
	}
	u, err := midi.NewUInt14(v)
	if err != nil {
		return midi.UInt14{}, fmt.Errorf("%s: %w", key, err)
	}
	return u, nil
}

func (f *specFields) word(key string) (uint32, bool, error) {
	s, ok := f.get(key)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: invalid number %q", key, s)
	}
	u, err := midi.NewUInt32(v)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return u, true, nil
}

func (f *specFields) flag(key string) (bool, error) {
	s, ok := f.get(key)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, s)
	}
	return b, nil
}

func (f *specFields) note(key string) (midi.UInt7, error) {
	s, ok := f.get(key)
	if !ok {
		return midi.UInt7{}, fmt.Errorf("%s is required", key)
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		u, err := midi.NewUInt7(int(v))
		if err != nil {
			return midi.UInt7{}, fmt.Errorf("%s: %w", key, err)
		}
		return u, nil
	}
	n, err := midi.NoteFromName(s)
	if err != nil {
		return midi.UInt7{}, err
	}
	return n.Number(), nil
}

func (f *specFields) hexBytes(key string) ([]byte, error) {
	s, ok := f.get(key)
	if !ok {
		return nil, nil
	}
	return midi.ParseHex(s)
}

func (f *specFields) unused() []string {
	var keys []string
	for k := range f.vals {
		if !f.used[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// bareKeys names the arguments that may be given without a key, in order.
var bareKeys = map[string][]string{
	"noteon":       {"note", "vel"},
	"noteoff":      {"note", "vel"},
	"notepressure": {"note", "value"},
	"notecc":       {"note", "value"},
	"cc":           {"cc", "value"},
}

func bareKey(kind string, have map[string]string) string {
	keys, ok := bareKeys[kind]
	if !ok {
		keys = []string{"value"}
	}
	for _, k := range keys {
		if _, dup := have[k]; !dup {
			return k
		}
	}
	return keys[len(keys)-1]
}

var kindAliases = map[string]string{
	"on":           "noteon",
	"off":          "noteoff",
	"polypressure": "notepressure",
	"program":      "pc",
	"aftertouch":   "pressure",
	"pitchbend":    "bend",
	"mtc":          "qf",
	"songpos":      "spp",
	"tunerequest":  "tune",
	"activesense":  "sensing",
}

// parseEvent reads a one-line event spec such as
//
//	noteon C4 vel=100 ch=1
//	cc sustain value=127
//	sysex mfr=41 data="10 20 30"
//
// Numbers may be decimal or 0x hex.
func parseEvent(spec string, def eventDefaults) (midi.Event, error) {
	tokens := splitSpec(spec)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty event spec")
	}

	kind := strings.ToLower(tokens[0])
	if alias, ok := kindAliases[kind]; ok {
		kind = alias
	}

	f := &specFields{vals: make(map[string]string), used: make(map[string]bool)}
	for _, tok := range tokens[1:] {
		key, val, ok := strings.Cut(tok, "=")
		if !ok {
			key, val = bareKey(kind, f.vals), tok
		}
		key = strings.ToLower(key)
		if _, dup := f.vals[key]; dup {
			return nil, fmt.Errorf("%s given twice", key)
		}
		f.vals[key] = val
	}

	ch, err := f.uint4("ch", def.channel)
	if err != nil {
		return nil, err
	}
	group, err := f.uint4("group", def.group)
	if err != nil {
		return nil, err
	}

	e, err := buildEvent(kind, f, ch, group)
	if err != nil {
		return nil, err
	}
	if extra := f.unused(); len(extra) > 0 {
		return nil, fmt.Errorf("%s does not take %s", kind, strings.Join(extra, ", "))
	}
	return e, nil
}

func buildEvent(kind string, f *specFields, ch midi.Channel, group midi.Group) (midi.Event, error) {
	switch kind {
	case "noteon", "noteoff":
		note, err := f.note("note")
		if err != nil {
			return nil, err
		}
		vel, err := velocity(f, kind == "noteon")
		if err != nil {
			return nil, err
		}
		attrType, err := f.number("attr", 0)
		if err != nil {
			return nil, err
		}
		attrData, err := f.number("attrdata", 0)
		if err != nil {
			return nil, err
		}
		if attrType < 0 || attrType > 0xFF || attrData < 0 || attrData > 0xFFFF {
			return nil, fmt.Errorf("note attribute %d/%d out of range", attrType, attrData)
		}
		attr := midi.NoteAttribute{Type: uint8(attrType), Data: uint16(attrData)}
		if kind == "noteon" {
			e := midi.NewNoteOn(note, vel, ch, group)
			e.Attribute = attr
			return e, nil
		}
		e := midi.NewNoteOff(note, vel, ch, group)
		e.Attribute = attr
		return e, nil

	case "notepressure":
		note, err := f.note("note")
		if err != nil {
			return nil, err
		}
		amt, err := amount(f, 0)
		if err != nil {
			return nil, err
		}
		return midi.NewNotePressure(note, amt, ch, group), nil

	case "notecc":
		note, err := f.note("note")
		if err != nil {
			return nil, err
		}
		index, err := f.number("index", 0)
		if err != nil {
			return nil, err
		}
		if index < 0 || index > 0xFF {
			return nil, fmt.Errorf("index %d out of range 0...255", index)
		}
		assignable, err := f.flag("assignable")
		if err != nil {
			return nil, err
		}
		value, _, err := f.word("value")
		if err != nil {
			return nil, err
		}
		ctrl := midi.RegisteredPerNote(uint8(index))
		if assignable {
			ctrl = midi.AssignablePerNote(uint8(index))
		}
		return midi.NewNoteCC(note, ctrl, value, ch, group), nil

	case "cc":
		ctrl, err := controller(f)
		if err != nil {
			return nil, err
		}
		amt, err := amount(f, 0)
		if err != nil {
			return nil, err
		}
		return midi.NewCCController(ctrl, amt, ch, group), nil

	case "pc":
		program, err := f.uint7("value", 0)
		if err != nil {
			return nil, err
		}
		if s, ok := f.get("bank"); ok {
			bank, err := parseBank(s)
			if err != nil {
				return nil, err
			}
			return midi.NewProgramChangeBank(program, bank, ch, group), nil
		}
		return midi.NewProgramChange(program, ch, group), nil

	case "pressure":
		amt, err := amount(f, 0)
		if err != nil {
			return nil, err
		}
		return midi.NewChannelPressure(amt, ch, group), nil

	case "bend":
		if v, ok, err := f.word("value32"); err != nil {
			return nil, err
		} else if ok {
			return midi.NewPitchBend(midi.BendFromMIDI2(v), ch, group), nil
		}
		if s, ok := f.vals["value"]; ok && strings.EqualFold(s, "center") {
			f.used["value"] = true
			return midi.NewPitchBend(midi.BendCenter, ch, group), nil
		}
		v, err := f.uint14("value", midi.MidpointUInt14.Int())
		if err != nil {
			return nil, err
		}
		return midi.NewPitchBend(midi.BendFromMIDI1(v), ch, group), nil

	case "qf":
		v, err := f.uint7("value", 0)
		if err != nil {
			return nil, err
		}
		return midi.NewTimecodeQuarterFrame(v, group), nil

	case "spp":
		v, err := f.uint14("value", 0)
		if err != nil {
			return nil, err
		}
		return midi.NewSongPosition(v, group), nil

	case "songselect":
		v, err := f.uint7("value", 0)
		if err != nil {
			return nil, err
		}
		return midi.NewSongSelect(v, group), nil

	case "tune":
		return midi.NewTuneRequest(group), nil
	case "clock":
		return midi.TimingClock(group), nil
	case "start":
		return midi.Start(group), nil
	case "continue":
		return midi.Continue(group), nil
	case "stop":
		return midi.Stop(group), nil
	case "sensing":
		return midi.ActiveSensing(group), nil
	case "reset":
		return midi.SystemReset(group), nil

	case "sysex":
		mfr, err := manufacturer(f)
		if err != nil {
			return nil, err
		}
		data, err := f.hexBytes("data")
		if err != nil {
			return nil, err
		}
		return midi.NewSysEx7(mfr, data, group)

	case "universal":
		realTime, err := f.flag("rt")
		if err != nil {
			return nil, err
		}
		dev, err := f.uint7("dev", midi.AllDevices.Int())
		if err != nil {
			return nil, err
		}
		sub1, err := f.uint7("sub1", 0)
		if err != nil {
			return nil, err
		}
		sub2, err := f.uint7("sub2", 0)
		if err != nil {
			return nil, err
		}
		data, err := f.hexBytes("data")
		if err != nil {
			return nil, err
		}
		return midi.NewUniversalSysEx7(realTime, dev, sub1, sub2, data, group)
	}
	return nil, fmt.Errorf("unknown event kind %q", kind)
}

// velocity reads vel (7-bit) or vel16 (16-bit). Note on defaults to 100.
func velocity(f *specFields, on bool) (midi.Velocity, error) {
	if s, ok := f.get("vel16"); ok {
		v, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return midi.Velocity{}, fmt.Errorf("vel16: invalid value %q", s)
		}
		return midi.VelocityFromMIDI2(uint16(v)), nil
	}
	def := 0
	if on {
		def = 100
	}
	v, err := f.uint7("vel", def)
	if err != nil {
		return midi.Velocity{}, err
	}
	return midi.VelocityFromMIDI1(v), nil
}

// amount reads value (7-bit) or value32 (32-bit).
func amount(f *specFields, def int) (midi.Amount, error) {
	if v, ok, err := f.word("value32"); err != nil {
		return midi.Amount{}, err
	} else if ok {
		return midi.AmountFromMIDI2(v), nil
	}
	v, err := f.uint7("value", def)
	if err != nil {
		return midi.Amount{}, err
	}
	return midi.AmountFromMIDI1(v), nil
}

func controller(f *specFields) (midi.Controller, error) {
	s, ok := f.get("cc")
	if !ok {
		return midi.Controller{}, fmt.Errorf("cc is required")
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		u, err := midi.NewUInt7(int(v))
		if err != nil {
			return midi.Controller{}, fmt.Errorf("cc: %w", err)
		}
		return midi.ControllerFromNumber(u), nil
	}
	c, ok := midi.ControllerFromName(s)
	if !ok {
		return midi.Controller{}, fmt.Errorf("unknown controller %q", s)
	}
	return c, nil
}

// parseBank reads "msb:lsb" or "msb/lsb".
func parseBank(s string) (midi.Bank, error) {
	msbText, lsbText, ok := strings.Cut(strings.ReplaceAll(s, "/", ":"), ":")
	if !ok {
		lsbText = "0"
	}
	var parts [2]midi.UInt7
	for i, text := range []string{msbText, lsbText} {
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return midi.Bank{}, fmt.Errorf("bank: invalid number %q", text)
		}
		u, err := midi.NewUInt7(int(v))
		if err != nil {
			return midi.Bank{}, fmt.Errorf("bank: %w", err)
		}
		parts[i] = u
	}
	return midi.BankSelect(parts[0], parts[1]), nil
}

// manufacturer reads mfr as one byte ("41") or three bytes ("00 20 29").
func manufacturer(f *specFields) (midi.Manufacturer, error) {
	b, err := f.hexBytes("mfr")
	if err != nil {
		return midi.Manufacturer{}, err
	}
	return manufacturerFromBytes(b)
}

func manufacturerFromBytes(b []byte) (midi.Manufacturer, error) {
	switch {
	case len(b) == 1:
		id, err := midi.NewUInt7(int(b[0]))
		if err != nil {
			return midi.Manufacturer{}, fmt.Errorf("mfr: %w", err)
		}
		return midi.OneByteManufacturer(id)
	case len(b) == 3 && b[0] == 0x00:
		b1, err := midi.NewUInt7(int(b[1]))
		if err != nil {
			return midi.Manufacturer{}, fmt.Errorf("mfr: %w", err)
		}
		b2, err := midi.NewUInt7(int(b[2]))
		if err != nil {
			return midi.Manufacturer{}, fmt.Errorf("mfr: %w", err)
		}
		return midi.ThreeByteManufacturer(b1, b2), nil
	}
	return midi.Manufacturer{}, fmt.Errorf("mfr must be one byte or 00 xx yy, got % X", b)
}

// splitSpec splits on whitespace, keeping double-quoted runs together so
// hex data can contain spaces.
func splitSpec(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
		case unicode.IsSpace(r) && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseNoteToken reads one token of a melody: a note name, a note number or
// a rest ("r" or "rest").
func parseNoteToken(tok string) (midi.UInt7, bool, error) {
	t := strings.TrimSpace(tok)
	if t == "" {
		return midi.UInt7{}, false, fmt.Errorf("empty token")
	}
	if strings.EqualFold(t, "r") || strings.EqualFold(t, "rest") {
		return midi.UInt7{}, true, nil
	}
	if v, err := strconv.Atoi(t); err == nil {
		u, err := midi.NewUInt7(v)
		return u, false, err
	}
	n, err := midi.NoteFromName(t)
	if err != nil {
		return midi.UInt7{}, false, err
	}
	return n.Number(), false, nil
}

// splitNotes splits a melody on whitespace and , ; |.
func splitNotes(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '|'
	})
}
