package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	_ "embed"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midiwire/midi"
)

// mcpPorts holds the ports the MCP tools may use. Either can be nil.
type mcpPorts struct {
	out *Output
	in  drivers.In
}

// encodedEvent is the JSON shape of an event and its wire forms. A form the
// event cannot take carries the error text instead.
type encodedEvent struct {
	Kind     string `json:"kind"`
	Event    string `json:"event"`
	Bytes    string `json:"bytes,omitempty"`
	BytesErr string `json:"bytesError,omitempty"`
	UMP      string `json:"ump,omitempty"`
	UMPErr   string `json:"umpError,omitempty"`
	Protocol string `json:"protocol"`
}

type encodedPacket struct {
	Words     string `json:"words"`
	Status    string `json:"status"`
	ByteCount int    `json:"byteCount"`
	Data      string `json:"data"`
}

type tools struct {
	cfg   *Config
	ports mcpPorts
}

func newMCPServer(cfg *Config, ports mcpPorts) *server.MCPServer {
	t := &tools{cfg: cfg, ports: ports}

	s := server.NewMCPServer(
		"midiwire",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("midi_describe-formats",
		mcp.WithDescription("Returns the event spec syntax and a summary of the MIDI 1.0 byte and UMP word formats."),
	), docToolHandler)

	s.AddTool(mcp.NewTool("midi_encode",
		mcp.WithDescription("Encodes an event to MIDI 1.0 bytes and UMP words."),
		mcp.WithString("event", mcp.Required(), mcp.Description(`The event spec, e.g. "noteon C4 vel=100 ch=0" or "cc sustain 127".`)),
		mcp.WithString("protocol", mcp.Description(`The UMP protocol, "1.0" or "2.0". Defaults to the configured protocol.`)),
	), t.encode)

	s.AddTool(mcp.NewTool("midi_decode-bytes",
		mcp.WithDescription("Decodes a MIDI 1.0 byte stream given as hex. Running status and interleaved real-time bytes are accepted."),
		mcp.WithString("hex", mcp.Required(), mcp.Description(`The bytes, e.g. "90 3C 64".`)),
		mcp.WithNumber("group", mcp.Description("The UMP group the decoded events are placed in (0-15).")),
	), t.decodeBytes)

	s.AddTool(mcp.NewTool("midi_decode-words",
		mcp.WithDescription("Decodes a UMP stream given as 32-bit hex words."),
		mcp.WithString("words", mcp.Required(), mcp.Description(`The words, e.g. "40903C00 C9240000".`)),
	), t.decodeWords)

	s.AddTool(mcp.NewTool("midi_chunk-sysex",
		mcp.WithDescription("Splits a SysEx body into UMP data 64 packets."),
		mcp.WithString("hex", mcp.Required(), mcp.Description("The body without F0 and F7, e.g. \"41 10 42 12\". Framing bytes are stripped if present.")),
		mcp.WithNumber("group", mcp.Description("The UMP group (0-15).")),
	), t.chunkSysEx)

	s.AddTool(mcp.NewTool("midi_send",
		mcp.WithDescription("Sends an event to the configured MIDI output port as MIDI 1.0 bytes."),
		mcp.WithString("event", mcp.Required(), mcp.Description("The event spec, as for midi_encode.")),
	), t.send)

	s.AddTool(mcp.NewTool("midi_play",
		mcp.WithDescription("Plays notes on the configured MIDI output port."),
		mcp.WithString("notes", mcp.Required(), mcp.Description(`Note names or numbers, e.g. "C4 E4 G4 r C5". "r" is a rest.`)),
		mcp.WithBoolean("chord", mcp.Description("Strike all notes together instead of one after another.")),
	), t.play)

	s.AddTool(mcp.NewTool("midi_identify",
		mcp.WithDescription("Sends a universal identity request and returns the first reply."),
		mcp.WithNumber("device", mcp.Description("The target device ID (0-127, 127 = all devices).")),
	), t.identify)

	return s
}

func runMCP(cfg *Config, ports mcpPorts) error {
	s := newMCPServer(cfg, ports)

	log.Println("Starting midiwire MCP server...")

	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

//go:embed docs/formats.txt
var formatsDoc string

func docToolHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling format documentation request.")

	return mcp.NewToolResultText(formatsDoc), nil
}

func (t *tools) group(request mcp.CallToolRequest) (midi.Group, error) {
	g, err := midi.NewUInt4(request.GetInt("group", t.cfg.Group))
	if err != nil {
		return midi.Group{}, fmt.Errorf("group: %w", err)
	}
	return g, nil
}

func (t *tools) encode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling encode request.")

	spec, err := request.RequireString("event")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := midi.ParseProtocol(request.GetString("protocol", t.cfg.Protocol))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := parseEvent(spec, t.cfg.defaults())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(encodeEvent(e, p, t.cfg.HexSeparator))
}

func encodeEvent(e midi.Event, p midi.Protocol, sep string) encodedEvent {
	enc := encodedEvent{Kind: e.Kind().String(), Event: e.String(), Protocol: p.String()}
	if b, err := midi.ToBytes(e); err != nil {
		enc.BytesErr = err.Error()
	} else {
		enc.Bytes = midi.HexString(b, sep)
	}
	if w, err := midi.ToWords(e, p); err != nil {
		enc.UMPErr = err.Error()
	} else {
		enc.UMP = midi.WordsString(w, " ")
	}
	return enc
}

func (t *tools) decodeBytes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling decode bytes request.")

	s, err := request.RequireString("hex")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := t.group(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := midi.ParseHex(s)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := midi.DecodeByteStream(b, group)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.eventsResult(events)
}

func (t *tools) decodeWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling decode words request.")

	s, err := request.RequireString("words")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	words, err := midi.ParseWords(s)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := midi.DecodeWordStream(words)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.eventsResult(events)
}

func (t *tools) eventsResult(events []midi.Event) (*mcp.CallToolResult, error) {
	p := t.cfg.protocol()
	out := make([]encodedEvent, len(events))
	for i, e := range events {
		out[i] = encodeEvent(e, p, t.cfg.HexSeparator)
	}
	return jsonResult(out)
}

func (t *tools) chunkSysEx(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling chunk sysex request.")

	s, err := request.RequireString("hex")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := t.group(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := midi.ParseHex(s)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var packets []encodedPacket
	for p := range midi.SysEx7Chunks(stripSysExFraming(b), group) {
		d := p.Data()
		packets = append(packets, encodedPacket{
			Words:     midi.WordsString(p[:], " "),
			Status:    p.Status().String(),
			ByteCount: p.ByteCount(),
			Data:      midi.HexString(d[:p.ByteCount()], t.cfg.HexSeparator),
		})
	}
	return jsonResult(packets)
}

func (t *tools) send(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling send request.")

	if t.ports.out == nil {
		return mcp.NewToolResultError("no MIDI output port is open"), nil
	}
	spec, err := request.RequireString("event")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := parseEvent(spec, t.cfg.defaults())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.ports.out.Send(e); err != nil {
		return nil, fmt.Errorf("failed to send event: %v", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sent %s to %s.", e, t.ports.out.Name())), nil
}

func (t *tools) play(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling play request.")

	if t.ports.out == nil {
		return mcp.NewToolResultError("no MIDI output port is open"), nil
	}
	notes, err := request.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	vel := midi.VelocityFromMIDI1(midi.MustUInt7(100))
	if request.GetBool("chord", false) {
		err = playChord(t.ports.out, t.cfg.defaults(), vel, notes, chordHold)
	} else {
		err = playNotesFromText(t.ports.out, t.cfg.defaults(), vel, notes)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to play notes: %v", err)), nil
	}
	return mcp.NewToolResultText("Notes played successfully."), nil
}

func (t *tools) identify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling identify request.")

	if t.ports.out == nil || t.ports.in == nil {
		return mcp.NewToolResultError("identify needs both an input and an output port"), nil
	}
	dev, err := midi.NewUInt7(request.GetInt("device", t.cfg.DeviceID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device: %v", err)), nil
	}

	id, err := t.ports.out.RequestIdentity(t.ports.in, dev, t.cfg.defaults().group, t.cfg.replyTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %v", err)
	}
	return jsonResult(id.fields())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	asJson, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result to JSON: %v", err)
	}
	return mcp.NewToolResultText(string(asJson)), nil
}
