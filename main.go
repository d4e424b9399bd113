package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"midiwire/midi"
)

const usage = `usage: midiwire <command> [flags] [args]

commands:
  ports                     list MIDI inputs and outputs
  encode <event>            show the MIDI 1.0 bytes and UMP words of an event
  decode-bytes <hex>        decode a MIDI 1.0 byte stream
  decode-words <hex words>  decode a UMP word stream
  chunk <hex>               split a SysEx body into UMP data 64 packets
  send <event>              send an event to the output port
  play <notes>              play a melody such as "C4 E4 G4 r C5" (-chord to strike together)
  listen                    print incoming events
  identify                  send a universal identity request
  mcp                       serve the tools over MCP on stdio
  config                    write the config file with current values

event examples: "noteon C4 vel=100", "cc sustain 127", "bend value=center",
"sysex mfr=41 data=\"10 20\"", "universal rt=true sub1=1 sub2=1 data=\"01 02 03 04\""
`

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		log.Println("exiting: no command specified")
		return
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "ports":
		listPorts()
	case "encode":
		err = runEncode(cfg, args)
	case "decode-bytes":
		err = runDecodeBytes(cfg, args)
	case "decode-words":
		err = runDecodeWords(cfg, args)
	case "chunk":
		err = runChunk(cfg, args)
	case "send":
		err = runSend(cfg, args)
	case "play":
		err = runPlay(cfg, args)
	case "listen":
		err = runListen(cfg, args)
	case "identify":
		err = runIdentify(cfg, args)
	case "mcp":
		err = runMCPCommand(cfg, args)
	case "config":
		err = runConfig(cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// commandFlags registers the flags shared by every command. They override
// the config file.
func commandFlags(name string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.IntVar(&cfg.Channel, "ch", cfg.Channel, "default MIDI channel (0-15)")
	fs.IntVar(&cfg.Group, "group", cfg.Group, "default UMP group (0-15)")
	fs.StringVar(&cfg.Protocol, "protocol", cfg.Protocol, "UMP protocol, 1.0 or 2.0")
	fs.StringVar(&cfg.HexSeparator, "sep", cfg.HexSeparator, "separator between hex bytes")
	fs.StringVar(&cfg.OutputPort, "out", cfg.OutputPort, "output port name fragment or index")
	fs.StringVar(&cfg.InputPort, "in", cfg.InputPort, "input port name fragment or index")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "dump outgoing bytes to stderr")
	return fs
}

func parseFlags(fs *flag.FlagSet, cfg *Config, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func listPorts() {
	log.Println("Available MIDI outputs:")
	log.Print(gomidi.GetOutPorts().String())
	log.Println("Available MIDI inputs:")
	log.Print(gomidi.GetInPorts().String())
}

func runEncode(cfg *Config, args []string) error {
	rest, err := parseFlags(commandFlags("encode", cfg), cfg, args)
	if err != nil {
		return err
	}
	e, err := parseEvent(strings.Join(rest, " "), cfg.defaults())
	if err != nil {
		return err
	}
	fmt.Print(describeEvent(e, cfg.HexSeparator))
	return nil
}

func runDecodeBytes(cfg *Config, args []string) error {
	rest, err := parseFlags(commandFlags("decode-bytes", cfg), cfg, args)
	if err != nil {
		return err
	}
	b, err := midi.ParseHex(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	events, err := midi.DecodeByteStream(b, cfg.defaults().group)
	fmt.Print(eventLines(events))
	return err
}

func runDecodeWords(cfg *Config, args []string) error {
	rest, err := parseFlags(commandFlags("decode-words", cfg), cfg, args)
	if err != nil {
		return err
	}
	words, err := midi.ParseWords(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	events, err := midi.DecodeWordStream(words)
	fmt.Print(eventLines(events))
	return err
}

func runChunk(cfg *Config, args []string) error {
	rest, err := parseFlags(commandFlags("chunk", cfg), cfg, args)
	if err != nil {
		return err
	}
	b, err := midi.ParseHex(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	fmt.Print(describePackets(stripSysExFraming(b), cfg.defaults().group, cfg.HexSeparator))
	return nil
}

// stripSysExFraming removes a leading 0xF0 and trailing 0xF7 if present.
func stripSysExFraming(b []byte) []byte {
	if len(b) > 0 && b[0] == 0xF0 {
		b = b[1:]
	}
	if len(b) > 0 && b[len(b)-1] == 0xF7 {
		b = b[:len(b)-1]
	}
	return b
}

func runSend(cfg *Config, args []string) error {
	rest, err := parseFlags(commandFlags("send", cfg), cfg, args)
	if err != nil {
		return err
	}
	e, err := parseEvent(strings.Join(rest, " "), cfg.defaults())
	if err != nil {
		return err
	}

	out, closer, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closer()

	log.Printf("[port] Sending %s", e)
	return out.Send(e)
}

func runPlay(cfg *Config, args []string) error {
	fs := commandFlags("play", cfg)
	vel := fs.Int("vel", 100, "note on velocity (0-127)")
	chord := fs.Bool("chord", false, "strike all notes together")
	hold := fs.Duration("hold", chordHold, "how long a chord is held")
	rest, err := parseFlags(fs, cfg, args)
	if err != nil {
		return err
	}
	v, err := midi.NewUInt7(*vel)
	if err != nil {
		return fmt.Errorf("vel: %w", err)
	}

	out, closer, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closer()

	text := strings.Join(rest, " ")
	if *chord {
		return playChord(out, cfg.defaults(), midi.VelocityFromMIDI1(v), text, *hold)
	}
	return playNotesFromText(out, cfg.defaults(), midi.VelocityFromMIDI1(v), text)
}

func runListen(cfg *Config, args []string) error {
	fs := commandFlags("listen", cfg)
	seconds := fs.Int("seconds", 0, "stop after this many seconds (0 = until interrupted)")
	if _, err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	in, err := openInput(cfg)
	if err != nil {
		return err
	}
	defer drivers.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *seconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*seconds)*time.Second)
		defer cancel()
	}

	stop, err := listen(in, cfg.defaults().group, func(e midi.Event, ms int32) {
		fmt.Printf("%8d ms  %s", ms, eventLines([]midi.Event{e}))
	}, func(err error) {
		log.Printf("[listen] %v", err)
	})
	if err != nil {
		return err
	}
	defer stop()

	log.Printf("[listen] Listening on %s", in.String())
	<-ctx.Done()
	return nil
}

func runIdentify(cfg *Config, args []string) error {
	fs := commandFlags("identify", cfg)
	fs.IntVar(&cfg.DeviceID, "device", cfg.DeviceID, "target device ID (127 = all)")
	if _, err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	in, err := openInput(cfg)
	if err != nil {
		return err
	}
	out, closer, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closer()

	id, err := out.RequestIdentity(in, cfg.deviceID(), cfg.defaults().group, cfg.replyTimeout())
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runMCPCommand(cfg *Config, args []string) error {
	if _, err := parseFlags(commandFlags("mcp", cfg), cfg, args); err != nil {
		return err
	}

	// The server still answers the codec tools without ports.
	var ports mcpPorts
	if out, closer, err := openOutput(cfg); err != nil {
		log.Printf("[mcp] No output port, midi_send is disabled: %v", err)
	} else {
		defer closer()
		ports.out = out
	}
	if in, err := openInput(cfg); err != nil {
		log.Printf("[mcp] No input port, midi_identify is disabled: %v", err)
	} else {
		ports.in = in
	}

	return runMCP(cfg, ports)
}

func runConfig(cfg *Config, args []string) error {
	if _, err := parseFlags(commandFlags("config", cfg), cfg, args); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	path, _ := ConfigPath()
	log.Printf("Wrote %s", path)
	return nil
}

func openOutput(cfg *Config) (*Output, func(), error) {
	idx, err := findOutPort(cfg.OutputPort)
	if err != nil {
		return nil, nil, fmt.Errorf("could not find MIDI out port: %w", err)
	}
	return OpenOutput(idx, cfg.Debug)
}

func openInput(cfg *Config) (drivers.In, error) {
	idx, err := findInPort(cfg.InputPort)
	if err != nil {
		return nil, fmt.Errorf("could not find MIDI in port: %w", err)
	}
	ins, err := drivers.Ins()
	if err != nil {
		return nil, err
	}
	return ins[idx], nil
}

// findOutPort returns the index of the first output whose name contains
// hint. A numeric hint is taken as the index and an empty one picks the
// first port.
func findOutPort(hint string) (int, error) {
	outs := gomidi.GetOutPorts()
	if len(outs) == 0 {
		return -1, errors.New("no MIDI outputs available")
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return matchPort(names, hint)
}

func findInPort(hint string) (int, error) {
	ins := gomidi.GetInPorts()
	if len(ins) == 0 {
		return -1, errors.New("no MIDI inputs available")
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return matchPort(names, hint)
}

func matchPort(names []string, hint string) (int, error) {
	if hint == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(hint); err == nil {
		if i < 0 || i >= len(names) {
			return -1, fmt.Errorf("port index %d out of range", i)
		}
		return i, nil
	}

	lower := strings.ToLower(hint)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("no MIDI port contains %q", hint)
}
