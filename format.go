package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"midiwire/midi"
)

var (
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// describeEvent renders one event with all of its wire forms. A form the
// event has no representation in is shown as the error.
func describeEvent(e midi.Event, sep string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", kindStyle.Render(e.Kind().String()), e)

	b, err := midi.ToBytes(e)
	writeForm(&sb, "bytes", midi.HexString(b, sep), err)

	for _, p := range []midi.Protocol{midi.Protocol1, midi.Protocol2} {
		w, err := midi.ToWords(e, p)
		writeForm(&sb, "ump "+p.String(), midi.WordsString(w, sep), err)
	}
	return sb.String()
}

func writeForm(sb *strings.Builder, label, value string, err error) {
	if err != nil {
		value = errorStyle.Render(err.Error())
	}
	fmt.Fprintf(sb, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-8s", label)), value)
}

// describePackets lists the SysEx7 packets of body one per line.
func describePackets(body []byte, group midi.Group, sep string) string {
	var sb strings.Builder
	for p := range midi.SysEx7Chunks(body, group) {
		d := p.Data()
		fmt.Fprintf(&sb, "%08X %08X  %-8s %d  %s\n", p[0], p[1], p.Status(), p.ByteCount(),
			midi.HexString(d[:p.ByteCount()], sep))
	}
	return sb.String()
}

func eventLines(events []midi.Event) string {
	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "%s  %s\n", kindStyle.Render(e.Kind().String()), e)
	}
	return sb.String()
}
