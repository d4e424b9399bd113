package midi

import "fmt"

// System common and system real-time messages. They share one UMP message
// type (0x1) in both protocols and carry no channel.

// TimecodeQuarterFrame carries one MTC quarter frame nibble (0nnndddd).
type TimecodeQuarterFrame struct {
	Data  UInt7
	Group Group
}

// NewTimecodeQuarterFrame returns a quarter frame carrying data.
func NewTimecodeQuarterFrame(data UInt7, group Group) TimecodeQuarterFrame {
	return TimecodeQuarterFrame{Data: data, Group: group}
}

func (TimecodeQuarterFrame) Kind() Kind        { return KindTimecodeQuarterFrame }
func (e TimecodeQuarterFrame) UMPGroup() Group { return e.Group }
func (TimecodeQuarterFrame) isEvent()          {}

// Piece returns the quarter frame message type (0...7).
func (e TimecodeQuarterFrame) Piece() uint8 { return e.Data.v >> 4 }

// Value returns the 4-bit payload of the quarter frame.
func (e TimecodeQuarterFrame) Value() uint8 { return e.Data.v & 0xF }

func (e TimecodeQuarterFrame) String() string {
	return fmt.Sprintf("Group %d: timecode quarter frame piece %d value %d", e.Group.v, e.Piece(), e.Value())
}

// SongPosition is the song position pointer in MIDI beats (sixteenth notes).
type SongPosition struct {
	Beat  UInt14
	Group Group
}

// NewSongPosition returns a song position pointer at beat.
func NewSongPosition(beat UInt14, group Group) SongPosition {
	return SongPosition{Beat: beat, Group: group}
}

func (SongPosition) Kind() Kind        { return KindSongPosition }
func (e SongPosition) UMPGroup() Group { return e.Group }
func (SongPosition) isEvent()          {}

func (e SongPosition) String() string {
	return fmt.Sprintf("Group %d: song position %d", e.Group.v, e.Beat.v)
}

// SongSelect selects one of 128 songs or sequences.
type SongSelect struct {
	Number UInt7
	Group  Group
}

// NewSongSelect returns a song select for number.
func NewSongSelect(number UInt7, group Group) SongSelect {
	return SongSelect{Number: number, Group: group}
}

func (SongSelect) Kind() Kind        { return KindSongSelect }
func (e SongSelect) UMPGroup() Group { return e.Group }
func (SongSelect) isEvent()          {}

func (e SongSelect) String() string {
	return fmt.Sprintf("Group %d: song select %d", e.Group.v, e.Number.v)
}

// TuneRequest asks analog synthesizers to tune their oscillators.
type TuneRequest struct {
	Group Group
}

// NewTuneRequest returns a tune request.
func NewTuneRequest(group Group) TuneRequest { return TuneRequest{Group: group} }

func (TuneRequest) Kind() Kind        { return KindTuneRequest }
func (e TuneRequest) UMPGroup() Group { return e.Group }
func (TuneRequest) isEvent()          {}

func (e TuneRequest) String() string { return fmt.Sprintf("Group %d: tune request", e.Group.v) }

// RealTime is a single-byte system real-time message. The zero value is a
// timing clock in group 0.
type RealTime struct {
	offset Kind // distance from KindTimingClock
	Group  Group
}

var (
	realTimeKinds = map[Kind]bool{
		KindTimingClock:   true,
		KindStart:         true,
		KindContinue:      true,
		KindStop:          true,
		KindActiveSensing: true,
		KindSystemReset:   true,
	}
)

// NewRealTime returns the real-time message of the given kind. It fails for
// any kind that is not a real-time message.
func NewRealTime(kind Kind, group Group) (RealTime, error) {
	if !realTimeKinds[kind] {
		return RealTime{}, fmt.Errorf("%s is not a system real-time message", kind)
	}
	return realTime(kind, group), nil
}

func realTime(kind Kind, group Group) RealTime {
	return RealTime{offset: kind - KindTimingClock, Group: group}
}

// The real-time constructors cannot fail.
func TimingClock(group Group) RealTime   { return realTime(KindTimingClock, group) }
func Start(group Group) RealTime         { return realTime(KindStart, group) }
func Continue(group Group) RealTime      { return realTime(KindContinue, group) }
func Stop(group Group) RealTime          { return realTime(KindStop, group) }
func ActiveSensing(group Group) RealTime { return realTime(KindActiveSensing, group) }
func SystemReset(group Group) RealTime   { return realTime(KindSystemReset, group) }

func (e RealTime) Kind() Kind { return KindTimingClock + e.offset }

func (e RealTime) UMPGroup() Group { return e.Group }
func (RealTime) isEvent()          {}

func (e RealTime) String() string { return fmt.Sprintf("Group %d: %s", e.Group.v, e.Kind()) }
