package bridge

import (
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/pattern"
	midi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MidiOut drives a MIDI output port from the pattern domain: a note pattern
// dispatches Note On/Off pairs on every onset, and a set of named control
// patterns are sent as Control Change messages once per block — the same
// port-management shape as the teacher's midi.Handler, generalized from
// "relay incoming CC to the mixer" to "drive outgoing CC/notes from a
// pattern program".
type MidiOut struct {
	outPort  drivers.Out
	channel  uint8
	ccMap    map[string]uint8 // control pattern key -> CC number
	lastCC   map[string]uint8
	connected bool
}

// NewMidiOut returns a MidiOut bound to outPort on the given MIDI channel
// (0-15). ccMap assigns each named control pattern a CC number, mirroring
// the teacher's CCVolume/CCPan/... constants generalized to an arbitrary,
// caller-supplied mapping.
func NewMidiOut(outPort drivers.Out, channel uint8, ccMap map[string]uint8) (*MidiOut, error) {
	m := &MidiOut{
		outPort: outPort,
		channel: channel,
		ccMap:   ccMap,
		lastCC:  make(map[string]uint8),
	}
	if outPort != nil {
		if err := outPort.Open(); err != nil {
			return nil, err
		}
		m.connected = true
	}
	return m, nil
}

// GetOutputPorts lists available MIDI output ports, unchanged from the
// teacher's midi.GetOutputPorts.
func GetOutputPorts() []drivers.Out {
	return midi.GetOutPorts()
}

// Close closes the underlying port.
func (m *MidiOut) Close() {
	if m.outPort != nil && m.connected {
		m.outPort.Close()
		m.connected = false
	}
}

// DispatchNotes queries notePat over [begin,end) and sends a Note On for
// every onset at the velocity resolved from velocityPat (default 100),
// followed immediately by a Note Off — patterns in this domain are
// percussive triggers, not held notes, so there is no separate note-off
// onset to track.
func (m *MidiOut) DispatchNotes(notePat pattern.Pattern[float64], velocityPat pattern.Pattern[float64], begin, end frac.Fraction) error {
	if !m.connected {
		return nil
	}
	span := frac.NewSpan(begin, end)
	state := pattern.State{Span: span}
	onsets := pattern.FilterOnsets(notePat).Query(state)
	for _, h := range onsets {
		note := uint8(clampMidi(h.Value))
		vel := uint8(100)
		if velocityPat.Query != nil {
			if v, ok := pattern.SampleAt(velocityPat, state, h.Part.Begin); ok {
				vel = uint8(clampMidi(v * 127))
			}
		}
		if err := m.outPort.Send(midi.NoteOn(m.channel, note, vel)); err != nil {
			return err
		}
		if err := m.outPort.Send(midi.NoteOff(m.channel, note)); err != nil {
			return err
		}
	}
	return nil
}

// DispatchControls sends one CC message per registered control pattern,
// holding the most recently queried value at begin — a once-per-block
// control-rate snapshot, the MIDI analogue of the signal graph's
// PatternContinuous sampling.
func (m *MidiOut) DispatchControls(controls map[string]pattern.Pattern[float64], begin, end frac.Fraction) error {
	if !m.connected {
		return nil
	}
	span := frac.NewSpan(begin, end)
	state := pattern.State{Span: span}
	for key, pat := range controls {
		cc, ok := m.ccMap[key]
		if !ok {
			continue
		}
		v, ok := pattern.SampleAt(pat, state, begin)
		if !ok {
			continue
		}
		val := uint8(clampMidi(v * 127))
		if m.lastCC[key] == val {
			continue
		}
		m.lastCC[key] = val
		if err := m.outPort.Send(midi.ControlChange(m.channel, cc, val)); err != nil {
			return err
		}
	}
	return nil
}

func clampMidi(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}
