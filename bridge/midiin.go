package bridge

import (
	"sync"

	"github.com/fermion-go/fermion/pattern"
	midi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MidiIn listens on a MIDI input port and exposes each Control Change
// number it has seen as a live, queryable control pattern — the input half
// of the teacher's midi.Handler (Connect/handleMIDI/CCChannel), rewired
// from "forward CC to the mixer's own volume/pan fields" to "expose CC as
// a Pattern[float64] a signal-graph control bus can read".
type MidiIn struct {
	inPort   drivers.In
	stopFunc func()

	mu     sync.RWMutex
	values map[uint8]float64 // CC number -> last value, normalized 0..1
}

// GetInputPorts lists available MIDI input ports, unchanged from the
// teacher's midi.GetInputPorts.
func GetInputPorts() []drivers.In {
	return midi.GetInPorts()
}

// NewMidiIn opens inPort and starts listening for Control Change messages.
func NewMidiIn(inPort drivers.In) (*MidiIn, error) {
	m := &MidiIn{
		inPort: inPort,
		values: make(map[uint8]float64),
	}
	stop, err := midi.ListenTo(inPort, m.handleMIDI, midi.UseSysEx())
	if err != nil {
		return nil, err
	}
	m.stopFunc = stop
	return m, nil
}

func (m *MidiIn) handleMIDI(msg midi.Message, timestampms int32) {
	var ch, cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) {
		m.mu.Lock()
		m.values[cc] = float64(val) / 127.0
		m.mu.Unlock()
	}
}

// Value returns the most recent normalized (0..1) value seen for a CC
// number, or 0 if none has arrived yet.
func (m *MidiIn) Value(cc uint8) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[cc]
}

// Pattern returns a control pattern that samples the live value of cc at
// query time: every query returns one Hap spanning the whole query span,
// carrying whatever value handleMIDI last recorded — a sample-and-hold
// source a lang control bus can feed straight into the signal graph, same
// role as PatternEval in PatternContinuous mode.
func (m *MidiIn) Pattern(cc uint8) pattern.Pattern[float64] {
	return pattern.Pattern[float64]{
		Query: func(state pattern.State) []pattern.Hap[float64] {
			v := m.Value(cc)
			return []pattern.Hap[float64]{{
				Whole: nil,
				Part:  state.Span,
				Value: v,
			}}
		},
	}
}

// Close stops listening and closes the port.
func (m *MidiIn) Close() {
	if m.stopFunc != nil {
		m.stopFunc()
		m.stopFunc = nil
	}
	if m.inPort != nil {
		m.inPort.Close()
	}
}
