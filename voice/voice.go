// Package voice implements the bounded voice pool (C7): it turns a trigger
// event (sample name plus playback parameters) into a live signal.Sample
// node wired into the graph, enforces cut-group exclusivity, and steals the
// oldest voice when the pool is full.
package voice

import (
	"github.com/fermion-go/fermion/signal"
	"github.com/google/uuid"
)

// VoiceId identifies one voice instance across its lifetime in the pool.
type VoiceId = uuid.UUID

// Trigger carries every per-event parameter a pattern onset can specify
// (spec's "patterned voice params" supplement): the sample to play plus the
// usual tidal-style playback controls.
type Trigger struct {
	SampleName string
	Gain       float64
	Pan        float64
	Speed      float64 // 1 = original pitch/rate
	Begin      float64 // 0..1 fraction of sample
	End        float64 // 0..1 fraction of sample, 0 means "whole sample"
	Loop       bool
	Unit       string // "" (cycles), "c" (cycles), "r" (rate-relative), "s" (seconds) — informational, speed already resolved by caller
	CutGroup   uint32 // 0 = no group: never cuts or is cut by any other voice
}

// voiceEntry is one live slot in the pool.
type voiceEntry struct {
	id       VoiceId
	cutGroup uint32
	sample   *signal.Sample
	node     signal.Signal // this slot's Sample node, once wired into the graph
	gain     float64
	pan      float64
	seq      uint64 // monotonically increasing allocation order, for steal-oldest
}

// Manager owns a bounded pool of voices and the cut-group bookkeeping that
// makes triggering a voice in a non-zero group silence every other voice
// sharing that group (spec supplement: cut group 0 is exempt — it never
// cuts anything and is never cut).
type Manager struct {
	bank      *Bank
	graph     *signal.Graph
	maxVoices int
	voices    []*voiceEntry
	nextSeq   uint64
}

// NewManager returns a Manager bounded to maxVoices simultaneous voices,
// allocating Sample nodes into g and resolving sample names against bank.
func NewManager(g *signal.Graph, bank *Bank, maxVoices int) *Manager {
	if maxVoices <= 0 {
		maxVoices = 32
	}
	return &Manager{bank: bank, graph: g, maxVoices: maxVoices}
}

// Trigger resolves t.SampleName against the bank, allocates (or steals) a
// voice slot, wires a fresh signal.Sample node into the graph if this
// voice's node doesn't exist yet, and retriggers playback from Begin.
//
// Cut-group rule: t.CutGroup == 0 participates in no exclusivity at all. A
// non-zero group silences every other currently active voice in the same
// group before the new one starts, matching Tidal's "cut" semantics.
func (m *Manager) Trigger(t Trigger) (VoiceId, error) {
	buf, err := m.bank.Lookup(t.SampleName)
	if err != nil {
		return VoiceId{}, err
	}

	if t.CutGroup != 0 {
		m.cutGroup(t.CutGroup)
	}

	entry := m.allocate()
	entry.cutGroup = t.CutGroup

	endFrac := t.End
	if endFrac <= 0 {
		endFrac = 1
	}

	if entry.sample == nil {
		entry.sample = &signal.Sample{
			Buffer: buf,
			Gate:   signal.Const(0),
			Begin:  signal.Const(t.Begin),
			End:    signal.Const(endFrac),
			Speed:  signal.Const(t.Speed),
			Loop:   t.Loop,
		}
		entry.node = m.graph.AddNode(entry.sample)
	} else {
		entry.sample.Buffer = buf
		entry.sample.Begin = signal.Const(t.Begin)
		entry.sample.End = signal.Const(endFrac)
		entry.sample.Speed = signal.Const(t.Speed)
		entry.sample.Loop = t.Loop
	}
	entry.gain = t.Gain
	entry.pan = t.Pan
	entry.sample.Retrigger()

	return entry.id, nil
}

// MixVoices satisfies signal.VoiceMixer: it sums every currently active
// voice's Sample output, scaled by its trigger-time Gain, into out. The
// final render is mono, so Pan is carried per voice (for a future stereo
// bus) but doesn't change the mono sum — under an equal-power pan law the
// energy summed to mono is pan-invariant by construction.
func (m *Manager) MixVoices(g *signal.Graph, blk signal.Block, out []float64) {
	for _, e := range m.voices {
		if e.sample == nil || !e.sample.Active() {
			continue
		}
		buf := g.EvalSignalBlock(e.node, blk)
		for i := range out {
			out[i] += buf[i] * e.gain
		}
	}
}

// Node returns the signal.Sample node backing a voice, so the caller
// (bridge, C8) can wire its output (scaled by Gain/Pan) into the graph.
func (m *Manager) Node(id VoiceId) *signal.Sample {
	for _, e := range m.voices {
		if e.id == id {
			return e.sample
		}
	}
	return nil
}

// cutGroup immediately silences every active voice sharing group.
func (m *Manager) cutGroup(group uint32) {
	for _, e := range m.voices {
		if e.cutGroup == group && e.sample != nil && e.sample.Active() {
			e.sample.Stop()
		}
	}
}

// allocate returns a free voice slot, growing the pool up to maxVoices and
// stealing the oldest-allocated voice once the pool is full.
func (m *Manager) allocate() *voiceEntry {
	if len(m.voices) < m.maxVoices {
		e := &voiceEntry{id: signal.NewID(), seq: m.nextSeq}
		m.nextSeq++
		m.voices = append(m.voices, e)
		return e
	}

	oldest := m.voices[0]
	for _, e := range m.voices[1:] {
		if e.seq < oldest.seq {
			oldest = e
		}
	}
	oldest.id = signal.NewID()
	oldest.seq = m.nextSeq
	m.nextSeq++
	return oldest
}

// ActiveCount reports how many voices are currently playing (their Sample
// is Active), for diagnostics/metering (the serve TUI's status line, see
// ui package).
func (m *Manager) ActiveCount() int {
	n := 0
	for _, e := range m.voices {
		if e.sample != nil && e.sample.Active() {
			n++
		}
	}
	return n
}
