package signal

// VoiceMixer is implemented by whatever owns a live voice pool (the voice
// package's Manager) so it can be bound into a Graph as the node a
// trigger-driven bus resolves to. The compiler builds the graph from
// program text before any voice pool exists — nothing has triggered a
// sample yet — so a VoiceSink starts out silent and is bound to its real
// Mixer once the engine assembles the voice manager, the same
// mutate-the-node-in-place trick the compiler's bus placeholders use to
// forward-declare a signal before its value is known.
type VoiceMixer interface {
	MixVoices(g *Graph, blk Block, out []float64)
}

// VoiceSink is the node a trigger-classified bus declaration (a top-level
// `s "..."` pattern bound directly to a bus name) compiles down to. Until
// Mixer is set it renders silence; once set, every block it sums whatever
// voices are currently active into out.
type VoiceSink struct {
	Mixer VoiceMixer
}

func (n *VoiceSink) IntroducesDelay() bool { return false }
func (n *VoiceSink) Inputs() []Signal      { return nil }

func (n *VoiceSink) Render(g *Graph, blk Block, out []float64) {
	if n.Mixer == nil {
		return
	}
	n.Mixer.MixVoices(g, blk, out)
}
