package render_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/compiler"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/lang"
	"github.com/fermion-go/fermion/render"
	"github.com/fermion-go/fermion/signal"
	"github.com/fermion-go/fermion/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineGraph(t *testing.T) *signal.Graph {
	t.Helper()
	prog := compiler.Program{
		Buses: []compiler.BusExpr{
			{Name: "osc", Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				return g.AddNode(&signal.Sine{Freq: signal.Const(440)})
			}},
		},
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			return buses["osc"]
		},
	}
	g, err := compiler.Compile(prog)
	require.NoError(t, err)
	return g
}

func TestOfflineRendersRequestedDuration(t *testing.T) {
	g := sineGraph(t)
	out := render.Offline(g, nil, 44100, frac.FromInt(1), 64, 0.1)
	assert.Equal(t, int(0.1*44100), len(out))
}

func TestBlockReplacesNonFiniteSamplesWithSilence(t *testing.T) {
	g := signal.New()
	nan := g.AddNode(&nanNode{})
	g.Output = nan
	require.NoError(t, g.Compile())

	clk := &render.Clock{SampleRate: 44100, CPS: frac.FromInt(1)}
	out := render.Block(g, nil, clk, 8)
	for _, v := range out {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.Equal(t, 0.0, v)
	}
}

func TestClockSpanAdvancesWithSampleCount(t *testing.T) {
	clk := &render.Clock{SampleRate: 44100, CPS: frac.FromInt(1)}
	b0, e0 := clk.Span(44100)
	assert.Equal(t, 0.0, b0.Float())
	assert.InDelta(t, 1.0, e0.Float(), 1e-9)
}

// TestScenarioS2SampleTriggerReachesOutput wires lang.Compile's output
// straight through a real voice.Manager and bridge.Bridge, reproducing the
// spec's S2 scenario end to end: the "out: s ..." form must render audible
// (non-silent) voice audio, not the silence the maintainer review flagged.
func TestScenarioS2SampleTriggerReachesOutput(t *testing.T) {
	prog, err := lang.Parse("out: s \"bd sn bd sn\"\n")
	require.NoError(t, err)
	compiled, err := lang.Compile(prog)
	require.NoError(t, err)
	require.NotNil(t, compiled.Sink)

	dir := t.TempDir()
	for _, name := range []string{"bd", "sn"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name, name+"1.wav"), []byte("x"), 0o644))
	}
	decode := func(path string) (*signal.SampleBuffer, error) {
		return &signal.SampleBuffer{Data: []float64{0, 1, 0, -1, 0, 1, 0, -1}, SampleRate: 44100}, nil
	}
	bank, err := voice.NewBank(dir, decode)
	require.NoError(t, err)

	manager := voice.NewManager(compiled.Graph, bank, 8)
	compiled.Sink.Mixer = manager

	br := bridge.New(manager)
	br.Add(bridge.TriggerPattern{Name: compiled.Triggers["out"], Params: compiled.Params["out"]})

	out := render.Offline(compiled.Graph, br, 44100, frac.FromInt(1), 256, 1.0)
	var energy float64
	for _, v := range out {
		energy += v * v
	}
	assert.Greater(t, energy, 0.0, "triggered sample audio must reach the final render output")
}

// nanNode is a minimal NodeKind used only to exercise Block's fault-recovery
// path without depending on an actual division-by-zero deep in the graph.
type nanNode struct{}

func (n *nanNode) IntroducesDelay() bool { return false }
func (n *nanNode) Inputs() []signal.Signal { return nil }
func (n *nanNode) Render(g *signal.Graph, blk signal.Block, out []float64) {
	for i := range out {
		out[i] = math.NaN()
	}
}
