package signal_test

import (
	"math"
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/pattern"
	"github.com/fermion-go/fermion/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSineRendersExpectedBlock(t *testing.T) {
	g := signal.New()
	osc := g.AddNode(&signal.Sine{Freq: signal.Const(100)})
	g.Output = osc
	require.NoError(t, g.Compile())

	out := g.RenderBlock(64, 44100, frac.FromInt(1))
	assert.Len(t, out, 64)
	assert.InDelta(t, 0, out[0], 1e-9)
}

func TestMultiplyCombinesTwoOscillators(t *testing.T) {
	g := signal.New()
	a := g.AddNode(&signal.Sine{Freq: signal.Const(10)})
	b := g.AddNode(&signal.Sine{Freq: signal.Const(20)})
	mult := g.AddNode(&signal.Multiply{Ins: []signal.Signal{a, b}})
	g.Output = mult
	require.NoError(t, g.Compile())

	out := g.RenderBlock(32, 44100, frac.FromInt(1))
	assert.Len(t, out, 32)
}

func TestDelayFeedbackDoesNotPanicOrDeadlock(t *testing.T) {
	g := signal.New()

	delayID := signal.NewID()
	g.AddNode(&signal.Sine{}) // filler so arena isn't trivially empty

	// Wire: osc -> add(osc, delayRef) -> delay.In ; delay is its own cycle
	// breaker, so this is a legal feedback loop.
	osc := g.AddNode(&signal.Saw{Freq: signal.Const(220)})
	mixID := signal.NewID()
	delay := &signal.Delay{
		In:       signal.Ref(mixID),
		TimeSec:  signal.Const(0.01),
		Feedback: signal.Const(0.3),
		Mix:      signal.Const(0.5),
	}
	delaySig := registerNode(g, delayID, delay)
	mix := registerNode(g, mixID, &signal.Add{Ins: []signal.Signal{osc, delaySig}})
	g.Output = mix

	require.NoError(t, g.Compile())
	out := g.RenderBlock(128, 44100, frac.FromInt(1))
	assert.Len(t, out, 128)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
	}
}

func TestPatternRefProducesPiecewiseConstantControl(t *testing.T) {
	g := signal.New()
	p := pattern.FromSequence([]float64{0, 1})
	pid := g.RegisterPattern(p)
	evalSig := g.AddNode(&signal.PatternEval{ID: pid, Mode: signal.PatternContinuous})
	g.Output = evalSig
	require.NoError(t, g.Compile())

	out := g.RenderBlock(8, 8, frac.FromInt(1))
	assert.Len(t, out, 8)
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 1.0, out[4])
}

// TestAddDoesNotAccumulateAcrossBlocks guards P7 (block-partition
// stability): rendering the same Add node block after block must not let
// its cached buffer carry over the previous block's sums.
func TestAddDoesNotAccumulateAcrossBlocks(t *testing.T) {
	g := signal.New()
	sum := g.AddNode(&signal.Add{Ins: []signal.Signal{signal.Const(0.5), signal.Const(0.5)}})
	g.Output = sum
	require.NoError(t, g.Compile())

	for i := 0; i < 4; i++ {
		out := g.RenderBlock(16, 44100, frac.FromInt(1))
		for _, v := range out {
			assert.InDelta(t, 1.0, v, 1e-9)
		}
	}
}

// TestConvolutionIsAValidFeedbackCycleBreaker mirrors
// TestDelayFeedbackDoesNotPanicOrDeadlock but closes the loop through a
// Convolution node instead of a Delay, per spec §9's list of valid
// cycle-breakers.
func TestConvolutionIsAValidFeedbackCycleBreaker(t *testing.T) {
	g := signal.New()
	assert.True(t, (&signal.Convolution{}).IntroducesDelay())

	convID := signal.NewID()
	osc := g.AddNode(&signal.Saw{Freq: signal.Const(220)})
	mixID := signal.NewID()
	conv := &signal.Convolution{In: signal.Ref(mixID), Kernel: []float64{1, 0.5, 0.25}}
	convSig := registerNode(g, convID, conv)
	mix := registerNode(g, mixID, &signal.Add{Ins: []signal.Signal{osc, convSig}})
	g.Output = mix

	require.NoError(t, g.Compile())
	out := g.RenderBlock(128, 44100, frac.FromInt(1))
	assert.Len(t, out, 128)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
	}
}

func TestCycleWithoutDelayIsRejected(t *testing.T) {
	g := signal.New()
	aID := signal.NewID()
	bID := signal.NewID()
	registerNode(g, aID, &signal.Add{Ins: []signal.Signal{signal.Ref(bID)}})
	registerNode(g, bID, &signal.Add{Ins: []signal.Signal{signal.Ref(aID)}})
	g.Output = signal.Ref(aID)

	err := g.Compile()
	assert.Error(t, err)
}

// registerNode is a small test helper that lets a test choose a node's ID up
// front (so two nodes can reference each other before both exist), bypassing
// AddNode's auto-generated ID.
func registerNode(g *signal.Graph, id signal.NodeId, k signal.NodeKind) signal.Signal {
	return g.AddNodeWithID(id, k)
}
