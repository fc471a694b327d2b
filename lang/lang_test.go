package lang_test

import (
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/lang"
	"github.com/fermion-go/fermion/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleDecl(t *testing.T) {
	prog, err := lang.Parse("out: sine 440\n")
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	assert.Equal(t, "out", prog.Decls[0].Name)
}

func TestParsePipeAndEffectChain(t *testing.T) {
	prog, err := lang.Parse("out: saw 110 >> lpf 800 0.5 # reverb 0.3\n")
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	expr, ok := prog.Decls[0].Expr.(*lang.EffectExpr)
	require.True(t, ok, "top expression should be the effect-pipe")
	_, ok = expr.Left.(*lang.PipeExpr)
	assert.True(t, ok, "left of '#' should be the '>>' chain")
}

func TestParseKeywordArgsAndDollar(t *testing.T) {
	prog, err := lang.Parse("out: s \"bd sn\" :gain 0.8 $ lpf 800\n")
	require.NoError(t, err)
	dollar, ok := prog.Decls[0].Expr.(*lang.DollarExpr)
	require.True(t, ok)
	call, ok := dollar.Left.(*lang.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "s", call.Fn)
	assert.Contains(t, call.Kwargs, "gain")
}

func TestParseCommentAndBusRef(t *testing.T) {
	src := "# a comment line\nfreq: \"220 440\"\nout: sine ~freq\n"
	prog, err := lang.Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 2)
	assert.Equal(t, "freq", prog.Decls[0].Name)
	call := prog.Decls[1].Expr.(*lang.CallExpr)
	_, ok := call.Args[0].(lang.BusRefExpr)
	assert.True(t, ok)
}

func TestParseReportsPosition(t *testing.T) {
	_, err := lang.Parse("out: @\n")
	require.Error(t, err)
	var perr *lang.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

// TestCompileScenarioS1 reproduces the spec's S1 scenario: a sine tone
// scaled by a constant gain, rendered deterministically.
func TestCompileScenarioS1(t *testing.T) {
	prog, err := lang.Parse("out: sine 440 * 0.5\n")
	require.NoError(t, err)
	compiled, err := lang.Compile(prog)
	require.NoError(t, err)
	require.NotNil(t, compiled.Graph)

	out := compiled.Graph.RenderBlock(64, 44100, frac.FromInt(1))
	require.Len(t, out, 64)
	for _, v := range out {
		assert.LessOrEqual(t, v, 0.5+1e-9)
		assert.GreaterOrEqual(t, v, -0.5-1e-9)
	}
}

// TestCompileScenarioS2 reproduces a sample-trigger bus: the declaration's
// right-hand side is a top-level s(...) call, so it must be classified as
// a Trigger rather than folded into the signal graph.
func TestCompileScenarioS2(t *testing.T) {
	prog, err := lang.Parse("bd: s \"bd sn bd sn\" :gain 0.9\nout: sine 440\n")
	require.NoError(t, err)
	compiled, err := lang.Compile(prog)
	require.NoError(t, err)

	require.Contains(t, compiled.Triggers, "bd")
	require.Contains(t, compiled.Params, "bd")
	require.NotContains(t, compiled.Triggers, "out")

	span := frac.NewSpan(frac.FromInt(0), frac.FromInt(1))
	haps := compiled.Triggers["bd"].Query(pattern.State{Span: span})
	assert.NotEmpty(t, haps)
}

// TestCompileScenarioS2CanonicalOutTrigger reproduces the spec's canonical
// S2/S5/S6 form, where "out" itself is bound directly to a top-level s(...)
// call rather than to a separately-named trigger bus. "out" must still be
// classified as a Trigger (not rejected for "missing out"), and Compiled
// must expose the shared VoiceSink the graph's output now resolves to.
func TestCompileScenarioS2CanonicalOutTrigger(t *testing.T) {
	prog, err := lang.Parse("out: s \"bd sn bd sn\"\n")
	require.NoError(t, err)
	compiled, err := lang.Compile(prog)
	require.NoError(t, err)

	require.Contains(t, compiled.Triggers, "out")
	require.Contains(t, compiled.Params, "out")
	require.NotNil(t, compiled.Sink)

	span := frac.NewSpan(frac.FromInt(0), frac.FromInt(1))
	haps := compiled.Triggers["out"].Query(pattern.State{Span: span})
	assert.NotEmpty(t, haps)

	// Silent until a voice.Manager is bound, but must render without error.
	out := compiled.Graph.RenderBlock(64, 44100, frac.FromInt(1))
	require.Len(t, out, 64)
	for _, v := range out {
		assert.Equal(t, 0.0, v)
	}
}

func TestCompileUnknownFunctionErrors(t *testing.T) {
	prog, err := lang.Parse("out: nosuchfn 1\n")
	require.NoError(t, err)
	_, err = lang.Compile(prog)
	require.Error(t, err)
	var cerr *lang.CompileError
	require.ErrorAs(t, err, &cerr)
}

func TestCompileMissingOutErrors(t *testing.T) {
	prog, err := lang.Parse("bus: sine 440\n")
	require.NoError(t, err)
	_, err = lang.Compile(prog)
	require.Error(t, err)
}

func TestCompileControlBusFeedsFilter(t *testing.T) {
	prog, err := lang.Parse("cutoff: \"400 2000\"\nout: saw 110 >> lpf ~cutoff 0.7\n")
	require.NoError(t, err)
	compiled, err := lang.Compile(prog)
	require.NoError(t, err)
	require.Contains(t, compiled.Controls, "cutoff")

	out := compiled.Graph.RenderBlock(32, 44100, frac.FromInt(1))
	assert.Len(t, out, 32)
}
