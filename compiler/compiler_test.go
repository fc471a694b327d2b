package compiler_test

import (
	"testing"

	"github.com/fermion-go/fermion/compiler"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleProgram(t *testing.T) {
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
	out := g.RenderBlock(16, 44100, frac.FromInt(1))
	assert.Len(t, out, 16)
}

func TestCompileForwardReference(t *testing.T) {
	// "b" is built from "a" even though "a" is declared after "b" in
	// program order — the two-pass placeholder strategy must make this
	// legal regardless of declaration order.
	prog := compiler.Program{
		Buses: []compiler.BusExpr{
			{Name: "b", Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				return buses["a"]
			}},
			{Name: "a", Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				return g.AddNode(&signal.Sine{Freq: signal.Const(220)})
			}},
		},
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			return buses["b"]
		},
	}

	g, err := compiler.Compile(prog)
	require.NoError(t, err)
	out := g.RenderBlock(16, 44100, frac.FromInt(1))
	assert.Len(t, out, 16)
}

func TestCompileFeedbackThroughDelayIsLegal(t *testing.T) {
	prog := compiler.Program{
		Buses: []compiler.BusExpr{
			{Name: "loop", Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				osc := g.AddNode(&signal.Saw{Freq: signal.Const(110)})
				mixed := g.AddNode(&signal.Add{Ins: []signal.Signal{osc, buses["loop"]}})
				return g.AddNode(&signal.Delay{
					In:       mixed,
					TimeSec:  signal.Const(0.02),
					Feedback: signal.Const(0.4),
					Mix:      signal.Const(0.5),
				})
			}},
		},
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			return buses["loop"]
		},
	}

	g, err := compiler.Compile(prog)
	require.NoError(t, err)
	out := g.RenderBlock(64, 44100, frac.FromInt(1))
	assert.Len(t, out, 64)
}

func TestCompileZeroDelayCycleRejected(t *testing.T) {
	prog := compiler.Program{
		Buses: []compiler.BusExpr{
			{Name: "loop", Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				return g.AddNode(&signal.Add{Ins: []signal.Signal{buses["loop"]}})
			}},
		},
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			return buses["loop"]
		},
	}

	_, err := compiler.Compile(prog)
	require.Error(t, err)
	var ce *compiler.CompileError
	assert.ErrorAs(t, err, &ce)
}

func TestCompileMissingOutputErrors(t *testing.T) {
	_, err := compiler.Compile(compiler.Program{})
	assert.Error(t, err)
}

func TestCompileDuplicateBusNameErrors(t *testing.T) {
	build := func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
		return signal.Const(0)
	}
	prog := compiler.Program{
		Buses: []compiler.BusExpr{
			{Name: "a", Build: build},
			{Name: "a", Build: build},
		},
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			return buses["a"]
		},
	}
	_, err := compiler.Compile(prog)
	assert.Error(t, err)
}
