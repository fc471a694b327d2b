package lang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/compiler"
	"github.com/fermion-go/fermion/minilang"
	"github.com/fermion-go/fermion/pattern"
	"github.com/fermion-go/fermion/signal"
)

// CompileError reports a problem found while resolving a parsed program's
// meaning — an unknown function or bus, a malformed sample-trigger
// declaration, a keyword argument that doesn't belong to the function it
// was given to. Distinct from *ParseError (a malformed program never even
// reaches this stage) so a caller can tell the two failure stages apart,
// the same two-error-family split compiler.CompileError draws one layer
// down.
type CompileError struct {
	Bus string
	Msg string
}

func (e *CompileError) Error() string {
	if e.Bus != "" {
		return fmt.Sprintf("lang: bus %q: %s", e.Bus, e.Msg)
	}
	return "lang: " + e.Msg
}

// Compiled is everything a program compiles down to: a signal graph ready
// to render, plus the pattern-domain buses (sample triggers and their
// per-voice params, bare control patterns) the bridge and voice manager
// consume once per render block.
type Compiled struct {
	Graph    *signal.Graph
	Triggers map[string]pattern.Pattern[string]
	Params   map[string]bridge.Params
	Controls map[string]pattern.Pattern[float64]
	// Sink is the shared VoiceSink every trigger-classified bus resolves
	// to, nil if the program declares no trigger bus at all. The caller
	// assembling the engine (cmd/fermion's setupEngine) binds its
	// voice.Manager into Sink.Mixer once it exists.
	Sink *signal.VoiceSink
}

// Compile resolves a parsed Program into a Compiled result. Every bus
// declaration is classified by what its expression produces — a bare
// string literal is a control pattern, a top-level `s "..."` call is a
// sample trigger, everything else is a signal — per the dynamic-typing
// design note: the grammar never tags a declaration's domain explicitly,
// the compiler infers it from the shape of the right-hand side.
func Compile(prog *Program) (*Compiled, error) {
	controls := map[string]pattern.Pattern[float64]{}
	triggers := map[string]pattern.Pattern[string]{}
	params := map[string]bridge.Params{}

	for _, d := range prog.Decls {
		str, ok := d.Expr.(StringExpr)
		if !ok {
			continue
		}
		pat, err := minilang.Parse(str.Text)
		if err != nil {
			return nil, &CompileError{Bus: d.Name, Msg: err.Error()}
		}
		controls[d.Name] = stringPatternToFloat(pat)
	}

	for _, d := range prog.Decls {
		call, ok := d.Expr.(*CallExpr)
		if !ok || call.Fn != "s" {
			continue
		}
		namePat, p, err := buildTrigger(call, controls)
		if err != nil {
			return nil, &CompileError{Bus: d.Name, Msg: err.Error()}
		}
		triggers[d.Name] = namePat
		params[d.Name] = p
	}

	var busExprs []compiler.BusExpr
	haveOut := false
	var buildErr error
	setErr := func(name string, err error) {
		if buildErr == nil && err != nil {
			buildErr = &CompileError{Bus: name, Msg: err.Error()}
		}
	}

	// Every trigger-classified bus (a declaration whose right-hand side is
	// a top-level `s "..."` call) resolves to the same shared VoiceSink:
	// the program has exactly one voice pool, so "out: s ..." and any
	// other trigger bus all forward to the one node that sums whatever
	// voices are currently playing. sink is built lazily, the first time
	// any trigger bus's BusExpr is resolved, and exposed on Compiled so
	// the caller can bind a voice.Manager into it once one exists.
	var sink *signal.VoiceSink
	var sinkSig signal.Signal
	sinkBuilt := false
	ensureSink := func(g *signal.Graph) signal.Signal {
		if !sinkBuilt {
			sink = &signal.VoiceSink{}
			sinkSig = g.AddNode(sink)
			sinkBuilt = true
		}
		return sinkSig
	}

	for i := range prog.Decls {
		d := prog.Decls[i]
		name := d.Name
		if _, isTrigger := triggers[name]; isTrigger {
			if name == "out" {
				haveOut = true
			}
			busExprs = append(busExprs, compiler.BusExpr{
				Name: name,
				Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
					return ensureSink(g)
				},
			})
			continue
		}
		if _, isControl := controls[name]; isControl {
			continue
		}
		if name == "out" {
			haveOut = true
		}
		expr := d.Expr
		busExprs = append(busExprs, compiler.BusExpr{
			Name: name,
			Build: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
				sig, err := buildSignal(expr, g, buses, controls)
				setErr(name, err)
				return sig
			},
		})
	}
	if !haveOut {
		return nil, &CompileError{Msg: `program has no "out" bus`}
	}

	prog2 := compiler.Program{
		Buses: busExprs,
		Output: func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
			sig, ok := buses["out"]
			if !ok {
				setErr("out", fmt.Errorf(`"out" bus not found after resolution`))
			}
			return sig
		},
	}

	graph, err := compiler.Compile(prog2)
	if err != nil {
		return nil, err
	}
	if buildErr != nil {
		return nil, buildErr
	}

	return &Compiled{Graph: graph, Triggers: triggers, Params: params, Controls: controls, Sink: sink}, nil
}

func stringPatternToFloat(sp pattern.Pattern[string]) pattern.Pattern[float64] {
	return pattern.Map(sp, func(s string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return v
	})
}

// buildTrigger turns a top-level `s "pat" :kw val ...` call into its sample
// name pattern and per-onset params; kwargs resolve through exprToFloatPattern
// so a param can be a literal number, an inline mini-notation string, or a
// reference to a previously declared control bus.
func buildTrigger(call *CallExpr, controls map[string]pattern.Pattern[float64]) (pattern.Pattern[string], bridge.Params, error) {
	var zero bridge.Params
	if len(call.Args) != 1 {
		return nil, zero, fmt.Errorf(`s() takes exactly one sample-name pattern argument, got %d`, len(call.Args))
	}
	str, ok := call.Args[0].(StringExpr)
	if !ok {
		return nil, zero, fmt.Errorf("s()'s argument must be a quoted mini-notation string")
	}
	namePat, err := minilang.Parse(str.Text)
	if err != nil {
		return nil, zero, err
	}

	var p bridge.Params
	for k, v := range call.Kwargs {
		fp, err := exprToFloatPattern(v, controls)
		if err != nil {
			return nil, zero, err
		}
		switch k {
		case "gain":
			p.Gain = fp
		case "pan":
			p.Pan = fp
		case "speed":
			p.Speed = fp
		case "begin":
			p.Begin = fp
		case "end":
			p.End = fp
		case "cut":
			p.CutGroup = fp
		default:
			return nil, zero, fmt.Errorf("unknown sample parameter %q", k)
		}
	}
	return namePat, p, nil
}

// exprToFloatPattern resolves a keyword-argument value to a control-rate
// Pattern[float64]: a bare number is a
// constant, a string is parsed as mini-notation and converted, a bus
// reference looks up a previously declared control bus, and arithmetic
// combines two such patterns with CombineWith under union structure.
func exprToFloatPattern(e Expr, controls map[string]pattern.Pattern[float64]) (pattern.Pattern[float64], error) {
	switch v := e.(type) {
	case NumberExpr:
		return pattern.Pure(v.Value), nil
	case StringExpr:
		pat, err := minilang.Parse(v.Text)
		if err != nil {
			return nil, err
		}
		return stringPatternToFloat(pat), nil
	case BusRefExpr:
		cp, ok := controls[v.Name]
		if !ok {
			return nil, fmt.Errorf("unknown control bus %q", v.Name)
		}
		return cp, nil
	case *BinExpr:
		left, err := exprToFloatPattern(v.Left, controls)
		if err != nil {
			return nil, err
		}
		right, err := exprToFloatPattern(v.Right, controls)
		if err != nil {
			return nil, err
		}
		op, err := binOp(v.Op)
		if err != nil {
			return nil, err
		}
		return pattern.CombineWith(left, right, pattern.StructBoth, op), nil
	default:
		return nil, fmt.Errorf("value cannot be used as a control pattern")
	}
}

func binOp(op byte) (func(x, y float64) float64, error) {
	switch op {
	case '+':
		return func(x, y float64) float64 { return x + y }, nil
	case '-':
		return func(x, y float64) float64 { return x - y }, nil
	case '*':
		return func(x, y float64) float64 { return x * y }, nil
	case '/':
		return func(x, y float64) float64 {
			if y == 0 {
				return 0
			}
			return x / y
		}, nil
	default:
		return nil, fmt.Errorf("unknown operator %q", string(op))
	}
}

// buildSignal translates a program-text expression into a Signal edge,
// adding whatever nodes it needs to g along the way. Implements the
// dynamic-typing design note: a bare string in signal position is parsed
// as mini-notation, converted to a float pattern, registered with the
// graph, and referenced as a control-rate Signal — the equivalent of
// inserting a PatternEval in signal position, done here by constructing
// the Signal directly rather than via an intermediate node.
func buildSignal(e Expr, g *signal.Graph, buses map[string]signal.Signal, controls map[string]pattern.Pattern[float64]) (signal.Signal, error) {
	var zero signal.Signal
	switch v := e.(type) {
	case NumberExpr:
		return signal.Const(v.Value), nil
	case StringExpr:
		strPat, err := minilang.Parse(v.Text)
		if err != nil {
			return zero, err
		}
		id := g.RegisterPattern(stringPatternToFloat(strPat))
		return signal.PatternRef(id), nil
	case BusRefExpr:
		if sig, ok := buses[v.Name]; ok {
			return sig, nil
		}
		if cp, ok := controls[v.Name]; ok {
			id := g.RegisterPattern(cp)
			return signal.PatternRef(id), nil
		}
		return zero, fmt.Errorf("unknown bus %q", v.Name)
	case IdentExpr:
		return buildCall(&CallExpr{Fn: v.Name}, g, buses, controls, nil)
	case *CallExpr:
		if v.Fn == "s" {
			return zero, fmt.Errorf(`"s" must appear as a top-level bus declaration, not nested in a signal expression`)
		}
		return buildCall(v, g, buses, controls, nil)
	case *BinExpr:
		return buildBinSignal(v, g, buses, controls)
	case *PipeExpr:
		return buildFeed(v.Left, v.Right, g, buses, controls)
	case *EffectExpr:
		return buildFeed(v.Left, v.Right, g, buses, controls)
	case *DollarExpr:
		return buildFeed(v.Left, v.Right, g, buses, controls)
	default:
		return zero, fmt.Errorf("unsupported expression")
	}
}

func buildBinSignal(v *BinExpr, g *signal.Graph, buses map[string]signal.Signal, controls map[string]pattern.Pattern[float64]) (signal.Signal, error) {
	left, err := buildSignal(v.Left, g, buses, controls)
	if err != nil {
		return signal.Signal{}, err
	}
	right, err := buildSignal(v.Right, g, buses, controls)
	if err != nil {
		return signal.Signal{}, err
	}
	switch v.Op {
	case '+':
		return g.AddNode(&signal.Add{Ins: []signal.Signal{left, right}}), nil
	case '-':
		neg := g.AddNode(&signal.Negate{In: right})
		return g.AddNode(&signal.Add{Ins: []signal.Signal{left, neg}}), nil
	case '*':
		return g.AddNode(&signal.Multiply{Ins: []signal.Signal{left, right}}), nil
	case '/':
		return g.AddNode(&signal.Divide{Num: left, Denom: right}), nil
	default:
		return signal.Signal{}, fmt.Errorf("unknown operator %q", string(v.Op))
	}
}

// buildFeed implements the shared "left feeds into right as right's first
// positional argument" semantics of >>, #, and $ — right must reduce to a
// function call (a bare identifier counts as a zero-arg one).
func buildFeed(left, right Expr, g *signal.Graph, buses map[string]signal.Signal, controls map[string]pattern.Pattern[float64]) (signal.Signal, error) {
	leftSig, err := buildSignal(left, g, buses, controls)
	if err != nil {
		return signal.Signal{}, err
	}
	call, ok := asCall(right)
	if !ok {
		return signal.Signal{}, fmt.Errorf("right side of a pipe must be a function call")
	}
	return buildCall(call, g, buses, controls, []signal.Signal{leftSig})
}

func asCall(e Expr) (*CallExpr, bool) {
	switch v := e.(type) {
	case *CallExpr:
		return v, true
	case IdentExpr:
		return &CallExpr{Fn: v.Name}, true
	}
	return nil, false
}

func buildCall(call *CallExpr, g *signal.Graph, buses map[string]signal.Signal, controls map[string]pattern.Pattern[float64], prepend []signal.Signal) (signal.Signal, error) {
	fn, ok := builtins[call.Fn]
	if !ok {
		return signal.Signal{}, fmt.Errorf("unknown function %q", call.Fn)
	}

	args := make([]signal.Signal, 0, len(prepend)+len(call.Args))
	args = append(args, prepend...)
	for _, a := range call.Args {
		s, err := buildSignal(a, g, buses, controls)
		if err != nil {
			return signal.Signal{}, err
		}
		args = append(args, s)
	}

	kw := make(map[string]signal.Signal, len(call.Kwargs))
	for k, v := range call.Kwargs {
		s, err := buildSignal(v, g, buses, controls)
		if err != nil {
			return signal.Signal{}, err
		}
		kw[k] = s
	}

	return fn(g, args, kw)
}

func argOrKw(args []signal.Signal, idx int, kw map[string]signal.Signal, name string, def signal.Signal) signal.Signal {
	if idx < len(args) {
		return args[idx]
	}
	if s, ok := kw[name]; ok {
		return s
	}
	return def
}

// builtins maps every function name a program can apply to a node
// constructor. Most entries read their positional arguments first, falling
// back to an identically-named keyword argument, then a default — mirroring
// how the mini-notation's own argument resolution favors position with a
// named escape hatch.
var builtins = map[string]func(g *signal.Graph, args []signal.Signal, kw map[string]signal.Signal) (signal.Signal, error){
	"sine": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.Sine{Freq: argOrKw(a, 0, k, "freq", signal.Const(440))}), nil
	},
	"saw": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.Saw{Freq: argOrKw(a, 0, k, "freq", signal.Const(110))}), nil
	},
	"square": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.Square{Freq: argOrKw(a, 0, k, "freq", signal.Const(110))}), nil
	},
	"triangle": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.Triangle{Freq: argOrKw(a, 0, k, "freq", signal.Const(110))}), nil
	},
	"pulse": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.Pulse{
			Freq:  argOrKw(a, 0, k, "freq", signal.Const(110)),
			Width: argOrKw(a, 1, k, "width", signal.Const(0.5)),
		}), nil
	},
	"vco": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		shape := signal.VCOSaw
		if s, ok := k["shape"]; ok && s.Kind == signal.SignalConstant {
			shape = signal.VCOShape(int(s.Const))
		}
		return g.AddNode(&signal.VCO{
			Shape:   shape,
			Freq:    argOrKw(a, 0, k, "freq", signal.Const(110)),
			FreqMod: argOrKw(a, 1, k, "mod", signal.Const(0)),
		}), nil
	},
	"fm": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.FMOsc{
			Freq:  argOrKw(a, 0, k, "freq", signal.Const(440)),
			Ratio: argOrKw(a, 1, k, "ratio", signal.Const(1)),
			Index: argOrKw(a, 2, k, "index", signal.Const(1)),
		}), nil
	},
	"pm": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.PMOsc{
			CarrierFreq: argOrKw(a, 0, k, "freq", signal.Const(440)),
			ModFreq:     argOrKw(a, 1, k, "modfreq", signal.Const(440)),
			Index:       argOrKw(a, 2, k, "index", signal.Const(1)),
		}), nil
	},
	"whitenoise": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.WhiteNoise{}), nil
	},
	"noise": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		seed := int64(0)
		if s, ok := k["seed"]; ok && s.Kind == signal.SignalConstant {
			seed = int64(s.Const)
		}
		return g.AddNode(&signal.Noise{Seed: seed}), nil
	},
	"brown": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		seed := int64(0)
		if s, ok := k["seed"]; ok && s.Kind == signal.SignalConstant {
			seed = int64(s.Const)
		}
		return g.AddNode(&signal.BrownNoise{Seed: seed}), nil
	},
	"lpf": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.LowPass{In: in, Cutoff: argOrKw(a, 1, k, "cutoff", signal.Const(1000))}), nil
	},
	// lpf24 is the second-order (12dB/oct two-pole biquad) alternative to lpf's
	// one-pole rolloff — the resolved reading of the spec's lpf/biquad
	// ambiguity (see DESIGN.md Open Question decisions).
	"lpf24": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Biquad{
			Mode:   signal.BiquadLowPass,
			In:     in,
			Cutoff: argOrKw(a, 1, k, "cutoff", signal.Const(1000)),
			Q:      argOrKw(a, 2, k, "q", signal.Const(0.707)),
		}), nil
	},
	"hpf": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.HighPass{In: in, Cutoff: argOrKw(a, 1, k, "cutoff", signal.Const(200))}), nil
	},
	"biquad": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		mode := signal.BiquadLowPass
		if s, ok := k["mode"]; ok && s.Kind == signal.SignalConstant {
			mode = signal.BiquadMode(int(s.Const))
		}
		return g.AddNode(&signal.Biquad{
			Mode:   mode,
			In:     in,
			Cutoff: argOrKw(a, 1, k, "cutoff", signal.Const(1000)),
			Q:      argOrKw(a, 2, k, "q", signal.Const(0.707)),
		}), nil
	},
	"eq": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.ParametricEQ{
			In:     in,
			Freq:   argOrKw(a, 1, k, "freq", signal.Const(1000)),
			Q:      argOrKw(a, 2, k, "q", signal.Const(1)),
			GainDB: argOrKw(a, 3, k, "gain", signal.Const(0)),
		}), nil
	},
	"djfilter": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.DJFilter{In: in, Morph: argOrKw(a, 1, k, "morph", signal.Const(0))}), nil
	},
	"formant": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Formant{In: in, Vowel: argOrKw(a, 1, k, "vowel", signal.Const(0))}), nil
	},
	"ad": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.AD{
			Gate:   argOrKw(a, 0, k, "gate", signal.Const(0)),
			Attack: argOrKw(a, 1, k, "attack", signal.Const(0.01)),
			Decay:  argOrKw(a, 2, k, "decay", signal.Const(0.1)),
		}), nil
	},
	"adsr": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.ADSR{
			Gate:    argOrKw(a, 0, k, "gate", signal.Const(0)),
			Attack:  argOrKw(a, 1, k, "attack", signal.Const(0.01)),
			Decay:   argOrKw(a, 2, k, "decay", signal.Const(0.1)),
			Sustain: argOrKw(a, 3, k, "sustain", signal.Const(0.7)),
			Release: argOrKw(a, 4, k, "release", signal.Const(0.2)),
		}), nil
	},
	"asr": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		return g.AddNode(&signal.ASR{
			Gate:    argOrKw(a, 0, k, "gate", signal.Const(0)),
			Attack:  argOrKw(a, 1, k, "attack", signal.Const(0.01)),
			Release: argOrKw(a, 2, k, "release", signal.Const(0.2)),
		}), nil
	},
	"curve": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Curve{In: in, Amount: argOrKw(a, 1, k, "amount", signal.Const(1))}), nil
	},
	"delay": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Delay{
			In:       in,
			TimeSec:  argOrKw(a, 1, k, "time", signal.Const(0.25)),
			Feedback: argOrKw(a, 2, k, "feedback", signal.Const(0.3)),
			Mix:      argOrKw(a, 3, k, "mix", signal.Const(0.3)),
		}), nil
	},
	"reverb": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Reverb{
			In:       in,
			Mix:      argOrKw(a, 1, k, "mix", signal.Const(0.3)),
			RoomSize: argOrKw(a, 2, k, "room", signal.Const(0.5)),
			Damping:  argOrKw(a, 3, k, "damping", signal.Const(0.5)),
		}), nil
	},
	"bitcrush": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.BitCrush{
			In:      in,
			Bits:    argOrKw(a, 1, k, "bits", signal.Const(8)),
			RateDiv: argOrKw(a, 2, k, "rate", signal.Const(1)),
		}), nil
	},
	"compressor": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Compressor{
			In:          in,
			ThresholdDB: argOrKw(a, 1, k, "threshold", signal.Const(-12)),
			Ratio:       argOrKw(a, 2, k, "ratio", signal.Const(4)),
			AttackMs:    argOrKw(a, 3, k, "attack", signal.Const(5)),
			ReleaseMs:   argOrKw(a, 4, k, "release", signal.Const(50)),
			KneeDB:      argOrKw(a, 5, k, "knee", signal.Const(0)),
		}), nil
	},
	"expander": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Expander{
			In:          in,
			ThresholdDB: argOrKw(a, 1, k, "threshold", signal.Const(-40)),
			Ratio:       argOrKw(a, 2, k, "ratio", signal.Const(4)),
			AttackMs:    argOrKw(a, 3, k, "attack", signal.Const(5)),
			ReleaseMs:   argOrKw(a, 4, k, "release", signal.Const(50)),
		}), nil
	},
	"distortion": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Distortion{
			In:    in,
			Drive: argOrKw(a, 1, k, "drive", signal.Const(1)),
			Mix:   argOrKw(a, 2, k, "mix", signal.Const(1)),
		}), nil
	},
	"softclip": func(g *signal.Graph, a []signal.Signal, k map[string]signal.Signal) (signal.Signal, error) {
		in, err := requireIn(a)
		if err != nil {
			return signal.Signal{}, err
		}
		return g.AddNode(&signal.Distortion{In: in, Drive: signal.Const(1), Mix: signal.Const(1)}), nil
	},
}

func requireIn(a []signal.Signal) (signal.Signal, error) {
	if len(a) == 0 {
		return signal.Signal{}, fmt.Errorf("expected an input signal as the first argument")
	}
	return a[0], nil
}
