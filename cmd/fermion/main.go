// Command fermion is the external-collaborator CLI driving the engine: it
// parses a program file, compiles it, and either bounces it to a WAV file
// (render), streams it live to the system audio device with a terminal
// meter (serve), or plays a fixed-frequency sanity tone (test) — the same
// "single main package dispatching on os.Args[1], one pflag.FlagSet per
// subcommand" shape the teacher's single-purpose main.go implies, grown
// into a multi-command driver the way the pack's samoyed repo splits one
// binary per cmd/ directory.
package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/config"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/internal/xlog"
	"github.com/fermion-go/fermion/lang"
	"github.com/fermion-go/fermion/render"
	"github.com/fermion-go/fermion/signal"
	"github.com/fermion-go/fermion/voice"
	"github.com/fermion-go/fermion/wavio"
)

var log = xlog.For("cmd")

// Exit codes, per the CLI contract: 0 success, 1 parse error, 2 compile
// error, 3 render error, 4 I/O error.
const (
	exitOK      = 0
	exitParse   = 1
	exitCompile = 2
	exitRender  = 3
	exitIO      = 4
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitParse)
	}

	var code int
	switch os.Args[1] {
	case "render":
		code = runRender(os.Args[2:])
	case "serve":
		code = runServe(os.Args[2:])
	case "test":
		code = runTest(os.Args[2:])
	default:
		usage()
		code = exitParse
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  fermion render <prog> <out.wav> --duration <seconds>")
	fmt.Fprintln(os.Stderr, "  fermion serve --port <N> <prog>")
	fmt.Fprintln(os.Stderr, "  fermion test <freq> <duration>")
}

// decodeWav adapts wavio.DecodeFile to the func(path) (*signal.SampleBuffer,
// error) shape voice.NewBank wants.
func decodeWav(path string) (*signal.SampleBuffer, error) {
	samples, sampleRate, err := wavio.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return &signal.SampleBuffer{Data: samples, SampleRate: sampleRate}, nil
}

// compileProgram reads, parses and compiles a program file, returning the
// CLI-level exit code for its outcome (I/O, parse or compile failure)
// alongside whatever *lang.ParseError/*lang.CompileError
// it ran into.
func compileProgram(path string) (*lang.Compiled, int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, exitIO, err
	}
	prog, err := lang.Parse(string(src))
	if err != nil {
		return nil, exitParse, err
	}
	compiled, err := lang.Compile(prog)
	if err != nil {
		return nil, exitCompile, err
	}
	return compiled, exitOK, nil
}

// setupEngine wires a compiled program's trigger/control buses into a
// voice.Manager and bridge.Bridge, the same assembly both render and serve
// need before they can pull samples out of compiled.Graph.
func setupEngine(compiled *lang.Compiled, cfg config.Config, maxVoices int) (*voice.Manager, *bridge.Bridge, error) {
	bank, err := voice.NewBank(cfg.SampleBank, decodeWav)
	if err != nil {
		return nil, nil, err
	}
	manager := voice.NewManager(compiled.Graph, bank, maxVoices)
	if compiled.Sink != nil {
		compiled.Sink.Mixer = manager
	}
	br := bridge.New(manager)
	for name, namePat := range compiled.Triggers {
		br.Add(bridge.TriggerPattern{Name: namePat, Params: compiled.Params[name]})
	}
	return manager, br, nil
}

func runRender(args []string) int {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	duration := fs.Float64("duration", 4.0, "render duration in seconds")
	cps := fs.Float64("cps", 1.0, "cycles per second (tempo)")
	maxVoices := fs.Int("max-voices", 32, "maximum simultaneous voices")
	cfgPath := fs.String("config", "", "path to an optional config.yaml")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParse
	}
	if fs.NArg() < 2 {
		usage()
		return exitParse
	}
	progPath, outPath := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		log.Error("config", "err", err)
		return exitIO
	}

	compiled, code, err := compileProgram(progPath)
	if err != nil {
		log.Error("compile", "err", err)
		return code
	}

	_, br, err := setupEngine(compiled, cfg, *maxVoices)
	if err != nil {
		log.Error("engine setup", "err", err)
		return exitIO
	}

	samples := render.Offline(compiled.Graph, br, cfg.SampleRate, frac.FromFloat(*cps), cfg.BlockSize, *duration)
	if err := wavio.EncodeFile(outPath, samples, 1, int(cfg.SampleRate)); err != nil {
		log.Error("encode", "err", err)
		return exitIO
	}
	return exitOK
}

func runServe(args []string) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	port := fs.Int("port", 0, "reserved for a future live-control surface; accepted but unused (network transport is out of scope)")
	cps := fs.Float64("cps", 1.0, "cycles per second (tempo)")
	maxVoices := fs.Int("max-voices", 32, "maximum simultaneous voices")
	cfgPath := fs.String("config", "", "path to an optional config.yaml")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParse
	}
	if fs.NArg() < 1 {
		usage()
		return exitParse
	}
	progPath := fs.Arg(0)
	if *port != 0 {
		log.Info("serve", "port", *port, "note", "accepted, not yet wired to any transport")
	}

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		log.Error("config", "err", err)
		return exitIO
	}

	compiled, code, err := compileProgram(progPath)
	if err != nil {
		log.Error("compile", "err", err)
		return code
	}

	manager, br, err := setupEngine(compiled, cfg, *maxVoices)
	if err != nil {
		log.Error("engine setup", "err", err)
		return exitIO
	}

	player, err := render.NewLivePlayer(compiled.Graph, br, cfg.SampleRate, frac.FromFloat(*cps), cfg.BlockSize)
	if err != nil {
		log.Error("audio device", "err", err)
		return exitRender
	}
	defer player.Close()

	model := newServeModel(progPath, manager, compiled, *maxVoices, player)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("tui", "err", err)
		return exitRender
	}
	return exitOK
}

func runTest(args []string) int {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	cfgPath := fs.String("config", "", "path to an optional config.yaml")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParse
	}
	if fs.NArg() < 2 {
		usage()
		return exitParse
	}
	freq, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid frequency:", err)
		return exitParse
	}
	duration, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid duration:", err)
		return exitParse
	}

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		log.Error("config", "err", err)
		return exitIO
	}

	g := signal.New()
	g.Output = g.AddNode(&signal.Sine{Freq: signal.Const(freq)})
	if err := g.Compile(); err != nil {
		log.Error("graph compile", "err", err)
		return exitRender
	}

	samples := render.Offline(g, nil, cfg.SampleRate, frac.FromInt(1), cfg.BlockSize, duration)

	player, err := render.NewTonePlayer(samples, cfg.SampleRate)
	if err != nil {
		log.Error("audio device", "err", err)
		return exitRender
	}
	defer player.Close()
	player.Wait()
	return exitOK
}
