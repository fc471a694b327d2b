package render

import (
	"math"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/signal"
)

const (
	liveChannelCount = 1
	liveBitDepth     = 2 // 16-bit PCM, oto's own sample format
)

// LivePlayer streams a signal graph to the system audio device in real
// time via oto, the same oto.NewContext/ctx.NewPlayer/player.Play() setup
// the teacher's NewEngine used for its fixed 8-channel mixer — kept close
// to verbatim here, generalized to pull from Block/signal.Graph.RenderBlock
// instead of a hardcoded per-channel synthesis switch.
type LivePlayer struct {
	ctx    *oto.Context
	player oto.Player
	mu     sync.Mutex
	graph  *signal.Graph
	bridge *bridge.Bridge
	clk    *Clock
	size   int

	rmsMu sync.RWMutex
	rms   float64
}

// NewLivePlayer opens an oto context at sampleRate and starts streaming g
// in size-sample blocks, dispatching br's onsets one block ahead of
// playback, the same lookahead the offline Block loop uses.
func NewLivePlayer(g *signal.Graph, br *bridge.Bridge, sampleRate float64, cps frac.Fraction, size int) (*LivePlayer, error) {
	ctx, ready, err := oto.NewContext(int(sampleRate), liveChannelCount, liveBitDepth)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &LivePlayer{
		ctx:    ctx,
		graph:  g,
		bridge: br,
		clk:    &Clock{SampleRate: sampleRate, CPS: cps},
		size:   size,
	}
	p.player = ctx.NewPlayer(p)
	p.player.Play()
	return p, nil
}

// Read implements io.Reader for oto.Player: it renders one graph block per
// call (or enough blocks to fill buf, whichever comes first) and encodes
// it as little-endian 16-bit PCM, oto's required wire format.
func (p *LivePlayer) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	samples := len(buf) / 2
	written := 0
	for written < samples {
		n := p.size
		if remaining := samples - written; remaining < n {
			n = remaining
		}
		block := Block(p.graph, p.bridge, p.clk, n)
		p.updateRMS(block)
		for _, v := range block {
			s := int16(v * 32767)
			buf[written*2] = byte(s)
			buf[written*2+1] = byte(s >> 8)
			written++
		}
	}
	return written * 2, nil
}

func (p *LivePlayer) updateRMS(block []float64) {
	if len(block) == 0 {
		return
	}
	var sum float64
	for _, v := range block {
		sum += v * v
	}
	p.rmsMu.Lock()
	p.rms = math.Sqrt(sum / float64(len(block)))
	p.rmsMu.Unlock()
}

// RMS returns the root-mean-square level of the most recently rendered
// block, polled by the serve TUI's master-level meter.
func (p *LivePlayer) RMS() float64 {
	p.rmsMu.RLock()
	defer p.rmsMu.RUnlock()
	return p.rms
}

// Close stops playback.
func (p *LivePlayer) Close() error {
	return p.player.Close()
}
