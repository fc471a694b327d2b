package render

import (
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"
)

// TonePlayer plays one fixed buffer of samples once through the system
// audio device and reports completion — the same oto.NewContext/NewPlayer
// setup as LivePlayer, but reading a bytes.Reader-style fixed io.Reader
// instead of pulling fresh blocks from a live graph, for the `test`
// subcommand's one-shot sanity tone.
type TonePlayer struct {
	ctx    *oto.Context
	player oto.Player
	done   chan struct{}
}

// NewTonePlayer encodes samples as little-endian 16-bit PCM and starts
// playing them at sampleRate.
func NewTonePlayer(samples []float64, sampleRate float64) (*TonePlayer, error) {
	ctx, ready, err := oto.NewContext(int(sampleRate), liveChannelCount, liveBitDepth)
	if err != nil {
		return nil, err
	}
	<-ready

	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		s := int16(v * 32767)
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}

	t := &TonePlayer{ctx: ctx, done: make(chan struct{})}
	t.player = ctx.NewPlayer(&onceReader{data: buf, done: t.done})
	t.player.Play()
	return t, nil
}

// Wait blocks until playback of the fixed buffer has finished.
func (t *TonePlayer) Wait() {
	<-t.done
}

// Close stops playback.
func (t *TonePlayer) Close() error {
	return t.player.Close()
}

// onceReader hands out buf's contents once, then reports EOF and closes
// done — the minimal io.Reader a fixed-length tone needs, as opposed to
// LivePlayer's continuously-rendering Read.
type onceReader struct {
	data []byte
	pos  int
	done chan struct{}
	once sync.Once
}

func (r *onceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		r.once.Do(func() { close(r.done) })
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
