package bridge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/minilang"
	"github.com/fermion-go/fermion/pattern"
	"github.com/fermion-go/fermion/signal"
	"github.com/fermion-go/fermion/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDecode(path string) (*signal.SampleBuffer, error) {
	return &signal.SampleBuffer{Data: []float64{0, 1, 0, -1}, SampleRate: 44100}, nil
}

func makeBank(t *testing.T) *voice.Bank {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"bd", "sn"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name, name+"1.wav"), []byte("x"), 0o644))
	}
	bank, err := voice.NewBank(dir, fakeDecode)
	require.NoError(t, err)
	return bank
}

func TestDispatchTriggersVoices(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 8)
	b := bridge.New(m)

	namePat, err := minilang.Parse("bd sn")
	require.NoError(t, err)
	b.Add(bridge.TriggerPattern{Name: namePat})

	errs := b.Dispatch(frac.FromInt(0), frac.FromInt(1))
	assert.Empty(t, errs)
	assert.Equal(t, 2, m.ActiveCount())
}

func TestDispatchAppliesGainParam(t *testing.T) {
	bank := makeBank(t)
	g := signal.New()
	m := voice.NewManager(g, bank, 8)
	b := bridge.New(m)

	namePat, err := minilang.Parse("bd")
	require.NoError(t, err)
	b.Add(bridge.TriggerPattern{
		Name: namePat,
		Params: bridge.Params{
			Gain: pattern.Pure(0.5),
		},
	})

	errs := b.Dispatch(frac.FromInt(0), frac.FromInt(1))
	assert.Empty(t, errs)

	// The sample's second frame is 1.0; at speed 1 it lands on out[1],
	// scaled by the dispatched gain.
	out := make([]float64, 4)
	m.MixVoices(g, signal.Block{Size: 4, SampleRate: 44100}, out)
	assert.InDelta(t, 0.5, out[1], 1e-9)
}

func TestDispatchUnknownSampleReportsError(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 8)
	b := bridge.New(m)

	namePat, err := minilang.Parse("nope")
	require.NoError(t, err)
	b.Add(bridge.TriggerPattern{Name: namePat})

	errs := b.Dispatch(frac.FromInt(0), frac.FromInt(1))
	assert.Len(t, errs, 1)
}
