package voice_test

import (
	"os"
	"path/filepath"
	"testing"

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
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bd"), 0o755))
	for _, name := range []string{"bd1.wav", "bd2.wav"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bd", name), []byte("x"), 0o644))
	}
	bank, err := voice.NewBank(dir, fakeDecode)
	require.NoError(t, err)
	return bank
}

func TestTriggerAllocatesVoice(t *testing.T) {
	bank := makeBank(t)
	g := signal.New()
	m := voice.NewManager(g, bank, 4)

	id, err := m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1})
	require.NoError(t, err)
	assert.NotEqual(t, voice.VoiceId{}, id)
	assert.NotNil(t, m.Node(id))
}

func TestUnknownSampleErrors(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 4)
	_, err := m.Trigger(voice.Trigger{SampleName: "nope"})
	assert.Error(t, err)
}

func TestCutGroupSilencesOthers(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 4)

	id1, err := m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1, CutGroup: 1})
	require.NoError(t, err)
	require.True(t, m.Node(id1).Active())

	_, err = m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1, CutGroup: 1})
	require.NoError(t, err)

	assert.False(t, m.Node(id1).Active())
}

func TestZeroCutGroupNeverCuts(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 4)

	id1, err := m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1, CutGroup: 0})
	require.NoError(t, err)
	_, err = m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1, CutGroup: 0})
	require.NoError(t, err)

	assert.True(t, m.Node(id1).Active())
}

func TestPoolStealsOldestWhenFull(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 2)

	var ids []voice.VoiceId
	for i := 0; i < 3; i++ {
		id, err := m.Trigger(voice.Trigger{SampleName: "bd", Speed: 1, End: 1})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	// Pool bounded to 2: the third trigger steals the oldest voice, whose
	// old id then no longer resolves, so three triggers still resolve to
	// at most 2 live node identities.
	assert.Nil(t, m.Node(ids[0]))
	seen := map[*signal.Sample]bool{}
	for _, id := range ids {
		if n := m.Node(id); n != nil {
			seen[n] = true
		}
	}
	assert.LessOrEqual(t, len(seen), 2)
}

// TestMixVoicesSumsActiveVoices proves a triggered voice's audio actually
// reaches a VoiceSink's mixed output (the maintainer review's "every s(...)
// trigger is inaudible" bug): Gate defaults to Const(0) until Retrigger
// fires, so before triggering the mix must be silent, and after triggering
// it must contain the sample's non-zero data scaled by Gain.
func TestMixVoicesSumsActiveVoices(t *testing.T) {
	bank := makeBank(t)
	g := signal.New()
	m := voice.NewManager(g, bank, 4)

	out := make([]float64, 4)
	blk := signal.Block{Size: 4, SampleRate: 44100}
	m.MixVoices(g, blk, out)
	for _, v := range out {
		assert.Equal(t, 0.0, v, "no voice triggered yet: mix must be silent")
	}

	_, err := m.Trigger(voice.Trigger{SampleName: "bd", Gain: 0.5, Speed: 1, End: 1})
	require.NoError(t, err)

	out = make([]float64, 4)
	m.MixVoices(g, blk, out)
	var energy float64
	for _, v := range out {
		energy += v * v
	}
	assert.Greater(t, energy, 0.0, "triggered voice's sample data must reach the mix")
}

func TestSampleVariantIndexing(t *testing.T) {
	bank := makeBank(t)
	m := voice.NewManager(signal.New(), bank, 4)

	_, err := m.Trigger(voice.Trigger{SampleName: "bd:1", Speed: 1, End: 1})
	assert.NoError(t, err)
}
