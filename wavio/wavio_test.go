package wavio_test

import (
	"bytes"
	"testing"

	"github.com/fermion-go/fermion/wavio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := []float64{0, 0.5, -0.5, 1, -1, 0.25}
	var buf bytes.Buffer
	require.NoError(t, wavio.Encode(&buf, samples, 1, 44100))

	got, rate, err := wavio.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)
	require.Len(t, got, len(samples))
	for i, want := range samples {
		assert.InDelta(t, want, got[i], 1.0/32767)
	}
}

func TestDecodeRejectsNonRIFF(t *testing.T) {
	_, _, err := wavio.Decode(bytes.NewReader([]byte("not a wav file at all")))
	assert.Error(t, err)
}
