// Package wavio encodes and decodes 16-bit PCM WAV files. Offline render
// (spec §1: "the CLI driver that renders to WAV" is named as an external
// collaborator interface this repo owns) and the sample bank's one-shot
// loading both go through here.
//
// Library note: no third-party WAV codec appears anywhere in the example
// pack, and the format itself is a handful of fixed-size struct writes —
// exactly the kind of narrow, stable-forever binary layout the teacher and
// every other example repo reach for encoding/binary on directly rather
// than pulling in a dependency. This package is stdlib-only for that
// reason (see DESIGN.md).
package wavio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	bitsPerSample = 16
	riffHeaderLen = 44
)

// Encode writes mono or interleaved multi-channel float64 samples in
// [-1,1] to w as a canonical 16-bit PCM WAV file.
func Encode(w io.Writer, samples []float64, channels int, sampleRate int) error {
	if channels <= 0 {
		channels = 1
	}
	dataLen := len(samples) * (bitsPerSample / 8)
	byteRate := sampleRate * channels * (bitsPerSample / 8)
	blockAlign := channels * (bitsPerSample / 8)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(riffHeaderLen-8+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM format tag
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))

	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, floatToInt16(s))
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeFile is Encode opening (and truncating) path for w.
func EncodeFile(path string, samples []float64, channels int, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: creating %q: %w", path, err)
	}
	defer f.Close()
	return Encode(f, samples, channels, sampleRate)
}

func floatToInt16(s float64) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(s * 32767))
}

// waveFormat mirrors the 16-byte "fmt " chunk body of a canonical WAV file.
type waveFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Decode reads a canonical 16-bit PCM WAV file into mono float64 samples in
// [-1,1], downmixing any additional channels by averaging — sufficient for
// this repo's one-shot sample bank, which plays samples back through its
// own mono Sample node (see signal.Sample).
func Decode(r io.Reader) (samples []float64, sampleRate int, err error) {
	var riffID [4]byte
	if _, err := io.ReadFull(r, riffID[:]); err != nil {
		return nil, 0, fmt.Errorf("wavio: reading RIFF header: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return nil, 0, fmt.Errorf("wavio: not a RIFF file")
	}
	var sz uint32
	binary.Read(r, binary.LittleEndian, &sz)
	var waveID [4]byte
	if _, err := io.ReadFull(r, waveID[:]); err != nil || string(waveID[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("wavio: not a WAVE file")
	}

	var format waveFormat
	var data []byte

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			break
		}
		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			break
		}
		body := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, 0, fmt.Errorf("wavio: truncated %q chunk: %w", chunkID, err)
		}
		if chunkSize%2 == 1 {
			io.CopyN(io.Discard, r, 1) // RIFF chunks are word-aligned
		}

		switch string(chunkID[:]) {
		case "fmt ":
			br := bytes.NewReader(body)
			binary.Read(br, binary.LittleEndian, &format)
		case "data":
			data = body
		}
	}

	if format.NumChannels == 0 {
		return nil, 0, fmt.Errorf("wavio: missing fmt chunk")
	}
	if format.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("wavio: unsupported bit depth %d (only 16-bit PCM is supported)", format.BitsPerSample)
	}

	frameSize := int(format.NumChannels) * 2
	frames := len(data) / frameSize
	samples = make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < int(format.NumChannels); c++ {
			off := i*frameSize + c*2
			v := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			sum += float64(v) / 32768
		}
		samples[i] = sum / float64(format.NumChannels)
	}
	return samples, int(format.SampleRate), nil
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string) (samples []float64, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: opening %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
