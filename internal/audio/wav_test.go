package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func buildWAV(t *testing.T, tag uint16, channels uint16, rate uint32, bits uint16, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	// an unrelated chunk before fmt must be skipped
	buf.WriteString("LIST")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{1, 2, 3, 0})
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, tag)
	_ = binary.Write(&buf, binary.LittleEndian, channels)
	_ = binary.Write(&buf, binary.LittleEndian, rate)
	block := uint32(channels) * uint32(bits/8)
	_ = binary.Write(&buf, binary.LittleEndian, rate*block)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(block))
	_ = binary.Write(&buf, binary.LittleEndian, bits)
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func TestDecodeWAV16BitStereo(t *testing.T) {
	var data bytes.Buffer
	for _, v := range []int16{0, 16384, -32768, 32767} {
		_ = binary.Write(&data, binary.LittleEndian, v)
	}
	clip, err := DecodeWAV(bytes.NewReader(buildWAV(t, formatPCM, 2, 8000, 16, data.Bytes())))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if clip.Channels != 2 || clip.SampleRate != 8000 {
		t.Fatalf("unexpected format %+v", clip)
	}
	if clip.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", clip.Frames())
	}
	want := []float32{0, 0.5, -1, 32767.0 / 32768}
	for i, w := range want {
		if math.Abs(float64(clip.Samples[i]-w)) > 1e-6 {
			t.Fatalf("sample %d: got %v want %v", i, clip.Samples[i], w)
		}
	}
}

func TestDecodeWAV24BitAndFloat(t *testing.T) {
	// -1 in 24-bit two's complement, then +0.5
	data24 := []byte{0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x40}
	clip, err := DecodeWAV(bytes.NewReader(buildWAV(t, formatPCM, 1, 44100, 24, data24)))
	if err != nil {
		t.Fatalf("DecodeWAV 24-bit: %v", err)
	}
	if clip.Samples[0] >= 0 || clip.Samples[1] != 0.5 {
		t.Fatalf("unexpected 24-bit samples %v", clip.Samples)
	}

	var f32 bytes.Buffer
	_ = binary.Write(&f32, binary.LittleEndian, float32(0.25))
	clip, err = DecodeWAV(bytes.NewReader(buildWAV(t, formatIEEEFloat, 1, 48000, 32, f32.Bytes())))
	if err != nil {
		t.Fatalf("DecodeWAV float: %v", err)
	}
	if clip.Samples[0] != 0.25 {
		t.Fatalf("unexpected float sample %v", clip.Samples[0])
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV(bytes.NewReader([]byte("not audio at all"))); !errors.Is(err, ErrNotWAV) {
		t.Fatalf("expected ErrNotWAV, got %v", err)
	}
	if _, err := DecodeWAV(bytes.NewReader(buildWAV(t, 2, 1, 8000, 4, []byte{0}))); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for ADPCM, got %v", err)
	}
}

func TestEncodeThenLoadWAV(t *testing.T) {
	clip := &Clip{SampleRate: 1000, Channels: 1, Samples: make([]float32, 250)}
	for i := range clip.Samples {
		clip.Samples[i] = float32(math.Sin(float64(i) / 10))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := EncodeWAV(f, clip); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	f.Close()

	loaded, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if loaded.Source != path {
		t.Fatalf("expected source %q, got %q", path, loaded.Source)
	}
	if loaded.Duration() != 250*time.Millisecond {
		t.Fatalf("unexpected duration %v", loaded.Duration())
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	_, err := LoadWAV(filepath.Join(t.TempDir(), "absent.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
