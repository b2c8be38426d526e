package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

var (
	// ErrNotWAV reports data that is not a RIFF/WAVE container.
	ErrNotWAV = errors.New("not a RIFF/WAVE file")
	// ErrUnsupportedFormat reports a WAVE encoding DecodeWAV cannot read.
	ErrUnsupportedFormat = errors.New("unsupported WAVE encoding")
)

type wavFormat struct {
	tag           uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// LoadWAV reads and decodes a WAVE file from disk.
func LoadWAV(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	clip, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	clip.Source = path
	return clip, nil
}

// DecodeWAV decodes PCM (8/16/24/32-bit) and 32/64-bit float WAVE data.
func DecodeWAV(r io.Reader) (*Clip, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrNotWAV)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		format   *wavFormat
		payload  []byte
		chunkHdr [8]byte
	)
	for payload == nil {
		if _, err := io.ReadFull(r, chunkHdr[:]); err != nil {
			if format == nil {
				return nil, fmt.Errorf("%w: missing fmt chunk", ErrNotWAV)
			}
			return nil, fmt.Errorf("%w: missing data chunk", ErrNotWAV)
		}
		id := string(chunkHdr[0:4])
		size := binary.LittleEndian.Uint32(chunkHdr[4:8])
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read %q chunk: %w", id, err)
		}
		if size%2 == 1 {
			// chunks are word aligned
			_, _ = io.ReadFull(r, make([]byte, 1))
		}
		switch id {
		case "fmt ":
			f, err := parseFormat(body)
			if err != nil {
				return nil, err
			}
			format = f
		case "data":
			if format == nil {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrNotWAV)
			}
			payload = body
		}
	}

	samples, err := decodeSamples(format, payload)
	if err != nil {
		return nil, err
	}
	return &Clip{
		SampleRate: int(format.sampleRate),
		Channels:   int(format.channels),
		Samples:    samples,
	}, nil
}

func parseFormat(body []byte) (*wavFormat, error) {
	if len(body) < 16 {
		return nil, fmt.Errorf("%w: fmt chunk too short", ErrNotWAV)
	}
	f := &wavFormat{
		tag:           binary.LittleEndian.Uint16(body[0:2]),
		channels:      binary.LittleEndian.Uint16(body[2:4]),
		sampleRate:    binary.LittleEndian.Uint32(body[4:8]),
		bitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
	}
	if f.tag == formatExtensible {
		if len(body) < 26 {
			return nil, fmt.Errorf("%w: extensible fmt chunk too short", ErrNotWAV)
		}
		// first two bytes of the sub-format GUID carry the real tag
		f.tag = binary.LittleEndian.Uint16(body[24:26])
	}
	if f.channels == 0 || f.sampleRate == 0 {
		return nil, fmt.Errorf("%w: zero channels or sample rate", ErrUnsupportedFormat)
	}
	return f, nil
}

func decodeSamples(f *wavFormat, data []byte) ([]float32, error) {
	width := int(f.bitsPerSample) / 8
	if width == 0 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, f.bitsPerSample)
	}
	count := len(data) / width
	count -= count % int(f.channels)
	out := make([]float32, count)

	switch {
	case f.tag == formatPCM && width == 1:
		for i := range out {
			out[i] = float32(int(data[i])-128) / 128
		}
	case f.tag == formatPCM && width == 2:
		for i := range out {
			out[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
		}
	case f.tag == formatPCM && width == 3:
		for i := range out {
			b := data[i*3:]
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			out[i] = float32(v) / 8388608
		}
	case f.tag == formatPCM && width == 4:
		for i := range out {
			out[i] = float32(float64(int32(binary.LittleEndian.Uint32(data[i*4:]))) / 2147483648)
		}
	case f.tag == formatIEEEFloat && width == 4:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case f.tag == formatIEEEFloat && width == 8:
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
	default:
		return nil, fmt.Errorf("%w: format tag %d with %d bits", ErrUnsupportedFormat, f.tag, f.bitsPerSample)
	}
	return out, nil
}

// EncodeWAV writes the clip as 16-bit PCM WAVE data.
func EncodeWAV(w io.Writer, clip *Clip) error {
	pcm := clip.PCM16()
	blockAlign := clip.Channels * 2
	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(36+len(pcm)))
	hdr.WriteString("WAVEfmt ")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(16))
	_ = binary.Write(&hdr, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(&hdr, binary.LittleEndian, uint16(clip.Channels))
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(clip.SampleRate))
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(clip.SampleRate*blockAlign))
	_ = binary.Write(&hdr, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&hdr, binary.LittleEndian, uint16(16))
	hdr.WriteString("data")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(len(pcm)))
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}
