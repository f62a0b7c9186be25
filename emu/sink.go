package emu

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// A Sink consumes interleaved 16-bit stereo samples.
type Sink interface {
	WriteSamples(frames []int16) error
	Close() error
}

type discard struct{}

func (discard) WriteSamples([]int16) error { return nil }

func (discard) Close() error { return nil }

// RawSink writes signed 16-bit little-endian samples to w.
type RawSink struct {
	w   io.Writer
	buf []byte
}

func NewRawSink(w io.Writer) *RawSink {
	return &RawSink{w: w}
}

// NewStdoutSink returns a RawSink writing to the standard output, which must
// not be a terminal.
func NewStdoutSink() (*RawSink, error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("refusing to write binary audio to a terminal")
	}
	return NewRawSink(os.Stdout), nil
}

func (s *RawSink) WriteSamples(frames []int16) error {
	s.buf = AppendPCM(s.buf[:0], frames)
	_, err := s.w.Write(s.buf)
	return err
}

func (s *RawSink) Close() error { return nil }

// AppendPCM appends frames to dst as signed 16-bit little-endian samples.
func AppendPCM(dst []byte, frames []int16) []byte {
	for _, v := range frames {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

const wavHeaderSize = 44

// WAVSink writes a 16-bit stereo PCM WAV file. Chunk sizes are patched when
// the sink is closed.
type WAVSink struct {
	f     io.WriteSeeker
	w     *bufio.Writer
	rate  uint32
	size  uint32 // data chunk size, in bytes
	buf   []byte
	close func() error
}

// CreateWAV creates the WAV file at path.
func CreateWAV(path string, sampleRate uint32) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewWAVSink(f, sampleRate)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.close = f.Close
	return s, nil
}

func NewWAVSink(f io.WriteSeeker, sampleRate uint32) (*WAVSink, error) {
	s := &WAVSink{
		f:     f,
		w:     bufio.NewWriter(f),
		rate:  sampleRate,
		close: func() error { return nil },
	}
	if err := s.writeHeader(); err != nil {
		return nil, fmt.Errorf("wav header: %w", err)
	}
	return s, nil
}

func (s *WAVSink) writeHeader() error {
	const (
		channels      = 2
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
	)

	hdr := make([]byte, 0, wavHeaderSize)
	hdr = append(hdr, "RIFF"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 36+s.size)
	hdr = append(hdr, "WAVEfmt "...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, 1) // PCM
	hdr = binary.LittleEndian.AppendUint16(hdr, channels)
	hdr = binary.LittleEndian.AppendUint32(hdr, s.rate)
	hdr = binary.LittleEndian.AppendUint32(hdr, s.rate*blockAlign)
	hdr = binary.LittleEndian.AppendUint16(hdr, blockAlign)
	hdr = binary.LittleEndian.AppendUint16(hdr, bitsPerSample)
	hdr = append(hdr, "data"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, s.size)

	_, err := s.w.Write(hdr)
	return err
}

func (s *WAVSink) WriteSamples(frames []int16) error {
	s.buf = AppendPCM(s.buf[:0], frames)
	n, err := s.w.Write(s.buf)
	s.size += uint32(n)
	return err
}

// Close patches the chunk sizes and closes the underlying file.
func (s *WAVSink) Close() error {
	err := s.finish()
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

func (s *WAVSink) finish() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := s.writeHeader(); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	_, err := s.f.Seek(0, io.SeekEnd)
	return err
}
