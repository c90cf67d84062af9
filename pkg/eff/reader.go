package eff

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// reader tracks the absolute offset of a buffered stream so the decoder
// can compute the aligned start of the resource payload.
type reader struct {
	r   *bufio.Reader
	off int
}

func newReader(rd io.Reader) *reader {
	return &reader{r: bufio.NewReader(rd)}
}

func (r *reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, n, r.off)
	}
	r.off += n
	return buf, nil
}

func (r *reader) readI8() (int8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *reader) readI16() (int16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readI32() (int32, error) {
	v, err := r.readU32()
	return int32(v), err
}

// readCString consumes bytes up to and including the nul terminator and
// returns the bytes before it. It fails only if the stream ends before
// a terminator is seen.
func (r *reader) readCString() (CString, error) {
	b, err := r.r.ReadBytes(0)
	if err != nil {
		r.off += len(b)
		return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrTruncated, r.off)
	}
	r.off += len(b)
	return CString(b[:len(b)-1]), nil
}

// Decode reads one EFF container from r, consuming it to the end when a
// resource payload is present. On error no partial File is returned.
func Decode(rd io.Reader) (*File, error) {
	r := newReader(rd)

	magic, err := r.readN(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}
	// Version constant; read but not interpreted.
	if _, err := r.readU32(); err != nil {
		return nil, err
	}

	handleCount, err := r.readI16()
	if err != nil {
		return nil, err
	}
	modelCount, err := r.readI16()
	if err != nil {
		return nil, err
	}
	groupCount, err := r.readI16()
	if err != nil {
		return nil, err
	}
	factor, err := r.readI16()
	if err != nil {
		return nil, err
	}

	f := &File{
		Handles:       make([]Handle, 0, recordCount(handleCount)),
		GroupElements: make([]GroupElement, 0, recordCount(groupCount)),
		ModelEntries:  make([]ModelEntry, 0, recordCount(modelCount)),
	}

	for range recordCount(handleCount) {
		h, err := r.readHandle()
		if err != nil {
			return nil, err
		}
		f.Handles = append(f.Handles, h)
	}
	for range recordCount(groupCount) {
		startFrame, err := r.readI16()
		if err != nil {
			return nil, err
		}
		emitterSet, err := r.readI16()
		if err != nil {
			return nil, err
		}
		f.GroupElements = append(f.GroupElements, GroupElement{StartFrame: startFrame, EmitterSet: emitterSet})
	}
	for range recordCount(modelCount) {
		unk, err := r.readI8()
		if err != nil {
			return nil, err
		}
		f.ModelEntries = append(f.ModelEntries, ModelEntry{Unk: unk})
	}

	if f.HandleNames, err = r.readNameTable(recordCount(handleCount)); err != nil {
		return nil, err
	}
	if f.ModelNames, err = r.readNameTable(recordCount(modelCount)); err != nil {
		return nil, err
	}
	if f.ParentJointNames, err = r.readNameTable(recordCount(groupCount)); err != nil {
		return nil, err
	}

	if factor != noResource {
		blob, err := r.readResource(factor)
		if err != nil {
			return nil, err
		}
		f.ResourceData = blob
	}
	return f, nil
}

// DecodeBytes decodes one EFF container from an in-memory buffer.
func DecodeBytes(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Open reads and decodes the EFF file at path.
//
// The file is memory-mapped where the platform allows it, with a plain
// read fallback. Decoding copies everything it keeps, so the returned
// File owns its memory and the mapping is released before returning.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := stat.Size()
	if size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("eff: %s: file too large to map", path)
	}

	if size > 0 {
		if data, merr := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED); merr == nil {
			defer func() { _ = unix.Munmap(data) }()
			return DecodeBytes(data)
		}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

func (r *reader) readHandle() (Handle, error) {
	flags, err := r.readU32()
	if err != nil {
		return Handle{}, err
	}
	emitterSet, err := r.readI32()
	if err != nil {
		return Handle{}, err
	}
	modelEntry, err := r.readI32()
	if err != nil {
		return Handle{}, err
	}
	groupStart, err := r.readI16()
	if err != nil {
		return Handle{}, err
	}
	groupCount, err := r.readI16()
	if err != nil {
		return Handle{}, err
	}
	return Handle{
		Flags:      UnpackFlags(flags),
		EmitterSet: emitterSet,
		ModelEntry: modelEntry,
		GroupStart: groupStart,
		GroupCount: groupCount,
	}, nil
}

func (r *reader) readNameTable(n int) ([]CString, error) {
	names := make([]CString, 0, n)
	for range n {
		name, err := r.readCString()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// readResource skips forward to the payload boundary and consumes the
// rest of the stream. A boundary at or past end-of-stream yields a
// present-but-empty payload, matching the original tooling.
func (r *reader) readResource(factor int16) ([]byte, error) {
	align := resourceAlignment(factor)
	if pad := alignUp(r.off, align) - r.off; pad > 0 {
		n, err := r.r.Discard(pad)
		r.off += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				return []byte{}, nil
			}
			return nil, err
		}
	}
	blob, err := io.ReadAll(r.r)
	if err != nil {
		return nil, err
	}
	r.off += len(blob)
	return blob, nil
}

// recordCount clamps a negative header count to zero.
func recordCount(n int16) int {
	if n < 0 {
		return 0
	}
	return int(n)
}
