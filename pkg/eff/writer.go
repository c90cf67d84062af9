package eff

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// writer tracks the absolute offset of the output stream so the encoder
// can pad up to the resource payload boundary.
type writer struct {
	w   io.Writer
	off int
}

func (w *writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.off += n
	return err
}

func (w *writer) writeI8(v int8) error {
	return w.write([]byte{byte(v)})
}

func (w *writer) writeI16(v int16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return w.write(b[:])
}

func (w *writer) writeU32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.write(b[:])
}

func (w *writer) writeI32(v int32) error {
	return w.writeU32(uint32(v))
}

// writeCString emits the raw bytes followed by exactly one nul
// terminator. The bytes are not validated as text.
func (w *writer) writeCString(s CString) error {
	if len(s) > 0 {
		if err := w.write(s); err != nil {
			return err
		}
	}
	return w.write([]byte{0})
}

func (w *writer) writeZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.write(make([]byte, n))
}

// Encode serializes the container to w.
//
// Header counts are derived from the record array lengths and the
// alignment factor is computed from the serialized pre-payload size, so
// the header is internally consistent by construction. When a resource
// payload is present, zero padding is inserted up to the factor*0x1000
// boundary before it.
func (f *File) Encode(wr io.Writer) error {
	w := &writer{w: wr}

	if err := w.write([]byte(Magic)); err != nil {
		return err
	}
	if err := w.writeU32(Version); err != nil {
		return err
	}
	factor := f.alignmentFactor()
	for _, count := range []int16{
		int16(len(f.Handles)),
		int16(len(f.ModelEntries)),
		int16(len(f.GroupElements)),
		factor,
	} {
		if err := w.writeI16(count); err != nil {
			return err
		}
	}

	for _, h := range f.Handles {
		if err := w.writeU32(h.Flags.Pack()); err != nil {
			return err
		}
		if err := w.writeI32(h.EmitterSet); err != nil {
			return err
		}
		if err := w.writeI32(h.ModelEntry); err != nil {
			return err
		}
		if err := w.writeI16(h.GroupStart); err != nil {
			return err
		}
		if err := w.writeI16(h.GroupCount); err != nil {
			return err
		}
	}
	for _, g := range f.GroupElements {
		if err := w.writeI16(g.StartFrame); err != nil {
			return err
		}
		if err := w.writeI16(g.EmitterSet); err != nil {
			return err
		}
	}
	for _, m := range f.ModelEntries {
		if err := w.writeI8(m.Unk); err != nil {
			return err
		}
	}

	for _, tbl := range [][]CString{f.HandleNames, f.ModelNames, f.ParentJointNames} {
		for _, name := range tbl {
			if err := w.writeCString(name); err != nil {
				return err
			}
		}
	}

	if f.ResourceData != nil {
		align := resourceAlignment(factor)
		if err := w.writeZeros(alignUp(w.off, align) - w.off); err != nil {
			return err
		}
		if err := w.write(f.ResourceData); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBytes serializes the container into a fresh buffer.
func (f *File) EncodeBytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(f.preResourceSize() + len(f.ResourceData))
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the container and writes it to path in one shot,
// so a failed encode never leaves a partial file behind.
func (f *File) WriteFile(path string) error {
	data, err := f.EncodeBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteResourceFile writes the resource payload to path.
// It is a no-op when the container carries no payload.
func (f *File) WriteResourceFile(path string) error {
	if f.ResourceData == nil {
		return nil
	}
	return os.WriteFile(path, f.ResourceData, 0o644)
}
