package eff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleFile() *File {
	return &File{
		Handles: []Handle{
			{
				Flags:      Flags{Unk01: true, HitEffect: true},
				EmitterSet: 7,
				ModelEntry: 2,
				GroupStart: 1,
				GroupCount: 2,
			},
			{
				Flags:      Flags{UpdateAlways: true},
				EmitterSet: 3,
				ModelEntry: 0,
				GroupStart: 3,
				GroupCount: 1,
			},
		},
		GroupElements: []GroupElement{
			{StartFrame: 0, EmitterSet: 1},
			{StartFrame: 12, EmitterSet: 2},
			{StartFrame: -1, EmitterSet: 1},
		},
		ModelEntries: []ModelEntry{{Unk: 0}, {Unk: 1}},
		HandleNames: []CString{
			NewCString("bulletA"),
			NewCString("bulletB"),
		},
		ModelNames: []CString{
			NewCString("M_Bullet"),
			NewCString("M_Spark"),
		},
		ParentJointNames: []CString{
			NewCString("haviol"),
			NewCString("top"),
			NewCString("hand"),
		},
		ResourceData: []byte{0xde, 0xad, 0xbe, 0xef},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleFile()
	raw, err := want.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decoded file mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	again, err := got.EncodeBytes()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(again, raw) {
		t.Fatalf("re-encode not byte-identical: %d vs %d bytes", len(again), len(raw))
	}
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	f := sampleFile()
	raw, err := f.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if string(raw[:4]) != Magic {
		t.Fatalf("magic: %q", raw[:4])
	}
	if got := binary.LittleEndian.Uint32(raw[4:8]); got != Version {
		t.Fatalf("version: %#08x", got)
	}
	counts := []struct {
		name string
		off  int
		want int16
	}{
		{"handle count", 8, 2},
		{"model count", 10, 2},
		{"group element count", 12, 3},
		{"alignment factor", 14, 1},
	}
	for _, c := range counts {
		if got := int16(binary.LittleEndian.Uint16(raw[c.off:])); got != c.want {
			t.Fatalf("%s: got %d want %d", c.name, got, c.want)
		}
	}

	// Pre-resource size: 16 header + 2*16 handles + 3*4 elements +
	// 2*1 models + 49 name bytes.
	const pre = 111
	if got := f.preResourceSize(); got != pre {
		t.Fatalf("pre-resource size: got %d want %d", got, pre)
	}

	// Factor 1 puts the payload at 0x1000 with zero padding before it.
	if len(raw) != 0x1000+len(f.ResourceData) {
		t.Fatalf("file size: got %d want %d", len(raw), 0x1000+len(f.ResourceData))
	}
	for i := pre; i < 0x1000; i++ {
		if raw[i] != 0 {
			t.Fatalf("padding byte %d is %#02x", i, raw[i])
		}
	}
	if !bytes.Equal(raw[0x1000:], f.ResourceData) {
		t.Fatalf("payload mismatch at 0x1000: %x", raw[0x1000:])
	}
}

func TestEncodeNoResource(t *testing.T) {
	t.Parallel()

	f := sampleFile()
	f.ResourceData = nil
	raw, err := f.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if got := int16(binary.LittleEndian.Uint16(raw[14:])); got != -1 {
		t.Fatalf("alignment factor: got %d want -1", got)
	}
	if len(raw) != f.preResourceSize() {
		t.Fatalf("no-resource file has trailing bytes: %d vs %d", len(raw), f.preResourceSize())
	}

	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ResourceData != nil {
		t.Fatalf("resource data should be absent, got %d bytes", len(got.ResourceData))
	}
}

func TestEncodeEmptyResourcePresent(t *testing.T) {
	t.Parallel()

	f := &File{ResourceData: []byte{}}
	raw, err := f.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// 16/0x1000 rounds up to factor 1; the file is padded to the
	// boundary even though the payload itself is empty.
	if got := int16(binary.LittleEndian.Uint16(raw[14:])); got != 1 {
		t.Fatalf("alignment factor: got %d want 1", got)
	}
	if len(raw) != 0x1000 {
		t.Fatalf("file size: got %d want %d", len(raw), 0x1000)
	}

	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ResourceData == nil || len(got.ResourceData) != 0 {
		t.Fatalf("want present empty payload, got %v", got.ResourceData)
	}
}

func TestEncodeEmptyContainer(t *testing.T) {
	t.Parallel()

	raw, err := (&File{}).EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(raw) != headerSize {
		t.Fatalf("empty container: got %d bytes want %d", len(raw), headerSize)
	}

	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Handles) != 0 || len(got.GroupElements) != 0 || len(got.ModelEntries) != 0 {
		t.Fatalf("empty container decoded records: %+v", got)
	}
	if got.ResourceData != nil {
		t.Fatalf("empty container decoded a payload")
	}
}

// rawHeader builds a 16-byte container header with the given counts
// and alignment factor.
func rawHeader(handles, models, groups, factor int16) []byte {
	raw := make([]byte, headerSize)
	copy(raw, Magic)
	binary.LittleEndian.PutUint32(raw[4:], Version)
	binary.LittleEndian.PutUint16(raw[8:], uint16(handles))
	binary.LittleEndian.PutUint16(raw[10:], uint16(models))
	binary.LittleEndian.PutUint16(raw[12:], uint16(groups))
	binary.LittleEndian.PutUint16(raw[14:], uint16(factor))
	return raw
}

func TestDecodeNegativeCounts(t *testing.T) {
	t.Parallel()

	got, err := DecodeBytes(rawHeader(-1, -5, -32768, -1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Handles) != 0 || len(got.GroupElements) != 0 || len(got.ModelEntries) != 0 {
		t.Fatalf("negative counts decoded records: %+v", got)
	}
	if len(got.HandleNames) != 0 || len(got.ModelNames) != 0 || len(got.ParentJointNames) != 0 {
		t.Fatalf("negative counts decoded names: %+v", got)
	}
	if got.ResourceData != nil {
		t.Fatalf("negative counts decoded a payload")
	}
}

func TestDecodeFactorBelowOne(t *testing.T) {
	t.Parallel()

	// Factor 0 clamps to byte alignment: the payload starts right after
	// the header with no padding skipped.
	payload := []byte{0xaa, 0xbb}
	raw := append(rawHeader(0, 0, 0, 0), payload...)

	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.ResourceData, payload) {
		t.Fatalf("payload mismatch: %x", got.ResourceData)
	}
}

func TestDecodeResourcePastEOF(t *testing.T) {
	t.Parallel()

	// Factor 1 puts the boundary at 0x1000, past the end of a bare
	// header. The payload is present but empty.
	got, err := DecodeBytes(rawHeader(0, 0, 0, 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ResourceData == nil || len(got.ResourceData) != 0 {
		t.Fatalf("want present empty payload, got %v", got.ResourceData)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	t.Parallel()

	raw, err := sampleFile().EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw[0] = 'X'

	if _, err := DecodeBytes(raw); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	raw, err := sampleFile().EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Inside the magic, the header, a handle record, and a name table.
	for _, n := range []int{0, 3, 9, 20, headerSize + 2*handleSize + 3*groupElementSize + 2 + 3} {
		if _, err := DecodeBytes(raw[:n]); !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut at %d: want ErrTruncated, got %v", n, err)
		}
	}
}

func TestRawNameBytesRoundTrip(t *testing.T) {
	t.Parallel()

	f := &File{
		Handles:     []Handle{{EmitterSet: 1}},
		HandleNames: []CString{{0xff, 0xfe, 0x80}},
	}
	raw, err := f.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.HandleNames[0], f.HandleNames[0]) {
		t.Fatalf("name bytes mismatch: %x", got.HandleNames[0])
	}
	if _, err := got.HandleNames[0].Text(); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("want ErrInvalidText, got %v", err)
	}
}

func TestOpenAndWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fighter.eff")

	want := sampleFile()
	if err := want.WriteFile(path); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("open mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	resPath := filepath.Join(dir, "fighter.ptcl")
	if err := got.WriteResourceFile(resPath); err != nil {
		t.Fatalf("write resource: %v", err)
	}
	res, err := os.ReadFile(resPath)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if !bytes.Equal(res, want.ResourceData) {
		t.Fatalf("resource mismatch: %x", res)
	}
}

func TestWriteResourceFileAbsent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "none.ptcl")
	f := &File{}
	if err := f.WriteResourceFile(path); err != nil {
		t.Fatalf("write resource: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no-payload write created a file: %v", err)
	}
}
