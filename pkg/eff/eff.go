// Package eff implements the EFF visual-effect container format.
//
// An EFF file is a fixed little-endian container: a 16-byte header with
// record counts, three fixed-size record arrays, three nul-terminated
// name tables parallel to those arrays, and an optional trailing
// resource payload aligned to a multiple of 0x1000 bytes. The package
// reproduces the on-disk layout exactly; re-encoding a decoded file
// yields byte-identical output.
package eff

// Format constants. These are wire-level and must never change.
const (
	// Magic is the leading 4-byte signature of every EFF container.
	Magic = "EFFN"

	// Version is the 4-byte version constant written after the magic.
	// Readers skip it; no other value has been observed.
	Version uint32 = 0x00020000

	// resourceAlignmentUnit is the base alignment of the resource
	// payload. The header stores a multiplier of this unit.
	resourceAlignmentUnit = 0x1000

	// noResource is the alignment-factor sentinel for "no payload".
	noResource int16 = -1
)

// On-disk record sizes in bytes.
const (
	headerSize       = 16
	handleSize       = 16
	groupElementSize = 4
	modelEntrySize   = 1
)

// Handle is the on-disk record for one named effect descriptor.
// Indices are raw wire values: ModelEntry is 1-based into the model
// entry array with 0 meaning "no model", and GroupStart is 1-based into
// the shared group element array with 0 meaning "no group". Neither is
// bounds-checked here; resolution belongs to the effdata package.
type Handle struct {
	Flags      Flags
	EmitterSet int32
	ModelEntry int32
	GroupStart int16
	GroupCount int16
}

// GroupElement is one (start frame, emitter set) pair. Elements are
// grouped contiguously per handle and parented to the joint named at
// the same index of the parent joint name table.
type GroupElement struct {
	StartFrame int16
	EmitterSet int16
}

// ModelEntry is the on-disk record for one effect model.
// The single byte has no known purpose (observed values are 0 and 1,
// and only 0 is ever checked by the game); it is preserved opaquely.
type ModelEntry struct {
	Unk int8
}

// File is the raw EFF container.
//
// The three name tables run parallel to their record arrays:
// HandleNames to Handles, ModelNames to ModelEntries and
// ParentJointNames to GroupElements. Encode derives the header counts
// from the record array lengths, so the name tables must match them.
//
// ResourceData distinguishes nil (no payload, header factor -1) from a
// non-nil empty slice (payload present with zero bytes).
type File struct {
	Handles          []Handle
	GroupElements    []GroupElement
	ModelEntries     []ModelEntry
	HandleNames      []CString
	ModelNames       []CString
	ParentJointNames []CString
	ResourceData     []byte
}

// preResourceSize returns the exact number of serialized bytes that
// precede the resource payload: header, record arrays and name tables.
func (f *File) preResourceSize() int {
	size := headerSize
	size += len(f.Handles) * handleSize
	size += len(f.GroupElements) * groupElementSize
	size += len(f.ModelEntries) * modelEntrySize
	for _, tbl := range [][]CString{f.HandleNames, f.ModelNames, f.ParentJointNames} {
		for _, name := range tbl {
			size += len(name) + 1
		}
	}
	return size
}

// alignmentFactor computes the header's resource alignment factor from
// the serialized size of everything preceding the payload. The factor
// arithmetic matches the original tooling exactly: the pre-payload size
// rounded up to the next 0x1000 boundary (always strictly up, even from
// an exact multiple), divided by 0x1000. Decode and encode must agree
// on this or files stop reproducing.
func (f *File) alignmentFactor() int16 {
	if f.ResourceData == nil {
		return noResource
	}
	size := f.preResourceSize()
	return int16(((size + resourceAlignmentUnit) &^ (resourceAlignmentUnit - 1)) / resourceAlignmentUnit)
}

// resourceAlignment converts a header factor into a byte alignment.
// Factors below 1 fall back to byte alignment.
func resourceAlignment(factor int16) int {
	if factor < 1 {
		return 1
	}
	return int(factor) * resourceAlignmentUnit
}

// alignUp returns the smallest multiple of align that is >= off.
func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}
