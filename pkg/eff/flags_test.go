package eff

import "testing"

// reservedMask covers the 7 bit positions with no named flag.
const reservedMask uint32 = 1<<7 | 1<<10 | 1<<11 | 1<<17 | 1<<21 | 1<<26 | 1<<27

func TestFlagsKnownBitPositions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		set  func(*Flags)
		bit  int
	}{
		{"unk_01", func(f *Flags) { f.Unk01 = true }, 0},
		{"unk_07", func(f *Flags) { f.Unk07 = true }, 6},
		{"unk_09", func(f *Flags) { f.Unk09 = true }, 8},
		{"unk_13", func(f *Flags) { f.Unk13 = true }, 12},
		{"hit_effect", func(f *Flags) { f.HitEffect = true }, 18},
		{"update_always", func(f *Flags) { f.UpdateAlways = true }, 23},
		{"unk_29", func(f *Flags) { f.Unk29 = true }, 28},
		{"unk_32", func(f *Flags) { f.Unk32 = true }, 31},
	}
	for _, tc := range cases {
		var f Flags
		tc.set(&f)
		if got, want := f.Pack(), uint32(1)<<tc.bit; got != want {
			t.Fatalf("%s: packed %#08x, want bit %d (%#08x)", tc.name, got, tc.bit, want)
		}
	}
}

func TestFlagsPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	for i := range flagBits {
		if flagBits[i] == nil {
			continue
		}
		w := uint32(1) << i
		f := UnpackFlags(w)
		if got := f.Pack(); got != w {
			t.Fatalf("bit %d: round-trip %#08x -> %#08x", i, w, got)
		}
	}

	all := ^reservedMask
	if got := UnpackFlags(all).Pack(); got != all {
		t.Fatalf("all named bits: round-trip %#08x -> %#08x", all, got)
	}
}

func TestFlagsReservedBitsWrittenAsZero(t *testing.T) {
	t.Parallel()

	f := UnpackFlags(0xFFFFFFFF)
	if got, want := f.Pack(), ^reservedMask; got != want {
		t.Fatalf("reserved bits leaked: got %#08x want %#08x", got, want)
	}
}

func TestFlagsTableCoversWord(t *testing.T) {
	t.Parallel()

	named := 0
	for _, field := range flagBits {
		if field != nil {
			named++
		}
	}
	if named != 25 {
		t.Fatalf("named flag count: got %d want 25", named)
	}
	for i, field := range flagBits {
		reserved := reservedMask&(1<<i) != 0
		if reserved && field != nil {
			t.Fatalf("bit %d: reserved position has a field", i)
		}
		if !reserved && field == nil {
			t.Fatalf("bit %d: named position missing a field", i)
		}
	}
}
