package eff

// Flags holds the attribute bits of an effect handle, stored on disk as
// a packed little-endian 32-bit word. Most bits have no known meaning
// and keep their ordinal names; the names and positions are a
// compatibility contract with existing files.
type Flags struct {
	Unk01        bool `json:"unk_01"`
	Unk02        bool `json:"unk_02"`
	Unk03        bool `json:"unk_03"`
	Unk04        bool `json:"unk_04"`
	Unk05        bool `json:"unk_05"`
	Unk06        bool `json:"unk_06"`
	Unk07        bool `json:"unk_07"`
	Unk09        bool `json:"unk_09"`
	Unk10        bool `json:"unk_10"`
	Unk13        bool `json:"unk_13"`
	Unk14        bool `json:"unk_14"`
	Unk15        bool `json:"unk_15"`
	Unk16        bool `json:"unk_16"`
	Unk17        bool `json:"unk_17"`
	HitEffect    bool `json:"hit_effect"`
	Unk20        bool `json:"unk_20"`
	Unk21        bool `json:"unk_21"`
	Unk23        bool `json:"unk_23"`
	UpdateAlways bool `json:"update_always"`
	Unk25        bool `json:"unk_25"`
	Unk26        bool `json:"unk_26"`
	Unk29        bool `json:"unk_29"`
	Unk30        bool `json:"unk_30"`
	Unk31        bool `json:"unk_31"`
	Unk32        bool `json:"unk_32"`
}

// flagBits is the single source of truth for the bit layout: entry i is
// the field stored at bit i of the packed word, nil for the 7 reserved
// positions. Both Pack and UnpackFlags are driven from this table so the
// two directions cannot drift apart. Reserved bits are dropped on read
// and written as zero.
var flagBits = [32]func(*Flags) *bool{
	0:  func(f *Flags) *bool { return &f.Unk01 },
	1:  func(f *Flags) *bool { return &f.Unk02 },
	2:  func(f *Flags) *bool { return &f.Unk03 },
	3:  func(f *Flags) *bool { return &f.Unk04 },
	4:  func(f *Flags) *bool { return &f.Unk05 },
	5:  func(f *Flags) *bool { return &f.Unk06 },
	6:  func(f *Flags) *bool { return &f.Unk07 },
	8:  func(f *Flags) *bool { return &f.Unk09 },
	9:  func(f *Flags) *bool { return &f.Unk10 },
	12: func(f *Flags) *bool { return &f.Unk13 },
	13: func(f *Flags) *bool { return &f.Unk14 },
	14: func(f *Flags) *bool { return &f.Unk15 },
	15: func(f *Flags) *bool { return &f.Unk16 },
	16: func(f *Flags) *bool { return &f.Unk17 },
	18: func(f *Flags) *bool { return &f.HitEffect },
	19: func(f *Flags) *bool { return &f.Unk20 },
	20: func(f *Flags) *bool { return &f.Unk21 },
	22: func(f *Flags) *bool { return &f.Unk23 },
	23: func(f *Flags) *bool { return &f.UpdateAlways },
	24: func(f *Flags) *bool { return &f.Unk25 },
	25: func(f *Flags) *bool { return &f.Unk26 },
	28: func(f *Flags) *bool { return &f.Unk29 },
	29: func(f *Flags) *bool { return &f.Unk30 },
	30: func(f *Flags) *bool { return &f.Unk31 },
	31: func(f *Flags) *bool { return &f.Unk32 },
}

// UnpackFlags expands a packed flag word into named booleans.
func UnpackFlags(w uint32) Flags {
	var f Flags
	for i, field := range flagBits {
		if field == nil {
			continue
		}
		*field(&f) = w&(1<<i) != 0
	}
	return f
}

// Pack collapses the named booleans into a packed flag word.
func (f Flags) Pack() uint32 {
	var w uint32
	for i, field := range flagBits {
		if field == nil {
			continue
		}
		if *field(&f) {
			w |= 1 << i
		}
	}
	return w
}
