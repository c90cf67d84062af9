// Package effdata projects the raw EFF container onto a self-contained,
// name-based representation and back.
//
// The raw container cross-references its parallel arrays with 1-based
// integer indices. This package resolves those indices into names on
// the way out and rebuilds them on the way in, producing the shape used
// by the JSON interchange files: handles carry their own name, model
// name and group elements inline, so they can be edited without
// tracking indices. The resource payload is carried through both
// directions unchanged and is never part of the JSON shape.
package effdata

import (
	"io"

	"github.com/ultimate-research/eff-lib/pkg/eff"
)

// Data is the denormalized form of one EFF container.
type Data struct {
	Handles      []HandleData     `json:"effect_handles"`
	ModelEntries []ModelEntryData `json:"effect_model_entries"`

	// ResourceData is the raw resource payload, nil when absent.
	// It lives in a sibling file in the JSON workflow.
	ResourceData []byte `json:"-"`
}

// HandleData is one effect descriptor with its references resolved.
type HandleData struct {
	Name       string             `json:"name"`
	Flags      eff.Flags          `json:"flags"`
	EmitterSet int32              `json:"emitter_set_handle"`
	ModelName  string             `json:"effect_model_name"`
	Group      []GroupElementData `json:"effect_group"`
}

// GroupElementData is one group element zipped with its parent joint.
type GroupElementData struct {
	StartFrame      int16  `json:"emitter_set_start_frame"`
	EmitterSet      int16  `json:"emitter_set_handle"`
	ParentJointName string `json:"parent_joint_name"`
}

// ModelEntryData is one model entry zipped with its name.
type ModelEntryData struct {
	Name string `json:"name"`
	Unk  int8   `json:"unk"`
}

// Decode reads a raw container from r and denormalizes it.
func Decode(r io.Reader) (*Data, error) {
	f, err := eff.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// Open reads and denormalizes the EFF file at path.
func Open(path string) (*Data, error) {
	f, err := eff.Open(path)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// Encode renormalizes the data and serializes it to w.
func (d *Data) Encode(w io.Writer) error {
	return d.File().Encode(w)
}

// WriteFile renormalizes the data and writes the container to path.
func (d *Data) WriteFile(path string) error {
	return d.File().WriteFile(path)
}

// WriteResourceFile writes the resource payload to path.
// It is a no-op when there is no payload.
func (d *Data) WriteResourceFile(path string) error {
	if d.ResourceData == nil {
		return nil
	}
	f := eff.File{ResourceData: d.ResourceData}
	return f.WriteResourceFile(path)
}
