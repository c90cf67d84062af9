package effdata

import (
	"fmt"

	"github.com/ultimate-research/eff-lib/pkg/eff"
)

// FromFile denormalizes a raw container.
//
// Each handle is zipped with its name, its model index is resolved to a
// model name (0 means no model) and its group range is sliced out of
// the shared group element and parent joint arrays. Indices that point
// outside their target array fail with eff.ErrCorruptIndex; name bytes
// that are not valid UTF-8 fail with eff.ErrInvalidText.
func FromFile(f *eff.File) (*Data, error) {
	if len(f.HandleNames) != len(f.Handles) {
		return nil, fmt.Errorf("%w: %d handle names for %d handles",
			eff.ErrCorruptIndex, len(f.HandleNames), len(f.Handles))
	}
	if len(f.ModelNames) != len(f.ModelEntries) {
		return nil, fmt.Errorf("%w: %d model names for %d model entries",
			eff.ErrCorruptIndex, len(f.ModelNames), len(f.ModelEntries))
	}
	if len(f.ParentJointNames) != len(f.GroupElements) {
		return nil, fmt.Errorf("%w: %d parent joint names for %d group elements",
			eff.ErrCorruptIndex, len(f.ParentJointNames), len(f.GroupElements))
	}

	d := &Data{
		Handles:      make([]HandleData, 0, len(f.Handles)),
		ModelEntries: make([]ModelEntryData, 0, len(f.ModelEntries)),
		ResourceData: f.ResourceData,
	}

	for i, h := range f.Handles {
		name, err := f.HandleNames[i].Text()
		if err != nil {
			return nil, fmt.Errorf("handle %d: %w", i, err)
		}

		var modelName string
		if h.ModelEntry != 0 {
			if h.ModelEntry < 1 || int(h.ModelEntry) > len(f.ModelNames) {
				return nil, fmt.Errorf("%w: handle %q references model entry %d of %d",
					eff.ErrCorruptIndex, name, h.ModelEntry, len(f.ModelNames))
			}
			if modelName, err = f.ModelNames[h.ModelEntry-1].Text(); err != nil {
				return nil, fmt.Errorf("handle %q: %w", name, err)
			}
		}

		group, err := sliceGroup(f, h, name)
		if err != nil {
			return nil, err
		}

		d.Handles = append(d.Handles, HandleData{
			Name:       name,
			Flags:      h.Flags,
			EmitterSet: h.EmitterSet,
			ModelName:  modelName,
			Group:      group,
		})
	}

	for i, m := range f.ModelEntries {
		name, err := f.ModelNames[i].Text()
		if err != nil {
			return nil, fmt.Errorf("model entry %d: %w", i, err)
		}
		d.ModelEntries = append(d.ModelEntries, ModelEntryData{Name: name, Unk: m.Unk})
	}

	return d, nil
}

func sliceGroup(f *eff.File, h eff.Handle, name string) ([]GroupElementData, error) {
	if h.GroupCount == 0 {
		return nil, nil
	}
	start := int(h.GroupStart) - 1
	end := start + int(h.GroupCount)
	if h.GroupCount < 0 || start < 0 || end > len(f.GroupElements) {
		return nil, fmt.Errorf("%w: handle %q references group elements [%d,%d) of %d",
			eff.ErrCorruptIndex, name, start, end, len(f.GroupElements))
	}

	group := make([]GroupElementData, 0, h.GroupCount)
	for i, el := range f.GroupElements[start:end] {
		joint, err := f.ParentJointNames[start+i].Text()
		if err != nil {
			return nil, fmt.Errorf("handle %q group element %d: %w", name, i, err)
		}
		group = append(group, GroupElementData{
			StartFrame:      el.StartFrame,
			EmitterSet:      el.EmitterSet,
			ParentJointName: joint,
		})
	}
	return group, nil
}

// File renormalizes the data into a raw container.
//
// Model names resolve to the first model entry with a matching name
// (1-based); an unmatched or empty name stores 0. Duplicate model names
// therefore always resolve to the earliest occurrence, which is the
// behavior of existing tooling and is kept deliberately. Group elements
// are flattened into the shared arrays in handle order with a running
// cursor assigning each handle's 1-based start index.
func (d *Data) File() *eff.File {
	f := &eff.File{
		Handles:      make([]eff.Handle, 0, len(d.Handles)),
		ModelEntries: make([]eff.ModelEntry, 0, len(d.ModelEntries)),
		HandleNames:  make([]eff.CString, 0, len(d.Handles)),
		ModelNames:   make([]eff.CString, 0, len(d.ModelEntries)),
		ResourceData: d.ResourceData,
	}

	var cursor int16
	for _, h := range d.Handles {
		var groupStart int16
		if len(h.Group) > 0 {
			groupStart = cursor + 1
			cursor += int16(len(h.Group))
		}
		f.Handles = append(f.Handles, eff.Handle{
			Flags:      h.Flags,
			EmitterSet: h.EmitterSet,
			ModelEntry: d.modelEntryIndex(h.ModelName),
			GroupStart: groupStart,
			GroupCount: int16(len(h.Group)),
		})
		f.HandleNames = append(f.HandleNames, eff.NewCString(h.Name))

		for _, el := range h.Group {
			f.GroupElements = append(f.GroupElements, eff.GroupElement{
				StartFrame: el.StartFrame,
				EmitterSet: el.EmitterSet,
			})
			f.ParentJointNames = append(f.ParentJointNames, eff.NewCString(el.ParentJointName))
		}
	}

	for _, m := range d.ModelEntries {
		f.ModelEntries = append(f.ModelEntries, eff.ModelEntry{Unk: m.Unk})
		f.ModelNames = append(f.ModelNames, eff.NewCString(m.Name))
	}

	return f
}

// modelEntryIndex returns the 1-based position of the first model entry
// named name. An empty name means "no model" and always stores 0.
func (d *Data) modelEntryIndex(name string) int32 {
	if name == "" {
		return 0
	}
	for i, m := range d.ModelEntries {
		if m.Name == name {
			return int32(i) + 1
		}
	}
	return 0
}
