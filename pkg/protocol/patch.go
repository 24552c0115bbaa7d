package protocol

import "fmt"

// PatchOp is the type of patch operation.
type PatchOp uint8

// Patch operation constants.
const (
	PatchSetAttr    PatchOp = 0x02 // Set attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchInsertHTML PatchOp = 0x04 // Insert serialized nodes
	PatchRemove     PatchOp = 0x05 // Remove node
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertHTML:
		return "InsertHTML"
	case PatchRemove:
		return "Remove"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(op))
	}
}

// Patch is one DOM change, addressed by child-index path.
type Patch struct {
	Op    PatchOp
	Path  []int  // target node; the parent for PatchInsertHTML
	Index int    // PatchInsertHTML: insert before this child
	Key   string // attribute name
	Value string // attribute value or HTML
}

// NewInsertHTMLPatch inserts html into the node at parent before child index.
func NewInsertHTMLPatch(parent []int, index int, html string) Patch {
	return Patch{Op: PatchInsertHTML, Path: parent, Index: index, Value: html}
}

// NewRemovePatch removes the node at path.
func NewRemovePatch(path []int) Patch {
	return Patch{Op: PatchRemove, Path: path}
}

// NewSetAttrPatch sets an attribute on the node at path.
func NewSetAttrPatch(path []int, key, value string) Patch {
	return Patch{Op: PatchSetAttr, Path: path, Key: key, Value: value}
}

// NewRemoveAttrPatch removes an attribute from the node at path.
func NewRemoveAttrPatch(path []int, key string) Patch {
	return Patch{Op: PatchRemoveAttr, Path: path, Key: key}
}

// EncodePatches encodes a list of patches to a frame payload.
func EncodePatches(patches []Patch) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, patches)
	return e.Bytes()
}

// EncodePatchesTo encodes patches using the provided encoder.
func EncodePatchesTo(e *Encoder, patches []Patch) {
	e.WriteUvarint(uint64(len(patches)))
	for _, p := range patches {
		e.WriteByte(byte(p.Op))
		e.WritePath(p.Path)
		switch p.Op {
		case PatchInsertHTML:
			e.WriteUvarint(uint64(p.Index))
			e.WriteString(p.Value)
		case PatchSetAttr:
			e.WriteString(p.Key)
			e.WriteString(p.Value)
		case PatchRemoveAttr:
			e.WriteString(p.Key)
		}
	}
}

// DecodePatches decodes a patch frame payload.
func DecodePatches(data []byte) ([]Patch, error) {
	return DecodePatchesFrom(NewDecoder(data))
}

// DecodePatchesFrom decodes patches from a decoder.
func DecodePatchesFrom(d *Decoder) ([]Patch, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, 0, count)
	for i := 0; i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		patches = append(patches, p)
	}
	return patches, nil
}

func decodePatch(d *Decoder) (Patch, error) {
	var p Patch
	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = PatchOp(op)

	if p.Path, err = d.ReadPath(); err != nil {
		return p, err
	}

	switch p.Op {
	case PatchInsertHTML:
		idx, err := d.ReadUvarint()
		if err != nil {
			return p, err
		}
		p.Index = int(idx)
		if p.Value, err = d.ReadString(); err != nil {
			return p, err
		}
	case PatchSetAttr:
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
		if p.Value, err = d.ReadString(); err != nil {
			return p, err
		}
	case PatchRemoveAttr:
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
	case PatchRemove:
	default:
		return p, fmt.Errorf("protocol: unknown patch op 0x%02x", op)
	}
	return p, nil
}
