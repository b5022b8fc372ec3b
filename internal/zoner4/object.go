package zoner4

import "github.com/zoner-draw/zmf/internal/streamio"

// NoID is the sentinel id value meaning "no id" / "no reference".
const NoID uint32 = 0xffffffff

// ObjectType tags one Zoner-4 object record.
type ObjectType int

const (
	ObjectUnknown ObjectType = iota
	ObjectFill
	ObjectTransparency
	ObjectPen
	ObjectShadow
	ObjectBitmap
	ObjectArrow
	ObjectFont
	ObjectParagraph
	ObjectText
	ObjectPageStart
	ObjectGuidelines
	ObjectPageEnd
	ObjectLayerStart
	ObjectLayerEnd
	ObjectDocumentSettings
	ObjectColorPalette
	ObjectRectangle
	ObjectEllipse
	ObjectPolygon
	ObjectCurve
	ObjectImage
	ObjectTextFrame
	ObjectTable
	ObjectGroupStart
	ObjectGroupEnd
)

// parseObjectType maps the on-disk type byte to an ObjectType. Unrecognized
// codes map to ObjectUnknown and are silently skipped by the layer loop.
func parseObjectType(code uint8) ObjectType {
	switch code {
	case 0x0a:
		return ObjectFill
	case 0x0b:
		return ObjectTransparency
	case 0x0c:
		return ObjectPen
	case 0x0d:
		return ObjectShadow
	case 0x0e:
		return ObjectBitmap
	case 0x0f:
		return ObjectArrow
	case 0x10:
		return ObjectFont
	case 0x11:
		return ObjectParagraph
	case 0x12:
		return ObjectText
	case 0x21:
		return ObjectPageStart
	case 0x22:
		return ObjectGuidelines
	case 0x23:
		return ObjectPageEnd
	case 0x24:
		return ObjectLayerStart
	case 0x25:
		return ObjectLayerEnd
	case 0x27:
		return ObjectDocumentSettings
	case 0x28:
		return ObjectColorPalette
	case 0x32:
		return ObjectRectangle
	case 0x33:
		return ObjectEllipse
	case 0x34:
		return ObjectPolygon
	case 0x36:
		return ObjectCurve
	case 0x37:
		return ObjectImage
	case 0x3a:
		return ObjectTextFrame
	case 0x3b:
		return ObjectTable
	case 0x41:
		return ObjectGroupStart
	case 0x42:
		return ObjectGroupEnd
	default:
		return ObjectUnknown
	}
}

// ObjectHeader is the fixed-layout record header preceding every Zoner-4
// object body.
type ObjectHeader struct {
	StartOffset        int64
	Size                uint32
	Type                ObjectType
	RefObjCount         uint32
	RefListStartOffset  int64 // absolute; 0 means no ref table
	ID                  uint32
	HasID               bool
	NextObjectOffset    int64
}

// readObjectHeader reads an ObjectHeader at the reader's current position,
// validating size/offset/count bounds against the stream length.
func readObjectHeader(r *streamio.Reader, inputLength int64) (ObjectHeader, error) {
	var h ObjectHeader
	h.StartOffset = r.Tell()

	size, err := r.ReadU32()
	if err != nil {
		return h, err
	}
	typeCode, err := r.ReadU8()
	if err != nil {
		return h, err
	}
	if err := r.Skip(7); err != nil {
		return h, err
	}
	refObjCount, err := r.ReadU32()
	if err != nil {
		return h, err
	}
	refListStartOffset, err := r.ReadU32()
	if err != nil {
		return h, err
	}

	if size == 0 || h.StartOffset+int64(size) > inputLength {
		return h, streamio.NewGeneric("zoner4: object size out of range")
	}
	if int64(refListStartOffset) >= int64(size) {
		return h, streamio.NewGeneric("zoner4: ref list start out of range")
	}
	if refObjCount > (size-refListStartOffset)/8 {
		return h, streamio.NewGeneric("zoner4: ref object count out of range")
	}

	if err := r.Skip(4); err != nil {
		return h, err
	}
	id, err := r.ReadU32()
	if err != nil {
		return h, err
	}

	h.Size = size
	h.Type = parseObjectType(typeCode)
	h.RefObjCount = refObjCount
	h.NextObjectOffset = h.StartOffset + int64(size)
	if refListStartOffset > 0 {
		h.RefListStartOffset = h.StartOffset + int64(refListStartOffset)
	}
	if id != NoID {
		h.ID = id
		h.HasID = true
	}
	return h, nil
}

// ObjectRef is one (id, tag) pair from an object's reference list.
type ObjectRef struct {
	ID  uint32
	Tag uint32
}

// readObjectRefs reads h's reference list at RefListStartOffset (all ids,
// then all tags), filtering out NoID pairs. The ref count is re-clamped
// against the space between RefListStartOffset and the end of the object.
func readObjectRefs(r *streamio.Reader, h ObjectHeader) ([]ObjectRef, error) {
	if h.RefListStartOffset == 0 || h.RefObjCount == 0 {
		return nil, nil
	}
	count := h.RefObjCount
	if avail := uint32((h.NextObjectOffset - h.RefListStartOffset) / 8); count > avail {
		count = avail
	}

	if err := r.Seek(h.RefListStartOffset); err != nil {
		return nil, err
	}
	ids := make([]uint32, count)
	for i := range ids {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	tags := make([]uint32, count)
	for i := range tags {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		tags[i] = v
	}

	refs := make([]ObjectRef, 0, count)
	for i := range ids {
		if ids[i] == NoID {
			continue
		}
		refs = append(refs, ObjectRef{ID: ids[i], Tag: tags[i]})
	}
	return refs, nil
}
