package typesystem

// Kind tags the variant of a Descriptor.
type Kind int

const (
	KindSimple  Kind = iota // plain nominal type (String, int)
	KindArray               // element type plus dimension count (int[][])
	KindGeneric             // nominal type applied to parameters (List<String>)
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindArray:
		return "Array"
	case KindGeneric:
		return "Generic"
	default:
		return "Unknown"
	}
}
