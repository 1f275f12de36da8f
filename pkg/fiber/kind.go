package fiber

// Kind classifies a fiber. Component kinds sort below host kinds.
type Kind uint8

const (
	KindFunction Kind = iota + 1 // Stateless component
	KindClass                    // Component with an instance
	KindElement                  // Host element (<div>, a surface, ...)
	KindText                     // Host text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// IsHost returns true for kinds handled by the host updater.
func (k Kind) IsHost() bool {
	return k >= KindElement
}

// IsComponent returns true for kinds handled by the component updater.
func (k Kind) IsComponent() bool {
	return k == KindFunction || k == KindClass
}
