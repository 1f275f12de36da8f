package effect

import "strings"

// Effect is a single side effect the commit phase applies to a fiber.
type Effect uint8

const (
	Place    Effect = iota + 1 // Insert the host node at its mount point
	Attr                       // Re-apply host attributes
	Content                    // Replace text content
	Ref                        // Attach the declared ref
	NullRef                    // Detach a stale ref
	Detach                     // Remove the host node and dispose the fiber
	Hook                       // Run a commit-time lifecycle hook
)

// All lists every effect in decoding order.
var All = []Effect{Place, Attr, Content, Ref, NullRef, Detach, Hook}

// String returns the string representation of the Effect.
func (e Effect) String() string {
	switch e {
	case Place:
		return "Place"
	case Attr:
		return "Attr"
	case Content:
		return "Content"
	case Ref:
		return "Ref"
	case NullRef:
		return "NullRef"
	case Detach:
		return "Detach"
	case Hook:
		return "Hook"
	default:
		return "Unknown"
	}
}

func (e Effect) bit() Tag {
	return 1 << e
}

// Tag is the encoded set of effects pending on a fiber.
type Tag uint32

const (
	// None is the zero value: the fiber was never dispatched.
	None Tag = 0

	// Working marks a fiber that needs work. It is the base every effect is
	// encoded onto.
	Working Tag = 1

	// NoWork marks a bailed-out fiber whose subtree is not reprocessed.
	NoWork Tag = 1 << 31
)

const effectMask = NoWork - 1 - Working

// With returns t with the given effects added. Encoding onto None or NoWork
// starts from Working.
func (t Tag) With(effects ...Effect) Tag {
	if t == None || t == NoWork {
		t = Working
	}
	for _, e := range effects {
		t |= e.bit()
	}
	return t
}

// Has reports whether e is encoded in t.
func (t Tag) Has(e Effect) bool {
	if t == NoWork {
		return false
	}
	return t&e.bit() != 0
}

// HasEffects reports whether t carries at least one effect.
func (t Tag) HasEffects() bool {
	return t != NoWork && t&effectMask != 0
}

// Effects decodes t into its effects, in the order of All.
func (t Tag) Effects() []Effect {
	if !t.HasEffects() {
		return nil
	}
	out := make([]Effect, 0, len(All))
	for _, e := range All {
		if t.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// String returns the string representation of the Tag.
func (t Tag) String() string {
	switch t {
	case None:
		return "None"
	case Working:
		return "Working"
	case NoWork:
		return "NoWork"
	}
	effects := t.Effects()
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = e.String()
	}
	return strings.Join(names, "|")
}
