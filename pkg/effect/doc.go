// Package effect encodes the pending side effects of a fiber.
//
// A fiber can need several independent effects at once: its attributes synced,
// its host node placed, its ref updated and a lifecycle hook run. Each Effect
// owns one bit of a Tag, so composing effects is order independent and decoding
// recovers exactly the set that was encoded.
//
// Three Tag values are reserved and never carry effects:
//
//	None     the fiber has not been visited yet
//	Working  the fiber needs work but no effect has been recorded
//	NoWork   the fiber and its subtree were bailed out for this pass
//
// # Usage
//
//	tag := effect.Working.With(effect.Place, effect.Attr)
//	tag.Has(effect.Place) // true
//	tag.Effects()         // [Place Attr]
package effect
