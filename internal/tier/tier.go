// Package tier implements the membership tier model that gates event
// visibility. Four ordered tiers exist: free < silver < gold < platinum.
// The package is pure and safe for concurrent use.
package tier

// Tier is one of the four membership levels, or Unknown for a label the
// identity provider handed us that we could not classify.
type Tier string

const (
	Free     Tier = "free"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"

	// Unknown is produced at the parse boundary for unrecognized labels.
	// It has level -1: no accessible tiers, every event locked.
	Unknown Tier = ""
)

// ordering is the canonical ascending privilege order. Fixed at compile
// time; no runtime reordering or extension.
var ordering = [...]Tier{Free, Silver, Gold, Platinum}

// Parse classifies a raw tier label from a profile. An empty label means
// the provider has no tier on file and resolves to Free, the documented
// default. A non-empty label that is not one of the four canonical values
// resolves to Unknown and reports false.
func Parse(label string) (Tier, bool) {
	if label == "" {
		return Free, true
	}
	for _, t := range ordering {
		if string(t) == label {
			return t, true
		}
	}
	return Unknown, false
}

// Level returns the ordinal position of the tier in the canonical
// ordering, 0 through 3. Unknown (and any value outside the canonical
// four) is -1.
func (t Tier) Level() int {
	for i, v := range ordering {
		if v == t {
			return i
		}
	}
	return -1
}

// String returns the wire label for the tier.
func (t Tier) String() string {
	return string(t)
}

// All returns the canonical ascending ordering.
func All() []Tier {
	out := make([]Tier, len(ordering))
	copy(out, ordering[:])
	return out
}

// Accessible returns the contiguous prefix of the canonical ordering up
// to and including the requester's tier. An Unknown requester gets an
// empty prefix: a label we cannot classify is granted nothing.
func Accessible(requester Tier) []Tier {
	n := requester.Level() + 1
	out := make([]Tier, n)
	copy(out, ordering[:n])
	return out
}

// Locked reports whether an event requiring eventTier is locked for a
// requester. An event is locked iff its tier sits strictly above the
// requester's; equal tiers never lock. An Unknown requester is locked
// out of everything, including free events.
func Locked(eventTier, requester Tier) bool {
	return eventTier.Level() > requester.Level()
}
