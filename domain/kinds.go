// Package domain defines the five entity kinds of the relationship journal
// and the user account model. Entities are flat records with no cross-entity
// references.
package domain

// Kind identifies one of the journal's entity collections.
type Kind string

const (
	KindMemory      Kind = "memories"
	KindAnniversary Kind = "anniversaries"
	KindMessage     Kind = "messages"
	KindWish        Kind = "wishes"
	KindMood        Kind = "moods"
)

// Kinds lists every journal collection in a fixed order. The order is used
// wherever all collections are iterated (refresh, clear, import).
var Kinds = []Kind{KindMemory, KindAnniversary, KindMessage, KindWish, KindMood}

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	switch k {
	case KindMemory, KindAnniversary, KindMessage, KindWish, KindMood:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Singular returns the kind's singular label, used in messages like
// "memory not found".
func (k Kind) Singular() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindAnniversary:
		return "anniversary"
	case KindMessage:
		return "message"
	case KindWish:
		return "wish"
	case KindMood:
		return "mood"
	}
	return string(k)
}
