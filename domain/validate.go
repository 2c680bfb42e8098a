package domain

import (
	"encoding/json"
	"fmt"

	"lovelog-backend/pkg/utils"
)

// ValidateCreate checks a create request body against the schema of the given
// kind. Unknown kinds and malformed JSON are rejected. Update requests are
// partial and deliberately not validated here; the storage layer merges
// whatever fields arrive, matching last-write-wins semantics.
func ValidateCreate(kind Kind, body []byte) error {
	var target interface{}
	switch kind {
	case KindMemory:
		target = &Memory{}
	case KindAnniversary:
		target = &Anniversary{}
	case KindMessage:
		target = &Message{}
	case KindWish:
		target = &Wish{}
	case KindMood:
		target = &Mood{}
	default:
		return fmt.Errorf("unknown collection %q", kind)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return utils.ValidateStruct(target)
}
