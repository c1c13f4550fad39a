// Package identity provides the 128-bit identifiers that name every persisted
// object in a scene graph. An ID is stable for the object's lifetime and is
// carried unchanged through encode/decode.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// canonicalLen is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLen = 36

// ID is an immutable 128-bit identifier. It is comparable and may be used as
// a map key. The zero value is Empty.
type ID uuid.UUID

// Empty is the all-zero identifier. It is a sentinel value, not "no id":
// optional references are modeled with *ID or a nil target instead.
var Empty ID

// Identifiable is implemented by every object that can be registered in a
// resolver or referenced from a record.
type Identifiable interface {
	ID() ID
}

// Generate returns a fresh random identifier.
func Generate() ID {
	return ID(uuid.New())
}

// Parse parses the canonical 8-4-4-4-12 hex form (case-insensitive).
func Parse(text string) (ID, error) {
	if !isCanonical(text) {
		return Empty, &FormatError{Text: text}
	}
	u, err := uuid.Parse(text)
	if err != nil {
		return Empty, &FormatError{Text: text, Err: err}
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and constants.
func MustParse(text string) ID {
	id, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(text string) (ID, bool) {
	id, err := Parse(text)
	if err != nil {
		return Empty, false
	}
	return id, true
}

// String returns the lowercase canonical form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsEmpty reports whether id is the all-zero sentinel.
func (id ID) IsEmpty() bool {
	return id == Empty
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// isCanonical checks the hyphen layout and hex digits. uuid.Parse alone also
// accepts braces, urn prefixes and the un-hyphenated form.
func isCanonical(text string) bool {
	if len(text) != canonicalLen {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !strings.ContainsRune("0123456789abcdefABCDEF", rune(c)) {
				return false
			}
		}
	}
	return true
}
