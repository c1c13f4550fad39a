package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsUniqueAndCanonical(t *testing.T) {
	seen := make(map[ID]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := Generate()
		require.False(t, id.IsEmpty())
		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated")
		seen[id] = struct{}{}

		s := id.String()
		assert.Len(t, s, 36)
		assert.Equal(t, strings.ToLower(s), s)
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := Generate()
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	upper, err := Parse(strings.ToUpper(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, upper)
	assert.Equal(t, id.String(), upper.String())
}

func TestParseRejectsNonCanonical(t *testing.T) {
	cases := []string{
		"",
		"not-an-id",
		"00000000-0000-0000-0000-0000000000zz",
		"000000000000000000000000000000000000",
		"00000000000000000000000000000000",
		"{00000000-0000-0000-0000-000000000000}",
		"urn:uuid:00000000-0000-0000-0000-000000000000",
		"00000000-0000-0000-0000-00000000000",
	}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, text, fe.Text)

			_, ok := TryParse(text)
			assert.False(t, ok)
		})
	}
}

func TestEmptyIsSentinel(t *testing.T) {
	id, err := Parse("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.True(t, id.IsEmpty())
	assert.Equal(t, Empty, id)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", Empty.String())
}

func TestTextMarshaling(t *testing.T) {
	id := MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", string(text))

	var back ID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)

	assert.Error(t, back.UnmarshalText([]byte("garbage")))
}
