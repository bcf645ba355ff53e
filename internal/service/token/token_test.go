package token

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]{22}$`)

func TestIssue_FormatAndUniqueness(t *testing.T) {
	issuer := NewIssuer()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := issuer.Issue()
		require.NoError(t, err)
		require.Regexp(t, urlSafe, tok)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}

func TestIssue_EntropyFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	issuer := &RandomIssuer{newUUID: func() (uuid.UUID, error) { return uuid.Nil, boom }}

	tok, err := issuer.Issue()
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, tok)
}
