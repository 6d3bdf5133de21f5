package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveConfirmationCodeIsDeterministic(t *testing.T) {
	a := DeriveConfirmationCode("secret", "alice", false)
	b := DeriveConfirmationCode("secret", "alice", false)
	assert.Equal(t, a, b)
}

func TestDeriveConfirmationCodeChangesWithActiveFlag(t *testing.T) {
	// the core correctness property: flipping the active flag invalidates
	// every previously derived code
	pending := DeriveConfirmationCode("secret", "alice", false)
	active := DeriveConfirmationCode("secret", "alice", true)
	assert.NotEqual(t, pending, active)
}

func TestDeriveConfirmationCodeChangesWithInputs(t *testing.T) {
	base := DeriveConfirmationCode("secret", "alice", false)

	assert.NotEqual(t, base, DeriveConfirmationCode("secret", "bob", false))
	assert.NotEqual(t, base, DeriveConfirmationCode("other-secret", "alice", false))
}

func TestDeriveConfirmationCodeIsOpaque(t *testing.T) {
	code := DeriveConfirmationCode("secret", "alice", false)

	raw, err := base64.RawURLEncoding.DecodeString(code)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	// no input material leaks into the code
	assert.NotContains(t, strings.ToLower(code), "alice")
}

func TestDeriveConfirmationCodeHandlesLongSecrets(t *testing.T) {
	long := strings.Repeat("s", 200)
	a := DeriveConfirmationCode(long, "alice", false)
	b := DeriveConfirmationCode(long, "alice", false)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, DeriveConfirmationCode(long, "alice", true))
}
