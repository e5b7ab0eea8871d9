package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOAuthStateCodec_RoundTrip(t *testing.T) {
	codec := NewOAuthStateCodec("test-secret")

	state := codec.Mint(42)
	userID, err := codec.Verify(state)

	assert.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

// A state assembled by hand, without the server secret, must never resolve
// to a user.
func TestOAuthStateCodec_RejectsUnsignedState(t *testing.T) {
	codec := NewOAuthStateCodec("test-secret")

	for _, state := range []string{
		"7:attacker-made-this-up",
		"7:nonce:deadbeef",
		"7",
		"",
	} {
		_, err := codec.Verify(state)
		assert.ErrorIs(t, err, ErrInvalidOAuthState, "state %q", state)
	}
}

func TestOAuthStateCodec_RejectsTamperedUserID(t *testing.T) {
	codec := NewOAuthStateCodec("test-secret")

	state := codec.Mint(42)
	forged := "7" + state[strings.Index(state, ":"):]

	_, err := codec.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidOAuthState)
}

func TestOAuthStateCodec_RejectsForeignSecret(t *testing.T) {
	minted := NewOAuthStateCodec("secret-a").Mint(42)

	_, err := NewOAuthStateCodec("secret-b").Verify(minted)
	assert.ErrorIs(t, err, ErrInvalidOAuthState)
}
