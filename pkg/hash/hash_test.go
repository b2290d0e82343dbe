package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckSecret(t *testing.T) {
	hashed, err := HashSecret("super-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "super-secret", hashed)

	assert.True(t, CheckSecret("super-secret", hashed))
	assert.False(t, CheckSecret("wrong-secret", hashed))
}

func TestCheckSecretInvalidHash(t *testing.T) {
	assert.False(t, CheckSecret("anything", "not-a-bcrypt-hash"))
}
