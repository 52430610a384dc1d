// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)

	other, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestGenerateTrackingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^AGT-\d{8}-[A-Z0-9]{8}$`)

	tn, err := GenerateTrackingNumber()
	require.NoError(t, err)
	assert.Regexp(t, pattern, tn)

	other, err := GenerateTrackingNumber()
	require.NoError(t, err)
	assert.NotEqual(t, tn, other)
}

func TestGenerateBatchCode(t *testing.T) {
	pattern := regexp.MustCompile(`^BATCH-[A-Z0-9]{12}$`)

	code, err := GenerateBatchCode()
	require.NoError(t, err)
	assert.Regexp(t, pattern, code)
}

func TestHashString(t *testing.T) {
	// sha256 of the empty string
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashString(""))

	assert.Equal(t, HashString("payload"), HashString("payload"))
	assert.NotEqual(t, HashString("payload"), HashString("payload2"))
	assert.Len(t, HashString("anything"), 64)
}

func TestChainHash(t *testing.T) {
	genesis := ChainHash("", "first entry")
	assert.Equal(t, HashString("|first entry"), genesis)

	next := ChainHash(genesis, "second entry")
	assert.NotEqual(t, genesis, next)

	// Same inputs always chain to the same hash
	assert.Equal(t, next, ChainHash(genesis, "second entry"))

	// A different predecessor changes the hash even for identical
	// payloads
	assert.NotEqual(t, next, ChainHash("", "second entry"))
}
