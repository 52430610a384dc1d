// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Farm created", T("en", KeyFarmCreated))
	assert.Equal(t, "Order placed", T("en", KeyOrderCreated))

	// Unknown language falls back to English
	assert.Equal(t, "Farm created", T("fr", KeyFarmCreated))

	// Unknown key comes back verbatim
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestTFormatsArguments(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Invalid input", T("en", KeyValidationInvalid, "input"))
	assert.Equal(t, "quantity is required", T("en", KeyValidationRequired, "quantity"))
}

func TestGetSupportedLanguages(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Contains(t, GetSupportedLanguages(), "en")
}
