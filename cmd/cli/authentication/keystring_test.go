package authentication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokensRoundTrip(t *testing.T) {
	keyring.MockInit()
	const api = "http://localhost:8080"

	_, err := GetTokens(api)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, StoreTokens(api, &StoredCredentials{AccessToken: "a", RefreshToken: "r", Username: "ana"}))
	creds, err := GetTokens(api)
	require.NoError(t, err)
	assert.Equal(t, "ana", creds.Username)
	assert.Equal(t, "r", creds.RefreshToken)

	_, err = GetTokens("http://other:8080")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, DeleteTokens(api))
	require.NoError(t, DeleteTokens(api))
	_, err = GetTokens(api)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
