package authentication

// Tokens for the CLI live in the OS keyring, one entry per API server.
import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "bookshelf-cli"

// ErrNotLoggedIn is returned when no credentials are stored for a server.
var ErrNotLoggedIn = errors.New("not logged in, run `bookshelf auth login` first")

type StoredCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	ExpiresAt    int64  `json:"expires_at"`
}

func StoreTokens(apiURL string, creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, apiURL, string(data))
}

func GetTokens(apiURL string) (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, apiURL)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, fmt.Errorf("decode stored credentials: %w", err)
	}
	return &creds, nil
}

// DeleteTokens forgets the credentials of apiURL. Nothing stored is not an error.
func DeleteTokens(apiURL string) error {
	err := keyring.Delete(serviceName, apiURL)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
