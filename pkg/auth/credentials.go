package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store errors shared by all backends
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Account holds the credentials for one Airtable base / Instagram account
// pair. One binary can sync several bases by switching accounts.
type Account struct {
	Name            string    `json:"name"`
	AirtableToken   string    `json:"airtable_token"`
	AirtableBaseID  string    `json:"airtable_base_id"`
	InstagramUserID string    `json:"instagram_user_id"`
	InstagramToken  string    `json:"instagram_token"`
	LastModified    time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given account
	Store(account *Account) error

	// Retrieve gets credentials for a specific account name
	Retrieve(name string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for a specific account name
	Delete(name string) error

	// Exists checks if credentials exist for an account name
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager with the available backends:
// system keychain first, encrypted file second, environment variables last.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// newManagerWithStores is used by tests to inject specific backends
func newManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account.Name == "" {
		return errors.New("account name is required")
	}
	if account.AirtableToken == "" {
		return errors.New("Airtable token is required")
	}
	if account.InstagramToken == "" {
		return errors.New("Instagram access token is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(name); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("credentials not found for account: %s", name)
}

// RetrieveDefault gets credentials from the environment if present, otherwise
// the first stored account
func (m *Manager) RetrieveDefault() (*Account, error) {
	for _, store := range m.stores {
		if _, ok := store.(*EnvironmentStore); ok {
			if account, err := store.Retrieve(""); err == nil && account != nil {
				return account, nil
			}
		}
	}

	accounts, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrCredentialsNotFound
	}
	return accounts[0], nil
}

// List returns the union of accounts across all stores, deduplicated by name
func (m *Manager) List() ([]*Account, error) {
	seen := make(map[string]bool)
	var accounts []*Account

	for _, store := range m.stores {
		stored, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range stored {
			if seen[account.Name] {
				continue
			}
			seen[account.Name] = true
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}

// Delete removes credentials from every store that has them
func (m *Manager) Delete(name string) error {
	deleted := false
	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		}
	}

	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// Exists checks if any store has credentials for the account name
func (m *Manager) Exists(name string) bool {
	for _, store := range m.stores {
		if store.Exists(name) {
			return true
		}
	}
	return false
}

// getConfigDir returns the tool's config directory, creating it if needed
func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "hashtagsync")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}
