package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It reads the same variables the original Airtable automation used, so
// existing cron setups keep working without a stored account.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	airtableToken := os.Getenv("AIRTABLE_TOKEN")
	instagramToken := os.Getenv("IG_TOKEN")

	if airtableToken == "" || instagramToken == "" {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't carry an account name
	if name == "" {
		name = "default"
	}

	return &Account{
		Name:            name,
		AirtableToken:   airtableToken,
		AirtableBaseID:  os.Getenv("AIRTABLE_BASE_ID"),
		InstagramUserID: os.Getenv("IG_USER_ID"),
		InstagramToken:  instagramToken,
		LastModified:    time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("AIRTABLE_TOKEN") != "" && os.Getenv("IG_TOKEN") != ""
}
