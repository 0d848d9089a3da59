package auth

import "sync"

// MockStore is an in-memory CredentialStore for testing
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account

	// Failures can be toggled per operation
	StoreErr    error
	RetrieveErr error
	ListErr     error
	DeleteErr   error
}

// NewMockStore creates a new in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*Account),
	}
}

// Store saves an account in memory
func (m *MockStore) Store(account *Account) error {
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *account
	m.accounts[account.Name] = &copied
	return nil
}

// Retrieve gets an account from memory
func (m *MockStore) Retrieve(name string) (*Account, error) {
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	account, exists := m.accounts[name]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	copied := *account
	return &copied, nil
}

// List returns all accounts in memory
func (m *MockStore) List() ([]*Account, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// Delete removes an account from memory
func (m *MockStore) Delete(name string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[name]; !exists {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, name)
	return nil
}

// Exists checks if an account exists in memory
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.accounts[name]
	return exists
}
