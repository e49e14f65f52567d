package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(feed string, token string) error {
	m.tokens[NormalizeFeed(feed)] = token
	return nil
}

func (m *MockStore) GetToken(feed string) (string, error) {
	token, ok := m.tokens[NormalizeFeed(feed)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(feed string) error {
	key := NormalizeFeed(feed)
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}
