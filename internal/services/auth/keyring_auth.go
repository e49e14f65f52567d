package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(feed string, token string) error {
	feedKey := NormalizeFeed(feed)
	return keyring.Set(k.serviceName, feedKey, token)
}

func (k *KeyringStore) GetToken(feed string) (string, error) {
	feedKey := NormalizeFeed(feed)
	token, err := keyring.Get(k.serviceName, feedKey)
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(feed string) error {
	feedKey := NormalizeFeed(feed)
	err := keyring.Delete(k.serviceName, feedKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
