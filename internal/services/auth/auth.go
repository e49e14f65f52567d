package auth

import (
	"errors"

	"nathanbeddoewebdev/conform/internal/util"
)

const ServiceName = "conform"

// DefaultFeed is the feed name used when none is given. The dotnet
// toolchain exports this feed's token to authenticated package
// restores.
const DefaultFeed = "nuget"

// KnownFeeds lists the package feeds conform commonly holds tokens
// for. Tokens for other feeds still work; this list only drives
// status displays.
var KnownFeeds = []string{DefaultFeed, "github", "azure"}

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(feed string, token string) error
	GetToken(feed string) (string, error)
	DeleteToken(feed string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeFeed normalizes a feed name for consistent key lookup.
func NormalizeFeed(feed string) string {
	return util.NormalizeKey(feed)
}
