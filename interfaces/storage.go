package interfaces

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// SecretStore persists content-id to AES key records.
// It performs no authorization; callers must gate reads.
type SecretStore interface {
	// Put creates a new record. No uniqueness check is performed, so several
	// records may exist for the same content id.
	Put(ctx context.Context, contentID ContentID, aesKey string) (*ContentKeyRecord, error)

	// GetByContentID returns the first record found for contentID, or ErrKeyNotFound.
	// No ordering is defined among duplicates.
	GetByContentID(ctx context.Context, contentID ContentID) (*ContentKeyRecord, error)

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Name returns identifier for logging.
	Name() string

	Close() error
}

// Pinner uploads a byte payload to a pinning service.
type Pinner interface {
	// Pin uploads the payload and returns the content identifier assigned to it.
	Pin(ctx context.Context, filename string, data io.Reader) (string, error)

	// Name returns identifier for logging.
	Name() string
}

// SecretStoreLocation represents URI for a secret store backend.
type SecretStoreLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewSecretStoreLocation creates a new store location from a URI string with validation.
func NewSecretStoreLocation(uri string) (SecretStoreLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return SecretStoreLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "sqlite", "postgres", "postgresql", "vault":
	default:
		return SecretStoreLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return SecretStoreLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc SecretStoreLocation) String() string {
	return loc.Raw
}

// IsSQL checks if this is a relational store location.
func (loc SecretStoreLocation) IsSQL() bool {
	return loc.Scheme == "sqlite" || loc.Scheme == "postgres" || loc.Scheme == "postgresql"
}

// IsVault checks if this is a Vault store location.
func (loc SecretStoreLocation) IsVault() bool {
	return loc.Scheme == "vault"
}

// GetParam returns a query parameter value.
func (loc SecretStoreLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc SecretStoreLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}
