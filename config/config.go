// Package config holds the gateway configuration. It is constructed once by
// the binary (from flags bound to environment variables) and passed
// explicitly to each component's constructor; no component reads the
// process environment itself.
package config

import (
	"encoding/hex"
	"fmt"
	"time"
)

const (
	DefaultCLIPath        = "stellar"
	DefaultNetwork        = "testnet"
	DefaultAdminAlias     = "creator-admin"
	DefaultCLITimeout     = 2 * time.Minute
	DefaultPinataEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	DefaultGateway        = "https://bronze-negative-tiglon-986.mypinata.cloud"
	DefaultUploadTimeout  = 60 * time.Second
	DefaultStoreURI       = "sqlite://creatorhub.db"

	DefaultSchemaAttempts   = 10
	DefaultSchemaRetryDelay = 3 * time.Second
)

// Pinning backends.
const (
	PinningPinata = "pinata"
	PinningKubo   = "kubo"
	PinningS3     = "s3"
)

type Config struct {
	Oracle  OracleConfig
	Pinning PinningConfig
	Store   StoreConfig
}

// OracleConfig configures the contract-invocation client.
type OracleConfig struct {
	// CLIPath is the contract-invocation executable.
	CLIPath string
	// ContractID identifies the Creator Hub contract. Invocations fail with
	// a configuration error while it is empty.
	ContractID string
	Network    string
	// AdminAlias is the default signer for read-only methods.
	AdminAlias string
	// Timeout bounds a single invocation. Zero disables the bound.
	Timeout time.Duration
	// RPCURL is the network JSON-RPC endpoint probed by /network-health.
	// Empty disables the probe.
	RPCURL string
}

// PinningConfig configures the upload relay.
type PinningConfig struct {
	Backend string
	// Gateway is the public gateway base; it is normalized by the relay.
	Gateway string
	Timeout time.Duration

	PinataJWT      string
	PinataEndpoint string

	KuboAPI string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// StoreConfig configures the secret store.
type StoreConfig struct {
	URI string
	// SealingKey is an optional hex-encoded 32-byte key used to seal AES keys at rest.
	SealingKey string

	SchemaAttempts   int
	SchemaRetryDelay time.Duration
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			CLIPath:    DefaultCLIPath,
			Network:    DefaultNetwork,
			AdminAlias: DefaultAdminAlias,
			Timeout:    DefaultCLITimeout,
		},
		Pinning: PinningConfig{
			Backend:        PinningPinata,
			Gateway:        DefaultGateway,
			Timeout:        DefaultUploadTimeout,
			PinataEndpoint: DefaultPinataEndpoint,
		},
		Store: StoreConfig{
			URI:              DefaultStoreURI,
			SchemaAttempts:   DefaultSchemaAttempts,
			SchemaRetryDelay: DefaultSchemaRetryDelay,
		},
	}
}

// Validate checks settings that would make the process unusable.
// Missing contract id and pinning credential are reported per operation instead.
func (c *Config) Validate() error {
	switch c.Pinning.Backend {
	case PinningPinata:
	case PinningKubo:
		if c.Pinning.KuboAPI == "" {
			return fmt.Errorf("kubo pinning backend requires an IPFS API address")
		}
	case PinningS3:
		if c.Pinning.S3Bucket == "" {
			return fmt.Errorf("s3 pinning backend requires a bucket")
		}
	default:
		return fmt.Errorf("unsupported pinning backend: %s", c.Pinning.Backend)
	}

	if c.Oracle.CLIPath == "" {
		return fmt.Errorf("contract CLI path is empty")
	}
	if c.Oracle.Timeout < 0 {
		return fmt.Errorf("negative CLI timeout: %s", c.Oracle.Timeout)
	}

	if c.Store.URI == "" {
		return fmt.Errorf("secret store URI is empty")
	}
	if c.Store.SealingKey != "" {
		key, err := hex.DecodeString(c.Store.SealingKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("invalid sealing key - must be 64 hex chars (32 bytes)")
		}
	}
	if c.Store.SchemaAttempts < 1 {
		return fmt.Errorf("schema attempts must be at least 1")
	}

	return nil
}
