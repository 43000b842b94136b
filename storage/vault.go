package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// VaultStore implements SecretStore on a HashiCorp Vault KV v2 mount.
// Every content id is a secret at <mount>/<path>/<content_id>; each Put
// writes a new version, so duplicates are preserved as version history.
type VaultStore struct {
	kv        *api.KVv2
	client    *api.Client
	mountPath string
	dataPath  string
	sealer    *Sealer
	log       *slog.Logger
}

// NewVaultStore creates a Vault secret store authenticated by token.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault token; empty leaves the client's default (VAULT_TOKEN)
//   - mountPath: KV v2 mount (e.g. "secret")
//   - dataPath: path within the mount (e.g. "creatorhub")
func NewVaultStore(address, token, mountPath, dataPath string, sealer *Sealer, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{Timeout: 30 * time.Second}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")
	if mountPath == "" {
		mountPath = "secret"
	}

	return &VaultStore{
		kv:        client.KVv2(mountPath),
		client:    client,
		mountPath: mountPath,
		dataPath:  dataPath,
		sealer:    sealer,
		log:       log,
	}, nil
}

// Put writes a new version of the secret for contentID. The record ID is the version number.
func (v *VaultStore) Put(ctx context.Context, contentID interfaces.ContentID, aesKey string) (*interfaces.ContentKeyRecord, error) {
	stored, err := v.sealer.Seal(aesKey)
	if err != nil {
		return nil, err
	}

	secret, err := v.kv.Put(ctx, v.secretPath(contentID), map[string]interface{}{
		"content_id": contentID.String(),
		"aes_key":    stored,
	})
	if err != nil {
		v.log.Error("Failed to write to Vault",
			slog.String("path", v.secretPath(contentID)),
			"err", err)
		return nil, fmt.Errorf("write key for content %s: %w", contentID, err)
	}

	record := &interfaces.ContentKeyRecord{
		ContentID: contentID,
		AESKey:    aesKey,
		CreatedAt: time.Now().UTC(),
	}
	if secret != nil && secret.VersionMetadata != nil {
		record.ID = int64(secret.VersionMetadata.Version)
		record.CreatedAt = secret.VersionMetadata.CreatedTime
	}

	return record, nil
}

// GetByContentID returns the current version of the secret for contentID.
func (v *VaultStore) GetByContentID(ctx context.Context, contentID interfaces.ContentID) (*interfaces.ContentKeyRecord, error) {
	secret, err := v.kv.Get(ctx, v.secretPath(contentID))
	if errors.Is(err, api.ErrSecretNotFound) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		v.log.Error("Failed to read from Vault",
			slog.String("path", v.secretPath(contentID)),
			"err", err)
		return nil, fmt.Errorf("read key for content %s: %w", contentID, err)
	}

	stored, ok := secret.Data["aes_key"].(string)
	if !ok {
		return nil, fmt.Errorf("read key for content %s: aes_key missing from Vault data", contentID)
	}
	aesKey, err := v.sealer.Open(stored)
	if err != nil {
		return nil, fmt.Errorf("read key for content %s: %w", contentID, err)
	}

	record := &interfaces.ContentKeyRecord{
		ContentID: contentID,
		AESKey:    aesKey,
	}
	if secret.VersionMetadata != nil {
		record.ID = int64(secret.VersionMetadata.Version)
		record.CreatedAt = secret.VersionMetadata.CreatedTime
	}

	return record, nil
}

// Ping checks that Vault is initialized and unsealed.
func (v *VaultStore) Ping(ctx context.Context) error {
	health, err := v.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check: %w", err)
	}
	if !health.Initialized || health.Sealed {
		return fmt.Errorf("vault is not ready (initialized=%t, sealed=%t)", health.Initialized, health.Sealed)
	}
	return nil
}

// Name returns identifier for logging.
func (v *VaultStore) Name() string {
	return "vault"
}

// Close is a no-op; the Vault client holds no persistent connections.
func (v *VaultStore) Close() error {
	return nil
}

func (v *VaultStore) secretPath(contentID interfaces.ContentID) string {
	if v.dataPath == "" {
		return contentID.String()
	}
	return v.dataPath + "/" + contentID.String()
}
