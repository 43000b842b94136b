// Package interfaces defines core interfaces and types for the Creator Hub
// gateway, separating interface definitions from implementations.
//
// The package provides interfaces for the key components of the system:
//
// # Oracle Interfaces
//
// ContractInvoker: Invokes a method of the Creator Hub contract through the
// contract-invocation command line tool and returns its trimmed output.
//
// AccessOracle: Answers the read-only question "does user U currently have
// access to content C?". The contract is authoritative for this decision.
//
// # Storage Interfaces
//
// SecretStore: Keyed persistence of content-id to symmetric key material.
// It performs no authorization of its own.
//
// Pinner: Uploads an already-encrypted payload to a pinning service and
// returns the content identifier assigned by it.
//
// # Types
//
//   - ContentID: on-chain content identifier assigned by mint_content
//   - WalletAddress: account or CLI identity used as a signer or subject
//   - ContentKeyRecord: persisted content-id to AES key mapping
//   - ContentMetadata: descriptive record for minted content
//   - PinResult: content identifier and derived URIs of an upload
//
// # Error Types
//
// Errors are sentinels to be matched with errors.Is. InvocationError and
// UpstreamError carry the diagnostic output of the failing collaborator.
package interfaces
