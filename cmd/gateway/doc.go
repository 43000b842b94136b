/*
Command creator-hub-gateway serves the Creator Hub API.

It relays uploads to the configured pinning backend, translates API calls
into invocations of the Creator Hub contract through the stellar CLI, and
releases content AES keys from the secret store to wallets the contract
grants access to.

Usage:

	creator-hub-gateway [flags]

Every flag can also be set through its environment variable:

	CREATOR_HUB_CONTRACT_ID   contract id (required for contract operations)
	STELLAR_NETWORK           network name (default "testnet")
	STELLAR_ADMIN_ALIAS       signer for read-only methods (default "creator-admin")
	PINATA_JWT                Pinata bearer token (required for uploads)
	IPFS_GATEWAY              public gateway base for file URLs
	DATABASE_URL              secret store URI (default "sqlite://creatorhub.db")
	KEY_SEALING_KEY           optional 32-byte hex key sealing AES keys at rest
	STELLAR_RPC_URL           optional RPC endpoint for /network-health

Run with --help for the full list.
*/
package main
