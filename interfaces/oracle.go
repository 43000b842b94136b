package interfaces

import "context"

// ContractInvoker invokes methods of the Creator Hub contract.
type ContractInvoker interface {
	// Invoke runs method with the ordered argument pairs and returns the
	// trimmed standard output. An empty signer selects the configured
	// default administrative identity, which is only valid for read-only methods.
	Invoke(ctx context.Context, method string, args []ArgPair, signer WalletAddress) (string, error)
}

// AccessOracle answers read-only access queries against the contract.
type AccessOracle interface {
	// HasAccess reports whether user currently has access to contentID.
	HasAccess(ctx context.Context, user WalletAddress, contentID ContentID) (bool, string, error)
}

// CreatorHub exposes the contract methods surfaced by the gateway.
// State-changing methods are signed by the acting account passed to them.
type CreatorHub interface {
	AccessOracle

	RegisterCreator(ctx context.Context, creator WalletAddress, profileURI string, price int64) (string, error)
	UpdateCreator(ctx context.Context, creator WalletAddress, profileURI string, price int64) (string, error)
	GetCreator(ctx context.Context, creator WalletAddress) (*Creator, string, error)

	MintContent(ctx context.Context, creator WalletAddress, cid string, price int64, forSubscribers bool) (ContentID, string, error)
	GetContent(ctx context.Context, contentID ContentID) (*Content, string, error)

	Subscribe(ctx context.Context, subscriber, creator WalletAddress, months uint32) (string, error)
	IsSubscribed(ctx context.Context, user, creator WalletAddress) (bool, string, error)

	BuyContent(ctx context.Context, buyer WalletAddress, contentID ContentID) (string, error)
}

// NetworkHealth is the health report of the network RPC endpoint.
type NetworkHealth struct {
	Status                string `json:"status"`
	LatestLedger          uint32 `json:"latestLedger"`
	OldestLedger          uint32 `json:"oldestLedger"`
	LedgerRetentionWindow uint32 `json:"ledgerRetentionWindow"`
	Passphrase            string `json:"passphrase,omitempty"`
}

// NetworkProbe reports the health of the network the contract lives on.
type NetworkProbe interface {
	Health(ctx context.Context) (*NetworkHealth, error)
}
