package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContentID is the identifier assigned to a content item by the contract's
// mint_content method. It is the join key between on-chain state and the
// local secret store.
type ContentID uint64

// NewContentIDFromString parses a decimal content identifier. Surrounding
// whitespace and double quotes (as printed by the CLI for u64 values) are tolerated.
func NewContentIDFromString(s string) (ContentID, error) {
	clean := strings.Trim(strings.TrimSpace(s), `"`)
	id, err := strconv.ParseUint(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content id %q: %w", s, err)
	}
	return ContentID(id), nil
}

// String returns the decimal representation.
func (id ContentID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// WalletAddress is an account (or CLI identity alias) acting as a signer or
// as the subject of an access query. It is treated as opaque.
type WalletAddress string

// NewWalletAddress validates that the address is non-empty and contains no whitespace.
func NewWalletAddress(addr string) (WalletAddress, error) {
	if addr == "" {
		return "", errors.New("empty wallet address")
	}
	if strings.ContainsAny(addr, " \t\r\n") {
		return "", fmt.Errorf("invalid wallet address %q: contains whitespace", addr)
	}
	return WalletAddress(addr), nil
}

// String returns the address as a string.
func (a WalletAddress) String() string {
	return string(a)
}

// ArgPair is a single `--flag value` argument passed to a contract method.
type ArgPair struct {
	Flag  string
	Value string
}

// ContentKeyRecord maps a content identifier to the base64 encoded AES key
// used by the frontend to decrypt the pinned payload.
type ContentKeyRecord struct {
	ID        int64     `db:"id" json:"id"`
	ContentID ContentID `db:"content_id" json:"content_id"`
	AESKey    string    `db:"aes_key" json:"aes_key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ContentMetadata describes a minted content item. The table exists for
// parity with the frontend data model; the mint flow does not populate it.
type ContentMetadata struct {
	ID                 int64     `db:"id" json:"id"`
	CreatorID          int64     `db:"creator_id" json:"creator_id"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	CID                string    `db:"cid" json:"cid"`
	IPFSURI            string    `db:"ipfs_uri" json:"ipfs_uri"`
	GatewayURL         string    `db:"gateway_url" json:"gateway_url"`
	Price              string    `db:"price" json:"price"`
	IsSubscriptionOnly bool      `db:"is_subscription_only" json:"is_subscription_only"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// PinResult is the addressing information reported for an uploaded payload.
type PinResult struct {
	CID        string `json:"cid"`
	IPFSURI    string `json:"ipfs_uri"`
	GatewayURL string `json:"gateway_url"`
}

// Creator is the on-chain profile of a registered creator. Prices are i128
// values which the CLI prints as JSON strings.
type Creator struct {
	ProfileURI        string      `json:"profile_uri"`
	SubscriptionPrice json.Number `json:"subscription_price"`
}

// Content is the on-chain record of a minted content item.
type Content struct {
	Creator          string      `json:"creator"`
	EncryptedCID     string      `json:"encrypted_cid"`
	Price            json.Number `json:"price"`
	IsForSubscribers bool        `json:"is_for_subscribers"`
}
