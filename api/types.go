package api

import (
	"errors"
	"fmt"

	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// ErrInvalidRequest is wrapped by every request validation error.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func validateAddress(field, addr string) error {
	if _, err := interfaces.NewWalletAddress(addr); err != nil {
		return invalidf("%s: %v", field, err)
	}
	return nil
}

// RegisterCreatorRequest registers or updates a creator profile.
type RegisterCreatorRequest struct {
	CreatorAddress    string `json:"creator_address"`
	ProfileURI        string `json:"profile_uri"`
	SubscriptionPrice int64  `json:"subscription_price"`
}

func (r *RegisterCreatorRequest) Validate() error {
	if err := validateAddress("creator_address", r.CreatorAddress); err != nil {
		return err
	}
	if r.SubscriptionPrice < 0 {
		return invalidf("subscription_price must not be negative")
	}
	return nil
}

// MintContentRequest mints content for an uploaded payload and records its key.
type MintContentRequest struct {
	CreatorAddress   string `json:"creator_address"`
	IPFSCID          string `json:"ipfs_cid"`
	Price            int64  `json:"price"`
	IsForSubscribers bool   `json:"is_for_subscribers"`
	AESKey           string `json:"aes_key"`
}

// NewMintContentRequest returns a request with defaults applied; decode into it.
func NewMintContentRequest() MintContentRequest {
	return MintContentRequest{IsForSubscribers: true}
}

func (r *MintContentRequest) Validate() error {
	if err := validateAddress("creator_address", r.CreatorAddress); err != nil {
		return err
	}
	if r.IPFSCID == "" {
		return invalidf("ipfs_cid is required")
	}
	if r.AESKey == "" {
		return invalidf("aes_key is required")
	}
	if r.Price < 0 {
		return invalidf("price must not be negative")
	}
	return nil
}

// SubscribeRequest subscribes a wallet to a creator.
type SubscribeRequest struct {
	SubscriberAddress string `json:"subscriber_address"`
	CreatorAddress    string `json:"creator_address"`
	Months            int64  `json:"months"`
}

// NewSubscribeRequest returns a request with defaults applied; decode into it.
func NewSubscribeRequest() SubscribeRequest {
	return SubscribeRequest{Months: 1}
}

func (r *SubscribeRequest) Validate() error {
	if err := validateAddress("subscriber_address", r.SubscriberAddress); err != nil {
		return err
	}
	if err := validateAddress("creator_address", r.CreatorAddress); err != nil {
		return err
	}
	if r.Months < 1 || r.Months > 1<<32-1 {
		return invalidf("months must be between 1 and %d", uint32(1<<32-1))
	}
	return nil
}

// SubscriptionCheckRequest asks whether a wallet is subscribed to a creator.
type SubscriptionCheckRequest struct {
	UserAddress    string `json:"user_address"`
	CreatorAddress string `json:"creator_address"`
}

func (r *SubscriptionCheckRequest) Validate() error {
	if err := validateAddress("user_address", r.UserAddress); err != nil {
		return err
	}
	return validateAddress("creator_address", r.CreatorAddress)
}

// BuyContentRequest purchases a content item.
type BuyContentRequest struct {
	BuyerAddress string               `json:"buyer_address"`
	ContentID    interfaces.ContentID `json:"content_id"`
}

func (r *BuyContentRequest) Validate() error {
	return validateAddress("buyer_address", r.BuyerAddress)
}

// AccessCheckRequest asks whether a wallet has access to a content item.
type AccessCheckRequest struct {
	UserAddress string               `json:"user_address"`
	ContentID   interfaces.ContentID `json:"content_id"`
}

func (r *AccessCheckRequest) Validate() error {
	return validateAddress("user_address", r.UserAddress)
}

// ContentKeyRequest requests the decryption key of a content item.
type ContentKeyRequest struct {
	WalletAddress string               `json:"wallet_address"`
	ContentID     interfaces.ContentID `json:"content_id"`
}

func (r *ContentKeyRequest) Validate() error {
	return validateAddress("wallet_address", r.WalletAddress)
}

// OKResponse acknowledges a state-changing contract call.
type OKResponse struct {
	OK        bool   `json:"ok"`
	CLIOutput string `json:"cli_output"`
}

type MintContentResponse struct {
	OK        bool                 `json:"ok"`
	ContentID interfaces.ContentID `json:"content_id"`
	CLIOutput string               `json:"cli_output"`
}

type AccessCheckResponse struct {
	OK        bool   `json:"ok"`
	HasAccess bool   `json:"has_access"`
	CLIOutput string `json:"cli_output"`
}

type SubscriptionCheckResponse struct {
	OK           bool   `json:"ok"`
	IsSubscribed bool   `json:"is_subscribed"`
	CLIOutput    string `json:"cli_output"`
}

type ContentKeyResponse struct {
	OK        bool                 `json:"ok"`
	ContentID interfaces.ContentID `json:"content_id"`
	AESKey    string               `json:"aes_key"`
}

type CreatorResponse struct {
	OK        bool                `json:"ok"`
	Creator   *interfaces.Creator `json:"creator"`
	CLIOutput string              `json:"cli_output"`
}

type ContentResponse struct {
	OK        bool                 `json:"ok"`
	ContentID interfaces.ContentID `json:"content_id"`
	Content   *interfaces.Content  `json:"content"`
	CLIOutput string               `json:"cli_output"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type DBHealthResponse struct {
	DBOk bool `json:"db_ok"`
}

type NetworkHealthResponse struct {
	OK     bool                      `json:"ok"`
	Health *interfaces.NetworkHealth `json:"health,omitempty"`
	Detail string                    `json:"detail,omitempty"`
}
