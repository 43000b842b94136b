package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// Contract method names.
const (
	MethodRegisterCreator = "register_creator"
	MethodUpdateCreator   = "update_creator"
	MethodGetCreator      = "get_creator"
	MethodMintContent     = "mint_content"
	MethodGetContent      = "get_content"
	MethodSubscribe       = "subscribe"
	MethodIsSubscribed    = "is_subscribed"
	MethodBuyContent      = "buy_content"
	MethodHasAccess       = "has_access"
)

// ErrMissingSigner is returned when a state-changing method is called
// without an acting account.
var ErrMissingSigner = errors.New("acting account is required for state-changing methods")

// CreatorHubClient provides typed access to the Creator Hub contract.
type CreatorHubClient struct {
	invoker interfaces.ContractInvoker
}

// NewCreatorHubClient creates a client invoking the contract through invoker.
func NewCreatorHubClient(invoker interfaces.ContractInvoker) *CreatorHubClient {
	return &CreatorHubClient{invoker: invoker}
}

// RegisterCreator registers creator with a profile URI and a monthly
// subscription price. Signed by creator.
func (c *CreatorHubClient) RegisterCreator(ctx context.Context, creator interfaces.WalletAddress, profileURI string, price int64) (string, error) {
	return c.invokeSigned(ctx, MethodRegisterCreator, creator, []interfaces.ArgPair{
		{Flag: "--creator", Value: creator.String()},
		{Flag: "--profile_uri", Value: profileURI},
		{Flag: "--price", Value: strconv.FormatInt(price, 10)},
	})
}

// UpdateCreator replaces the profile URI and subscription price of creator.
func (c *CreatorHubClient) UpdateCreator(ctx context.Context, creator interfaces.WalletAddress, profileURI string, price int64) (string, error) {
	return c.invokeSigned(ctx, MethodUpdateCreator, creator, []interfaces.ArgPair{
		{Flag: "--creator", Value: creator.String()},
		{Flag: "--profile_uri", Value: profileURI},
		{Flag: "--price", Value: strconv.FormatInt(price, 10)},
	})
}

// GetCreator returns the profile of creator, or nil if it is not registered.
func (c *CreatorHubClient) GetCreator(ctx context.Context, creator interfaces.WalletAddress) (*interfaces.Creator, string, error) {
	raw, err := c.invoker.Invoke(ctx, MethodGetCreator, []interfaces.ArgPair{
		{Flag: "--creator", Value: creator.String()},
	}, "")
	if err != nil {
		return nil, "", err
	}

	var profile *interfaces.Creator
	if err := decodeOptional(raw, &profile); err != nil {
		return nil, raw, fmt.Errorf("%w for creator: %s", interfaces.ErrMalformedUpstreamOutput, raw)
	}
	return profile, raw, nil
}

// MintContent mints a content item pointing at ipfs://cid and returns the
// content id assigned by the contract. Signed by creator.
func (c *CreatorHubClient) MintContent(ctx context.Context, creator interfaces.WalletAddress, cid string, price int64, forSubscribers bool) (interfaces.ContentID, string, error) {
	raw, err := c.invokeSigned(ctx, MethodMintContent, creator, []interfaces.ArgPair{
		{Flag: "--creator", Value: creator.String()},
		{Flag: "--encrypted_cid", Value: "ipfs://" + cid},
		{Flag: "--price", Value: strconv.FormatInt(price, 10)},
		{Flag: "--is_for_subscribers", Value: strconv.FormatBool(forSubscribers)},
	})
	if err != nil {
		return 0, "", err
	}

	contentID, err := interfaces.NewContentIDFromString(raw)
	if err != nil {
		return 0, raw, fmt.Errorf("%w for content_id: %s", interfaces.ErrMalformedUpstreamOutput, raw)
	}
	return contentID, raw, nil
}

// GetContent returns the on-chain record of contentID, or nil if it does not exist.
func (c *CreatorHubClient) GetContent(ctx context.Context, contentID interfaces.ContentID) (*interfaces.Content, string, error) {
	raw, err := c.invoker.Invoke(ctx, MethodGetContent, []interfaces.ArgPair{
		{Flag: "--content_id", Value: contentID.String()},
	}, "")
	if err != nil {
		return nil, "", err
	}

	var content *interfaces.Content
	if err := decodeOptional(raw, &content); err != nil {
		return nil, raw, fmt.Errorf("%w for content: %s", interfaces.ErrMalformedUpstreamOutput, raw)
	}
	return content, raw, nil
}

// Subscribe subscribes subscriber to creator for the given number of months.
// Signed by subscriber.
func (c *CreatorHubClient) Subscribe(ctx context.Context, subscriber, creator interfaces.WalletAddress, months uint32) (string, error) {
	return c.invokeSigned(ctx, MethodSubscribe, subscriber, []interfaces.ArgPair{
		{Flag: "--subscriber", Value: subscriber.String()},
		{Flag: "--creator", Value: creator.String()},
		{Flag: "--months", Value: strconv.FormatUint(uint64(months), 10)},
	})
}

// IsSubscribed reports whether user holds an active subscription to creator.
func (c *CreatorHubClient) IsSubscribed(ctx context.Context, user, creator interfaces.WalletAddress) (bool, string, error) {
	raw, err := c.invoker.Invoke(ctx, MethodIsSubscribed, []interfaces.ArgPair{
		{Flag: "--user", Value: user.String()},
		{Flag: "--creator", Value: creator.String()},
	}, "")
	if err != nil {
		return false, "", err
	}
	return parseBool(raw), raw, nil
}

// BuyContent purchases contentID for buyer. Signed by buyer.
func (c *CreatorHubClient) BuyContent(ctx context.Context, buyer interfaces.WalletAddress, contentID interfaces.ContentID) (string, error) {
	return c.invokeSigned(ctx, MethodBuyContent, buyer, []interfaces.ArgPair{
		{Flag: "--buyer", Value: buyer.String()},
		{Flag: "--content_id", Value: contentID.String()},
	})
}

// HasAccess asks the contract whether user may access contentID. Any output
// other than "true" (case-insensitive) is treated as no access.
func (c *CreatorHubClient) HasAccess(ctx context.Context, user interfaces.WalletAddress, contentID interfaces.ContentID) (bool, string, error) {
	raw, err := c.invoker.Invoke(ctx, MethodHasAccess, []interfaces.ArgPair{
		{Flag: "--user", Value: user.String()},
		{Flag: "--content_id", Value: contentID.String()},
	}, "")
	if err != nil {
		return false, "", err
	}
	return parseBool(raw), raw, nil
}

func (c *CreatorHubClient) invokeSigned(ctx context.Context, method string, signer interfaces.WalletAddress, args []interfaces.ArgPair) (string, error) {
	if signer == "" {
		return "", fmt.Errorf("%s: %w", method, ErrMissingSigner)
	}
	return c.invoker.Invoke(ctx, method, args, signer)
}

func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// decodeOptional decodes CLI JSON output into v. Empty output and "null" leave v nil.
func decodeOptional(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
