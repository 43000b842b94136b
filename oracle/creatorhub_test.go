package oracle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatorHubClient_WriteMethods(t *testing.T) {
	ctx := context.Background()

	t.Run("register_creator", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodRegisterCreator, []interfaces.ArgPair{
			{Flag: "--creator", Value: "GCREATOR"},
			{Flag: "--profile_uri", Value: "ipfs://profile"},
			{Flag: "--price", Value: "100"},
		}, interfaces.WalletAddress("GCREATOR")).Return("", nil)

		raw, err := NewCreatorHubClient(invoker).RegisterCreator(ctx, "GCREATOR", "ipfs://profile", 100)
		require.NoError(t, err)
		assert.Equal(t, "", raw)
		invoker.AssertExpectations(t)
	})

	t.Run("subscribe", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodSubscribe, []interfaces.ArgPair{
			{Flag: "--subscriber", Value: "GFAN"},
			{Flag: "--creator", Value: "GCREATOR"},
			{Flag: "--months", Value: "3"},
		}, interfaces.WalletAddress("GFAN")).Return("", nil)

		_, err := NewCreatorHubClient(invoker).Subscribe(ctx, "GFAN", "GCREATOR", 3)
		require.NoError(t, err)
		invoker.AssertExpectations(t)
	})

	t.Run("buy_content", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodBuyContent, []interfaces.ArgPair{
			{Flag: "--buyer", Value: "GFAN"},
			{Flag: "--content_id", Value: "7"},
		}, interfaces.WalletAddress("GFAN")).Return("", nil)

		_, err := NewCreatorHubClient(invoker).BuyContent(ctx, "GFAN", 7)
		require.NoError(t, err)
		invoker.AssertExpectations(t)
	})

	t.Run("missing signer", func(t *testing.T) {
		invoker := new(MockInvoker)
		_, err := NewCreatorHubClient(invoker).BuyContent(ctx, "", 7)
		assert.ErrorIs(t, err, ErrMissingSigner)
		invoker.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreatorHubClient_MintContent(t *testing.T) {
	ctx := context.Background()
	expectedArgs := []interfaces.ArgPair{
		{Flag: "--creator", Value: "GCREATOR"},
		{Flag: "--encrypted_cid", Value: "ipfs://bafyCID"},
		{Flag: "--price", Value: "5"},
		{Flag: "--is_for_subscribers", Value: "true"},
	}

	t.Run("quoted id", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodMintContent, expectedArgs, interfaces.WalletAddress("GCREATOR")).Return(`"42"`, nil)

		id, raw, err := NewCreatorHubClient(invoker).MintContent(ctx, "GCREATOR", "bafyCID", 5, true)
		require.NoError(t, err)
		assert.Equal(t, interfaces.ContentID(42), id)
		assert.Equal(t, `"42"`, raw)
	})

	t.Run("non-numeric output", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodMintContent, expectedArgs, interfaces.WalletAddress("GCREATOR")).Return("oops", nil)

		_, raw, err := NewCreatorHubClient(invoker).MintContent(ctx, "GCREATOR", "bafyCID", 5, true)
		assert.ErrorIs(t, err, interfaces.ErrMalformedUpstreamOutput)
		assert.Contains(t, err.Error(), "for content_id: oops")
		assert.Equal(t, "oops", raw)
	})
}

func TestCreatorHubClient_HasAccess(t *testing.T) {
	testCases := []struct {
		output   string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"false", false},
		{"", false},
		{"yes", false},
	}

	for _, tc := range testCases {
		t.Run(tc.output, func(t *testing.T) {
			invoker := new(MockInvoker)
			invoker.On("Invoke", mock.Anything, MethodHasAccess, []interfaces.ArgPair{
				{Flag: "--user", Value: "GFAN"},
				{Flag: "--content_id", Value: "42"},
			}, interfaces.WalletAddress("")).Return(tc.output, nil)

			allowed, raw, err := NewCreatorHubClient(invoker).HasAccess(context.Background(), "GFAN", 42)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, allowed)
			assert.Equal(t, tc.output, raw)
		})
	}
}

func TestCreatorHubClient_Getters(t *testing.T) {
	ctx := context.Background()

	t.Run("get_creator", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodGetCreator, mock.Anything, interfaces.WalletAddress("")).
			Return(`{"profile_uri":"ipfs://p","subscription_price":"100"}`, nil)

		profile, _, err := NewCreatorHubClient(invoker).GetCreator(ctx, "GCREATOR")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "ipfs://p", profile.ProfileURI)
		assert.Equal(t, json.Number("100"), profile.SubscriptionPrice)
	})

	t.Run("get_creator null", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodGetCreator, mock.Anything, interfaces.WalletAddress("")).Return("null", nil)

		profile, _, err := NewCreatorHubClient(invoker).GetCreator(ctx, "GNOBODY")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("get_content", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodGetContent, []interfaces.ArgPair{
			{Flag: "--content_id", Value: "42"},
		}, interfaces.WalletAddress("")).
			Return(`{"creator":"GCREATOR","encrypted_cid":"ipfs://bafy","price":"5","is_for_subscribers":true}`, nil)

		content, _, err := NewCreatorHubClient(invoker).GetContent(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, "GCREATOR", content.Creator)
		assert.Equal(t, "ipfs://bafy", content.EncryptedCID)
		assert.True(t, content.IsForSubscribers)
	})

	t.Run("get_content malformed", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodGetContent, mock.Anything, interfaces.WalletAddress("")).Return("{not json", nil)

		_, _, err := NewCreatorHubClient(invoker).GetContent(ctx, 42)
		assert.ErrorIs(t, err, interfaces.ErrMalformedUpstreamOutput)
	})

	t.Run("is_subscribed", func(t *testing.T) {
		invoker := new(MockInvoker)
		invoker.On("Invoke", mock.Anything, MethodIsSubscribed, []interfaces.ArgPair{
			{Flag: "--user", Value: "GFAN"},
			{Flag: "--creator", Value: "GCREATOR"},
		}, interfaces.WalletAddress("")).Return("true", nil)

		ok, _, err := NewCreatorHubClient(invoker).IsSubscribed(ctx, "GFAN", "GCREATOR")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCreatorHubClient_PropagatesInvocationError(t *testing.T) {
	invoker := new(MockInvoker)
	invErr := &interfaces.InvocationError{Method: MethodHasAccess, ExitCode: 1, Output: "boom"}
	invoker.On("Invoke", mock.Anything, MethodHasAccess, mock.Anything, mock.Anything).Return("", invErr)

	allowed, _, err := NewCreatorHubClient(invoker).HasAccess(context.Background(), "GFAN", 1)
	assert.False(t, allowed)
	assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
	assert.Equal(t, "Stellar CLI error: boom", err.Error())
}
