package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	env := setupTestEnvironment(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	env.pinner.On("Pin", mock.Anything, "clip.enc", "ciphertext").Return("bafyCLIENT", nil)
	env.hub.On("MintContent", mock.Anything, interfaces.WalletAddress("GCREATOR"), "bafyCLIENT", int64(3), true).
		Return(interfaces.ContentID(8), "8", nil)
	env.hub.On("HasAccess", mock.Anything, interfaces.WalletAddress("GFAN"), interfaces.ContentID(8)).Return(true, "true", nil)
	env.hub.On("HasAccess", mock.Anything, interfaces.WalletAddress("GSTRANGER"), interfaces.ContentID(8)).Return(false, "false", nil)

	client := NewClient(srv.URL+"/", nil)
	ctx := context.Background()

	pinned, err := client.Upload(ctx, "clip.enc", strings.NewReader("ciphertext"))
	require.NoError(t, err)
	assert.Equal(t, "bafyCLIENT", pinned.CID)

	req := api.NewMintContentRequest()
	req.CreatorAddress = "GCREATOR"
	req.IPFSCID = pinned.CID
	req.Price = 3
	req.AESKey = "a2V5"
	minted, err := client.MintContent(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ContentID(8), minted.ContentID)

	key, err := client.ContentKey(ctx, api.ContentKeyRequest{WalletAddress: "GFAN", ContentID: 8})
	require.NoError(t, err)
	assert.Equal(t, "a2V5", key.AESKey)

	_, err = client.ContentKey(ctx, api.ContentKeyRequest{WalletAddress: "GSTRANGER", ContentID: 8})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, DetailAccessDenied, apiErr.Detail)
}
