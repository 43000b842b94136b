package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// APIError is returned by Client for non-2xx responses.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Detail)
}

// Client calls the gateway's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the gateway at baseURL (e.g. "http://localhost:8080").
// A nil httpClient selects http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Upload pins data through the gateway.
func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) (*interfaces.PinResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("could not create multipart form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("could not read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize multipart form: %w", err)
	}

	var out interfaces.PinResult
	if err := c.do(ctx, http.MethodPost, "/ipfs/upload", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterCreator(ctx context.Context, req api.RegisterCreatorRequest) (*api.OKResponse, error) {
	var out api.OKResponse
	return &out, c.postJSON(ctx, "/creator/register", req, &out)
}

func (c *Client) UpdateCreator(ctx context.Context, req api.RegisterCreatorRequest) (*api.OKResponse, error) {
	var out api.OKResponse
	return &out, c.postJSON(ctx, "/creator/update", req, &out)
}

func (c *Client) GetCreator(ctx context.Context, address string) (*api.CreatorResponse, error) {
	var out api.CreatorResponse
	return &out, c.do(ctx, http.MethodGet, "/creator/"+url.PathEscape(address), "", nil, &out)
}

func (c *Client) MintContent(ctx context.Context, req api.MintContentRequest) (*api.MintContentResponse, error) {
	var out api.MintContentResponse
	return &out, c.postJSON(ctx, "/content/mint", req, &out)
}

func (c *Client) GetContent(ctx context.Context, contentID interfaces.ContentID) (*api.ContentResponse, error) {
	var out api.ContentResponse
	return &out, c.do(ctx, http.MethodGet, "/content/"+contentID.String(), "", nil, &out)
}

func (c *Client) Subscribe(ctx context.Context, req api.SubscribeRequest) (*api.OKResponse, error) {
	var out api.OKResponse
	return &out, c.postJSON(ctx, "/subscription/subscribe", req, &out)
}

func (c *Client) IsSubscribed(ctx context.Context, req api.SubscriptionCheckRequest) (*api.SubscriptionCheckResponse, error) {
	var out api.SubscriptionCheckResponse
	return &out, c.postJSON(ctx, "/subscription/check", req, &out)
}

func (c *Client) BuyContent(ctx context.Context, req api.BuyContentRequest) (*api.OKResponse, error) {
	var out api.OKResponse
	return &out, c.postJSON(ctx, "/content/buy", req, &out)
}

func (c *Client) CheckAccess(ctx context.Context, req api.AccessCheckRequest) (*api.AccessCheckResponse, error) {
	var out api.AccessCheckResponse
	return &out, c.postJSON(ctx, "/access/check", req, &out)
}

// ContentKey requests a decryption key. A denial is returned as *APIError with StatusCode 403.
func (c *Client) ContentKey(ctx context.Context, req api.ContentKeyRequest) (*api.ContentKeyResponse, error) {
	var out api.ContentKeyResponse
	return &out, c.postJSON(ctx, "/content/key", req, &out)
}

// DBHealth reports whether the gateway can reach its secret store.
func (c *Client) DBHealth(ctx context.Context) (*api.DBHealthResponse, error) {
	var out api.DBHealthResponse
	return &out, c.do(ctx, http.MethodGet, "/db-health", "", nil, &out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail != "" {
			apiErr.Detail = errResp.Detail
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not parse %s response: %w", path, err)
	}
	return nil
}
