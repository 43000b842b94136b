package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/keydist"
)

const (
	// maxBodySize is the maximum allowed JSON request body size (1MB).
	maxBodySize = 1024 * 1024

	// DefaultMaxUploadSize is the default upload limit (100MB).
	DefaultMaxUploadSize = 100 << 20

	DetailAccessDenied    = "User has no access to this content"
	DetailKeyNotFound     = "AES key not found for this content"
	DetailCreatorNotFound = "Creator not found"
	DetailContentNotFound = "Content not found"
)

// Uploader pins payloads and derives their URIs.
type Uploader interface {
	Upload(ctx context.Context, filename string, data io.Reader) (*interfaces.PinResult, error)
}

// KeyDistributor releases keys to entitled wallets and records keys of minted content.
type KeyDistributor interface {
	ContentKey(ctx context.Context, wallet interfaces.WalletAddress, contentID interfaces.ContentID) (*interfaces.ContentKeyRecord, error)
	MintContent(ctx context.Context, req keydist.MintRequest) (*keydist.MintResult, error)
}

// Handler processes the gateway's HTTP requests.
type Handler struct {
	hub           interfaces.CreatorHub
	keys          KeyDistributor
	uploader      Uploader
	maxUploadSize int64
	log           *slog.Logger
}

// NewHandler creates a new HTTP request handler.
//
// Parameters:
//   - hub: Creator Hub contract client
//   - keys: key distribution service
//   - uploader: pinning relay
//   - log: Structured logger for operational insights
func NewHandler(hub interfaces.CreatorHub, keys KeyDistributor, uploader Uploader, log *slog.Logger) *Handler {
	return &Handler{
		hub:           hub,
		keys:          keys,
		uploader:      uploader,
		maxUploadSize: DefaultMaxUploadSize,
		log:           log,
	}
}

// SetMaxUploadSize overrides the upload limit in bytes.
func (h *Handler) SetMaxUploadSize(n int64) {
	if n > 0 {
		h.maxUploadSize = n
	}
}

// RegisterRoutes configures the router with the gateway endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ipfs/upload", h.HandleUpload)

	r.Post("/creator/register", h.HandleRegisterCreator)
	r.Post("/creator/update", h.HandleUpdateCreator)
	r.Get("/creator/{address}", h.HandleGetCreator)

	r.Post("/content/mint", h.HandleMintContent)
	r.Get("/content/{content_id}", h.HandleGetContent)
	r.Post("/content/buy", h.HandleBuyContent)
	r.Post("/content/key", h.HandleContentKey)

	r.Post("/subscription/subscribe", h.HandleSubscribe)
	r.Post("/subscription/check", h.HandleSubscriptionCheck)

	r.Post("/access/check", h.HandleAccessCheck)
}

// HandleUpload relays the multipart field "file" to the pinning service.
//
// URL format: POST /ipfs/upload
//
// Status codes:
//   - 200 OK: payload pinned
//   - 400 Bad Request: no "file" field in a multipart body
//   - 500 Internal Server Error: missing credential or pinning service rejection
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "multipart/form-data" {
		h.writeDetail(w, http.StatusBadRequest, "multipart/form-data body with a file field is required")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		result, err := h.uploader.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.writeJSON(w, http.StatusOK, result)
		return
	}

	h.writeDetail(w, http.StatusBadRequest, "file field is required")
}

// HandleRegisterCreator registers the calling creator. Signed by creator_address.
func (h *Handler) HandleRegisterCreator(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterCreatorRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	out, err := h.hub.RegisterCreator(r.Context(), interfaces.WalletAddress(req.CreatorAddress), req.ProfileURI, req.SubscriptionPrice)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.OKResponse{OK: true, CLIOutput: out})
}

// HandleUpdateCreator updates the calling creator's profile. Signed by creator_address.
func (h *Handler) HandleUpdateCreator(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterCreatorRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	out, err := h.hub.UpdateCreator(r.Context(), interfaces.WalletAddress(req.CreatorAddress), req.ProfileURI, req.SubscriptionPrice)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.OKResponse{OK: true, CLIOutput: out})
}

// HandleGetCreator returns the on-chain profile of a creator.
//
// URL format: GET /creator/{address}
func (h *Handler) HandleGetCreator(w http.ResponseWriter, r *http.Request) {
	creator, err := interfaces.NewWalletAddress(r.PathValue("address"))
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, out, err := h.hub.GetCreator(r.Context(), creator)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if profile == nil {
		h.writeDetail(w, http.StatusNotFound, DetailCreatorNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, api.CreatorResponse{OK: true, Creator: profile, CLIOutput: out})
}

// HandleMintContent mints content on-chain, then stores its key under the assigned id.
func (h *Handler) HandleMintContent(w http.ResponseWriter, r *http.Request) {
	req := api.NewMintContentRequest()
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	result, err := h.keys.MintContent(r.Context(), keydist.MintRequest{
		Creator:          interfaces.WalletAddress(req.CreatorAddress),
		CID:              req.IPFSCID,
		Price:            req.Price,
		IsForSubscribers: req.IsForSubscribers,
		AESKey:           req.AESKey,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.MintContentResponse{OK: true, ContentID: result.ContentID, CLIOutput: result.CLIOutput})
}

// HandleGetContent returns the on-chain record of a content item.
//
// URL format: GET /content/{content_id}
func (h *Handler) HandleGetContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := interfaces.NewContentIDFromString(r.PathValue("content_id"))
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	content, out, err := h.hub.GetContent(r.Context(), contentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if content == nil {
		h.writeDetail(w, http.StatusNotFound, DetailContentNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, api.ContentResponse{OK: true, ContentID: contentID, Content: content, CLIOutput: out})
}

// HandleSubscribe subscribes a wallet to a creator. Signed by subscriber_address.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	req := api.NewSubscribeRequest()
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	out, err := h.hub.Subscribe(r.Context(),
		interfaces.WalletAddress(req.SubscriberAddress),
		interfaces.WalletAddress(req.CreatorAddress),
		uint32(req.Months))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.OKResponse{OK: true, CLIOutput: out})
}

// HandleSubscriptionCheck reports whether a wallet is subscribed to a creator.
func (h *Handler) HandleSubscriptionCheck(w http.ResponseWriter, r *http.Request) {
	var req api.SubscriptionCheckRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	subscribed, out, err := h.hub.IsSubscribed(r.Context(),
		interfaces.WalletAddress(req.UserAddress),
		interfaces.WalletAddress(req.CreatorAddress))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.SubscriptionCheckResponse{OK: true, IsSubscribed: subscribed, CLIOutput: out})
}

// HandleBuyContent purchases a content item. Signed by buyer_address.
func (h *Handler) HandleBuyContent(w http.ResponseWriter, r *http.Request) {
	var req api.BuyContentRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	out, err := h.hub.BuyContent(r.Context(), interfaces.WalletAddress(req.BuyerAddress), req.ContentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.OKResponse{OK: true, CLIOutput: out})
}

// HandleAccessCheck asks the contract whether a wallet has access to a content item.
func (h *Handler) HandleAccessCheck(w http.ResponseWriter, r *http.Request) {
	var req api.AccessCheckRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	allowed, out, err := h.hub.HasAccess(r.Context(), interfaces.WalletAddress(req.UserAddress), req.ContentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.AccessCheckResponse{OK: true, HasAccess: allowed, CLIOutput: out})
}

// HandleContentKey releases the AES key of a content item to an entitled wallet.
//
// Status codes:
//   - 200 OK: access granted and key found
//   - 403 Forbidden: the contract denies access
//   - 404 Not Found: access granted but no key stored
//   - 500 Internal Server Error: contract invocation or store failure
func (h *Handler) HandleContentKey(w http.ResponseWriter, r *http.Request) {
	var req api.ContentKeyRequest
	if !h.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	record, err := h.keys.ContentKey(r.Context(), interfaces.WalletAddress(req.WalletAddress), req.ContentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.ContentKeyResponse{OK: true, ContentID: record.ContentID, AESKey: record.AESKey})
}

// decodeRequest decodes the JSON body into v and validates it, writing a 400 on failure.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, v any, validate func() error) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := validate(); err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeError maps err to a status code and detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invErr *interfaces.InvocationError
		upErr  *interfaces.UpstreamError
	)

	switch {
	case errors.Is(err, interfaces.ErrAccessDenied):
		h.writeDetail(w, http.StatusForbidden, DetailAccessDenied)
		return
	case errors.Is(err, interfaces.ErrKeyNotFound):
		h.writeDetail(w, http.StatusNotFound, DetailKeyNotFound)
		return
	case errors.Is(err, api.ErrInvalidRequest):
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	detail := err.Error()
	switch {
	case errors.As(err, &invErr):
		detail = invErr.Error()
	case errors.As(err, &upErr):
		detail = upErr.Error()
	}

	h.log.Error("Request failed",
		slog.String("path", r.URL.Path),
		"err", err)
	h.writeDetail(w, http.StatusInternalServerError, detail)
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, api.ErrorResponse{Detail: detail})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
