package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// maxErrorBody caps how much of a rejected response is kept for diagnostics.
const maxErrorBody = 64 * 1024

// PinataPinner uploads payloads to Pinata's pinFileToIPFS endpoint.
type PinataPinner struct {
	jwt        string
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinataPinner creates a Pinata pinner. An empty JWT is reported on each Pin call.
func NewPinataPinner(jwt, endpoint string, timeout time.Duration, log *slog.Logger) *PinataPinner {
	if endpoint == "" {
		endpoint = config.DefaultPinataEndpoint
	}
	return &PinataPinner{
		jwt:        jwt,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Pin sends data as the multipart field "file" and returns the IpfsHash of the response.
func (p *PinataPinner) Pin(ctx context.Context, filename string, data io.Reader) (string, error) {
	if p.jwt == "" {
		return "", interfaces.ConfigurationErrorf("PINATA_JWT not configured")
	}

	body, contentType, written := streamMultipart(filename, data)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		_ = body.Close()
		<-written
		return "", fmt.Errorf("failed to create pinning request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.jwt)
	req.Header.Set("Content-Type", contentType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		_ = body.Close()
		if werr := <-written; werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
			return "", fmt.Errorf("failed to read upload: %w", werr)
		}
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &interfaces.UpstreamError{
			Service:    p.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var out pinataResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode pinning response: %v", interfaces.ErrUpstream, err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("%w: pinning response missing IpfsHash", interfaces.ErrUpstream)
	}

	p.log.Debug("Pinata accepted upload",
		slog.String("cid", out.IpfsHash),
		slog.Int64("pinSize", out.PinSize))

	return out.IpfsHash, nil
}

// streamMultipart encodes data as the multipart field "file" into a pipe.
// The returned channel yields the encoder's error once it stops writing.
func streamMultipart(filename string, data io.Reader) (*io.PipeReader, string, <-chan error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	written := make(chan error, 1)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, data)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
		written <- err
	}()

	return pr, mw.FormDataContentType(), written
}

// Name returns identifier for logging.
func (p *PinataPinner) Name() string {
	return config.PinningPinata
}
