package pinning

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/metrics"
)

// Relay uploads payloads through a Pinner and derives their URIs.
type Relay struct {
	pinner      interfaces.Pinner
	gatewayBase string
	log         *slog.Logger
}

// NewRelay creates a relay. The gateway base is normalized once here.
func NewRelay(pinner interfaces.Pinner, gateway string, log *slog.Logger) *Relay {
	return &Relay{
		pinner:      pinner,
		gatewayBase: NormalizeGateway(gateway),
		log:         log,
	}
}

// GatewayBase returns the normalized public gateway base.
func (r *Relay) GatewayBase() string {
	return r.gatewayBase
}

// Upload pins data and returns its CID with the derived ipfs:// and gateway URIs.
func (r *Relay) Upload(ctx context.Context, filename string, data io.Reader) (*interfaces.PinResult, error) {
	start := time.Now()

	cid, err := r.pinner.Pin(ctx, filename, data)
	metrics.ObserveUpload(r.pinner.Name(), err)
	if err != nil {
		r.log.Warn("Upload to pinning service failed",
			slog.String("backend", r.pinner.Name()),
			slog.String("filename", filename),
			slog.Duration("duration", time.Since(start)),
			"err", err)
		return nil, err
	}

	r.log.Info("Pinned upload",
		slog.String("backend", r.pinner.Name()),
		slog.String("cid", cid),
		slog.Duration("duration", time.Since(start)))

	return &interfaces.PinResult{
		CID:        cid,
		IPFSURI:    "ipfs://" + cid,
		GatewayURL: r.gatewayBase + "/ipfs/" + cid,
	}, nil
}

// NormalizeGateway turns a configured gateway value into a URL base without
// a trailing slash. Values without an http(s) scheme get https:// prepended.
func NormalizeGateway(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		return "https://" + strings.Trim(raw, "/")
	}
	return strings.TrimRight(raw, "/")
}
