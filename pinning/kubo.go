package pinning

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// KuboPinner adds and pins payloads on a self-hosted IPFS node.
type KuboPinner struct {
	shell  *shell.Shell
	apiURL string
	log    *slog.Logger
}

// NewKuboPinner creates a pinner for the node API at apiURL (host:port or URL).
func NewKuboPinner(apiURL string, timeout time.Duration, log *slog.Logger) *KuboPinner {
	sh := shell.NewShell(apiURL)
	if timeout > 0 {
		sh.SetTimeout(timeout)
	}
	return &KuboPinner{
		shell:  sh,
		apiURL: apiURL,
		log:    log,
	}
}

// Pin adds data to the node with pinning enabled and returns its CID.
// The node API offers no per-request context; the shell timeout bounds the call.
func (k *KuboPinner) Pin(ctx context.Context, filename string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cid, err := k.shell.Add(data, shell.Pin(true))
	if err != nil {
		return "", fmt.Errorf("%w: failed to add data to IPFS node %s: %v", interfaces.ErrUpstream, k.apiURL, err)
	}

	k.log.Debug("Added content to IPFS node",
		slog.String("filename", filename),
		slog.String("cid", cid))

	return cid, nil
}

// Name returns identifier for logging.
func (k *KuboPinner) Name() string {
	return config.PinningKubo
}
