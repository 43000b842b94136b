package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// RPCProbe queries the network's JSON-RPC endpoint for its health.
type RPCProbe struct {
	client *rpc.Client
	url    string
	log    *slog.Logger
}

// NewRPCProbe creates a probe for the JSON-RPC endpoint at url.
func NewRPCProbe(ctx context.Context, url string, log *slog.Logger) (*RPCProbe, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial network RPC %s: %w", url, err)
	}
	return &RPCProbe{client: client, url: url, log: log}, nil
}

// Health calls getHealth and, when available, getNetwork for the passphrase.
func (p *RPCProbe) Health(ctx context.Context) (*interfaces.NetworkHealth, error) {
	var health interfaces.NetworkHealth
	if err := p.client.CallContext(ctx, &health, "getHealth"); err != nil {
		return nil, fmt.Errorf("getHealth failed: %w", err)
	}

	var network struct {
		Passphrase string `json:"passphrase"`
	}
	if err := p.client.CallContext(ctx, &network, "getNetwork"); err != nil {
		p.log.Debug("getNetwork failed", "url", p.url, "err", err)
	} else {
		health.Passphrase = network.Passphrase
	}

	return &health, nil
}

// Close releases the underlying RPC client.
func (p *RPCProbe) Close() {
	p.client.Close()
}
