package pinning

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// NewPinner creates the pinner selected by cfg.Backend.
func NewPinner(cfg config.PinningConfig, log *slog.Logger) (interfaces.Pinner, error) {
	switch cfg.Backend {
	case config.PinningPinata, "":
		return NewPinataPinner(cfg.PinataJWT, cfg.PinataEndpoint, cfg.Timeout, log), nil
	case config.PinningKubo:
		return NewKuboPinner(cfg.KuboAPI, cfg.Timeout, log), nil
	case config.PinningS3:
		pinner, err := NewS3Pinner(cfg, log)
		if err != nil {
			return nil, err
		}
		return pinner, nil
	default:
		return nil, fmt.Errorf("unsupported pinning backend: %s", cfg.Backend)
	}
}

func newTimeoutClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

var (
	_ interfaces.Pinner = (*PinataPinner)(nil)
	_ interfaces.Pinner = (*KuboPinner)(nil)
	_ interfaces.Pinner = (*S3Pinner)(nil)
)
