package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/creator-hub-gateway/api/gateway"
	"github.com/ruteri/creator-hub-gateway/cmd/flags"
	"github.com/ruteri/creator-hub-gateway/common"
	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/httpserver"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/keydist"
	"github.com/ruteri/creator-hub-gateway/oracle"
	"github.com/ruteri/creator-hub-gateway/pinning"
	"github.com/ruteri/creator-hub-gateway/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "creator-hub-gateway",
		Usage:   "Serve the Creator Hub API: contract calls, IPFS uploads and content key distribution",
		Version: common.Version,
		Flags:   append(append([]cli.Flag{}, flags.CommonFlags...), flags.GatewayFlags...),
		Action:  runGateway,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGateway(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	cfg := flags.GatewayConfig(cCtx)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "err", err)
		return err
	}
	if cfg.Oracle.ContractID == "" {
		logger.Warn("CREATOR_HUB_CONTRACT_ID is not set, contract operations will fail")
	}
	if cfg.Pinning.Backend == config.PinningPinata && cfg.Pinning.PinataJWT == "" {
		logger.Warn("PINATA_JWT is not set, uploads will fail")
	}

	// Secret store
	sealer, err := storage.NewSealerFromHex(cfg.Store.SealingKey)
	if err != nil {
		logger.Error("Failed to create key sealer", "err", err)
		return err
	}
	if sealer == nil {
		logger.Warn("No sealing key configured, AES keys are stored in plaintext")
	}

	store, err := storage.NewSecretStore(cfg.Store.URI, sealer, logger)
	if err != nil {
		logger.Error("Failed to create secret store", "err", err)
		return err
	}
	defer store.Close()

	// The server starts even if the store stays unreachable; /db-health reports it.
	if err := storage.EnsureSchema(cCtx.Context, store, cfg.Store.SchemaAttempts, cfg.Store.SchemaRetryDelay, logger); err != nil {
		logger.Error("Secret store schema not ready, continuing", "store", store.Name(), "err", err)
	}

	// Contract
	invoker := oracle.NewCLIInvoker(cfg.Oracle, logger)
	hub := oracle.NewCreatorHubClient(invoker)

	var probe interfaces.NetworkProbe
	if cfg.Oracle.RPCURL != "" {
		rpcProbe, err := oracle.NewRPCProbe(cCtx.Context, cfg.Oracle.RPCURL, logger)
		if err != nil {
			logger.Error("Failed to dial network RPC, /network-health disabled", "err", err)
		} else {
			defer rpcProbe.Close()
			probe = rpcProbe
		}
	}

	// Uploads
	pinner, err := pinning.NewPinner(cfg.Pinning, logger)
	if err != nil {
		logger.Error("Failed to create pinner", "err", err)
		return err
	}
	relay := pinning.NewRelay(pinner, cfg.Pinning.Gateway, logger)

	keys := keydist.NewService(hub, store, logger)

	handler := gateway.NewHandler(hub, keys, relay, logger)
	handler.SetMaxUploadSize(cCtx.Int64(flags.MaxUploadFlag.Name))

	server, err := httpserver.New(flags.ConfigureServer(cCtx, logger, cfg.Oracle.Timeout), store, probe, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server",
		"network", cfg.Oracle.Network,
		"pinning", pinner.Name(),
		"store", store.Name(),
		"gateway", relay.GatewayBase())
	server.RunInBackground()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Server is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")
	return nil
}
