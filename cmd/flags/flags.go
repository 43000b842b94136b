// Package flags holds the command-line flags shared by the gateway binaries.
// Every setting can also be supplied through the environment variable named
// in its EnvVars.
package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/common"
	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ConfigureServer builds the HTTP server configuration. The write timeout
// is extended past the CLI timeout so slow invocations still get a response;
// an unbounded CLI timeout leaves writes unbounded too.
func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, cliTimeout time.Duration) *api.HTTPServerConfig {
	var writeTimeout time.Duration
	if cliTimeout > 0 {
		writeTimeout = cliTimeout + 30*time.Second
	}

	return &api.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		DrainDuration:            time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             writeTimeout,
		HealthCheckTimeout:       5 * time.Second,
	}
}

// GatewayConfig reads the component configuration from the parsed flags.
func GatewayConfig(cCtx *cli.Context) *config.Config {
	cfg := config.Default()

	cfg.Oracle.CLIPath = cCtx.String(StellarCLIFlag.Name)
	cfg.Oracle.ContractID = cCtx.String(ContractIDFlag.Name)
	cfg.Oracle.Network = cCtx.String(NetworkFlag.Name)
	cfg.Oracle.AdminAlias = cCtx.String(AdminAliasFlag.Name)
	cfg.Oracle.Timeout = cCtx.Duration(CLITimeoutFlag.Name)
	cfg.Oracle.RPCURL = cCtx.String(RpcAddrFlag.Name)

	cfg.Pinning.Backend = cCtx.String(PinningBackendFlag.Name)
	cfg.Pinning.Gateway = cCtx.String(GatewayFlag.Name)
	cfg.Pinning.Timeout = cCtx.Duration(UploadTimeoutFlag.Name)
	cfg.Pinning.PinataJWT = cCtx.String(PinataJWTFlag.Name)
	cfg.Pinning.PinataEndpoint = cCtx.String(PinataEndpointFlag.Name)
	cfg.Pinning.KuboAPI = cCtx.String(KuboAPIFlag.Name)
	cfg.Pinning.S3Bucket = cCtx.String(S3BucketFlag.Name)
	cfg.Pinning.S3Region = cCtx.String(S3RegionFlag.Name)
	cfg.Pinning.S3Endpoint = cCtx.String(S3EndpointFlag.Name)
	cfg.Pinning.S3AccessKey = cCtx.String(S3AccessKeyFlag.Name)
	cfg.Pinning.S3SecretKey = cCtx.String(S3SecretKeyFlag.Name)

	cfg.Store.URI = cCtx.String(DatabaseURLFlag.Name)
	cfg.Store.SealingKey = cCtx.String(SealingKeyFlag.Name)
	cfg.Store.SchemaAttempts = cCtx.Int(SchemaAttemptsFlag.Name)
	cfg.Store.SchemaRetryDelay = cCtx.Duration(SchemaRetryDelayFlag.Name)

	return cfg
}

// Contract

var StellarCLIFlag = &cli.StringFlag{
	Name:    "stellar-cli",
	Value:   config.DefaultCLIPath,
	EnvVars: []string{"STELLAR_CLI"},
	Usage:   "path to the stellar CLI executable",
}
var ContractIDFlag = &cli.StringFlag{
	Name:    "contract-id",
	EnvVars: []string{"CREATOR_HUB_CONTRACT_ID"},
	Usage:   "Creator Hub contract id; contract operations fail until it is set",
}
var NetworkFlag = &cli.StringFlag{
	Name:    "network",
	Value:   config.DefaultNetwork,
	EnvVars: []string{"STELLAR_NETWORK"},
	Usage:   "network name passed to the stellar CLI",
}
var AdminAliasFlag = &cli.StringFlag{
	Name:    "admin-alias",
	Value:   config.DefaultAdminAlias,
	EnvVars: []string{"STELLAR_ADMIN_ALIAS"},
	Usage:   "signing identity for read-only contract methods",
}
var CLITimeoutFlag = &cli.DurationFlag{
	Name:    "cli-timeout",
	Value:   config.DefaultCLITimeout,
	EnvVars: []string{"STELLAR_CLI_TIMEOUT"},
	Usage:   "upper bound on a single contract invocation",
}
var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	EnvVars: []string{"STELLAR_RPC_URL"},
	Usage:   "network JSON-RPC endpoint for /network-health (disabled if empty)",
}

// Pinning

var PinningBackendFlag = &cli.StringFlag{
	Name:    "pinning-backend",
	Value:   config.PinningPinata,
	EnvVars: []string{"PINNING_BACKEND"},
	Usage:   "upload backend: 'pinata', 'kubo' or 's3'",
}
var GatewayFlag = &cli.StringFlag{
	Name:    "ipfs-gateway",
	Value:   config.DefaultGateway,
	EnvVars: []string{"IPFS_GATEWAY"},
	Usage:   "public IPFS gateway base used to build file URLs",
}
var UploadTimeoutFlag = &cli.DurationFlag{
	Name:    "upload-timeout",
	Value:   config.DefaultUploadTimeout,
	EnvVars: []string{"UPLOAD_TIMEOUT"},
	Usage:   "upper bound on a single upload to the pinning backend",
}
var PinataJWTFlag = &cli.StringFlag{
	Name:    "pinata-jwt",
	EnvVars: []string{"PINATA_JWT"},
	Usage:   "Pinata API bearer token; uploads fail until it is set",
}
var PinataEndpointFlag = &cli.StringFlag{
	Name:    "pinata-endpoint",
	Value:   config.DefaultPinataEndpoint,
	EnvVars: []string{"PINATA_ENDPOINT"},
	Usage:   "Pinata pinFileToIPFS endpoint",
}
var KuboAPIFlag = &cli.StringFlag{
	Name:    "kubo-api",
	EnvVars: []string{"IPFS_API"},
	Usage:   "IPFS node API address for the 'kubo' backend",
}
var S3BucketFlag = &cli.StringFlag{
	Name:    "s3-bucket",
	EnvVars: []string{"S3_BUCKET"},
	Usage:   "bucket for the 's3' backend",
}
var S3RegionFlag = &cli.StringFlag{
	Name:    "s3-region",
	Value:   "us-east-1",
	EnvVars: []string{"S3_REGION"},
	Usage:   "region for the 's3' backend",
}
var S3EndpointFlag = &cli.StringFlag{
	Name:    "s3-endpoint",
	EnvVars: []string{"S3_ENDPOINT"},
	Usage:   "IPFS-backed S3-compatible endpoint for the 's3' backend",
}
var S3AccessKeyFlag = &cli.StringFlag{
	Name:    "s3-access-key",
	EnvVars: []string{"S3_ACCESS_KEY"},
	Usage:   "access key for the 's3' backend",
}
var S3SecretKeyFlag = &cli.StringFlag{
	Name:    "s3-secret-key",
	EnvVars: []string{"S3_SECRET_KEY"},
	Usage:   "secret key for the 's3' backend",
}
var MaxUploadFlag = &cli.Int64Flag{
	Name:    "max-upload-bytes",
	Value:   100 << 20,
	EnvVars: []string{"MAX_UPLOAD_BYTES"},
	Usage:   "largest accepted upload",
}

// Secret store

var DatabaseURLFlag = &cli.StringFlag{
	Name:    "database-url",
	Value:   config.DefaultStoreURI,
	EnvVars: []string{"DATABASE_URL"},
	Usage:   "secret store URI: sqlite://, postgres:// or vault://",
}
var SealingKeyFlag = &cli.StringFlag{
	Name:    "sealing-key",
	EnvVars: []string{"KEY_SEALING_KEY"},
	Usage:   "hex-encoded 32-byte key to seal AES keys at rest (plaintext if empty)",
}
var SchemaAttemptsFlag = &cli.IntFlag{
	Name:    "schema-attempts",
	Value:   config.DefaultSchemaAttempts,
	EnvVars: []string{"SCHEMA_ATTEMPTS"},
	Usage:   "attempts to prepare the store schema at startup",
}
var SchemaRetryDelayFlag = &cli.DurationFlag{
	Name:    "schema-retry-delay",
	Value:   config.DefaultSchemaRetryDelay,
	EnvVars: []string{"SCHEMA_RETRY_DELAY"},
	Usage:   "delay between schema attempts",
}

// Server

var ListenAddrFlag = &cli.StringFlag{
	Name:    "listen-addr",
	Value:   "127.0.0.1:8000",
	EnvVars: []string{"LISTEN_ADDR"},
	Usage:   "address to listen on for API",
}
var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "creator-hub-gateway",
	Usage: "add 'service' tag to logs",
}
var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:    "metrics-addr",
	Value:   "127.0.0.1:8090",
	EnvVars: []string{"METRICS_ADDR"},
	Usage:   "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}

var GatewayFlags = []cli.Flag{
	ListenAddrFlag,
	StellarCLIFlag,
	ContractIDFlag,
	NetworkFlag,
	AdminAliasFlag,
	CLITimeoutFlag,
	RpcAddrFlag,
	PinningBackendFlag,
	GatewayFlag,
	UploadTimeoutFlag,
	PinataJWTFlag,
	PinataEndpointFlag,
	KuboAPIFlag,
	S3BucketFlag,
	S3RegionFlag,
	S3EndpointFlag,
	S3AccessKeyFlag,
	S3SecretKeyFlag,
	MaxUploadFlag,
	DatabaseURLFlag,
	SealingKeyFlag,
	SchemaAttemptsFlag,
	SchemaRetryDelayFlag,
}
