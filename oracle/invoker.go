package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/metrics"
)

// waitDelay bounds how long output pipes are drained after the process is killed.
const waitDelay = 5 * time.Second

// CLIInvoker invokes contract methods through the contract-invocation CLI.
// It is safe for concurrent use; every call spawns its own process.
type CLIInvoker struct {
	cliPath    string
	contractID string
	network    string
	adminAlias string
	timeout    time.Duration
	log        *slog.Logger
}

// NewCLIInvoker creates an invoker from the oracle configuration.
// Missing contract id or admin alias are reported on each Invoke call.
func NewCLIInvoker(cfg config.OracleConfig, log *slog.Logger) *CLIInvoker {
	cliPath := cfg.CLIPath
	if cliPath == "" {
		cliPath = config.DefaultCLIPath
	}

	return &CLIInvoker{
		cliPath:    cliPath,
		contractID: cfg.ContractID,
		network:    cfg.Network,
		adminAlias: cfg.AdminAlias,
		timeout:    cfg.Timeout,
		log:        log,
	}
}

// Invoke runs method with the given arguments, signed by signer or by the
// administrative identity when signer is empty. It returns the process's
// standard output with surrounding whitespace stripped.
//
// The invocation is detached from the caller's cancellation: once spawned,
// the process runs to completion or until the configured timeout.
func (c *CLIInvoker) Invoke(ctx context.Context, method string, args []interfaces.ArgPair, signer interfaces.WalletAddress) (string, error) {
	if c.contractID == "" {
		return "", interfaces.ConfigurationErrorf("CREATOR_HUB_CONTRACT_ID is not set")
	}

	source := signer
	if source == "" {
		source = interfaces.WalletAddress(c.adminAlias)
	}
	if source == "" {
		return "", interfaces.ConfigurationErrorf("no source account configured for contract CLI call")
	}

	cmdArgs := c.commandArgs(method, args, source)
	c.log.Debug("Running contract CLI",
		slog.String("method", method),
		slog.String("cmd", c.cliPath+" "+strings.Join(cmdArgs, " ")))

	runCtx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, c.cliPath, cmdArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	metrics.ObserveOracleInvocation(method, err, time.Since(start))

	if err != nil {
		invErr := &interfaces.InvocationError{Method: method, ExitCode: -1}

		var exitErr *exec.ExitError
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			invErr.Output = fmt.Sprintf("invocation of %s timed out after %s", method, c.timeout)
		case errors.As(err, &exitErr):
			invErr.ExitCode = exitErr.ExitCode()
			invErr.Output = stderr.String()
			if invErr.Output == "" {
				invErr.Output = stdout.String()
			}
			invErr.Output = strings.TrimSpace(invErr.Output)
		default:
			// The process could not be started at all.
			invErr.Output = err.Error()
		}

		c.log.Warn("Contract CLI failed",
			slog.String("method", method),
			slog.Int("exitCode", invErr.ExitCode),
			slog.Duration("duration", time.Since(start)),
			"err", invErr.Output)
		return "", invErr
	}

	c.log.Debug("Contract CLI succeeded",
		slog.String("method", method),
		slog.Duration("duration", time.Since(start)))

	return strings.TrimSpace(stdout.String()), nil
}

func (c *CLIInvoker) commandArgs(method string, args []interfaces.ArgPair, signer interfaces.WalletAddress) []string {
	cmdArgs := []string{
		"contract", "invoke",
		"--network", c.network,
		"--source-account", signer.String(),
		"--id", c.contractID,
		"--",
		method,
	}
	for _, arg := range args {
		cmdArgs = append(cmdArgs, arg.Flag, arg.Value)
	}
	return cmdArgs
}
