package oracle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ruteri/creator-hub-gateway/config"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeFakeCLI writes an executable shell script standing in for the
// contract CLI. Arguments it receives are recorded one per line in the
// returned args file.
func writeFakeCLI(t *testing.T, body string) (cliPath, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake CLI requires a POSIX shell")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	cliPath = filepath.Join(dir, "stellar")

	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(cliPath, []byte(script), 0o755))
	return cliPath, argsFile
}

func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func testOracleConfig(cliPath string) config.OracleConfig {
	return config.OracleConfig{
		CLIPath:    cliPath,
		ContractID: "CCONTRACT",
		Network:    "testnet",
		AdminAlias: "creator-admin",
		Timeout:    10 * time.Second,
	}
}

func TestCLIInvoker_CommandLine(t *testing.T) {
	cliPath, argsFile := writeFakeCLI(t, "echo '  42  '")
	invoker := NewCLIInvoker(testOracleConfig(cliPath), testLogger)

	out, err := invoker.Invoke(context.Background(), "mint_content", []interfaces.ArgPair{
		{Flag: "--creator", Value: "GCREATOR"},
		{Flag: "--price", Value: "10"},
	}, "GCREATOR")
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	assert.Equal(t, []string{
		"contract", "invoke",
		"--network", "testnet",
		"--source-account", "GCREATOR",
		"--id", "CCONTRACT",
		"--",
		"mint_content",
		"--creator", "GCREATOR",
		"--price", "10",
	}, readArgs(t, argsFile))
}

func TestCLIInvoker_DefaultSigner(t *testing.T) {
	cliPath, argsFile := writeFakeCLI(t, "echo true")
	invoker := NewCLIInvoker(testOracleConfig(cliPath), testLogger)

	_, err := invoker.Invoke(context.Background(), "has_access", nil, "")
	require.NoError(t, err)

	args := readArgs(t, argsFile)
	require.GreaterOrEqual(t, len(args), 6)
	assert.Equal(t, "--source-account", args[4])
	assert.Equal(t, "creator-admin", args[5])
}

func TestCLIInvoker_ConfigurationErrors(t *testing.T) {
	cliPath, argsFile := writeFakeCLI(t, "echo never")

	t.Run("missing contract id", func(t *testing.T) {
		cfg := testOracleConfig(cliPath)
		cfg.ContractID = ""
		_, err := NewCLIInvoker(cfg, testLogger).Invoke(context.Background(), "has_access", nil, "GUSER")
		assert.ErrorIs(t, err, interfaces.ErrConfiguration)
		assert.Contains(t, err.Error(), "CREATOR_HUB_CONTRACT_ID")
	})

	t.Run("missing signer", func(t *testing.T) {
		cfg := testOracleConfig(cliPath)
		cfg.AdminAlias = ""
		_, err := NewCLIInvoker(cfg, testLogger).Invoke(context.Background(), "has_access", nil, "")
		assert.ErrorIs(t, err, interfaces.ErrConfiguration)
	})

	_, err := os.Stat(argsFile)
	assert.True(t, os.IsNotExist(err), "CLI must not be spawned on configuration errors")
}

func TestCLIInvoker_Failure(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
		exitCode int
	}{
		{
			name:     "stderr preferred",
			body:     "echo partial; echo 'account not found' >&2; exit 1",
			expected: "Stellar CLI error: account not found",
			exitCode: 1,
		},
		{
			name:     "stdout when stderr empty",
			body:     "echo 'simulation failed'; exit 3",
			expected: "Stellar CLI error: simulation failed",
			exitCode: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cliPath, _ := writeFakeCLI(t, tc.body)
			invoker := NewCLIInvoker(testOracleConfig(cliPath), testLogger)

			_, err := invoker.Invoke(context.Background(), "register_creator", nil, "GCREATOR")
			require.Error(t, err)
			assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
			assert.Equal(t, tc.expected, err.Error())

			var invErr *interfaces.InvocationError
			require.True(t, errors.As(err, &invErr))
			assert.Equal(t, tc.exitCode, invErr.ExitCode)
			assert.Equal(t, "register_creator", invErr.Method)
		})
	}
}

func TestCLIInvoker_MissingBinary(t *testing.T) {
	cfg := testOracleConfig(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := NewCLIInvoker(cfg, testLogger).Invoke(context.Background(), "has_access", nil, "")
	assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
}

func TestCLIInvoker_Timeout(t *testing.T) {
	cliPath, _ := writeFakeCLI(t, "exec sleep 5")
	cfg := testOracleConfig(cliPath)
	cfg.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := NewCLIInvoker(cfg, testLogger).Invoke(context.Background(), "has_access", nil, "")
	assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestCLIInvoker_IgnoresCallerCancellation(t *testing.T) {
	cliPath, _ := writeFakeCLI(t, "sleep 0.2; echo done")
	invoker := NewCLIInvoker(testOracleConfig(cliPath), testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := invoker.Invoke(ctx, "get_content", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}
