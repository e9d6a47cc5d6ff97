package command_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/test"
	"github/chapool/go-sweeper/internal/util/command"
)

func TestWithServer(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		ctx := t.Context()

		var testError = errors.New("test error")

		s.Config.Logger.PrettyPrintConsole = false
		resultErr := command.WithServer(ctx, s.Config, func(ctx context.Context, s *api.Server) error {
			chainID, err := s.RPC.ChainID(ctx)
			require.NoError(t, err)

			assert.Equal(t, int64(test.TestChainID), chainID.Int64())
			assert.True(t, s.Ready())

			return testError
		})

		assert.Equal(t, testError, resultErr)
	})
}

func TestNewSubcommandGroup(t *testing.T) {
	sub := &cobra.Command{Use: "child", RunE: func(*cobra.Command, []string) error { return nil }}
	group := command.NewSubcommandGroup("group", sub)

	assert.Equal(t, "group", group.Use)
	assert.Equal(t, "group related subcommands", group.Short)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "child", group.Commands()[0].Use)
}

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()

	root := &cobra.Command{Use: "root"}
	command.AddPersistentFlags(root)

	cmd := &cobra.Command{Use: "sub"}
	cmd.Flags().Int("workers", 0, "")
	root.AddCommand(cmd)

	return cmd
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SWEEPER_CHAIN_ID", "10143")
	t.Setenv("SWEEPER_ENGINE_WORKERS", "4")

	cmd := newTestCommand(t)
	require.NoError(t, cmd.ParseFlags([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--rpc", "http://a.example,http://b.example",
		"--workers", "7",
	}))

	cfg, err := command.LoadConfig(cmd, map[string]string{"workers": "engine.workers"})
	require.NoError(t, err)

	assert.Equal(t, int64(10143), cfg.Chain.ID)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Chain.RPCURLs)
	assert.Equal(t, 7, cfg.Engine.Workers)
}

func TestLoadConfigUnchangedFlagsKeepDefaults(t *testing.T) {
	cmd := newTestCommand(t)
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}))

	cfg, err := command.LoadConfig(cmd, map[string]string{"workers": "engine.workers"})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadConfigInvalid(t *testing.T) {
	cmd := newTestCommand(t)
	require.NoError(t, cmd.ParseFlags([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--workers", "11",
	}))

	_, err := command.LoadConfig(cmd, map[string]string{"workers": "engine.workers"})
	require.Error(t, err)
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	text, err := command.ReadInput(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", text)

	text, err = command.ReadInput(command.StdinPath, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	_, err = command.ReadInput(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestConfirm(t *testing.T) {
	for answer, want := range map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	} {
		var out strings.Builder

		ok, err := command.Confirm(strings.NewReader(answer), &out, "Send 2 transfers?")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "answer %q", answer)
		assert.Equal(t, "Send 2 transfers? [y/N]: ", out.String())
	}
}
