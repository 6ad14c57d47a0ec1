package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/inkpad/playground/internal/config"
	"github.com/inkpad/playground/internal/sandbox"
)

func execute(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(fsys)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	require.Equal(t, "dev\n", out)
}

func TestConfigInit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	const path = "/home/user/.config/playground/config.yaml"

	out, err := execute(t, fsys, "config", "init", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	cfg, err := config.Load(fsys, path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)

	_, err = execute(t, fsys, "config", "init", "--config", path)
	require.ErrorIs(t, err, errConfigExists)

	_, err = execute(t, fsys, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "config", "path", "--config", "/etc/pg.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/pg.yaml\n", out)
}

func TestRun_WatchNeedsFile(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), "--config", "/none.yaml", "--watch")
	require.ErrorIs(t, err, errWatchNeedsFile)
}

func TestRun_InvalidFlagValue(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), "--config", "/none.yaml", "--height", "-1")
	require.ErrorContains(t, err, "height must be >= 0")
}

func TestRun_MissingSourceFile(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), "--config", "/none.yaml", "/src/missing.go")
	require.ErrorContains(t, err, "read source")
}

func TestLoadSource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/main.go", []byte("console.Log(1)"), 0o644))

	code, err := loadSource(fsys, "/src/main.go", sandbox.TemplateVanilla)
	require.NoError(t, err)
	require.Equal(t, "console.Log(1)", code)

	code, err = loadSource(fsys, "", sandbox.TemplateVanilla)
	require.NoError(t, err)
	require.Equal(t, defaultGoCode, code)

	code, err = loadSource(fsys, "", sandbox.TemplateMarkdown)
	require.NoError(t, err)
	require.Equal(t, defaultMarkdown, code)
}

func TestSandboxOptions(t *testing.T) {
	require.Equal(t, sandbox.DefaultOptions(), sandboxOptions(config.DefaultConfig().Sandbox))
}
