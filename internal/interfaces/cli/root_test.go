package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
log:
  level: error
cache:
  backend: memory
simulation:
  seed: 42
  render: true
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))
	return path
}

// runCLI executes a fresh root command and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != "" {
		cmd.SetIn(bytes.NewBufferString(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "qsim", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "simulate", "predict", "fingerprint", "cache", "events", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	for _, name := range []string{"config", "log-level", "output", "verbose", "timeout", "server"} {
		assert.NotNil(t, pf.Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, OutputText, pf.Lookup("output").DefValue)
	assert.Equal(t, "30s", pf.Lookup("timeout").DefValue)
}

func TestPersistentPreRun_RejectsUnknownOutput(t *testing.T) {
	_, err := runCLI(t, "", "--config", writeConfig(t), "-o", "xml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	_, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	assert.Error(t, err)
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "", "--config", writeConfig(t), "-o", "json", "version")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.SDKVersion)
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"NAME", "VALUE"}, [][]string{
		{"entries", "3"},
		{"storage_size_bytes", "2048"},
		{"short"},
	})
	want := "NAME                VALUE\n" +
		"------------------  -----\n" +
		"entries             3    \n" +
		"storage_size_bytes  2048 \n" +
		"short                    \n"
	assert.Equal(t, want, out)
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestPrintResult_FallsBackToJSONWithoutContext(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, PrintResult(cmd, map[string]int{"entries": 1}))
	assert.JSONEq(t, `{"entries":1}`, out.String())
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())

	PrintError(cmd, assert.AnError)
	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", errOut.String())
}

//Personal.AI order the ending
