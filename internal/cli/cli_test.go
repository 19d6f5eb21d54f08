package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchedules = `[
  {"token":"0.0.5001","treasury":"0.0.2","token_type":"FUNGIBLE_COMMON",
   "fees":[{"kind":"fixed","collector":"0.0.98","units":3}]}
]`

const testAliases = `{"0x0101010101010101010101010101010101010101":"0.0.1234"}`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hederad.toml")
	cfg := `[storage]
backend = "bbolt"
path = "store"

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hederad version "+Version)
}

func TestImportAndAssess(t *testing.T) {
	conf := writeTestConfig(t)

	out, err := run(t, testSchedules, "--conf", conf, "schedules", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 fee schedules")

	out, err = run(t, testAliases, "--conf", conf, "aliases", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "linked 1 aliases")

	out, err = run(t, "", "--conf", conf, "schedules", "show", "0.0.5001")
	require.NoError(t, err)
	assert.Contains(t, out, `"collector": "0.0.98"`)

	out, err = run(t, "", "--conf", conf, "schedules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"token": "0.0.5001"`)

	out, err = run(t, "", "--conf", conf, "aliases", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"account": "0.0.1234"`)

	instruction := `{"token_transfers":[{"token":"0.0.5001","transfers":[
		{"account":"0x0101010101010101010101010101010101010101","amount":-10},
		{"account":"0.0.1003","amount":10}]}]}`
	file := filepath.Join(t.TempDir(), "op.json")
	require.NoError(t, os.WriteFile(file, []byte(instruction), 0o600))

	out, err = run(t, "", "--conf", conf, "assess", "--payer", "0.0.1001", file)
	require.NoError(t, err)

	var record struct {
		Code         string `json:"code"`
		AssessedFees []struct {
			Collector       string   `json:"collector"`
			Units           int64    `json:"units"`
			EffectivePayers []string `json:"effective_payers"`
		} `json:"assessed_custom_fees"`
		Resolutions []struct {
			Account string `json:"account"`
		} `json:"resolutions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "OK", record.Code)
	require.Len(t, record.AssessedFees, 1)
	assert.Equal(t, int64(3), record.AssessedFees[0].Units)
	require.Len(t, record.Resolutions, 1)
	assert.Equal(t, "0.0.1234", record.Resolutions[0].Account)
}

func TestCommandErrors(t *testing.T) {
	conf := writeTestConfig(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"missing payer", "{}", []string{"--conf", conf, "assess"}},
		{"bad payer", "{}", []string{"--conf", conf, "assess", "--payer", "nope"}},
		{"bad instruction", "[", []string{"--conf", conf, "assess", "--payer", "0.0.1"}},
		{"bad schedule", `[{"token":"0.0.7","fees":[{"kind":"mystery"}]}]`, []string{"--conf", conf, "schedules", "import"}},
		{"bad token", "", []string{"--conf", conf, "schedules", "show", "x"}},
		{"bad alias", `{"zz":"0.0.1"}`, []string{"--conf", conf, "aliases", "import"}},
		{"missing config", "", []string{"--conf", "/does/not/exist.toml", "schedules", "list"}},
		{"bad log level", "", []string{"--conf", conf, "--log-level", "loud", "schedules", "list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
		})
	}
}
