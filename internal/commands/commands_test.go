package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlockgrowth/intake/internal/commands"
)

func runIntakectl(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestScore(t *testing.T) {
	type testCase struct {
		name string
		args []string
		want string
	}

	tests := []testCase{
		{name: "no evidence", args: []string{"score"}, want: "Data Coverage: 0% (low)"},
		{name: "connected with receipts", args: []string{"score", "--bank", "--pos", "--receipts", "3"}, want: "Data Coverage: 61% (medium)"},
		{
			name: "everything",
			args: []string{"score", "--bank", "--pos", "--ratings", "--receipts", "9", "--bills", "1", "--rent", "2", "--invoices", "1", "--compliance", "1"},
			want: "Data Coverage: 100% (high)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runIntakectl(t, tc.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tc.want)
			assert.Contains(t, out, "Bank account connected")
		})
	}
}

func TestScore_RejectsNegativeCounts(t *testing.T) {
	_, err := runIntakectl(t, "score", "--bills", "-1")
	assert.Error(t, err)
}

func TestImport_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Amount\n2024-01-01,100\n2024-01-08,-40.25\n"), 0o644))

	out, err := runIntakectl(t, "import", path, "--json")
	require.NoError(t, err)

	var got struct {
		Entries []struct {
			Date    string `json:"date"`
			Inflow  string `json:"inflow"`
			Outflow string `json:"outflow"`
		} `json:"entries"`
		Totals struct {
			Net         string `json:"net"`
			WeeksLogged int    `json:"weeks_logged"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Entries, 2)
	assert.Equal(t, "40.25", got.Entries[1].Outflow)
	assert.Equal(t, "59.75", got.Totals.Net)
	assert.Equal(t, 2, got.Totals.WeeksLogged)
}

func TestImport_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Gross Sales,Refunds\n2024-02-05,800,15\n"), 0o644))

	out, err := runIntakectl(t, "import", path, "--source", "pos")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-02-05")
	assert.Contains(t, out, "Net: $785.00")
}

func TestImport_Errors(t *testing.T) {
	_, err := runIntakectl(t, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Amount\n"), 0o644))

	_, err = runIntakectl(t, "import", path, "--source", "ledger")
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	out, err := runIntakectl(t, "chat", "What", "documents", "do", "I", "need?")
	require.NoError(t, err)
	assert.Contains(t, out, "Basic identification")

	out, err = runIntakectl(t, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "What would you like to know?")
	assert.Contains(t, out, "  - Explain loan terms")
}
