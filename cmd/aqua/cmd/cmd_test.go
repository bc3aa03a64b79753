package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua-quant/aqua/market"
	"github.com/aqua-quant/aqua/risk"
)

const roundTripCSV = `date,close,signal
2024-01-02,100,BUY
2024-01-03,102,HOLD
2024-01-04,104,HOLD
2024-01-05,106,SELL
2024-01-08,105,HOLD
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

var runIDRe = regexp.MustCompile(`Recorded run ([0-9A-Z]{26})`)

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "aqua version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")
	assert.FileExists(t, path)

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Journal: sqlite")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "risk:\n  max_position_pct: 3\n")

	_, err := execute(t, "config", "validate", "-f", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, risk.ErrInvalidConfig)
}

func TestBacktestJournalsToSQLite(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "prices.csv", roundTripCSV)
	db := filepath.Join(dir, "runs.sqlite")
	org := filepath.Join(dir, "run.org")
	png := filepath.Join(dir, "equity.png")

	out, err := execute(t, "backtest", "--data", data, "--db", db, "--org", org, "--png", png, "--trades", "--symbol", "ACME")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol:        ACME")
	assert.Contains(t, out, "Trades:        2")
	assert.Regexp(t, `2024-01-05\s+SELL`, out)
	assert.FileExists(t, org)
	assert.FileExists(t, png)

	m := runIDRe.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	runID := m[1]

	out, err = execute(t, "journal", "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "ACME")

	out, err = execute(t, "journal", "show", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Run "+runID)
	assert.Contains(t, out, ":KIND: BUY")
	assert.Contains(t, out, ":KIND: SELL")

	out, err = execute(t, "journal", "day", "2024-01-05", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ":KIND: SELL")
	assert.NotContains(t, out, ":KIND: BUY")

	exported := filepath.Join(dir, "export.org")
	_, err = execute(t, "journal", "export", runID, "-o", exported, "--db", db)
	require.NoError(t, err)
	b, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(b), runID)

	out, err = execute(t, "journal", "rm", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Deleted run")

	_, err = execute(t, "journal", "show", runID, "--db", db)
	assert.Error(t, err)
}

func TestBacktestJournalsToCSV(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "prices.csv", roundTripCSV)
	trades := filepath.Join(dir, "trades.csv")
	equity := filepath.Join(dir, "equity.csv")

	out, err := execute(t, "backtest", "--data", data, "--trades-csv", trades, "--equity-csv", equity)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Recorded run")

	b, err := os.ReadFile(equity)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 6)
}

func TestBacktestConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "prices.csv", roundTripCSV)
	cfg := writeFile(t, dir, "aqua.yaml", fmt.Sprintf(`
risk:
  symbol: CFG
  stop_loss_pct: 0.08
data:
  path: %s
journal:
  type: none
`, data))

	out, err := execute(t, "--config", cfg, "backtest")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol:        CFG")
	assert.Contains(t, out, "Stop Loss:     8.00%")
	assert.NotContains(t, out, "Recorded run")

	out, err = execute(t, "--config", cfg, "backtest", "--stop-loss", "0.03", "--stops=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol:        CFG")
	assert.Contains(t, out, "Stop Loss:     off")
}

func TestBacktestErrors(t *testing.T) {
	_, err := execute(t, "backtest", "--journal", "none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data file")

	dir := t.TempDir()
	data := writeFile(t, dir, "prices.csv", roundTripCSV)
	_, err = execute(t, "backtest", "--data", data, "--journal", "none", "--max-position", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, risk.ErrInvalidConfig)

	bad := writeFile(t, dir, "bad.csv", "2024-01-02,100,BUY\n2024-01-01,101,HOLD\n")
	_, err = execute(t, "backtest", "--data", bad, "--journal", "none")
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrInvalidSeries)

	_, err = execute(t, "backtest", "--data", data, "--journal", "none", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestSweepPrintsGridInOrder(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "prices.csv", roundTripCSV)
	db := filepath.Join(dir, "runs.sqlite")

	out, err := execute(t, "sweep", "--data", data, "--stop-loss", "0.02,0.05", "--kelly=false,true", "--workers", "2", "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6, out)
	assert.Regexp(t, `^0\s+2\.00%\s+false`, lines[1])
	assert.Regexp(t, `^1\s+2\.00%\s+true`, lines[2])
	assert.Regexp(t, `^2\s+5\.00%\s+false`, lines[3])
	assert.Regexp(t, `^3\s+5\.00%\s+true`, lines[4])
	assert.Contains(t, lines[5], "✓ Recorded 4 runs")

	out, err = execute(t, "journal", "runs", "--db", db, "-n", "0")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)
}

func TestSignalsLabelsSeries(t *testing.T) {
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("date,close\n")
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		c := 100.0 + float64(i)
		if i >= 6 {
			c = 112 - float64(i)
		}
		fmt.Fprintf(&b, "%s,%g\n", day.AddDate(0, 0, i).Format(time.DateOnly), c)
	}
	data := writeFile(t, dir, "closes.csv", b.String())
	out := filepath.Join(dir, "labeled.parquet")

	stdout, err := execute(t, "signals", "--data", data, "--strategy", "momentum", "--lookback", "2", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Labeled 12 steps with momentum(2)")

	series, err := market.Load(out, "")
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, market.Hold, series[0].Signal)
	assert.Equal(t, market.Buy, series[3].Signal)
	assert.Equal(t, market.Sell, series[11].Signal)

	csvOut, err := execute(t, "signals", "--data", data, "--strategy", "momentum", "--lookback", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(csvOut, "date,close,signal\n"))

	_, err = execute(t, "signals", "--data", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no strategy")
}

func TestGrid(t *testing.T) {
	t.Parallel()

	base := risk.DefaultConfig()
	assert.Equal(t, []risk.Config{base}, grid(base, nil, nil, nil, nil))

	got := grid(base, []float64{0.02, 0.05}, []float64{0.01}, []string{"fixed", "atr"}, []bool{false, true})
	require.Len(t, got, 8)
	assert.Equal(t, 0.02, got[0].StopLossPct)
	assert.Equal(t, risk.StopFixed, got[0].StopMode)
	assert.False(t, got[0].UseKelly)
	assert.True(t, got[1].UseKelly)
	assert.Equal(t, risk.StopATR, got[2].StopMode)
	assert.Equal(t, 0.05, got[7].StopLossPct)
	assert.Equal(t, 0.01, got[7].MaxRiskPerTrade)
}

func TestRiskFlagsOnlyApplyWhenSet(t *testing.T) {
	t.Parallel()

	var f riskFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs, "kelly")
	fs.Bool("kelly", false, "")
	require.NoError(t, fs.Parse([]string{"--max-risk", "0.01", "--kelly"}))

	rc := risk.DefaultConfig()
	rc.Symbol = "KEEP"
	f.apply(fs, &rc)

	assert.Equal(t, "KEEP", rc.Symbol)
	assert.Equal(t, 0.01, rc.MaxRiskPerTrade)
	assert.False(t, rc.UseKelly)
}
