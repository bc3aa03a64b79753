package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEquityPNG(t *testing.T) {
	t.Parallel()

	run := FromResult("RUN1", RunMeta{}, testResult(t))
	path := filepath.Join(t.TempDir(), "equity.png")

	require.NoError(t, WriteEquityPNG(path, "ACME equity", run.Equity))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8])
}

func TestWriteEquityPNGUndated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "equity.png")
	points := []EquityPoint{{Seq: 0, Value: 100}, {Seq: 1, Value: 105}, {Seq: 2, Value: 98}}

	require.NoError(t, WriteEquityPNG(path, "", points))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteEquityPNGEmpty(t *testing.T) {
	t.Parallel()

	assert.Error(t, WriteEquityPNG(filepath.Join(t.TempDir(), "x.png"), "", nil))
}
