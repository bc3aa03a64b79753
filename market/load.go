package market

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a series from path. format is "csv" or "parquet"; when empty it
// is taken from the file extension.
func Load(path, format string) (Series, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "csv":
		return LoadCSV(path)
	case "parquet", "pq":
		return LoadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported series format %q (csv, parquet)", format)
	}
}
