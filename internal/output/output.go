// Package output persists found results: one JSON file per address, an
// append-only run log and a success marker.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/screa/hashhunter/internal/logger"
	"github.com/screa/hashhunter/pkg/types"
)

// Record is the on-disk form of a found address
type Record struct {
	Address       string    `json:"address"`
	PrivateKey    string    `json:"privateKey"`
	TotalAttempts uint64    `json:"totalAttempts"`
	Verified      bool      `json:"verified"`
	Duration      string    `json:"duration"`
	FoundAt       time.Time `json:"foundAt"`
}

// Writer saves results under a directory
type Writer struct {
	dir           string
	logName       string
	successMarker string
}

// NewWriter creates the output directory if needed
func NewWriter(dir, logName, successMarker string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir, logName: logName, successMarker: successMarker}, nil
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// RunLog opens the append-only run log. The caller closes the file.
func (w *Writer) RunLog() (*logger.Logger, *os.File, error) {
	f, err := os.OpenFile(filepath.Join(w.dir, w.logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening run log: %w", err)
	}
	l := logger.NewWriter(f)
	l.SetFlags(logger.LstdFlags | logger.Lmicroseconds | logger.LUTC)
	return l, f, nil
}

// Save writes <dir>/<address>.json readable by the owner only, then the
// success marker. It returns the path of the JSON file.
func (w *Writer) Save(out *types.Outcome) (string, error) {
	if !out.Found() {
		return "", fmt.Errorf("nothing to save: run %s", out.Status)
	}
	r := out.Result

	rec := Record{
		Address:       r.Address,
		PrivateKey:    r.PrivateKey,
		TotalAttempts: r.Attempts,
		Verified:      out.Verified,
		Duration:      out.Duration.String(),
		FoundAt:       time.Now().UTC(),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, r.Address+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("writing result: %w", err)
	}

	if w.successMarker != "" {
		marker := filepath.Join(w.dir, w.successMarker)
		if err := os.WriteFile(marker, []byte("Found address: "+r.Address+"\n"), 0o600); err != nil {
			return path, fmt.Errorf("writing success marker: %w", err)
		}
	}
	return path, nil
}
