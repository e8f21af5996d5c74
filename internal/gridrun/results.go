package gridrun

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

// JobResult records the outcome of one sweep point in the shared results
// file.
type JobResult struct {
	Label      string  `json:"label"`
	OutputPath string  `json:"output_path"`
	Status     string  `json:"status"`
	Message    string  `json:"message,omitempty"`
	Fallback   bool    `json:"fallback_used,omitempty"`
	Seconds    float64 `json:"seconds"`
}

const lockTimeout = 30 * time.Second

// AppendResult adds one result to the JSON array at path. A file lock
// serializes writers so concurrent sweep processes can share the file.
func AppendResult(path string, result JobResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock results file: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock results file: timed out after %s", lockTimeout)
	}
	defer lock.Unlock()

	var results []JobResult
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &results); err != nil {
			return fmt.Errorf("parse existing results: %w", err)
		}
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read results file: %w", err)
	}

	results = append(results, result)
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return os.Rename(tmp, path)
}

// ReadResults loads the results array at path, returning an empty slice
// when the file does not exist yet.
func ReadResults(path string) ([]JobResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var results []JobResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return results, nil
}
