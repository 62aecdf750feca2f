// internal/model/fingerprint.go
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ComputeFingerprint hashes the canonical training-data file set with
// SHA-256. Files are consumed in sorted name order so the result is
// deterministic regardless of the configured order; missing files are
// skipped rather than failing, matching the training pipeline. The
// fingerprint is the sole cache-reuse gate for persisted artifacts.
func ComputeFingerprint(dataDir string, files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, name := range sorted {
		f, err := os.Open(filepath.Join(dataDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("hashing %s: %w", name, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", name, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
