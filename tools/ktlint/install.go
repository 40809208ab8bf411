package ktlint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hallgrim/ktb"
)

// BinaryPath returns where Install places the binary for a version.
func BinaryPath(toolsDir, version string) string {
	return filepath.Join(toolsDir, version, Name)
}

// Install downloads the resolved ktlint distribution into toolsDir and
// returns the binary path. An existing install is reused. The binary is
// written next to its final name and renamed into place, so a failed
// download never leaves a half-written executable behind.
func Install(ctx context.Context, res ktb.Resolution, toolsDir string) (string, error) {
	binary := BinaryPath(toolsDir, res.Version.Raw)
	if _, err := os.Stat(binary); err == nil {
		return binary, nil
	}

	dir := filepath.Dir(binary)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create tool dir: %w", err)
	}

	url := res.Artifact.DownloadURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, Name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // Clean up on any failure below.

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		return "", fmt.Errorf("mark binary executable: %w", err)
	}
	if err := os.Rename(tmpPath, binary); err != nil {
		return "", fmt.Errorf("rename binary: %w", err)
	}
	return binary, nil
}
