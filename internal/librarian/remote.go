package librarian

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// isRemoteLocator reports whether path names a remote git repository
// rather than something on the local filesystem.
func isRemoteLocator(path string) bool {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "git@") || strings.HasPrefix(path, "ssh://") {
		return true
	}
	if !strings.HasSuffix(path, ".git") {
		return false
	}
	_, err := os.Stat(path)
	return err != nil
}

// fetchRemote clones url into a fresh temporary directory. The caller
// must invoke cleanup once the contents are no longer needed.
func fetchRemote(ctx context.Context, url string) (dir string, cleanup func(), err error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", nil, fmt.Errorf("git is required to fetch %s: %w", url, err)
	}
	dir, err = os.MkdirTemp("", "librarian-fetch-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone %s: %w: %s", url, err, strings.TrimSpace(string(out)))
	}
	return dir, cleanup, nil
}
