package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSink copies backups into a local directory. Useful for single-host
// deployments where "external" means another disk or a synced folder.
type DirSink struct {
	root string
}

// NewDirSink ensures root exists and returns a directory-backed sink.
func NewDirSink(root string) (*DirSink, error) {
	if root == "" {
		return nil, fmt.Errorf("backup directory required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &DirSink{root: root}, nil
}

// Put writes the object atomically: temp file first, then rename over the
// previous copy.
func (s *DirSink) Put(ctx context.Context, key string, data []byte) error {
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid backup key %q", key)
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write temp copy: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace copy: %w", err)
	}
	return nil
}

func (s *DirSink) Name() string { return "dir:" + s.root }
