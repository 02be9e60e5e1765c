// Package export owns the media assembly pipeline and the per-request temp
// workspaces backing it.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Workspace directory prefixes, one per operation kind.
const (
	ExportPrefix = "video-export-"
	FramePrefix  = "frame-extract-"
)

// Workspace is an isolated temp directory for one export or extraction
// request, keyed by a fresh random id. Concurrent requests are safe by
// construction: the filesystem namespace is partitioned by id.
type Workspace struct {
	ID  string
	Dir string
}

// NewWorkspace creates a workspace under root (the OS temp dir when root is
// empty) with the given prefix.
func NewWorkspace(root, prefix string) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	id := uuid.NewString()
	dir := filepath.Join(root, prefix+id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	slog.Debug("workspace created", "id", id, "dir", dir)
	return &Workspace{ID: id, Dir: dir}, nil
}

// Lookup resolves an existing workspace by id. The id must parse as a UUID so
// a crafted id cannot escape the workspace root.
func Lookup(root, prefix, id string) (*Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid workspace id: %w", err)
	}
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, prefix+id)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("workspace not found: %w", err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// Path returns the path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() {
	if err := os.RemoveAll(w.Dir); err != nil {
		slog.Warn("workspace cleanup failed", "id", w.ID, "err", err)
		return
	}
	slog.Debug("workspace removed", "id", w.ID)
}

// Sweep deletes workspaces under root older than ttl. Never-downloaded
// exports would otherwise leak for the life of the host.
func Sweep(root string, ttl time.Duration) {
	if root == "" {
		root = os.TempDir()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		slog.Warn("janitor cannot read workspace root", "root", root, "err", err)
		return
	}

	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, ExportPrefix) && !strings.HasPrefix(name, FramePrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		dir := filepath.Join(root, name)
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("janitor failed to remove workspace", "dir", dir, "err", err)
			continue
		}
		slog.Info("janitor removed stale workspace", "dir", dir)
	}
}

// Janitor sweeps stale workspaces on an interval until ctx is cancelled.
func Janitor(ctx context.Context, root string, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Sweep(root, ttl)
		}
	}
}
