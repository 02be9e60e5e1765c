package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWorkspaceLifecycle(t *testing.T) {
	root := t.TempDir()

	ws, err := NewWorkspace(root, ExportPrefix)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if _, err := os.Stat(ws.Dir); err != nil {
		t.Fatalf("workspace directory missing: %v", err)
	}

	if err := os.WriteFile(ws.Path("output.mp4"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	found, err := Lookup(root, ExportPrefix, ws.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found.Dir != ws.Dir {
		t.Errorf("Lookup dir = %s, want %s", found.Dir, ws.Dir)
	}

	ws.Remove()
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Error("workspace should be gone after Remove")
	}
}

func TestLookup_RejectsNonUUID(t *testing.T) {
	root := t.TempDir()

	// A crafted id must not escape the workspace root.
	for _, id := range []string{"../../etc", "not-a-uuid", ""} {
		if _, err := Lookup(root, ExportPrefix, id); err == nil {
			t.Errorf("Lookup(%q) should fail", id)
		}
	}
}

func TestLookup_MissingWorkspace(t *testing.T) {
	root := t.TempDir()
	if _, err := Lookup(root, ExportPrefix, "123e4567-e89b-12d3-a456-426614174000"); err == nil {
		t.Error("expected error for unknown workspace id")
	}
}

func TestSweep(t *testing.T) {
	root := t.TempDir()

	stale, err := NewWorkspace(root, ExportPrefix)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	fresh, err := NewWorkspace(root, FramePrefix)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	unrelated := filepath.Join(root, "keep-me")
	if err := os.MkdirAll(unrelated, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Age the stale workspace past the TTL.
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale.Dir, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	Sweep(root, time.Hour)

	if _, err := os.Stat(stale.Dir); !os.IsNotExist(err) {
		t.Error("stale workspace should be swept")
	}
	if _, err := os.Stat(fresh.Dir); err != nil {
		t.Error("fresh workspace should survive the sweep")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated directories must never be swept")
	}
}
