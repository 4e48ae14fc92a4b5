package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	batches := make(chan []string, 4)

	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		batches <- paths
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("failed to start watching: %v", err)
	}

	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	if err := os.WriteFile(a, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("class B {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-batches:
		seen := make(map[string]bool, len(paths))
		for _, p := range paths {
			seen[p] = true
		}
		if !seen[a] || !seen[b] {
			t.Errorf("expected both files in one debounced batch, got %v", paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}
}

func TestWatcherSkipsExcludedFiles(t *testing.T) {
	dir := t.TempDir()
	batches := make(chan []string, 4)

	w, err := NewWatcher(100*time.Millisecond, nil, []string{"*Generated.java"}, func(paths []string) {
		batches <- paths
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("failed to start watching: %v", err)
	}

	for _, name := range []string{"PetTest.java", "PetSpec.java", "PetGenerated.java"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("class X {}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-batches:
		t.Errorf("expected no batch for excluded files, got %v", paths)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestShouldExcludeDir(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, []string{".git", "build"}, nil, func([]string) {})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if !w.shouldExcludeDir("/project/build") {
		t.Error("expected build to be excluded")
	}
	if w.shouldExcludeDir("/project/src") {
		t.Error("expected src not to be excluded")
	}
}
