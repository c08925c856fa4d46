// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestRelevantFile(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, nil, []string{"*_generated.tf"}, func([]string) {})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	cases := []struct {
		path string
		want bool
	}{
		{"envs/prod/terragrunt.hcl", true},
		{"stack/main.tf", true},
		{"stack/outputs_generated.tf", false},
		{"stack/readme.md", false},
		{"stack/variables.tfvars", false},
		{"terragrunt.hcl.bak", false},
	}
	for _, tc := range cases {
		if got := w.relevantFile(tc.path); got != tc.want {
			t.Errorf("relevantFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestDebouncedChangeBatch(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var batches [][]string
	done := make(chan struct{}, 1)

	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Two quick writes should collapse into one batch.
	if err := os.WriteFile(filepath.Join(dir, "main.tf"), []byte("# a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "terragrunt.hcl"), []byte("# b"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected one debounced batch, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("batch = %v, want both files", batches[0])
	}
}
