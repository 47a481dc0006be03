package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirectoryFingerprint(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "templates", "index.gohtml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("a"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	first, err := directoryFingerprint(root)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	again, err := directoryFingerprint(root)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if first != again {
		t.Fatal("expected an unchanged directory to keep its fingerprint")
	}

	if err = os.WriteFile(path, []byte("ab"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	changed, err := directoryFingerprint(root)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if changed == first {
		t.Fatal("expected a changed file to change the fingerprint")
	}

	if _, err = directoryFingerprint(filepath.Join(root, "missing")); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestDevWatcherNotifiesAndCloses(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "style.css")
	if err := os.WriteFile(path, []byte("body{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	reloader := newReloader()
	_, ch := reloader.Subscribe()

	stop := startDevWatcher(root, reloader)
	defer stop()

	// The watcher takes its first fingerprint asynchronously, so keep
	// changing the file until a notification arrives.
	timeout := time.After(5 * time.Second)
	tick := time.NewTicker(2 * devWatcherInterval)
	defer tick.Stop()

	content := "body{}"
	for notified := false; !notified; {
		select {
		case _, ok := <-ch:
			if !ok {
				t.Fatal("channel closed before a notification")
			}
			notified = true
		case <-tick.C:
			content += " "
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-timeout:
			t.Fatal("timed out waiting for a reload notification")
		}
	}

	stop()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected the reloader to close once the watcher stops")
	}
}
