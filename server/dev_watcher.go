package server

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"
)

// devWatcherInterval controls how frequently the dev watcher checks for changes.
const devWatcherInterval = 500 * time.Millisecond

// startDevWatcher polls root, the on-disk templates and static files, and
// notifies reloader whenever its fingerprint changes. The returned function
// stops the watcher.
func startDevWatcher(root string, reloader *Reloader) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer reloader.Close()

		lastFingerprint, err := directoryFingerprint(root)
		if err != nil {
			slog.Error("Failed to read dev watcher directory", slog.String("root", root), slog.Any("err", err))
		}

		ticker := time.NewTicker(devWatcherInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fp, err := directoryFingerprint(root)
				if err != nil {
					slog.Error("Failed to scan dev watcher directory", slog.String("root", root), slog.Any("err", err))
					continue
				}

				if fp != lastFingerprint {
					lastFingerprint = fp
					slog.Debug("Dev watcher detected a change", slog.String("root", root))
					reloader.Notify()
				}
			}
		}
	}()

	return cancel
}

// directoryFingerprint hashes the relative path, size and modification time
// of every file below root.
func directoryFingerprint(root string) (string, error) {
	hasher := sha1.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if _, err = fmt.Fprintf(hasher, "%s:%d:%d;", relative, info.ModTime().UnixNano(), info.Size()); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
