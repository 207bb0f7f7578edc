package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const rebuildDebounce = 300 * time.Millisecond

// DevCmd implements the 'dev' command: watch the project directory and
// re-run the project check whenever a file changes.
type DevCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Project directory"`
}

func (d *DevCmd) Run(g *Global, _ *CLI) error {
	abs, err := filepath.Abs(d.Dir)
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return fmt.Errorf("project dir not found or not a directory: %s", abs)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := runCheck(g.stdout(), abs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, abs); err != nil {
		return err
	}

	recheckReq, trigger := setupRecheckDebouncer()
	startRecheckWorker(ctx, g, abs, recheckReq)

	slog.Info("Watching for changes", "dir", abs)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down")
			close(recheckReq)
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", werr)
		}
	}
}

// setupRecheckDebouncer creates the re-check channel and a trigger
// function that coalesces bursts of events.
func setupRecheckDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	recheckReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDebounce, func() {
			select {
			case recheckReq <- struct{}{}:
			default:
			}
		})
	}

	return recheckReq, trigger
}

func startRecheckWorker(ctx context.Context, g *Global, dir string, recheckReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-recheckReq:
				if !ok {
					return
				}
				if _, err := runCheck(g.stdout(), dir); err != nil {
					slog.Error("check failed", "error", err)
				}
			}
		}
	}()
}

func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger a re-check.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") {
		return true
	}
	return false
}
