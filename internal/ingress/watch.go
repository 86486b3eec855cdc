package ingress

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"chipview/internal/layout"
)

const defaultDebounce = 100 * time.Millisecond

// FileWatcher pushes a payload file through the hook every time the host
// rewrites it. The directory is watched rather than the file, since hosts
// usually replace the file instead of writing it in place.
type FileWatcher struct {
	path     string
	d        Deliverer
	log      *slog.Logger
	debounce time.Duration
	ready    chan struct{}
	appReady <-chan struct{}
}

func NewFileWatcher(path string, d Deliverer, log *slog.Logger) *FileWatcher {
	if log == nil {
		log = slog.Default()
	}
	return &FileWatcher{path: path, d: d, log: log, debounce: defaultDebounce, ready: make(chan struct{})}
}

// Ready is closed once the watch is registered.
func (fw *FileWatcher) Ready() <-chan struct{} { return fw.ready }

// PushWhenReady pushes the file once when ch closes, so a file written
// before the viewer could take it, or present at startup, still lands.
func (fw *FileWatcher) PushWhenReady(ch <-chan struct{}) { fw.appReady = ch }

// Run watches until ctx is done.
func (fw *FileWatcher) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", fw.path, err)
	}
	defer w.Close()

	abs, err := filepath.Abs(fw.path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", fw.path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", fw.path, err)
	}
	close(fw.ready)
	fw.log.Info("watching payload file", "path", abs)

	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	appReady := fw.appReady
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-appReady:
			appReady = nil
			if _, err := os.Stat(abs); err == nil {
				fw.push(abs)
			}
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(fw.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fw.log.Error("watch error", "path", abs, "error", err)
		case <-timer.C:
			fw.push(abs)
		}
	}
}

func (fw *FileWatcher) push(path string) {
	p, err := layout.ReadFile(path)
	if err != nil {
		// a half-written file gets another write event shortly
		fw.log.Warn("read payload file", "path", path, "error", err)
		return
	}
	res := fw.d.Deliver("file", p)
	fw.log.Info("payload file pushed", "path", path, "outcome", res.Outcome.String(), "id", res.ID)
}
