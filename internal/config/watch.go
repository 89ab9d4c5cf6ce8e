package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// BoardSource hands out the current board config.
type BoardSource interface {
	Board() BoardConfig
}

// StaticBoard is a BoardSource that never changes.
type StaticBoard BoardConfig

func (s StaticBoard) Board() BoardConfig { return BoardConfig(s) }

// BoardWatcher reloads the board config file whenever it changes. A file
// that fails to load keeps the previous config in place.
type BoardWatcher struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[BoardConfig]
}

func NewBoardWatcher(path string, logger *zap.Logger) (*BoardWatcher, error) {
	cfg, err := LoadBoardConfig(path)
	if err != nil {
		return nil, err
	}
	w := &BoardWatcher{path: path, logger: logger}
	w.current.Store(&cfg)
	return w, nil
}

func (w *BoardWatcher) Board() BoardConfig {
	return *w.current.Load()
}

// Run watches the directory of the config file until ctx is done.
// Editors often replace files instead of writing them, so the directory is
// watched rather than the file itself.
func (w *BoardWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("board config watcher error", zap.Error(err))
		}
	}
}

func (w *BoardWatcher) reload() {
	cfg, err := LoadBoardConfig(w.path)
	if err != nil {
		w.logger.Warn("board config reload failed, keeping previous", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.current.Store(&cfg)
	w.logger.Info("board config reloaded", zap.String("path", w.path))
}
