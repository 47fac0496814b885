package folder

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

// WaitForIndex returns the index path, waiting up to timeout for one to
// appear in the folder. A zero timeout does not wait.
func (f *Folder) WaitForIndex(ctx context.Context, timeout time.Duration) (string, error) {
	path, err := f.FindIndex()
	if err == nil || timeout <= 0 || !errors.Is(err, domain.ErrIndexNotFound) {
		return path, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := w.Add(f.dir); err != nil {
		f.logger.Error("failed to watch folder", "path", f.dir, "error", err)
		return "", err
	}

	// The index may have landed between the first look and Add.
	if path, err := f.FindIndex(); err == nil {
		return path, nil
	}

	f.logger.Info("waiting for index", "folder", f.dir, "timeout", timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return "", domain.ErrIndexNotFound.WithDetails("folder watcher closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if ok, _ := filepath.Match(IndexPattern, filepath.Base(event.Name)); !ok {
				continue
			}
			f.logger.Debug("index appeared", "file", event.Name, "op", event.Op.String())
			if path, err := f.FindIndex(); err == nil {
				return path, nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return "", domain.ErrIndexNotFound.WithDetails("folder watcher closed")
			}
			f.logger.Error("folder watcher error", "error", err)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", domain.ErrIndexNotFound.WithDetailsf("no %s in %s after %s", IndexPattern, f.dir, timeout)
			}
			return "", ctx.Err()
		}
	}
}
