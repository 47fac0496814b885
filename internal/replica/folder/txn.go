package folder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

const (
	tmpSuffix  = ".tmp"
	prevSuffix = ".prev"
)

type opKind int

const (
	opWrite opKind = iota
	opMkdir
	opMove
)

type op struct {
	kind opKind
	path string // written file, created dir or move destination
	from string // move source
	prev string // displaced file kept for rollback
}

// Txn groups folder changes so they can be undone together.
type Txn struct {
	f      *Folder
	ops    []op
	closed bool
}

// Begin starts a transaction.
func (f *Folder) Begin() *Txn {
	return &Txn{f: f}
}

// Write stores data under name. The file is written to a temporary name,
// synced and renamed into place. An existing file is set aside and
// restored on Rollback.
func (t *Txn) Write(ctx context.Context, name string, data []byte) (int64, error) {
	if err := t.usable(ctx); err != nil {
		return 0, err
	}

	if err := t.f.checkScratch(name); err != nil {
		return 0, err
	}

	final := t.f.Path(name)
	tmp := final + tmpSuffix

	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, staleTmp(tmp).WithCause(err)
		}
		return 0, fmt.Errorf("folder: create %s: %w", filepath.Base(tmp), err)
	}
	n, err := file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("folder: write %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("folder: sync %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("folder: close %s: %w", name, err)
	}

	o := op{kind: opWrite, path: final}
	if _, err := os.Lstat(final); err == nil {
		o.prev = final + prevSuffix
		if err := os.Rename(final, o.prev); err != nil {
			os.Remove(tmp)
			return 0, fmt.Errorf("folder: set aside %s: %w", name, err)
		}
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		if o.prev != "" {
			os.Rename(o.prev, final)
		}
		return 0, fmt.Errorf("folder: rename %s: %w", name, err)
	}
	t.ops = append(t.ops, o)

	t.f.logger.Info("file written", "file", filepath.Base(final), "bytes", n)
	return int64(n), nil
}

// Mkdir creates the directory name. It must not exist yet.
func (t *Txn) Mkdir(ctx context.Context, name string) error {
	if err := t.usable(ctx); err != nil {
		return err
	}
	dir := t.f.Path(name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.ErrOutputConflict.WithDetailsf("%s already exists", dir).WithCause(err)
		}
		return fmt.Errorf("folder: mkdir %s: %w", name, err)
	}
	t.ops = append(t.ops, op{kind: opMkdir, path: dir})
	t.f.logger.Info("backup folder created", "dir", dir)
	return nil
}

// Move moves the folder file name into the folder sub-directory dir.
func (t *Txn) Move(ctx context.Context, name, dir string) error {
	if err := t.usable(ctx); err != nil {
		return err
	}
	from := t.f.Path(name)
	to := filepath.Join(t.f.Path(dir), filepath.Base(name))
	if _, err := os.Lstat(to); err == nil {
		return domain.ErrOutputConflict.WithDetailsf("%s already exists", to)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("folder: move %s: %w", name, err)
	}
	t.ops = append(t.ops, op{kind: opMove, path: to, from: from})
	t.f.logger.Info("file archived", "file", filepath.Base(name), "dir", dir)
	return nil
}

// Commit finishes the transaction and drops set-aside files.
func (t *Txn) Commit() error {
	if t.closed {
		return errors.New("folder: transaction already closed")
	}
	t.closed = true

	var errs []error
	for _, o := range t.ops {
		if o.kind == opWrite && o.prev != "" {
			if err := os.Remove(o.prev); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Rollback undoes every change of the transaction in reverse order. It is a
// no-op after Commit.
func (t *Txn) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	for i := len(t.ops) - 1; i >= 0; i-- {
		o := t.ops[i]
		var err error
		switch o.kind {
		case opWrite:
			err = os.Remove(o.path)
			if err == nil && o.prev != "" {
				err = os.Rename(o.prev, o.path)
			}
		case opMkdir:
			err = os.Remove(o.path)
		case opMove:
			err = os.Rename(o.path, o.from)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(t.ops) > 0 {
		t.f.logger.Warn("folder changes rolled back", "operations", len(t.ops))
	}
	return errors.Join(errs...)
}

// checkScratch reports an output conflict when the temporary or set-aside
// name of output name is already taken.
func (f *Folder) checkScratch(name string) error {
	final := f.Path(name)
	if _, err := os.Lstat(final + tmpSuffix); err == nil {
		return staleTmp(final + tmpSuffix)
	}
	if _, err := os.Lstat(final); err != nil {
		return nil
	}
	if _, err := os.Lstat(final + prevSuffix); err == nil {
		return domain.ErrOutputConflict.WithDetailsf(
			"%s already exists and would be overwritten when setting aside %s", final+prevSuffix, filepath.Base(final))
	}
	return nil
}

func staleTmp(path string) *domain.DomainError {
	return domain.ErrOutputConflict.WithDetailsf(
		"temporary file %s left by an interrupted run, remove it and retry", path)
}

func (t *Txn) usable(ctx context.Context) error {
	if t.closed {
		return errors.New("folder: transaction already closed")
	}
	return ctx.Err()
}
