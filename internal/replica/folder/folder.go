package folder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
)

// IndexPattern matches replication index file names.
const IndexPattern = "hbrgrp.*.txt"

// Folder is a replica folder on the local filesystem.
type Folder struct {
	dir    string
	logger logger.Logger
}

// Open returns the Folder at dir. dir must be an existing directory.
func Open(dir string, log logger.Logger) (*Folder, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrIndexNotFound.WithDetailsf("folder %s does not exist", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.ErrIndexNotFound.WithDetailsf("%s is not a directory", dir)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Folder{dir: dir, logger: log}, nil
}

// Dir returns the folder path.
func (f *Folder) Dir() string {
	return f.dir
}

// Path returns the path of name inside the folder. Only the base name of
// name is used.
func (f *Folder) Path(name string) string {
	return filepath.Join(f.dir, filepath.Base(name))
}

// ReadFile reads a folder file by name. Index relative paths may carry a
// directory part; the file is always looked up by its base name.
func (f *Folder) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.Path(name))
}

// Exists reports whether name is present in the folder.
func (f *Folder) Exists(name string) bool {
	_, err := os.Lstat(f.Path(name))
	return err == nil
}

// FindIndex returns the path of the replication index. With several
// candidates the lexically first one wins.
func (f *Folder) FindIndex() (string, error) {
	matches, err := filepath.Glob(filepath.Join(f.dir, IndexPattern))
	if err != nil {
		return "", fmt.Errorf("glob index: %w", err)
	}
	if len(matches) == 0 {
		return "", domain.ErrIndexNotFound.WithDetailsf("no %s in %s", IndexPattern, f.dir)
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		f.logger.Warn("several index files found, using the first",
			"index", filepath.Base(matches[0]),
			"candidates", len(matches),
		)
	}
	return matches[0], nil
}

// Preflight checks that the outputs can be written and the sources archived
// into backupDir without clobbering anything.
func (f *Folder) Preflight(outputs, sources []string, backupDir string) error {
	if f.Exists(backupDir) {
		return domain.ErrOutputConflict.WithDetailsf("backup folder %s already exists", f.Path(backupDir))
	}

	src := make(map[string]bool, len(sources))
	for _, s := range sources {
		src[filepath.Base(s)] = true
	}
	seen := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		name := filepath.Base(o)
		if src[name] {
			return domain.ErrOutputConflict.WithDetailsf("output %s would overwrite a source file", name)
		}
		if name == filepath.Base(backupDir) {
			return domain.ErrOutputConflict.WithDetailsf("output %s collides with the backup folder", name)
		}
		if seen[name] {
			return domain.ErrOutputConflict.WithDetailsf("output %s produced twice", name)
		}
		seen[name] = true
		if err := f.checkScratch(name); err != nil {
			return err
		}
	}
	return nil
}
