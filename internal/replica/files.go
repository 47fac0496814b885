package replica

import (
	"path"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica/index"
)

// File types of instance.<i>.file.<j>.fileType.
const (
	FileTypeConfig   = "0"
	FileTypeFirmware = "2"
)

// FileRef is one file entry of a restore point.
type FileRef struct {
	// Key is the entry's index key under instance.<i>.file.
	Key          string
	Type         string
	RelativePath string
}

// Name returns the file name inside the replica folder.
func (f FileRef) Name() string {
	return path.Base(f.RelativePath)
}

// Files lists the file entries of restore point i in index order.
func Files(tree *index.Tree, i int) ([]FileRef, error) {
	base := index.Path("instance", i, "file")
	keys := tree.Children(base)

	files := make([]FileRef, 0, len(keys))
	for _, k := range keys {
		ft, err := tree.String(index.Path(base, k, "fileType"))
		if err != nil {
			return nil, err
		}
		rel, err := tree.String(index.Path(base, k, "path", "relpath"))
		if err != nil {
			return nil, err
		}
		files = append(files, FileRef{Key: k, Type: ft, RelativePath: rel})
	}
	return files, nil
}

// FileOfType returns the single entry of the given type. None or more than
// one is a structural error.
func FileOfType(files []FileRef, fileType string, i int) (FileRef, error) {
	var (
		found FileRef
		n     int
	)
	for _, f := range files {
		if f.Type == fileType {
			found = f
			n++
		}
	}
	switch n {
	case 1:
		return found, nil
	case 0:
		return FileRef{}, domain.ErrIndexStructure.WithDetailsf(
			"restore point %d has no file of type %s", i, fileType)
	default:
		return FileRef{}, domain.ErrIndexStructure.WithDetailsf(
			"restore point %d has %d files of type %s", i, n, fileType)
	}
}
