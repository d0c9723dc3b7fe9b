package keystore

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// osFS is an absfs.FileSystem over the host filesystem. Names are host paths
// and are passed to the os package unchanged.
type osFS struct {
	cwd string
}

// NewOSFS returns a filesystem backed by the os package
func NewOSFS() absfs.FileSystem {
	return &osFS{}
}

func (f *osFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (f *osFS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(name, perm)
}

func (f *osFS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (f *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (f *osFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (f *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (f *osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (f *osFS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (f *osFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (f *osFS) Chown(name string, uid, gid int) error {
	return os.Chown(name, uid, gid)
}

func (f *osFS) Separator() uint8 {
	return os.PathSeparator
}

func (f *osFS) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (f *osFS) Chdir(dir string) error {
	f.cwd = dir
	return nil
}

func (f *osFS) Getwd() (string, error) {
	if f.cwd == "" {
		return os.Getwd()
	}
	return f.cwd, nil
}

func (f *osFS) TempDir() string {
	return os.TempDir()
}

func (f *osFS) Open(name string) (absfs.File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

func (f *osFS) Create(name string) (absfs.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (f *osFS) Truncate(name string, size int64) error {
	return os.Truncate(name, size)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// readFile reads the whole file. A missing file returns nil and no error.
func readFile(fsys absfs.FileSystem, path string) ([]byte, error) {
	if _, err := fsys.Stat(path); err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, NewFilesystemError("stat", path, err)
	}

	file, err := fsys.Open(path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, NewFilesystemError("open", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, NewFilesystemError("read", path, err)
	}
	return data, nil
}

// ensureParentDir creates every missing parent directory of path
func ensureParentDir(fsys absfs.FileSystem, path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if _, err := fsys.Stat(dir); err == nil {
		return nil
	}
	if err := fsys.MkdirAll(dir, perm); err != nil {
		return NewFilesystemError("mkdir", dir, err)
	}
	return nil
}

// writeFileAtomic writes data to a uniquely named temporary file next to path
// and renames it over path. Readers see either the old or the new content;
// on failure the temporary file is removed and path is untouched.
func writeFileAtomic(fsys absfs.FileSystem, path string, data []byte, perm os.FileMode) (err error) {
	tmp := path + ".tmp-" + uuid.New().String()

	file, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return NewFilesystemError("create", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp)
		}
	}()

	if _, err = file.Write(data); err != nil {
		_ = file.Close()
		return NewFilesystemError("write", tmp, err)
	}
	if err = file.Sync(); err != nil {
		_ = file.Close()
		return NewFilesystemError("sync", tmp, err)
	}
	if err = file.Close(); err != nil {
		return NewFilesystemError("close", tmp, err)
	}
	if err = fsys.Rename(tmp, path); err != nil {
		return NewFilesystemError("rename", path, err)
	}
	return nil
}
